package trainer

import "github.com/neurlang/hillclimb/datasets"
import "github.com/neurlang/hillclimb/errs"
import "github.com/neurlang/hillclimb/inference"
import "github.com/neurlang/hillclimb/parallel"
import "github.com/neurlang/hillclimb/weights"

// Evaluator measures accuracy, scoring samples on Threads goroutines.
// Zero Threads means parallel.Threads().
type Evaluator struct {
	Threads int
}

// Check verifies that ds can be scored by w.
func Check(ds datasets.Dataset, w *weights.Matrix) error {
	if len(ds) == 0 {
		return errs.Config(errs.EmptyDataset)
	}
	if w == nil {
		return errs.Config("nil weights")
	}
	var pixels = ds.Pixels()
	if pixels < 0 {
		return errs.Config("samples differ in pixel count")
	}
	if err := w.Check(w.Classes(), pixels); err != nil {
		return err
	}
	for i, s := range ds {
		if s.Label() < 0 || s.Label() >= w.Classes() {
			return errs.Configf("sample %d: label %d out of %d classes", i, s.Label(), w.Classes())
		}
	}
	return nil
}

// Correct counts the samples classified correctly, without checking.
func (e Evaluator) Correct(ds datasets.Dataset, w *weights.Matrix) int {
	var threads = e.Threads
	if threads <= 0 {
		threads = parallel.Threads()
	}
	return parallel.Count(len(ds), threads, func(i int) bool {
		return inference.Classify(ds[i].Pixels(), w) == ds[i].Label()
	})
}

func (e Evaluator) accuracy(ds datasets.Dataset, w *weights.Matrix) float64 {
	return float64(e.Correct(ds, w)) / float64(len(ds))
}

// Accuracy returns the fraction of ds classified correctly by w.
func (e Evaluator) Accuracy(ds datasets.Dataset, w *weights.Matrix) (float64, error) {
	if err := Check(ds, w); err != nil {
		return 0, err
	}
	return e.accuracy(ds, w), nil
}

// Accuracy is Evaluator.Accuracy on all logical cores.
func Accuracy(ds datasets.Dataset, w *weights.Matrix) (float64, error) {
	return Evaluator{}.Accuracy(ds, w)
}
