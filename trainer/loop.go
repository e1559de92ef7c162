package trainer

import "context"
import "log"
import "math/rand"

import "github.com/neurlang/hillclimb/datasets"
import "github.com/neurlang/hillclimb/errs"
import "github.com/neurlang/hillclimb/weights"

// Progress receives the step index and the new accuracy of every accepted candidate.
type Progress func(step int, score float64)

// Options tunes Train. The zero value reproduces the plain fixed budget search.
type Options struct {
	Evaluator Evaluator

	// Resolution is the number of intervals the perturbation range [-1, 1]
	// is split into (default: 100, that is 101 distinct values)
	Resolution int

	// Patience stops the search after this many consecutive rejected steps.
	// 0 never stops early.
	Patience int

	Progress Progress

	// Logger receives the accuracy before and after training. nil is silent.
	Logger *log.Logger
}

// Result is the outcome of Train.
type Result struct {
	Weights  *weights.Matrix
	Initial  float64 // accuracy of the initial weights
	Score    float64 // accuracy of Weights
	Steps    int     // steps executed
	Accepted int     // candidates accepted

	Stopped bool // the context was done before the step budget ran out
	Plateau bool // Patience ran out
}

// Perturber adds uniform noise from a grid of Resolution+1 points on [-1, 1].
type Perturber struct {
	Resolution int
}

func (p Perturber) resolution() int {
	if p.Resolution <= 0 {
		return 100
	}
	return p.Resolution
}

// Draw returns one noise value.
func (p Perturber) Draw(rng *rand.Rand) float64 {
	var r = p.resolution()
	return 2*float64(rng.Intn(r+1))/float64(r) - 1
}

// Perturb returns a copy of w with noise added to every weight, drawn
// class by class in pixel order.
func (p Perturber) Perturb(w *weights.Matrix, rng *rand.Rand) *weights.Matrix {
	var candidate = w.Clone()
	for c := 0; c < candidate.Classes(); c++ {
		var row = candidate.Row(c)
		for i := range row {
			row[i] += p.Draw(rng)
		}
	}
	return candidate
}

// Train runs steps rounds of hill climbing from initial and returns the
// best weights found. The context is checked between steps; when it is done
// the best weights so far are returned with Stopped set and a nil error.
// initial is not modified.
func Train(ctx context.Context, ds datasets.Dataset, initial *weights.Matrix, steps int, rng *rand.Rand, opts Options) (Result, error) {
	if steps < 0 {
		return Result{}, errs.Configf("%d steps", steps)
	}
	if rng == nil {
		return Result{}, errs.Config("nil random generator")
	}
	if err := Check(ds, initial); err != nil {
		return Result{}, err
	}
	var perturber = Perturber{Resolution: opts.Resolution}

	var current = initial
	var score = opts.Evaluator.accuracy(ds, current)
	var res = Result{Initial: score}
	if opts.Logger != nil {
		opts.Logger.Printf("score before training: %.2f%%", 100*score)
	}

	var rejected int
	for step := 0; step < steps; step++ {
		if ctx.Err() != nil {
			res.Stopped = true
			break
		}
		if opts.Patience > 0 && rejected >= opts.Patience {
			res.Plateau = true
			break
		}
		// nothing beats a perfect score
		if score >= 1 {
			break
		}
		res.Steps++

		var candidate = perturber.Perturb(current, rng)
		var candidateScore = opts.Evaluator.accuracy(ds, candidate)
		if candidateScore > score {
			current, score = candidate, candidateScore
			res.Accepted++
			rejected = 0
			if opts.Progress != nil {
				opts.Progress(step, score)
			}
		} else {
			rejected++
		}
	}

	res.Weights, res.Score = current, score
	if opts.Logger != nil {
		opts.Logger.Printf("score after %d steps (%d accepted): %.2f%%", res.Steps, res.Accepted, 100*score)
	}
	return res, nil
}
