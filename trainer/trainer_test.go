package trainer

import "bytes"
import "context"
import "log"
import "math/rand"
import "path/filepath"
import "strings"
import "testing"

import "github.com/neurlang/hillclimb/datasets"
import "github.com/neurlang/hillclimb/errs"
import "github.com/neurlang/hillclimb/inference"
import "github.com/neurlang/hillclimb/weights"

func dataset(t *testing.T, images [][]uint8, labels []uint8) datasets.Dataset {
	t.Helper()
	ds, err := datasets.Assemble(images, labels)
	if err != nil {
		t.Fatal(err)
	}
	return ds
}

func matrix(t *testing.T, rows [][]float64) *weights.Matrix {
	t.Helper()
	w, err := weights.FromRows(rows)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

// two separable clusters per class
func separable(t *testing.T) datasets.Dataset {
	return dataset(t,
		[][]uint8{{10, 0}, {0, 10}, {5, 1}, {1, 5}, {9, 2}, {2, 9}},
		[]uint8{0, 1, 0, 1, 0, 1})
}

// noisy 3 class set that no linear model fits perfectly
func noisy(t *testing.T, n int, seed int64) datasets.Dataset {
	rng := rand.New(rand.NewSource(seed))
	var images [][]uint8
	var labels []uint8
	for i := 0; i < n; i++ {
		var img = make([]uint8, 6)
		for j := range img {
			img[j] = uint8(rng.Intn(256))
		}
		images = append(images, img)
		labels = append(labels, uint8(rng.Intn(3)))
	}
	return dataset(t, images, labels)
}

func TestAccuracyScenario(t *testing.T) {
	ds := dataset(t, [][]uint8{{0, 0}, {1, 1}}, []uint8{0, 1})
	acc, err := Accuracy(ds, matrix(t, [][]float64{{1, 0}, {0, 1}}))
	if err != nil {
		t.Fatal(err)
	}
	if acc != 0.5 {
		t.Errorf("accuracy %v", acc)
	}
}

func TestAccuracyAllOrNothing(t *testing.T) {
	ds := noisy(t, 200, 1)
	w := matrix(t, [][]float64{{1, -1, 2, 0, 0, 1}, {0, 2, -1, 1, 0, 0}, {-1, 0, 0, 0, 3, 1}})
	var right, wrong []uint8
	var images [][]uint8
	for _, s := range ds {
		c := inference.Classify(s.Pixels(), w)
		images = append(images, s.Pixels())
		right = append(right, uint8(c))
		wrong = append(wrong, uint8((c+1)%3))
	}
	if acc, err := Accuracy(dataset(t, images, right), w); err != nil || acc != 1.0 {
		t.Errorf("all correct: %v %v", acc, err)
	}
	if acc, err := Accuracy(dataset(t, images, wrong), w); err != nil || acc != 0.0 {
		t.Errorf("all wrong: %v %v", acc, err)
	}
}

func TestAccuracyParallelMatchesSequential(t *testing.T) {
	ds := noisy(t, 1000, 2)
	w := Perturber{}.Perturb(matrix(t, make3x6()), rand.New(rand.NewSource(5)))
	want, err := Evaluator{Threads: 1}.Accuracy(ds, w)
	if err != nil {
		t.Fatal(err)
	}
	for _, threads := range []int{0, 2, 3, 64} {
		got, _ := Evaluator{Threads: threads}.Accuracy(ds, w)
		if got != want {
			t.Errorf("threads %d: %v != %v", threads, got, want)
		}
	}
}

func make3x6() [][]float64 {
	return [][]float64{make([]float64, 6), make([]float64, 6), make([]float64, 6)}
}

func TestAccuracyErrors(t *testing.T) {
	w := matrix(t, [][]float64{{1, 0}, {0, 1}})
	if _, err := Accuracy(nil, w); !errs.IsConfig(err) || errs.Message(err) != errs.EmptyDataset {
		t.Errorf("empty: %v", err)
	}
	if _, err := Accuracy(dataset(t, [][]uint8{{1, 2, 3}}, []uint8{0}), w); !errs.IsConfig(err) {
		t.Errorf("pixel mismatch: %v", err)
	}
	if _, err := Accuracy(dataset(t, [][]uint8{{1, 2}}, []uint8{2}), w); !errs.IsConfig(err) {
		t.Errorf("label out of range: %v", err)
	}
	if _, err := Accuracy(dataset(t, [][]uint8{{1, 2}, {1}}, []uint8{0, 0}), w); !errs.IsConfig(err) {
		t.Errorf("ragged: %v", err)
	}
}

func TestPerturberGrid(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	var seen = map[float64]bool{}
	for i := 0; i < 20000; i++ {
		v := Perturber{}.Draw(rng)
		if v < -1 || v > 1 {
			t.Fatalf("draw %v out of range", v)
		}
		seen[v] = true
	}
	if len(seen) != 101 || !seen[-1] || !seen[1] || !seen[0] {
		t.Errorf("%d distinct values", len(seen))
	}
	seen = map[float64]bool{}
	for i := 0; i < 1000; i++ {
		seen[Perturber{Resolution: 2}.Draw(rng)] = true
	}
	if len(seen) != 3 {
		t.Errorf("resolution 2: %v", seen)
	}
}

func TestPerturbIsAdditiveCopy(t *testing.T) {
	w := matrix(t, [][]float64{{100, 100}, {-100, -100}})
	c := Perturber{}.Perturb(w, rand.New(rand.NewSource(1)))
	if w.At(0, 0) != 100 || w.At(1, 1) != -100 {
		t.Fatalf("original modified")
	}
	for cl := 0; cl < 2; cl++ {
		for i := 0; i < 2; i++ {
			if d := c.At(cl, i) - w.At(cl, i); d < -1 || d > 1 {
				t.Errorf("delta %v", d)
			}
		}
	}
}

func TestTrainLearnsSeparable(t *testing.T) {
	ds := separable(t)
	w0, _ := weights.New(2, 2)
	var events []float64
	res, err := Train(context.Background(), ds, w0, 2000, rand.New(rand.NewSource(1)), Options{
		Progress: func(step int, score float64) { events = append(events, score) },
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Initial != 0.5 || res.Score != 1 {
		t.Errorf("initial %v score %v", res.Initial, res.Score)
	}
	if len(events) != res.Accepted || len(events) == 0 {
		t.Fatalf("%d events, %d accepted", len(events), res.Accepted)
	}
	for i := 1; i < len(events); i++ {
		if events[i] <= events[i-1] {
			t.Errorf("progress not strictly increasing: %v", events)
		}
	}
	if acc, _ := Accuracy(ds, res.Weights); acc != res.Score {
		t.Errorf("reported %v, measured %v", res.Score, acc)
	}
	if w0.At(0, 0) != 0 || w0.At(1, 1) != 0 {
		t.Errorf("initial weights modified")
	}
}

func TestTrainMonotone(t *testing.T) {
	ds := noisy(t, 300, 3)
	for seed := int64(0); seed < 5; seed++ {
		w0 := Perturber{}.Perturb(matrix(t, make3x6()), rand.New(rand.NewSource(seed+100)))
		before, _ := Accuracy(ds, w0)
		for _, steps := range []int{0, 1, 10, 50} {
			res, err := Train(context.Background(), ds, w0, steps, rand.New(rand.NewSource(seed)), Options{})
			if err != nil {
				t.Fatal(err)
			}
			after, _ := Accuracy(ds, res.Weights)
			if after < before {
				t.Errorf("seed %d steps %d: %v < %v", seed, steps, after, before)
			}
			if steps == 0 && res.Weights != w0 {
				t.Errorf("zero steps changed weights")
			}
		}
	}
}

func TestTrainReproducible(t *testing.T) {
	ds := noisy(t, 300, 4)
	run := func(threads int) (Result, []int) {
		var steps []int
		w0, _ := weights.New(3, 6)
		res, err := Train(context.Background(), ds, w0, 100, rand.New(rand.NewSource(42)), Options{
			Evaluator: Evaluator{Threads: threads},
			Progress:  func(step int, _ float64) { steps = append(steps, step) },
		})
		if err != nil {
			t.Fatal(err)
		}
		return res, steps
	}
	a, sa := run(1)
	b, sb := run(8)
	if !a.Weights.EqualApprox(b.Weights, 0) || a.Score != b.Score {
		t.Errorf("runs differ: %v vs %v", a.Score, b.Score)
	}
	if len(sa) != len(sb) {
		t.Fatalf("events differ: %v vs %v", sa, sb)
	}
	for i := range sa {
		if sa[i] != sb[i] {
			t.Errorf("events differ: %v vs %v", sa, sb)
		}
	}
}

func TestTrainCancelled(t *testing.T) {
	ds := noisy(t, 50, 5)
	w0, _ := weights.New(3, 6)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Train(ctx, ds, w0, 1000, rand.New(rand.NewSource(1)), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Stopped || res.Steps != 0 || res.Weights != w0 {
		t.Errorf("cancelled run: %+v", res)
	}
}

func TestTrainCancelledMidway(t *testing.T) {
	ds := noisy(t, 50, 6)
	w0, _ := weights.New(3, 6)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var last *float64
	res, err := Train(ctx, ds, w0, 1000000, rand.New(rand.NewSource(1)), Options{
		Progress: func(step int, score float64) {
			last = &score
			cancel()
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Stopped || last == nil || res.Accepted != 1 || res.Score != *last {
		t.Errorf("cancelled run: %+v", res)
	}
}

func TestTrainPatience(t *testing.T) {
	ds := noisy(t, 100, 7)
	w0, _ := weights.New(3, 6)
	res, err := Train(context.Background(), ds, w0, 100000, rand.New(rand.NewSource(1)), Options{Patience: 5})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Plateau || res.Steps >= 100000 {
		t.Errorf("patience ignored: %+v", res)
	}
}

func TestTrainErrors(t *testing.T) {
	ds := separable(t)
	w0, _ := weights.New(2, 2)
	rng := rand.New(rand.NewSource(1))
	if _, err := Train(context.Background(), ds, w0, -1, rng, Options{}); !errs.IsConfig(err) {
		t.Errorf("negative steps: %v", err)
	}
	if _, err := Train(context.Background(), ds, w0, 1, nil, Options{}); !errs.IsConfig(err) {
		t.Errorf("nil rng: %v", err)
	}
	if _, err := Train(context.Background(), nil, w0, 1, rng, Options{}); !errs.IsConfig(err) {
		t.Errorf("empty dataset: %v", err)
	}
	w3, _ := weights.New(2, 3)
	if _, err := Train(context.Background(), ds, w3, 1, rng, Options{}); !errs.IsConfig(err) {
		t.Errorf("mismatched weights: %v", err)
	}
}

func TestTrainLogs(t *testing.T) {
	var buf bytes.Buffer
	w0, _ := weights.New(2, 2)
	_, err := Train(context.Background(), separable(t), w0, 3, rand.New(rand.NewSource(1)), Options{
		Logger: log.New(&buf, "", 0),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "score before training: 50.00%") {
		t.Errorf("log %q", buf.String())
	}
}

func TestResume(t *testing.T) {
	dir := t.TempDir()
	var path = filepath.Join(dir, "values.txt")
	w, resumed, err := Resume(path, 2, 3)
	if err != nil || resumed || w.Classes() != 2 || w.Pixels() != 3 {
		t.Fatalf("fresh: %v %v", resumed, err)
	}
	saved := matrix(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	if err := weights.SaveFile(path, saved); err != nil {
		t.Fatal(err)
	}
	w, resumed, err = Resume(path, 2, 3)
	if err != nil || !resumed || !w.EqualApprox(saved, 0) {
		t.Fatalf("resumed: %v %v", resumed, err)
	}
	if _, _, err := Resume(path, 3, 3); err == nil {
		t.Errorf("shape mismatch accepted")
	}
}
