package main

import "context"
import "flag"
import "fmt"
import "log"
import "math/rand"
import "os"
import "os/signal"
import "syscall"

import "github.com/klauspost/cpuid/v2"
import "github.com/unixpickle/essentials"

import "github.com/neurlang/hillclimb/datasets"
import "github.com/neurlang/hillclimb/datasets/idx"
import "github.com/neurlang/hillclimb/datasets/mnist"
import "github.com/neurlang/hillclimb/parallel"
import "github.com/neurlang/hillclimb/trainer"
import "github.com/neurlang/hillclimb/weights"

func main() {
	dir := flag.String("dir", "", "directory holding the mnist files (default: search /tmp/mnist and ~/mnist)")
	images := flag.String("images", "", "images file, overrides -dir")
	labels := flag.String("labels", "", "labels file, overrides -dir")
	dstmodel := flag.String("weights", "values.txt", "weights file (.txt, .bin, optionally .lzw)")
	resume := flag.Bool("resume", true, "start from the weights file when it exists")
	steps := flag.Int("steps", 20000, "number of hill climbing steps")
	seed := flag.Int64("seed", 1, "PRNG seed")
	threads := flag.Int("threads", 0, "goroutines scoring samples (default: logical cores)")
	resolution := flag.Int("resolution", 100, "perturbation grid intervals on [-1, 1]")
	patience := flag.Int("patience", 0, "stop after this many steps without improvement, 0 never stops early")
	classes := flag.Int("classes", mnist.Classes, "number of classes")
	show := flag.Int("show", 2, "samples to print before training")
	shuffle := flag.Bool("shuffle", false, "shuffle the training set with the seed")
	pgo := flag.String("pgo", "", "write a CPU profile to this file")
	flag.Parse()

	log.Printf("cpu=%q threads=%d", cpuid.CPU.BrandName, parallel.Threads())

	var set datasets.Dataset
	var geometry idx.Geometry
	var err error
	if *images != "" || *labels != "" {
		set, geometry, err = mnist.LoadFiles(*images, *labels, *classes)
	} else {
		set, geometry, err = mnist.Load(*dir, mnist.Train, *classes)
	}
	if err != nil {
		essentials.Die(err)
	}
	log.Printf("samples=%d rows=%d cols=%d", len(set), geometry.Rows, geometry.Cols)

	rng := rand.New(rand.NewSource(*seed))
	if *shuffle {
		set.Shuffle(rng)
	}
	for _, s := range set.Head(*show) {
		fmt.Print(s.Render(geometry.Cols, 100))
	}

	var path string
	if *resume {
		path = *dstmodel
	}
	initial, resumed, err := trainer.Resume(path, *classes, geometry.Pixels())
	if err != nil {
		essentials.Die(err)
	}
	if resumed {
		log.Printf("resumed from %s", *dstmodel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stopProfile, err := startProfile(*pgo)
	if err != nil {
		essentials.Die(err)
	}
	res, err := trainer.Train(ctx, set, initial, *steps, rng, trainer.Options{
		Evaluator:  trainer.Evaluator{Threads: *threads},
		Resolution: *resolution,
		Patience:   *patience,
		Progress: func(step int, score float64) {
			log.Printf("step=%d accuracy=%.4f", step, score)
		},
		Logger: log.Default(),
	})
	stopProfile()
	if err != nil {
		essentials.Die(err)
	}
	if res.Stopped {
		log.Printf("interrupted after %d steps, saving best weights", res.Steps)
	}
	if res.Plateau {
		log.Printf("no improvement in %d steps, stopped early", *patience)
	}

	if err := weights.SaveFile(*dstmodel, res.Weights); err != nil {
		essentials.Die(err)
	}
	log.Printf("saved %s", *dstmodel)
}
