package main

import "flag"
import "fmt"
import "image"
import _ "image/jpeg"
import _ "image/png"
import "os"

import "github.com/unixpickle/essentials"

import "github.com/neurlang/hillclimb/datasets"
import "github.com/neurlang/hillclimb/datasets/mnist"
import "github.com/neurlang/hillclimb/inference"
import "github.com/neurlang/hillclimb/trainer"
import "github.com/neurlang/hillclimb/weights"

func main() {
	dir := flag.String("dir", "", "directory holding the mnist files (default: search /tmp/mnist and ~/mnist)")
	dstmodel := flag.String("weights", "values.txt", "weights file (.txt, .bin, optionally .lzw)")
	classes := flag.Int("classes", mnist.Classes, "number of classes")
	threads := flag.Int("threads", 0, "goroutines scoring samples (default: logical cores)")
	verbose := flag.Int("verbose", 0, "print predictions of this many test samples")
	picture := flag.String("image", "", "classify this png or jpeg instead of evaluating the datasets")
	rows := flag.Int("rows", mnist.ImgSize, "image height the weights were trained on")
	cols := flag.Int("cols", mnist.ImgSize, "image width the weights were trained on")
	flag.Parse()

	if *picture != "" {
		classifyImage(*picture, *dstmodel, *classes, *rows, *cols)
		return
	}

	var evaluator = trainer.Evaluator{Threads: *threads}
	var net *weights.Matrix

	for _, set := range []string{mnist.Infer, mnist.Train} {
		data, geometry, err := mnist.Load(*dir, set, *classes)
		if err != nil {
			essentials.Die(err)
		}
		if net == nil {
			net, err = weights.LoadFile(*dstmodel, *classes, geometry.Pixels())
			if err != nil {
				essentials.Die(err)
			}
		}
		success, err := evaluator.Accuracy(data, net)
		if err != nil {
			essentials.Die(err)
		}
		fmt.Printf("[%s success rate] %.2f %%\n", set, 100*success)

		if set != mnist.Infer {
			continue
		}
		for _, s := range data.Head(*verbose) {
			fmt.Print(s.Render(geometry.Cols, 100))
			fmt.Println("predicted:", inference.Classify(s.Pixels(), net), "scores:", inference.Scores(s.Pixels(), net))
		}
	}
}

func classifyImage(path, dstmodel string, classes, rows, cols int) {
	file, err := os.Open(path)
	if err != nil {
		essentials.Die(err)
	}
	img, _, err := image.Decode(file)
	file.Close()
	if err != nil {
		essentials.Die(err)
	}
	pixels, err := datasets.FromImage(img, rows, cols)
	if err != nil {
		essentials.Die(err)
	}
	net, err := weights.LoadFile(dstmodel, classes, rows*cols)
	if err != nil {
		essentials.Die(err)
	}
	var class = inference.Classify(pixels, net)
	fmt.Print(datasets.NewSample(pixels, class).Render(cols, 100))
	fmt.Println("predicted:", class, "scores:", inference.Scores(pixels, net))
}
