// Package datasets implements the labeled image samples the classifier trains on
package datasets

import "math/rand"
import "strconv"
import "strings"

import "github.com/neurlang/hillclimb/errs"

// Sample is one labeled image. The pixel slice must not be modified.
type Sample struct {
	pixels []uint8
	label  int
}

// NewSample constructs a sample, owning pixels.
func NewSample(pixels []uint8, label int) Sample {
	return Sample{pixels: pixels, label: label}
}

// Pixels returns the pixel intensities, row major.
func (s Sample) Pixels() []uint8 {
	return s.pixels
}

// Label returns the ground truth class.
func (s Sample) Label() int {
	return s.label
}

// Render draws the sample as text, cols pixels per line, '#' for pixels
// brighter than threshold and '.' otherwise.
func (s Sample) Render(cols int, threshold uint8) string {
	var b strings.Builder
	b.WriteString("Label: ")
	b.WriteString(strconv.Itoa(s.label))
	for i, p := range s.pixels {
		if cols > 0 && i%cols == 0 {
			b.WriteByte('\n')
		}
		if p > threshold {
			b.WriteString("# ")
		} else {
			b.WriteString(". ")
		}
	}
	b.WriteByte('\n')
	return b.String()
}

// Dataset is an ordered set of samples in file order.
type Dataset []Sample

// Assemble zips decoded images with decoded labels.
func Assemble(images [][]uint8, labels []uint8) (Dataset, error) {
	if len(images) != len(labels) {
		return nil, errs.Format(errs.CountMismatch)
	}
	var set = make(Dataset, len(images))
	for i := range set {
		set[i] = NewSample(images[i], int(labels[i]))
	}
	return set, nil
}

// AssembleClasses is Assemble which also checks every label is below classes.
func AssembleClasses(images [][]uint8, labels []uint8, classes int) (Dataset, error) {
	if classes <= 0 {
		return nil, errs.Configf("%d classes", classes)
	}
	set, err := Assemble(images, labels)
	if err != nil {
		return nil, err
	}
	for i, s := range set {
		if s.label >= classes {
			return nil, errs.Configf("sample %d: label %d out of %d classes", i, s.label, classes)
		}
	}
	return set, nil
}

// Pixels reports the common pixel vector length, or -1 when samples differ.
// An empty dataset reports 0.
func (d Dataset) Pixels() int {
	if len(d) == 0 {
		return 0
	}
	var n = len(d[0].pixels)
	for _, s := range d[1:] {
		if len(s.pixels) != n {
			return -1
		}
	}
	return n
}

// Head returns at most the first n samples.
func (d Dataset) Head(n int) Dataset {
	if n > len(d) {
		n = len(d)
	}
	if n < 0 {
		n = 0
	}
	return d[:n]
}

// Shuffle shuffles the dataset in place using rng.
func (d Dataset) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}
