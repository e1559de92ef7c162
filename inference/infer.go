// Package inference implements the scoring stage of the linear classifier
package inference

import "github.com/neurlang/hillclimb/errs"
import "github.com/neurlang/hillclimb/weights"

// Score returns the dot product of pixels with the weights of class c,
// summed in increasing pixel order.
func Score(pixels []uint8, w *weights.Matrix, c int) (score float64) {
	var row = w.Row(c)
	for i, p := range pixels {
		score += float64(p) * row[i]
	}
	return score
}

// Scores returns the score of every class.
func Scores(pixels []uint8, w *weights.Matrix) []float64 {
	var out = make([]float64, w.Classes())
	for c := range out {
		out[c] = Score(pixels, w, c)
	}
	return out
}

// Classify returns the class with the highest score. Ties go to the lowest
// class index. pixels must be as long as the weight rows.
func Classify(pixels []uint8, w *weights.Matrix) int {
	var best = 0
	var bestScore = Score(pixels, w, 0)
	for c := 1; c < w.Classes(); c++ {
		if score := Score(pixels, w, c); score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

// ClassifyChecked is Classify which first verifies the dimensions.
func ClassifyChecked(pixels []uint8, w *weights.Matrix) (int, error) {
	if w == nil {
		return 0, errs.Config("nil weights")
	}
	if len(pixels) != w.Pixels() {
		return 0, errs.Configf("%d pixels, weights have %d", len(pixels), w.Pixels())
	}
	return Classify(pixels, w), nil
}
