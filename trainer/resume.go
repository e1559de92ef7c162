package trainer

import "os"

import "github.com/neurlang/hillclimb/errs"
import "github.com/neurlang/hillclimb/weights"

// Resume loads prior weights from path when the file exists, else returns
// a zero matrix of the given shape.
func Resume(path string, classes, pixels int) (*weights.Matrix, bool, error) {
	if path != "" {
		_, err := os.Stat(path)
		if err == nil {
			w, err := weights.LoadFile(path, classes, pixels)
			if err != nil {
				return nil, false, err
			}
			return w, true, nil
		}
		if !os.IsNotExist(err) {
			return nil, false, errs.IO(err, "stat weights")
		}
	}
	w, err := weights.New(classes, pixels)
	return w, false, err
}
