// Package mnist locates and loads the MNIST handwritten digit files
package mnist

import "crypto/sha256"
import "fmt"
import "io"
import "os"
import "path/filepath"

import "github.com/pkg/errors"

import "github.com/neurlang/hillclimb/datasets"
import "github.com/neurlang/hillclimb/datasets/idx"
import "github.com/neurlang/hillclimb/errs"

func userHomeDir() string {
	dirname, err := os.UserHomeDir()
	if err != nil {
		return "~"
	}
	return dirname
}

const tmpDirectory = `/tmp/mnist/`

// SearchDirectories are tried in order when no directory is given.
var SearchDirectories = []string{tmpDirectory, filepath.Join(userHomeDir(), "mnist")}

const Classes = 10
const ImgSize = 28

const Train = "train"
const Infer = "t10k"

// known digests of the published gzip files
var digests = map[string]string{
	"t10k-images-idx3-ubyte.gz":  "8d422c7b0a1c1c79245a5bcf07fe86e33eeafee792b84584aec276f5a2dbc4e6",
	"t10k-labels-idx1-ubyte.gz":  "f7ae60f92e00ec6debd23a6088c31dbd2371eca3ffa0defaefb259924204aec6",
	"train-images-idx3-ubyte.gz": "440fcabf73cc546fa21475e81ea370265605f56be210a4024d2ca8f203523609",
	"train-labels-idx1-ubyte.gz": "3552534a0a558bbed6aed32b30c495cca23d567ec52cac8be1a0730e8010255c",
}

// Names returns the file names tried for a set, gzip first.
func Names(set string) (images, labels []string) {
	for _, format := range []string{"%s-%s-idx%d-ubyte.gz", "%s-%s-idx%d-ubyte", "%s-%s.idx%d-ubyte"} {
		images = append(images, fmt.Sprintf(format, set, "images", 3))
		labels = append(labels, fmt.Sprintf(format, set, "labels", 1))
	}
	return
}

// Find returns the first existing file among names in dirs.
func Find(dirs []string, names []string) (string, error) {
	for _, dir := range dirs {
		for _, name := range names {
			var path = filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			} else if !os.IsNotExist(err) {
				return "", errs.IO(err, "stat "+path)
			}
		}
	}
	return "", errs.IO(os.ErrNotExist, fmt.Sprintf("none of %v in %v", names, dirs))
}

// Verify checks the SHA-256 digest of a published file. Files with no
// known digest pass.
func Verify(path string) error {
	digest, ok := digests[filepath.Base(path)]
	if !ok {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return errs.IO(err, "open "+path)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return errs.IO(err, "hash "+path)
	}
	if fmt.Sprintf("%x", h.Sum(nil)) != digest {
		return errs.Format("file hash for " + path + " is incorrect")
	}
	return nil
}

// LoadFiles decodes and assembles one images/labels pair.
func LoadFiles(imagesPath, labelsPath string, classes int) (datasets.Dataset, idx.Geometry, error) {
	for _, path := range []string{imagesPath, labelsPath} {
		if err := Verify(path); err != nil {
			return nil, idx.Geometry{}, err
		}
	}
	images, g, err := idx.OpenImages(imagesPath)
	if err != nil {
		return nil, g, err
	}
	labels, err := idx.OpenLabels(labelsPath)
	if err != nil {
		return nil, g, err
	}
	set, err := datasets.AssembleClasses(images, labels, classes)
	return set, g, errors.Wrapf(err, "assemble %s", imagesPath)
}

// Load finds and loads a set ("train" or "t10k") in dir, or in
// SearchDirectories when dir is empty.
func Load(dir, set string, classes int) (datasets.Dataset, idx.Geometry, error) {
	var dirs = SearchDirectories
	if dir != "" {
		dirs = []string{dir}
	}
	imageNames, labelNames := Names(set)
	imagesPath, err := Find(dirs, imageNames)
	if err != nil {
		return nil, idx.Geometry{}, err
	}
	labelsPath, err := Find(dirs, labelNames)
	if err != nil {
		return nil, idx.Geometry{}, err
	}
	return LoadFiles(imagesPath, labelsPath, classes)
}
