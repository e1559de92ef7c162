// Package idx decodes the IDX image and label files the MNIST digits are distributed in
package idx

import "bytes"
import "compress/gzip"
import "encoding/binary"
import "io"
import "os"

import "github.com/pkg/errors"

import "github.com/neurlang/hillclimb/errs"

const ImageMagic = 2051
const LabelMagic = 2049

const imageHeader = 16
const labelHeader = 8

// Geometry is the header of an images file.
type Geometry struct {
	Count int
	Rows  int
	Cols  int
}

// Pixels reports the length of one pixel vector.
func (g Geometry) Pixels() int {
	return g.Rows * g.Cols
}

func readUint32(b []byte, off int) (uint32, error) {
	if len(b) < off+4 {
		return 0, errs.Format(errs.UnexpectedEOF)
	}
	return binary.BigEndian.Uint32(b[off:]), nil
}

// payload checks that b holds count items of size bytes after the header
// and returns the payload, trailing bytes cut off.
func payload(b []byte, header int, count, size uint64) ([]byte, error) {
	var rest = uint64(len(b) - header)
	if size != 0 && count > rest/size {
		return nil, errs.Format(errs.UnexpectedEOF)
	}
	return b[header : uint64(header)+count*size], nil
}

// DecodeImagesGeometry decodes an images file, also returning its header.
func DecodeImagesGeometry(b []byte) ([][]uint8, Geometry, error) {
	var head [4]uint32
	for i := range head {
		v, err := readUint32(b, 4*i)
		if err != nil {
			return nil, Geometry{}, err
		}
		head[i] = v
		if i == 0 && v != ImageMagic {
			return nil, Geometry{}, errs.Format(errs.BadImageMagic)
		}
	}
	var count, rows, cols = uint64(head[1]), uint64(head[2]), uint64(head[3])
	var size = rows * cols
	if size == 0 {
		return nil, Geometry{}, errs.Format(errs.ZeroPixels)
	}
	data, err := payload(b, imageHeader, count, size)
	if err != nil {
		return nil, Geometry{}, err
	}
	var images = make([][]uint8, count)
	for i := range images {
		var img = make([]uint8, size)
		copy(img, data[uint64(i)*size:])
		images[i] = img
	}
	return images, Geometry{Count: int(count), Rows: int(rows), Cols: int(cols)}, nil
}

// DecodeImages decodes an images file into one pixel vector per image.
func DecodeImages(b []byte) ([][]uint8, error) {
	images, _, err := DecodeImagesGeometry(b)
	return images, err
}

// DecodeLabels decodes a labels file.
func DecodeLabels(b []byte) ([]uint8, error) {
	magic, err := readUint32(b, 0)
	if err != nil {
		return nil, err
	}
	if magic != LabelMagic {
		return nil, errs.Format(errs.BadLabelMagic)
	}
	count, err := readUint32(b, 4)
	if err != nil {
		return nil, err
	}
	data, err := payload(b, labelHeader, uint64(count), 1)
	if err != nil {
		return nil, err
	}
	var labels = make([]uint8, len(data))
	copy(labels, data)
	return labels, nil
}

// readAll reads r to the end, inflating it first when it is gzip data.
func readAll(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, errs.IO(err, "read idx")
	}
	var b = buf.Bytes()
	if len(b) < 2 || b[0] != 0x1f || b[1] != 0x8b {
		return b, nil
	}
	gzipReader, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, errs.Format(errs.UnexpectedEOF)
	}
	defer gzipReader.Close()
	var uncompressedBuffer bytes.Buffer
	if _, err := uncompressedBuffer.ReadFrom(gzipReader); err != nil {
		return nil, errors.Wrap(errs.Format(errs.UnexpectedEOF), err.Error())
	}
	return uncompressedBuffer.Bytes(), nil
}

// ReadImages reads a raw or gzip compressed images file.
func ReadImages(r io.Reader) ([][]uint8, Geometry, error) {
	b, err := readAll(r)
	if err != nil {
		return nil, Geometry{}, err
	}
	return DecodeImagesGeometry(b)
}

// ReadLabels reads a raw or gzip compressed labels file.
func ReadLabels(r io.Reader) ([]uint8, error) {
	b, err := readAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeLabels(b)
}

// OpenImages reads the images file at path.
func OpenImages(path string) ([][]uint8, Geometry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Geometry{}, errs.IO(err, "open images")
	}
	defer f.Close()
	images, g, err := ReadImages(f)
	return images, g, errors.Wrapf(err, "images %s", path)
}

// OpenLabels reads the labels file at path.
func OpenLabels(path string) ([]uint8, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.IO(err, "open labels")
	}
	defer f.Close()
	labels, err := ReadLabels(f)
	return labels, errors.Wrapf(err, "labels %s", path)
}
