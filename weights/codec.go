package weights

import "bufio"
import "compress/lzw"
import "io"
import "io/ioutil"
import "os"
import "strconv"
import "strings"

import "github.com/pkg/errors"
import "github.com/unixpickle/serializer"

import "github.com/neurlang/hillclimb/errs"

// Codec writes and reads a weight matrix. Decode checks the shape when
// classes and pixels are both positive, else takes it from the stream.
type Codec interface {
	Encode(w io.Writer, m *Matrix) error
	Decode(r io.Reader, classes, pixels int) (*Matrix, error)
}

// Text is the whitespace separated dump, one class per line.
var Text Codec = textCodec{}

// Binary is the unixpickle/serializer encoding.
var Binary Codec = binaryCodec{}

// Compressed wraps a codec in LZW compression.
func Compressed(c Codec) Codec {
	return lzwCodec{c}
}

// Save writes m as text.
func Save(w io.Writer, m *Matrix) error {
	return Text.Encode(w, m)
}

// Load reads a text matrix of the given shape.
func Load(r io.Reader, classes, pixels int) (*Matrix, error) {
	return Text.Decode(r, classes, pixels)
}

type textCodec struct{}

func (textCodec) Encode(w io.Writer, m *Matrix) error {
	bw := bufio.NewWriter(w)
	var buf []byte
	for c := 0; c < m.Classes(); c++ {
		for i, v := range m.Row(c) {
			if i != 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return errs.IO(err, "write weights")
		}
		buf = buf[:0]
	}
	return errs.IO(bw.Flush(), "write weights")
}

func (textCodec) Decode(r io.Reader, classes, pixels int) (*Matrix, error) {
	var rows [][]float64
	var total int
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 64*1024*1024)
	for line := 1; scanner.Scan(); line++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		var row = make([]float64, len(fields))
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errs.IO(err, "parse weights line "+strconv.Itoa(line))
			}
			row[i] = v
		}
		rows = append(rows, row)
		total += len(row)
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.IO(err, "read weights")
	}
	if classes <= 0 || pixels <= 0 {
		if len(rows) == 0 {
			return nil, errs.IO(io.ErrUnexpectedEOF, "weights hold no values")
		}
		return FromRows(rows)
	}
	if total != classes*pixels {
		return nil, errs.IO(io.ErrUnexpectedEOF, "weights hold "+strconv.Itoa(total)+" values, want "+
			strconv.Itoa(classes*pixels))
	}
	m, err := New(classes, pixels)
	if err != nil {
		return nil, err
	}
	// values fill the matrix in order regardless of line breaks
	var c, i int
	for _, row := range rows {
		for _, v := range row {
			m.d.Set(c, i, v)
			if i++; i == pixels {
				c, i = c+1, 0
			}
		}
	}
	return m, nil
}

type binaryCodec struct{}

func (binaryCodec) Encode(w io.Writer, m *Matrix) error {
	var raw = make([]float64, 0, m.Classes()*m.Pixels())
	for c := 0; c < m.Classes(); c++ {
		raw = append(raw, m.Row(c)...)
	}
	data, err := serializer.SerializeAny(
		serializer.Int(m.Classes()),
		serializer.Int(m.Pixels()),
		serializer.Float64Slice(raw),
	)
	if err != nil {
		return errs.IO(err, "serialize weights")
	}
	_, err = w.Write(data)
	return errs.IO(err, "write weights")
}

func (binaryCodec) Decode(r io.Reader, classes, pixels int) (*Matrix, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errs.IO(err, "read weights")
	}
	var rows, cols serializer.Int
	var raw serializer.Float64Slice
	if err := serializer.DeserializeAny(data, &rows, &cols, &raw); err != nil {
		return nil, errs.IO(err, "deserialize weights")
	}
	if len(raw) != int(rows)*int(cols) {
		return nil, errs.IO(io.ErrUnexpectedEOF, "deserialize weights")
	}
	m, err := New(int(rows), int(cols))
	if err != nil {
		return nil, err
	}
	if classes > 0 && pixels > 0 {
		if err := m.Check(classes, pixels); err != nil {
			return nil, err
		}
	}
	for c := 0; c < m.Classes(); c++ {
		m.d.SetRow(c, raw[c*m.Pixels():(c+1)*m.Pixels()])
	}
	return m, nil
}

type lzwCodec struct {
	inner Codec
}

func (l lzwCodec) Encode(w io.Writer, m *Matrix) error {
	lw := lzw.NewWriter(w, lzw.LSB, 8)
	if err := l.inner.Encode(lw, m); err != nil {
		lw.Close()
		return err
	}
	return errs.IO(lw.Close(), "compress weights")
}

func (l lzwCodec) Decode(r io.Reader, classes, pixels int) (*Matrix, error) {
	lr := lzw.NewReader(r, lzw.LSB, 8)
	defer lr.Close()
	return l.inner.Decode(lr, classes, pixels)
}

// CodecFor picks a codec from a file name: ".bin" is Binary, anything
// else Text, and a trailing ".lzw" adds compression.
func CodecFor(name string) Codec {
	var compressed = strings.HasSuffix(name, ".lzw")
	name = strings.TrimSuffix(name, ".lzw")
	var c = Text
	if strings.HasSuffix(name, ".bin") {
		c = Binary
	}
	if compressed {
		return Compressed(c)
	}
	return c
}

// SaveFile writes m to name with the codec chosen by CodecFor.
func SaveFile(name string, m *Matrix) error {
	file, err := os.Create(name)
	if err != nil {
		return errs.IO(err, "create weights")
	}
	err = CodecFor(name).Encode(file, m)
	if cerr := file.Close(); err == nil {
		err = errs.IO(cerr, "close weights")
	}
	return errors.Wrapf(err, "save %s", name)
}

// LoadFile reads a matrix from name with the codec chosen by CodecFor.
func LoadFile(name string, classes, pixels int) (*Matrix, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, errs.IO(err, "open weights")
	}
	defer file.Close()
	m, err := CodecFor(name).Decode(file, classes, pixels)
	return m, errors.Wrapf(err, "load %s", name)
}
