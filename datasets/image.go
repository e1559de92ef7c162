package datasets

import "image"
import "image/color"

import "golang.org/x/image/draw"

import "github.com/neurlang/hillclimb/errs"

// Brightness maps a color to a pixel intensity using the Rec. 709 luma
// weights, ignoring alpha. The result is truncated, not rounded.
func Brightness(c color.Color) uint8 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	var v = float32(n.R)*0.2126 + float32(n.G)*0.7152 + float32(n.B)*0.0722
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

// FromImage scales img to cols x rows and returns its row major brightness
// vector, ready to be scored against weights of rows*cols pixels.
func FromImage(img image.Image, rows, cols int) ([]uint8, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errs.Configf("%dx%d image geometry", rows, cols)
	}
	if img.Bounds().Empty() {
		return nil, errs.Config("empty image")
	}
	dst := image.NewNRGBA(image.Rect(0, 0, cols, rows))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	var pixels = make([]uint8, 0, rows*cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			pixels = append(pixels, Brightness(dst.NRGBAAt(x, y)))
		}
	}
	return pixels, nil
}
