package compose

import (
	"image"
	"image/color"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/compose/wide"
)

// Pixmap is a rectangular pixel buffer in one of the compositor's formats.
// PRGB32 pixmaps hold premultiplied RGBA, 4 bytes per pixel; A8 pixmaps hold
// one alpha byte per pixel.
type Pixmap struct {
	format wide.Format
	width  int
	height int
	stride int
	data   []uint8
}

// NewPixmap creates a zero-filled pixmap with the given dimensions.
func NewPixmap(format wide.Format, width, height int) *Pixmap {
	stride := width * format.BytesPerPixel()
	return &Pixmap{
		format: format,
		width:  width,
		height: height,
		stride: stride,
		data:   make([]uint8, stride*height),
	}
}

// Format returns the pixel format.
func (p *Pixmap) Format() wide.Format { return p.format }

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int { return p.width }

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int { return p.height }

// Stride returns the byte distance between rows.
func (p *Pixmap) Stride() int { return p.stride }

// Data returns the raw pixel data.
func (p *Pixmap) Data() []uint8 { return p.data }

// Row returns the pixel bytes of row y. Composition routines write spans
// directly into row slices.
func (p *Pixmap) Row(y int) []uint8 {
	return p.data[y*p.stride : (y+1)*p.stride]
}

// SetPixel sets a single pixel to the premultiplied color r,g,b,a.
// For A8 pixmaps only a is stored.
func (p *Pixmap) SetPixel(x, y int, r, g, b, a uint8) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	if p.format == wide.A8 {
		p.data[y*p.stride+x] = a
		return
	}
	i := y*p.stride + x*4
	p.data[i+0] = r
	p.data[i+1] = g
	p.data[i+2] = b
	p.data[i+3] = a
}

// Pixel returns the packed bytes of a single pixel.
func (p *Pixmap) Pixel(x, y int) []uint8 {
	bpp := p.format.BytesPerPixel()
	i := y*p.stride + x*bpp
	return p.data[i : i+bpp]
}

// Fill sets every pixel to the premultiplied color r,g,b,a.
func (p *Pixmap) Fill(r, g, b, a uint8) {
	if p.format == wide.A8 {
		for i := range p.data {
			p.data[i] = a
		}
		return
	}
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = r
		p.data[i+1] = g
		p.data[i+2] = b
		p.data[i+3] = a
	}
}

// Composite runs the routine over the horizontal span [x, x+count) of row y.
// cov is the per-pixel coverage buffer for variable-mask routines.
func (p *Pixmap) Composite(rt *Routine, x, y, count int, cov []byte) {
	bpp := p.format.BytesPerPixel()
	rt.Composite(p.Row(y)[x*bpp:], x, count, cov)
}

// ToImage converts the pixmap to a stdlib image. PRGB32 maps to image.RGBA
// (which is premultiplied), A8 to image.Alpha.
func (p *Pixmap) ToImage() image.Image {
	if p.format == wide.A8 {
		img := image.NewAlpha(image.Rect(0, 0, p.width, p.height))
		copy(img.Pix, p.data)
		return img
	}
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// FromImage creates a PRGB32 pixmap holding img's pixels, converting through
// the premultiplied RGBA model.
func FromImage(img image.Image) *Pixmap {
	bounds := img.Bounds()
	pm := NewPixmap(wide.PRGB32, bounds.Dx(), bounds.Dy())
	dst := &image.RGBA{
		Pix:    pm.data,
		Stride: pm.stride,
		Rect:   image.Rect(0, 0, pm.width, pm.height),
	}
	xdraw.Copy(dst, image.Point{}, img, bounds, xdraw.Src, nil)
	return pm
}

// SavePNG saves the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	return png.Encode(f, p.ToImage())
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	if p.format == wide.A8 {
		return color.Alpha{A: p.data[y*p.stride+x]}
	}
	px := p.Pixel(x, y)
	return color.RGBA{R: px[0], G: px[1], B: px[2], A: px[3]}
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	if p.format == wide.A8 {
		return color.AlphaModel
	}
	return color.RGBAModel
}
