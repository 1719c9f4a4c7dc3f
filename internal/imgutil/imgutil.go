package imgutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/faanross/simulacra_lsb/internal/stegerr"
	"golang.org/x/image/bmp"
)

// Output formats. Lossy formats would destroy the LSBs and are not offered.
const (
	FormatPNG = "png"
	FormatBMP = "bmp"
)

// Grid is a carrier image as a flat array of 8-bit channel values in
// row-major pixel order, channels interleaved. Only Pix carries data;
// Alpha, when present, is written back untouched.
type Grid struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
	Alpha    []uint8 // nil for opaque images
}

// NewGrid returns a zeroed opaque grid.
func NewGrid(width, height, channels int) *Grid {
	return &Grid{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}
}

// Len returns the number of channel values.
func (g *Grid) Len() int { return len(g.Pix) }

// Bit reports bit plane of channel value i.
func (g *Grid) Bit(i int, plane uint) bool {
	return g.Pix[i]>>plane&1 == 1
}

// SetBit overwrites bit plane of channel value i.
func (g *Grid) SetBit(i int, plane uint, bit bool) {
	if bit {
		g.Pix[i] |= 1 << plane
	} else {
		g.Pix[i] &^= 1 << plane
	}
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := *g
	c.Pix = append([]uint8(nil), g.Pix...)
	if g.Alpha != nil {
		c.Alpha = append([]uint8(nil), g.Alpha...)
	}
	return &c
}

// FromImage copies img into a Grid. Grayscale images become 1-channel
// grids; everything else becomes RGB with alpha kept aside when needed.
func FromImage(img image.Image) *Grid {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if isGray(img) {
		g := NewGrid(w, h, 1)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				g.Pix[y*w+x] = color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray).Y
			}
		}
		return g
	}

	g := NewGrid(w, h, 3)
	opaque := isOpaque(img)
	if !opaque {
		g.Alpha = make([]uint8, w*h)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := (y*w + x) * 3
			g.Pix[i], g.Pix[i+1], g.Pix[i+2] = c.R, c.G, c.B
			if !opaque {
				g.Alpha[y*w+x] = c.A
			}
		}
	}
	return g
}

func isGray(img image.Image) bool {
	switch m := img.(type) {
	case *image.Gray, *image.Gray16:
		return true
	case *image.Paletted:
		// BMP stores 8-bit gray as a palette
		if len(m.Palette) == 0 {
			return false
		}
		for _, c := range m.Palette {
			r, g, b, a := c.RGBA()
			if r != g || g != b || a != 0xffff {
				return false
			}
		}
		return true
	}
	return false
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}

// Image converts the grid back to an image.Image.
func (g *Grid) Image() image.Image {
	rect := image.Rect(0, 0, g.Width, g.Height)

	if g.Channels == 1 {
		img := image.NewGray(rect)
		copy(img.Pix, g.Pix)
		return img
	}

	img := image.NewNRGBA(rect)
	for p := 0; p < g.Width*g.Height; p++ {
		img.Pix[p*4+0] = g.Pix[p*3+0]
		img.Pix[p*4+1] = g.Pix[p*3+1]
		img.Pix[p*4+2] = g.Pix[p*3+2]
		if g.Alpha != nil {
			img.Pix[p*4+3] = g.Alpha[p]
		} else {
			img.Pix[p*4+3] = 0xff
		}
	}
	return img
}

// Decode loads an image from byte data
// Returns the grid, format string, and any error
func Decode(data []byte) (*Grid, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", stegerr.Wrap(stegerr.CodeUnsupportedImageFormat, err, "failed to decode image")
	}
	return FromImage(img), format, nil
}

// Encode writes the grid in a lossless format.
func Encode(g *Grid, format string) ([]byte, error) {
	var buf bytes.Buffer

	switch strings.ToLower(format) {
	case FormatPNG, "image/png", "":
		if err := png.Encode(&buf, g.Image()); err != nil {
			return nil, stegerr.Wrap(stegerr.CodeInternal, err, "failed to encode PNG")
		}
	case FormatBMP, "image/bmp":
		if err := bmp.Encode(&buf, g.Image()); err != nil {
			return nil, stegerr.Wrap(stegerr.CodeInternal, err, "failed to encode BMP")
		}
	default:
		return nil, stegerr.New(stegerr.CodeUnsupportedImageFormat, "cannot write %q, use png or bmp", format)
	}

	return buf.Bytes(), nil
}

// FormatFromFileName picks the output format from a file extension.
// An empty name means PNG.
func FormatFromFileName(name string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	switch ext {
	case "", FormatPNG:
		return FormatPNG, nil
	case FormatBMP:
		return FormatBMP, nil
	default:
		return "", stegerr.New(stegerr.CodeUnsupportedImageFormat,
			"%s: output must be a lossless format (png, bmp)", name)
	}
}

// String describes the grid geometry.
func (g *Grid) String() string {
	return fmt.Sprintf("%dx%d, %d channel(s)", g.Width, g.Height, g.Channels)
}
