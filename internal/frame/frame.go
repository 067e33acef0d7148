package frame

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
)

// Frame is one opaque picture of the output video. Pixels are stored as RGBA
// with the alpha channel fixed at 255, so only the three color channels carry
// information. A Frame is never modified after it has been handed out.
type Frame struct {
	rgba *image.RGBA
}

// Blank returns a black opaque frame of the given size.
func Blank(width, height int) *Frame {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	opaque(img)
	return &Frame{rgba: img}
}

// FromImage copies img into a new frame anchored at the origin. Translucent
// pixels are flattened onto black.
func FromImage(img image.Image) *Frame {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	opaque(dst)
	return &Frame{rgba: dst}
}

// Wrap takes ownership of img. The caller must not touch img afterwards.
func Wrap(img *image.RGBA) *Frame {
	if img.Rect.Min != (image.Point{}) || img.Stride != img.Rect.Dx()*4 {
		return FromImage(img)
	}
	opaque(img)
	return &Frame{rgba: img}
}

func opaque(img *image.RGBA) {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
}

func (f *Frame) Width() int  { return f.rgba.Rect.Dx() }
func (f *Frame) Height() int { return f.rgba.Rect.Dy() }

func (f *Frame) Bounds() image.Rectangle { return f.rgba.Rect }

// SameSize reports whether both frames share one resolution.
func (f *Frame) SameSize(o *Frame) bool {
	return f.Width() == o.Width() && f.Height() == o.Height()
}

// RGBAt returns the color at (x, y).
func (f *Frame) RGBAt(x, y int) color.RGBA {
	return f.rgba.RGBAAt(x, y)
}

// Image exposes the pixels as a read-only image.Image.
func (f *Frame) Image() image.Image {
	return f.rgba
}

// Pix returns the raw RGBA samples, row-major with no padding.
// Callers must treat the slice as read-only.
func (f *Frame) Pix() []uint8 {
	return f.rgba.Pix
}

// Clone returns a mutable copy of the pixel buffer for building a new frame.
func (f *Frame) Clone() *image.RGBA {
	dst := image.NewRGBA(f.rgba.Rect)
	copy(dst.Pix, f.rgba.Pix)
	return dst
}

// Equal compares two frames pixel by pixel.
func (f *Frame) Equal(o *Frame) bool {
	if f == o {
		return true
	}
	if f == nil || o == nil || !f.SameSize(o) {
		return false
	}
	a, b := f.rgba.Pix, o.rgba.Pix
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// WriteTo writes the frame as packed rawvideo rgba.
func (f *Frame) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.rgba.Pix)
	return int64(n), err
}

func (f *Frame) String() string {
	return fmt.Sprintf("frame(%dx%d)", f.Width(), f.Height())
}
