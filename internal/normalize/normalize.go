// Package normalize fits arbitrary pictures onto the fixed slideshow canvas.
package normalize

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/MushroomFleet/Auto-Slideshow/internal/frame"
	"github.com/MushroomFleet/Auto-Slideshow/internal/source"
)

// RatioTolerance is the largest aspect ratio difference still resized directly.
const RatioTolerance = 0.01

// Resolution is the canvas size shared by every frame of a build.
type Resolution struct {
	Width, Height int
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Canvas derives the 16:9 output canvas from the size of the first image:
// the width is kept and the height follows from it. Both sides are rounded
// down to even numbers because yuv420p needs them, so this is the one case
// where the image width is not kept exactly: a 1921 px wide image gives a
// 1920x1080 canvas.
func Canvas(imageWidth, imageHeight int) Resolution {
	w := imageWidth &^ 1
	if w < 2 {
		w = 2
	}
	h := (w * 9 / 16) &^ 1
	if h < 2 {
		h = 2
	}
	return Resolution{Width: w, Height: h}
}

// Normalize scales img to exactly width x height. When the aspect ratios
// differ by more than RatioTolerance the image is scaled to cover the canvas
// and the overflow is cropped evenly from both sides.
func Normalize(img image.Image, width, height int) (*frame.Frame, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, &source.ImageLoadError{Name: "image", Err: fmt.Errorf("empty bounds %v", b)}
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}

	current := float64(b.Dx()) / float64(b.Dy())
	target := float64(width) / float64(height)

	if math.Abs(current-target) < RatioTolerance {
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		return frame.Wrap(dst), nil
	}

	newW, newH := width, height
	if current > target {
		newW = int(float64(height) * current)
	} else {
		newH = int(float64(width) / current)
	}
	if newW < width {
		newW = width
	}
	if newH < height {
		newH = height
	}

	// pre-crop sizes vary per photo, so this buffer is not pooled
	resized := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.BiLinear.Scale(resized, resized.Bounds(), img, b, draw.Src, nil)

	startX := (newW - width) / 2
	startY := (newH - height) / 2
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Copy(dst, image.Point{}, resized, image.Rect(startX, startY, startX+width, startY+height), draw.Src, nil)
	return frame.Wrap(dst), nil
}
