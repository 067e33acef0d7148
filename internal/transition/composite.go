// Package transition synthesizes the in-between frames shown while one slide
// gives way to the next.
package transition

import (
	"errors"
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/MushroomFleet/Auto-Slideshow/internal/frame"
)

const (
	minZoom     = 0.1 // smallest scale of the zooming picture
	minZoomSide = 10  // pixels
)

// ErrResolutionMismatch is returned when the two input frames differ in size.
var ErrResolutionMismatch = errors.New("frames differ in resolution")

// Composite renders the frame at progress (0 = prev only, 1 = next fully in)
// of a transition of the given kind. Progress is not clamped. Unknown kinds
// blend like Fade. Neither input is modified; the result is a new frame.
func Composite(prev, next *frame.Frame, kind Kind, progress float64) (*frame.Frame, error) {
	if !prev.SameSize(next) {
		return nil, fmt.Errorf("%w: %dx%d and %dx%d", ErrResolutionMismatch,
			prev.Width(), prev.Height(), next.Width(), next.Height())
	}

	w, h := prev.Width(), prev.Height()

	switch kind {
	case WipeLeft:
		return wipeColumns(prev, next, 0, int(float64(w)*progress)), nil
	case WipeRight:
		return wipeColumns(prev, next, int(float64(w)*(1-progress)), w), nil
	case WipeUp:
		return wipeRows(prev, next, 0, int(float64(h)*progress)), nil
	case WipeDown:
		return wipeRows(prev, next, int(float64(h)*(1-progress)), h), nil
	case ZoomIn:
		if out, ok := zoom(prev, next, progress); ok {
			return out, nil
		}
	case ZoomOut:
		if out, ok := zoom(next, prev, 1-progress); ok {
			return out, nil
		}
	case SlideLeft:
		return slide(prev, next, int(float64(w)*progress), true), nil
	case SlideRight:
		return slide(prev, next, int(float64(w)*progress), false), nil
	}

	return fade(prev, next, progress), nil
}

// fade is a per-channel linear blend rounded to the nearest sample.
func fade(prev, next *frame.Frame, progress float64) *frame.Frame {
	out := image.NewRGBA(prev.Bounds())
	a, b := prev.Pix(), next.Pix()
	wa, wb := 1-progress, progress

	for i := 0; i+3 < len(a); i += 4 {
		out.Pix[i+0] = blend(a[i+0], b[i+0], wa, wb)
		out.Pix[i+1] = blend(a[i+1], b[i+1], wa, wb)
		out.Pix[i+2] = blend(a[i+2], b[i+2], wa, wb)
		out.Pix[i+3] = 0xff
	}
	return frame.Wrap(out)
}

func blend(a, b uint8, wa, wb float64) uint8 {
	v := math.Round(float64(a)*wa + float64(b)*wb)
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}

// wipeColumns copies columns [x0, x1) of next over prev.
func wipeColumns(prev, next *frame.Frame, x0, x1 int) *frame.Frame {
	w, h := prev.Width(), prev.Height()
	x0, x1 = clamp(x0, 0, w), clamp(x1, 0, w)
	out := prev.Clone()
	if x1 <= x0 {
		return frame.Wrap(out)
	}

	src := next.Pix()
	stride := w * 4
	for y := 0; y < h; y++ {
		row := y * stride
		copy(out.Pix[row+x0*4:row+x1*4], src[row+x0*4:row+x1*4])
	}
	return frame.Wrap(out)
}

// wipeRows copies rows [y0, y1) of next over prev.
func wipeRows(prev, next *frame.Frame, y0, y1 int) *frame.Frame {
	w, h := prev.Width(), prev.Height()
	y0, y1 = clamp(y0, 0, h), clamp(y1, 0, h)
	out := prev.Clone()
	if y1 > y0 {
		stride := w * 4
		copy(out.Pix[y0*stride:y1*stride], next.Pix()[y0*stride:y1*stride])
	}
	return frame.Wrap(out)
}

// slide moves prev sideways by offset columns. The uncovered strip shows the
// matching edge of next, as if both pictures sat side by side on a film strip.
func slide(prev, next *frame.Frame, offset int, left bool) *frame.Frame {
	w, h := prev.Width(), prev.Height()
	offset = clamp(offset, 0, w)
	out := image.NewRGBA(prev.Bounds())

	a, b := prev.Pix(), next.Pix()
	stride := w * 4
	keep := (w - offset) * 4
	for y := 0; y < h; y++ {
		row := y * stride
		if left {
			copy(out.Pix[row:row+keep], a[row+offset*4:row+stride])
			copy(out.Pix[row+keep:row+stride], b[row:row+offset*4])
		} else {
			copy(out.Pix[row+offset*4:row+stride], a[row:row+keep])
			copy(out.Pix[row:row+offset*4], b[row+keep:row+stride])
		}
	}
	return frame.Wrap(out)
}

// zoom scales fg by factor (never below minZoom or minZoomSide pixels) and
// centers it over bg. It reports false when the placement does not fit, in
// which case the caller falls back to a fade.
func zoom(bg, fg *frame.Frame, factor float64) (*frame.Frame, bool) {
	w, h := bg.Width(), bg.Height()
	if factor < minZoom {
		factor = minZoom
	}
	sw := max(int(float64(w)*factor), minZoomSide)
	sh := max(int(float64(h)*factor), minZoomSide)

	p, ok := place(w, h, sw, sh)
	if !ok {
		return nil, false
	}

	scaled := frame.GetScratch(image.Rect(0, 0, sw, sh))
	defer frame.PutScratch(scaled)
	draw.BiLinear.Scale(scaled, scaled.Bounds(), fg.Image(), fg.Bounds(), draw.Src, nil)

	out := bg.Clone()
	draw.Copy(out, p.dst.Min, scaled, p.src, draw.Src, nil)
	return frame.Wrap(out), true
}

// placement maps a window of the scaled picture onto the canvas.
type placement struct {
	dst image.Rectangle // on the canvas
	src image.Rectangle // within the scaled picture
}

// place centers an sw x sh picture on a w x h canvas. A picture larger than
// the canvas is clipped evenly on both sides.
func place(w, h, sw, sh int) (placement, bool) {
	cx, cy := w/2, h/2
	sx := max(0, cx-sw/2)
	sy := max(0, cy-sh/2)
	ex := min(w, sx+sw)
	ey := min(h, sy+sh)

	var ox, oy int
	if sx == 0 {
		ox = (sw - (ex - sx)) / 2
	}
	if sy == 0 {
		oy = (sh - (ey - sy)) / 2
	}

	p := placement{
		dst: image.Rect(sx, sy, ex, ey),
		src: image.Rect(ox, oy, ox+(ex-sx), oy+(ey-sy)),
	}
	if ex <= sx || ey <= sy {
		return p, false
	}
	if !p.src.In(image.Rect(0, 0, sw, sh)) || !p.dst.In(image.Rect(0, 0, w, h)) {
		return p, false
	}
	return p, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
