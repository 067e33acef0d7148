package transition

import (
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/MushroomFleet/Auto-Slideshow/internal/frame"
)

var (
	colorA = color.RGBA{R: 200, G: 40, B: 10, A: 255}
	colorB = color.RGBA{R: 10, G: 100, B: 250, A: 255}
)

func solid(w, h int, c color.RGBA) *frame.Frame {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return frame.Wrap(img)
}

// gradient gives every column a distinct color so shifted content can be traced.
func gradient(w, h int, base uint8) *frame.Frame {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: base, A: 255})
		}
	}
	return frame.Wrap(img)
}

func TestFadeBoundaries(t *testing.T) {
	a, b := gradient(40, 20, 10), gradient(40, 20, 200)

	start, err := Composite(a, b, Fade, 0)
	if err != nil {
		t.Fatalf("Composite failed: %v", err)
	}
	if !start.Equal(a) {
		t.Error("fade at progress 0 should equal prev")
	}

	end, err := Composite(a, b, Fade, 1)
	if err != nil {
		t.Fatalf("Composite failed: %v", err)
	}
	if !end.Equal(b) {
		t.Error("fade at progress 1 should equal next")
	}
}

func TestFadeMidpointRounds(t *testing.T) {
	a := solid(4, 4, color.RGBA{R: 0, G: 1, B: 255, A: 255})
	b := solid(4, 4, color.RGBA{R: 255, G: 2, B: 0, A: 255})

	out, err := Composite(a, b, Fade, 0.5)
	if err != nil {
		t.Fatalf("Composite failed: %v", err)
	}
	// 127.5 and 1.5 round half away from zero
	want := color.RGBA{R: 128, G: 2, B: 128, A: 255}
	if got := out.RGBAt(2, 2); got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestWipeLeft(t *testing.T) {
	a, b := solid(50, 10, colorA), solid(50, 10, colorB)

	for _, tt := range []struct {
		progress float64
		want     *frame.Frame
	}{
		{0, a},
		{1, b},
	} {
		out, err := Composite(a, b, WipeLeft, tt.progress)
		if err != nil {
			t.Fatalf("Composite failed: %v", err)
		}
		if !out.Equal(tt.want) {
			t.Errorf("wipe_left at %.1f does not match the expected input", tt.progress)
		}
	}

	// The boundary between next and prev only moves right.
	last := -1
	for j := 0; j <= 20; j++ {
		p := float64(j) / 20
		out, _ := Composite(a, b, WipeLeft, p)
		boundary := 50
		for x := 0; x < 50; x++ {
			if out.RGBAt(x, 5) == colorA {
				boundary = x
				break
			}
		}
		if boundary < last {
			t.Errorf("boundary moved back from %d to %d at progress %.2f", last, boundary, p)
		}
		if boundary != int(50*p) {
			t.Errorf("progress %.2f: expected boundary %d, got %d", p, int(50*p), boundary)
		}
		last = boundary
	}
}

func TestWipes(t *testing.T) {
	a, b := solid(20, 10, colorA), solid(20, 10, colorB)

	tests := []struct {
		kind     Kind
		progress float64
		fromNext func(x, y int) bool
	}{
		{WipeLeft, 0.25, func(x, y int) bool { return x < 5 }},
		{WipeRight, 0.25, func(x, y int) bool { return x >= 15 }},
		{WipeUp, 0.3, func(x, y int) bool { return y < 3 }},
		{WipeDown, 0.3, func(x, y int) bool { return y >= 7 }},
		{WipeRight, 1, func(x, y int) bool { return true }},
		{WipeDown, 0, func(x, y int) bool { return false }},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			out, err := Composite(a, b, tt.kind, tt.progress)
			if err != nil {
				t.Fatalf("Composite failed: %v", err)
			}
			for y := 0; y < 10; y++ {
				for x := 0; x < 20; x++ {
					want := colorA
					if tt.fromNext(x, y) {
						want = colorB
					}
					if got := out.RGBAt(x, y); got != want {
						t.Fatalf("pixel (%d,%d): expected %v, got %v", x, y, want, got)
					}
				}
			}
		})
	}
}

func TestSlides(t *testing.T) {
	a, b := gradient(20, 4, 1), gradient(20, 4, 2)

	left, err := Composite(a, b, SlideLeft, 0.25)
	if err != nil {
		t.Fatalf("Composite failed: %v", err)
	}
	// prev shifted left by 5, next's first 5 columns on the right
	for x := 0; x < 15; x++ {
		if got := left.RGBAt(x, 1); got != a.RGBAt(x+5, 1) {
			t.Errorf("slide_left x=%d: expected prev column %d, got %v", x, x+5, got)
		}
	}
	for x := 15; x < 20; x++ {
		if got := left.RGBAt(x, 1); got != b.RGBAt(x-15, 1) {
			t.Errorf("slide_left x=%d: expected next column %d, got %v", x, x-15, got)
		}
	}

	right, err := Composite(a, b, SlideRight, 0.25)
	if err != nil {
		t.Fatalf("Composite failed: %v", err)
	}
	for x := 0; x < 5; x++ {
		if got := right.RGBAt(x, 1); got != b.RGBAt(x+15, 1) {
			t.Errorf("slide_right x=%d: expected next column %d, got %v", x, x+15, got)
		}
	}
	for x := 5; x < 20; x++ {
		if got := right.RGBAt(x, 1); got != a.RGBAt(x-5, 1) {
			t.Errorf("slide_right x=%d: expected prev column %d, got %v", x, x-5, got)
		}
	}

	for _, k := range []Kind{SlideLeft, SlideRight} {
		start, _ := Composite(a, b, k, 0)
		end, _ := Composite(a, b, k, 1)
		if !start.Equal(a) || !end.Equal(b) {
			t.Errorf("%s should start at prev and end at next", k)
		}
	}
}

func TestZoomIn(t *testing.T) {
	a, b := solid(200, 100, colorA), solid(200, 100, colorB)

	out, err := Composite(a, b, ZoomIn, 0.5)
	if err != nil {
		t.Fatalf("Composite failed: %v", err)
	}
	// next covers the centered 100x50 box
	if got := out.RGBAt(100, 50); got != colorB {
		t.Errorf("center should show next, got %v", got)
	}
	if got := out.RGBAt(55, 30); got != colorB {
		t.Errorf("inside the box should show next, got %v", got)
	}
	if got := out.RGBAt(10, 10); got != colorA {
		t.Errorf("outside the box should show prev, got %v", got)
	}
	if got := out.RGBAt(45, 50); got != colorA {
		t.Errorf("left of the box should show prev, got %v", got)
	}

	// at progress 0 next is still drawn at the minimum 10% scale
	small, _ := Composite(a, b, ZoomIn, 0)
	if got := small.RGBAt(100, 50); got != colorB {
		t.Errorf("minimum zoom should still show next at center, got %v", got)
	}
	if got := small.RGBAt(80, 50); got != colorA {
		t.Errorf("minimum zoom box should be 20px wide, got %v at x=80", got)
	}
}

func TestZoomOut(t *testing.T) {
	a, b := solid(200, 100, colorA), solid(200, 100, colorB)

	start, err := Composite(a, b, ZoomOut, 0)
	if err != nil {
		t.Fatalf("Composite failed: %v", err)
	}
	if !start.Equal(a) {
		t.Error("zoom_out at progress 0 should show prev at full size")
	}

	mid, _ := Composite(a, b, ZoomOut, 0.75)
	if got := mid.RGBAt(100, 50); got != colorA {
		t.Errorf("center should still show prev, got %v", got)
	}
	if got := mid.RGBAt(5, 5); got != colorB {
		t.Errorf("border should show next, got %v", got)
	}
}

func TestZoomOnTinyCanvasClipsSymmetrically(t *testing.T) {
	// The 10px minimum is larger than the canvas, so the scaled picture is
	// cropped around its center and covers everything.
	a, b := solid(6, 4, colorA), solid(6, 4, colorB)
	out, err := Composite(a, b, ZoomIn, 0.2)
	if err != nil {
		t.Fatalf("Composite failed: %v", err)
	}
	if !out.Equal(b) {
		t.Error("expected next to cover the whole tiny canvas")
	}
}

func TestPlace(t *testing.T) {
	p, ok := place(100, 50, 20, 10)
	if !ok {
		t.Fatal("expected a valid placement")
	}
	if p.dst != image.Rect(40, 20, 60, 30) || p.src != image.Rect(0, 0, 20, 10) {
		t.Errorf("unexpected placement %+v", p)
	}

	p, ok = place(6, 4, 10, 10)
	if !ok {
		t.Fatal("expected a clipped placement")
	}
	if p.dst != image.Rect(0, 0, 6, 4) || p.src != image.Rect(2, 3, 8, 7) {
		t.Errorf("unexpected clipped placement %+v", p)
	}

	if _, ok := place(0, 0, 10, 10); ok {
		t.Error("an empty canvas has no valid placement")
	}
}

func TestZoomFallsBackToFade(t *testing.T) {
	a, b := frame.Blank(0, 0), frame.Blank(0, 0)
	out, err := Composite(a, b, ZoomIn, 0.5)
	if err != nil {
		t.Fatalf("Composite failed: %v", err)
	}
	if out.Width() != 0 || out.Height() != 0 {
		t.Errorf("expected an empty frame, got %v", out)
	}
}

func TestUnknownKindFades(t *testing.T) {
	a, b := gradient(10, 10, 0), gradient(10, 10, 250)
	want, _ := Composite(a, b, Fade, 0.3)
	got, err := Composite(a, b, Kind(42), 0.3)
	if err != nil {
		t.Fatalf("Composite failed: %v", err)
	}
	if !got.Equal(want) {
		t.Error("unknown kind should produce the fade frame")
	}
}

func TestResolutionMismatch(t *testing.T) {
	for _, k := range Kinds() {
		out, err := Composite(solid(10, 10, colorA), solid(12, 10, colorB), k, 0.5)
		if !errors.Is(err, ErrResolutionMismatch) {
			t.Errorf("%s: expected ErrResolutionMismatch, got %v", k, err)
		}
		if out != nil {
			t.Errorf("%s: expected no frame", k)
		}
	}
}

func TestCompositeDoesNotMutateInputs(t *testing.T) {
	a, b := gradient(32, 18, 5), gradient(32, 18, 99)
	aCopy, bCopy := frame.Wrap(a.Clone()), frame.Wrap(b.Clone())

	for _, k := range Kinds() {
		for _, p := range []float64{0, 0.33, 0.5, 0.99} {
			out, err := Composite(a, b, k, p)
			if err != nil {
				t.Fatalf("%s at %.2f: %v", k, p, err)
			}
			if !out.SameSize(a) {
				t.Errorf("%s at %.2f: result has size %v", k, p, out.Bounds())
			}
		}
	}
	if !a.Equal(aCopy) || !b.Equal(bCopy) {
		t.Error("Composite modified its inputs")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"fade", Fade, false},
		{"wipe-left", WipeLeft, false},
		{"wipe_right", WipeRight, false},
		{"Zoom_In", ZoomIn, false},
		{" slide-right ", SlideRight, false},
		{"dissolve", Fade, true},
		{"", Fade, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if len(Kinds()) != 9 {
		t.Errorf("expected 9 kinds, got %d", len(Kinds()))
	}
	for _, k := range Kinds() {
		back, err := ParseKind(k.String())
		if err != nil || back != k {
			t.Errorf("kind %v does not round-trip through its name", k)
		}
	}
}

type sequence struct {
	values []int
	i      int
}

func (s *sequence) Intn(n int) int {
	v := s.values[s.i%len(s.values)] % n
	s.i++
	return v
}

func TestSelector(t *testing.T) {
	fixed, err := NewSelector("wipe_up", nil)
	if err != nil {
		t.Fatalf("NewSelector failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if k := fixed.Next(); k != WipeUp {
			t.Errorf("fixed selector returned %v", k)
		}
	}

	seq, err := NewSelector("random", &sequence{values: []int{8, 0, 5}})
	if err != nil {
		t.Fatalf("NewSelector failed: %v", err)
	}
	for _, want := range []Kind{SlideRight, Fade, ZoomIn} {
		if k := seq.Next(); k != want {
			t.Errorf("expected %v, got %v", want, k)
		}
	}

	// seeded sources are reproducible
	r1, _ := NewSelector("random", rand.New(rand.NewSource(7)))
	r2, _ := NewSelector("random", rand.New(rand.NewSource(7)))
	for i := 0; i < 20; i++ {
		k1, k2 := r1.Next(), r2.Next()
		if k1 != k2 {
			t.Fatalf("draw %d differs: %v vs %v", i, k1, k2)
		}
		if !k1.Valid() {
			t.Fatalf("draw %d is not a valid kind: %v", i, k1)
		}
	}

	if _, err := NewSelector("random", nil); err == nil {
		t.Error("random mode without a source should fail")
	}
	if _, err := NewSelector("spin", nil); err == nil {
		t.Error("unknown kind should fail")
	}
}
