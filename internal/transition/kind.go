package transition

import (
	"fmt"
	"strings"
)

// Kind selects the compositing rule used between two slides.
type Kind int

const (
	Fade Kind = iota
	WipeLeft
	WipeRight
	WipeUp
	WipeDown
	ZoomIn
	ZoomOut
	SlideLeft
	SlideRight

	numKinds
)

// RandomName is the configuration value that picks a fresh kind per boundary.
const RandomName = "random"

var kindNames = [...]string{
	Fade:       "fade",
	WipeLeft:   "wipe_left",
	WipeRight:  "wipe_right",
	WipeUp:     "wipe_up",
	WipeDown:   "wipe_down",
	ZoomIn:     "zoom_in",
	ZoomOut:    "zoom_out",
	SlideLeft:  "slide_left",
	SlideRight: "slide_right",
}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Valid reports whether k is one of the nine known kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < numKinds
}

// Kinds lists every transition in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds)
	for k := Kind(0); k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind accepts both "wipe_left" and "wipe-left" spellings.
func ParseKind(s string) (Kind, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return Fade, fmt.Errorf("unknown transition type %q", s)
}
