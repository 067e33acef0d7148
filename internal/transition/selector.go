package transition

import (
	"fmt"
	"strings"
)

// Rand is the subset of *math/rand.Rand the selector needs.
type Rand interface {
	Intn(n int) int
}

// Selector decides which kind to use at each slide boundary.
type Selector struct {
	random bool
	fixed  Kind
	rng    Rand
}

// Fixed always returns k.
func Fixed(k Kind) *Selector {
	return &Selector{fixed: k}
}

// Randomized draws a kind from rng at every boundary.
func Randomized(rng Rand) *Selector {
	return &Selector{random: true, rng: rng}
}

// NewSelector builds a selector from a configuration value: a kind name or
// RandomName.
func NewSelector(name string, rng Rand) (*Selector, error) {
	if strings.EqualFold(strings.TrimSpace(name), RandomName) {
		if rng == nil {
			return nil, fmt.Errorf("random transitions need a random source")
		}
		return Randomized(rng), nil
	}
	k, err := ParseKind(name)
	if err != nil {
		return nil, err
	}
	return Fixed(k), nil
}

// Next returns the kind for the next boundary.
func (s *Selector) Next() Kind {
	if !s.random {
		return s.fixed
	}
	return Kind(s.rng.Intn(int(numKinds)))
}

func (s *Selector) String() string {
	if s.random {
		return RandomName
	}
	return s.fixed.String()
}
