package schedule

import (
	"fmt"
	"math"
)

// Params are the inputs of a build timeline.
type Params struct {
	VideoDuration      float64 // target length of the whole video, seconds
	TransitionDuration float64 // length of one transition, seconds
	FrameRate          int
	ImageCount         int
}

// Schedule partitions the video duration into display and transition segments.
// It is computed once per build and never changes afterwards.
type Schedule struct {
	Params

	TotalTransitions    int
	TotalTransitionTime float64
	ImageDuration       float64

	FramesPerImage      int
	FramesPerTransition int
	TotalFrames         int // hard cap on emitted frames
}

// FeasibilityError means no positive per-image duration can be derived.
type FeasibilityError struct {
	Params Params
	Reason string
}

func (e *FeasibilityError) Error() string {
	return fmt.Sprintf("schedule not feasible (video %.2fs, transition %.2fs, %d fps, %d images): %s",
		e.Params.VideoDuration, e.Params.TransitionDuration, e.Params.FrameRate, e.Params.ImageCount, e.Reason)
}

// Compute derives the schedule for p.
//
// The time left after all transitions is split evenly between the images.
// Frame counts are floored per segment, so the sum of all segments may fall
// slightly short of TotalFrames but never exceeds it.
func Compute(p Params) (Schedule, error) {
	switch {
	case p.FrameRate <= 0:
		return Schedule{}, &FeasibilityError{Params: p, Reason: "frame rate must be positive"}
	case p.ImageCount < 1:
		return Schedule{}, &FeasibilityError{Params: p, Reason: "no images"}
	case p.TransitionDuration < 0:
		return Schedule{}, &FeasibilityError{Params: p, Reason: "transition duration is negative"}
	}

	totalTransitions := p.ImageCount - 1
	totalTransitionTime := float64(totalTransitions) * p.TransitionDuration
	remaining := p.VideoDuration - totalTransitionTime
	if remaining <= 0 {
		return Schedule{}, &FeasibilityError{
			Params: p,
			Reason: fmt.Sprintf("transitions take %.2fs of %.2fs", totalTransitionTime, p.VideoDuration),
		}
	}

	imageDuration := remaining / float64(p.ImageCount)
	fps := float64(p.FrameRate)

	return Schedule{
		Params:              p,
		TotalTransitions:    totalTransitions,
		TotalTransitionTime: totalTransitionTime,
		ImageDuration:       imageDuration,
		FramesPerImage:      floor(imageDuration * fps),
		FramesPerTransition: floor(p.TransitionDuration * fps),
		TotalFrames:         floor(p.VideoDuration * fps),
	}, nil
}

// ExpectedFrames is the frame count of a build in which every image loads.
func (s Schedule) ExpectedFrames() int {
	n := s.FramesPerImage * s.ImageCount
	if s.TotalTransitions > 0 {
		n += s.FramesPerTransition * s.TotalTransitions
	}
	if n > s.TotalFrames {
		n = s.TotalFrames
	}
	return n
}

// Duration converts a frame count into seconds at the schedule's frame rate.
func (s Schedule) Duration(frames int) float64 {
	return float64(frames) / float64(s.FrameRate)
}

// VideoDurationFor returns the video length that gives every image
// imageDuration seconds of display time.
func VideoDurationFor(imageDuration, transitionDuration float64, imageCount int) float64 {
	if imageCount < 1 {
		return 0
	}
	return float64(imageCount)*imageDuration + float64(imageCount-1)*transitionDuration
}

func floor(v float64) int {
	return int(math.Floor(v))
}
