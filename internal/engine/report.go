package engine

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Report summarizes a build.
type Report struct {
	Output              string    `yaml:"output"`
	Canvas              string    `yaml:"canvas"`
	FrameRate           int       `yaml:"frame_rate"`
	FrameBudget         int       `yaml:"frame_budget"`
	ExpectedFrames      int       `yaml:"expected_frames"` // if every image decodes
	FramesPerImage      int       `yaml:"frames_per_image"`
	FramesPerTransition int       `yaml:"frames_per_transition"`
	FramesEmitted       int       `yaml:"frames_emitted"`
	Duration            float64   `yaml:"duration"` // seconds of video written
	Elapsed             string    `yaml:"elapsed"`
	Segments            []Segment `yaml:"segments"`
	Skipped             []Skip    `yaml:"skipped,omitempty"`
}

// Segment is one image as it appears in the video: the transition leading
// into it followed by its display frames.
type Segment struct {
	Index            int    `yaml:"index"`
	Image            string `yaml:"image"`
	Transition       string `yaml:"transition,omitempty"` // empty for the first image
	TransitionFrames int    `yaml:"transition_frames"`
	DisplayFrames    int    `yaml:"display_frames"`
}

// Skip records an input that could not be decoded.
type Skip struct {
	Index  int    `yaml:"index"`
	Image  string `yaml:"image"`
	Reason string `yaml:"reason"`
}

// WriteReport writes a report to a YAML file
func WriteReport(report *Report, path string) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadReport reads a report from a YAML file
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var report Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, err
	}

	return &report, nil
}
