package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MushroomFleet/Auto-Slideshow/internal/logger"
	"github.com/MushroomFleet/Auto-Slideshow/internal/transition"
)

var log = logger.Log

const DefaultPath = "config.yaml"

type Config struct {
	TransitionDuration float64 `yaml:"transition_duration"` // seconds
	VideoDuration      float64 `yaml:"video_duration"`      // seconds, 0 = derive from image_duration
	FrameRate          int     `yaml:"frame_rate"`
	TransitionType     string  `yaml:"transition_type"` // one of the nine kinds or "random"
	ImageDuration      float64 `yaml:"image_duration"`  // seconds per image, only used when video_duration is 0
	OutputFile         string  `yaml:"output_file"`

	DPI          int    `yaml:"dpi"`           // PDF input only
	VideoEncoder string `yaml:"video_encoder"` // "auto" probes ffmpeg
	Quality      int    `yaml:"quality"`       // 0 = encoder default
	ShowStats    bool   `yaml:"show_stats"`
	ReportFile   string `yaml:"report_file"`
}

func Default() *Config {
	return &Config{
		TransitionDuration: 0.5,
		VideoDuration:      59,
		FrameRate:          25,
		TransitionType:     transition.RandomName,
		ImageDuration:      3,
		OutputFile:         "slideshow.mp4",
		DPI:                150,
		VideoEncoder:       "auto",
	}
}

// Load reads path over the defaults. A missing file is created with the
// default values so users have something to edit.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := Write(cfg, path); err != nil {
			return nil, fmt.Errorf("create default config: %w", err)
		}
		log.Infof("Created default configuration file at %s", path)
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Write stores cfg as YAML.
func Write(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every invalid setting at once. An unknown transition type
// is not an error: it is replaced by fade with a warning.
func (c *Config) Validate() error {
	var errs []error
	if c.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("frame_rate must be positive, got %d", c.FrameRate))
	}
	if c.TransitionDuration < 0 {
		errs = append(errs, fmt.Errorf("transition_duration must not be negative, got %g", c.TransitionDuration))
	}
	if c.VideoDuration < 0 {
		errs = append(errs, fmt.Errorf("video_duration must not be negative, got %g", c.VideoDuration))
	}
	if c.VideoDuration == 0 && c.ImageDuration <= 0 {
		errs = append(errs, fmt.Errorf("image_duration must be positive when video_duration is 0"))
	}
	if !strings.EqualFold(strings.TrimSpace(c.TransitionType), transition.RandomName) {
		if _, err := transition.ParseKind(c.TransitionType); err != nil {
			log.Warnf("Unknown transition type '%s'. Using '%s' instead.", c.TransitionType, transition.Fade)
			c.TransitionType = transition.Fade.String()
		}
	}
	if c.OutputFile == "" {
		errs = append(errs, fmt.Errorf("output_file is empty"))
	}
	if c.DPI <= 0 {
		errs = append(errs, fmt.Errorf("dpi must be positive, got %d", c.DPI))
	}
	return errors.Join(errs...)
}
