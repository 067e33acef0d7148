package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Expected defaults, got %+v", cfg)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("default config was not written: %v", err)
	}
	if !strings.Contains(string(data), "video_duration: 59") {
		t.Errorf("unexpected default file:\n%s", data)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "transition_duration: 1\nframe_rate: 30\ntransition_type: wipe_left\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TransitionDuration != 1 || cfg.FrameRate != 30 || cfg.TransitionType != "wipe_left" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.VideoDuration != 59 || cfg.OutputFile != "slideshow.mp4" {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestLoadBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("frame_rate: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"zero fps", func(c *Config) { c.FrameRate = 0 }, "frame_rate"},
		{"negative transition", func(c *Config) { c.TransitionDuration = -1 }, "transition_duration"},
		{"dashed kind", func(c *Config) { c.TransitionType = "zoom-out" }, ""},
		{"no duration", func(c *Config) { c.VideoDuration = 0; c.ImageDuration = 0 }, "image_duration"},
		{"derived duration", func(c *Config) { c.VideoDuration = 0 }, ""},
		{"no output", func(c *Config) { c.OutputFile = "" }, "output_file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateUnknownTransitionFallsBackToFade(t *testing.T) {
	tests := map[string]string{
		"spin":       "fade",
		"":           "fade",
		"zoom-out":   "zoom-out",
		" Random ":   " Random ",
		"slide_left": "slide_left",
	}
	for in, want := range tests {
		cfg := Default()
		cfg.TransitionType = in
		if err := cfg.Validate(); err != nil {
			t.Errorf("%q: unexpected error: %v", in, err)
		}
		if cfg.TransitionType != want {
			t.Errorf("%q: expected transition %q, got %q", in, want, cfg.TransitionType)
		}
	}
}
