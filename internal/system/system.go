package system

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MushroomFleet/Auto-Slideshow/internal/logger"
)

var log = logger.Log

// ImageExtensions are the file types picked up from an input folder.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".tiff", ".tif", ".webp"}

// IsImage reports whether name has one of ImageExtensions, ignoring case.
func IsImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// CollectImages lists the images directly inside dir, sorted by file name.
func CollectImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !IsImage(entry.Name()) {
			continue
		}
		p := filepath.Join(dir, entry.Name())
		if seen[p] {
			continue
		}
		seen[p] = true
		paths = append(paths, p)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no image files found in %s", dir)
	}
	sort.Strings(paths)
	return paths, nil
}

func GetBestH264Encoder() string {
	// Preference: VideoToolbox (macOS), NVENC (NVIDIA), software libx264.
	cmd := exec.Command("ffmpeg", "-hide_banner", "-encoders")
	out, err := cmd.CombinedOutput()
	if err != nil {
		log.Debugf("ffmpeg encoder probe failed, using libx264: %v", err)
		return "libx264"
	}

	for _, name := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(string(out), name) {
			return name
		}
	}
	return "libx264"
}
