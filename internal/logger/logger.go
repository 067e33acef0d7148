package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Log writes to stderr so it stays apart from the progress bar on stdout.
var Log = newLogger(os.Stderr)

func newLogger(out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:      true,
		DisableTimestamp: true,
	})

	if os.Getenv("DEBUG") == "1" {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}

	return log
}

// Build returns the logger for one slideshow build, tagged with the base
// name of its output video.
func Build(output string) *logrus.Entry {
	return Log.WithField("video", filepath.Base(output))
}
