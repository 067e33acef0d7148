package video

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/MushroomFleet/Auto-Slideshow/internal/frame"
)

// Sink consumes frames in presentation order.
type Sink interface {
	WriteFrame(f *frame.Frame) error
	// Close finalizes the output. Frames written so far are kept.
	Close() error
}

// Opener creates a sink for one output file.
type Opener interface {
	Open(ctx context.Context, path string, frameRate, width, height int) (Sink, error)
}

// SinkOpenError means the output destination could not be created.
type SinkOpenError struct {
	Path string
	Err  error
}

func (e *SinkOpenError) Error() string {
	return fmt.Sprintf("could not open output video %s: %v", e.Path, e.Err)
}

func (e *SinkOpenError) Unwrap() error {
	return e.Err
}

// FFmpegOpener pipes raw frames into an ffmpeg process.
type FFmpegOpener struct {
	Binary  string // defaults to "ffmpeg"
	Encoder string // libx264, h264_nvenc, h264_videotoolbox
	Quality int
}

func (o *FFmpegOpener) Open(ctx context.Context, path string, frameRate, width, height int) (Sink, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, &SinkOpenError{Path: path, Err: err}
		}
	}

	bin := o.Binary
	if bin == "" {
		bin = "ffmpeg"
	}
	args := o.buildFFmpegArgs(path, frameRate, width, height)
	cmd := exec.CommandContext(ctx, bin, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &SinkOpenError{Path: path, Err: fmt.Errorf("stdin pipe error: %w", err)}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &SinkOpenError{Path: path, Err: fmt.Errorf("stderr pipe error: %w", err)}
	}
	if err := cmd.Start(); err != nil {
		return nil, &SinkOpenError{Path: path, Err: fmt.Errorf("ffmpeg start error: %w", err)}
	}

	s := &ffmpegSink{
		cmd:   cmd,
		stdin: bufio.NewWriterSize(stdin, width*height*4),
		pipe:  stdin,
		log:   newTail(20),
	}
	s.g.Go(func() error {
		return s.log.drain(stderr)
	})
	return s, nil
}

func (o *FFmpegOpener) buildFFmpegArgs(path string, frameRate, width, height int) []string {
	encoder := o.Encoder
	if encoder == "" {
		encoder = "libx264"
	}

	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", width, height),
		"-framerate", fmt.Sprintf("%d", frameRate),
		"-i", "-",
		"-pix_fmt", "yuv420p",
		"-c:v", encoder,
	}

	quality := o.Quality
	switch encoder {
	case "h264_videotoolbox":
		if quality <= 0 {
			quality = 75
		}
		args = append(args, "-b:v", fmt.Sprintf("%dk", quality*100))
	case "h264_nvenc":
		if quality <= 0 {
			quality = 28
		}
		args = append(args, "-cq", fmt.Sprintf("%d", quality))
	default: // libx264
		if quality <= 0 {
			quality = 23
		}
		args = append(args, "-crf", fmt.Sprintf("%d", quality), "-preset", "medium")
	}

	return append(args, path)
}

type ffmpegSink struct {
	cmd    *exec.Cmd
	stdin  *bufio.Writer
	pipe   io.WriteCloser
	log    *tail
	g      errgroup.Group
	closed bool
}

func (s *ffmpegSink) WriteFrame(f *frame.Frame) error {
	if _, err := f.WriteTo(s.stdin); err != nil {
		return fmt.Errorf("write frame: %w (ffmpeg: %s)", err, s.log)
	}
	return nil
}

func (s *ffmpegSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	flushErr := s.stdin.Flush()
	s.pipe.Close()

	// stderr must be fully read before Wait closes the pipe
	drainErr := s.g.Wait()
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w (ffmpeg: %s)", err, s.log)
	}
	if flushErr != nil {
		return fmt.Errorf("flush frames: %w", flushErr)
	}
	return drainErr
}

// tail keeps the last lines written by ffmpeg for error messages.
type tail struct {
	mu    sync.Mutex
	lines []string
	max   int
}

func newTail(max int) *tail {
	return &tail{max: max}
}

func (t *tail) drain(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		t.mu.Lock()
		t.lines = append(t.lines, sc.Text())
		if len(t.lines) > t.max {
			t.lines = t.lines[1:]
		}
		t.mu.Unlock()
	}
	return sc.Err()
}

func (t *tail) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.lines) == 0 {
		return "no output"
	}
	return strings.Join(t.lines, "; ")
}
