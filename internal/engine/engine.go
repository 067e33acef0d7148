package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MushroomFleet/Auto-Slideshow/internal/frame"
	"github.com/MushroomFleet/Auto-Slideshow/internal/logger"
	"github.com/MushroomFleet/Auto-Slideshow/internal/normalize"
	"github.com/MushroomFleet/Auto-Slideshow/internal/progress"
	"github.com/MushroomFleet/Auto-Slideshow/internal/schedule"
	"github.com/MushroomFleet/Auto-Slideshow/internal/source"
	"github.com/MushroomFleet/Auto-Slideshow/internal/transition"
	"github.com/MushroomFleet/Auto-Slideshow/internal/video"
)

// State is the phase of a build.
type State int

const (
	Idle State = iota
	Scheduling
	Streaming
	Finalized
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scheduling:
		return "scheduling"
	case Streaming:
		return "streaming"
	case Finalized:
		return "finalized"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// InsufficientImagesError is returned when fewer than two images are given,
// or when fewer than two of them can be decoded.
type InsufficientImagesError struct {
	Count  int
	Usable bool // Count refers to decodable images rather than inputs
}

func (e *InsufficientImagesError) Error() string {
	if e.Usable {
		return fmt.Sprintf("at least 2 images are required, %d could be read", e.Count)
	}
	return fmt.Sprintf("at least 2 images are required to create a slideshow, got %d", e.Count)
}

// Progress receives a tick for every emitted frame.
type Progress interface {
	Add(n int)
	Describe(desc string)
	Finish()
}

type Options struct {
	VideoDuration      float64
	TransitionDuration float64
	FrameRate          int
	OutputPath         string
}

// Builder renders one slideshow. It is single use: Run may be called once.
type Builder struct {
	Options  Options
	Source   source.Source
	Opener   video.Opener
	Selector *transition.Selector
	Progress Progress

	state   State
	sched   schedule.Schedule
	canvas  normalize.Resolution
	sink    video.Sink
	emitted int
	report  Report
	log     *logrus.Entry
}

func NewBuilder(opts Options, src source.Source, opener video.Opener, sel *transition.Selector) *Builder {
	return &Builder{
		Options:  opts,
		Source:   src,
		Opener:   opener,
		Selector: sel,
		state:    Idle,
		log:      logger.Build(opts.OutputPath),
	}
}

func (b *Builder) State() State {
	return b.state
}

// Run schedules the build, streams every frame into a sink opened at the
// configured output path and closes it. The returned report is valid even
// when err is non-nil and describes what reached the sink. When fewer than
// two images decode, the frames already written are kept but the build fails.
func (b *Builder) Run(ctx context.Context) (*Report, error) {
	if b.state != Idle {
		return nil, fmt.Errorf("builder already ran (state %s)", b.state)
	}
	if b.Progress == nil {
		b.Progress = progress.Nop{}
	}
	if b.Selector == nil {
		b.Selector = transition.Fixed(transition.Fade)
	}

	start := time.Now()
	b.report = Report{Output: b.Options.OutputPath, FrameRate: b.Options.FrameRate}

	count := b.Source.Len()
	if count < 2 {
		b.state = Failed
		return &b.report, &InsufficientImagesError{Count: count}
	}

	b.state = Scheduling
	sched, err := schedule.Compute(schedule.Params{
		VideoDuration:      b.Options.VideoDuration,
		TransitionDuration: b.Options.TransitionDuration,
		FrameRate:          b.Options.FrameRate,
		ImageCount:         count,
	})
	if err != nil {
		b.state = Failed
		return &b.report, err
	}
	b.sched = sched
	b.report.FrameBudget = sched.TotalFrames
	b.report.FramesPerImage = sched.FramesPerImage
	b.report.FramesPerTransition = sched.FramesPerTransition
	b.report.ExpectedFrames = sched.ExpectedFrames()
	b.log.Infof("Using %.2f seconds per image and %.2f seconds per transition",
		sched.ImageDuration, sched.TransitionDuration)

	first, prev := b.establishCanvas()
	if prev == nil {
		b.state = Failed
		return &b.report, &InsufficientImagesError{Count: 0, Usable: true}
	}

	sink, err := b.Opener.Open(ctx, b.Options.OutputPath, sched.FrameRate, b.canvas.Width, b.canvas.Height)
	if err != nil {
		b.state = Failed
		var soe *video.SinkOpenError
		if !errors.As(err, &soe) {
			err = &video.SinkOpenError{Path: b.Options.OutputPath, Err: err}
		}
		return &b.report, err
	}
	b.sink = sink
	b.state = Streaming
	b.log.Infof("Creating slideshow with %d images, %d frames at %s...", count, sched.TotalFrames, b.canvas)

	streamErr := b.stream(first, prev)
	closeErr := b.sink.Close()
	b.Progress.Finish()

	b.report.FramesEmitted = b.emitted
	b.report.Duration = sched.Duration(b.emitted)
	b.report.Elapsed = time.Since(start).Round(time.Millisecond).String()

	if streamErr != nil {
		b.state = Failed
		return &b.report, streamErr
	}
	if closeErr != nil {
		b.state = Failed
		return &b.report, fmt.Errorf("finalize video: %w", closeErr)
	}
	if usable := len(b.report.Segments); usable < 2 {
		b.state = Failed
		return &b.report, &InsufficientImagesError{Count: usable, Usable: true}
	}
	b.state = Finalized
	b.log.Infof("Video duration: %.2f seconds, %d frames at %d FPS", b.report.Duration, b.emitted, sched.FrameRate)
	return &b.report, nil
}

// establishCanvas loads images until one decodes and derives the canvas
// from it. Unreadable images before it are skipped.
func (b *Builder) establishCanvas() (int, *frame.Frame) {
	for i := 0; i < b.Source.Len(); i++ {
		img, err := b.Source.Load(i)
		if err != nil {
			b.skip(i, err)
			continue
		}
		canvas := normalize.Canvas(img.Bounds().Dx(), img.Bounds().Dy())
		f, err := normalize.Normalize(img, canvas.Width, canvas.Height)
		if err != nil {
			b.skip(i, err)
			continue
		}
		if canvas.Width != img.Bounds().Dx() || canvas.Height != img.Bounds().Dy() {
			b.log.Infof("Images are not 16:9. Will resize from %dx%d to %s",
				img.Bounds().Dx(), img.Bounds().Dy(), canvas)
		}
		b.canvas = canvas
		b.report.Canvas = canvas.String()
		return i, f
	}
	return -1, nil
}

func (b *Builder) stream(first int, prev *frame.Frame) error {
	count := b.Source.Len()

	b.Progress.Describe(fmt.Sprintf("image %d/%d", first+1, count))
	shown, err := b.emitStill(prev)
	if err != nil {
		return err
	}
	b.report.Segments = append(b.report.Segments, Segment{
		Index:         first,
		Image:         b.Source.Name(first),
		DisplayFrames: shown,
	})

	for i := first + 1; i < count; i++ {
		curr, err := b.loadFrame(i)
		if err != nil {
			b.skip(i, err)
			continue
		}

		b.Progress.Describe(fmt.Sprintf("image %d/%d", i+1, count))
		kind := b.Selector.Next()
		blended, err := b.emitTransition(prev, curr, kind)
		if err != nil {
			return err
		}
		shown, err := b.emitStill(curr)
		if err != nil {
			return err
		}
		b.report.Segments = append(b.report.Segments, Segment{
			Index:            i,
			Image:            b.Source.Name(i),
			Transition:       kind.String(),
			TransitionFrames: blended,
			DisplayFrames:    shown,
		})
		b.log.Debugf("Image %d/%d done, %d/%d frames", i+1, count, b.emitted, b.sched.TotalFrames)

		prev = curr
	}
	return nil
}

func (b *Builder) loadFrame(i int) (*frame.Frame, error) {
	img, err := b.Source.Load(i)
	if err != nil {
		return nil, err
	}
	return normalize.Normalize(img, b.canvas.Width, b.canvas.Height)
}

func (b *Builder) skip(i int, err error) {
	name := b.Source.Name(i)
	b.log.Warnf("Could not read image %s, skipping: %v", name, err)
	b.report.Skipped = append(b.report.Skipped, Skip{Index: i, Image: name, Reason: err.Error()})
}

// emitTransition writes the blended frames from prev to next with progress
// j/FramesPerTransition. Frames past the budget are not rendered.
func (b *Builder) emitTransition(prev, next *frame.Frame, kind transition.Kind) (int, error) {
	total := b.sched.FramesPerTransition
	written := 0
	for j := 0; j < total; j++ {
		if b.exhausted() {
			continue
		}
		f, err := transition.Composite(prev, next, kind, float64(j)/float64(total))
		if err != nil {
			return written, err
		}
		if err := b.write(f); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// emitStill repeats f for FramesPerImage frames, capped by the budget.
func (b *Builder) emitStill(f *frame.Frame) (int, error) {
	written := 0
	for j := 0; j < b.sched.FramesPerImage; j++ {
		if b.exhausted() {
			continue
		}
		if err := b.write(f); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func (b *Builder) exhausted() bool {
	return b.emitted >= b.sched.TotalFrames
}

func (b *Builder) write(f *frame.Frame) error {
	if err := b.sink.WriteFrame(f); err != nil {
		return fmt.Errorf("write frame %d: %w", b.emitted, err)
	}
	b.emitted++
	b.Progress.Add(1)
	return nil
}
