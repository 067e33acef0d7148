package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/urfave/cli"

	"github.com/MushroomFleet/Auto-Slideshow/internal/config"
	"github.com/MushroomFleet/Auto-Slideshow/internal/engine"
	"github.com/MushroomFleet/Auto-Slideshow/internal/logger"
	"github.com/MushroomFleet/Auto-Slideshow/internal/normalize"
	"github.com/MushroomFleet/Auto-Slideshow/internal/progress"
	"github.com/MushroomFleet/Auto-Slideshow/internal/schedule"
	"github.com/MushroomFleet/Auto-Slideshow/internal/source"
	"github.com/MushroomFleet/Auto-Slideshow/internal/system"
	"github.com/MushroomFleet/Auto-Slideshow/internal/transition"
	"github.com/MushroomFleet/Auto-Slideshow/internal/video"
)

var app = cli.NewApp()
var log = logger.Log

func init() {
	app.Name = "slideshow"
	app.Usage = "Turn a folder of images or a PDF into a video slideshow"
	app.UsageText = "slideshow [options] <folder|file.pdf>"
	app.HideVersion = true
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config, c", Value: config.DefaultPath, Usage: "YAML configuration file, created with defaults when missing"},
		cli.StringFlag{Name: "output, o", Usage: "output video path (overrides output_file)"},
		cli.StringFlag{Name: "transition, t", Usage: "transition type or \"random\" (overrides transition_type)"},
		cli.Float64Flag{Name: "duration, d", Usage: "total video length in seconds (overrides video_duration)"},
		cli.IntFlag{Name: "fps", Usage: "frame rate (overrides frame_rate)"},
		cli.Float64Flag{Name: "transition-duration", Usage: "seconds per transition (overrides transition_duration)"},
		cli.Int64Flag{Name: "seed", Usage: "seed for random transitions, 0 uses the clock"},
		cli.StringFlag{Name: "report", Usage: "write a YAML build report to this path (overrides report_file)"},
		cli.BoolFlag{Name: "stats", Usage: "print memory and CPU usage after the build"},
		cli.BoolFlag{Name: "no-progress", Usage: "disable the progress bar"},
	}
	app.Action = build
	app.Commands = []cli.Command{
		{
			Name:  "transitions",
			Usage: "List the available transition types",
			Action: func(c *cli.Context) error {
				for _, k := range transition.Kinds() {
					fmt.Println(k)
				}
				fmt.Println(transition.RandomName)
				return nil
			},
		},
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("output") {
		cfg.OutputFile = c.String("output")
	}
	if c.IsSet("transition") {
		cfg.TransitionType = c.String("transition")
	}
	if c.IsSet("duration") {
		cfg.VideoDuration = c.Float64("duration")
	}
	if c.IsSet("fps") {
		cfg.FrameRate = c.Int("fps")
	}
	if c.IsSet("transition-duration") {
		cfg.TransitionDuration = c.Float64("transition-duration")
	}
	if c.IsSet("report") {
		cfg.ReportFile = c.String("report")
	}
	if c.Bool("stats") {
		cfg.ShowStats = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration:\n%w", err)
	}
	return cfg, nil
}

func openSource(input string, dpi int) (source.Source, error) {
	if strings.HasSuffix(strings.ToLower(input), ".pdf") {
		return source.NewFitzPDFSource(input, dpi)
	}
	paths, err := system.CollectImages(input)
	if err != nil {
		return nil, err
	}
	return source.NewImageSource(paths), nil
}

func build(c *cli.Context) error {
	input := c.Args().Get(0)
	if input == "" {
		cli.ShowAppHelp(c)
		return fmt.Errorf("an input folder or PDF is required")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	src, err := openSource(input, cfg.DPI)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer src.Close()
	fmt.Printf("[*] Found %d images in %s\n", src.Len(), input)
	if cfg.ShowStats {
		if canvas, ok := probeCanvas(src); ok {
			// previous slide, current slide and the composite in flight
			fmt.Printf("[*] Canvas %s, frame working set %s\n",
				canvas, system.HumanBytes(system.FrameMemory(canvas.Width, canvas.Height, 3)))
		}
	}

	videoDuration := cfg.VideoDuration
	if videoDuration == 0 {
		videoDuration = schedule.VideoDurationFor(cfg.ImageDuration, cfg.TransitionDuration, src.Len())
		fmt.Printf("[*] Video duration derived from image_duration: %.2fs\n", videoDuration)
	}

	seed := c.Int64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sel, err := transition.NewSelector(cfg.TransitionType, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}
	log.Debugf("Transition selector %s, seed %d", sel, seed)

	encoder := cfg.VideoEncoder
	if encoder == "" || encoder == "auto" {
		encoder = system.GetBestH264Encoder()
		if encoder != "libx264" {
			fmt.Printf("[*] Hardware acceleration detected: %s\n", encoder)
		}
	}

	b := engine.NewBuilder(engine.Options{
		VideoDuration:      videoDuration,
		TransitionDuration: cfg.TransitionDuration,
		FrameRate:          cfg.FrameRate,
		OutputPath:         cfg.OutputFile,
	}, src, &video.FFmpegOpener{Encoder: encoder, Quality: cfg.Quality}, sel)

	if !c.Bool("no-progress") {
		budget := int(videoDuration * float64(cfg.FrameRate))
		b.Progress = progress.New(budget, "rendering")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, runErr := b.Run(ctx)
	fmt.Println()

	if cfg.ReportFile != "" && report != nil {
		if err := engine.WriteReport(report, cfg.ReportFile); err != nil {
			log.Warnf("Could not write report %s: %v", cfg.ReportFile, err)
		} else {
			fmt.Printf("[*] Report written to %s\n", cfg.ReportFile)
		}
	}
	if cfg.ShowStats {
		printStats()
	}
	if runErr != nil {
		return runErr
	}

	fmt.Printf("[+++] Success! Video saved as %s (%.2fs, %d frames)\n",
		cfg.OutputFile, report.Duration, report.FramesEmitted)
	return nil
}

// probeCanvas predicts the canvas from slide headers without decoding pixels.
func probeCanvas(src source.Source) (normalize.Resolution, bool) {
	sizer, ok := src.(source.Sizer)
	if !ok {
		return normalize.Resolution{}, false
	}
	for i := 0; i < src.Len(); i++ {
		w, h, err := sizer.Dimensions(i)
		if err != nil || w <= 0 || h <= 0 {
			continue
		}
		return normalize.Canvas(w, h), true
	}
	return normalize.Resolution{}, false
}

func printStats() {
	stats, err := system.Snapshot()
	if err != nil {
		log.Warnf("Could not read process stats: %v", err)
		return
	}
	fmt.Printf("[*] Resources: %s\n", stats)
}

func main() {
	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
