// Package progress renders the frame counter of a running build.
package progress

import "github.com/schollz/progressbar/v3"

// Bar is a terminal progress bar counting emitted frames.
type Bar struct {
	bar *progressbar.ProgressBar
}

func New(max int, desc string) *Bar {
	return &Bar{bar: progressbar.NewOptions(max,
		progressbar.OptionSetDescription(desc),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))}
}

func (b *Bar) Add(n int) {
	_ = b.bar.Add(n)
}

func (b *Bar) Describe(desc string) {
	b.bar.Describe(desc)
}

func (b *Bar) Finish() {
	_ = b.bar.Finish()
}

// Nop discards progress updates.
type Nop struct{}

func (Nop) Add(int)         {}
func (Nop) Describe(string) {}
func (Nop) Finish()         {}
