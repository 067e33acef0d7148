package source

import (
	"fmt"
	"image"
	"math"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
)

// Source is an ordered list of slides that can be decoded one at a time.
type Source interface {
	Len() int
	Name(index int) string
	Load(index int) (image.Image, error)
	Close() error
}

// Sizer is implemented by sources that can report the pixel size of a slide
// without decoding it.
type Sizer interface {
	Dimensions(index int) (width, height int, err error)
}

var (
	_ Sizer = (*ImageSource)(nil)
	_ Sizer = (*FitzPDFSource)(nil)
)

// ImageLoadError reports a slide that could not be decoded. It is never fatal
// for a build: the slide is skipped.
type ImageLoadError struct {
	Name string
	Err  error
}

func (e *ImageLoadError) Error() string {
	return fmt.Sprintf("could not read image %s: %v", e.Name, e.Err)
}

func (e *ImageLoadError) Unwrap() error {
	return e.Err
}

// FitzPDFSource turns every page of a PDF into one slide.
type FitzPDFSource struct {
	doc  *fitz.Document
	path string
	dpi  int
}

func NewFitzPDFSource(path string, dpi int) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &FitzPDFSource{doc: doc, path: path, dpi: dpi}, nil
}

func (f *FitzPDFSource) Len() int {
	return f.doc.NumPage()
}

func (f *FitzPDFSource) Name(index int) string {
	return fmt.Sprintf("%s#%d", filepath.Base(f.path), index+1)
}

// Dimensions returns the size a page renders to at the source DPI.
func (f *FitzPDFSource) Dimensions(index int) (int, int, error) {
	bound, err := f.doc.Bound(index)
	if err != nil {
		return 0, 0, &ImageLoadError{Name: f.Name(index), Err: err}
	}
	scale := float64(f.dpi) / 72
	w := int(math.Round(float64(bound.Dx()) * scale))
	h := int(math.Round(float64(bound.Dy()) * scale))
	return w, h, nil
}

func (f *FitzPDFSource) Load(index int) (image.Image, error) {
	img, err := f.doc.ImageDPI(index, float64(f.dpi))
	if err != nil {
		return nil, &ImageLoadError{Name: f.Name(index), Err: err}
	}
	return img, nil
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}
