package ui

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFontSize is used when a TextStyle leaves Size at zero.
const DefaultFontSize = 24

// Assets loads fonts and images from a filesystem and caches them. Missing
// fonts fall back to Go Regular; missing images are skipped. Each failure is
// logged once.
type Assets struct {
	fsys     fs.FS
	fallback *text.GoTextFaceSource
	sources  map[string]*text.GoTextFaceSource
	images   map[string]*ebiten.Image
	sizes    map[string]image.Point
	failed   map[string]bool
}

// NewAssets creates an asset cache over fsys. fsys may be nil, in which case
// only the built-in font is available.
func NewAssets(fsys fs.FS) (*Assets, error) {
	fallback, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in font: %w", err)
	}
	a := &Assets{fallback: fallback}
	a.Reset(fsys)
	return a, nil
}

// Reset swaps the filesystem and drops every cached asset.
func (a *Assets) Reset(fsys fs.FS) {
	a.fsys = fsys
	a.sources = make(map[string]*text.GoTextFaceSource)
	a.images = make(map[string]*ebiten.Image)
	a.sizes = make(map[string]image.Point)
	a.failed = make(map[string]bool)
}

// FS returns the backing filesystem.
func (a *Assets) FS() fs.FS {
	return a.fsys
}

func (a *Assets) warnOnce(key, format string, args ...any) {
	if a.failed[key] {
		return
	}
	a.failed[key] = true
	log.Printf("[Assets] Warning: "+format, args...)
}

// Face returns a face for the named font at size pixels.
func (a *Assets) Face(font string, size float64) text.Face {
	if size <= 0 {
		size = DefaultFontSize
	}
	return &text.GoTextFace{
		Source:    a.source(font),
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
}

func (a *Assets) source(font string) *text.GoTextFaceSource {
	if font == "" || a.fsys == nil {
		return a.fallback
	}
	if src, ok := a.sources[font]; ok {
		return src
	}
	if a.failed["font:"+font] {
		return a.fallback
	}

	data, err := fs.ReadFile(a.fsys, font)
	if err != nil {
		a.warnOnce("font:"+font, "font %s unavailable, using fallback: %v", font, err)
		return a.fallback
	}
	src, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		a.warnOnce("font:"+font, "font %s could not be parsed, using fallback: %v", font, err)
		return a.fallback
	}
	a.sources[font] = src
	return src
}

// Image returns the decoded image at path, or nil when it cannot be loaded.
func (a *Assets) Image(path string) *ebiten.Image {
	if img, ok := a.images[path]; ok {
		return img
	}
	if a.fsys == nil || a.failed["image:"+path] {
		return nil
	}
	img, _, err := ebitenutil.NewImageFromFileSystem(a.fsys, path)
	if err != nil {
		a.warnOnce("image:"+path, "image %s unavailable: %v", path, err)
		return nil
	}
	a.images[path] = img
	return img
}

// ImageSize returns the pixel size of the image at path without uploading
// it to the GPU.
func (a *Assets) ImageSize(path string) (image.Point, bool) {
	if size, ok := a.sizes[path]; ok {
		return size, true
	}
	if a.fsys == nil || a.failed["image:"+path] {
		return image.Point{}, false
	}
	f, err := a.fsys.Open(path)
	if err != nil {
		a.warnOnce("image:"+path, "image %s unavailable: %v", path, err)
		return image.Point{}, false
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		a.warnOnce("image:"+path, "image %s could not be decoded: %v", path, err)
		return image.Point{}, false
	}
	size := image.Pt(cfg.Width, cfg.Height)
	a.sizes[path] = size
	return size, true
}

type textRun struct {
	value string
	face  text.Face
	color Color
	x, y  float64
}

// layoutText positions every section of t relative to the top-left corner
// of its bounding box.
func (a *Assets) layoutText(t *Text) ([]textRun, float64, float64) {
	type line struct {
		runs   []textRun
		width  float64
		height float64
	}

	lines := []line{{}}
	for _, section := range t.Sections {
		face := a.Face(section.Style.Font, section.Style.Size)
		lineHeight := face.Metrics().HAscent + face.Metrics().HDescent + face.Metrics().HLineGap
		for i, piece := range strings.Split(section.Value, "\n") {
			if i > 0 {
				lines = append(lines, line{})
			}
			cur := &lines[len(lines)-1]
			cur.height = max(cur.height, lineHeight)
			if piece == "" {
				continue
			}
			w, _ := text.Measure(piece, face, lineHeight)
			cur.runs = append(cur.runs, textRun{value: piece, face: face, color: section.Style.Color, x: cur.width})
			cur.width += w
		}
	}

	var width, height float64
	for _, l := range lines {
		width = max(width, l.width)
	}

	var runs []textRun
	for _, l := range lines {
		offset := 0.0
		switch t.Justify {
		case TextCenter:
			offset = (width - l.width) / 2
		case TextRight:
			offset = width - l.width
		}
		for _, run := range l.runs {
			run.x += offset
			run.y = height
			runs = append(runs, run)
		}
		height += l.height
	}
	return runs, width, height
}

// MeasureText returns the size of t's bounding box.
func (a *Assets) MeasureText(t *Text) (float64, float64) {
	_, w, h := a.layoutText(t)
	return w, h
}
