// Package ogimage rasterizes a title onto a fixed-size Open Graph card.
package ogimage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Card dimensions used by the site.
const (
	Width  = 1200
	Height = 630
)

const (
	fontSize    = 64
	lineSpacing = 1.2
	paddingX    = 96
	maxLines    = 5
	ellipsis    = "…"
)

// ErrInvalidSize is returned for non-positive dimensions.
var ErrInvalidSize = errors.New("ogimage: width and height must be positive")

// Renderer draws titles with a bold face, left aligned and vertically centered
// on a white card. It is safe for concurrent use.
type Renderer struct {
	mu         sync.Mutex // guards face, which keeps internal buffers
	face       font.Face
	background color.Color
	foreground color.Color
}

// New parses the embedded Go Bold font and returns a Renderer.
func New() (*Renderer, error) {
	parsed, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("ogimage: parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("ogimage: font face: %w", err)
	}
	return &Renderer{
		face:       face,
		background: color.White,
		foreground: color.Black,
	}, nil
}

// Render draws title onto a width x height canvas and returns it PNG encoded.
func (r *Renderer) Render(ctx context.Context, title string, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(r.background), image.Point{}, draw.Src)

	r.draw(canvas, title, width, height)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("ogimage: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// draw lays title out centered on canvas. The face is not safe for
// concurrent use, so drawing is serialized.
func (r *Renderer) draw(canvas *image.RGBA, title string, width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lines := r.wrap(title, width-2*paddingX)
	metrics := r.face.Metrics()
	lineHeight := int(float64(metrics.Height.Ceil()) * lineSpacing)
	blockHeight := lineHeight * len(lines)
	y := (height-blockHeight)/2 + metrics.Ascent.Ceil()

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(r.foreground),
		Face: r.face,
	}
	for _, line := range lines {
		d.Dot = fixed.P(paddingX, y)
		d.DrawString(line)
		y += lineHeight
	}
}

// wrap breaks title into lines no wider than maxWidth pixels. Words longer
// than a line are split by rune; output is capped at maxLines with an ellipsis.
func (r *Renderer) wrap(title string, maxWidth int) []string {
	limit := fixed.I(maxWidth)
	var lines []string
	var current string
	for _, word := range strings.Fields(title) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if font.MeasureString(r.face, candidate) <= limit {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
			current = ""
		}
		for word != "" && font.MeasureString(r.face, word) > limit {
			head := r.fit(word, limit)
			lines = append(lines, head)
			word = word[len(head):]
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := lines[maxLines-1]
		for last != "" && font.MeasureString(r.face, last+ellipsis) > limit {
			runes := []rune(last)
			last = string(runes[:len(runes)-1])
		}
		lines[maxLines-1] = last + ellipsis
	}
	return lines
}

// fit returns the longest rune prefix of word that fits in limit, at least one rune.
func (r *Renderer) fit(word string, limit fixed.Int26_6) string {
	end := 0
	for i := range word {
		_, size := utf8.DecodeRuneInString(word[i:])
		next := i + size
		if end > 0 && font.MeasureString(r.face, word[:next]) > limit {
			break
		}
		end = next
	}
	return word[:end]
}
