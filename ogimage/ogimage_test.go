package ogimage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return r
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a png: %v", err)
	}
	return img
}

func hasInk(img image.Image) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x += 2 {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r < 0x8000 && g < 0x8000 && bl < 0x8000 {
				return true
			}
		}
	}
	return false
}

func TestRenderSize(t *testing.T) {
	r := newRenderer(t)
	for _, title := range []string{"Arshad Yaseen", "Hello", ""} {
		data, err := r.Render(context.Background(), title, Width, Height)
		if err != nil {
			t.Fatalf("Render(%q) failed: %v", title, err)
		}
		img := decode(t, data)
		if got := img.Bounds().Size(); got != image.Pt(Width, Height) {
			t.Errorf("Render(%q) size = %v, want %dx%d", title, got, Width, Height)
		}
	}
}

func TestRenderDrawsText(t *testing.T) {
	r := newRenderer(t)
	data, err := r.Render(context.Background(), "Hello", Width, Height)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !hasInk(decode(t, data)) {
		t.Error("expected dark pixels for the title")
	}

	blank, err := r.Render(context.Background(), "", Width, Height)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if hasInk(decode(t, blank)) {
		t.Error("empty title should leave the card blank")
	}
}

func TestRenderInvalidSize(t *testing.T) {
	r := newRenderer(t)
	if _, err := r.Render(context.Background(), "x", 0, Height); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("err = %v, want ErrInvalidSize", err)
	}
}

func TestRenderCanceledContext(t *testing.T) {
	r := newRenderer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, "x", Width, Height); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestWrapFitsWidth(t *testing.T) {
	r := newRenderer(t)
	maxWidth := Width - 2*paddingX
	title := "Building a tiny completion proxy for the Monaco editor with a pinch of Go"
	lines := r.wrap(title, maxWidth)
	if len(lines) < 2 {
		t.Fatalf("expected title to wrap, got %q", lines)
	}
	for _, line := range lines {
		if font.MeasureString(r.face, line) > fixed.I(maxWidth) {
			t.Errorf("line %q exceeds width", line)
		}
	}
	if strings.Join(lines, " ") != title {
		t.Errorf("wrapped lines lost words: %q", lines)
	}
}

func TestWrapSplitsLongWords(t *testing.T) {
	r := newRenderer(t)
	word := strings.Repeat("W", 80)
	lines := r.wrap(word, 400)
	if len(lines) < 2 {
		t.Fatalf("expected long word to be split, got %q", lines)
	}
	if strings.Join(lines, "") != word {
		t.Errorf("split lost runes: %q", lines)
	}
}

func TestWrapCapsLines(t *testing.T) {
	r := newRenderer(t)
	lines := r.wrap(strings.Repeat("word ", 200), 600)
	if len(lines) != maxLines {
		t.Fatalf("got %d lines, want %d", len(lines), maxLines)
	}
	if !strings.HasSuffix(lines[maxLines-1], ellipsis) {
		t.Errorf("last line %q should end with ellipsis", lines[maxLines-1])
	}
}

func TestWrapSplitsInvalidUTF8(t *testing.T) {
	r := newRenderer(t)
	word := strings.Repeat("A", 21) + "\xff"
	lines := r.wrap(word, 400)
	if strings.Join(lines, "") != word {
		t.Errorf("split changed bytes: %q", lines)
	}
}

func TestRenderInvalidUTF8KeepsRendererUsable(t *testing.T) {
	r := newRenderer(t)
	if _, err := r.Render(context.Background(), strings.Repeat("A", 21)+"\xff", Width, Height); err != nil {
		t.Fatalf("Render with invalid UTF-8 failed: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := r.Render(context.Background(), "Hello", Width, Height)
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Render after invalid title failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Render blocked after an invalid title")
	}
}

func TestRenderConcurrent(t *testing.T) {
	r := newRenderer(t)
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Render(context.Background(), "Concurrent", 300, 200)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent Render failed: %v", err)
		}
	}
}
