// Package markdown renders post bodies to HTML and splits posts into
// frontmatter and body. It wraps goldmark so callers only see templ components.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// CodeStyle is the chroma style used for fenced code blocks.
const CodeStyle = "github"

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
		meta.Meta,
		highlighting.NewHighlighting(
			highlighting.WithStyle(CodeStyle),
			highlighting.WithFormatOptions(
				chromahtml.TabWidth(2),
			),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// Document is a markdown source split into its frontmatter and body.
type Document struct {
	Meta map[string]interface{}
	Body string
}

// Markdown returns a templ.Component that renders content as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := Render(&buf, content); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// Render writes the HTML representation of content to w. Raw HTML in the
// source is dropped and dangerous link schemes are not emitted.
func Render(w io.Writer, content string) error {
	if err := md.Convert([]byte(content), w); err != nil {
		return fmt.Errorf("markdown: render: %w", err)
	}
	return nil
}

// Parse splits src into YAML frontmatter and markdown body.
// A source without a frontmatter block yields an empty Meta.
func Parse(src []byte) (Document, error) {
	ctx := parser.NewContext()
	md.Parser().Parse(text.NewReader(src), parser.WithContext(ctx))
	values, err := meta.TryGet(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("markdown: frontmatter: %w", err)
	}
	if values == nil {
		values = map[string]interface{}{}
	}
	return Document{Meta: values, Body: stripFrontmatter(string(src))}, nil
}

// stripFrontmatter removes a leading "---" delimited block.
func stripFrontmatter(src string) string {
	normalized := strings.ReplaceAll(src, "\r\n", "\n")
	if !strings.HasPrefix(normalized, "---\n") {
		return strings.TrimSpace(normalized)
	}
	rest := normalized[len("---\n"):]
	for offset := 0; offset < len(rest); {
		end := strings.IndexByte(rest[offset:], '\n')
		line := rest[offset:]
		if end >= 0 {
			line = rest[offset : offset+end]
		}
		if strings.TrimRight(line, " ") == "---" {
			if end < 0 {
				return ""
			}
			return strings.TrimSpace(rest[offset+end+1:])
		}
		if end < 0 {
			break
		}
		offset += end + 1
	}
	return strings.TrimSpace(normalized)
}

// String returns the frontmatter value for key as a string.
// Dates decoded by the YAML parser are formatted as YYYY-MM-DD.
func (d Document) String(key string) string {
	v, ok := d.Meta[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case interface{ Format(string) string }:
		return val.Format("2006-01-02")
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

// Bool returns the frontmatter value for key as a bool.
func (d Document) Bool(key string) bool {
	v, _ := d.Meta[key].(bool)
	return v
}
