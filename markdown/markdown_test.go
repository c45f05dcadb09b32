package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func render(t *testing.T, input string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Render(&buf, input); err != nil {
		t.Fatalf("Render(%q) failed: %v", input, err)
	}
	return buf.String()
}

func TestRenderInlineFormatting(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"__bold__", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"_italic_", "<em>italic</em>"},
		{"`code`", "<code>code</code>"},
		{"~~gone~~", "<del>gone</del>"},
	}
	for _, tt := range tests {
		got := render(t, tt.input)
		if !strings.Contains(got, tt.expected) {
			t.Errorf("Render(%q) = %q, want it to contain %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderHeadingsGetIDs(t *testing.T) {
	got := render(t, "# Title\n\n## Second Part\n\n### Third")
	for _, want := range []string{`<h1 id="title">Title</h1>`, `<h2 id="second-part">Second Part</h2>`, `<h3 id="third">Third</h3>`} {
		if !strings.Contains(got, want) {
			t.Errorf("Render headings missing %q in %q", want, got)
		}
	}
}

func TestRenderCodeBlockWithLanguage(t *testing.T) {
	got := render(t, "```go\nfunc main() {}\n```")
	if !strings.Contains(got, "<pre") {
		t.Errorf("code block not rendered as <pre>: %q", got)
	}
	if !strings.Contains(got, "main") {
		t.Errorf("code block lost its content: %q", got)
	}
	if !strings.Contains(got, "style=") {
		t.Errorf("expected highlighted code to carry inline styles: %q", got)
	}
}

func TestRenderCodeBlockEscapesHTML(t *testing.T) {
	got := render(t, "```\n<script>alert(1)</script>\n```")
	if strings.Contains(got, "<script>") {
		t.Errorf("code block content must be escaped: %q", got)
	}
}

func TestRenderDropsRawHTML(t *testing.T) {
	got := render(t, "before\n\n<script>alert(1)</script>\n\nafter")
	if strings.Contains(got, "<script>") {
		t.Errorf("raw html must not pass through: %q", got)
	}
	if !strings.Contains(got, "after") {
		t.Errorf("text after raw html missing: %q", got)
	}
}

func TestRenderDangerousLink(t *testing.T) {
	got := render(t, "[click](javascript:alert(1))")
	if strings.Contains(got, `href="javascript:`) {
		t.Errorf("javascript: link must not be emitted: %q", got)
	}
}

func TestRenderLinkWithUnderscores(t *testing.T) {
	got := render(t, "[docs](https://example.com/some_long_path_name)")
	if !strings.Contains(got, `href="https://example.com/some_long_path_name"`) {
		t.Errorf("link href corrupted: %q", got)
	}
	if strings.Contains(got, "<em>") {
		t.Errorf("underscores in url must not become emphasis: %q", got)
	}
}

func TestRenderLists(t *testing.T) {
	got := render(t, "- one\n- two\n\n1. first\n2. second")
	for _, want := range []string{"<ul>", "<li>one</li>", "<ol>", "<li>second</li>"} {
		if !strings.Contains(got, want) {
			t.Errorf("lists missing %q in %q", want, got)
		}
	}
}

func TestRenderTable(t *testing.T) {
	got := render(t, "| a | b |\n|---|---|\n| 1 | 2 |")
	for _, want := range []string{"<table>", "<th>a</th>", "<td>2</td>"} {
		if !strings.Contains(got, want) {
			t.Errorf("table missing %q in %q", want, got)
		}
	}
}

func TestRenderSkipsFrontmatter(t *testing.T) {
	got := render(t, "---\ntitle: Hidden\n---\n\nVisible")
	if strings.Contains(got, "Hidden") {
		t.Errorf("frontmatter leaked into output: %q", got)
	}
	if !strings.Contains(got, "Visible") {
		t.Errorf("body missing: %q", got)
	}
}

func TestMarkdownComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Markdown("Hello **world**").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Markdown component failed: %v", err)
	}
	if !strings.Contains(buf.String(), "<strong>world</strong>") {
		t.Errorf("component output = %q", buf.String())
	}
}

func TestParseFrontmatter(t *testing.T) {
	src := "---\ntitle: 'Spaces vs. Tabs'\npublishedAt: '2024-04-09'\nsummary: A short one.\ndraft: true\n---\n\n# Heading\n\nBody text.\n"
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := doc.String("title"); got != "Spaces vs. Tabs" {
		t.Errorf("title = %q", got)
	}
	if got := doc.String("publishedAt"); got != "2024-04-09" {
		t.Errorf("publishedAt = %q", got)
	}
	if got := doc.String("summary"); got != "A short one." {
		t.Errorf("summary = %q", got)
	}
	if !doc.Bool("draft") {
		t.Error("draft should be true")
	}
	if doc.Body != "# Heading\n\nBody text." {
		t.Errorf("Body = %q", doc.Body)
	}
}

func TestParseWithoutFrontmatter(t *testing.T) {
	doc, err := Parse([]byte("Just text.\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(doc.Meta) != 0 {
		t.Errorf("Meta = %v, want empty", doc.Meta)
	}
	if doc.Body != "Just text." {
		t.Errorf("Body = %q", doc.Body)
	}
	if doc.String("title") != "" {
		t.Error("missing key should be empty")
	}
}

func TestParseMalformedFrontmatter(t *testing.T) {
	_, err := Parse([]byte("---\ntitle: [unclosed\n---\nbody"))
	if err == nil {
		t.Fatal("expected error for malformed frontmatter")
	}
}

func TestStripFrontmatterCRLF(t *testing.T) {
	got := stripFrontmatter("---\r\ntitle: x\r\n---\r\nbody\r\n")
	if got != "body" {
		t.Errorf("stripFrontmatter = %q, want %q", got, "body")
	}
}
