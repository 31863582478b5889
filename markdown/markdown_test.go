package markdown

import (
	"strings"
	"testing"
)

func TestRenderHTMLBasics(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"**bold**", []string{"<strong>bold</strong>"}},
		{"*italic*", []string{"<em>italic</em>"}},
		{"[link](https://example.com)", []string{`<a href="https://example.com">link</a>`}},
		{"- one\n- two", []string{"<ul>", "<li>one</li>", "<li>two</li>"}},
		{"> quoted", []string{"<blockquote>", "quoted"}},
		{"| a | b |\n|---|---|\n| 1 | 2 |", []string{"<table>", "<th>a</th>", "<td>2</td>"}},
	}
	for _, tt := range tests {
		got := RenderHTML(tt.input)
		for _, want := range tt.want {
			if !strings.Contains(got, want) {
				t.Errorf("RenderHTML(%q) = %q, want substring %q", tt.input, got, want)
			}
		}
	}
}

func TestRenderHTMLFencedCodeBlock(t *testing.T) {
	input := "```python\nimport logging\n```"
	got := RenderHTML(input)
	if !strings.Contains(got, `<code class="language-python">`) {
		t.Errorf("missing language class: %q", got)
	}
	if !strings.Contains(got, "import logging") {
		t.Errorf("missing code content: %q", got)
	}
}

func TestRenderHTMLEscapesRawScript(t *testing.T) {
	got := RenderHTML("hello <script>alert(1)</script>")
	if strings.Contains(got, "<script>") {
		t.Errorf("raw HTML must not pass through: %q", got)
	}
}

func TestHeadingAnchors(t *testing.T) {
	md := "## Why Lambda\n\ntext\n\n### Cold Starts\n"
	got := RenderHTML(md)
	if !strings.Contains(got, `id="why-lambda"`) {
		t.Errorf("missing h2 anchor: %q", got)
	}
	if !strings.Contains(got, `id="cold-starts"`) {
		t.Errorf("missing h3 anchor: %q", got)
	}
}

func TestOutlineMatchesAnchors(t *testing.T) {
	md := "# Title\n\n## Setup\n\nbody\n\n## Setup\n\nduplicate heading\n"
	outline := Outline(md)
	if len(outline) != 3 {
		t.Fatalf("Outline returned %d headings, want 3", len(outline))
	}
	if outline[0].Level != 1 || outline[0].Text != "Title" {
		t.Errorf("outline[0] = %+v", outline[0])
	}
	html := RenderHTML(md)
	for _, h := range outline {
		if h.ID == "" {
			t.Errorf("heading %q has no id", h.Text)
			continue
		}
		if !strings.Contains(html, `id="`+h.ID+`"`) {
			t.Errorf("rendered HTML missing anchor %q for %q", h.ID, h.Text)
		}
	}
	if outline[1].ID == outline[2].ID {
		t.Errorf("duplicate headings must get distinct ids: %q", outline[1].ID)
	}
}

func TestStats(t *testing.T) {
	words, minutes := Stats("one two three")
	if words != 3 || minutes != 1 {
		t.Errorf("Stats = (%d, %d), want (3, 1)", words, minutes)
	}
	long := strings.Repeat("word ", 450)
	words, minutes = Stats(long)
	if words != 450 || minutes != 3 {
		t.Errorf("Stats(450 words) = (%d, %d), want (450, 3)", words, minutes)
	}
	if w, m := Stats(""); w != 0 || m != 0 {
		t.Errorf("Stats(empty) = (%d, %d)", w, m)
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://example.com", "https://example.com"},
		{"/uploads/cover.jpg", "/uploads/cover.jpg"},
		{"#setup", "#setup"},
		{"javascript:alert(1)", ""},
		{"", ""},
		{"mailto:erin@example.com", "mailto:erin@example.com"},
	}
	for _, tt := range tests {
		if got := SafeURL(tt.input); got != tt.want {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
