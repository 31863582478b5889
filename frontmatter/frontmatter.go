// Package frontmatter reads and writes the YAML metadata block that leads
// every post file. A post document is a "---" line, a YAML mapping, a
// closing "---" line, and the Markdown body.
package frontmatter

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Meta is the typed front-matter record of a single post.
// Key spellings follow the conventional theme names, so files written by
// other tools keep working. Unknown keys are ignored on parse.
type Meta struct {
	Title       string    `yaml:"title"`
	Date        time.Time `yaml:"date"`
	Tags        []string  `yaml:"tags,omitempty"`
	Author      string    `yaml:"author,omitempty"`
	Description string    `yaml:"description,omitempty"`
	Slug        string    `yaml:"slug,omitempty"`
	Draft       bool      `yaml:"draft,omitempty"`

	HideMeta                       bool `yaml:"hidemeta,omitempty"`
	Comments                       bool `yaml:"comments,omitempty"`
	ShowReadingTime                bool `yaml:"ShowReadingTime,omitempty"`
	ShowBreadCrumbs                bool `yaml:"ShowBreadCrumbs,omitempty"`
	ShowPostNavLinks               bool `yaml:"ShowPostNavLinks,omitempty"`
	ShowWordCount                  bool `yaml:"ShowWordCount,omitempty"`
	ShowRssButtonInSectionTermList bool `yaml:"ShowRssButtonInSectionTermList,omitempty"`
	ShowToc                        bool `yaml:"showtoc,omitempty"`
	TocOpen                        bool `yaml:"tocopen,omitempty"`

	Cover *Cover `yaml:"cover,omitempty"`
}

// Cover describes the optional hero image. Image may be empty even when
// the cover mapping is present; that means "no cover image".
type Cover struct {
	Image    string `yaml:"image"`
	Alt      string `yaml:"alt,omitempty"`
	Caption  string `yaml:"caption,omitempty"`
	Relative bool   `yaml:"relative,omitempty"`
	Hidden   bool   `yaml:"hidden,omitempty"`
}

// HasImage reports whether the cover actually carries an image.
func (c *Cover) HasImage() bool {
	return c != nil && strings.TrimSpace(c.Image) != ""
}

// ParseError describes a document whose metadata block is absent,
// malformed, or missing a required key. A post that fails to parse fails
// to render; there is no partial result.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("front matter: %s: %v", e.Reason, e.Err)
	}
	return "front matter: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse splits src into its metadata block and body and decodes the block.
// It fails with *ParseError when the opening delimiter is missing, the
// block is unterminated, the YAML is invalid (including a wrong value type
// for a typed field), or title/date are absent.
func Parse(src []byte) (Meta, []byte, error) {
	block, body, err := split(src)
	if err != nil {
		return Meta{}, nil, err
	}

	var m Meta
	if err := yaml.Unmarshal(block, &m); err != nil {
		return Meta{}, nil, &ParseError{Reason: "invalid metadata block", Err: err}
	}
	if strings.TrimSpace(m.Title) == "" {
		return Meta{}, nil, &ParseError{Reason: "missing required key: title"}
	}
	if m.Date.IsZero() {
		return Meta{}, nil, &ParseError{Reason: "missing required key: date"}
	}
	return m, body, nil
}

// split separates the delimited metadata block from the body.
func split(src []byte) (block, body []byte, err error) {
	// Tolerate a UTF-8 BOM from editors that insist on writing one.
	src = bytes.TrimPrefix(src, []byte("\xef\xbb\xbf"))

	first, rest, found := bytes.Cut(src, []byte("\n"))
	if !found || strings.TrimRight(string(first), "\r") != delimiter {
		return nil, nil, &ParseError{Reason: "missing opening delimiter"}
	}

	// Scan line by line for the closing delimiter so a "---" inside a
	// quoted YAML value does not terminate the block early only when it
	// starts a line (matching what every renderer in the wild does).
	offset := 0
	for offset <= len(rest) {
		lineEnd := bytes.IndexByte(rest[offset:], '\n')
		var line []byte
		next := len(rest) + 1
		if lineEnd >= 0 {
			line = rest[offset : offset+lineEnd]
			next = offset + lineEnd + 1
		} else {
			line = rest[offset:]
		}
		if strings.TrimRight(string(line), "\r") == delimiter {
			block = rest[:offset]
			if next <= len(rest) {
				body = rest[next:]
			}
			return block, body, nil
		}
		offset = next
	}
	return nil, nil, &ParseError{Reason: "unterminated metadata block"}
}

// Serialize writes the document back out: delimiters, the YAML mapping,
// then the body. Parsing the result yields a record equivalent to m —
// false flags and empty optional keys are omitted because they decode to
// the same zero values.
func Serialize(m Meta, body []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(serializable(m)); err != nil {
		return nil, fmt.Errorf("encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode front matter: %w", err)
	}

	buf.WriteString(delimiter + "\n")
	if len(body) > 0 {
		if body[0] != '\n' {
			buf.WriteByte('\n')
		}
		buf.Write(body)
	}
	return buf.Bytes(), nil
}

// serializable normalizes a Meta for output: a cover mapping with no
// image and no other content collapses to nothing.
func serializable(m Meta) Meta {
	if m.Cover != nil && *m.Cover == (Cover{}) {
		m.Cover = nil
	}
	return m
}

// Lint returns content-quality warnings for a parsed record. These are
// advisory, never fatal: the post still renders.
func Lint(m Meta) []string {
	var warns []string
	if m.Cover.HasImage() && strings.TrimSpace(m.Cover.Alt) == "" {
		warns = append(warns, "cover.image is set but cover.alt is empty")
	}
	if strings.TrimSpace(m.Description) == "" {
		warns = append(warns, "description is empty; previews and meta tags will fall back to the title")
	}
	if m.Date.After(time.Now().Add(24 * time.Hour)) {
		warns = append(warns, "date is in the future")
	}
	return warns
}
