package frontmatter

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const sampleDoc = `---
title: "Deploying FastAPI on AWS Lambda"
date: 2024-03-11T09:30:00+01:00
tags:
  - aws
  - python
author: erin
description: Mangum, cold starts, and what the docs leave out.
ShowReadingTime: true
showtoc: true
tocopen: true
cover:
  image: /uploads/lambda-cover.jpg
  alt: Terminal showing a sam deploy run
  caption: The full deploy loop
---

## Why Lambda

Some body text with ` + "`code`" + ` in it.
`

func TestParseSampleDocument(t *testing.T) {
	m, body, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if m.Title != "Deploying FastAPI on AWS Lambda" {
		t.Errorf("Title = %q", m.Title)
	}
	want := time.Date(2024, 3, 11, 9, 30, 0, 0, time.FixedZone("", 3600))
	if !m.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", m.Date, want)
	}
	if len(m.Tags) != 2 || m.Tags[0] != "aws" || m.Tags[1] != "python" {
		t.Errorf("Tags = %v", m.Tags)
	}
	if !m.ShowReadingTime || !m.ShowToc || !m.TocOpen {
		t.Errorf("display flags not decoded: %+v", m)
	}
	if m.HideMeta || m.Comments || m.ShowWordCount {
		t.Errorf("unset flags should stay false: %+v", m)
	}
	if !m.Cover.HasImage() || m.Cover.Alt == "" {
		t.Errorf("Cover = %+v", m.Cover)
	}
	if !strings.Contains(string(body), "## Why Lambda") {
		t.Errorf("body missing heading: %q", body)
	}
}

func TestParseMissingDate(t *testing.T) {
	doc := "---\ntitle: No date here\n---\nbody\n"
	_, _, err := Parse([]byte(doc))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if !strings.Contains(pe.Reason, "date") {
		t.Errorf("Reason = %q, want mention of date", pe.Reason)
	}
}

func TestParseMissingTitle(t *testing.T) {
	doc := "---\ndate: 2024-01-01\n---\nbody\n"
	_, _, err := Parse([]byte(doc))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestParseNoOpeningDelimiter(t *testing.T) {
	_, _, err := Parse([]byte("# Just markdown\n\nNo metadata at all.\n"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Reason != "missing opening delimiter" {
		t.Errorf("Reason = %q", pe.Reason)
	}
}

func TestParseUnterminatedBlock(t *testing.T) {
	doc := "---\ntitle: Oops\ndate: 2024-01-01\n\n# body started without closing\n"
	_, _, err := Parse([]byte(doc))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Reason != "unterminated metadata block" {
		t.Errorf("Reason = %q", pe.Reason)
	}
}

func TestParseInvalidBooleanType(t *testing.T) {
	doc := "---\ntitle: Bad flag\ndate: 2024-01-01\nshowtoc: definitely\n---\nbody\n"
	_, _, err := Parse([]byte(doc))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError for bad bool, got %v", err)
	}
}

func TestParseIgnoresUnknownKeys(t *testing.T) {
	doc := "---\ntitle: Extra keys\ndate: 2024-01-01\neditor: vscode\nweight: 10\n---\nbody\n"
	m, _, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("unknown keys must be ignored, got %v", err)
	}
	if m.Title != "Extra keys" {
		t.Errorf("Title = %q", m.Title)
	}
}

func TestRoundTrip(t *testing.T) {
	m, body, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	out, err := Serialize(m, body)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	m2, body2, err := Parse(out)
	if err != nil {
		t.Fatalf("re-Parse failed: %v", err)
	}
	if m2.Title != m.Title || !m2.Date.Equal(m.Date) || m2.Author != m.Author || m2.Description != m.Description {
		t.Errorf("round trip changed scalars:\n  %+v\n  %+v", m, m2)
	}
	if len(m2.Tags) != len(m.Tags) {
		t.Fatalf("round trip changed tags: %v vs %v", m.Tags, m2.Tags)
	}
	for i := range m.Tags {
		if m2.Tags[i] != m.Tags[i] {
			t.Errorf("tag %d: %q vs %q", i, m.Tags[i], m2.Tags[i])
		}
	}
	if m2.ShowReadingTime != m.ShowReadingTime || m2.ShowToc != m.ShowToc || m2.TocOpen != m.TocOpen ||
		m2.HideMeta != m.HideMeta || m2.Comments != m.Comments {
		t.Errorf("round trip changed flags:\n  %+v\n  %+v", m, m2)
	}
	if m.Cover == nil || m2.Cover == nil || *m2.Cover != *m.Cover {
		t.Errorf("round trip changed cover: %+v vs %+v", m.Cover, m2.Cover)
	}
	if strings.TrimSpace(string(body2)) != strings.TrimSpace(string(body)) {
		t.Errorf("round trip changed body:\n%q\n%q", body, body2)
	}
}

func TestSerializeDropsEmptyCover(t *testing.T) {
	m := Meta{Title: "t", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Cover: &Cover{}}
	out, err := Serialize(m, []byte("body\n"))
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if strings.Contains(string(out), "cover") {
		t.Errorf("empty cover should be omitted:\n%s", out)
	}
}

func TestCoverWithEmptyImageIsAllowed(t *testing.T) {
	doc := "---\ntitle: t\ndate: 2024-01-01\ncover:\n  image: \"\"\n  hidden: true\n---\nbody\n"
	m, _, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if m.Cover == nil || m.Cover.HasImage() {
		t.Errorf("Cover = %+v, want present with no image", m.Cover)
	}
}

func TestLint(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		meta Meta
		want string
	}{
		{"cover without alt", Meta{Title: "t", Date: date, Description: "d", Cover: &Cover{Image: "/x.jpg"}}, "cover.alt"},
		{"empty description", Meta{Title: "t", Date: date}, "description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warns := Lint(tt.meta)
			found := false
			for _, w := range warns {
				if strings.Contains(w, tt.want) {
					found = true
				}
			}
			if !found {
				t.Errorf("Lint(%+v) = %v, want warning about %s", tt.meta, warns, tt.want)
			}
		})
	}
	clean := Meta{Title: "t", Date: date, Description: "d", Cover: &Cover{Image: "/x.jpg", Alt: "alt"}}
	if warns := Lint(clean); len(warns) != 0 {
		t.Errorf("Lint(clean) = %v, want none", warns)
	}
}
