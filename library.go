package inkpress

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/eringen/inkpress/frontmatter"
	"github.com/eringen/inkpress/markdown"
)

// Library is the parsed view of a content directory. Posts are sorted by
// date descending. Files that failed to parse are collected in Errors so
// the author sees every broken post in one pass; the rest of the site
// still loads.
type Library struct {
	Posts    []Post
	Errors   []FileError
	Warnings []FileWarning
}

// FileError ties a load failure to its source file.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string { return e.Path + ": " + e.Err.Error() }

// FileWarning is a non-fatal content-quality finding (see frontmatter.Lint).
type FileWarning struct {
	Path    string
	Message string
}

// LoadLibrary walks dir for .md files and parses each one. Posts are
// independent, so one malformed file never hides the others. It returns
// an error only when the directory itself cannot be read.
func LoadLibrary(dir string) (*Library, error) {
	lib := &Library{}
	seen := make(map[string]string) // slug -> first path

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}

		src, err := os.ReadFile(path)
		if err != nil {
			lib.Errors = append(lib.Errors, FileError{Path: rel, Err: err})
			return nil
		}

		post, err := buildPost(rel, src)
		if err != nil {
			lib.Errors = append(lib.Errors, FileError{Path: rel, Err: err})
			return nil
		}

		if first, dup := seen[post.Slug]; dup {
			lib.Errors = append(lib.Errors, FileError{
				Path: rel,
				Err:  fmt.Errorf("duplicate slug %q (already used by %s)", post.Slug, first),
			})
			return nil
		}
		seen[post.Slug] = rel

		for _, w := range frontmatter.Lint(post.Meta) {
			lib.Warnings = append(lib.Warnings, FileWarning{Path: rel, Message: w})
		}
		lib.Posts = append(lib.Posts, post)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load content dir %s: %w", dir, err)
	}

	sort.SliceStable(lib.Posts, func(i, j int) bool {
		return lib.Posts[i].Date.After(lib.Posts[j].Date)
	})
	return lib, nil
}

// buildPost parses one document and derives slug, link, and body stats.
func buildPost(relPath string, src []byte) (Post, error) {
	meta, body, err := frontmatter.Parse(src)
	if err != nil {
		return Post{}, err
	}

	slug := strings.TrimSpace(meta.Slug)
	if slug == "" {
		stem := strings.TrimSuffix(filepath.Base(relPath), filepath.Ext(relPath))
		slug = Slugify(stem)
	}
	if slug == "" {
		return Post{}, fmt.Errorf("cannot derive a slug from %q", relPath)
	}

	words, minutes := markdown.Stats(string(body))
	return Post{
		Meta:        meta,
		Slug:        slug,
		Path:        relPath,
		Body:        string(body),
		Link:        "/blog/" + slug + "/",
		WordCount:   words,
		ReadingTime: minutes,
	}, nil
}

// PublishedPosts returns the non-draft posts, still date-descending.
func (l *Library) PublishedPosts() []Post {
	var out []Post
	for _, p := range l.Posts {
		if p.Published() {
			out = append(out, p)
		}
	}
	return out
}

// PostsByTag returns published posts carrying tag, date-descending.
// Matching is case-insensitive.
func (l *Library) PostsByTag(tag string) []Post {
	want := normalizeTag(tag)
	var out []Post
	for _, p := range l.PublishedPosts() {
		for _, t := range p.Tags {
			if normalizeTag(t) == want {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Tags returns the sorted, deduplicated lowercase tags of published posts.
func (l *Library) Tags() []string {
	set := make(map[string]struct{})
	for _, p := range l.PublishedPosts() {
		for _, t := range p.Tags {
			if tag := normalizeTag(t); tag != "" {
				set[tag] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Get returns the post with the given slug, drafts included.
func (l *Library) Get(slug string) (Post, bool) {
	for _, p := range l.Posts {
		if p.Slug == slug {
			return p, true
		}
	}
	return Post{}, false
}
