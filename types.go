package inkpress

import (
	"time"

	"github.com/eringen/inkpress/frontmatter"
)

// Post is one article: its front-matter record plus the Markdown body and
// the values derived from them. The source .md file is the authoritative
// copy; everything else in the engine is rebuilt from it.
type Post struct {
	frontmatter.Meta

	Slug string // front-matter slug, else slugified file stem
	Path string // source path relative to the content dir
	Body string // Markdown body, front-matter stripped
	Link string // site-relative URL, e.g. /blog/json-logging/

	WordCount   int
	ReadingTime int // minutes, never zero for a non-empty body
}

// Published reports whether the post appears in public listings, feeds,
// the sitemap, and static exports.
func (p Post) Published() bool { return !p.Draft }

// DisplayDate formats the publication instant for bylines.
func (p Post) DisplayDate() string { return p.Date.Format("Jan 2, 2006") }

// MachineDate formats the publication instant for <time datetime=...>,
// feeds, and the sitemap.
func (p Post) MachineDate() string { return p.Date.Format(time.RFC3339) }

// PostNav points at the chronologically adjacent published posts.
type PostNav struct {
	Prev *Post // older
	Next *Post // newer
}

// NavFor returns the posts adjacent to slug. posts must be sorted newest
// first, as ListPosts and PublishedPosts return them.
func NavFor(slug string, posts []Post) PostNav {
	var nav PostNav
	for i := range posts {
		if posts[i].Slug != slug {
			continue
		}
		if i > 0 {
			nav.Next = &posts[i-1]
		}
		if i < len(posts)-1 {
			nav.Prev = &posts[i+1]
		}
		break
	}
	return nav
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string // og:image, usually the cover
}

// Image records an uploaded, processed image asset.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}
