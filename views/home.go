package views

import (
	"bytes"
	"fmt"

	"github.com/a-h/templ"

	"github.com/eringen/inkpress"
)

// Home renders the full front page: header, intro, and the post listing.
// When activeTag is set the listing is filtered to that tag.
func (v *defaultViews) Home(posts []inkpress.Post, activeTag string, tags []string, siteURL string) templ.Component {
	return component(func(buf *bytes.Buffer) {
		title := v.cfg.Name
		url := inkpress.BuildURL(siteURL)
		if activeTag != "" {
			title = activeTag + " - " + v.cfg.Name
			url = inkpress.BuildURL(siteURL, "tags", activeTag)
		}
		meta := inkpress.PageMeta{
			Title:       title,
			Description: v.cfg.Description,
			URL:         url,
			OGType:      "website",
		}
		v.layout(buf, meta, inkpress.WebsiteJsonLD(v.cfg), func(buf *bytes.Buffer) {
			v.homeBody(buf, posts, activeTag, tags)
		})
	})
}

// HomePartial renders the home content without the document shell, for
// htmx swaps of the whole main region.
func (v *defaultViews) HomePartial(posts []inkpress.Post, activeTag string, tags []string, siteURL string) templ.Component {
	return component(func(buf *bytes.Buffer) {
		v.homeBody(buf, posts, activeTag, tags)
	})
}

// BlogSection renders just the post listing, for htmx tag filtering.
func (v *defaultViews) BlogSection(posts []inkpress.Post, activeTag string, tags []string) templ.Component {
	return component(func(buf *bytes.Buffer) {
		v.postList(buf, posts, activeTag, tags)
	})
}

func (v *defaultViews) homeBody(buf *bytes.Buffer, posts []inkpress.Post, activeTag string, tags []string) {
	buf.WriteString("<section class=\"intro\">\n")
	if activeTag != "" {
		fmt.Fprintf(buf, "<h1>Posts tagged &ldquo;%s&rdquo;</h1>\n", esc(activeTag))
		rss := false
		for _, p := range posts {
			if p.ShowRssButtonInSectionTermList {
				rss = true
				break
			}
		}
		if rss {
			buf.WriteString("<a class=\"rss-button\" href=\"/feed.xml\">RSS</a>\n")
		}
	} else {
		fmt.Fprintf(buf, "<h1>%s</h1>\n", esc(v.cfg.Name))
		if v.cfg.Description != "" {
			fmt.Fprintf(buf, "<p>%s</p>\n", esc(v.cfg.Description))
		}
	}
	buf.WriteString("</section>\n")
	v.postList(buf, posts, activeTag, tags)
}

func (v *defaultViews) postList(buf *bytes.Buffer, posts []inkpress.Post, activeTag string, tags []string) {
	buf.WriteString("<section id=\"blog\" class=\"post-list\">\n")

	if len(tags) > 0 {
		buf.WriteString("<nav class=\"tag-nav\">\n")
		class := "tag"
		if activeTag == "" {
			class = "tag active"
		}
		fmt.Fprintf(buf, "<a class=\"%s\" href=\"/\">All</a>\n", class)
		for _, t := range tags {
			class := "tag"
			if t == activeTag {
				class = "tag active"
			}
			fmt.Fprintf(buf, "<a class=\"%s\" href=\"/tags/%s/\">%s</a>\n",
				class, inkpress.PathEscape(t), esc(t))
		}
		buf.WriteString("</nav>\n")
	}

	if len(posts) == 0 {
		buf.WriteString("<p class=\"empty\">Nothing here yet.</p>\n")
	}

	for _, p := range posts {
		buf.WriteString("<article class=\"post-card\">\n")
		fmt.Fprintf(buf, "<h2><a href=\"%s\">%s</a></h2>\n", esc(p.Link), esc(p.Title))
		fmt.Fprintf(buf, "<time datetime=\"%s\">%s</time>\n", esc(p.MachineDate()), esc(p.DisplayDate()))
		if p.Description != "" {
			fmt.Fprintf(buf, "<p>%s</p>\n", esc(p.Description))
		}
		for _, t := range p.Tags {
			fmt.Fprintf(buf, "<a class=\"tag\" href=\"/tags/%s/\">%s</a>\n",
				inkpress.PathEscape(t), esc(t))
		}
		buf.WriteString("</article>\n")
	}

	buf.WriteString("</section>\n")
}
