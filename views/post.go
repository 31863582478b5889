package views

import (
	"bytes"
	"fmt"

	"github.com/a-h/templ"

	"github.com/eringen/inkpress"
	"github.com/eringen/inkpress/markdown"
)

// Post renders a full article page. Every front-matter display flag is
// honored here: hidemeta suppresses the byline row, showtoc adds the
// table of contents (open when tocopen is also set), and the breadcrumb,
// nav-link, reading-time, and word-count toggles each control one widget.
func (v *defaultViews) Post(post inkpress.Post, toc []markdown.Heading, nav inkpress.PostNav, related []inkpress.Post, siteURL string) templ.Component {
	return component(func(buf *bytes.Buffer) {
		meta := inkpress.PageMeta{
			Title:       post.Title + " - " + v.cfg.Name,
			Description: post.Description,
			URL:         inkpress.BuildURL(siteURL, "blog", post.Slug),
			OGType:      "article",
		}
		if post.Cover.HasImage() && !post.Cover.Hidden {
			meta.Image = coverSrc(post)
		}
		v.layout(buf, meta, inkpress.BlogPostingJsonLD(post, v.cfg), func(buf *bytes.Buffer) {
			v.postBody(buf, post, toc, nav, related)
		})
	})
}

// PostPartial renders the article without the document shell.
func (v *defaultViews) PostPartial(post inkpress.Post, toc []markdown.Heading, nav inkpress.PostNav, related []inkpress.Post, siteURL string) templ.Component {
	return component(func(buf *bytes.Buffer) {
		v.postBody(buf, post, toc, nav, related)
	})
}

func (v *defaultViews) postBody(buf *bytes.Buffer, post inkpress.Post, toc []markdown.Heading, nav inkpress.PostNav, related []inkpress.Post) {
	buf.WriteString("<article class=\"post\">\n")

	if post.ShowBreadCrumbs {
		buf.WriteString("<nav class=\"breadcrumbs\" aria-label=\"Breadcrumb\">\n")
		fmt.Fprintf(buf, "<a href=\"/\">Home</a> &raquo; <a href=\"/\">Posts</a> &raquo; <span>%s</span>\n", esc(post.Title))
		buf.WriteString("</nav>\n")
	}

	fmt.Fprintf(buf, "<h1>%s</h1>\n", esc(post.Title))

	if !post.HideMeta {
		buf.WriteString("<div class=\"post-meta\">\n")
		fmt.Fprintf(buf, "<time datetime=\"%s\">%s</time>\n", esc(post.MachineDate()), esc(post.DisplayDate()))
		author := post.Author
		if author == "" {
			author = v.cfg.Author
		}
		if author != "" {
			fmt.Fprintf(buf, "<span class=\"author\">%s</span>\n", esc(author))
		}
		if post.ShowReadingTime {
			fmt.Fprintf(buf, "<span class=\"reading-time\">%d min read</span>\n", post.ReadingTime)
		}
		if post.ShowWordCount {
			fmt.Fprintf(buf, "<span class=\"word-count\">%d words</span>\n", post.WordCount)
		}
		buf.WriteString("</div>\n")
	}

	if post.Cover.HasImage() && !post.Cover.Hidden {
		buf.WriteString("<figure class=\"cover\">\n")
		fmt.Fprintf(buf, "<img src=\"%s\" alt=\"%s\">\n", esc(coverSrc(post)), esc(post.Cover.Alt))
		if post.Cover.Caption != "" {
			fmt.Fprintf(buf, "<figcaption>%s</figcaption>\n", esc(post.Cover.Caption))
		}
		buf.WriteString("</figure>\n")
	}

	if post.ShowToc && len(toc) > 0 {
		if post.TocOpen {
			buf.WriteString("<details class=\"toc\" open>\n")
		} else {
			buf.WriteString("<details class=\"toc\">\n")
		}
		buf.WriteString("<summary>Table of Contents</summary>\n<ul>\n")
		for _, h := range toc {
			fmt.Fprintf(buf, "<li class=\"toc-level-%d\"><a href=\"#%s\">%s</a></li>\n",
				h.Level, esc(h.ID), esc(h.Text))
		}
		buf.WriteString("</ul>\n</details>\n")
	}

	buf.WriteString("<div class=\"post-content\">\n")
	markdownHTML(buf, post.Body)
	buf.WriteString("</div>\n")

	if len(post.Tags) > 0 {
		buf.WriteString("<div class=\"post-tags\">\n")
		for _, t := range post.Tags {
			fmt.Fprintf(buf, "<a class=\"tag\" href=\"/tags/%s/\">%s</a>\n",
				inkpress.PathEscape(t), esc(t))
		}
		buf.WriteString("</div>\n")
	}

	if post.ShowPostNavLinks && (nav.Prev != nil || nav.Next != nil) {
		buf.WriteString("<nav class=\"post-nav\">\n")
		if nav.Prev != nil {
			fmt.Fprintf(buf, "<a class=\"prev\" href=\"%s\">&larr; %s</a>\n",
				esc(nav.Prev.Link), esc(nav.Prev.Title))
		}
		if nav.Next != nil {
			fmt.Fprintf(buf, "<a class=\"next\" href=\"%s\">%s &rarr;</a>\n",
				esc(nav.Next.Link), esc(nav.Next.Title))
		}
		buf.WriteString("</nav>\n")
	}

	if len(related) > 0 {
		buf.WriteString("<aside class=\"related\">\n<h2>Related posts</h2>\n<ul>\n")
		for _, r := range related {
			fmt.Fprintf(buf, "<li><a href=\"%s\">%s</a></li>\n", esc(r.Link), esc(r.Title))
		}
		buf.WriteString("</ul>\n</aside>\n")
	}

	if post.Comments {
		buf.WriteString("<section id=\"comments\" class=\"comments\"></section>\n")
	}

	buf.WriteString("</article>\n")
}

// coverSrc resolves the cover image URL. A relative cover lives next to
// the post, so the post link becomes the prefix.
func coverSrc(post inkpress.Post) string {
	src := post.Cover.Image
	if post.Cover.Relative {
		return post.Link + src
	}
	return src
}
