// Package views provides the default templ components for inkpress.
// Every component is plain HTML built with templ.ComponentFunc, so sites
// can start from these and replace them one ViewFuncs field at a time.
package views

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/inkpress"
	"github.com/eringen/inkpress/markdown"
)

// Default returns a complete ViewFuncs backed by the built-in templates.
func Default(cfg inkpress.SiteConfig) inkpress.ViewFuncs {
	v := &defaultViews{cfg: cfg}
	return inkpress.ViewFuncs{
		Home:             v.Home,
		HomePartial:      v.HomePartial,
		BlogSection:      v.BlogSection,
		Post:             v.Post,
		PostPartial:      v.PostPartial,
		AdminLogin:       v.AdminLogin,
		AdminDashboard:   v.AdminDashboard,
		AdminFormPartial: v.AdminFormPartial,
		AdminImages:      v.AdminImages,
		NotFound:         v.NotFound,
		ServerError:      v.ServerError,
	}
}

type defaultViews struct {
	cfg inkpress.SiteConfig
}

// component wraps an HTML-writing function as a templ.Component.
func component(fn func(buf *bytes.Buffer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		fn(&buf)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

func esc(s string) string { return html.EscapeString(s) }

// layout writes the document shell around body. jsonLD may be empty.
func (v *defaultViews) layout(buf *bytes.Buffer, meta inkpress.PageMeta, jsonLD string, body func(*bytes.Buffer)) {
	title := meta.Title
	if title == "" {
		title = v.cfg.Name
	}
	buf.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	buf.WriteString("<meta charset=\"utf-8\">\n")
	buf.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	fmt.Fprintf(buf, "<title>%s</title>\n", esc(title))
	if meta.Description != "" {
		fmt.Fprintf(buf, "<meta name=\"description\" content=\"%s\">\n", esc(meta.Description))
	}
	if meta.URL != "" {
		fmt.Fprintf(buf, "<link rel=\"canonical\" href=\"%s\">\n", esc(meta.URL))
		fmt.Fprintf(buf, "<meta property=\"og:url\" content=\"%s\">\n", esc(meta.URL))
	}
	fmt.Fprintf(buf, "<meta property=\"og:title\" content=\"%s\">\n", esc(title))
	if meta.Description != "" {
		fmt.Fprintf(buf, "<meta property=\"og:description\" content=\"%s\">\n", esc(meta.Description))
	}
	ogType := meta.OGType
	if ogType == "" {
		ogType = "website"
	}
	fmt.Fprintf(buf, "<meta property=\"og:type\" content=\"%s\">\n", esc(ogType))
	if meta.Image != "" {
		fmt.Fprintf(buf, "<meta property=\"og:image\" content=\"%s\">\n", esc(meta.Image))
	}
	fmt.Fprintf(buf, "<link rel=\"alternate\" type=\"application/rss+xml\" title=\"%s\" href=\"/feed.xml\">\n", esc(v.cfg.Name))
	buf.WriteString("<link rel=\"stylesheet\" href=\"/public/style.css\">\n")
	if jsonLD != "" {
		fmt.Fprintf(buf, "<script type=\"application/ld+json\">%s</script>\n", jsonLD)
	}
	buf.WriteString("</head>\n<body>\n")

	v.header(buf)
	buf.WriteString("<main id=\"main\">\n")
	body(buf)
	buf.WriteString("</main>\n")
	v.footer(buf)

	if v.cfg.AnalyticsEnabled {
		buf.WriteString(analyticsBeacon)
	}

	buf.WriteString("</body>\n</html>\n")
}

func (v *defaultViews) header(buf *bytes.Buffer) {
	buf.WriteString("<header class=\"site-header\">\n")
	fmt.Fprintf(buf, "<a class=\"site-title\" href=\"/\">%s</a>\n", esc(v.cfg.Name))
	buf.WriteString("<nav><a href=\"/\">Posts</a> <a href=\"/feed.xml\">RSS</a></nav>\n")
	buf.WriteString("</header>\n")
}

func (v *defaultViews) footer(buf *bytes.Buffer) {
	buf.WriteString("<footer class=\"site-footer\">\n")
	if v.cfg.Author != "" {
		fmt.Fprintf(buf, "<span>&copy; %s</span>\n", esc(v.cfg.Author))
	}
	buf.WriteString("</footer>\n")
}

// NotFound renders the 404 page.
func (v *defaultViews) NotFound() templ.Component {
	return component(func(buf *bytes.Buffer) {
		v.layout(buf, inkpress.PageMeta{Title: "Not Found"}, "", func(buf *bytes.Buffer) {
			buf.WriteString("<section class=\"error-page\">\n")
			buf.WriteString("<h1>404</h1>\n<p>That page does not exist.</p>\n")
			buf.WriteString("<p><a href=\"/\">Back to the front page</a></p>\n")
			buf.WriteString("</section>\n")
		})
	})
}

// ServerError renders the 500 page.
func (v *defaultViews) ServerError() templ.Component {
	return component(func(buf *bytes.Buffer) {
		v.layout(buf, inkpress.PageMeta{Title: "Server Error"}, "", func(buf *bytes.Buffer) {
			buf.WriteString("<section class=\"error-page\">\n")
			buf.WriteString("<h1>500</h1>\n<p>Something went wrong. Try again in a moment.</p>\n")
			buf.WriteString("</section>\n")
		})
	})
}

// markdownHTML renders a post body through the shared renderer.
func markdownHTML(buf *bytes.Buffer, md string) {
	buf.WriteString(markdown.RenderHTML(md))
}

// analyticsBeacon reports one page view per load. The endpoint ignores
// bots and honors Do Not Track server-side.
const analyticsBeacon = `<script>
(function () {
  if (navigator.doNotTrack === "1") return;
  fetch("/api/analytics/visit/", {
    method: "POST",
    headers: { "Content-Type": "application/json" },
    body: JSON.stringify({
      path: location.pathname,
      referrer: document.referrer,
      user_agent: navigator.userAgent
    }),
    keepalive: true
  }).catch(function () {});
})();
</script>
`
