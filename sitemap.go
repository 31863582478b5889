package inkpress

import (
	"encoding/xml"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// buildSitemap assembles the sitemap for the home page, tag pages, and
// published posts.
func (a *App) buildSitemap(posts []Post, tags []string) sitemapURLSet {
	base := a.Config.URL
	urls := []sitemapURL{
		{Loc: BuildURL(base)},
	}
	// Tag names can hold URL-unsafe characters; the segment is escaped the
	// same way the tag links in the views are.
	for _, t := range tags {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, "tags") + PathEscape(t) + "/"})
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(base, "blog", p.Slug),
			LastMod: p.Date.Format("2006-01-02"),
		})
	}
	return sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
}

func writeSitemap(w io.Writer, sm sitemapURLSet) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(sm)
}

func (a *App) renderSitemap(c echo.Context, posts []Post) error {
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return writeSitemap(c.Response(), a.buildSitemap(posts, tags))
}
