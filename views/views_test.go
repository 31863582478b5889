package views

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/inkpress"
	"github.com/eringen/inkpress/frontmatter"
	"github.com/eringen/inkpress/markdown"
)

func renderToString(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	if err := c.Render(context.Background(), &b); err != nil {
		t.Fatalf("render: %v", err)
	}
	return b.String()
}

func testViews() *defaultViews {
	return &defaultViews{cfg: inkpress.SiteConfig{
		Name:        "Test Blog",
		URL:         "https://example.com",
		Description: "A test site",
		Author:      "Jo Tester",
	}}
}

func testPost() inkpress.Post {
	return inkpress.Post{
		Meta: frontmatter.Meta{
			Title:       "Hello World",
			Date:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			Tags:        []string{"go"},
			Description: "A greeting",
		},
		Slug:        "hello-world",
		Body:        "## Intro\n\nHi there.\n",
		Link:        "/blog/hello-world/",
		WordCount:   120,
		ReadingTime: 1,
	}
}

func testToc() []markdown.Heading {
	return []markdown.Heading{{Level: 2, Text: "Intro", ID: "intro"}}
}

func TestTocClosedByDefault(t *testing.T) {
	v := testViews()
	post := testPost()
	post.ShowToc = true

	html := renderToString(t, v.Post(post, testToc(), inkpress.PostNav{}, nil, v.cfg.URL))
	if !strings.Contains(html, `<details class="toc">`) {
		t.Error("showtoc should render a collapsed details element")
	}
	if strings.Contains(html, `<details class="toc" open>`) {
		t.Error("toc must not start open without tocopen")
	}
	if !strings.Contains(html, `href="#intro"`) {
		t.Error("toc entries should link to heading anchors")
	}
}

func TestTocOpenWhenBothFlagsSet(t *testing.T) {
	v := testViews()
	post := testPost()
	post.ShowToc = true
	post.TocOpen = true

	html := renderToString(t, v.Post(post, testToc(), inkpress.PostNav{}, nil, v.cfg.URL))
	if !strings.Contains(html, `<details class="toc" open>`) {
		t.Error("showtoc with tocopen should render an initially expanded toc")
	}
}

func TestTocAbsentWithoutShowToc(t *testing.T) {
	v := testViews()
	post := testPost()

	html := renderToString(t, v.Post(post, testToc(), inkpress.PostNav{}, nil, v.cfg.URL))
	if strings.Contains(html, "<details") {
		t.Error("toc must not render when showtoc is false")
	}
}

func TestHideMetaSuppressesByline(t *testing.T) {
	v := testViews()
	post := testPost()
	post.ShowReadingTime = true

	html := renderToString(t, v.Post(post, nil, inkpress.PostNav{}, nil, v.cfg.URL))
	if !strings.Contains(html, "post-meta") {
		t.Fatal("meta row should render by default")
	}

	post.HideMeta = true
	html = renderToString(t, v.Post(post, nil, inkpress.PostNav{}, nil, v.cfg.URL))
	if strings.Contains(html, "post-meta") {
		t.Error("hidemeta must suppress the whole meta row")
	}
}

func TestReadingTimeAndWordCountToggles(t *testing.T) {
	v := testViews()
	post := testPost()

	html := renderToString(t, v.Post(post, nil, inkpress.PostNav{}, nil, v.cfg.URL))
	if strings.Contains(html, "min read") || strings.Contains(html, "words") {
		t.Error("reading time and word count are opt-in")
	}

	post.ShowReadingTime = true
	post.ShowWordCount = true
	html = renderToString(t, v.Post(post, nil, inkpress.PostNav{}, nil, v.cfg.URL))
	if !strings.Contains(html, "1 min read") {
		t.Error("missing reading time")
	}
	if !strings.Contains(html, "120 words") {
		t.Error("missing word count")
	}
}

func TestCoverRendering(t *testing.T) {
	v := testViews()
	post := testPost()
	post.Cover = &frontmatter.Cover{
		Image:   "/public/images/hero.jpg",
		Alt:     "A sunrise",
		Caption: "Taken at 6am",
	}

	html := renderToString(t, v.Post(post, nil, inkpress.PostNav{}, nil, v.cfg.URL))
	if !strings.Contains(html, `src="/public/images/hero.jpg"`) {
		t.Error("cover image missing")
	}
	if !strings.Contains(html, `alt="A sunrise"`) {
		t.Error("cover alt missing")
	}
	if !strings.Contains(html, "<figcaption>Taken at 6am</figcaption>") {
		t.Error("cover caption missing")
	}

	post.Cover.Hidden = true
	html = renderToString(t, v.Post(post, nil, inkpress.PostNav{}, nil, v.cfg.URL))
	if strings.Contains(html, "<figure") {
		t.Error("hidden cover must not render on the post page")
	}
}

func TestCoverRelativePath(t *testing.T) {
	v := testViews()
	post := testPost()
	post.Cover = &frontmatter.Cover{Image: "hero.jpg", Relative: true}

	html := renderToString(t, v.Post(post, nil, inkpress.PostNav{}, nil, v.cfg.URL))
	if !strings.Contains(html, `src="/blog/hello-world/hero.jpg"`) {
		t.Error("relative cover should resolve against the post URL")
	}
}

func TestBreadcrumbsAndNavLinks(t *testing.T) {
	v := testViews()
	post := testPost()
	prev := testPost()
	prev.Slug = "earlier"
	prev.Title = "Earlier Post"
	prev.Link = "/blog/earlier/"
	nav := inkpress.PostNav{Prev: &prev}

	html := renderToString(t, v.Post(post, nil, nav, nil, v.cfg.URL))
	if strings.Contains(html, "breadcrumbs") {
		t.Error("breadcrumbs are opt-in")
	}
	if strings.Contains(html, "post-nav") {
		t.Error("nav links are opt-in")
	}

	post.ShowBreadCrumbs = true
	post.ShowPostNavLinks = true
	html = renderToString(t, v.Post(post, nil, nav, nil, v.cfg.URL))
	if !strings.Contains(html, "breadcrumbs") {
		t.Error("missing breadcrumbs")
	}
	if !strings.Contains(html, `href="/blog/earlier/"`) {
		t.Error("missing prev link")
	}
}

func TestHomeRendersTagNavAndCards(t *testing.T) {
	v := testViews()
	posts := []inkpress.Post{testPost()}

	html := renderToString(t, v.Home(posts, "", []string{"go"}, v.cfg.URL))
	if !strings.Contains(html, `href="/blog/hello-world/"`) {
		t.Error("post card link missing")
	}
	if !strings.Contains(html, `href="/tags/go/"`) {
		t.Error("tag nav missing")
	}
	if !strings.Contains(html, "<title>Test Blog</title>") {
		t.Error("site title missing")
	}
}

func TestEscapingInTemplates(t *testing.T) {
	v := testViews()
	post := testPost()
	post.Title = `<script>alert("x")</script>`

	html := renderToString(t, v.Post(post, nil, inkpress.PostNav{}, nil, v.cfg.URL))
	if strings.Contains(html, `<script>alert`) {
		t.Error("title must be escaped")
	}
}

func TestAdminImagesLinkToUploadsDir(t *testing.T) {
	v := testViews()
	images := []inkpress.Image{{Filename: "sunset.jpg", Width: 1200, Height: 800}}

	html := renderToString(t, v.AdminImages(images, "tok"))
	if !strings.Contains(html, `src="/public/uploads/sunset.jpg"`) {
		t.Error("preview must point at the uploads dir")
	}
	if !strings.Contains(html, `<code>/public/uploads/sunset.jpg</code>`) {
		t.Error("copy-paste path must point at the uploads dir")
	}
}

func TestAdminFormCarriesOriginalSlug(t *testing.T) {
	v := testViews()
	post := testPost()

	html := renderToString(t, v.AdminFormPartial(post, "tok"))
	if !strings.Contains(html, `name="original_slug" value="hello-world"`) {
		t.Error("editor form must carry the slug being edited")
	}
}
