package inkpress

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/inkpress/frontmatter"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	a := &App{
		Config: SiteConfig{
			ContentDir:    t.TempDir(),
			AdminPassword: "hunter2",
			SessionSecret: "test-secret",
		},
		Store: store,
		Cache: NewPostCache(store, time.Minute),
		log:   zap.NewNop(),
		Views: ViewFuncs{
			AdminDashboard: func([]Post, []FileError, string, string) templ.Component {
				return emptyComponent()
			},
			AdminFormPartial: func(Post, string) templ.Component {
				return emptyComponent()
			},
		},
	}
	return a
}

func emptyComponent() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error { return nil })
}

// postAdminSave runs handleAdminSave behind the session middleware with an
// authenticated admin session, the way the route sees it in production.
func postAdminSave(t *testing.T, a *App, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/admin/save/", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := session.Middleware(sessions.NewCookieStore([]byte(a.Config.SessionSecret)))(
		func(c echo.Context) error {
			if err := setAdminSession(c); err != nil {
				return err
			}
			return a.handleAdminSave(c)
		})
	if err := h(c); err != nil {
		t.Fatalf("handleAdminSave: %v", err)
	}
	return rec
}

func writePostFile(t *testing.T, a *App, name, doc string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(a.Config.ContentDir, name), []byte(doc), 0o644); err != nil {
		t.Fatalf("write post file: %v", err)
	}
}

func TestAdminSaveKeepsUneditedFrontMatterKeys(t *testing.T) {
	a := newTestApp(t)
	writePostFile(t, a, "flags.md", `---
title: Flags
date: 2024-05-01
hidemeta: true
comments: true
ShowReadingTime: true
ShowBreadCrumbs: true
ShowPostNavLinks: true
ShowWordCount: true
ShowRssButtonInSectionTermList: true
cover:
  image: hero.jpg
  alt: a hero
  relative: true
  hidden: true
---
Original body.
`)
	if err := a.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	form := url.Values{
		"original_slug": {"flags"},
		"title":         {"Flags"},
		"slug":          {"flags"},
		"date":          {"2024-05-01"},
		"cover_image":   {"hero.jpg"},
		"cover_alt":     {"a hero"},
		"published":     {"1"},
		"content":       {"Edited body."},
	}
	postAdminSave(t, a, form)

	raw, err := os.ReadFile(filepath.Join(a.Config.ContentDir, "flags.md"))
	if err != nil {
		t.Fatalf("read rewritten file: %v", err)
	}
	meta, body, err := frontmatter.Parse(raw)
	if err != nil {
		t.Fatalf("parse rewritten file: %v", err)
	}

	if !meta.HideMeta || !meta.Comments || !meta.ShowReadingTime || !meta.ShowBreadCrumbs ||
		!meta.ShowPostNavLinks || !meta.ShowWordCount || !meta.ShowRssButtonInSectionTermList {
		t.Fatalf("save dropped display flags: %+v", meta)
	}
	if meta.Cover == nil || !meta.Cover.Relative || !meta.Cover.Hidden {
		t.Fatalf("save dropped cover flags: %+v", meta.Cover)
	}
	if !strings.Contains(string(body), "Edited body.") {
		t.Fatalf("body not updated: %q", body)
	}
}

func TestAdminSaveOverlaysEditedFields(t *testing.T) {
	a := newTestApp(t)
	writePostFile(t, a, "draft.md", `---
title: Old Title
date: 2024-05-01
showtoc: true
---
Body.
`)
	if err := a.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	// An unchecked checkbox arrives as an absent form key; the edited
	// fields must win even when they clear a value.
	form := url.Values{
		"original_slug": {"draft"},
		"title":         {"New Title"},
		"slug":          {"draft"},
		"date":          {"2024-05-01"},
		"published":     {"1"},
		"content":       {"Body."},
	}
	postAdminSave(t, a, form)

	post, err := a.Store.GetPostAny("draft")
	if err != nil {
		t.Fatalf("GetPostAny: %v", err)
	}
	if post.Title != "New Title" {
		t.Fatalf("title = %q, want New Title", post.Title)
	}
	if post.ShowToc {
		t.Fatalf("unchecked showtoc should clear the flag")
	}
}

func TestAdminSaveRenamedSlugRemovesOldFile(t *testing.T) {
	a := newTestApp(t)
	writePostFile(t, a, "old-name.md", `---
title: Renaming
date: 2024-05-01
---
Body.
`)
	if err := a.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	form := url.Values{
		"original_slug": {"old-name"},
		"title":         {"Renaming"},
		"slug":          {"new-name"},
		"date":          {"2024-05-01"},
		"published":     {"1"},
		"content":       {"Body."},
	}
	postAdminSave(t, a, form)

	if _, err := os.Stat(filepath.Join(a.Config.ContentDir, "old-name.md")); !os.IsNotExist(err) {
		t.Fatalf("old source file should be removed after rename, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(a.Config.ContentDir, "new-name.md")); err != nil {
		t.Fatalf("renamed source file missing: %v", err)
	}
	if _, err := a.Store.GetPostAny("old-name"); err != ErrNotFound {
		t.Fatalf("old slug should be gone from the index, err = %v", err)
	}
	if _, err := a.Store.GetPostAny("new-name"); err != nil {
		t.Fatalf("renamed slug missing from the index: %v", err)
	}
}
