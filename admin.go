package inkpress

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/inkpress/frontmatter"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminPost(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	slug := c.Param("slug")
	post, err := a.Store.GetPostAny(slug)
	if err != nil {
		if err == ErrNotFound {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return Render(c, a.Views.AdminFormPartial(post, CsrfToken(c)))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

// handleAdminSave writes the post back to its .md source file. The form
// carries only the fields the editor exposes, so the existing record is
// loaded first and the form values overlaid onto it; keys the form never
// touches survive the rewrite.
func (a *App) handleAdminSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	title := strings.TrimSpace(c.FormValue("title"))
	slug := strings.TrimSpace(c.FormValue("slug"))
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return c.Redirect(http.StatusSeeOther, "/admin/?msg=Slug+is+required.+Add+a+title+or+slug.")
	}
	date, err := parseFormDate(c.FormValue("date"))
	if err != nil {
		return c.Redirect(http.StatusSeeOther, "/admin/?msg=Invalid+date.+Use+YYYY-MM-DD+or+RFC3339.")
	}

	// original_slug identifies the record being edited even when the
	// author renames the slug in the form.
	origSlug := strings.TrimSpace(c.FormValue("original_slug"))
	if origSlug == "" {
		origSlug = slug
	}
	var existing *Post
	if prev, err := a.Store.GetPostAny(origSlug); err == nil {
		existing = &prev
	} else if err != ErrNotFound {
		return err
	}

	var meta frontmatter.Meta
	if existing != nil {
		meta = existing.Meta
	}
	meta.Title = title
	meta.Date = date
	meta.Tags = FilterEmpty(strings.Split(c.FormValue("tags"), ","))
	meta.Author = strings.TrimSpace(c.FormValue("author"))
	meta.Description = strings.TrimSpace(c.FormValue("description"))
	meta.Slug = slug
	meta.Draft = c.FormValue("published") == ""
	meta.ShowToc = c.FormValue("showtoc") != ""
	meta.TocOpen = c.FormValue("tocopen") != ""

	coverImage := strings.TrimSpace(c.FormValue("cover_image"))
	if coverImage == "" {
		meta.Cover = nil
	} else {
		cover := frontmatter.Cover{
			Image:   coverImage,
			Alt:     strings.TrimSpace(c.FormValue("cover_alt")),
			Caption: strings.TrimSpace(c.FormValue("cover_caption")),
		}
		if meta.Cover != nil {
			cover.Relative = meta.Cover.Relative
			cover.Hidden = meta.Cover.Hidden
		}
		meta.Cover = &cover
	}

	doc, err := frontmatter.Serialize(meta, []byte(c.FormValue("content")))
	if err != nil {
		return err
	}

	path, err := a.postFilePath(slug)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("write post file: %w", err)
	}
	// A slug rename writes to a new path; removing the old source keeps
	// the post from reappearing twice on the next reload.
	if existing != nil && existing.Slug != slug {
		oldPath := filepath.Join(a.Config.ContentDir, existing.Path)
		if oldPath != path {
			if err := os.Remove(oldPath); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("remove renamed post file: %w", err)
			}
		}
	}
	a.log.Info("post saved", zap.String("slug", slug), zap.String("file", path))

	if err := a.Reload(); err != nil {
		return err
	}
	return a.renderAdminDashboard(c, "saved")
}

func (a *App) handleAdminDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	slug := c.Param("slug")
	post, err := a.Store.GetPostAny(slug)
	if err != nil {
		if err == ErrNotFound {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	if err := os.Remove(filepath.Join(a.Config.ContentDir, post.Path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove post file: %w", err)
	}
	a.log.Info("post deleted", zap.String("slug", slug), zap.String("file", post.Path))

	if err := a.Reload(); err != nil {
		return err
	}
	return a.renderAdminDashboard(c, "deleted")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	posts, err := a.Store.ListAllPosts()
	if err != nil {
		return err
	}
	// Re-walk so the dashboard surfaces files that failed to parse; the
	// index only knows about the posts that loaded.
	var issues []FileError
	if lib, err := LoadLibrary(a.Config.ContentDir); err == nil {
		issues = lib.Errors
	}
	return Render(c, a.Views.AdminDashboard(posts, issues, msg, CsrfToken(c)))
}

// postFilePath locates the source file for slug, or chooses a fresh path
// for a new post.
func (a *App) postFilePath(slug string) (string, error) {
	existing, err := a.Store.GetPostAny(slug)
	if err == nil {
		return filepath.Join(a.Config.ContentDir, existing.Path), nil
	}
	if err != ErrNotFound {
		return "", err
	}
	return filepath.Join(a.Config.ContentDir, slug+".md"), nil
}

func parseFormDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now().UTC().Truncate(time.Second), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
