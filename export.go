package inkpress

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/eringen/inkpress/markdown"
)

// Export renders the whole site to plain files under outDir: the home
// page, every published post, every tag listing, feed.xml, sitemap.xml,
// and robots.txt, plus a copy of the static assets. Any post that fails
// to parse aborts the export — a broken source tree must not ship a
// silently smaller site.
func (a *App) Export(outDir string) error {
	lib, err := LoadLibrary(a.Config.ContentDir)
	if err != nil {
		return err
	}
	if len(lib.Errors) > 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "%d post(s) failed to parse:", len(lib.Errors))
		for _, fe := range lib.Errors {
			b.WriteString("\n  " + fe.Error())
		}
		return fmt.Errorf("%s", b.String())
	}
	for _, fw := range lib.Warnings {
		a.log.Warn("content warning", zap.String("file", fw.Path), zap.String("warning", fw.Message))
	}

	posts := lib.PublishedPosts()
	tags := lib.Tags()

	if err := a.exportComponent(outDir, "index.html", a.Views.Home(posts, "", tags, a.Config.URL)); err != nil {
		return err
	}

	for _, p := range posts {
		var toc []markdown.Heading
		if p.ShowToc {
			toc = markdown.Outline(p.Body)
		}
		nav := NavFor(p.Slug, posts)
		related := FilterRelatedPosts(p, posts)
		page := filepath.Join("blog", p.Slug, "index.html")
		if err := a.exportComponent(outDir, page, a.Views.Post(p, toc, nav, related, a.Config.URL)); err != nil {
			return err
		}
	}

	for _, tag := range tags {
		page := filepath.Join("tags", tag, "index.html")
		if err := a.exportComponent(outDir, page, a.Views.Home(lib.PostsByTag(tag), tag, tags, a.Config.URL)); err != nil {
			return err
		}
	}

	if err := a.exportFile(outDir, "feed.xml", func(w io.Writer) error {
		return writeFeed(w, a.buildFeed(posts))
	}); err != nil {
		return err
	}
	if err := a.exportFile(outDir, "sitemap.xml", func(w io.Writer) error {
		return writeSitemap(w, a.buildSitemap(posts, tags))
	}); err != nil {
		return err
	}
	if err := a.exportFile(outDir, "robots.txt", func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
		return err
	}); err != nil {
		return err
	}

	if err := a.copyStatic(outDir); err != nil {
		return err
	}

	a.log.Info("site exported",
		zap.String("dir", outDir),
		zap.Int("posts", len(posts)),
		zap.Int("tags", len(tags)))
	return nil
}

func (a *App) exportComponent(outDir, page string, cmp templ.Component) error {
	return a.exportFile(outDir, page, func(w io.Writer) error {
		return cmp.Render(context.Background(), w)
	})
}

func (a *App) exportFile(outDir, page string, write func(io.Writer) error) error {
	path := filepath.Join(outDir, page)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export %s: %w", page, err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return fmt.Errorf("export %s: %w", page, err)
	}
	return f.Close()
}

// copyStatic mirrors the user's static dir into outDir/public. A missing
// static dir is fine; not every site has one.
func (a *App) copyStatic(outDir string) error {
	info, err := os.Stat(a.staticDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("static dir %s is not a directory", a.staticDir)
	}

	return filepath.WalkDir(a.staticDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(a.staticDir, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(outDir, "public", rel)
		if d.IsDir() {
			return os.MkdirAll(dst, 0o755)
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		out, err := os.Create(dst)
		if err != nil {
			return err
		}
		defer out.Close()
		if _, err := io.Copy(out, src); err != nil {
			return err
		}
		return out.Close()
	})
}
