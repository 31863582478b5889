// Package inkpress is a file-based blog publishing engine built with Go,
// Echo, and templ. A directory of Markdown posts with YAML front-matter
// is the source of truth; inkpress parses and validates it, keeps a
// SQLite index, serves the site with an admin dashboard, RSS, and a
// sitemap, and can export the whole thing as static files.
//
// Users provide their own templ components via the ViewFuncs struct (or
// take the defaults from the views package), and inkpress handles the
// content pipeline, handler logic, middleware, and storage.
package inkpress

import (
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/inkpress/analytics"
	"github.com/eringen/inkpress/markdown"
)

// ViewFuncs holds user-provided templ components that the framework calls
// when rendering pages. This is the inversion-of-control mechanism that
// lets users own and customize all templates.
type ViewFuncs struct {
	Home             func(posts []Post, activeTag string, tags []string, siteURL string) templ.Component
	HomePartial      func(posts []Post, activeTag string, tags []string, siteURL string) templ.Component
	BlogSection      func(posts []Post, activeTag string, tags []string) templ.Component
	Post             func(post Post, toc []markdown.Heading, nav PostNav, related []Post, siteURL string) templ.Component
	PostPartial      func(post Post, toc []markdown.Heading, nav PostNav, related []Post, siteURL string) templ.Component
	AdminLogin       func(showError bool, csrfToken string) templ.Component
	AdminDashboard   func(posts []Post, issues []FileError, message string, csrfToken string) templ.Component
	AdminFormPartial func(post Post, csrfToken string) templ.Component
	AdminImages      func(images []Image, csrfToken string) templ.Component
	NotFound         func() templ.Component
	ServerError      func() templ.Component
}

// App is the central inkpress application. It wires together the content
// library, index, cache, handlers, middleware, and user templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *PostCache
	Views  ViewFuncs

	log              *zap.Logger
	loginLimiter     *AttemptLimiter
	analyticsStore   *analytics.Store
	analyticsHandler *analytics.Handler
	watcher          *ContentWatcher
	customRoutes     []func(*App)
	staticDir        string
	noWatch          bool
}

// New creates a new inkpress App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		log, err := NewLogger(cfg.Debug)
		if err != nil {
			log = zap.NewNop()
		}
		a.log = log
	}

	return a
}

// Start loads the content library, initializes the index, cache, watcher,
// middleware, and routes, and starts the server. It blocks until the
// server stops.
func (a *App) Start() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("inkpress: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("inkpress: SessionSecret is required")
	}

	if err := a.initContent(); err != nil {
		return err
	}

	a.loginLimiter = NewAttemptLimiter(5, time.Minute)

	if a.Config.AnalyticsEnabled {
		store, err := analytics.NewStore(a.Config.AnalyticsDatabasePath)
		if err != nil {
			return fmt.Errorf("inkpress: init analytics: %w", err)
		}
		a.analyticsStore = store
		if err := analytics.InitSalt(store); err != nil {
			return fmt.Errorf("inkpress: init analytics salt: %w", err)
		}
		stopCleanup := store.StartCleanupScheduler(a.Config.AnalyticsRetentionDays, 24*time.Hour)
		defer stopCleanup()
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.log.Info("starting server",
		zap.String("addr", a.Config.Addr),
		zap.String("content_dir", a.Config.ContentDir))

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// initContent opens the index, performs the initial library load, and
// starts the content watcher.
func (a *App) initContent() error {
	store, err := NewStore(a.Config.IndexPath)
	if err != nil {
		return fmt.Errorf("inkpress: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewPostCache(store, a.Config.PostCacheTTL)

	if err := a.Reload(); err != nil {
		return err
	}

	if a.noWatch {
		return nil
	}
	watcher, err := NewContentWatcher(a.Config.ContentDir, a.log, func() {
		if err := a.Reload(); err != nil {
			a.log.Error("content reload failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("inkpress: init watcher: %w", err)
	}
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("inkpress: start watcher: %w", err)
	}
	a.watcher = watcher
	return nil
}

// Reload re-reads the content directory, rebuilds the index, and
// invalidates the cache. Parse failures are logged per file and never
// abort the reload; the broken posts simply stay out of the site.
func (a *App) Reload() error {
	lib, err := LoadLibrary(a.Config.ContentDir)
	if err != nil {
		return err
	}
	for _, fe := range lib.Errors {
		a.log.Warn("post failed to load", zap.String("file", fe.Path), zap.Error(fe.Err))
	}
	for _, fw := range lib.Warnings {
		a.log.Info("content warning", zap.String("file", fw.Path), zap.String("warning", fw.Message))
	}
	if err := a.Store.Reindex(lib); err != nil {
		return fmt.Errorf("inkpress: reindex: %w", err)
	}
	a.Cache.Invalidate()
	a.log.Info("content loaded",
		zap.Int("posts", len(lib.Posts)),
		zap.Int("errors", len(lib.Errors)),
		zap.Int("warnings", len(lib.Warnings)))
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded framework assets, served under /public/ ahead of the
	// user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/admin.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.GET("/public/admin.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	// User's static assets
	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/blog/:slug/", a.handlePost)
	e.GET("/tags/:tag/", a.handleTag)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/post/:slug/", a.handleAdminPost)
	e.POST("/admin/save/", a.handleAdminSave)
	e.DELETE("/admin/post/:slug/", a.handleAdminDelete)
	e.GET("/admin/images/", a.handleImageList)
	e.POST("/admin/images/upload/", a.handleImageUpload)
	e.DELETE("/admin/images/:filename/", a.handleImageDelete)

	// Analytics routes
	if a.Config.AnalyticsEnabled && a.analyticsStore != nil {
		h := analytics.NewHandler(a.analyticsStore, a.log)
		a.analyticsHandler = h
		e.POST("/api/analytics/visit/", h.RecordVisit)
		e.GET("/admin/analytics/", func(c echo.Context) error {
			if !IsAdmin(c) {
				return c.Redirect(http.StatusSeeOther, "/admin/")
			}
			return h.Summary(c)
		})
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.watcher != nil {
		a.watcher.Close()
	}
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil {
		a.Store.Close()
	}
	if a.analyticsHandler != nil {
		a.analyticsHandler.Close()
	}
	if a.analyticsStore != nil {
		a.analyticsStore.Close()
	}
	return nil
}
