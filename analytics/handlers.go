package analytics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Handler handles analytics HTTP requests.
type Handler struct {
	store        *Store
	log          *zap.Logger
	visitLimiter *rateLimiter
}

// NewHandler creates a new analytics handler.
// The visit endpoint is rate-limited to 60 requests per IP per minute.
func NewHandler(store *Store, log *zap.Logger) *Handler {
	return &Handler{
		store:        store,
		log:          log,
		visitLimiter: newRateLimiter(60, time.Minute),
	}
}

// Close stops the handler's rate limiter goroutine.
func (h *Handler) Close() {
	h.visitLimiter.stop()
}

// VisitRequest is the expected request body for the visit endpoint.
type VisitRequest struct {
	Path      string `json:"path"`
	Referrer  string `json:"referrer"`
	UserAgent string `json:"user_agent"`
}

const (
	maxPathLen      = 2048
	maxReferrerLen  = 2048
	maxUserAgentLen = 512
)

func validateVisitRequest(req *VisitRequest) error {
	if len(req.Path) > maxPathLen {
		return fmt.Errorf("path exceeds maximum length of %d", maxPathLen)
	}
	if len(req.Referrer) > maxReferrerLen {
		return fmt.Errorf("referrer exceeds maximum length of %d", maxReferrerLen)
	}
	if len(req.UserAgent) > maxUserAgentLen {
		return fmt.Errorf("user_agent exceeds maximum length of %d", maxUserAgentLen)
	}
	return nil
}

// RecordVisit handles incoming page view beacons from clients.
func (h *Handler) RecordVisit(c echo.Context) error {
	if !h.visitLimiter.allow(c.RealIP()) {
		return c.NoContent(http.StatusTooManyRequests)
	}

	// Honor Do Not Track.
	if c.Request().Header.Get("DNT") == "1" {
		return c.NoContent(http.StatusNoContent)
	}

	var req VisitRequest
	if err := c.Bind(&req); err != nil {
		return c.String(http.StatusBadRequest, "Invalid request")
	}
	if err := validateVisitRequest(&req); err != nil {
		return c.String(http.StatusBadRequest, "Invalid request")
	}

	userAgent := req.UserAgent
	if userAgent == "" {
		userAgent = c.Request().UserAgent()
	}

	// Crawlers are not visitors.
	if IsBot(userAgent) {
		return c.NoContent(http.StatusNoContent)
	}

	ip := c.RealIP()
	browser, os, device := ParseUserAgent(userAgent)

	visit := &Visit{
		VisitorID: GenerateVisitorID(ip, userAgent),
		Browser:   browser,
		OS:        os,
		Device:    device,
		Path:      req.Path,
		Referrer:  CleanReferrer(req.Referrer),
		Timestamp: time.Now().UTC(),
	}

	if err := h.store.SaveVisit(visit); err != nil {
		h.log.Error("save visit", zap.Error(err))
	}

	return c.NoContent(http.StatusNoContent)
}

// SummaryResponse is the JSON response for the summary endpoint.
type SummaryResponse struct {
	Stats      *Stats `json:"stats"`
	PeriodDays int    `json:"period_days"`
}

// Summary returns aggregated statistics as JSON.
// The period query parameter selects the range: today, week, month, or year.
func (h *Handler) Summary(c echo.Context) error {
	days := parsePeriod(c.QueryParam("period"))

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -days).Truncate(24 * time.Hour)
	to := now.Add(24 * time.Hour).Truncate(24 * time.Hour)

	stats, err := h.store.GetStats(from, to)
	if err != nil {
		h.log.Error("get stats", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, SummaryResponse{
		Stats:      stats,
		PeriodDays: days,
	})
}

func parsePeriod(period string) int {
	switch period {
	case "today":
		return 1
	case "week":
		return 7
	case "month":
		return 30
	case "year":
		return 365
	default:
		return 7
	}
}
