package analytics

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sundayezeilo/linkbio/internal/errx"
	"github.com/sundayezeilo/linkbio/internal/httpx"
	"github.com/sundayezeilo/linkbio/internal/identity"
	"github.com/sundayezeilo/linkbio/internal/links"
)

// VisitorIDHeader carries an optional client-side visitor id.
const VisitorIDHeader = "X-Visitor-ID"

// LinkLookup resolves a link by id.
type LinkLookup interface {
	Get(ctx context.Context, id string) (links.Link, error)
}

// HTTPClickRequest is the body of POST /api/clicks.
type HTTPClickRequest struct {
	LinkID    string `json:"linkId" validate:"required,max=64"`
	Referrer  string `json:"referrer,omitempty" validate:"max=2048"`
	VisitorID string `json:"visitorId,omitempty" validate:"max=128"`
}

// Handler provides HTTP handlers for click tracking and statistics.
type Handler struct {
	engine Engine
	links  LinkLookup
	logger *slog.Logger
}

// HandlerConfig holds configuration for the handler.
type HandlerConfig struct {
	Engine Engine
	Links  LinkLookup
	Logger *slog.Logger
}

// NewHandler creates a new Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{engine: cfg.Engine, links: cfg.Links, logger: logger}
}

// TrackClick handles POST /api/clicks. Tracking is best effort: once the
// link is known the response is 202 even if recording fails.
func (h *Handler) TrackClick(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	req, err := httpx.DecodeAndValidate[HTTPClickRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	link, err := h.links.Get(ctx, req.LinkID)
	if err != nil {
		h.handleError(w, r, err, "Unable to track this click")
		return
	}

	referrer := req.Referrer
	if referrer == "" {
		referrer = r.Referer()
	}
	visitorID := req.VisitorID
	if visitorID == "" {
		visitorID = r.Header.Get(VisitorIDHeader)
	}

	h.record(r, link, referrer, visitorID)
	w.WriteHeader(http.StatusAccepted)
}

// Redirect handles GET /l/{id}: it records a click and redirects to the
// link. Hidden links are not found; premium links must be unlocked first.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	link, err := h.links.Get(ctx, id)
	if err != nil {
		h.handleError(w, r, err, "Unable to resolve this link at this time")
		return
	}
	if !link.IsVisible {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "link doesn't exist", nil)
		return
	}
	if link.IsPremium {
		httpx.WriteError(w, http.StatusForbidden, "premium_link", "this link must be unlocked first", nil)
		return
	}

	h.record(r, link, r.Referer(), r.Header.Get(VisitorIDHeader))

	h.requestLogger(r).InfoContext(ctx, "link resolved",
		"link_id", link.ID,
		"user_agent", r.UserAgent(),
		"referer", r.Referer(),
	)
	http.Redirect(w, r, link.URL, http.StatusFound)
}

// LinkStats handles GET /api/me/analytics/links.
func (h *Handler) LinkStats(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity.UserFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "sign in required", nil)
		return
	}

	stats, err := h.engine.LinkStats(r.Context(), owner.ID)
	if err != nil {
		h.handleError(w, r, err, "Unable to load analytics at this time")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, stats)
}

// Summary handles GET /api/me/analytics/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity.UserFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "sign in required", nil)
		return
	}

	summary, err := h.engine.Summary(r.Context(), owner.ID)
	if err != nil {
		h.handleError(w, r, err, "Unable to load analytics at this time")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, summary)
}

// record logs instead of failing: a lost click must never block navigation.
func (h *Handler) record(r *http.Request, link links.Link, referrer, visitorID string) {
	ctx := r.Context()
	err := h.engine.RecordClick(ctx, ClickInput{
		LinkID:    link.ID,
		UserID:    link.UserID,
		Referrer:  referrer,
		UserAgent: r.UserAgent(),
		IPAddress: httpx.ClientIP(r),
		VisitorID: visitorID,
	})
	if err != nil {
		h.requestLogger(r).ErrorContext(ctx, "failed to record click",
			"link_id", link.ID,
			"error", err.Error(),
			"error_kind", errx.KindOf(err),
			"operation", errx.OpOf(err),
		)
	}
}

func (h *Handler) requestLogger(r *http.Request) *slog.Logger {
	return h.logger.With(
		"request_id", httpx.GetRequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
	)
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error, message string) {
	kind := errx.KindOf(err)
	logAttrs := []any{
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
	}

	switch kind {
	case errx.NotFound:
		h.requestLogger(r).WarnContext(r.Context(), "link not found", logAttrs...)
		httpx.WriteError(w, http.StatusNotFound, "not_found", "link doesn't exist", nil)
	case errx.Invalid:
		h.requestLogger(r).WarnContext(r.Context(), "invalid analytics request", logAttrs...)
		httpx.WriteKindError(w, err, message)
	default:
		h.requestLogger(r).ErrorContext(r.Context(), "analytics request failed", logAttrs...)
		httpx.WriteKindError(w, err, message)
	}
}
