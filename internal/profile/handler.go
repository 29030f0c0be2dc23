package profile

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sundayezeilo/linkbio/internal/analytics"
	"github.com/sundayezeilo/linkbio/internal/errx"
	"github.com/sundayezeilo/linkbio/internal/httpx"
)

// UnlockResponse carries the destination of an unlocked link.
type UnlockResponse struct {
	URL string `json:"url"`
}

// Handler provides HTTP handlers for public profiles.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// HandlerConfig holds configuration for the handler.
type HandlerConfig struct {
	Service Service
	Logger  *slog.Logger
}

// NewHandler creates a new Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: cfg.Service, logger: logger}
}

// GetProfile handles GET /api/profiles/{username}.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username := chi.URLParam(r, "username")

	p, err := h.service.Get(ctx, username, Visit{
		Referrer:  r.Referer(),
		UserAgent: r.UserAgent(),
		IPAddress: httpx.ClientIP(r),
		VisitorID: r.Header.Get(analytics.VisitorIDHeader),
	})
	if err != nil {
		h.handleError(w, r, err, "Unable to load this profile at this time")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

// Unlock handles POST /api/links/{id}/unlock.
func (h *Handler) Unlock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	target, err := h.service.Unlock(ctx, id)
	if err != nil {
		h.handleError(w, r, err, "Unable to unlock this link at this time")
		return
	}

	h.requestLogger(r).InfoContext(ctx, "link unlocked", "link_id", id)
	httpx.WriteJSON(w, http.StatusOK, UnlockResponse{URL: target})
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
		h.requestLogger(r).WarnContext(r.Context(), "profile resource not found", logAttrs...)
		msg := "link doesn't exist"
		if errors.Is(err, ErrProfileNotFound) {
			msg = "profile doesn't exist"
		}
		httpx.WriteError(w, http.StatusNotFound, "not_found", msg, nil)
	case errx.Forbidden:
		h.requestLogger(r).WarnContext(r.Context(), "premium link locked", logAttrs...)
		httpx.WriteError(w, http.StatusForbidden, "premium_link", "this link must be unlocked first", nil)
	default:
		h.requestLogger(r).ErrorContext(r.Context(), "profile request failed", logAttrs...)
		httpx.WriteKindError(w, err, message)
	}
}
