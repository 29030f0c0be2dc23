package payments

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sundayezeilo/linkbio/internal/errx"
	"github.com/sundayezeilo/linkbio/internal/httpx"
	"github.com/sundayezeilo/linkbio/internal/identity"
)

// OwnerLookup resolves the profile owner a payment is for.
type OwnerLookup interface {
	GetByUsername(ctx context.Context, username string) (identity.User, bool, error)
}

// Handler provides HTTP handlers for payment sessions and billing.
type Handler struct {
	service Service
	owners  OwnerLookup
	logger  *slog.Logger
}

// HandlerConfig holds configuration for the handler.
type HandlerConfig struct {
	Service Service
	Owners  OwnerLookup
	Logger  *slog.Logger
}

// NewHandler creates a new Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: cfg.Service, owners: cfg.Owners, logger: logger}
}

// CreateTipSession handles POST /api/payments/{username}/tip.
func (h *Handler) CreateTipSession(w http.ResponseWriter, r *http.Request) {
	h.createSession(w, r, h.service.CreateTipSession)
}

// CreateSubscriptionSession handles POST /api/payments/{username}/subscribe.
func (h *Handler) CreateSubscriptionSession(w http.ResponseWriter, r *http.Request) {
	h.createSession(w, r, h.service.CreateSubscriptionSession)
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request, create func(context.Context, string) (PaymentSession, error)) {
	ctx := r.Context()
	username := chi.URLParam(r, "username")

	owner, found, err := h.owners.GetByUsername(ctx, username)
	if err != nil {
		h.handleError(w, r, err, "Unable to start a payment at this time")
		return
	}
	if !found {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "profile doesn't exist", nil)
		return
	}

	session, err := create(ctx, owner.ID)
	if err != nil {
		h.handleError(w, r, err, "Unable to start a payment at this time")
		return
	}

	h.requestLogger(r).InfoContext(ctx, "payment session created",
		"session_id", session.ID,
		"user_id", owner.ID,
	)
	httpx.WriteJSON(w, http.StatusCreated, session)
}

// BillingSummary handles GET /api/me/billing.
func (h *Handler) BillingSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, ok := identity.UserFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "sign in required", nil)
		return
	}

	summary, err := h.service.BillingSummary(ctx, owner.ID)
	if err != nil {
		h.handleError(w, r, err, "Unable to load billing at this time")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, summary)
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
	case errx.Invalid, errx.NotFound:
		h.requestLogger(r).WarnContext(r.Context(), "payment request rejected", logAttrs...)
	default:
		h.requestLogger(r).ErrorContext(r.Context(), "payment request failed", logAttrs...)
	}
	httpx.WriteKindError(w, err, message)
}
