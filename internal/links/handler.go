package links

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sundayezeilo/linkbio/internal/errx"
	"github.com/sundayezeilo/linkbio/internal/httpx"
	"github.com/sundayezeilo/linkbio/internal/identity"
)

// HTTPCreateLinkRequest represents the JSON request body for creating a link.
type HTTPCreateLinkRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	URL         string `json:"url" validate:"required,max=2048"`
	Description string `json:"description,omitempty" validate:"max=300"`
	Icon        string `json:"icon,omitempty" validate:"max=32"`
	IsPremium   bool   `json:"isPremium"`
	IsVisible   *bool  `json:"isVisible,omitempty"`
	Order       *int   `json:"order,omitempty" validate:"omitempty,min=0"`
}

// HTTPUpdateLinkRequest represents the JSON request body for updating a link.
// Omitted fields are left unchanged.
type HTTPUpdateLinkRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=100"`
	URL         *string `json:"url,omitempty" validate:"omitempty,max=2048"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=300"`
	Icon        *string `json:"icon,omitempty" validate:"omitempty,max=32"`
	IsPremium   *bool   `json:"isPremium,omitempty"`
	IsVisible   *bool   `json:"isVisible,omitempty"`
	Order       *int    `json:"order,omitempty" validate:"omitempty,min=0"`
}

// ReorderRequest is the body of PUT /api/me/links/order.
type ReorderRequest struct {
	IDs []string `json:"ids" validate:"max=500,dive,required"`
}

// IconsResponse lists the icon catalogue.
type IconsResponse struct {
	Icons []string `json:"icons"`
}

// Handler provides HTTP handlers for the owner's links.
// Every route except Icons expects identity.RequireUser in front of it.
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

	return &Handler{
		service: cfg.Service,
		logger:  logger,
	}
}

// List handles GET /api/me/links.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	out, err := h.service.List(ctx, owner.ID)
	if err != nil {
		h.handleError(ctx, w, r, err, "Unable to load links at this time")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// CreateLink handles POST /api/me/links.
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	req, err := httpx.DecodeAndValidate[HTTPCreateLinkRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	link, err := h.service.Create(ctx, owner.ID, CreateLinkRequest{
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		Icon:        req.Icon,
		IsPremium:   req.IsPremium,
		IsVisible:   req.IsVisible,
		Order:       req.Order,
	})
	if err != nil {
		h.handleError(ctx, w, r, err, "Unable to create link at this time. Please try again.")
		return
	}

	logger.InfoContext(ctx, "link created",
		"link_id", link.ID,
		"user_id", owner.ID,
		"order", link.Order,
	)
	httpx.WriteJSON(w, http.StatusCreated, link)
}

// UpdateLink handles PATCH /api/me/links/{id}.
func (h *Handler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)
	id := chi.URLParam(r, "id")

	if _, ok := h.ownedLink(w, r, id); !ok {
		return
	}

	req, err := httpx.DecodeAndValidate[HTTPUpdateLinkRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	link, err := h.service.Update(ctx, id, LinkPatch{
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		Icon:        req.Icon,
		IsPremium:   req.IsPremium,
		IsVisible:   req.IsVisible,
		Order:       req.Order,
	})
	if err != nil {
		h.handleError(ctx, w, r, err, "Unable to update link at this time. Please try again.")
		return
	}

	logger.InfoContext(ctx, "link updated", "link_id", link.ID)
	httpx.WriteJSON(w, http.StatusOK, link)
}

// DeleteLink handles DELETE /api/me/links/{id}.
func (h *Handler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if _, ok := h.ownedLink(w, r, id); !ok {
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		h.handleError(ctx, w, r, err, "Unable to delete link at this time. Please try again.")
		return
	}

	h.requestLogger(r).InfoContext(ctx, "link deleted", "link_id", id)
	httpx.WriteNoContent(w)
}

// Reorder handles PUT /api/me/links/order.
func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	req, err := httpx.DecodeAndValidate[ReorderRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	if err := h.service.Reorder(ctx, owner.ID, req.IDs); err != nil {
		h.handleError(ctx, w, r, err, "Unable to reorder links at this time. Please try again.")
		return
	}

	out, err := h.service.List(ctx, owner.ID)
	if err != nil {
		h.handleError(ctx, w, r, err, "Unable to load links at this time")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// Icons handles GET /api/links/icons.
func (h *Handler) Icons(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, IconsResponse{Icons: AvailableIcons})
}

func (h *Handler) owner(w http.ResponseWriter, r *http.Request) (identity.User, bool) {
	u, ok := identity.UserFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "sign in required", nil)
	}
	return u, ok
}

// ownedLink loads link id and checks that the session user owns it.
func (h *Handler) ownedLink(w http.ResponseWriter, r *http.Request, id string) (Link, bool) {
	ctx := r.Context()
	owner, ok := h.owner(w, r)
	if !ok {
		return Link{}, false
	}

	link, err := h.service.Get(ctx, id)
	if err != nil {
		h.handleError(ctx, w, r, err, "Unable to load link at this time")
		return Link{}, false
	}
	if link.UserID != owner.ID {
		h.requestLogger(r).WarnContext(ctx, "link owned by another user",
			"link_id", id,
			"user_id", owner.ID,
		)
		httpx.WriteError(w, http.StatusForbidden, "forbidden", "you can only change your own links", nil)
		return Link{}, false
	}
	return link, true
}

func (h *Handler) requestLogger(r *http.Request) *slog.Logger {
	return h.logger.With(
		"request_id", httpx.GetRequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
	)
}

// handleError handles errors from the Service methods.
func (h *Handler) handleError(ctx context.Context, w http.ResponseWriter, r *http.Request, err error, message string) {
	kind := errx.KindOf(err)
	logAttrs := []any{
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
	}

	switch kind {
	case errx.NotFound:
		h.requestLogger(r).WarnContext(ctx, "link not found", logAttrs...)
		httpx.WriteError(w, http.StatusNotFound, "not_found", "link doesn't exist", nil)
	case errx.Invalid:
		h.requestLogger(r).WarnContext(ctx, "invalid link request", logAttrs...)
		httpx.WriteKindError(w, err, message)
	default:
		h.requestLogger(r).ErrorContext(ctx, "link request failed", logAttrs...)
		httpx.WriteKindError(w, err, message)
	}
}
