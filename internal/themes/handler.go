package themes

import (
	"log/slog"
	"net/http"

	"github.com/sundayezeilo/linkbio/internal/errx"
	"github.com/sundayezeilo/linkbio/internal/httpx"
	"github.com/sundayezeilo/linkbio/internal/identity"
)

// HTTPColors is the palette of a save request. All four colors are required.
type HTTPColors struct {
	Primary    string `json:"primary" validate:"required,max=200"`
	Secondary  string `json:"secondary" validate:"required,max=200"`
	Background string `json:"background" validate:"required,max=200"`
	Text       string `json:"text" validate:"required,max=200"`
}

// HTTPSaveThemeRequest is the body of PUT /api/me/theme.
type HTTPSaveThemeRequest struct {
	Name            *string     `json:"name,omitempty" validate:"omitempty,max=50"`
	Colors          *HTTPColors `json:"colors,omitempty"`
	BackgroundImage *string     `json:"backgroundImage,omitempty" validate:"omitempty,max=2048"`
	Font            *string     `json:"font,omitempty" validate:"omitempty,max=50"`
	IsDarkMode      *bool       `json:"isDarkMode,omitempty"`
}

// ThemeResponse wraps the owner's theme; Theme is null when none was saved.
type ThemeResponse struct {
	Theme *Theme `json:"theme"`
}

// PresetsResponse lists the built-in themes.
type PresetsResponse struct {
	Presets []Theme `json:"presets"`
}

// Handler provides HTTP handlers for themes.
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

// GetTheme handles GET /api/me/theme.
func (h *Handler) GetTheme(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, ok := identity.UserFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "sign in required", nil)
		return
	}

	t, found, err := h.service.Get(ctx, owner.ID)
	if err != nil {
		h.handleError(w, r, err, "Unable to load theme at this time")
		return
	}

	resp := ThemeResponse{}
	if found {
		resp.Theme = &t
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// SaveTheme handles PUT /api/me/theme.
func (h *Handler) SaveTheme(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)
	owner, ok := identity.UserFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "sign in required", nil)
		return
	}

	req, err := httpx.DecodeAndValidate[HTTPSaveThemeRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	patch := ThemePatch{
		Name:            req.Name,
		BackgroundImage: req.BackgroundImage,
		Font:            req.Font,
		IsDarkMode:      req.IsDarkMode,
	}
	if req.Colors != nil {
		patch.Colors = &Colors{
			Primary:    req.Colors.Primary,
			Secondary:  req.Colors.Secondary,
			Background: req.Colors.Background,
			Text:       req.Colors.Text,
		}
	}

	t, err := h.service.Save(ctx, owner.ID, patch)
	if err != nil {
		h.handleError(w, r, err, "Unable to save theme at this time. Please try again.")
		return
	}

	logger.InfoContext(ctx, "theme saved", "user_id", owner.ID, "theme_id", t.ID, "name", t.Name)
	httpx.WriteJSON(w, http.StatusOK, ThemeResponse{Theme: &t})
}

// Presets handles GET /api/themes/presets.
func (h *Handler) Presets(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, PresetsResponse{Presets: Presets()})
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

	if kind == errx.Invalid {
		h.requestLogger(r).WarnContext(r.Context(), "invalid theme request", logAttrs...)
	} else {
		h.requestLogger(r).ErrorContext(r.Context(), "theme request failed", logAttrs...)
	}
	httpx.WriteKindError(w, err, message)
}
