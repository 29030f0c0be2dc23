package identity

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sundayezeilo/linkbio/internal/auth"
	"github.com/sundayezeilo/linkbio/internal/errx"
	"github.com/sundayezeilo/linkbio/internal/httpx"
)

// UpsertUserRequest is the JSON body of PUT /api/users.
type UpsertUserRequest struct {
	ID          string  `json:"id,omitempty" validate:"omitempty,max=64"`
	Username    *string `json:"username,omitempty"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	DisplayName *string `json:"displayName,omitempty" validate:"omitempty,max=100"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Avatar      *string `json:"avatar,omitempty" validate:"omitempty,url,max=2048"`
}

// UpsertUserResponse is returned by PUT /api/users. Token is set when a new
// user signs up through the endpoint and session tokens are enabled.
type UpsertUserResponse struct {
	User  User        `json:"user"`
	Token *auth.Token `json:"token,omitempty"`
}

// MeResponse is returned by GET /api/me.
type MeResponse struct {
	Authenticated bool  `json:"authenticated"`
	User          *User `json:"user,omitempty"`
}

// UsernameResponse is returned by GET /api/usernames/{username}.
type UsernameResponse struct {
	Username  string `json:"username"`
	Valid     bool   `json:"valid"`
	Error     string `json:"error,omitempty"`
	Available bool   `json:"available"`
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID string) (auth.Token, error)
}

// Handler provides HTTP handlers for users and sessions.
type Handler struct {
	service Service
	tokens  TokenIssuer
	logger  *slog.Logger
}

// HandlerConfig holds configuration for the handler.
type HandlerConfig struct {
	Service Service
	Tokens  TokenIssuer // optional; nil disables token issuing on sign-up
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
		tokens:  cfg.Tokens,
		logger:  logger,
	}
}

// Me handles GET /api/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	u, ok, err := h.service.CurrentUser(ctx)
	if err != nil {
		h.handleError(ctx, w, r, err, "Unable to load the current user")
		return
	}
	if !ok {
		httpx.WriteJSON(w, http.StatusOK, MeResponse{Authenticated: false})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, MeResponse{Authenticated: true, User: &u})
}

// UpsertUser handles PUT /api/users. A signed-in user may only update
// themselves; without a session the request may only create a new user.
func (h *Handler) UpsertUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	req, err := httpx.DecodeAndValidate[UpsertUserRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	current, signedIn, err := h.service.CurrentUser(ctx)
	if err != nil {
		h.handleError(ctx, w, r, err, "Unable to save the user at this time")
		return
	}

	targetID := req.ID
	if signedIn {
		if targetID == "" {
			targetID = current.ID
		}
		if targetID != current.ID {
			httpx.WriteError(w, http.StatusForbidden, "forbidden", "you can only update your own profile", nil)
			return
		}
	} else if targetID != "" {
		_, exists, err := h.service.Get(ctx, targetID)
		if err != nil {
			h.handleError(ctx, w, r, err, "Unable to save the user at this time")
			return
		}
		if exists {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "sign in to update this profile", nil)
			return
		}
	}

	u, err := h.service.Upsert(ctx, UserPatch{
		ID:          targetID,
		Username:    req.Username,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		Avatar:      req.Avatar,
	})
	if err != nil {
		h.handleError(ctx, w, r, err, "Unable to save the user at this time")
		return
	}

	resp := UpsertUserResponse{User: u}
	status := http.StatusOK
	if !signedIn {
		status = http.StatusCreated
		if h.tokens != nil {
			tok, err := h.tokens.Issue(u.ID)
			if err != nil {
				logger.ErrorContext(ctx, "failed to issue session token", "user_id", u.ID, "error", err.Error())
			} else {
				resp.Token = &tok
			}
		}
	}

	logger.InfoContext(ctx, "user saved", "user_id", u.ID, "created", !signedIn)
	httpx.WriteJSON(w, status, resp)
}

// CheckUsername handles GET /api/usernames/{username}.
func (h *Handler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username := chi.URLParam(r, "username")

	res := ValidateUsername(username)
	resp := UsernameResponse{Username: username, Valid: res.Valid, Error: res.Error}
	if res.Valid {
		available, err := h.service.IsUsernameAvailable(ctx, username)
		if err != nil {
			h.handleError(ctx, w, r, err, "Unable to check username availability")
			return
		}
		resp.Available = available
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) requestLogger(r *http.Request) *slog.Logger {
	return h.logger.With(
		"request_id", httpx.GetRequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
	)
}

// handleError logs err at a level matching its kind and writes the response.
func (h *Handler) handleError(ctx context.Context, w http.ResponseWriter, r *http.Request, err error, message string) {
	kind := errx.KindOf(err)
	logAttrs := []any{
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
	}

	switch kind {
	case errx.Invalid:
		h.requestLogger(r).WarnContext(ctx, "invalid user request", logAttrs...)
		httpx.WriteKindError(w, err, message)
	case errx.Conflict:
		h.requestLogger(r).WarnContext(ctx, "username conflict", logAttrs...)
		httpx.WriteError(w, http.StatusConflict, "conflict", "This username is already taken",
			map[string]string{"field": "username"})
	default:
		h.requestLogger(r).ErrorContext(ctx, "identity request failed", logAttrs...)
		httpx.WriteKindError(w, err, message)
	}
}
