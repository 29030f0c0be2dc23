package profile

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/sundayezeilo/linkbio/internal/analytics"
)

func newProfileRouter(f *profileFixture) http.Handler {
	h := NewHandler(HandlerConfig{
		Service: f.svc,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	r := chi.NewRouter()
	r.Get("/api/profiles/{username}", h.GetProfile)
	r.Post("/api/links/{id}/unlock", h.Unlock)
	return r
}

func TestHandler_GetProfile(t *testing.T) {
	f := newProfileFixture(t)
	router := newProfileRouter(f)

	req := httptest.NewRequest(http.MethodGet, "/api/profiles/johndoe", nil)
	req.Header.Set(analytics.VisitorIDHeader, "visitor-7")
	req.Header.Set("User-Agent", "test-agent")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var got Profile
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.User.Username != "johndoe" || len(got.Links) != 2 {
		t.Errorf("profile = %+v, want johndoe with two visible links", got)
	}
	if len(f.views.calls) != 1 || f.views.calls[0].VisitorID != "visitor-7" || f.views.calls[0].UserAgent != "test-agent" {
		t.Errorf("views = %+v, want one from visitor-7", f.views.calls)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/profiles/nobody", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown profile status = %d, want 404", rr.Code)
	}
}

func TestHandler_Unlock(t *testing.T) {
	tests := []struct {
		name       string
		id         func(f *profileFixture) string
		decline    bool
		wantStatus int
		wantURL    string
	}{
		{"premium approved", func(f *profileFixture) string { return f.premium.ID }, false, http.StatusOK, "https://johndoe.dev/blog"},
		{"premium declined", func(f *profileFixture) string { return f.premium.ID }, true, http.StatusForbidden, ""},
		{"hidden link", func(f *profileFixture) string { return f.hidden.ID }, false, http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newProfileFixture(t)
			if tt.decline {
				f.unlocker.UnlockPremiumLinkFunc = func(_ context.Context, _, _ string) (bool, error) { return false, nil }
			}

			rr := httptest.NewRecorder()
			newProfileRouter(f).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/links/"+tt.id(f)+"/unlock", nil))

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if tt.wantURL == "" {
				return
			}
			var got UnlockResponse
			if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", got.URL, tt.wantURL)
			}
		})
	}
}
