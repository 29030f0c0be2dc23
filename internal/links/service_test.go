package links

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sundayezeilo/linkbio/internal/errx"
)

/*** Mocks ***/

type mockRepository struct {
	listFunc    func(ctx context.Context, ownerID string) ([]Link, error)
	getFunc     func(ctx context.Context, id string) (Link, error)
	createFunc  func(ctx context.Context, link Link, position *int) (Link, error)
	updateFunc  func(ctx context.Context, id string, patch LinkPatch) (Link, error)
	deleteFunc  func(ctx context.Context, id string) error
	reorderFunc func(ctx context.Context, ownerID string, ids []string) error
}

func (m *mockRepository) List(ctx context.Context, ownerID string) ([]Link, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, ownerID)
	}
	return []Link{}, nil
}

func (m *mockRepository) Get(ctx context.Context, id string) (Link, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return Link{}, errx.E("repo.Get", errx.NotFound, ErrLinkNotFound)
}

func (m *mockRepository) Create(ctx context.Context, link Link, position *int) (Link, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, link, position)
	}
	link.ID = "generated"
	return link, nil
}

func (m *mockRepository) Update(ctx context.Context, id string, patch LinkPatch) (Link, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, patch)
	}
	return patch.Apply(Link{ID: id}), nil
}

func (m *mockRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockRepository) Reorder(ctx context.Context, ownerID string, ids []string) error {
	if m.reorderFunc != nil {
		return m.reorderFunc(ctx, ownerID, ids)
	}
	return nil
}

var errDBDown = errx.E("repo", errx.Unavailable, errors.New("db down"))

/*** Service Tests ***/

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("sanitizes text and defaults visibility", func(t *testing.T) {
		var captured Link
		var capturedPos *int
		repo := &mockRepository{
			createFunc: func(_ context.Context, link Link, position *int) (Link, error) {
				captured, capturedPos = link, position
				return link, nil
			},
		}

		_, err := NewService(repo).Create(ctx, "u1", CreateLinkRequest{
			Title:       "  <b>GitHub</b> ",
			URL:         "https://github.com/?a=1&b=2",
			Description: "Code <script>alert(1)</script>& more",
			Icon:        "github",
		})
		if err != nil {
			t.Fatalf("Create() unexpected error: %v", err)
		}

		if captured.UserID != "u1" || captured.Title != "GitHub" || !captured.IsVisible {
			t.Errorf("captured = %+v", captured)
		}
		if captured.URL != "https://github.com/?a=1&b=2" {
			t.Errorf("URL = %q, want it unchanged", captured.URL)
		}
		if captured.Description != "Code & more" {
			t.Errorf("Description = %q, want %q", captured.Description, "Code & more")
		}
		if capturedPos != nil {
			t.Errorf("position = %v, want nil", *capturedPos)
		}
	})

	t.Run("passes explicit order and visibility", func(t *testing.T) {
		var captured Link
		var capturedPos *int
		repo := &mockRepository{
			createFunc: func(_ context.Context, link Link, position *int) (Link, error) {
				captured, capturedPos = link, position
				return link, nil
			},
		}

		_, err := NewService(repo).Create(ctx, "u1", CreateLinkRequest{
			Title:     "Hidden",
			URL:       "https://example.com",
			IsVisible: boolPtr(false),
			IsPremium: true,
			Order:     intPtr(3),
		})
		if err != nil {
			t.Fatalf("Create() unexpected error: %v", err)
		}
		if captured.IsVisible || !captured.IsPremium {
			t.Errorf("flags = visible %v premium %v", captured.IsVisible, captured.IsPremium)
		}
		if capturedPos == nil || *capturedPos != 3 {
			t.Errorf("position = %v, want 3", capturedPos)
		}
	})

	invalid := []struct {
		name  string
		owner string
		req   CreateLinkRequest
	}{
		{"empty owner", "", CreateLinkRequest{Title: "a", URL: "https://example.com"}},
		{"empty title", "u1", CreateLinkRequest{URL: "https://example.com"}},
		{"title only markup", "u1", CreateLinkRequest{Title: "<br>", URL: "https://example.com"}},
		{"long title", "u1", CreateLinkRequest{Title: strings.Repeat("a", 101), URL: "https://example.com"}},
		{"bad url", "u1", CreateLinkRequest{Title: "a", URL: "example.com"}},
		{"long description", "u1", CreateLinkRequest{Title: "a", URL: "https://example.com", Description: strings.Repeat("d", 301)}},
		{"negative order", "u1", CreateLinkRequest{Title: "a", URL: "https://example.com", Order: intPtr(-1)}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepository{
				createFunc: func(context.Context, Link, *int) (Link, error) {
					t.Error("repository Create should not be called")
					return Link{}, nil
				},
			}
			_, err := NewService(repo).Create(ctx, tt.owner, tt.req)
			if errx.KindOf(err) != errx.Invalid {
				t.Errorf("KindOf() = %v, want %v", errx.KindOf(err), errx.Invalid)
			}
		})
	}

	t.Run("propagates repository error kind", func(t *testing.T) {
		repo := &mockRepository{
			createFunc: func(context.Context, Link, *int) (Link, error) { return Link{}, errDBDown },
		}
		_, err := NewService(repo).Create(ctx, "u1", CreateLinkRequest{Title: "a", URL: "https://example.com"})
		if errx.KindOf(err) != errx.Unavailable {
			t.Errorf("KindOf() = %v, want %v", errx.KindOf(err), errx.Unavailable)
		}
		if got := errx.OpOf(err); got != "links.service.Create" {
			t.Errorf("OpOf() = %q", got)
		}
	})
}

func TestServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("sanitizes and forwards patch", func(t *testing.T) {
		var captured LinkPatch
		repo := &mockRepository{
			updateFunc: func(_ context.Context, id string, patch LinkPatch) (Link, error) {
				captured = patch
				return patch.Apply(Link{ID: id}), nil
			},
		}

		got, err := NewService(repo).Update(ctx, "l1", LinkPatch{Title: strPtr("<i>New</i>")})
		if err != nil {
			t.Fatalf("Update() unexpected error: %v", err)
		}
		if got.Title != "New" || *captured.Title != "New" {
			t.Errorf("Title = %q", got.Title)
		}
		if captured.URL != nil || captured.Order != nil {
			t.Errorf("unexpected fields in patch: %+v", captured)
		}
	})

	invalid := []struct {
		name  string
		id    string
		patch LinkPatch
	}{
		{"empty id", "", LinkPatch{}},
		{"blank title", "l1", LinkPatch{Title: strPtr("   ")}},
		{"bad scheme", "l1", LinkPatch{URL: strPtr("ftp://example.com")}},
		{"negative order", "l1", LinkPatch{Order: intPtr(-2)}},
		{"long icon", "l1", LinkPatch{Icon: strPtr(strings.Repeat("i", 33))}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewService(&mockRepository{}).Update(ctx, tt.id, tt.patch)
			if errx.KindOf(err) != errx.Invalid {
				t.Errorf("KindOf() = %v, want %v", errx.KindOf(err), errx.Invalid)
			}
		})
	}

	t.Run("propagates NotFound", func(t *testing.T) {
		repo := &mockRepository{
			updateFunc: func(context.Context, string, LinkPatch) (Link, error) {
				return Link{}, errx.E("repo.Update", errx.NotFound, ErrLinkNotFound)
			},
		}
		_, err := NewService(repo).Update(ctx, "missing", LinkPatch{})
		if errx.KindOf(err) != errx.NotFound {
			t.Errorf("KindOf() = %v, want %v", errx.KindOf(err), errx.NotFound)
		}
	})
}

func TestServiceDelete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		id       string
		repoErr  error
		wantKind errx.Kind
		wantErr  bool
	}{
		{name: "deletes", id: "l1"},
		{name: "empty id", id: "", wantErr: true, wantKind: errx.Invalid},
		{name: "not found", id: "l1", repoErr: errx.E("repo.Delete", errx.NotFound, ErrLinkNotFound), wantErr: true, wantKind: errx.NotFound},
		{name: "unavailable", id: "l1", repoErr: errDBDown, wantErr: true, wantKind: errx.Unavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepository{
				deleteFunc: func(context.Context, string) error { return tt.repoErr },
			}
			err := NewService(repo).Delete(ctx, tt.id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Delete() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && errx.KindOf(err) != tt.wantKind {
				t.Errorf("KindOf() = %v, want %v", errx.KindOf(err), tt.wantKind)
			}
		})
	}
}

func TestServiceReorder(t *testing.T) {
	ctx := context.Background()

	t.Run("empty input never reaches the repository", func(t *testing.T) {
		repo := &mockRepository{
			reorderFunc: func(context.Context, string, []string) error {
				t.Error("repository Reorder should not be called")
				return nil
			},
		}
		if err := NewService(repo).Reorder(ctx, "", nil); err != nil {
			t.Errorf("Reorder(nil) error = %v", err)
		}
	})

	t.Run("forwards owner and ids", func(t *testing.T) {
		var gotOwner string
		var gotIDs []string
		repo := &mockRepository{
			reorderFunc: func(_ context.Context, ownerID string, ids []string) error {
				gotOwner, gotIDs = ownerID, ids
				return nil
			},
		}
		if err := NewService(repo).Reorder(ctx, "u1", []string{"b", "a"}); err != nil {
			t.Fatalf("Reorder() unexpected error: %v", err)
		}
		if gotOwner != "u1" || strings.Join(gotIDs, ",") != "b,a" {
			t.Errorf("got owner %q ids %v", gotOwner, gotIDs)
		}
	})
}

func TestServiceWithMemoryRepository(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFrozenRepo())

	created, err := svc.Create(ctx, "u1", CreateLinkRequest{Title: "Blog", URL: "https://blog.example.com"})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	list, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID || !list[0].CreatedAt.Equal(list[0].UpdatedAt) {
		t.Errorf("List() = %+v", list)
	}

	updated, err := svc.Update(ctx, created.ID, LinkPatch{IsVisible: boolPtr(false)})
	if err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) || updated.Title != "Blog" {
		t.Errorf("Update() = %+v", updated)
	}

	if _, err := svc.Update(ctx, "nope", LinkPatch{}); errx.KindOf(err) != errx.NotFound {
		t.Errorf("Update(missing) kind = %v", errx.KindOf(err))
	}
	if err := svc.Delete(ctx, "nope"); errx.KindOf(err) != errx.NotFound {
		t.Errorf("Delete(missing) kind = %v", errx.KindOf(err))
	}
}

/*** Helper Tests ***/

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid http", "http://example.com", false},
		{"valid https", "https://example.com", false},
		{"valid with path", "https://example.com/path", false},
		{"valid with query", "https://example.com?q=test", false},
		{"valid with port", "https://example.com:8080", false},
		{"valid with fragment", "https://example.com#section", false},
		{"empty", "", true},
		{"no scheme", "example.com", true},
		{"invalid scheme", "ftp://example.com", true},
		{"javascript scheme", "javascript:alert(1)", true},
		{"no host", "http://", true},
		{"too long", "https://example.com/" + strings.Repeat("a", 2048), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestAvailableIcons(t *testing.T) {
	seen := map[string]bool{}
	for _, icon := range AvailableIcons {
		if icon == "" || seen[icon] {
			t.Errorf("icon %q empty or duplicated", icon)
		}
		seen[icon] = true
	}
	for _, want := range []string{"github", "linkedin", "globe", "zap"} {
		if !seen[want] {
			t.Errorf("AvailableIcons missing %q", want)
		}
	}
}
