package seed

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sundayezeilo/linkbio/internal/identity"
	"github.com/sundayezeilo/linkbio/internal/links"
	"github.com/sundayezeilo/linkbio/internal/themes"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newMemoryServices() Services {
	return Services{
		Users:  identity.NewService(identity.NewMemoryRepository(nil), nil),
		Links:  links.NewService(links.NewMemoryRepository(nil)),
		Themes: themes.NewService(themes.NewMemoryRepository(nil)),
	}
}

func TestDemo(t *testing.T) {
	f := Demo()

	if len(f.Users) != 3 || len(f.Links) != 11 || len(f.Themes) != 3 {
		t.Fatalf("Demo() = %d users, %d links, %d themes, want 3/11/3", len(f.Users), len(f.Links), len(f.Themes))
	}
	if f.Users[0].ID != "demo-user-1" || f.Users[0].Username != "johndoe" {
		t.Errorf("first user = %+v, want demo-user-1 johndoe", f.Users[0])
	}
	if l := f.Links[3]; !l.IsPremium || l.IsVisible == nil || *l.IsVisible || l.Order == nil || *l.Order != 3 {
		t.Errorf("Premium Blog = %+v, want premium, hidden, order 3", l)
	}
}

func TestApply_Demo(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryServices()

	res, err := Apply(ctx, Demo(), svc, discard)
	if err != nil {
		t.Fatalf("Apply() unexpected error: %v", err)
	}
	if res != (Result{Users: 3, Links: 11, Themes: 3}) {
		t.Errorf("Apply() = %+v, want 3/11/3", res)
	}

	u, found, err := svc.Users.GetByUsername(ctx, "sarahsmith")
	if err != nil || !found || u.ID != "demo-user-2" {
		t.Fatalf("GetByUsername() = %+v, %v, %v", u, found, err)
	}
	if !strings.Contains(u.Bio, "Designer & entrepreneur") {
		t.Errorf("Bio = %q, want ampersand kept", u.Bio)
	}

	ls, err := svc.Links.List(ctx, "demo-user-2")
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	var got []string
	for _, l := range ls {
		got = append(got, l.Title)
	}
	if want := "Design Portfolio,Dribbble,Behance,Premium Templates"; strings.Join(got, ",") != want {
		t.Errorf("links = %v, want %s", got, want)
	}

	th, found, err := svc.Themes.Get(ctx, "demo-user-3")
	if err != nil || !found {
		t.Fatalf("Get() = %v, %v", found, err)
	}
	if th.Name != "Dark Tech" || th.Font != "JetBrains Mono" || !th.IsDarkMode {
		t.Errorf("theme = %+v, want Dark Tech", th)
	}
}

func TestApply_Twice(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryServices()

	if _, err := Apply(ctx, Demo(), svc, discard); err != nil {
		t.Fatalf("first Apply() unexpected error: %v", err)
	}
	res, err := Apply(ctx, Demo(), svc, discard)
	if err != nil {
		t.Fatalf("second Apply() unexpected error: %v", err)
	}
	if res.Links != 0 || res.Users != 3 || res.Themes != 3 {
		t.Errorf("second Apply() = %+v, want users and themes upserted, no links", res)
	}

	ls, _ := svc.Links.List(ctx, "demo-user-1")
	if len(ls) != 4 {
		t.Errorf("demo-user-1 has %d links, want 4", len(ls))
	}
}

func TestApply_SkipsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	f, err := Parse(strings.NewReader(`
users:
  - {id: u1, username: ok_user}
  - {id: u2, username: "no spaces allowed"}
links:
  - {userId: u1, title: Good, url: "https://example.com"}
  - {userId: u1, title: Bad, url: "ftp://example.com"}
themes:
  - {userId: u1, name: "", colors: {primary: a, secondary: b, background: c, text: d}}
`))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	res, err := Apply(ctx, f, newMemoryServices(), discard)
	if err == nil {
		t.Fatal("Apply() error = nil, want failure count")
	}
	if res != (Result{Users: 1, Links: 1, Failed: 3}) {
		t.Errorf("Apply() = %+v, want 1 user, 1 link, 3 failed", res)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty document", "", false},
		{"users only", "users:\n  - {id: a, username: abc}\n", false},
		{"unknown key", "users:\n  - {id: a, nickname: abc}\n", true},
		{"malformed", "users: [", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte("themes:\n  - {userId: u1, name: Mine}\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if len(f.Themes) != 1 || f.Themes[0].Name != "Mine" {
		t.Errorf("Load() = %+v, want one theme", f)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing file succeeded")
	}
}
