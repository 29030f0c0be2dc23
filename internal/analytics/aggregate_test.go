package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/sundayezeilo/linkbio/internal/links"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func TestRate(t *testing.T) {
	tests := []struct {
		part, whole int
		want        float64
	}{
		{0, 0, 0},
		{5, 0, 0},
		{0, 10, 0},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{10, 10, 100},
		{25, 10, 100},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.part, tt.whole), func(t *testing.T) {
			if got := rate(tt.part, tt.whole); got != tt.want {
				t.Errorf("rate(%d, %d) = %v, want %v", tt.part, tt.whole, got, tt.want)
			}
		})
	}
}

func TestHistogram(t *testing.T) {
	clicks := []ClickEvent{
		{Timestamp: testNow},
		{Timestamp: testNow.Add(-time.Hour)},
		{Timestamp: testNow.AddDate(0, 0, -29)},
		{Timestamp: testNow.AddDate(0, 0, -30)},
		{Timestamp: testNow.AddDate(0, 0, 1)},
	}

	got := histogram(clicks, testNow)

	if len(got) != HistogramDays {
		t.Fatalf("len = %d, want %d dense keys", len(got), HistogramDays)
	}
	if got["2024-03-15"] != 2 {
		t.Errorf("today = %d, want 2", got["2024-03-15"])
	}
	if got["2024-02-15"] != 1 {
		t.Errorf("oldest day = %d, want 1", got["2024-02-15"])
	}
	if got["2024-03-01"] != 0 {
		t.Errorf("empty day = %d, want 0", got["2024-03-01"])
	}
	if _, ok := got["2024-02-14"]; ok {
		t.Error("day before the window present")
	}
}

func TestReferrerHost(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", DirectReferrer},
		{"   ", DirectReferrer},
		{"https://www.Google.com/search?q=x", "google.com"},
		{"http://t.co/abc", "t.co"},
		{"twitter.com/someone", "twitter.com"},
		{"https://news.ycombinator.com:443/item", "news.ycombinator.com"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := referrerHost(tt.in); got != tt.want {
				t.Errorf("referrerHost(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCountUnique(t *testing.T) {
	clicks := []ClickEvent{
		{VisitorID: "a"},
		{VisitorID: "a", IPAddress: "10.0.0.9"},
		{IPAddress: "10.0.0.1", UserAgent: "ua"},
		{IPAddress: "10.0.0.1", UserAgent: "ua"},
		{IPAddress: "10.0.0.1", UserAgent: "other"},
		{},
		{},
	}

	// a, hash(10.0.0.1|ua), hash(10.0.0.1|other), and two anonymous clicks.
	if got := countUnique(clicks, clickVisitorKey); got != 5 {
		t.Errorf("countUnique() = %d, want 5", got)
	}
}

func TestRecent(t *testing.T) {
	var clicks []ClickEvent
	for i := range 15 {
		clicks = append(clicks, ClickEvent{LinkID: fmt.Sprint(i), Timestamp: testNow.Add(time.Duration(i%5) * time.Minute)})
	}

	got := recent(clicks, RecentClicksLimit)
	if len(got) != RecentClicksLimit {
		t.Fatalf("len = %d, want %d", len(got), RecentClicksLimit)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.After(got[i-1].Timestamp) {
			t.Fatalf("not most-recent-first at %d", i)
		}
	}
	// Among equal timestamps the later recorded click comes first.
	if got[0].LinkID != "14" || got[1].LinkID != "9" {
		t.Errorf("first two = %s, %s, want 14, 9", got[0].LinkID, got[1].LinkID)
	}

	if empty := recent(nil, RecentClicksLimit); empty == nil || len(empty) != 0 {
		t.Errorf("recent(nil) = %#v, want empty slice", empty)
	}
}

func TestComputeStatsAndSummarize(t *testing.T) {
	created := testNow.AddDate(0, 0, -10)
	ls := []links.Link{
		{ID: "l1", Title: "One", URL: "https://one.example.com", CreatedAt: created},
		{ID: "l2", Title: "Two", URL: "https://two.example.com", CreatedAt: created},
		{ID: "l3", Title: "Three", URL: "https://three.example.com", CreatedAt: testNow.Add(-time.Hour)},
	}
	views := []ViewEvent{
		{VisitorID: "v1", Timestamp: created.Add(time.Hour)},
		{VisitorID: "v1", Timestamp: created.Add(2 * time.Hour)},
		{VisitorID: "v2", Timestamp: testNow.Add(-time.Minute)},
		{VisitorID: "v3", Timestamp: created.Add(-time.Hour)},
	}
	clicks := []ClickEvent{
		{LinkID: "l2", VisitorID: "v1", Referrer: "https://google.com", Timestamp: created.Add(time.Hour)},
		{LinkID: "l2", VisitorID: "v2", Timestamp: testNow.Add(-time.Minute)},
		{LinkID: "l1", VisitorID: "v1", Timestamp: testNow},
		{LinkID: "gone", Timestamp: testNow},
	}

	stats := computeStats(ls, clicks, views, testNow)
	if len(stats) != 3 {
		t.Fatalf("len(stats) = %d, want 3", len(stats))
	}

	l1, l2, l3 := stats[0], stats[1], stats[2]
	if l1.LinkID != "l1" || l2.LinkID != "l2" || l3.LinkID != "l3" {
		t.Fatalf("stats not in link order: %s %s %s", l1.LinkID, l2.LinkID, l3.LinkID)
	}
	if l2.TotalClicks != 2 || l2.UniqueClicks != 2 || l2.TotalViews != 3 || l2.CTR != 66.67 {
		t.Errorf("l2 = %+v", l2)
	}
	if l2.TopReferrers["google.com"] != 1 || l2.TopReferrers[DirectReferrer] != 1 {
		t.Errorf("l2 referrers = %v", l2.TopReferrers)
	}
	if l3.TotalViews != 1 || l3.TotalClicks != 0 || l3.CTR != 0 {
		t.Errorf("l3 = %+v", l3)
	}
	if len(l3.ClicksByDate) != HistogramDays || l3.RecentClicks == nil {
		t.Errorf("l3 collections not initialized: %+v", l3)
	}

	s := summarize(stats, views)
	if s.TotalViews != 7 || s.TotalClicks != 3 {
		t.Errorf("totals = %d views, %d clicks, want 7, 3", s.TotalViews, s.TotalClicks)
	}
	if s.UniqueVisitors != 3 {
		t.Errorf("UniqueVisitors = %d, want 3", s.UniqueVisitors)
	}
	if s.ConversionRate != 42.86 {
		t.Errorf("ConversionRate = %v, want 42.86", s.ConversionRate)
	}
	if s.ClicksByDate["2024-03-15"] != 2 {
		t.Errorf("ClicksByDate today = %d, want 2", s.ClicksByDate["2024-03-15"])
	}
	if len(s.TopLinks) != 3 || s.TopLinks[0].LinkID != "l2" || s.TopLinks[1].LinkID != "l1" || s.TopLinks[2].LinkID != "l3" {
		t.Errorf("TopLinks order wrong: %+v", s.TopLinks)
	}
}

func TestSummarize_TopLinksTruncatedAndStable(t *testing.T) {
	var stats []LinkStats
	for i := range 8 {
		stats = append(stats, LinkStats{LinkID: fmt.Sprint(i), TotalClicks: i % 3})
	}

	s := summarize(stats, nil)
	if len(s.TopLinks) != TopLinksLimit {
		t.Fatalf("len(TopLinks) = %d, want %d", len(s.TopLinks), TopLinksLimit)
	}
	want := []string{"2", "5", "1", "4", "7"}
	for i, ls := range s.TopLinks {
		if ls.LinkID != want[i] {
			t.Errorf("TopLinks[%d] = %s, want %s", i, ls.LinkID, want[i])
		}
	}
}

func TestSummarize_UniqueVisitorsCapped(t *testing.T) {
	views := []ViewEvent{{VisitorID: "a"}, {VisitorID: "b"}, {VisitorID: "c"}}
	stats := []LinkStats{{LinkID: "l1", TotalViews: 2}}

	if got := summarize(stats, views).UniqueVisitors; got != 2 {
		t.Errorf("UniqueVisitors = %d, want capped at 2", got)
	}
}

func TestSummarize_NoLinks(t *testing.T) {
	s := summarize(computeStats(nil, nil, []ViewEvent{{VisitorID: "a"}}, testNow), []ViewEvent{{VisitorID: "a"}})

	if s.TotalViews != 0 || s.TotalClicks != 0 || s.UniqueVisitors != 0 || s.ConversionRate != 0 {
		t.Errorf("summary = %+v, want zeros", s)
	}
	if s.ClicksByDate == nil || len(s.ClicksByDate) != 0 || s.TopLinks == nil || len(s.TopLinks) != 0 {
		t.Errorf("collections = %v / %v, want empty", s.ClicksByDate, s.TopLinks)
	}
}

func TestFingerprint(t *testing.T) {
	ls := []links.Link{{ID: "l1", UpdatedAt: testNow}}
	base := fingerprint(ls, testNow)

	if fingerprint(ls, testNow.Add(time.Hour)) != base {
		t.Error("fingerprint changed within the same day")
	}
	if fingerprint(ls, testNow.AddDate(0, 0, 1)) == base {
		t.Error("fingerprint did not change across days")
	}
	if fingerprint([]links.Link{{ID: "l1", UpdatedAt: testNow.Add(time.Microsecond)}}, testNow) == base {
		t.Error("fingerprint did not change after a link update")
	}
	if fingerprint(nil, testNow) == base {
		t.Error("fingerprint did not change when links were removed")
	}
}
