package analytics

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/sundayezeilo/linkbio/internal/links"
)

// computeStats derives one LinkStats per link, in the order of ls.
func computeStats(ls []links.Link, clicks []ClickEvent, views []ViewEvent, now time.Time) []LinkStats {
	byLink := make(map[string][]ClickEvent, len(ls))
	for _, c := range clicks {
		byLink[c.LinkID] = append(byLink[c.LinkID], c)
	}

	out := make([]LinkStats, 0, len(ls))
	for _, l := range ls {
		linkClicks := byLink[l.ID]

		totalViews := 0
		for _, v := range views {
			if !v.Timestamp.Before(l.CreatedAt) {
				totalViews++
			}
		}

		out = append(out, LinkStats{
			LinkID:       l.ID,
			Title:        l.Title,
			URL:          l.URL,
			TotalClicks:  len(linkClicks),
			UniqueClicks: countUnique(linkClicks, clickVisitorKey),
			TotalViews:   totalViews,
			CTR:          rate(len(linkClicks), totalViews),
			ClicksByDate: histogram(linkClicks, now),
			TopReferrers: referrers(linkClicks),
			RecentClicks: recent(linkClicks, RecentClicksLimit),
		})
	}
	return out
}

// summarize folds per-link stats into an owner summary.
func summarize(stats []LinkStats, views []ViewEvent) Summary {
	s := Summary{
		ClicksByDate: map[string]int{},
		TopLinks:     []LinkStats{},
	}

	for _, ls := range stats {
		s.TotalViews += ls.TotalViews
		s.TotalClicks += ls.TotalClicks
		for date, n := range ls.ClicksByDate {
			s.ClicksByDate[date] += n
		}
	}

	s.UniqueVisitors = min(countUnique(views, viewVisitorKey), s.TotalViews)
	s.ConversionRate = rate(s.TotalClicks, s.TotalViews)

	top := slices.Clone(stats)
	slices.SortStableFunc(top, func(a, b LinkStats) int {
		return cmp.Compare(b.TotalClicks, a.TotalClicks)
	})
	if len(top) > TopLinksLimit {
		top = top[:TopLinksLimit]
	}
	if top != nil {
		s.TopLinks = top
	}
	return s
}

// rate returns part/whole as a percentage in [0,100] rounded to two
// decimals, or 0 when whole is 0.
func rate(part, whole int) float64 {
	if whole <= 0 || part <= 0 {
		return 0
	}
	pct := float64(part) / float64(whole) * 100
	pct = min(pct, 100)
	return math.Round(pct*100) / 100
}

// histogram counts clicks per UTC day over the trailing window ending today.
// Every day of the window has a key.
func histogram(clicks []ClickEvent, now time.Time) map[string]int {
	today := now.UTC()
	out := make(map[string]int, HistogramDays)
	for i := HistogramDays - 1; i >= 0; i-- {
		out[today.AddDate(0, 0, -i).Format(DateLayout)] = 0
	}
	for _, c := range clicks {
		key := c.Timestamp.UTC().Format(DateLayout)
		if _, inWindow := out[key]; inWindow {
			out[key]++
		}
	}
	return out
}

func referrers(clicks []ClickEvent) map[string]int {
	out := make(map[string]int)
	for _, c := range clicks {
		out[referrerHost(c.Referrer)]++
	}
	return out
}

// referrerHost reduces a referrer to its lower-cased host without "www.".
func referrerHost(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return DirectReferrer
	}

	host := ""
	if u, err := url.Parse(ref); err == nil && u.Host != "" {
		host = u.Hostname()
	} else {
		host, _, _ = strings.Cut(ref, "/")
	}

	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	if host == "" {
		return DirectReferrer
	}
	return host
}

// recent returns up to limit clicks, most recent first.
func recent(clicks []ClickEvent, limit int) []ClickEvent {
	out := slices.Clone(clicks)
	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b ClickEvent) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []ClickEvent{}
	}
	return out
}

// countUnique counts distinct visitor keys. Events without a key are each
// counted as their own visitor.
func countUnique[E any](events []E, key func(E) string) int {
	seen := make(map[string]struct{}, len(events))
	anonymous := 0
	for _, e := range events {
		k := key(e)
		if k == "" {
			anonymous++
			continue
		}
		seen[k] = struct{}{}
	}
	return len(seen) + anonymous
}

func clickVisitorKey(c ClickEvent) string { return visitorKey(c.VisitorID, c.IPAddress, c.UserAgent) }

func viewVisitorKey(v ViewEvent) string { return visitorKey(v.VisitorID, v.IPAddress, v.UserAgent) }

// visitorKey prefers an explicit visitor id and falls back to a hash of the
// client address and user agent, so raw addresses are never compared.
func visitorKey(visitorID, ip, userAgent string) string {
	if visitorID != "" {
		return "v:" + visitorID
	}
	if ip == "" && userAgent == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(ip + "|" + userAgent))
	return "h:" + hex.EncodeToString(sum[:8])
}

// fingerprint identifies the link set and day a snapshot was computed for.
func fingerprint(ls []links.Link, now time.Time) string {
	h := sha256.New()
	h.Write([]byte(now.UTC().Format(DateLayout)))
	for _, l := range ls {
		h.Write([]byte{0})
		h.Write([]byte(l.ID))
		h.Write([]byte{0})
		h.Write([]byte(strconv.FormatInt(l.UpdatedAt.UnixMicro(), 10)))
	}
	return hex.EncodeToString(h.Sum(nil))
}
