package analytics

import "time"

const (
	// HistogramDays is the length of the trailing ClicksByDate window, today included.
	HistogramDays = 30
	// RecentClicksLimit bounds LinkStats.RecentClicks.
	RecentClicksLimit = 10
	// TopLinksLimit bounds Summary.TopLinks.
	TopLinksLimit = 5

	// DateLayout formats ClicksByDate keys.
	DateLayout = "2006-01-02"

	// DirectReferrer counts clicks that carried no referrer.
	DirectReferrer = "direct"

	maxReferrerLength  = 500
	maxUserAgentLength = 500
	maxVisitorIDLength = 128
)

// ClickEvent is one recorded click on a link.
type ClickEvent struct {
	LinkID    string    `json:"linkId"`
	UserID    string    `json:"userId"`
	Referrer  string    `json:"referrer,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	IPAddress string    `json:"ipAddress,omitempty"`
	VisitorID string    `json:"visitorId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ViewEvent is one render of an owner's public profile.
type ViewEvent struct {
	UserID    string    `json:"userId"`
	Referrer  string    `json:"referrer,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	IPAddress string    `json:"ipAddress,omitempty"`
	VisitorID string    `json:"visitorId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ClickInput is a click as reported by a caller; the engine stamps the time.
type ClickInput struct {
	LinkID    string
	UserID    string
	Referrer  string
	UserAgent string
	IPAddress string
	VisitorID string
}

// ViewInput is a profile view as reported by a caller.
type ViewInput struct {
	UserID    string
	Referrer  string
	UserAgent string
	IPAddress string
	VisitorID string
}

// LinkStats aggregates the recorded events of one link.
type LinkStats struct {
	LinkID       string         `json:"linkId"`
	Title        string         `json:"title"`
	URL          string         `json:"url"`
	TotalClicks  int            `json:"totalClicks"`
	UniqueClicks int            `json:"uniqueClicks"`
	TotalViews   int            `json:"totalViews"`
	CTR          float64        `json:"ctr"`
	ClicksByDate map[string]int `json:"clicksByDate"`
	TopReferrers map[string]int `json:"topReferrers"`
	RecentClicks []ClickEvent   `json:"recentClicks"`
}

// Summary aggregates LinkStats across all of an owner's links.
type Summary struct {
	TotalViews     int            `json:"totalViews"`
	UniqueVisitors int            `json:"uniqueVisitors"`
	TotalClicks    int            `json:"totalClicks"`
	ConversionRate float64        `json:"conversionRate"`
	ClicksByDate   map[string]int `json:"clicksByDate"`
	TopLinks       []LinkStats    `json:"topLinks"`
}
