package payments

import "time"

const (
	// SessionTTL is how long a payment session handle stays valid.
	SessionTTL = 30 * time.Minute

	sessionTokenLength = 16
)

// PaymentSession is a short-lived handle the client redirects to. Expiry is
// advisory; nothing is stored server side.
type PaymentSession struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// BillingSummary reports what an owner has earned.
type BillingSummary struct {
	TotalEarned       float64 `json:"totalEarned"`
	ActiveSubscribers int     `json:"activeSubscribers"`
}
