// Package payments issues payment session handles and decides premium link
// unlocks. Only a stub provider exists; any other deployment gets the
// unimplemented service.
package payments

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/sundayezeilo/linkbio/internal/clock"
	"github.com/sundayezeilo/linkbio/internal/errx"
	"github.com/sundayezeilo/linkbio/internal/idgen"
)

// DefaultProviderURL is the base URL of the stub payment provider.
const DefaultProviderURL = "https://mock-payment-provider.com"

// Service defines the payment operations.
type Service interface {
	CreateTipSession(ctx context.Context, ownerID string) (PaymentSession, error)
	CreateSubscriptionSession(ctx context.Context, ownerID string) (PaymentSession, error)
	// UnlockPremiumLink reports whether the caller may open linkID. True
	// means proceed.
	UnlockPremiumLink(ctx context.Context, linkID, ownerID string) (bool, error)
	BillingSummary(ctx context.Context, ownerID string) (BillingSummary, error)
}

// StubConfig holds configuration for the stub service.
type StubConfig struct {
	ProviderURL string               // default: DefaultProviderURL
	Clock       clock.Clock          // default: clock.System()
	Tokens      idgen.TokenGenerator // default: idgen.NewBase62()
	Logger      *slog.Logger
}

type stub struct {
	providerURL string
	clock       clock.Clock
	tokens      idgen.TokenGenerator
	logger      *slog.Logger
}

// NewStub returns a Service that fabricates sessions and approves every unlock.
func NewStub(config *StubConfig) Service {
	if config == nil {
		config = &StubConfig{}
	}

	s := &stub{
		providerURL: strings.TrimRight(config.ProviderURL, "/"),
		clock:       config.Clock,
		tokens:      config.Tokens,
		logger:      config.Logger,
	}
	if s.providerURL == "" {
		s.providerURL = DefaultProviderURL
	}
	if s.clock == nil {
		s.clock = clock.System()
	}
	if s.tokens == nil {
		s.tokens = idgen.NewBase62()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

func (s *stub) CreateTipSession(_ context.Context, ownerID string) (PaymentSession, error) {
	return s.session("payments.stub.CreateTipSession", "tip", "tip", ownerID)
}

func (s *stub) CreateSubscriptionSession(_ context.Context, ownerID string) (PaymentSession, error) {
	return s.session("payments.stub.CreateSubscriptionSession", "sub", "subscribe", ownerID)
}

// session builds a handle "<prefix>_<token>" pointing at <provider>/<path>/<owner>.
func (s *stub) session(op, prefix, path, ownerID string) (PaymentSession, error) {
	if ownerID == "" {
		return PaymentSession{}, errx.E(op, errx.Invalid, errors.New("owner id is required"))
	}

	token, err := s.tokens.Token(sessionTokenLength)
	if err != nil {
		return PaymentSession{}, errx.E(op, errx.Internal, err)
	}

	return PaymentSession{
		ID:        prefix + "_" + token,
		URL:       s.providerURL + "/" + path + "/" + url.PathEscape(ownerID),
		ExpiresAt: s.clock.Now().Add(SessionTTL),
	}, nil
}

func (s *stub) UnlockPremiumLink(ctx context.Context, linkID, ownerID string) (bool, error) {
	const op = "payments.stub.UnlockPremiumLink"

	if linkID == "" {
		return false, errx.E(op, errx.Invalid, errors.New("link id is required"))
	}

	s.logger.InfoContext(ctx, "premium link unlocked",
		"link_id", linkID,
		"user_id", ownerID,
	)
	return true, nil
}

func (s *stub) BillingSummary(_ context.Context, ownerID string) (BillingSummary, error) {
	const op = "payments.stub.BillingSummary"

	if ownerID == "" {
		return BillingSummary{}, errx.E(op, errx.Invalid, errors.New("owner id is required"))
	}
	return BillingSummary{TotalEarned: 127.50, ActiveSubscribers: 8}, nil
}
