package payments

import (
	"context"

	"github.com/sundayezeilo/linkbio/internal/errx"
)

type unimplemented struct{}

// NewUnimplemented returns a Service that fails every call with errx.NotImplemented.
func NewUnimplemented() Service { return unimplemented{} }

func (unimplemented) CreateTipSession(context.Context, string) (PaymentSession, error) {
	return PaymentSession{}, errx.Unimplemented("payments.unimplemented.CreateTipSession")
}

func (unimplemented) CreateSubscriptionSession(context.Context, string) (PaymentSession, error) {
	return PaymentSession{}, errx.Unimplemented("payments.unimplemented.CreateSubscriptionSession")
}

func (unimplemented) UnlockPremiumLink(context.Context, string, string) (bool, error) {
	return false, errx.Unimplemented("payments.unimplemented.UnlockPremiumLink")
}

func (unimplemented) BillingSummary(context.Context, string) (BillingSummary, error) {
	return BillingSummary{}, errx.Unimplemented("payments.unimplemented.BillingSummary")
}
