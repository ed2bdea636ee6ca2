package services

import (
	"context"

	"github.com/wizardsoflight-studio/studioWebsite/internal/model"
)

// OrderMailer sends the buyer-facing order confirmation. Implemented by
// external/resend; failures are logged by callers, never propagated into the
// payment path.
type OrderMailer interface {
	SendOrderConfirmation(ctx context.Context, order *model.Order, toEmail, toName string) error
}
