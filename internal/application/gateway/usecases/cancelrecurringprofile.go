package usecases

import (
	"context"
	"fmt"

	"github.com/membergate/membergate/internal/application/gateway"
	"github.com/membergate/membergate/internal/domain/member"
	"github.com/membergate/membergate/internal/shared/logger"
)

// CancelRecurringProfileUseCase stops billing for a member's PayPal profile.
type CancelRecurringProfileUseCase struct {
	subscribers *gateway.SubscriberChecker
	credentials *gateway.CredentialResolver
	transport   gateway.NVPTransport
	logger      logger.Interface
}

func NewCancelRecurringProfileUseCase(
	subscribers *gateway.SubscriberChecker,
	credentials *gateway.CredentialResolver,
	transport gateway.NVPTransport,
	logger logger.Interface,
) *CancelRecurringProfileUseCase {
	return &CancelRecurringProfileUseCase{
		subscribers: subscribers,
		credentials: credentials,
		transport:   transport,
		logger:      logger,
	}
}

// Execute cancels m's profile at PayPal. Members not billed through PayPal
// have nothing to cancel and return nil.
func (uc *CancelRecurringProfileUseCase) Execute(ctx context.Context, m *member.Member) error {
	if !m.HasPayPalProfile() || !uc.subscribers.IsMemberSubscriber(ctx, m) {
		return nil
	}

	creds := uc.credentials.Resolve(ctx)
	if !creds.Complete() {
		return fmt.Errorf("paypal api credentials are not configured")
	}

	fields := gateway.BaseFields(creds, gateway.MethodManageProfileStatus)
	fields.Set("PROFILEID", m.PaymentProfileID())
	fields.Set("ACTION", "Cancel")
	fields.Set("NOTE", "Cancelled by site administrator")

	resp, err := uc.transport.Post(ctx, fields)
	if err != nil {
		uc.logger.Errorw("paypal profile cancel request failed", "error", err, "member_id", m.ID())
		return fmt.Errorf("failed to cancel paypal profile: %w", err)
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("failed to cancel paypal profile: unexpected status %d", resp.StatusCode)
	}
	if resp.IsFailure() {
		return fmt.Errorf("failed to cancel paypal profile: %s", resp.ErrorMessage())
	}

	uc.logger.Infow("paypal profile cancelled", "member_id", m.ID(), "profile_id", m.PaymentProfileID())
	return nil
}
