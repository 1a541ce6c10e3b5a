package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/membergate/membergate/internal/application/gateway"
	"github.com/membergate/membergate/internal/domain/member"
	"github.com/membergate/membergate/internal/shared/config"
	"github.com/membergate/membergate/internal/shared/goroutine"
	"github.com/membergate/membergate/internal/shared/logger"
	"github.com/membergate/membergate/internal/shared/utils"
)

const (
	MsgMissingFields   = "Please enter all required fields."
	MsgProfileMismatch = "Error updating subscription"
	MsgGenericFailure  = "Something has gone wrong, please try again"
)

// Card update outcomes, also used as metric labels.
const (
	OutcomeSkipped  = "skipped"
	OutcomeInvalid  = "invalid"
	OutcomeFailed   = "failed"
	OutcomeUpdated  = "updated"
	OutcomeMismatch = "mismatch"
)

type UpdateBillingCardCommand struct {
	MemberID   uint
	CardNumber string
	ExpMonth   string
	ExpYear    string
	CVC        string
	Zip        string
}

// UpdateBillingCardResult tells the caller where the request ends. Skipped
// results carry no query parameters; otherwise Updated picks card=updated or
// card=not-updated with Message.
type UpdateBillingCardResult struct {
	Skipped bool
	Updated bool
	Message string
	Outcome string
}

// QueryArgs returns the parameters to add to the redirect target.
func (r *UpdateBillingCardResult) QueryArgs() map[string]string {
	switch {
	case r.Skipped:
		return map[string]string{}
	case r.Updated:
		return map[string]string{"card": "updated"}
	default:
		return map[string]string{"card": "not-updated", "msg": r.Message}
	}
}

type CardUpdateNotifier interface {
	NotifyCardUpdated(ctx context.Context, m *member.Member) error
}

type CardUpdateMetrics interface {
	ObserveCardUpdate(outcome string, elapsed time.Duration)
}

type UpdateBillingCardUseCase struct {
	members     member.Repository
	subscribers *gateway.SubscriberChecker
	credentials *gateway.CredentialResolver
	transport   gateway.NVPTransport
	notifier    CardUpdateNotifier
	metrics     CardUpdateMetrics
	cfg         config.PayPalConfig
	logger      logger.Interface
}

// NewUpdateBillingCardUseCase creates the card update use case. notifier and
// metrics may be nil.
func NewUpdateBillingCardUseCase(
	members member.Repository,
	subscribers *gateway.SubscriberChecker,
	credentials *gateway.CredentialResolver,
	transport gateway.NVPTransport,
	notifier CardUpdateNotifier,
	metrics CardUpdateMetrics,
	cfg config.PayPalConfig,
	logger logger.Interface,
) *UpdateBillingCardUseCase {
	return &UpdateBillingCardUseCase{
		members:     members,
		subscribers: subscribers,
		credentials: credentials,
		transport:   transport,
		notifier:    notifier,
		metrics:     metrics,
		cfg:         cfg,
		logger:      logger,
	}
}

func (uc *UpdateBillingCardUseCase) Execute(ctx context.Context, cmd UpdateBillingCardCommand) (*UpdateBillingCardResult, error) {
	start := time.Now()
	result, err := uc.execute(ctx, cmd)
	if err == nil && uc.metrics != nil {
		uc.metrics.ObserveCardUpdate(result.Outcome, time.Since(start))
	}
	return result, err
}

func (uc *UpdateBillingCardUseCase) execute(ctx context.Context, cmd UpdateBillingCardCommand) (*UpdateBillingCardResult, error) {
	skipped := &UpdateBillingCardResult{Skipped: true, Outcome: OutcomeSkipped}
	if cmd.MemberID == 0 {
		return skipped, nil
	}

	m, err := uc.members.GetByID(ctx, cmd.MemberID)
	if err != nil {
		if errors.Is(err, member.ErrMemberNotFound) {
			return skipped, nil
		}
		uc.logger.Errorw("failed to load member for card update", "error", err, "member_id", cmd.MemberID)
		return nil, fmt.Errorf("failed to load member: %w", err)
	}
	if !uc.subscribers.IsMemberSubscriber(ctx, m) {
		return skipped, nil
	}

	card, ok := normalizeCard(cmd)
	if !ok {
		return fail(OutcomeInvalid, MsgMissingFields), nil
	}

	creds := uc.credentials.Resolve(ctx)
	if !creds.Complete() {
		uc.logger.Warnw("paypal api credentials are not configured", "member_id", m.ID(), "sandbox", uc.credentials.Sandbox())
		return fail(OutcomeFailed, MsgGenericFailure), nil
	}

	fields := gateway.BaseFields(creds, gateway.MethodUpdateRecurringProfile)
	fields.Set("PROFILEID", m.PaymentProfileID())
	fields.Set("ACCT", card.number)
	fields.Set("EXPDATE", card.month+card.year)
	fields.Set("CVV2", card.cvc)
	if card.zip != "" {
		fields.Set("ZIP", card.zip)
	}
	if uc.cfg.ButtonSource != "" {
		fields.Set("BUTTONSOURCE", uc.cfg.ButtonSource)
	}

	resp, err := uc.transport.Post(ctx, fields)
	if err != nil {
		uc.logger.Warnw("paypal card update request failed", "error", err, "member_id", m.ID())
		return fail(OutcomeFailed, err.Error()), nil
	}

	if resp.StatusCode != 200 {
		uc.logger.Warnw("paypal card update returned unexpected status", "status", resp.StatusCode, "member_id", m.ID())
		return fail(OutcomeFailed, MsgGenericFailure), nil
	}
	if resp.IsFailure() {
		uc.logger.Infow("paypal declined card update",
			"member_id", m.ID(),
			"error_code", resp.Fields.Get("L_ERRORCODE0"),
		)
		return fail(OutcomeFailed, resp.ErrorMessage()), nil
	}
	if resp.Fields.Get("PROFILEID") != m.PaymentProfileID() {
		uc.logger.Warnw("paypal card update returned a different profile",
			"member_id", m.ID(),
			"profile_id", m.PaymentProfileID(),
			"returned_profile_id", resp.Fields.Get("PROFILEID"),
		)
		return fail(OutcomeMismatch, MsgProfileMismatch), nil
	}

	uc.logger.Infow("billing card updated",
		"member_id", m.ID(),
		"profile_id", m.PaymentProfileID(),
		"card", utils.MaskCardNumber(card.number),
	)
	uc.notify(m)

	return &UpdateBillingCardResult{Updated: true, Outcome: OutcomeUpdated}, nil
}

func (uc *UpdateBillingCardUseCase) notify(m *member.Member) {
	if uc.notifier == nil {
		return
	}
	goroutine.SafeGo(uc.logger, "card-updated-notification", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := uc.notifier.NotifyCardUpdated(ctx, m); err != nil {
			uc.logger.Warnw("failed to send card updated notification", "error", err, "member_id", m.ID())
		}
	})
}

func fail(outcome, message string) *UpdateBillingCardResult {
	return &UpdateBillingCardResult{Message: message, Outcome: outcome}
}

type cardFields struct {
	number string
	month  string
	year   string
	cvc    string
	zip    string
}

// normalizeCard checks the required fields are digits and shapes the
// expiry as MMYYYY.
func normalizeCard(cmd UpdateBillingCardCommand) (cardFields, bool) {
	c := cardFields{
		number: strings.ReplaceAll(strings.TrimSpace(cmd.CardNumber), " ", ""),
		month:  strings.TrimSpace(cmd.ExpMonth),
		year:   strings.TrimSpace(cmd.ExpYear),
		cvc:    strings.TrimSpace(cmd.CVC),
		zip:    sanitizeText(cmd.Zip),
	}
	for _, f := range []string{c.number, c.month, c.year, c.cvc} {
		if !utils.IsDigits(f) {
			return cardFields{}, false
		}
	}
	if len(c.month) == 1 {
		c.month = "0" + c.month
	}
	if len(c.year) == 2 {
		c.year = "20" + c.year
	}
	return c, true
}

// sanitizeText trims and drops control characters and angle brackets.
func sanitizeText(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || r == '<' || r == '>' {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
