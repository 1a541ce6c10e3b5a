package email

import (
	"context"
	"fmt"
	"html"

	"github.com/membergate/membergate/internal/domain/member"
	"github.com/membergate/membergate/internal/shared/logger"
)

type Sender interface {
	Send(to, subject, htmlBody, plainBody string) error
}

// MemberNotifier sends the account notices members receive. With a nil
// sender every notice is skipped.
type MemberNotifier struct {
	sender   Sender
	siteName string
	logger   logger.Interface
}

func NewMemberNotifier(sender Sender, siteName string, logger logger.Interface) *MemberNotifier {
	return &MemberNotifier{sender: sender, siteName: siteName, logger: logger}
}

func (n *MemberNotifier) send(ctx context.Context, m *member.Member, subject, htmlBody, plainBody string) error {
	if n.sender == nil {
		n.logger.Debugw("email not configured, skipping notice", "subject", subject, "user_id", m.ID())
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := n.sender.Send(m.Email(), subject, htmlBody, plainBody); err != nil {
		n.logger.Errorw("failed to send notice", "error", err, "subject", subject, "user_id", m.ID())
		return err
	}
	n.logger.Infow("notice sent", "subject", subject, "user_id", m.ID())
	return nil
}

func (n *MemberNotifier) NotifyCardUpdated(ctx context.Context, m *member.Member) error {
	subject := fmt.Sprintf("[%s] Your billing card was updated", n.siteName)
	name := m.DisplayName()

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<p>Hello %s,</p>
			<p>The card on file for your %s subscription was updated.</p>
			<p>If you did not make this change, please contact support immediately.</p>
		</body>
		</html>
	`, html.EscapeString(name), html.EscapeString(n.siteName))

	plainBody := fmt.Sprintf(`
Hello %s,

The card on file for your %s subscription was updated.

If you did not make this change, please contact support immediately.
	`, name, n.siteName)

	return n.send(ctx, m, subject, htmlBody, plainBody)
}

func (n *MemberNotifier) NotifySubscriptionCancelled(ctx context.Context, m *member.Member, levelName string) error {
	subject := fmt.Sprintf("[%s] Your subscription was cancelled", n.siteName)
	name := m.DisplayName()

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<p>Hello %s,</p>
			<p>Your %s subscription has been cancelled and will not renew.</p>
		</body>
		</html>
	`, html.EscapeString(name), html.EscapeString(levelName))

	plainBody := fmt.Sprintf(`
Hello %s,

Your %s subscription has been cancelled and will not renew.
	`, name, levelName)

	return n.send(ctx, m, subject, htmlBody, plainBody)
}
