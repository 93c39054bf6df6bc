package checkout

import (
	"fmt"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/codebookhq/codebook/config"
	"github.com/codebookhq/codebook/internal/domain"
	"github.com/codebookhq/codebook/pkg/common"
)

// Notifier sends a confirmation mail for each created order. It is
// best-effort: mail failures are logged and never affect the order.
type Notifier struct {
	smtp config.SmtpConfig
}

// SubscribeNotifier attaches a notifier to the order event stream.
// Without an SMTP host the subscription is skipped entirely.
func SubscribeNotifier(bus EventBus.Bus, smtp config.SmtpConfig) error {
	if common.IsEmptyOrNA(smtp.Host) {
		zap.S().Debug("order mail notifier disabled, no smtp host configured")
		return nil
	}
	n := &Notifier{smtp: smtp}
	return bus.SubscribeAsync(TopicOrderCreated, n.onOrderCreated, false)
}

func (n *Notifier) onOrderCreated(order domain.Order) {
	if order.User.Email == "" {
		return
	}
	m := gomail.NewMessage()
	m.SetHeader("From", common.IfEmptyStr(n.smtp.From, n.smtp.Username))
	m.SetHeader("To", order.User.Email)
	m.SetHeader("Subject", fmt.Sprintf("Order #%d confirmed", order.ID))
	m.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nYour order #%d for %d item(s) totalling $%.2f is confirmed.\nYour eBooks are ready in your account.\n",
		order.User.Name, order.ID, order.Quantity, order.AmountPaid))

	d := gomail.NewDialer(n.smtp.Host, n.smtp.Port, n.smtp.Username, n.smtp.Password)
	if err := d.DialAndSend(m); err != nil {
		zap.S().Warnf("order %d confirmation mail failed: %s", order.ID, err)
	}
}
