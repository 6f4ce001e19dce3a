package app

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/cyrnelorigin/gumroad-automator/internal/fulfillment_service/adapters/mailer"
)

// orderTagPattern matches everything the email provider rejects in tag values.
var orderTagPattern = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// DeliveryOutcome reports one audit email attempt. Delivered is true only on
// provider-confirmed acceptance.
type DeliveryOutcome struct {
	Delivered         bool
	ProviderMessageID string
	ErrorDetail       string
}

// DeliveryNotifier emails the finished audit to the buyer.
type DeliveryNotifier struct {
	sender mailer.Sender
	logger *slog.Logger
	from   string
}

func NewDeliveryNotifier(sender mailer.Sender, from string, logger *slog.Logger) *DeliveryNotifier {
	return &DeliveryNotifier{
		sender: sender,
		logger: logger.With("component", "delivery_notifier"),
		from:   from,
	}
}

// Deliver sends the report to the buyer. It absorbs every failure into the
// returned outcome; the caller records the result but never branches into an
// error path because of it.
func (n *DeliveryNotifier) Deliver(ctx context.Context, email, businessURL, report, orderID string) DeliveryOutcome {
	if strings.TrimSpace(email) == "" {
		n.logger.WarnContext(ctx, "Sale notification carried no customer email, skipping delivery", "order_id", orderID)
		emailDeliveryCounter.WithLabelValues("failed").Inc()
		return DeliveryOutcome{Delivered: false, ErrorDetail: "notification carried no customer email"}
	}

	msg := mailer.EmailMessage{
		From:    n.from,
		To:      []string{email},
		Subject: fmt.Sprintf("Your website audit for %s", businessURL),
		HTML:    htmlReportBody(report),
		Text:    report,
		Tags:    []mailer.Tag{{Name: "order_id", Value: SanitizeOrderTag(orderID)}},
	}

	start := time.Now()
	receipt, err := n.sender.Send(ctx, msg)
	providerRequestDurationHist.WithLabelValues("email").Observe(time.Since(start).Seconds())

	if err != nil {
		n.logger.ErrorContext(ctx, "Audit email delivery failed", "order_id", orderID, "error", err)
		emailDeliveryCounter.WithLabelValues("failed").Inc()
		return DeliveryOutcome{Delivered: false, ErrorDetail: err.Error()}
	}

	n.logger.InfoContext(ctx, "Audit email delivered", "order_id", orderID, "provider_message_id", receipt.ID)
	emailDeliveryCounter.WithLabelValues("delivered").Inc()
	return DeliveryOutcome{Delivered: true, ProviderMessageID: receipt.ID}
}

// SanitizeOrderTag reduces an order id to the characters the provider
// accepts in tag values: letters, digits, underscore, hyphen.
func SanitizeOrderTag(orderID string) string {
	return orderTagPattern.ReplaceAllString(orderID, "")
}

func htmlReportBody(report string) string {
	return strings.ReplaceAll(html.EscapeString(report), "\n", "<br>")
}
