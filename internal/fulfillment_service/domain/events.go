package domain

import "time"

// SubjectSaleRecorded is the NATS subject for persisted sale notifications.
const SubjectSaleRecorded = "sale.recorded"

// SaleRecordedEvent is published after a ledger upsert succeeds. Consumers
// (reporting, accounting sync) must tolerate replays: the event id is unique
// per publish, the order id is not.
type SaleRecordedEvent struct {
	EventID        string    `json:"event_id"`
	OrderID        string    `json:"order_id"`
	BusinessURL    string    `json:"business_url"`
	Amount         float64   `json:"amount"`
	Currency       string    `json:"currency"`
	AuditGenerated bool      `json:"audit_generated"`
	EmailDelivered bool      `json:"email_delivered"`
	OccurredAt     time.Time `json:"occurred_at"`
}
