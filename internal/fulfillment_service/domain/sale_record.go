package domain

import (
	"fmt"
	"time"
)

const (
	// NotAvailable is displayed for record fields with no stored value.
	NotAvailable = "N/A"
	// NoWebsiteProvided is stored when a notification carries no usable website.
	NoWebsiteProvided = "Not provided"
	// DefaultCurrency applies when the payment platform omits the currency field.
	DefaultCurrency = "ZAR"
)

// displayTimeLayout mirrors the dashboard's locale-style timestamp rendering.
const displayTimeLayout = "1/2/2006, 3:04:05 PM"

// SaleRecord is one row of the sale ledger, keyed by OrderID. Replayed
// notifications overwrite the existing row, so the ledger holds at most one
// record per order.
type SaleRecord struct {
	OrderID        string    `json:"order_id"`
	CustomerEmail  string    `json:"customer_email,omitempty"`
	BusinessURL    string    `json:"business_url"`
	Amount         float64   `json:"amount"`
	Currency       string    `json:"currency"`
	AuditGenerated bool      `json:"audit_generated"` // true once generation was attempted, fallback included
	EmailDelivered bool      `json:"email_delivered"` // true only on provider-confirmed acceptance
	RecordedAt     time.Time `json:"recorded_at"`     // assigned by the database at persist time
}

// NewSaleRecord builds the ledger row for a processed notification.
// RecordedAt stays zero; the repository lets the database assign it.
func NewSaleRecord(n SaleNotification, auditGenerated, emailDelivered bool) *SaleRecord {
	return &SaleRecord{
		OrderID:        n.OrderID,
		CustomerEmail:  n.Email,
		BusinessURL:    n.BusinessURL,
		Amount:         n.Amount,
		Currency:       n.Currency,
		AuditGenerated: auditGenerated,
		EmailDelivered: emailDelivered,
	}
}

// SaleRecordView is the dashboard projection of a SaleRecord with display
// defaults applied.
type SaleRecordView struct {
	OrderID        string `json:"orderId"`
	Email          string `json:"email"`
	BusinessURL    string `json:"businessUrl"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	AuditGenerated bool   `json:"auditGenerated"`
	EmailDelivered bool   `json:"emailDelivered"`
	Date           string `json:"date"`
}

// NewSaleRecordView projects a ledger row for display. Missing email and
// timestamp render as "N/A", a missing website as "Not provided".
func NewSaleRecordView(r *SaleRecord) SaleRecordView {
	v := SaleRecordView{
		OrderID:        r.OrderID,
		Email:          r.CustomerEmail,
		BusinessURL:    r.BusinessURL,
		Amount:         fmt.Sprintf("%.2f", r.Amount),
		Currency:       r.Currency,
		AuditGenerated: r.AuditGenerated,
		EmailDelivered: r.EmailDelivered,
	}
	if v.Email == "" {
		v.Email = NotAvailable
	}
	if v.BusinessURL == "" {
		v.BusinessURL = NoWebsiteProvided
	}
	if r.RecordedAt.IsZero() {
		v.Date = NotAvailable
	} else {
		v.Date = r.RecordedAt.Format(displayTimeLayout)
	}
	return v
}
