package http

// SaleWebhookResponse answers the payment platform's sale ping. Success
// mirrors the email delivery outcome, not the ledger write.
type SaleWebhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OrderID string `json:"order_id"`
}
