package domain

import "context"

// SaleRepository defines the interface for the sale ledger.
type SaleRepository interface {
	// Upsert inserts or replaces the record keyed by OrderID. The database
	// assigns RecordedAt on every write.
	Upsert(ctx context.Context, record *SaleRecord) error
	// GetByOrderID returns the record for an order or ErrNotFound.
	GetByOrderID(ctx context.Context, orderID string) (*SaleRecord, error)
	// ListRecent returns up to limit records, most recently recorded first.
	ListRecent(ctx context.Context, limit int) ([]*SaleRecord, error)
}
