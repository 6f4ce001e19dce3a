package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cyrnelorigin/gumroad-automator/internal/fulfillment_service/domain"
)

// Querier is the subset of pgxpool.Pool the repository needs. pgxmock
// satisfies it as well, so the repository is unit-testable without a server.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgSaleRepository struct {
	db Querier
}

// NewPgSaleRepository creates a SaleRepository backed by PostgreSQL.
func NewPgSaleRepository(db Querier) domain.SaleRepository {
	return &pgSaleRepository{db: db}
}

// Upsert writes the record keyed by order_id. recorded_at is assigned by the
// database on every write, so a replayed notification refreshes it.
func (r *pgSaleRepository) Upsert(ctx context.Context, record *domain.SaleRecord) error {
	query := `
		INSERT INTO sales (order_id, customer_email, business_url, amount, currency,
		                   audit_generated, email_delivered, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (order_id) DO UPDATE SET
			customer_email  = EXCLUDED.customer_email,
			business_url    = EXCLUDED.business_url,
			amount          = EXCLUDED.amount,
			currency        = EXCLUDED.currency,
			audit_generated = EXCLUDED.audit_generated,
			email_delivered = EXCLUDED.email_delivered,
			recorded_at     = NOW()
	`
	_, err := r.db.Exec(ctx, query,
		record.OrderID, record.CustomerEmail, record.BusinessURL, record.Amount,
		record.Currency, record.AuditGenerated, record.EmailDelivered,
	)
	return err
}

func (r *pgSaleRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.SaleRecord, error) {
	query := `
		SELECT order_id, customer_email, business_url, amount, currency,
		       audit_generated, email_delivered, recorded_at
		FROM sales WHERE order_id = $1
	`
	record, err := scanSale(r.db.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return record, nil
}

func (r *pgSaleRepository) ListRecent(ctx context.Context, limit int) ([]*domain.SaleRecord, error) {
	query := `
		SELECT order_id, customer_email, business_url, amount, currency,
		       audit_generated, email_delivered, recorded_at
		FROM sales
		ORDER BY recorded_at DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.SaleRecord
	for rows.Next() {
		record, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func scanSale(row pgx.Row) (*domain.SaleRecord, error) {
	var record domain.SaleRecord
	err := row.Scan(
		&record.OrderID, &record.CustomerEmail, &record.BusinessURL, &record.Amount,
		&record.Currency, &record.AuditGenerated, &record.EmailDelivered, &record.RecordedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
