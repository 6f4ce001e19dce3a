package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cyrnelorigin/gumroad-automator/internal/fulfillment_service/domain"
)

// SummaryTotals are the dashboard headline figures. Revenue and rate are
// pre-formatted strings so the dashboard renders them verbatim.
type SummaryTotals struct {
	TotalRevenue         string `json:"totalRevenue"`
	TotalSales           int    `json:"totalSales"`
	SuccessfulDeliveries int    `json:"successfulDeliveries"`
	SuccessRate          string `json:"successRate"`
}

// DashboardSummary is the aggregation endpoint's response body.
type DashboardSummary struct {
	Summary     SummaryTotals           `json:"summary"`
	RecentSales []domain.SaleRecordView `json:"recentSales"`
}

// SummaryService aggregates recent ledger records for the dashboard.
type SummaryService struct {
	saleRepo domain.SaleRepository
	logger   *slog.Logger
}

func NewSummaryService(saleRepo domain.SaleRepository, logger *slog.Logger) *SummaryService {
	return &SummaryService{
		saleRepo: saleRepo,
		logger:   logger.With("service_component", "SummaryService"),
	}
}

// Summarize reads up to limit most recent records and computes totals. An
// empty ledger is a valid result with zero totals; a repository fault is the
// only error path.
func (s *SummaryService) Summarize(ctx context.Context, limit int) (*DashboardSummary, error) {
	records, err := s.saleRepo.ListRecent(ctx, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load recent sales", "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to load recent sales: %w", err)
	}

	var revenue float64
	delivered := 0
	views := make([]domain.SaleRecordView, 0, len(records))
	for _, rec := range records {
		revenue += rec.Amount
		if rec.EmailDelivered {
			delivered++
		}
		views = append(views, domain.NewSaleRecordView(rec))
	}

	totals := SummaryTotals{
		TotalRevenue:         fmt.Sprintf("%.2f", revenue),
		TotalSales:           len(records),
		SuccessfulDeliveries: delivered,
		SuccessRate:          "0.0",
	}
	if totals.TotalSales > 0 {
		totals.SuccessRate = fmt.Sprintf("%.1f", float64(delivered)/float64(totals.TotalSales)*100)
	}

	return &DashboardSummary{Summary: totals, RecentSales: views}, nil
}
