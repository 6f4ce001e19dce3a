package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/cyrnelorigin/gumroad-automator/internal/fulfillment_service/domain"
)

// ReportProducer yields the audit text for a business website.
type ReportProducer interface {
	Generate(ctx context.Context, businessURL string) GenerationResult
}

// AuditDeliverer emails the audit and reports the outcome.
type AuditDeliverer interface {
	Deliver(ctx context.Context, email, businessURL, report, orderID string) DeliveryOutcome
}

// EventPublisher publishes domain events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// IntakeResult is what the webhook response is built from.
type IntakeResult struct {
	OrderID   string
	Delivered bool
}

// IntakeService runs the sale pipeline: parse the platform notification,
// generate the audit, email it, record the sale, publish the event.
type IntakeService struct {
	producer        ReportProducer
	deliverer       AuditDeliverer
	saleRepo        domain.SaleRepository
	publisher       EventPublisher
	logger          *slog.Logger
	defaultCurrency string
	nowFunc         func() time.Time
}

func NewIntakeService(
	producer ReportProducer,
	deliverer AuditDeliverer,
	saleRepo domain.SaleRepository,
	publisher EventPublisher,
	defaultCurrency string,
	logger *slog.Logger,
) *IntakeService {
	return &IntakeService{
		producer:        producer,
		deliverer:       deliverer,
		saleRepo:        saleRepo,
		publisher:       publisher,
		logger:          logger.With("service_component", "IntakeService"),
		defaultCurrency: defaultCurrency,
		nowFunc:         time.Now,
	}
}

// ProcessSaleNotification handles one form-encoded sale ping end to end.
// The only error it returns is an undecodable body; generation, delivery,
// ledger and event failures are absorbed per stage so the platform always
// gets an answer for a parseable notification.
func (s *IntakeService) ProcessSaleNotification(ctx context.Context, rawBody []byte) (*IntakeResult, error) {
	start := time.Now()

	values, err := url.ParseQuery(string(rawBody))
	if err != nil {
		salesProcessedCounter.WithLabelValues("parse_error").Inc()
		s.logger.ErrorContext(ctx, "Failed to decode sale notification body", "error", err)
		return nil, fmt.Errorf("failed to decode sale notification: %w", err)
	}

	n := domain.ParseSaleNotification(values, s.defaultCurrency, s.nowFunc())
	s.logger.InfoContext(ctx, "Processing sale notification",
		"order_id", n.OrderID, "business_url", n.BusinessURL, "amount", n.Amount, "currency", n.Currency)

	generation := s.producer.Generate(ctx, n.BusinessURL)
	outcome := s.deliverer.Deliver(ctx, n.Email, n.BusinessURL, generation.Report, n.OrderID)

	record := domain.NewSaleRecord(n, generation.Generated, outcome.Delivered)
	if err := s.saleRepo.Upsert(ctx, record); err != nil {
		// Best effort: the buyer already has their audit, the response must
		// still reflect the delivery outcome.
		ledgerWriteCounter.WithLabelValues("failed").Inc()
		s.logger.ErrorContext(ctx, "Failed to record sale in ledger", "order_id", n.OrderID, "error", err)
	} else {
		ledgerWriteCounter.WithLabelValues("ok").Inc()
		s.publishSaleRecorded(ctx, record)
	}

	salesProcessedCounter.WithLabelValues("processed").Inc()
	pipelineDurationHist.Observe(time.Since(start).Seconds())

	s.logger.InfoContext(ctx, "Sale notification processed",
		"order_id", n.OrderID, "delivered", outcome.Delivered, "fallback_report", generation.Fallback)
	return &IntakeResult{OrderID: n.OrderID, Delivered: outcome.Delivered}, nil
}

func (s *IntakeService) publishSaleRecorded(ctx context.Context, record *domain.SaleRecord) {
	if s.publisher == nil {
		s.logger.WarnContext(ctx, "Event publisher not configured, skipping sale.recorded publish", "order_id", record.OrderID)
		return
	}

	event := domain.SaleRecordedEvent{
		EventID:        uuid.NewString(),
		OrderID:        record.OrderID,
		BusinessURL:    record.BusinessURL,
		Amount:         record.Amount,
		Currency:       record.Currency,
		AuditGenerated: record.AuditGenerated,
		EmailDelivered: record.EmailDelivered,
		OccurredAt:     s.nowFunc().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to marshal sale.recorded event", "order_id", record.OrderID, "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, domain.SubjectSaleRecorded, payload); err != nil {
		eventPublishCounter.WithLabelValues("failed").Inc()
		s.logger.ErrorContext(ctx, "Failed to publish sale.recorded event", "order_id", record.OrderID, "error", err)
		return
	}
	eventPublishCounter.WithLabelValues("ok").Inc()
}
