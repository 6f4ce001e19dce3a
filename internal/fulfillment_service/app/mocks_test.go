package app

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cyrnelorigin/gumroad-automator/internal/fulfillment_service/adapters/mailer"
	"github.com/cyrnelorigin/gumroad-automator/internal/fulfillment_service/domain"
)

type MockLLMClient struct {
	mock.Mock
}

func (m *MockLLMClient) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, msg mailer.EmailMessage) (*mailer.SendReceipt, error) {
	args := m.Called(ctx, msg)
	if receipt := args.Get(0); receipt != nil {
		return receipt.(*mailer.SendReceipt), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockReportProducer struct {
	mock.Mock
}

func (m *MockReportProducer) Generate(ctx context.Context, businessURL string) GenerationResult {
	args := m.Called(ctx, businessURL)
	return args.Get(0).(GenerationResult)
}

type MockAuditDeliverer struct {
	mock.Mock
}

func (m *MockAuditDeliverer) Deliver(ctx context.Context, email, businessURL, report, orderID string) DeliveryOutcome {
	args := m.Called(ctx, email, businessURL, report, orderID)
	return args.Get(0).(DeliveryOutcome)
}

type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) Upsert(ctx context.Context, record *domain.SaleRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockSaleRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.SaleRecord, error) {
	args := m.Called(ctx, orderID)
	if record := args.Get(0); record != nil {
		return record.(*domain.SaleRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSaleRepository) ListRecent(ctx context.Context, limit int) ([]*domain.SaleRecord, error) {
	args := m.Called(ctx, limit)
	if records := args.Get(0); records != nil {
		return records.([]*domain.SaleRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}
