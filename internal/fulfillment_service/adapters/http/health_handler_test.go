package http_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	adapterhttp "github.com/cyrnelorigin/gumroad-automator/internal/fulfillment_service/adapters/http"
)

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestHealthHandler_HandleHealthz_OK(t *testing.T) {
	mockDB := new(MockPinger)
	mockDB.On("Ping", mock.Anything).Return(nil).Once()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := adapterhttp.NewHealthHandler(mockDB, logger)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()

	handler.HandleHealthz(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestHealthHandler_HandleHealthz_Degraded(t *testing.T) {
	mockDB := new(MockPinger)
	mockDB.On("Ping", mock.Anything).Return(errors.New("connection refused")).Once()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := adapterhttp.NewHealthHandler(mockDB, logger)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()

	handler.HandleHealthz(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.JSONEq(t, `{"status":"degraded"}`, rr.Body.String())
}
