package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	chi_middleware "github.com/go-chi/chi/v5/middleware" // For GetReqID

	"github.com/cyrnelorigin/gumroad-automator/internal/fulfillment_service/app"
)

const MaxRequestBodySize = 1 << 20 // 1 MB

// SaleProcessor is the slice of the intake service the webhook needs.
// Keeping it an interface lets tests substitute a mock pipeline.
type SaleProcessor interface {
	ProcessSaleNotification(ctx context.Context, rawBody []byte) (*app.IntakeResult, error)
}

type WebhookHandler struct {
	intake SaleProcessor
	logger *slog.Logger
}

func NewWebhookHandler(intake SaleProcessor, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		intake: intake,
		logger: logger.With("handler", "sale_webhook"),
	}
}

// HandleSaleWebhook receives form-encoded sale notifications from the
// payment platform. Anything but POST is rejected before any side effect;
// a parseable notification always gets a 200 whose success flag reflects
// the email delivery outcome.
func (h *WebhookHandler) HandleSaleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chi_middleware.GetReqID(ctx)
	logger := h.logger.With("request_id", requestID)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "Method not allowed for sale webhook", "method", r.Method)
		respondWithError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
	rawBody, err := io.ReadAll(r.Body)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to read sale webhook body", "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to process sale")
		return
	}

	logger.InfoContext(ctx, "Received sale webhook",
		"remote_addr", r.RemoteAddr,
		"payload_size", len(rawBody))

	result, err := h.intake.ProcessSaleNotification(ctx, rawBody)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to process sale notification", "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to process sale")
		return
	}

	respondWithJSON(w, http.StatusOK, SaleWebhookResponse{
		Success: result.Delivered,
		Message: "sale processed",
		OrderID: result.OrderID,
	})
}

// Helper to respond with JSON
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			slog.Default().Error("Failed to write JSON response", "error", err)
		}
	}
}

// Helper to respond with an error
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
