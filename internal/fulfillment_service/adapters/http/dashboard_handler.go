package http

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	chi_middleware "github.com/go-chi/chi/v5/middleware"

	"github.com/cyrnelorigin/gumroad-automator/internal/fulfillment_service/app"
)

// SummaryProvider is the slice of the summary service the dashboard needs.
type SummaryProvider interface {
	Summarize(ctx context.Context, limit int) (*app.DashboardSummary, error)
}

type DashboardHandler struct {
	summaries   SummaryProvider
	logger      *slog.Logger
	accessKey   string
	recentLimit int
}

func NewDashboardHandler(summaries SummaryProvider, accessKey string, recentLimit int, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		summaries:   summaries,
		logger:      logger.With("handler", "dashboard"),
		accessKey:   accessKey,
		recentLimit: recentLimit,
	}
}

// HandleSummary serves the aggregated sales view. The pre-shared key in the
// query string is checked in constant time before any ledger read.
func (h *DashboardHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chi_middleware.GetReqID(ctx)
	logger := h.logger.With("request_id", requestID)

	key := r.URL.Query().Get("key")
	if subtle.ConstantTimeCompare([]byte(key), []byte(h.accessKey)) != 1 {
		logger.WarnContext(ctx, "Dashboard access rejected", "remote_addr", r.RemoteAddr)
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	summary, err := h.summaries.Summarize(ctx, h.recentLimit)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to build dashboard summary", "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}
