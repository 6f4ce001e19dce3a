package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cyrnelorigin/gumroad-automator/internal/fulfillment_service/adapters/llm"
)

// auditPromptTemplate is the fixed analytical prompt. Both %s slots take the
// normalized business URL.
const auditPromptTemplate = `You are a senior digital strategy consultant. Prepare a concise business audit for the website %s.

Cover, in this order:
1. First impressions: positioning, clarity of the offer, trust signals.
2. SEO and discoverability: likely strengths and gaps for a site of this kind.
3. Conversion readiness: calls to action, contact paths, friction points.
4. Three quick wins the owner can implement within a week.

Write for the site owner of %s in a practical, direct tone. Plain text only, no markdown.`

// fallbackReportTemplate stands in whenever generation fails. Both %s slots
// take the business URL so the buyer always sees their own site named.
const fallbackReportTemplate = `Thank you for your purchase!

Your website audit for %s is being prepared. Our automated analysis is
temporarily unavailable, so one of our consultants will review %s personally
and send you the complete audit within 24 hours.

If you have any questions in the meantime, just reply to this email.`

// GenerationResult is the outcome of one report generation attempt.
// Generated is true whenever an attempt was made, fallback included.
type GenerationResult struct {
	Report    string
	Generated bool
	Fallback  bool
}

// ReportGenerator produces the audit text for a purchased website review.
type ReportGenerator struct {
	llmClient llm.Client
	logger    *slog.Logger
}

func NewReportGenerator(llmClient llm.Client, logger *slog.Logger) *ReportGenerator {
	return &ReportGenerator{
		llmClient: llmClient,
		logger:    logger.With("component", "report_generator"),
	}
}

// Generate asks the model for an audit of businessURL. Exactly one attempt;
// any failure substitutes the fallback report. Never returns an error, the
// sale pipeline must keep moving.
func (g *ReportGenerator) Generate(ctx context.Context, businessURL string) GenerationResult {
	prompt := fmt.Sprintf(auditPromptTemplate, businessURL, businessURL)

	start := time.Now()
	report, err := g.llmClient.Complete(ctx, prompt)
	providerRequestDurationHist.WithLabelValues("llm").Observe(time.Since(start).Seconds())

	if err != nil {
		g.logger.WarnContext(ctx, "Report generation failed, substituting fallback report", "business_url", businessURL, "error", err)
		reportGenerationCounter.WithLabelValues("fallback").Inc()
		return GenerationResult{
			Report:    fmt.Sprintf(fallbackReportTemplate, businessURL, businessURL),
			Generated: true,
			Fallback:  true,
		}
	}

	reportGenerationCounter.WithLabelValues("model").Inc()
	return GenerationResult{Report: report, Generated: true}
}
