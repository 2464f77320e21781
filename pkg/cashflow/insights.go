package cashflow

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

// Severity grades an insight
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Insight is one observation from the insights service
type Insight struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Severity Severity `json:"severity"`
}

// InsightReport is the insights service's review of the plan
type InsightReport struct {
	Insights        []Insight `json:"insights"`
	ResilienceScore int       `json:"resilienceScore"`
	// Fallback is set when the report was produced locally because the
	// service failed
	Fallback bool `json:"fallback,omitempty"`
}

type insightRequest struct {
	State   *State   `json:"state"`
	Summary *Summary `json:"summary"`
}

// FallbackReport is returned when the insights service is unavailable
func FallbackReport() *InsightReport {
	return &InsightReport{
		Insights: []Insight{{
			Title:    "Analysis unavailable",
			Content:  "Insights could not be loaded right now.",
			Severity: SeverityLow,
		}},
		Fallback: true,
	}
}

// insightService implements InsightService
type insightService struct {
	client *Client
}

// Generate posts the state and its summary. Failures are logged, reported
// and replaced by the fallback report; only a broken projection is returned
// as an error.
func (s *insightService) Generate(ctx context.Context, horizonDays int) (*InsightReport, error) {
	points, snapshot, err := (&projectionService{client: s.client}).generate(horizonDays)
	if err != nil {
		return nil, err
	}
	summary := Summarize(points, snapshot.InitialBalance, 0)

	if s.client.insightsAPI == nil {
		return FallbackReport(), nil
	}

	var report InsightReport
	req := &insightRequest{State: snapshot, Summary: &summary}
	if err := s.client.insightsAPI.Do(ctx, http.MethodPost, "/insights", nil, req, &report); err != nil {
		err = errors.Wrap(err, "failed to generate insights")
		s.client.logWarn("Insights unavailable", "error", err)
		s.client.captureError(ctx, "insights.generate", err)
		return FallbackReport(), nil
	}
	if report.Insights == nil {
		report.Insights = []Insight{}
	}
	return &report, nil
}
