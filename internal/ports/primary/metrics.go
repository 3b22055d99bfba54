package primary

import (
	"context"

	"github.com/example/sentinel/internal/core/metrics"
)

// AnalysisOverview bundles the derived dashboard metrics.
type AnalysisOverview struct {
	EvaluationCount int
	LatestSections  []metrics.SectionCompliance
	Trend           []metrics.TrendPoint
	TopFailures     []metrics.Failure
	Distribution    []metrics.StatusCount
	Effectiveness   []metrics.ResponsibleStats
}

// MetricsService computes read-only derivations over the persisted
// history. Requires analysis:read.
type MetricsService interface {
	Overview(ctx context.Context) (*AnalysisOverview, error)
}
