package app

import (
	"context"
	"fmt"

	"github.com/example/sentinel/internal/core/metrics"
	"github.com/example/sentinel/internal/ports/primary"
	"github.com/example/sentinel/internal/ports/secondary"
)

// Window sizes for the derived analysis views.
const (
	trendWindow        = 10
	topFailureCount    = 5
	effectivenessLimit = 8
)

// MetricsServiceImpl implements primary.MetricsService.
type MetricsServiceImpl struct {
	evals      secondary.EvaluationRepository
	actions    secondary.ActionRepository
	checklists primary.ChecklistService
}

// NewMetricsService creates a MetricsService with injected dependencies.
func NewMetricsService(
	evals secondary.EvaluationRepository,
	actions secondary.ActionRepository,
	checklists primary.ChecklistService,
) *MetricsServiceImpl {
	return &MetricsServiceImpl{evals: evals, actions: actions, checklists: checklists}
}

// Overview loads the persisted history and derives every dashboard
// metric from it.
func (s *MetricsServiceImpl) Overview(ctx context.Context) (*primary.AnalysisOverview, error) {
	sections, err := s.checklists.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load checklist definition: %w", err)
	}
	evals, err := s.evals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load evaluations: %w", err)
	}
	recs, err := s.actions.List(ctx, secondary.ActionFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to load actions: %w", err)
	}

	infos := make([]metrics.ActionInfo, 0, len(recs))
	for _, rec := range recs {
		infos = append(infos, metrics.ActionInfo{Status: rec.Status, Responsible: rec.Responsible})
	}

	overview := &primary.AnalysisOverview{
		EvaluationCount: len(evals),
		Trend:           metrics.Trend(evals, trendWindow),
		TopFailures:     metrics.TopFailures(evals, sections, topFailureCount),
		Distribution:    metrics.StatusDistribution(infos),
		Effectiveness:   metrics.EffectivenessByResponsible(infos, effectivenessLimit),
	}
	if len(evals) > 0 {
		overview.LatestSections = metrics.ComplianceBySection(evals[len(evals)-1], sections)
	}
	return overview, nil
}
