package app

import (
	"context"
	"testing"
	"time"

	"github.com/example/sentinel/internal/core/action"
	"github.com/example/sentinel/internal/core/evaluation"
	"github.com/example/sentinel/internal/ports/secondary"
)

func newTestMetricsService() (*MetricsServiceImpl, *mockEvaluationRepository, *mockActionRepository) {
	evals := newMockEvaluationRepository()
	actions := newMockActionRepository()
	checklists := NewChecklistService(&mockChecklistRepository{sections: testSections()})
	return NewMetricsService(evals, actions, checklists), evals, actions
}

func seedEvaluation(evals *mockEvaluationRepository, id string, createdAt time.Time, compliance float64, answers map[string][]evaluation.Answer) {
	evals.evals[id] = &evaluation.Completed{
		ID:         id,
		CreatedAt:  createdAt,
		Compliance: compliance,
		Scores: map[string]evaluation.SectionScore{
			"opening": {Score: 1, Total: 2},
		},
		Answers: answers,
	}
}

func TestOverview_Empty(t *testing.T) {
	service, _, _ := newTestMetricsService()

	overview, err := service.Overview(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if overview.EvaluationCount != 0 {
		t.Errorf("expected 0 evaluations, got %d", overview.EvaluationCount)
	}
	if overview.LatestSections != nil {
		t.Errorf("expected no latest sections, got %+v", overview.LatestSections)
	}
	if len(overview.Trend) != 0 {
		t.Errorf("expected empty trend, got %+v", overview.Trend)
	}
}

func TestOverview_UsesLatestEvaluation(t *testing.T) {
	service, evals, _ := newTestMetricsService()
	seedEvaluation(evals, "eval_a", testClock.AddDate(0, 0, -2), 50, map[string][]evaluation.Answer{
		"opening": {evaluation.AnswerNo, evaluation.AnswerYes},
	})
	seedEvaluation(evals, "eval_b", testClock.AddDate(0, 0, -1), 75, map[string][]evaluation.Answer{
		"opening": {evaluation.AnswerNo, evaluation.AnswerYes},
	})

	overview, err := service.Overview(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if overview.EvaluationCount != 2 {
		t.Errorf("expected 2 evaluations, got %d", overview.EvaluationCount)
	}
	if len(overview.LatestSections) != 1 || overview.LatestSections[0].Percent != 50 {
		t.Errorf("unexpected latest sections %+v", overview.LatestSections)
	}
	if len(overview.Trend) != 2 || overview.Trend[1].EvaluationID != "eval_b" {
		t.Errorf("expected ascending trend ending at eval_b, got %+v", overview.Trend)
	}
	if len(overview.TopFailures) != 1 || overview.TopFailures[0].Count != 2 {
		t.Errorf("expected opening-0 failed twice, got %+v", overview.TopFailures)
	}
}

func TestOverview_ActionMetrics(t *testing.T) {
	service, _, actions := newTestMetricsService()
	ctx := context.Background()
	seed := []struct {
		id          string
		status      action.Status
		responsible string
	}{
		{"act_1", action.StatusCompleted, "Dana"},
		{"act_2", action.StatusCompleted, "Dana"},
		{"act_3", action.StatusInProgress, "Dana"},
		{"act_4", action.StatusNew, "Sam"},
	}
	for _, s := range seed {
		actions.Create(ctx, &secondary.ActionRecord{
			ID:          s.id,
			Status:      s.status,
			Responsible: s.responsible,
		}, &secondary.HistoryRecord{ActionID: s.id, Status: action.StatusNew})
	}

	overview, err := service.Overview(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Display order: new, in_progress, completed (zero counts omitted).
	wantDist := map[action.Status]int{
		action.StatusNew:        1,
		action.StatusInProgress: 1,
		action.StatusCompleted:  2,
	}
	if len(overview.Distribution) != len(wantDist) {
		t.Fatalf("unexpected distribution %+v", overview.Distribution)
	}
	for _, sc := range overview.Distribution {
		if wantDist[sc.Status] != sc.Count {
			t.Errorf("status %q: expected %d, got %d", sc.Status, wantDist[sc.Status], sc.Count)
		}
	}

	if len(overview.Effectiveness) != 2 {
		t.Fatalf("expected 2 responsible parties, got %+v", overview.Effectiveness)
	}
	dana := overview.Effectiveness[0]
	if dana.Name != "Dana" || dana.Total != 3 || dana.Completed != 2 || dana.Percent != 67 {
		t.Errorf("unexpected stats for Dana: %+v", dana)
	}
}
