// Package metrics contains the pure read-only derivations feeding the
// analysis views. Every function operates on already-loaded history and
// holds no state of its own.
package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/example/sentinel/internal/core/action"
	"github.com/example/sentinel/internal/core/checklist"
	"github.com/example/sentinel/internal/core/evaluation"
)

// SectionCompliance is the rounded compliance of one scored section of
// the latest evaluation.
type SectionCompliance struct {
	SectionID string
	Title     string
	Percent   int
}

// ComplianceBySection derives per-section compliance from the most
// recent completed evaluation. Sections without a score (not fully
// answered at finalize time) are omitted.
func ComplianceBySection(latest *evaluation.Completed, sections []checklist.Section) []SectionCompliance {
	if latest == nil {
		return nil
	}
	var out []SectionCompliance
	for _, section := range sections {
		score, ok := latest.Scores[section.ID]
		if !ok || score.Total == 0 {
			continue
		}
		out = append(out, SectionCompliance{
			SectionID: section.ID,
			Title:     section.Title,
			Percent:   int(math.Round(float64(score.Score) / float64(score.Total) * 100)),
		})
	}
	return out
}

// TrendPoint pairs an evaluation with its overall compliance.
type TrendPoint struct {
	EvaluationID string
	CreatedAt    time.Time
	Compliance   float64
}

// Trend returns the last n completed evaluations ordered by creation
// time ascending. The input is assumed already ordered ascending, as the
// evaluation store lists them.
func Trend(evals []*evaluation.Completed, n int) []TrendPoint {
	if len(evals) > n {
		evals = evals[len(evals)-n:]
	}
	out := make([]TrendPoint, 0, len(evals))
	for _, ev := range evals {
		out = append(out, TrendPoint{
			EvaluationID: ev.ID,
			CreatedAt:    ev.CreatedAt,
			Compliance:   ev.Compliance,
		})
	}
	return out
}

// Failure is one recurring non-compliant question.
type Failure struct {
	SectionID     string
	QuestionIndex int
	QuestionText  string
	Count         int
}

// TopFailures counts No answers per question across all completed
// evaluations and returns the k most frequent. Ties keep
// first-encountered order (evaluation order, then section order, then
// question order).
func TopFailures(evals []*evaluation.Completed, sections []checklist.Section, k int) []Failure {
	index := map[string]int{}
	var failures []Failure

	for _, ev := range evals {
		for _, section := range sections {
			answers := ev.Answers[section.ID]
			for qi, a := range answers {
				if a != evaluation.AnswerNo {
					continue
				}
				key := evaluation.QuestionKey(section.ID, qi)
				if pos, ok := index[key]; ok {
					failures[pos].Count++
					continue
				}
				text := ""
				if qi < len(section.Questions) {
					text = section.Questions[qi]
				}
				index[key] = len(failures)
				failures = append(failures, Failure{
					SectionID:     section.ID,
					QuestionIndex: qi,
					QuestionText:  text,
					Count:         1,
				})
			}
		}
	}

	sort.SliceStable(failures, func(i, j int) bool {
		return failures[i].Count > failures[j].Count
	})
	if len(failures) > k {
		failures = failures[:k]
	}
	return failures
}

// ActionInfo is the slice of a corrective action the metrics need.
type ActionInfo struct {
	Status      action.Status
	Responsible string
}

// StatusCount is the number of current actions in one status.
type StatusCount struct {
	Status action.Status
	Count  int
}

// StatusDistribution counts actions per status, in status display
// order, omitting zero-count statuses.
func StatusDistribution(actions []ActionInfo) []StatusCount {
	counts := map[action.Status]int{}
	for _, a := range actions {
		counts[a.Status]++
	}
	var out []StatusCount
	for _, s := range action.AllStatuses() {
		if counts[s] > 0 {
			out = append(out, StatusCount{Status: s, Count: counts[s]})
		}
	}
	return out
}

// ResponsibleStats measures action effectiveness for one responsible
// party.
type ResponsibleStats struct {
	Name      string
	Total     int
	Completed int
	Percent   int
}

// EffectivenessByResponsible returns per-responsible completion stats
// for the limit parties with the most actions, descending by total.
// Ties keep first-encountered order.
func EffectivenessByResponsible(actions []ActionInfo, limit int) []ResponsibleStats {
	index := map[string]int{}
	var stats []ResponsibleStats

	for _, a := range actions {
		pos, ok := index[a.Responsible]
		if !ok {
			pos = len(stats)
			index[a.Responsible] = pos
			stats = append(stats, ResponsibleStats{Name: a.Responsible})
		}
		stats[pos].Total++
		if a.Status == action.StatusCompleted {
			stats[pos].Completed++
		}
	}

	for i := range stats {
		if stats[i].Total > 0 {
			stats[i].Percent = int(math.Round(float64(stats[i].Completed) / float64(stats[i].Total) * 100))
		}
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Total > stats[j].Total
	})
	if len(stats) > limit {
		stats = stats[:limit]
	}
	return stats
}
