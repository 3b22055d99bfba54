package evaluation

import (
	"time"

	"github.com/example/sentinel/internal/core/checklist"
)

// SectionScore is the yes-count over question-count of one fully
// answered section.
type SectionScore struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

// Completed is an immutable finished evaluation. Only fully answered
// sections are scored; the answer snapshot keeps every recorded answer
// for audit purposes regardless of qualification.
type Completed struct {
	ID         string                   `json:"id"`
	CreatedAt  time.Time                `json:"created_at"`
	Scores     map[string]SectionScore  `json:"scores"`
	Compliance float64                  `json:"compliance"`
	Answers    map[string][]Answer      `json:"answers"`
	RootCauses map[string]RootCause     `json:"root_causes,omitempty"`
	Evidence   map[string][]EvidenceRef `json:"evidence,omitempty"`
}

// sectionComplete reports whether every question of the section has a
// Yes or No answer.
func sectionComplete(answers []Answer, questionCount int) bool {
	if len(answers) != questionCount {
		return false
	}
	for _, a := range answers {
		if a == AnswerNone {
			return false
		}
	}
	return true
}

// IsComplete reports whether at least one section is fully answered.
// Completion is evaluated per section, not globally.
func (s *Session) IsComplete(sections []checklist.Section) bool {
	for _, section := range sections {
		if sectionComplete(s.Answers[section.ID], len(section.Questions)) {
			return true
		}
	}
	return false
}

// Result is the scoring outcome of a session.
type Result struct {
	Scores     map[string]SectionScore
	Compliance float64
}

// ComputeResult scores the session against the checklist definition.
// Sections that are not fully answered are excluded from scoring
// entirely. Returns ErrNothingToSave when no section qualifies.
func (s *Session) ComputeResult(sections []checklist.Section) (*Result, error) {
	scores := map[string]SectionScore{}
	totalAnswered := 0
	totalYes := 0

	for _, section := range sections {
		answers := s.Answers[section.ID]
		if !sectionComplete(answers, len(section.Questions)) {
			continue
		}
		yes := 0
		for _, a := range answers {
			if a == AnswerYes {
				yes++
			}
		}
		scores[section.ID] = SectionScore{Score: yes, Total: len(section.Questions)}
		totalAnswered += len(section.Questions)
		totalYes += yes
	}

	if len(scores) == 0 {
		return nil, ErrNothingToSave
	}

	compliance := 0.0
	if totalAnswered > 0 {
		compliance = float64(totalYes) / float64(totalAnswered) * 100
	}
	return &Result{Scores: scores, Compliance: compliance}, nil
}

// Snapshot freezes the session into a Completed record using the given
// result. The raw answer/root-cause/evidence maps are copied so later
// session mutation cannot leak into the record.
func (s *Session) Snapshot(result *Result) *Completed {
	answers := make(map[string][]Answer, len(s.Answers))
	for id, a := range s.Answers {
		answers[id] = append([]Answer(nil), a...)
	}
	rootCauses := make(map[string]RootCause, len(s.RootCauses))
	for k, rc := range s.RootCauses {
		rootCauses[k] = rc
	}
	evidence := make(map[string][]EvidenceRef, len(s.Evidence))
	for k, refs := range s.Evidence {
		evidence[k] = append([]EvidenceRef(nil), refs...)
	}

	return &Completed{
		ID:         s.ID,
		CreatedAt:  s.CreatedAt,
		Scores:     result.Scores,
		Compliance: result.Compliance,
		Answers:    answers,
		RootCauses: rootCauses,
		Evidence:   evidence,
	}
}
