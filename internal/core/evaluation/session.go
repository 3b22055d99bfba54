// Package evaluation contains the pure business logic for an audit
// evaluation: the mutable in-progress session, its answer/root-cause/
// draft-action protocol, and the scoring that turns a session into an
// immutable completed record.
package evaluation

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/sentinel/internal/core/action"
	"github.com/example/sentinel/internal/core/checklist"
)

// Answer is the value recorded for a single checklist question.
type Answer string

// Answer values. The zero value means the question has not been
// answered yet; lazily grown answer slices default to it.
const (
	AnswerNone Answer = ""
	AnswerYes  Answer = "yes"
	AnswerNo   Answer = "no"
)

// QuestionKey builds the session-scoped key for a question.
func QuestionKey(sectionID string, questionIndex int) string {
	return fmt.Sprintf("%s-%d", sectionID, questionIndex)
}

// RootCause is a Three-Whys record captured for a non-compliant answer.
// Why3 is the declared root cause.
type RootCause struct {
	Why1 string `json:"why1"`
	Why2 string `json:"why2"`
	Why3 string `json:"why3"`
}

// EvidenceRef points at an attachment held by the attachment store.
type EvidenceRef struct {
	ID       string `json:"id"`
	FileName string `json:"file_name"`
}

// ActionDraft is a not-yet-persisted corrective action proposal tied to
// one question of the active session.
type ActionDraft struct {
	SectionID     string          `json:"section_id"`
	QuestionIndex int             `json:"question_index"`
	QuestionText  string          `json:"question_text"`
	RootCause     RootCause       `json:"root_cause"`
	Description   string          `json:"description"`
	Responsible   string          `json:"responsible"`
	DueDate       string          `json:"due_date,omitempty"`
	Priority      action.Priority `json:"priority"`
	Tags          []string        `json:"tags,omitempty"`
}

// Session is the single mutable in-progress evaluation. It exists only
// until finalize or cancel; it is never written to the evaluation store.
type Session struct {
	ID         string                   `json:"id"`
	CreatedAt  time.Time                `json:"created_at"`
	Answers    map[string][]Answer      `json:"answers"`
	RootCauses map[string]RootCause     `json:"root_causes"`
	Drafts     map[string]ActionDraft   `json:"draft_actions"`
	Evidence   map[string][]EvidenceRef `json:"evidence"`
}

// NewSession creates an empty session.
func NewSession(id string, createdAt time.Time) *Session {
	return &Session{
		ID:         id,
		CreatedAt:  createdAt,
		Answers:    map[string][]Answer{},
		RootCauses: map[string]RootCause{},
		Drafts:     map[string]ActionDraft{},
		Evidence:   map[string][]EvidenceRef{},
	}
}

// Session protocol errors.
var (
	ErrQuestionOutOfRange = errors.New("question index out of range")
	ErrAnswerNotNo        = errors.New("question is not marked non-compliant")
	ErrNothingToSave      = errors.New("no section was fully answered")
)

// ensureAnswers grows the section's answer slice to the question count.
func (s *Session) ensureAnswers(section checklist.Section) []Answer {
	answers := s.Answers[section.ID]
	for len(answers) < len(section.Questions) {
		answers = append(answers, AnswerNone)
	}
	s.Answers[section.ID] = answers
	return answers
}

// RecordAnswer sets the answer for one question. Recording a Yes clears
// any committed root cause and draft action for that question; evidence
// is retained.
func (s *Session) RecordAnswer(section checklist.Section, questionIndex int, v Answer) error {
	if questionIndex < 0 || questionIndex >= len(section.Questions) {
		return ErrQuestionOutOfRange
	}
	answers := s.ensureAnswers(section)
	answers[questionIndex] = v

	if v == AnswerYes {
		key := QuestionKey(section.ID, questionIndex)
		delete(s.RootCauses, key)
		delete(s.Drafts, key)
	}
	return nil
}

// AnswerAt returns the current answer for a question, AnswerNone when
// the slot has not been touched.
func (s *Session) AnswerAt(sectionID string, questionIndex int) Answer {
	answers := s.Answers[sectionID]
	if questionIndex < 0 || questionIndex >= len(answers) {
		return AnswerNone
	}
	return answers[questionIndex]
}

// RecordRootCause stores or updates the Three-Whys record for a
// question. The question must currently be answered No.
func (s *Session) RecordRootCause(sectionID string, questionIndex int, rc RootCause) error {
	if s.AnswerAt(sectionID, questionIndex) != AnswerNo {
		return ErrAnswerNotNo
	}
	s.RootCauses[QuestionKey(sectionID, questionIndex)] = rc
	return nil
}

// RecordDraftAction commits the "No -> root cause -> action" protocol as
// one step: it marks the question No, stores the draft's root cause, and
// stores the draft itself atomically.
func (s *Session) RecordDraftAction(section checklist.Section, draft ActionDraft) error {
	if draft.QuestionIndex < 0 || draft.QuestionIndex >= len(section.Questions) {
		return ErrQuestionOutOfRange
	}
	answers := s.ensureAnswers(section)
	answers[draft.QuestionIndex] = AnswerNo

	key := QuestionKey(section.ID, draft.QuestionIndex)
	s.RootCauses[key] = draft.RootCause
	s.Drafts[key] = draft
	return nil
}

// RemoveDraftAction clears the draft action and its root cause for a
// question, used when the user reverts a No.
func (s *Session) RemoveDraftAction(sectionID string, questionIndex int) {
	key := QuestionKey(sectionID, questionIndex)
	delete(s.Drafts, key)
	delete(s.RootCauses, key)
}

// AddEvidence appends an attachment reference for a question. Evidence
// is unrestricted by answer state.
func (s *Session) AddEvidence(sectionID string, questionIndex int, ref EvidenceRef) {
	key := QuestionKey(sectionID, questionIndex)
	s.Evidence[key] = append(s.Evidence[key], ref)
}

// RemoveEvidence drops the attachment reference with the given id.
// Returns false when the reference was not present.
func (s *Session) RemoveEvidence(sectionID string, questionIndex int, attachmentID string) bool {
	key := QuestionKey(sectionID, questionIndex)
	refs := s.Evidence[key]
	for i, r := range refs {
		if r.ID == attachmentID {
			s.Evidence[key] = append(refs[:i:i], refs[i+1:]...)
			return true
		}
	}
	return false
}
