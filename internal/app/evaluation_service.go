package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/example/sentinel/internal/core/action"
	"github.com/example/sentinel/internal/core/checklist"
	"github.com/example/sentinel/internal/core/evaluation"
	"github.com/example/sentinel/internal/ports/primary"
	"github.com/example/sentinel/internal/ports/secondary"
)

// createdComment is the history comment written for every action born
// from a finalized evaluation.
const createdComment = "action created"

// EvaluationServiceImpl implements primary.EvaluationService.
type EvaluationServiceImpl struct {
	sessions    secondary.SessionStore
	evals       secondary.EvaluationRepository
	attachments secondary.AttachmentRepository
	checklists  primary.ChecklistService
	now         func() time.Time
	newID       func(prefix string) string
}

// NewEvaluationService creates an EvaluationService with injected
// dependencies.
func NewEvaluationService(
	sessions secondary.SessionStore,
	evals secondary.EvaluationRepository,
	attachments secondary.AttachmentRepository,
	checklists primary.ChecklistService,
) *EvaluationServiceImpl {
	return &EvaluationServiceImpl{
		sessions:    sessions,
		evals:       evals,
		attachments: attachments,
		checklists:  checklists,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       newID,
	}
}

func (s *EvaluationServiceImpl) sections(ctx context.Context) ([]checklist.Section, error) {
	sections, err := s.checklists.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load checklist definition: %w", err)
	}
	return sections, nil
}

func (s *EvaluationServiceImpl) activeSession() (*evaluation.Session, error) {
	session, err := s.sessions.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load active evaluation: %w", err)
	}
	if session == nil {
		return nil, NewNotFoundError("no evaluation in progress")
	}
	return session, nil
}

// Start creates a new active session, rejecting when one exists unless
// discard is set.
func (s *EvaluationServiceImpl) Start(ctx context.Context, discard bool) (*evaluation.Session, error) {
	existing, err := s.sessions.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load active evaluation: %w", err)
	}
	if existing != nil && !discard {
		return nil, NewConflictError("an evaluation is already in progress")
	}

	session := evaluation.NewSession(s.newID("eval"), s.now())
	if err := s.sessions.Save(session); err != nil {
		return nil, fmt.Errorf("failed to save active evaluation: %w", err)
	}
	return session, nil
}

// Active returns the current session, nil when none exists.
func (s *EvaluationServiceImpl) Active(ctx context.Context) (*evaluation.Session, error) {
	return s.sessions.Load()
}

// Cancel discards the active session.
func (s *EvaluationServiceImpl) Cancel(ctx context.Context) error {
	return s.sessions.Clear()
}

// withSession loads the active session, applies fn, and saves it back.
func (s *EvaluationServiceImpl) withSession(fn func(*evaluation.Session) error) error {
	session, err := s.activeSession()
	if err != nil {
		return err
	}
	if err := fn(session); err != nil {
		return err
	}
	if err := s.sessions.Save(session); err != nil {
		return fmt.Errorf("failed to save active evaluation: %w", err)
	}
	return nil
}

// mapSessionErr converts core protocol errors into typed rejections.
func mapSessionErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, evaluation.ErrQuestionOutOfRange):
		return NewInvalidError("question index out of range")
	case errors.Is(err, evaluation.ErrAnswerNotNo):
		return NewInvalidError("the question is not answered No")
	default:
		return err
	}
}

// RecordAnswer sets one answer on the active session.
func (s *EvaluationServiceImpl) RecordAnswer(ctx context.Context, sectionID string, questionIndex int, value evaluation.Answer) error {
	sections, err := s.sections(ctx)
	if err != nil {
		return err
	}
	section, ok := checklist.SectionByID(sections, sectionID)
	if !ok {
		return NewInvalidError(fmt.Sprintf("unknown section %q", sectionID))
	}
	return s.withSession(func(session *evaluation.Session) error {
		return mapSessionErr(session.RecordAnswer(section, questionIndex, value))
	})
}

// RecordRootCause stores the Three-Whys record for a No-answered
// question.
func (s *EvaluationServiceImpl) RecordRootCause(ctx context.Context, sectionID string, questionIndex int, rc evaluation.RootCause) error {
	return s.withSession(func(session *evaluation.Session) error {
		return mapSessionErr(session.RecordRootCause(sectionID, questionIndex, rc))
	})
}

// RecordDraftAction commits the No/root-cause/draft protocol in one
// step.
func (s *EvaluationServiceImpl) RecordDraftAction(ctx context.Context, draft evaluation.ActionDraft) error {
	sections, err := s.sections(ctx)
	if err != nil {
		return err
	}
	section, ok := checklist.SectionByID(sections, draft.SectionID)
	if !ok {
		return NewInvalidError(fmt.Sprintf("unknown section %q", draft.SectionID))
	}
	if draft.Description == "" {
		return NewInvalidError("action description is required")
	}
	if draft.Responsible == "" {
		return NewInvalidError("action responsible is required")
	}
	if draft.Priority == "" {
		draft.Priority = action.PriorityMedium
	}
	if !action.ValidPriority(draft.Priority) {
		return NewInvalidError(fmt.Sprintf("unknown priority %q", draft.Priority))
	}
	if draft.QuestionText == "" && draft.QuestionIndex >= 0 && draft.QuestionIndex < len(section.Questions) {
		draft.QuestionText = section.Questions[draft.QuestionIndex]
	}
	return s.withSession(func(session *evaluation.Session) error {
		return mapSessionErr(session.RecordDraftAction(section, draft))
	})
}

// RemoveDraftAction clears the draft action and root cause for a
// question.
func (s *EvaluationServiceImpl) RemoveDraftAction(ctx context.Context, sectionID string, questionIndex int) error {
	return s.withSession(func(session *evaluation.Session) error {
		session.RemoveDraftAction(sectionID, questionIndex)
		return nil
	})
}

// AddEvidence stores the attachment blob and links its reference to the
// question.
func (s *EvaluationServiceImpl) AddEvidence(ctx context.Context, sectionID string, questionIndex int, fileName, fileType string, data []byte) (*evaluation.EvidenceRef, error) {
	session, err := s.activeSession()
	if err != nil {
		return nil, err
	}

	ref := evaluation.EvidenceRef{ID: s.newID("att"), FileName: fileName}
	parentID := session.ID + "-" + evaluation.QuestionKey(sectionID, questionIndex)
	att := &secondary.AttachmentRecord{
		ID:       ref.ID,
		ParentID: parentID,
		FileName: fileName,
		FileType: fileType,
		Data:     data,
	}
	if err := s.attachments.Put(ctx, att); err != nil {
		return nil, fmt.Errorf("failed to store attachment: %w", err)
	}

	session.AddEvidence(sectionID, questionIndex, ref)
	if err := s.sessions.Save(session); err != nil {
		return nil, fmt.Errorf("failed to save active evaluation: %w", err)
	}
	return &ref, nil
}

// RemoveEvidence unlinks the reference and deletes the stored blob.
func (s *EvaluationServiceImpl) RemoveEvidence(ctx context.Context, sectionID string, questionIndex int, attachmentID string) error {
	session, err := s.activeSession()
	if err != nil {
		return err
	}
	if !session.RemoveEvidence(sectionID, questionIndex, attachmentID) {
		return NewNotFoundError(fmt.Sprintf("attachment %s not found on that question", attachmentID))
	}
	if err := s.sessions.Save(session); err != nil {
		return fmt.Errorf("failed to save active evaluation: %w", err)
	}
	if err := s.attachments.Delete(ctx, attachmentID); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	return nil
}

// IsComplete reports whether the active session can be finished.
func (s *EvaluationServiceImpl) IsComplete(ctx context.Context) (bool, error) {
	session, err := s.sessions.Load()
	if err != nil || session == nil {
		return false, err
	}
	sections, err := s.sections(ctx)
	if err != nil {
		return false, err
	}
	return session.IsComplete(sections), nil
}

// Finish scores the session, persists the completed evaluation together
// with the drafted corrective actions as one unit, and discards the
// session. On any failure the session is left untouched for retry.
func (s *EvaluationServiceImpl) Finish(ctx context.Context, actor string) (*evaluation.Completed, error) {
	session, err := s.activeSession()
	if err != nil {
		return nil, err
	}
	sections, err := s.sections(ctx)
	if err != nil {
		return nil, err
	}

	result, err := session.ComputeResult(sections)
	if errors.Is(err, evaluation.ErrNothingToSave) {
		return nil, NewInvalidError("nothing to save: no section was fully answered")
	}
	if err != nil {
		return nil, err
	}
	completed := session.Snapshot(result)

	// Deterministic creation order for the drafted actions.
	keys := make([]string, 0, len(session.Drafts))
	for k := range session.Drafts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	now := s.now()
	actions := make([]*secondary.ActionRecord, 0, len(keys))
	entries := make([]*secondary.HistoryRecord, 0, len(keys))
	for _, key := range keys {
		draft := session.Drafts[key]
		rc := draft.RootCause
		var evidenceIDs []string
		for _, ref := range session.Evidence[key] {
			evidenceIDs = append(evidenceIDs, ref.ID)
		}
		rec := &secondary.ActionRecord{
			ID:            s.newID("act"),
			EvaluationID:  session.ID,
			SectionID:     draft.SectionID,
			QuestionIndex: draft.QuestionIndex,
			QuestionText:  draft.QuestionText,
			RootCause:     &rc,
			Description:   draft.Description,
			Responsible:   draft.Responsible,
			DueDate:       draft.DueDate,
			Priority:      draft.Priority,
			Status:        action.StatusNew,
			EvidenceIDs:   evidenceIDs,
			Tags:          draft.Tags,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		actions = append(actions, rec)
		entries = append(entries, &secondary.HistoryRecord{
			ActionID:  rec.ID,
			Status:    action.StatusNew,
			Comment:   createdComment,
			ChangedBy: actor,
			Timestamp: now,
		})
	}

	if err := s.evals.SaveWithActions(ctx, completed, actions, entries); err != nil {
		return nil, fmt.Errorf("failed to save evaluation: %w", err)
	}

	if err := s.sessions.Clear(); err != nil {
		return nil, fmt.Errorf("evaluation saved but failed to clear the active session: %w", err)
	}
	return completed, nil
}

// List returns completed evaluations ordered by creation time ascending.
func (s *EvaluationServiceImpl) List(ctx context.Context) ([]*evaluation.Completed, error) {
	return s.evals.List(ctx)
}

// Get returns one completed evaluation.
func (s *EvaluationServiceImpl) Get(ctx context.Context, id string) (*evaluation.Completed, error) {
	ev, err := s.evals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, NewNotFoundError(fmt.Sprintf("evaluation %s not found", id))
	}
	return ev, nil
}

// Delete removes completed evaluations with full cascade.
func (s *EvaluationServiceImpl) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.evals.Delete(ctx, ids)
}
