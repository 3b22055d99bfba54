package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/sentinel/internal/core/action"
	"github.com/example/sentinel/internal/ports/primary"
	"github.com/example/sentinel/internal/ports/secondary"
)

// ActionServiceImpl implements primary.ActionService.
type ActionServiceImpl struct {
	actions     secondary.ActionRepository
	attachments secondary.AttachmentRepository
	now         func() time.Time
	newID       func(prefix string) string
}

// NewActionService creates an ActionService with injected dependencies.
func NewActionService(actions secondary.ActionRepository, attachments secondary.AttachmentRepository) *ActionServiceImpl {
	return &ActionServiceImpl{
		actions:     actions,
		attachments: attachments,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       newID,
	}
}

// toPort converts a stored record to the port representation, deriving
// the overdue flag from the clock.
func (s *ActionServiceImpl) toPort(rec *secondary.ActionRecord) *primary.Action {
	return &primary.Action{
		ID:            rec.ID,
		EvaluationID:  rec.EvaluationID,
		SectionID:     rec.SectionID,
		QuestionIndex: rec.QuestionIndex,
		QuestionText:  rec.QuestionText,
		RootCause:     rec.RootCause,
		Description:   rec.Description,
		Responsible:   rec.Responsible,
		DueDate:       rec.DueDate,
		Priority:      rec.Priority,
		Status:        rec.Status,
		Overdue:       action.IsOverdue(rec.DueDate, rec.Status, s.now()),
		EvidenceIDs:   rec.EvidenceIDs,
		Tags:          rec.Tags,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
}

// Create persists a manually created action in status new.
func (s *ActionServiceImpl) Create(ctx context.Context, req primary.CreateActionRequest) (*primary.Action, error) {
	if req.Description == "" {
		return nil, NewInvalidError("action description is required")
	}
	if req.Responsible == "" {
		return nil, NewInvalidError("action responsible is required")
	}
	if req.Priority == "" {
		req.Priority = action.PriorityMedium
	}
	if !action.ValidPriority(req.Priority) {
		return nil, NewInvalidError(fmt.Sprintf("unknown priority %q", req.Priority))
	}
	if req.DueDate != "" {
		if _, err := time.Parse(action.DueDateLayout, req.DueDate); err != nil {
			return nil, NewInvalidError(fmt.Sprintf("invalid due date %q, expected YYYY-MM-DD", req.DueDate))
		}
	}

	now := s.now()
	rec := &secondary.ActionRecord{
		ID:            s.newID("act"),
		QuestionIndex: -1,
		QuestionText:  req.QuestionText,
		Description:   req.Description,
		Responsible:   req.Responsible,
		DueDate:       req.DueDate,
		Priority:      req.Priority,
		Status:        action.StatusNew,
		Tags:          req.Tags,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	first := &secondary.HistoryRecord{
		ActionID:  rec.ID,
		Status:    action.StatusNew,
		Comment:   createdComment,
		ChangedBy: req.Actor,
		Timestamp: now,
	}
	if err := s.actions.Create(ctx, rec, first); err != nil {
		return nil, fmt.Errorf("failed to create action: %w", err)
	}
	return s.toPort(rec), nil
}

func (s *ActionServiceImpl) getRecord(ctx context.Context, id string) (*secondary.ActionRecord, error) {
	rec, err := s.actions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, NewNotFoundError(fmt.Sprintf("action %s not found", id))
	}
	return rec, nil
}

// Get retrieves one action.
func (s *ActionServiceImpl) Get(ctx context.Context, id string) (*primary.Action, error) {
	rec, err := s.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toPort(rec), nil
}

// List retrieves actions matching the filters.
func (s *ActionServiceImpl) List(ctx context.Context, filters primary.ActionFilters) ([]*primary.Action, error) {
	if filters.Status != "" && !action.ValidStatus(action.Status(filters.Status)) {
		return nil, NewInvalidError(fmt.Sprintf("unknown status %q", filters.Status))
	}
	if filters.Priority != "" && !action.ValidPriority(action.Priority(filters.Priority)) {
		return nil, NewInvalidError(fmt.Sprintf("unknown priority %q", filters.Priority))
	}
	recs, err := s.actions.List(ctx, secondary.ActionFilters{
		Status:       filters.Status,
		Responsible:  filters.Responsible,
		Priority:     filters.Priority,
		EvaluationID: filters.EvaluationID,
	})
	if err != nil {
		return nil, err
	}
	out := make([]*primary.Action, 0, len(recs))
	for _, rec := range recs {
		out = append(out, s.toPort(rec))
	}
	return out, nil
}

// ValidNextStatuses returns the permitted transitions for the action's
// current status.
func (s *ActionServiceImpl) ValidNextStatuses(ctx context.Context, id string) ([]action.Status, error) {
	rec, err := s.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return action.ValidNextStates(rec.Status), nil
}

// ChangeStatus applies a validated transition and appends a history
// entry atomically.
func (s *ActionServiceImpl) ChangeStatus(ctx context.Context, id string, newStatus action.Status, actor, comment string) error {
	if !action.ValidStatus(newStatus) {
		return NewInvalidError(fmt.Sprintf("unknown status %q", newStatus))
	}
	rec, err := s.getRecord(ctx, id)
	if err != nil {
		return err
	}
	if guard := action.CanTransition(rec.Status, newStatus); !guard.Allowed {
		return NewInvalidError(guard.Reason)
	}

	now := s.now()
	entry := &secondary.HistoryRecord{
		ActionID:  id,
		Status:    newStatus,
		Comment:   comment,
		ChangedBy: actor,
		Timestamp: now,
	}
	if err := s.actions.UpdateStatus(ctx, id, newStatus, now, entry); err != nil {
		return fmt.Errorf("failed to update action status: %w", err)
	}
	return nil
}

// Update rewrites an action's editable fields. The status is untouched;
// transitions go through ChangeStatus.
func (s *ActionServiceImpl) Update(ctx context.Context, req primary.UpdateActionRequest) error {
	if req.Description == "" {
		return NewInvalidError("action description is required")
	}
	if req.Responsible == "" {
		return NewInvalidError("action responsible is required")
	}
	if !action.ValidPriority(req.Priority) {
		return NewInvalidError(fmt.Sprintf("unknown priority %q", req.Priority))
	}
	if req.DueDate != "" {
		if _, err := time.Parse(action.DueDateLayout, req.DueDate); err != nil {
			return NewInvalidError(fmt.Sprintf("invalid due date %q, expected YYYY-MM-DD", req.DueDate))
		}
	}

	rec, err := s.getRecord(ctx, req.ID)
	if err != nil {
		return err
	}
	rec.Description = req.Description
	rec.Responsible = req.Responsible
	rec.DueDate = req.DueDate
	rec.Priority = req.Priority
	rec.Tags = req.Tags
	rec.UpdatedAt = s.now()
	if err := s.actions.Update(ctx, rec); err != nil {
		return fmt.Errorf("failed to update action: %w", err)
	}
	return nil
}

// History returns the action's audit trail in insertion order.
func (s *ActionServiceImpl) History(ctx context.Context, id string) ([]*primary.HistoryEntry, error) {
	if _, err := s.getRecord(ctx, id); err != nil {
		return nil, err
	}
	recs, err := s.actions.History(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]*primary.HistoryEntry, 0, len(recs))
	for _, rec := range recs {
		out = append(out, &primary.HistoryEntry{
			Status:    rec.Status,
			Comment:   rec.Comment,
			ChangedBy: rec.ChangedBy,
			Timestamp: rec.Timestamp,
		})
	}
	return out, nil
}

// Evidence returns the attachments linked to an action.
func (s *ActionServiceImpl) Evidence(ctx context.Context, id string) ([]*primary.EvidenceFile, error) {
	if _, err := s.getRecord(ctx, id); err != nil {
		return nil, err
	}
	atts, err := s.attachments.ListByParent(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]*primary.EvidenceFile, 0, len(atts))
	for _, att := range atts {
		out = append(out, &primary.EvidenceFile{
			ID:       att.ID,
			FileName: att.FileName,
			FileType: att.FileType,
			Size:     len(att.Data),
		})
	}
	return out, nil
}

// EvidenceData returns one attachment with its content.
func (s *ActionServiceImpl) EvidenceData(ctx context.Context, attachmentID string) (*primary.EvidenceFile, []byte, error) {
	att, err := s.attachments.GetByID(ctx, attachmentID)
	if err != nil {
		return nil, nil, err
	}
	if att == nil {
		return nil, nil, NewNotFoundError(fmt.Sprintf("attachment %s not found", attachmentID))
	}
	file := &primary.EvidenceFile{
		ID:       att.ID,
		FileName: att.FileName,
		FileType: att.FileType,
		Size:     len(att.Data),
	}
	return file, att.Data, nil
}

// Delete removes an action with its history and evidence.
func (s *ActionServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := s.getRecord(ctx, id); err != nil {
		return err
	}
	return s.actions.Delete(ctx, id)
}
