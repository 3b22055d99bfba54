package evaluation

import (
	"testing"
	"time"

	"github.com/example/sentinel/internal/core/action"
	"github.com/example/sentinel/internal/core/checklist"
)

func testSection(id string, questions int) checklist.Section {
	qs := make([]string, questions)
	for i := range qs {
		qs[i] = "question"
	}
	return checklist.Section{ID: id, Title: id, Questions: qs}
}

func newTestSession() *Session {
	return NewSession("eval_test", time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))
}

func TestRecordAnswerGrowsLazily(t *testing.T) {
	s := newTestSession()
	section := testSection("opening", 5)

	if err := s.RecordAnswer(section, 3, AnswerYes); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}

	answers := s.Answers["opening"]
	if len(answers) != 5 {
		t.Fatalf("answer slice length = %d, want 5", len(answers))
	}
	for i, a := range answers {
		want := AnswerNone
		if i == 3 {
			want = AnswerYes
		}
		if a != want {
			t.Errorf("answers[%d] = %q, want %q", i, a, want)
		}
	}
}

func TestRecordAnswerOutOfRange(t *testing.T) {
	s := newTestSession()
	section := testSection("opening", 2)

	if err := s.RecordAnswer(section, 2, AnswerNo); err != ErrQuestionOutOfRange {
		t.Errorf("index past end: err = %v, want ErrQuestionOutOfRange", err)
	}
	if err := s.RecordAnswer(section, -1, AnswerNo); err != ErrQuestionOutOfRange {
		t.Errorf("negative index: err = %v, want ErrQuestionOutOfRange", err)
	}
}

func TestYesClearsRootCauseAndDraftButKeepsEvidence(t *testing.T) {
	s := newTestSession()
	section := testSection("opening", 3)

	draft := ActionDraft{
		SectionID:     "opening",
		QuestionIndex: 1,
		QuestionText:  "question",
		RootCause:     RootCause{Why1: "a", Why2: "b", Why3: "c"},
		Description:   "fix it",
		Responsible:   "Ana",
		Priority:      action.PriorityHigh,
	}
	if err := s.RecordDraftAction(section, draft); err != nil {
		t.Fatalf("RecordDraftAction: %v", err)
	}
	s.AddEvidence("opening", 1, EvidenceRef{ID: "att_1", FileName: "photo.jpg"})

	key := QuestionKey("opening", 1)
	if _, ok := s.Drafts[key]; !ok {
		t.Fatal("draft was not committed")
	}
	if s.AnswerAt("opening", 1) != AnswerNo {
		t.Fatal("RecordDraftAction did not set the answer to No")
	}

	if err := s.RecordAnswer(section, 1, AnswerYes); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	if _, ok := s.Drafts[key]; ok {
		t.Error("draft survived a Yes answer")
	}
	if _, ok := s.RootCauses[key]; ok {
		t.Error("root cause survived a Yes answer")
	}
	if len(s.Evidence[key]) != 1 {
		t.Error("evidence should be retained across a Yes answer")
	}
}

func TestRecordRootCauseRequiresNo(t *testing.T) {
	s := newTestSession()
	section := testSection("opening", 2)

	rc := RootCause{Why1: "w1", Why2: "w2", Why3: "w3"}
	if err := s.RecordRootCause("opening", 0, rc); err != ErrAnswerNotNo {
		t.Errorf("unanswered question: err = %v, want ErrAnswerNotNo", err)
	}

	if err := s.RecordAnswer(section, 0, AnswerYes); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordRootCause("opening", 0, rc); err != ErrAnswerNotNo {
		t.Errorf("yes answer: err = %v, want ErrAnswerNotNo", err)
	}

	if err := s.RecordAnswer(section, 0, AnswerNo); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordRootCause("opening", 0, rc); err != nil {
		t.Errorf("no answer: err = %v, want nil", err)
	}
	if got := s.RootCauses[QuestionKey("opening", 0)]; got != rc {
		t.Errorf("stored root cause = %+v, want %+v", got, rc)
	}
}

func TestRemoveDraftActionClearsBoth(t *testing.T) {
	s := newTestSession()
	section := testSection("opening", 1)

	draft := ActionDraft{SectionID: "opening", QuestionIndex: 0, RootCause: RootCause{Why3: "root"}}
	if err := s.RecordDraftAction(section, draft); err != nil {
		t.Fatal(err)
	}

	s.RemoveDraftAction("opening", 0)
	key := QuestionKey("opening", 0)
	if _, ok := s.Drafts[key]; ok {
		t.Error("draft not removed")
	}
	if _, ok := s.RootCauses[key]; ok {
		t.Error("root cause not removed")
	}
	// The answer itself stays No until the user records otherwise.
	if s.AnswerAt("opening", 0) != AnswerNo {
		t.Error("removing a draft should not change the answer")
	}
}

func TestEvidenceAddRemove(t *testing.T) {
	s := newTestSession()
	s.AddEvidence("closing", 2, EvidenceRef{ID: "att_1", FileName: "a.pdf"})
	s.AddEvidence("closing", 2, EvidenceRef{ID: "att_2", FileName: "b.pdf"})

	if !s.RemoveEvidence("closing", 2, "att_1") {
		t.Fatal("RemoveEvidence returned false for an existing reference")
	}
	if s.RemoveEvidence("closing", 2, "att_1") {
		t.Error("RemoveEvidence returned true for a missing reference")
	}

	refs := s.Evidence[QuestionKey("closing", 2)]
	if len(refs) != 1 || refs[0].ID != "att_2" {
		t.Errorf("remaining evidence = %+v, want only att_2", refs)
	}
}

func TestIsComplete(t *testing.T) {
	sections := []checklist.Section{testSection("a", 2), testSection("b", 3)}

	s := newTestSession()
	if s.IsComplete(sections) {
		t.Error("empty session reported complete")
	}

	// Partially answer both sections.
	if err := s.RecordAnswer(sections[0], 0, AnswerYes); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordAnswer(sections[1], 1, AnswerNo); err != nil {
		t.Fatal(err)
	}
	if s.IsComplete(sections) {
		t.Error("partially answered session reported complete")
	}

	// Fully answer one section; the other stays partial.
	if err := s.RecordAnswer(sections[0], 1, AnswerNo); err != nil {
		t.Fatal(err)
	}
	if !s.IsComplete(sections) {
		t.Error("session with one fully answered section reported incomplete")
	}
}
