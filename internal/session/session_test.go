package session

import (
	"errors"
	"testing"

	"github.com/tessaly/reviewdeck/internal/catalog"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return New(Artifact{Name: "Test Case Generator Agent", StatusLabel: "pending review"}, catalog.Default())
}

func TestInitialState(t *testing.T) {
	s := newTestSession(t)
	if s.ActiveView() != ViewOutput {
		t.Fatalf("initial view = %q, want output", s.ActiveView())
	}
	if s.Decision() != DecisionApprove {
		t.Fatalf("initial decision = %q, want approve", s.Decision())
	}
	if s.Comments() != "" {
		t.Fatalf("initial comments must be empty")
	}
	if s.SubmissionState() != SubmissionIdle {
		t.Fatalf("initial submission state = %q, want idle", s.SubmissionState())
	}
	if _, ok := s.Expanded(); ok {
		t.Fatalf("no item should start expanded")
	}
	if _, ok := s.Workbook(); ok {
		t.Fatalf("no workbook should be present before ingestion")
	}
}

func TestToggleExpandIsIdempotentPair(t *testing.T) {
	s := newTestSession(t)
	if err := s.ToggleExpand("TC001"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if id, ok := s.Expanded(); !ok || id != "TC001" {
		t.Fatalf("expanded = %q/%v, want TC001", id, ok)
	}
	if err := s.ToggleExpand("TC001"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, ok := s.Expanded(); ok {
		t.Fatalf("second toggle with same id must collapse")
	}
}

func TestToggleExpandReplacesNeverStacks(t *testing.T) {
	s := newTestSession(t)
	if err := s.ToggleExpand("TC001"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := s.ToggleExpand("TC002"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if id, _ := s.Expanded(); id != "TC002" {
		t.Fatalf("expanded = %q, want TC002", id)
	}
}

func TestToggleExpandRejectsUnknownID(t *testing.T) {
	s := newTestSession(t)
	err := s.ToggleExpand("TC999")
	if !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("err = %v, want ErrUnknownItem", err)
	}
	if _, ok := s.Expanded(); ok {
		t.Fatalf("rejected toggle must not set expansion")
	}
}

func TestViewSwitchingPreservesFeedbackInput(t *testing.T) {
	s := newTestSession(t)
	if err := s.SelectDecision(DecisionRevision); err != nil {
		t.Fatalf("select decision: %v", err)
	}
	if err := s.SetComments("needs more edge cases"); err != nil {
		t.Fatalf("set comments: %v", err)
	}
	s.SelectView(ViewHistory)
	s.SelectView(ViewOutput)
	if s.Decision() != DecisionRevision {
		t.Fatalf("decision changed by view switch: %q", s.Decision())
	}
	if s.Comments() != "needs more edge cases" {
		t.Fatalf("comments changed by view switch: %q", s.Comments())
	}
}

func TestSelectViewIgnoresUnknownValue(t *testing.T) {
	s := newTestSession(t)
	s.SelectView(View("settings"))
	if s.ActiveView() != ViewOutput {
		t.Fatalf("unknown view must not change selection, got %q", s.ActiveView())
	}
}

func TestMutationsBlockedWhileSubmitting(t *testing.T) {
	s := newTestSession(t)
	if err := s.BeginSubmit(); err != nil {
		t.Fatalf("begin submit: %v", err)
	}
	if err := s.SelectDecision(DecisionReject); !errors.Is(err, ErrSubmitting) {
		t.Fatalf("decision err = %v, want ErrSubmitting", err)
	}
	if err := s.SetComments("late edit"); !errors.Is(err, ErrSubmitting) {
		t.Fatalf("comments err = %v, want ErrSubmitting", err)
	}
	// Expansion and view switching stay available.
	if err := s.ToggleExpand("TC001"); err != nil {
		t.Fatalf("toggle during submit: %v", err)
	}
	s.SelectView(ViewHistory)
	if s.ActiveView() != ViewHistory {
		t.Fatalf("view switch during submit must work")
	}
}

func TestSecondSubmitIsNoOp(t *testing.T) {
	s := newTestSession(t)
	if err := s.BeginSubmit(); err != nil {
		t.Fatalf("begin submit: %v", err)
	}
	if err := s.BeginSubmit(); !errors.Is(err, ErrNotIdle) {
		t.Fatalf("second submit err = %v, want ErrNotIdle", err)
	}
	if s.SubmissionState() != SubmissionSubmitting {
		t.Fatalf("state changed by rejected submit: %q", s.SubmissionState())
	}
}

func TestFailedSubmitPreservesInputAndAllowsRetry(t *testing.T) {
	s := newTestSession(t)
	if err := s.SelectDecision(DecisionReject); err != nil {
		t.Fatalf("select decision: %v", err)
	}
	if err := s.SetComments("missing negative paths"); err != nil {
		t.Fatalf("set comments: %v", err)
	}
	if err := s.BeginSubmit(); err != nil {
		t.Fatalf("begin submit: %v", err)
	}
	s.FinishSubmit(errors.New("copy rejected by file service"))
	if s.SubmissionState() != SubmissionFailed {
		t.Fatalf("state = %q, want failed", s.SubmissionState())
	}
	if s.LastError() != "copy rejected by file service" {
		t.Fatalf("last error = %q", s.LastError())
	}
	if s.Decision() != DecisionReject || s.Comments() != "missing negative paths" {
		t.Fatalf("failure must preserve decision and comments")
	}
	s.Acknowledge()
	if s.SubmissionState() != SubmissionIdle {
		t.Fatalf("acknowledge must return to idle, got %q", s.SubmissionState())
	}
	if err := s.BeginSubmit(); err != nil {
		t.Fatalf("retry after acknowledge: %v", err)
	}
}

func TestSuccessfulSubmitLifecycle(t *testing.T) {
	s := newTestSession(t)
	if err := s.BeginSubmit(); err != nil {
		t.Fatalf("begin submit: %v", err)
	}
	s.FinishSubmit(nil)
	if s.SubmissionState() != SubmissionSucceeded {
		t.Fatalf("state = %q, want succeeded", s.SubmissionState())
	}
	if s.LastError() != "" {
		t.Fatalf("success must clear last error, got %q", s.LastError())
	}
	s.Acknowledge()
	if s.SubmissionState() != SubmissionIdle {
		t.Fatalf("acknowledge must return to idle")
	}
}

func TestFinishSubmitOutsideSubmittingIsIgnored(t *testing.T) {
	s := newTestSession(t)
	s.FinishSubmit(errors.New("stray completion"))
	if s.SubmissionState() != SubmissionIdle {
		t.Fatalf("stray completion must not move state, got %q", s.SubmissionState())
	}
}

func TestSelectDecisionRejectsInvalidValue(t *testing.T) {
	s := newTestSession(t)
	if err := s.SelectDecision(Decision("maybe")); err == nil {
		t.Fatalf("expected invalid decision error")
	}
	if s.Decision() != DecisionApprove {
		t.Fatalf("decision changed by invalid select")
	}
}
