// internal/session/session.go
//
// A Session is the state machine behind one open review interaction:
// which tab is shown, which catalog item is expanded, the chosen feedback
// decision, free-text comments, and the submission lifecycle. The session
// is pure state — the TUI drives it and the submission pipeline reports
// back into it. All mutations arrive serialized through the UI event
// loop, so the session itself carries no locking.

package session

import (
	"errors"
	"fmt"

	"github.com/tessaly/reviewdeck/internal/catalog"
	"github.com/tessaly/reviewdeck/internal/workbook"
)

// View is the top-level tab selection.
type View string

const (
	ViewOutput   View = "output"
	ViewFeedback View = "feedback"
	ViewHistory  View = "history"
)

// Decision is the reviewer's verdict on the artifact.
type Decision string

const (
	DecisionApprove  Decision = "approve"
	DecisionRevision Decision = "revision"
	DecisionReject   Decision = "reject"
)

// SubmissionState tracks the lifecycle of one submit attempt.
type SubmissionState string

const (
	SubmissionIdle       SubmissionState = "idle"
	SubmissionSubmitting SubmissionState = "submitting"
	SubmissionSucceeded  SubmissionState = "succeeded"
	SubmissionFailed     SubmissionState = "failed"
)

var (
	// ErrSubmitting rejects decision/comment mutations while a
	// submission is in flight.
	ErrSubmitting = errors.New("session: blocked while submission is in flight")

	// ErrNotIdle rejects a second submit before the previous one has
	// been observed and acknowledged.
	ErrNotIdle = errors.New("session: submission already in progress")

	// ErrUnknownItem rejects expansion of an id not present in the
	// catalog.
	ErrUnknownItem = errors.New("session: unknown catalog item")
)

// Artifact describes the agent output under review. It is supplied by the
// invoking context and never mutated here.
type Artifact struct {
	Name        string
	Description string
	StatusLabel string
}

// Session owns the review interaction state for one artifact.
type Session struct {
	artifact Artifact
	catalog  *catalog.Catalog

	view       View
	expanded   string
	decision   Decision
	comments   string
	submission SubmissionState
	lastError  string

	workbook *workbook.Workbook
}

// New opens a review session. The initial tab is the artifact output,
// the initial decision is approve, and no submission is in flight.
func New(artifact Artifact, cat *catalog.Catalog) *Session {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Session{
		artifact:   artifact,
		catalog:    cat,
		view:       ViewOutput,
		decision:   DecisionApprove,
		submission: SubmissionIdle,
	}
}

// Artifact returns the artifact under review.
func (s *Session) Artifact() Artifact { return s.artifact }

// Catalog returns the item catalog for this session.
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// ActiveView returns the shown tab.
func (s *Session) ActiveView() View { return s.view }

// SelectView switches the shown tab. Switching is always allowed; while
// a submission is in flight the feedback tab simply renders its controls
// disabled.
func (s *Session) SelectView(v View) {
	switch v {
	case ViewOutput, ViewFeedback, ViewHistory:
		s.view = v
	}
}

// Decision returns the currently selected feedback decision.
func (s *Session) Decision() Decision { return s.decision }

// SelectDecision changes the feedback decision. Rejected while a
// submission is in flight.
func (s *Session) SelectDecision(d Decision) error {
	if s.submission == SubmissionSubmitting {
		return ErrSubmitting
	}
	switch d {
	case DecisionApprove, DecisionRevision, DecisionReject:
		s.decision = d
		return nil
	default:
		return fmt.Errorf("session: invalid decision %q", d)
	}
}

// Comments returns the free-text comments.
func (s *Session) Comments() string { return s.comments }

// SetComments replaces the comment text. Rejected while a submission is
// in flight.
func (s *Session) SetComments(text string) error {
	if s.submission == SubmissionSubmitting {
		return ErrSubmitting
	}
	s.comments = text
	return nil
}

// Expanded returns the id of the expanded catalog item, if any.
func (s *Session) Expanded() (string, bool) {
	return s.expanded, s.expanded != ""
}

// ToggleExpand expands item id, collapsing whatever was expanded before;
// toggling the already-expanded id collapses it. At most one item is
// expanded at a time. Expansion is independent of submission state.
func (s *Session) ToggleExpand(id string) error {
	if !s.catalog.Contains(id) {
		return fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}
	if s.expanded == id {
		s.expanded = ""
		return nil
	}
	s.expanded = id
	return nil
}

// SubmissionState returns the lifecycle state of the current submit.
func (s *Session) SubmissionState() SubmissionState { return s.submission }

// LastError returns the message carried by the most recent failed
// submission, preserved so the user can see why a retry is needed.
func (s *Session) LastError() string { return s.lastError }

// BeginSubmit transitions idle → submitting. Any other starting state is
// rejected, which makes a second submit while one is in flight a no-op
// at the state-machine level.
func (s *Session) BeginSubmit() error {
	if s.submission != SubmissionIdle {
		return ErrNotIdle
	}
	s.submission = SubmissionSubmitting
	s.lastError = ""
	return nil
}

// FinishSubmit records the pipeline outcome. A failure preserves the
// decision and comments untouched so the user can retry without
// re-entering anything.
func (s *Session) FinishSubmit(err error) {
	if s.submission != SubmissionSubmitting {
		return
	}
	if err != nil {
		s.submission = SubmissionFailed
		s.lastError = err.Error()
		return
	}
	s.submission = SubmissionSucceeded
}

// Acknowledge returns a settled submission (succeeded or failed) to
// idle, re-enabling the form. Calling it in any other state is a no-op.
func (s *Session) Acknowledge() {
	if s.submission == SubmissionSucceeded || s.submission == SubmissionFailed {
		s.submission = SubmissionIdle
	}
}

// AttachWorkbook stores the workbook produced by a successful ingestion,
// replacing any previous one.
func (s *Session) AttachWorkbook(wb *workbook.Workbook) {
	s.workbook = wb
}

// Workbook returns the ingested workbook, if one is present.
func (s *Session) Workbook() (*workbook.Workbook, bool) {
	return s.workbook, s.workbook != nil
}
