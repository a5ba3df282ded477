package publish

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tessaly/reviewdeck/internal/session"
)

type fakePublisher struct {
	delay time.Duration
	err   error
	calls atomic.Int64
}

func (f *fakePublisher) CopyArtifact(ctx context.Context, source, destination string) error {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.err
}

func TestSubmitHoldsUntilFloorWhenRemoteIsFast(t *testing.T) {
	pub := &fakePublisher{delay: 10 * time.Millisecond}
	pipe := NewPipeline(pub, "src", "dst", 120*time.Millisecond)

	start := time.Now()
	err := pipe.Submit(context.Background(), Request{Decision: session.DecisionApprove})
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if elapsed < 120*time.Millisecond {
		t.Fatalf("resolved in %v, before the %v floor", elapsed, 120*time.Millisecond)
	}
}

func TestSubmitWaitsForSlowRemoteBeyondFloor(t *testing.T) {
	pub := &fakePublisher{delay: 120 * time.Millisecond}
	pipe := NewPipeline(pub, "src", "dst", 10*time.Millisecond)

	start := time.Now()
	err := pipe.Submit(context.Background(), Request{Decision: session.DecisionApprove})
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if elapsed < 120*time.Millisecond {
		t.Fatalf("resolved in %v, before the remote call settled", elapsed)
	}
}

func TestFailedRemoteStillWaitsOutFloor(t *testing.T) {
	remoteErr := &SubmissionError{StatusCode: 500, Message: "copy rejected"}
	pub := &fakePublisher{delay: 10 * time.Millisecond, err: remoteErr}
	pipe := NewPipeline(pub, "src", "dst", 120*time.Millisecond)

	start := time.Now()
	err := pipe.Submit(context.Background(), Request{Decision: session.DecisionReject, Comments: "broken"})
	elapsed := time.Since(start)

	if elapsed < 120*time.Millisecond {
		t.Fatalf("failure resolved in %v, before the %v floor", elapsed, 120*time.Millisecond)
	}
	var subErr *SubmissionError
	if !errors.As(err, &subErr) {
		t.Fatalf("error type = %T, want *SubmissionError", err)
	}
	if subErr.Message != "copy rejected" {
		t.Fatalf("message = %q, want the remote error's message", subErr.Message)
	}
}

func TestSubmitPerformsExactlyOneAttempt(t *testing.T) {
	pub := &fakePublisher{err: errors.New("boom")}
	pipe := NewPipeline(pub, "src", "dst", 0)
	_ = pipe.Submit(context.Background(), Request{})
	if got := pub.calls.Load(); got != 1 {
		t.Fatalf("attempts = %d, want exactly 1 (no automatic retry)", got)
	}
}

func TestWaiterReceivesConfiguredFloor(t *testing.T) {
	var requested time.Duration
	pub := &fakePublisher{}
	pipe := NewPipeline(pub, "src", "dst", 15*time.Second, WithWaiter(func(ctx context.Context, d time.Duration) error {
		requested = d
		return nil
	}))
	if err := pipe.Submit(context.Background(), Request{}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if requested != 15*time.Second {
		t.Fatalf("waiter got %v, want 15s", requested)
	}
}

func TestWaitForRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := waitFor(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if err := waitFor(context.Background(), 0); err != nil {
		t.Fatalf("zero floor should return immediately: %v", err)
	}
}
