// internal/publish/pipeline.go
//
// The submission pipeline couples one remote publish attempt with a
// minimum visible-processing duration. The remote call and the timer run
// concurrently and the pipeline resolves only once both have settled, so
// the busy indicator is never shown for an imperceptibly short moment:
// total wall time is max(remote duration, floor). Only the remote call's
// outcome decides success or failure.

package publish

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tessaly/reviewdeck/internal/session"
)

// Publisher is the remote publish operation the pipeline drives.
type Publisher interface {
	CopyArtifact(ctx context.Context, source, destination string) error
}

// Request carries the reviewer's verdict into one submit attempt.
type Request struct {
	Decision session.Decision
	Comments string
}

// Pipeline performs exactly one publish attempt per Submit call. It does
// not retry and, once issued, the remote call is not canceled by the UI.
type Pipeline struct {
	publisher   Publisher
	source      string
	destination string
	floor       time.Duration
	wait        func(ctx context.Context, d time.Duration) error
}

// PipelineOption customizes Pipeline construction.
type PipelineOption func(*Pipeline)

// WithWaiter replaces the duration wait, letting tests observe the floor
// without sleeping through it.
func WithWaiter(wait func(ctx context.Context, d time.Duration) error) PipelineOption {
	return func(p *Pipeline) {
		if wait != nil {
			p.wait = wait
		}
	}
}

// NewPipeline builds a pipeline that publishes source → destination and
// holds the busy state for at least floor.
func NewPipeline(publisher Publisher, source, destination string, floor time.Duration, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		publisher:   publisher,
		source:      source,
		destination: destination,
		floor:       floor,
		wait:        waitFor,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Submit issues the publish call and waits out the minimum duration in
// parallel, returning only after both have settled. A remote failure is
// still held until the floor elapses, then returned with the remote
// error's message intact. The decision and comments ride along for
// auditing; the wire request itself carries the artifact locations.
func (p *Pipeline) Submit(ctx context.Context, req Request) error {
	var remoteErr error
	var g errgroup.Group
	g.Go(func() error {
		remoteErr = p.publisher.CopyArtifact(ctx, p.source, p.destination)
		return nil
	})
	g.Go(func() error {
		return p.wait(ctx, p.floor)
	})
	waitErr := g.Wait()

	if remoteErr != nil {
		return remoteErr
	}
	return waitErr
}

// waitFor blocks for d or until ctx is done.
func waitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
