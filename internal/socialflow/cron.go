package socialflow

import (
	"context"
	"fmt"
)

// Job is one worker routine callable from the cron endpoint.
type Job func(ctx context.Context) (*WorkerReport, error)

type UnknownJobError struct {
	Job string
}

func (e *UnknownJobError) Error() string {
	return fmt.Sprintf("Job %q não reconhecido", e.Job)
}

// Dispatcher maps job names to workers. It does no scheduling of its own.
type Dispatcher struct {
	jobs map[string]Job
}

func NewDispatcher(w *Workers) *Dispatcher {
	return &Dispatcher{jobs: map[string]Job{
		"publish":   w.Publish,
		"analytics": w.Analytics,
		"tokens":    w.Tokens,
		"sync":      w.Sync,
	}}
}

func (d *Dispatcher) Dispatch(ctx context.Context, job string) (*WorkerReport, error) {
	fn, ok := d.jobs[job]
	if !ok {
		return nil, &UnknownJobError{Job: job}
	}
	return fn(ctx)
}
