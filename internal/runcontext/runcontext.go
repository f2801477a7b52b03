// Package runcontext carries the active SchedulerRun's ID through a
// context.Context, the way the teacher's internal/requestid package
// carries an HTTP request ID — here the correlator is a scheduling run
// rather than an inbound request.
package runcontext

import "context"

type ctxKey struct{}

// WithRunID returns a copy of ctx with the run ID attached.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, runID)
}

// FromContext extracts the run ID from ctx. Returns "" if absent.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
