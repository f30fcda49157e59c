package services

import "context"

type contextKey string

const (
	runIDKey contextKey = "run_id"
	stageKey contextKey = "stage"
	coderKey contextKey = "coder"
)

// WithRunID annotates context with the distribution run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithCoder annotates context with a 1-based coder number.
func WithCoder(ctx context.Context, coder int) context.Context {
	if coder <= 0 {
		return ctx
	}
	return context.WithValue(ctx, coderKey, coder)
}

// CoderFromContext extracts the coder number if present.
func CoderFromContext(ctx context.Context) (int, bool) {
	if v, ok := ctx.Value(coderKey).(int); ok && v > 0 {
		return v, true
	}
	return 0, false
}
