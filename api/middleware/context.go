package middleware

import (
	"context"

	"github.com/libreshelf/libreshelf-backend/pkg/types"
)

type contextKey string

const (
	ctxActor     contextKey = "actor"
	ctxSessionID contextKey = "session_id"
)

// ActorFromContext returns the authenticated actor, if any.
func ActorFromContext(ctx context.Context) (types.Actor, bool) {
	if ctx == nil {
		return types.Actor{}, false
	}
	if v, ok := ctx.Value(ctxActor).(types.Actor); ok {
		return v, true
	}
	return types.Actor{}, false
}

// SessionIDFromContext returns the live session ID bound to the request.
func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}

// WithActor injects the authenticated actor into the context.
func WithActor(ctx context.Context, actor types.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActor, actor)
}

// WithSessionID injects the session ID into the context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSessionID, sessionID)
}
