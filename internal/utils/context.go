package utils

import (
	"context"

	"github.com/vaughan-dsouza/BeSocial/internal/policy"
)

// context key
type ctxKey string

const ctxActorKey ctxKey = "actor"

func WithActor(ctx context.Context, a policy.Actor) context.Context {
	return context.WithValue(ctx, ctxActorKey, a)
}

// ActorFrom returns the request's actor, or policy.Anonymous.
func ActorFrom(ctx context.Context) policy.Actor {
	a, ok := ctx.Value(ctxActorKey).(policy.Actor)
	if !ok {
		return policy.Anonymous
	}
	return a
}
