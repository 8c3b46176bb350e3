package httpx

import (
	"context"

	"github.com/belimuno/workhub/internal/domain/actor"
)

// actorKey is an unexported context key type to avoid collisions across packages.
type actorKey struct{}

// SetActorInContext returns a child context that carries the acting principal.
func SetActorInContext(ctx context.Context, act actor.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, act)
}

// ActorFromContext returns the acting principal from context and a boolean
// indicating presence.
func ActorFromContext(ctx context.Context) (actor.Actor, bool) {
	if act, ok := ctx.Value(actorKey{}).(actor.Actor); ok {
		return act, true
	}
	return actor.Actor{}, false
}
