package inventory

import (
	"context"

	"github.com/crucial707/dosasset/internal/models"
)

type actorKey struct{}

// WithActor returns a context whose history entries are attributed to actor.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the actor stored by WithActor, or models.DefaultActor.
func ActorFrom(ctx context.Context) string {
	if a, ok := ctx.Value(actorKey{}).(string); ok && a != "" {
		return a
	}
	return models.DefaultActor
}
