package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/gochicken/gochicken_backend/internal/core/domain"
)

// actorKey is the key used to store the authenticated actor in the request context.
const actorKey = contextKey("actor")

// GetActorFromContext retrieves the authenticated actor from the request
// context. It returns the actor and a boolean indicating if it was found.
func GetActorFromContext(c *gin.Context) (domain.Actor, bool) {
	actor, ok := c.Request.Context().Value(actorKey).(domain.Actor)
	return actor, ok
}

// WithActor returns a context carrying the given actor.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}
