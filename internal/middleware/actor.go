package middleware

import "github.com/gin-gonic/gin"

// actorKey is the key used to store the acting user's identifier in the Gin
// context. Authentication is handled upstream of this service; the
// presentation layer forwards the acting user in a header so the audit trail
// can attribute transitions.
const actorKey = contextKey("actor")

// ActorHeader is the request header carrying the acting user's identifier.
const ActorHeader = "X-Actor"

// defaultActor is recorded when the presentation layer sends no actor.
const defaultActor = "system"

// ActorMiddleware captures the acting user from the request header.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.GetHeader(ActorHeader)
		if actor == "" {
			actor = defaultActor
		}
		c.Set(string(actorKey), actor)
		c.Next()
	}
}

// GetActorFromContext retrieves the acting user from the Gin context.
func GetActorFromContext(c *gin.Context) string {
	actorVal, exists := c.Get(string(actorKey))
	if !exists {
		return defaultActor
	}
	actor, ok := actorVal.(string)
	if !ok || actor == "" {
		return defaultActor
	}
	return actor
}
