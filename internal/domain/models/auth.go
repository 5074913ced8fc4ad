package models

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Surface is the dashboard a caller is acting through.
type Surface string

const (
	SurfaceAdmin   Surface = "admin"
	SurfaceTutor   Surface = "tutor"
	SurfaceStudent Surface = "student"
)

// ParseSurface maps a role string to a surface. Unknown roles get the student surface.
func ParseSurface(role string) Surface {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "admin", "administrator":
		return SurfaceAdmin
	case "tutor", "teacher", "instructor":
		return SurfaceTutor
	default:
		return SurfaceStudent
	}
}

// CanMutate reports whether the surface may create, rename or delete content.
func (s Surface) CanMutate() bool {
	return s == SurfaceAdmin || s == SurfaceTutor
}

// Claims represents the JWT claims issued by the session provider.
type Claims struct {
	jwt.RegisteredClaims // sub, iss, aud, exp, iat

	Email       string                 `json:"email"`
	Role        string                 `json:"role"`
	AppMetadata map[string]interface{} `json:"app_metadata"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *Claims) GetUserID() string {
	return c.Subject
}

// LMSRole prefers app_metadata.lms_role over the top-level role claim.
func (c *Claims) LMSRole() string {
	if c.AppMetadata != nil {
		if r, ok := c.AppMetadata["lms_role"].(string); ok && r != "" {
			return r
		}
	}
	return c.Role
}

// Actor identifies the authenticated caller and the surface they use.
type Actor struct {
	UserID  string
	Surface Surface
}

type actorKey struct{}

// WithActor stores the actor in the context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the actor stored in ctx, if any.
func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}
