package auth

import (
	"context"
	"fmt"

	"lmscontent/internal/domain"
	"lmscontent/internal/domain/models"
)

// SurfaceAuthorizer implements ResourceAuthorizer by dashboard surface.
// Any authenticated caller may read; only the admin and tutor surfaces
// may mutate. Course or batch membership is not checked.
type SurfaceAuthorizer struct{}

// NewSurfaceAuthorizer creates a new surface-based authorizer
func NewSurfaceAuthorizer() *SurfaceAuthorizer {
	return &SurfaceAuthorizer{}
}

// CanRead requires an authenticated actor in ctx.
func (a *SurfaceAuthorizer) CanRead(ctx context.Context) error {
	if _, ok := models.ActorFrom(ctx); !ok {
		return &domain.UnauthorizedError{Message: "authentication required"}
	}
	return nil
}

// CanMutate rejects the read-only student surface.
func (a *SurfaceAuthorizer) CanMutate(ctx context.Context) error {
	actor, ok := models.ActorFrom(ctx)
	if !ok {
		return &domain.UnauthorizedError{Message: "authentication required"}
	}
	if !actor.Surface.CanMutate() {
		return &domain.ForbiddenError{
			Message: fmt.Sprintf("the %s surface is read-only", actor.Surface),
		}
	}
	return nil
}
