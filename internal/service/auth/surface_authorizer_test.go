package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"lmscontent/internal/domain"
	"lmscontent/internal/domain/models"
)

func TestSurfaceAuthorizer(t *testing.T) {
	a := NewSurfaceAuthorizer()

	tests := []struct {
		name      string
		ctx       context.Context
		readErr   error
		mutateErr error
	}{
		{
			name:      "anonymous",
			ctx:       context.Background(),
			readErr:   domain.ErrUnauthorized,
			mutateErr: domain.ErrUnauthorized,
		},
		{
			name: "admin",
			ctx:  models.WithActor(context.Background(), models.Actor{UserID: "u1", Surface: models.SurfaceAdmin}),
		},
		{
			name: "tutor",
			ctx:  models.WithActor(context.Background(), models.Actor{UserID: "u2", Surface: models.SurfaceTutor}),
		},
		{
			name:      "student",
			ctx:       models.WithActor(context.Background(), models.Actor{UserID: "u3", Surface: models.SurfaceStudent}),
			mutateErr: domain.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := a.CanRead(tt.ctx)
			if tt.readErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.readErr)
			}

			err = a.CanMutate(tt.ctx)
			if tt.mutateErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.mutateErr)
			}
		})
	}
}

func TestParseSurface(t *testing.T) {
	assert.Equal(t, models.SurfaceAdmin, models.ParseSurface("Admin"))
	assert.Equal(t, models.SurfaceTutor, models.ParseSurface("teacher"))
	assert.Equal(t, models.SurfaceStudent, models.ParseSurface("student"))
	assert.Equal(t, models.SurfaceStudent, models.ParseSurface(""))
}
