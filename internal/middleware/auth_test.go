package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"lmscontent/internal/domain"
	"lmscontent/internal/domain/models"
	"lmscontent/internal/httputil"
)

type stubVerifier struct {
	claims *models.Claims
}

func (s stubVerifier) VerifyToken(token string) (*models.Claims, error) {
	if token != "good" {
		return nil, domain.ErrUnauthorized
	}
	return s.claims, nil
}

func (stubVerifier) Close() error { return nil }

func captureActor(got *models.Actor, userID *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got, _ = models.ActorFrom(r.Context())
		*userID = httputil.GetUserID(r)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	claims := &models.Claims{Role: "authenticated", AppMetadata: map[string]interface{}{"lms_role": "tutor"}}
	claims.Subject = "user-1"
	verifier := stubVerifier{claims: claims}

	tests := []struct {
		name       string
		method     string
		path       string
		header     string
		wantStatus int
		wantActor  models.Actor
	}{
		{"valid token", http.MethodGet, "/api/files/1/url", "Bearer good", http.StatusNoContent, models.Actor{UserID: "user-1", Surface: models.SurfaceTutor}},
		{"missing header", http.MethodGet, "/api/files/1/url", "", http.StatusUnauthorized, models.Actor{}},
		{"wrong scheme", http.MethodGet, "/api/files/1/url", "Basic good", http.StatusUnauthorized, models.Actor{}},
		{"bad token", http.MethodGet, "/api/files/1/url", "Bearer bad", http.StatusUnauthorized, models.Actor{}},
		{"health skips auth", http.MethodGet, "/health", "", http.StatusNoContent, models.Actor{}},
		{"preflight skips auth", http.MethodOptions, "/api/files/1", "", http.StatusNoContent, models.Actor{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var actor models.Actor
			var userID string
			h := AuthMiddleware(verifier, logger)(captureActor(&actor, &userID))

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantActor, actor)
			assert.Equal(t, tt.wantActor.UserID, userID)
		})
	}
}

func TestDevAuthMiddleware(t *testing.T) {
	var actor models.Actor
	var userID string
	h := DevAuthMiddleware(models.SurfaceAdmin, "dev")(captureActor(&actor, &userID))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, models.Actor{UserID: "dev", Surface: models.SurfaceAdmin}, actor)
	assert.Equal(t, "dev", userID)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SurfaceHeader, "student")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, models.SurfaceStudent, actor.Surface)
}

func TestRecovery(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}
