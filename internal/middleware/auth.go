package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"lmscontent/internal/auth"
	"lmscontent/internal/domain/models"
	"lmscontent/internal/httputil"
)

// SurfaceHeader lets dev clients pick a dashboard surface when auth is disabled.
const SurfaceHeader = "X-LMS-Surface"

// AuthMiddleware validates the bearer token and stores the caller's actor
// in the request context.
func AuthMiddleware(verifier auth.JWTVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipAuth(r) {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(strings.TrimSpace(token))
			if err != nil {
				logger.Debug("token rejected", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			actor := models.Actor{
				UserID:  claims.GetUserID(),
				Surface: models.ParseSurface(claims.LMSRole()),
			}
			next.ServeHTTP(w, withActor(r, actor))
		})
	}
}

// DevAuthMiddleware injects a fixed actor. The surface header overrides the
// default surface so one dev server can act as admin, tutor or student.
func DevAuthMiddleware(surface models.Surface, userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := models.Actor{UserID: userID, Surface: surface}
			if s := r.Header.Get(SurfaceHeader); s != "" {
				actor.Surface = models.ParseSurface(s)
			}
			next.ServeHTTP(w, withActor(r, actor))
		})
	}
}

func withActor(r *http.Request, actor models.Actor) *http.Request {
	r = r.WithContext(models.WithActor(r.Context(), actor))
	return httputil.WithUserID(r, actor.UserID)
}

// skipAuth reports whether the request needs no token: health checks and
// CORS pre-flight.
func skipAuth(r *http.Request) bool {
	return r.Method == http.MethodOptions || r.URL.Path == "/health"
}
