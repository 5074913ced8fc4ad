package auth

import "lmscontent/internal/domain/models"

// JWTVerifier defines the interface for JWT token verification.
// The middleware only needs the parsed claims; how keys are obtained is
// up to the implementation.
type JWTVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Returns an error if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close releases any resources held by the verifier.
	Close() error
}
