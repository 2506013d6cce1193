package auth

import "dstu/internal/domain/models"

// TokenVerifier validates the access token the client is about to attach to
// backend calls, so a bad or expired token fails fast instead of producing a
// stream of rejected RPCs.
type TokenVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Returns an error if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.SessionClaims, error)

	// Close releases any resources held by the verifier (e.g., HTTP connections for JWKS).
	// Should be called when the verifier is no longer needed.
	Close() error
}
