package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dstu/internal/domain"
	"dstu/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// JWKSTokenVerifier implements TokenVerifier using the backend's published
// JWKS endpoint.
type JWKSTokenVerifier struct {
	jwks   keyfunc.Keyfunc
	logger *slog.Logger
}

// NewTokenVerifier creates a verifier that fetches public keys from the
// backend's JWKS endpoint. Keys are cached and refreshed automatically based
// on HTTP cache headers.
func NewTokenVerifier(jwksURL string, logger *slog.Logger) (TokenVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	ctx := context.Background()
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("token verifier initialized", "jwks_url", jwksURL)

	return &JWKSTokenVerifier{
		jwks:   jwks,
		logger: logger,
	}, nil
}

// VerifyToken validates a JWT token and extracts the session claims. Returns
// a PERMISSION_DENIED domain error when the token is invalid, expired, or
// uses an unexpected algorithm.
func (v *JWKSTokenVerifier) VerifyToken(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, v.jwks.Keyfunc)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err)
		return nil, &domain.PermissionError{Message: "access token rejected"}
	}

	if !token.Valid {
		return nil, &domain.PermissionError{Message: "access token invalid"}
	}

	// Prevent algorithm confusion attacks - allow only RS256 or ES256
	switch token.Method.Alg() {
	case "RS256", "ES256":
		// allowed
	default:
		v.logger.Warn("token uses unexpected algorithm",
			"algorithm", token.Method.Alg(),
			"allowed", []string{"RS256", "ES256"},
		)
		return nil, &domain.PermissionError{Message: "access token uses unexpected algorithm"}
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok {
		return nil, &domain.PermissionError{Message: "access token carries no claims"}
	}

	// Validate user ID exists (sub claim)
	if claims.Subject == "" {
		v.logger.Debug("token missing subject claim")
		return nil, &domain.PermissionError{Message: "access token missing subject"}
	}

	// Reject anonymous tokens
	if claims.Role != "authenticated" {
		return nil, &domain.PermissionError{Message: "access token is not an authenticated session"}
	}

	return claims, nil
}

// Close releases verifier resources.
func (v *JWKSTokenVerifier) Close() error {
	return nil
}
