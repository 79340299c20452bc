package auth

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/cristalhq/jwt/v4"
)

const (
	jwtIssuer = "SRECORDS"

	// DefaultTokenExpiry is how long an admin token stays valid when no
	// expiry is configured.
	DefaultTokenExpiry = 24 * time.Hour
	jwtAudienceAdmin   = "admin"
	jwtAlg             = jwt.HS256
)

// TokenManager implements Manager. Its signing secret is generated at
// startup, so tokens do not survive a restart.
type TokenManager struct {
	aud      string
	expiry   time.Duration
	builder  *jwt.Builder
	verifier jwt.Verifier
}

// NewManager returns a new instance of *TokenManager issuing tokens valid for
// expiry.
func NewManager(expiry time.Duration) (*TokenManager, error) {
	if expiry <= 0 {
		expiry = DefaultTokenExpiry
	}

	jwtSecret := make([]byte, 32)
	_, err := rand.Read(jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("rand.Read error: %w", err)
	}

	signer, err := jwt.NewSignerHS(jwtAlg, jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("jwt.NewSignerHS error: %w", err)
	}

	verifier, err := jwt.NewVerifierHS(jwtAlg, jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("jwt.NewVerifierHS error: %w", err)
	}

	return &TokenManager{
		aud:      jwtAudienceAdmin,
		expiry:   expiry,
		builder:  jwt.NewBuilder(signer),
		verifier: verifier,
	}, nil
}

// GenerateToken generates a new auth token for uniqueID.
// Implements Manager.
func (tm *TokenManager) GenerateToken(uniqueID string) (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		ID:        uniqueID,
		Audience:  jwt.Audience{jwtAudienceAdmin},
		Issuer:    jwtIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tm.expiry)),
	}

	token, err := tm.builder.Build(claims)
	if err != nil {
		return "", fmt.Errorf("tm.builder.Build error: %w", err)
	}

	return token.String(), nil
}

// IsValid checks the token is valid and return it's uniqueID.
// Implements Manager.
func (tm *TokenManager) IsValid(jwtToken string) (string, bool) {
	claims := new(jwt.RegisteredClaims)
	if err := jwt.ParseClaims([]byte(jwtToken), tm.verifier, claims); err != nil {
		return "", false
	}

	if !tm.accepts(claims, time.Now()) {
		return "", false
	}

	return claims.ID, true
}

// accepts reports whether claims were issued by this service for admins, are
// within their validity window at now and name an admin.
func (tm *TokenManager) accepts(claims *jwt.RegisteredClaims, now time.Time) bool {
	return claims.ID != "" &&
		claims.IsIssuer(jwtIssuer) &&
		claims.IsForAudience(tm.aud) &&
		claims.IsValidAt(now)
}
