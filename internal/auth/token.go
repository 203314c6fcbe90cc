package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/news-portal/internal/config"
	"github.com/spec-kit/news-portal/internal/domain"
)

// Sentinel errors for token verification. Anything that is not an expiry is
// reported as invalid so callers fail closed.
var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// TokenManager issues and validates the three token families. Access and
// refresh tokens are signed with separate secrets.
type TokenManager struct {
	accessSecret    []byte
	refreshSecret   []byte
	accessTTL       time.Duration
	refreshTTL      time.Duration
	verificationTTL time.Duration
	issuer          string
	audience        string
}

// NewTokenManager builds a manager from auth configuration.
func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	return &TokenManager{
		accessSecret:    []byte(cfg.AccessTokenSecret),
		refreshSecret:   []byte(cfg.RefreshTokenSecret),
		accessTTL:       cfg.AccessTokenTTL(),
		refreshTTL:      cfg.RefreshTokenTTL(),
		verificationTTL: cfg.VerificationTokenTTL(),
		issuer:          cfg.Issuer,
		audience:        cfg.Audience,
	}
}

// Claims describes the JWT payload for access and refresh tokens.
type Claims struct {
	UserID string          `json:"uid"`
	Role   domain.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// VerificationClaims carries only the user id for email verification links.
type VerificationClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// IssueAccessToken signs a short-lived token carrying the identity.
func (tm *TokenManager) IssueAccessToken(identity domain.Identity) (string, time.Time, error) {
	return tm.issue(identity, tm.accessSecret, tm.accessTTL)
}

// IssueRefreshToken signs a long-lived token carrying the identity. The token
// is never accepted for resource authorization directly.
func (tm *TokenManager) IssueRefreshToken(identity domain.Identity) (string, time.Time, error) {
	return tm.issue(identity, tm.refreshSecret, tm.refreshTTL)
}

func (tm *TokenManager) issue(identity domain.Identity, secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		UserID: identity.UserID,
		Role:   identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   identity.UserID,
			Issuer:    tm.issuer,
			Audience:  jwt.ClaimStrings{tm.audience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseAccessToken validates an access token and returns its claims.
func (tm *TokenManager) ParseAccessToken(tokenStr string) (*Claims, error) {
	return tm.parse(tokenStr, tm.accessSecret)
}

// ParseRefreshToken validates a refresh token and returns its claims.
func (tm *TokenManager) ParseRefreshToken(tokenStr string) (*Claims, error) {
	return tm.parse(tokenStr, tm.refreshSecret)
}

func (tm *TokenManager) parse(tokenStr string, secret []byte) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, ErrTokenInvalid
			}
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(tm.issuer),
		jwt.WithAudience(tm.audience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// IssueVerificationToken signs a short-lived single-purpose token for marking
// an email address verified.
func (tm *TokenManager) IssueVerificationToken(userID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.verificationTTL)
	claims := &VerificationClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    tm.issuer,
			Audience:  jwt.ClaimStrings{tm.audience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.accessSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign verification token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseVerificationToken validates a verification token and returns the user id.
func (tm *TokenManager) ParseVerificationToken(tokenStr string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &VerificationClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, ErrTokenInvalid
			}
			return tm.accessSecret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(tm.issuer),
		jwt.WithAudience(tm.audience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*VerificationClaims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return "", ErrTokenInvalid
	}
	return claims.UserID, nil
}

// Identity extracts the identity pair encoded in the claims.
func (c *Claims) Identity() domain.Identity {
	return domain.Identity{UserID: c.UserID, Role: c.Role}
}
