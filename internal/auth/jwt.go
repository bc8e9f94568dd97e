package auth

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/isdelr/articlehub-be/internal/apperrors"
	"github.com/isdelr/articlehub-be/internal/models"
)

// MinSecretLength is the shortest HMAC secret the token service accepts.
const MinSecretLength = 32

var (
	ErrSecretTooShort = fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLength)

	// Token failures. Their text is what clients see; Verify may wrap them
	// with library detail meant for logs only.
	ErrMalformedToken = fmt.Errorf("Malformed token: %w", apperrors.ErrUnauthenticated)
	ErrInvalidToken   = fmt.Errorf("Invalid token: %w", apperrors.ErrUnauthenticated)
	ErrExpiredToken   = fmt.Errorf("Token expired: %w", apperrors.ErrUnauthenticated)
)

// PublicError reduces a Verify error to its bare token failure, dropping
// parser detail.
func PublicError(err error) error {
	for _, kind := range []error{ErrExpiredToken, ErrMalformedToken, ErrInvalidToken} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return apperrors.ErrUnauthenticated
}

// Claims defines the JWT claims structure.
type Claims struct {
	Email       string        `json:"email"`
	Permissions []models.Role `json:"permissions"`
	jwt.RegisteredClaims
}

// UserID returns the subject of the token.
func (c *Claims) UserID() string { return c.Subject }

// TokenService issues and verifies HS256 access tokens. It is immutable after
// construction and safe for concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenService creates a TokenService signing with secret.
func NewTokenService(secret string, ttl time.Duration, issuer string) (*TokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive, got %s", ttl)
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// TTL is the lifetime given to issued tokens.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue creates a signed token for user carrying its sorted, de-duplicated
// permission names.
func (s *TokenService) Issue(user models.User) (string, time.Time, error) {
	issuedAt := s.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.ttl)

	claims := &Claims{
		Email:       user.Email,
		Permissions: normalizeRoles(user.Roles()),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses and validates a token string. It checks structure, signing
// method, signature, issuer and expiry; it never makes an authorization
// decision.
func (s *TokenService) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, ErrMalformedToken
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}

func normalizeRoles(roles []models.Role) []models.Role {
	seen := make(map[models.Role]struct{}, len(roles))
	out := make([]models.Role, 0, len(roles))
	for _, r := range roles {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
