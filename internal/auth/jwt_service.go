package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"sigeu/internal/model"
)

const (
	// DefaultSessionExpiry is used when no session ttl is configured.
	DefaultSessionExpiry = 24 * time.Hour
	// ResetTokenExpiry is the fixed lifetime of password reset tokens.
	ResetTokenExpiry = time.Hour
	// TokenTypePasswordReset tags password reset tokens.
	TokenTypePasswordReset = "password_reset"
)

var (
	// ErrTokenExpired is returned for a well-signed token past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid is returned for malformed, tampered or mistyped tokens.
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims represents JWT claims. Session tokens leave Type empty.
type Claims struct {
	UserID uint       `json:"userId"`
	Email  string     `json:"email"`
	Role   model.Role `json:"rol,omitempty"`
	Type   string     `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret     []byte
	sessionTTL time.Duration
	now        func() time.Time
}

// Option configures a JWTService.
type Option func(*JWTService)

// WithClock overrides the clock used to stamp iat and exp.
func WithClock(now func() time.Time) Option {
	return func(s *JWTService) { s.now = now }
}

// NewJWTService creates a new JWT service with the given secret and session ttl.
func NewJWTService(secret string, sessionTTL time.Duration, opts ...Option) *JWTService {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionExpiry
	}
	s := &JWTService{
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SessionTTL returns the configured session lifetime.
func (s *JWTService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// Issue signs claims with the given ttl. IssuedAt, ExpiresAt and ID are set
// by the service.
func (s *JWTService) Issue(claims Claims, ttl time.Duration) (string, error) {
	now := s.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        generateTokenID(),
		Subject:   strconv.FormatUint(uint64(claims.UserID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	return token.SignedString(s.secret)
}

// Verify validates signature and expiry and returns the claims.
// It does not look at the token type.
func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		// A token that is both expired and forged is reported as invalid.
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrTokenInvalid
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// IssueSession issues a session token for user.
func (s *JWTService) IssueSession(user *model.User) (string, error) {
	return s.Issue(Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}, s.sessionTTL)
}

// IssueReset issues a password reset token for user.
func (s *JWTService) IssueReset(user *model.User) (string, error) {
	return s.Issue(Claims{
		UserID: user.ID,
		Email:  user.Email,
		Type:   TokenTypePasswordReset,
	}, ResetTokenExpiry)
}

// VerifySession accepts only untyped session tokens.
func (s *JWTService) VerifySession(tokenString string) (*Claims, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// VerifyReset accepts only password reset tokens.
func (s *JWTService) VerifyReset(tokenString string) (*Claims, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != TokenTypePasswordReset {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// RemainingTTL returns how long the token stays valid, never negative.
func (s *JWTService) RemainingTTL(claims *Claims) time.Duration {
	if claims.ExpiresAt == nil {
		return 0
	}
	d := claims.ExpiresAt.Time.Sub(s.now())
	if d < 0 {
		return 0
	}
	return d
}

// generateTokenID generates a unique token ID (jti).
func generateTokenID() string {
	return uuid.New().String()
}
