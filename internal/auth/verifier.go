package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"invtrack/internal/model"
)

var (
	// ErrExpired is returned when the token's expiry is not after the current time.
	ErrExpired = errors.New("token expired")
	// ErrMalformed is returned when the token is not a well-formed JWT.
	ErrMalformed = errors.New("token malformed")
	// ErrInvalidSignature is returned when the signature does not match the secret.
	ErrInvalidSignature = errors.New("token signature invalid")
	// ErrValidation is returned for any other decode failure, such as an
	// unexpected signing algorithm or corrupt claims.
	ErrValidation = errors.New("token validation failed")
)

// Claims represents JWT claims. Subject holds the user id.
type Claims struct {
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the subject as a uuid.
func (c *Claims) UserID() uuid.UUID {
	id, _ := uuid.Parse(c.Subject)
	return id
}

// Issue signs an HS256 token for the identity valid from now until now+ttl.
func Issue(userID uuid.UUID, username string, role model.Role, secret string, ttl time.Duration, now time.Time) (string, error) {
	claims := &Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Verify checks the token signature against secret and decodes its claims.
// Expiry is evaluated against now; a token is expired once now reaches exp.
func Verify(tokenString, secret string, now time.Time) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := &Claims{}

	_, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, ErrInvalidSignature
	default:
		return nil, ErrValidation
	}

	if claims.ExpiresAt == nil {
		return nil, ErrValidation
	}
	if !claims.VerifyExpiresAt(now, true) {
		return nil, ErrExpired
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, ErrValidation
	}
	if !claims.Role.Valid() {
		return nil, ErrValidation
	}
	return claims, nil
}

// Verifier issues and verifies tokens with a fixed secret and lifetime.
type Verifier struct {
	secret string
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) {
		v.now = now
	}
}

// NewVerifier creates a Verifier bound to secret and ttl.
func NewVerifier(secret string, ttl time.Duration, opts ...Option) *Verifier {
	v := &Verifier{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// TTL returns the lifetime of issued tokens.
func (v *Verifier) TTL() time.Duration {
	return v.ttl
}

// Issue signs a token for the user.
func (v *Verifier) Issue(userID uuid.UUID, username string, role model.Role) (string, error) {
	return Issue(userID, username, role, v.secret, v.ttl, v.now())
}

// Verify validates a token and returns its claims.
func (v *Verifier) Verify(token string) (*Claims, error) {
	return Verify(token, v.secret, v.now())
}
