package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"invtrack/internal/auth"
	apperrors "invtrack/internal/errors"
	"invtrack/internal/metrics"
	"invtrack/internal/model"
)

const (
	// DefaultLoginPath is the only route reachable without a token.
	DefaultLoginPath = "/api/auth/login"

	bearerPrefix = "Bearer "

	msgHeaderMissing     = "Authorization header missing"
	msgInvalidToken      = "Invalid token"
	msgAuthRequired      = "Authentication required"
	msgInsufficientRoles = "Insufficient permissions"
)

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Gate authenticates requests and enforces role allow-lists. It never
// touches the store.
type Gate struct {
	verifier  TokenVerifier
	loginPath string
	metrics   metrics.Recorder
	log       *zap.Logger
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithLoginPath overrides the public login path.
func WithLoginPath(path string) GateOption {
	return func(g *Gate) {
		g.loginPath = path
	}
}

// WithGateMetrics sets the metrics recorder.
func WithGateMetrics(r metrics.Recorder) GateOption {
	return func(g *Gate) {
		g.metrics = r
	}
}

// WithGateLogger sets the logger.
func WithGateLogger(l *zap.Logger) GateOption {
	return func(g *Gate) {
		g.log = l
	}
}

// NewGate creates a Gate backed by verifier.
func NewGate(verifier TokenVerifier, opts ...GateOption) *Gate {
	g := &Gate{
		verifier:  verifier,
		loginPath: DefaultLoginPath,
		metrics:   metrics.Discard,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authenticate verifies the bearer token and attaches its claims to the
// request context. The login path passes through untouched. A missing
// header and any scheme other than the exact "Bearer " prefix are rejected
// alike; every verification failure is reported as "Invalid token".
func (g *Gate) Authenticate() Interceptor {
	return func(c echo.Context, next echo.HandlerFunc) error {
		req := c.Request()
		if req.URL.Path == g.loginPath {
			return next(c)
		}

		header := req.Header.Get(echo.HeaderAuthorization)
		if header == "" {
			return g.reject(c, "missing_header", msgHeaderMissing, nil)
		}
		if !strings.HasPrefix(header, bearerPrefix) {
			return g.reject(c, "malformed_header", msgHeaderMissing, nil)
		}

		claims, err := g.verifier.Verify(header[len(bearerPrefix):])
		if err != nil {
			return g.reject(c, verifyFailure(err), msgInvalidToken, err)
		}

		c.SetRequest(req.WithContext(auth.ContextWithClaims(req.Context(), claims)))
		return next(c)
	}
}

// RequireRoles admits callers whose role satisfies allowed. Admins always
// pass; listing the admin role grants nothing to anyone else.
func (g *Gate) RequireRoles(allowed ...model.Role) Interceptor {
	return func(c echo.Context, next echo.HandlerFunc) error {
		claims, ok := auth.ClaimsFromContext(c.Request().Context())
		if !ok {
			return g.reject(c, "unauthenticated", msgAuthRequired, nil)
		}
		if !claims.Role.Satisfies(allowed) {
			return g.reject(c, "insufficient_role", msgInsufficientRoles, nil)
		}
		return next(c)
	}
}

// Pipeline returns the authentication stage followed by a role check when
// roles are given.
func (g *Gate) Pipeline(roles ...model.Role) Pipeline {
	p := Pipeline{g.Authenticate()}
	if len(roles) > 0 {
		p = p.With(g.RequireRoles(roles...))
	}
	return p
}

func (g *Gate) reject(c echo.Context, reason, message string, cause error) error {
	g.metrics.AuthRejected(reason)
	fields := []zap.Field{
		zap.String("reason", reason),
		zap.String("method", c.Request().Method),
		zap.String("path", c.Request().URL.Path),
	}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	g.log.Debug("request rejected", fields...)

	return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{Error: message})
}

func verifyFailure(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpired):
		return "expired_token"
	case errors.Is(err, auth.ErrMalformed):
		return "malformed_token"
	case errors.Is(err, auth.ErrInvalidSignature):
		return "invalid_signature"
	default:
		return "invalid_token"
	}
}
