package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"invtrack/internal/auth"
	"invtrack/internal/errors"
)

const dateLayout = "2006-01-02"

// fail maps a domain error onto its HTTP response.
func fail(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func badRequest(message, code string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// bindAndValidate decodes the request body into req and runs the registered
// validator on it.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badRequest("invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(err.Error(), "VALIDATION_FAILED")
	}
	return nil
}

func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, badRequest("invalid id", "INVALID_ID")
	}
	return id, nil
}

// caller returns the identity attached by the authentication stage.
func caller(c echo.Context) (*auth.Claims, error) {
	claims, ok := auth.ClaimsFromContext(c.Request().Context())
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{Error: "Authentication required"})
	}
	return claims, nil
}

func queryString(c echo.Context, name string) *string {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return nil
	}
	return &v
}

func queryInt(c echo.Context, name string) (*int, error) {
	raw := queryString(c, name)
	if raw == nil {
		return nil, nil
	}
	v, err := strconv.Atoi(*raw)
	if err != nil {
		return nil, badRequest(name+" must be an integer", "INVALID_QUERY")
	}
	return &v, nil
}

func queryDecimal(c echo.Context, name string) (*decimal.Decimal, error) {
	raw := queryString(c, name)
	if raw == nil {
		return nil, nil
	}
	v, err := decimal.NewFromString(*raw)
	if err != nil {
		return nil, badRequest(name+" must be a number", "INVALID_QUERY")
	}
	return &v, nil
}

func queryUUID(c echo.Context, name string) (*uuid.UUID, error) {
	raw := queryString(c, name)
	if raw == nil {
		return nil, nil
	}
	v, err := uuid.Parse(*raw)
	if err != nil {
		return nil, badRequest(name+" must be a UUID", "INVALID_QUERY")
	}
	return &v, nil
}

// queryDate parses a YYYY-MM-DD parameter, falling back to def when absent.
// Longer values are cut to their date part.
func queryDate(c echo.Context, name string, def time.Time) (time.Time, error) {
	raw := queryString(c, name)
	if raw == nil {
		return def, nil
	}
	s := *raw
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	v, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, badRequest(name+" must be a date (YYYY-MM-DD)", "INVALID_QUERY")
	}
	return v, nil
}
