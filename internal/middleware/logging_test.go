package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"invtrack/internal/logger"
)

func TestRequestLoggerAndContext(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	e := echo.New()
	e.Use(echomw.RequestID(), RequestContext(), RequestLogger(zap.New(core)))

	var seen string
	e.GET("/ping", func(c echo.Context) error {
		seen = logger.RequestID(c.Request().Context())
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusInternalServerError, "boom")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, seen)
	assert.Equal(t, rec.Header().Get(echo.HeaderXRequestID), seen)

	entries := logs.FilterMessage("request").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "/ping", fields["uri"])
		assert.EqualValues(t, http.StatusNoContent, fields["status"])
		assert.Equal(t, seen, fields["request_id"])
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	errEntries := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	assert.Len(t, errEntries, 1)
}
