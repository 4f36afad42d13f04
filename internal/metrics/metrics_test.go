package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.MovementRecorded("addition", 5*time.Millisecond)
	c.MovementRecorded("addition", 5*time.Millisecond)
	c.MovementRecorded("removal", time.Millisecond)
	c.MovementFailed("item_not_found")
	c.AuthRejected("missing_header")
	c.NonLedgerChange()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.movements.WithLabelValues("addition")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.movements.WithLabelValues("removal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.movementFail.WithLabelValues("item_not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.authRejected.WithLabelValues("missing_header")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.nonLedger))
	assert.Equal(t, 1, testutil.CollectAndCount(c.movementLatency))
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.AuthRejected("invalid_token")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)

	resp := w.Result()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `invtrack_auth_rejected_total{reason="invalid_token"} 1`))
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() {
		Discard.MovementRecorded("addition", time.Second)
		Discard.MovementFailed("x")
		Discard.AuthRejected("x")
		Discard.NonLedgerChange()
	})
}
