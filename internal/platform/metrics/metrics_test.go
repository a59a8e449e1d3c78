package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewIngestMetrics(reg)

	m.SecurityStarted()
	m.SecurityStarted()
	m.PageFetched("DE0007100000", 3)
	m.PageFetched("DE0007100000", 2)
	m.PageFetched("NL0012969182", 1)
	m.FetchFailed("NL0012969182")
	m.TicksPersisted(5)
	m.SecurityFinished("done", 1500*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.pagesFetched.WithLabelValues("DE0007100000")))
	assert.Equal(t, float64(6), testutil.ToFloat64(m.ticksFetched))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.fetchFailures.WithLabelValues("NL0012969182")))
	assert.Equal(t, float64(5), testutil.ToFloat64(m.ticksPersisted))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.activeSecurities))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.securities.WithLabelValues("done")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.securityDuration))
}

func TestNewIngestMetrics_RegistersOnce(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	NewIngestMetrics(reg)

	assert.Panics(t, func() { NewIngestMetrics(reg) }, "duplicate registration must be rejected")
}

func TestHandler(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewIngestMetrics(reg)
	m.TicksPersisted(42)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	res, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), "tick_ingest_ticks_persisted_total 42")
}
