package api

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/samistat08/ro-process-dashboard/internal/metrics"
)

func TestMetricsMiddleware_CollapsesSiteIDsIntoRouteTemplate(t *testing.T) {
	server := testServer(t)
	counter := metrics.HTTPRequests.WithLabelValues(http.MethodGet, "/api/v1/sites/{id}/latest", "200")

	before := testutil.ToFloat64(counter)
	doRequest(t, server, "/api/v1/sites/RO-001/latest")
	doRequest(t, server, "/api/v1/sites/RO-002/latest")

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestResponseWriter_CapturesStatus(t *testing.T) {
	server := testServer(t)
	counter := metrics.HTTPRequests.WithLabelValues(http.MethodGet, "/api/v1/sites/{id}/latest", "404")

	before := testutil.ToFloat64(counter)
	doRequest(t, server, "/api/v1/sites/RO-999/latest")

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
