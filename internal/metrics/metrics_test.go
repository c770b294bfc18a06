package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPMetrics(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/posts", "200"))
	RecordHTTPMetrics("GET", "/api/posts", 200, 15*time.Millisecond)
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/posts", "200"))
	assert.Equal(t, before+1, after)
}

func TestInFlight(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsInFlight)
	IncrementInFlight()
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsInFlight))
	DecrementInFlight()
	assert.Equal(t, before, testutil.ToFloat64(httpRequestsInFlight))
}

func TestObserveQuery(t *testing.T) {
	before := testutil.ToFloat64(queryErrors.WithLabelValues("best_sellers"))

	ObserveQuery("best_sellers", time.Millisecond, nil)
	assert.Equal(t, before, testutil.ToFloat64(queryErrors.WithLabelValues("best_sellers")))

	ObserveQuery("best_sellers", time.Millisecond, errors.New("boom"))
	assert.Equal(t, before+1, testutil.ToFloat64(queryErrors.WithLabelValues("best_sellers")))
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(cacheLookups.WithLabelValues("hit"))
	misses := testutil.ToFloat64(cacheLookups.WithLabelValues("miss"))

	RecordCacheLookup(true)
	RecordCacheLookup(false)
	RecordCacheLookup(false)

	assert.Equal(t, hits+1, testutil.ToFloat64(cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(cacheLookups.WithLabelValues("miss")))
}
