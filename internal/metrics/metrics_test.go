package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(requestsTotal.WithLabelValues("redeem", "state"))
	ObserveRequest("redeem", "state", time.Now())
	ObserveRequest("redeem", "state", time.Now())
	assert.Equal(t, before+2, testutil.ToFloat64(requestsTotal.WithLabelValues("redeem", "state")))
}

func TestObserveHTTP_UnmatchedRoute(t *testing.T) {
	ObserveHTTP(http.MethodGet, "", http.StatusNotFound, time.Now())
	assert.Equal(t, 1.0, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestScheduleClaims(t *testing.T) {
	SetScheduleClaims("s1", 10, 3)
	assert.Equal(t, 10.0, testutil.ToFloat64(scheduleClaimsTotal.WithLabelValues("s1")))
	assert.Equal(t, 3.0, testutil.ToFloat64(scheduleClaimsRedeemed.WithLabelValues("s1")))

	ResetScheduleClaims()
	assert.Equal(t, 0, testutil.CollectAndCount(scheduleClaimsTotal))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	ObserveRedemption("single")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "claimvault_redemption_redeemed_total")
}
