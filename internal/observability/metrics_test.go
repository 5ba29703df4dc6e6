package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordTabOperation(t *testing.T) {
	m := getMetrics()
	before := testutil.ToFloat64(m.tabOperations.WithLabelValues("main", "add", "ignored"))

	RecordTabOperation("main", "add", false)
	RecordTabOperation("main", "add", true)

	assert.Equal(t, before+1, testutil.ToFloat64(m.tabOperations.WithLabelValues("main", "add", "ignored")))
}

func TestSetOpenTabs(t *testing.T) {
	SetOpenTabs("left", 4)
	assert.Equal(t, 4.0, testutil.ToFloat64(getMetrics().openTabs.WithLabelValues("left")))
}

func TestRecordSessionSaveAndLoad(t *testing.T) {
	m := getMetrics()
	before := testutil.ToFloat64(m.sessionSaveTotal.WithLabelValues("error"))
	RecordSessionSave(time.Millisecond, false)
	assert.Equal(t, before+1, testutil.ToFloat64(m.sessionSaveTotal.WithLabelValues("error")))

	before = testutil.ToFloat64(m.sessionLoadTotal.WithLabelValues("corrupt"))
	RecordSessionLoad(time.Millisecond, "corrupt")
	assert.Equal(t, before+1, testutil.ToFloat64(m.sessionLoadTotal.WithLabelValues("corrupt")))
}

func TestMetricsHandler(t *testing.T) {
	RecordDiffTransition("enter")

	rec := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "jsonstudio_diff_transitions_total")
}
