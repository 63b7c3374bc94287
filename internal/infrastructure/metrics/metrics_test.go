package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveLabel(t *testing.T) {
	before := testutil.ToFloat64(LabelsTotal.WithLabelValues(OutcomeMatched))
	ObserveLabel(OutcomeMatched)
	ObserveLabel(OutcomeMatched)
	after := testutil.ToFloat64(LabelsTotal.WithLabelValues(OutcomeMatched))

	assert.Equal(t, before+2, after)
}

func TestObserveRun(t *testing.T) {
	beforeOK := testutil.ToFloat64(RunsTotal.WithLabelValues("analyze", "ok"))
	beforeEmpty := testutil.ToFloat64(RunsTotal.WithLabelValues("analyze", "empty"))

	ObserveRun("analyze", 3)
	ObserveRun("analyze", 0)

	assert.Equal(t, beforeOK+1, testutil.ToFloat64(RunsTotal.WithLabelValues("analyze", "ok")))
	assert.Equal(t, beforeEmpty+1, testutil.ToFloat64(RunsTotal.WithLabelValues("analyze", "empty")))
}

func TestHandler_ExposesPipelineMetrics(t *testing.T) {
	ObserveLabel(OutcomeFiltered)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fridgewise_labels_total")
}
