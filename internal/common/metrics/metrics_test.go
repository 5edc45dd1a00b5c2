// internal/common/metrics/metrics_test.go
package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveEvaluation(t *testing.T) {
	before := testutil.ToFloat64(EvaluationGrades.WithLabelValues(DimensionLifestyle, "중"))

	ObserveEvaluation(99, 65, 65, "최상", "중", "중")

	assert.Equal(t, before+1, testutil.ToFloat64(EvaluationGrades.WithLabelValues(DimensionLifestyle, "중")))
	assert.GreaterOrEqual(t, testutil.CollectAndCount(EvaluationScore), 3)
}

func TestResultSubmissions(t *testing.T) {
	before := testutil.ToFloat64(ResultSubmissions.WithLabelValues("skipped_duplicate"))
	ResultSubmissions.WithLabelValues("skipped_duplicate").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(ResultSubmissions.WithLabelValues("skipped_duplicate")))
}
