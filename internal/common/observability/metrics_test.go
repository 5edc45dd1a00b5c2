// internal/common/observability/metrics_test.go
package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestNoop_RecordsNothing(t *testing.T) {
	o := NewNoop()
	ctx := context.Background()

	o.RecordJobProcessed(ctx, "success")
	o.RecordJobDuration(ctx, time.Second, "success")
	o.RecordTotalScore(ctx, 200)

	spanCtx, span := o.StartSpan(ctx, "evaluate", attribute.Int64("combination.id", 1))
	assert.NotNil(t, spanCtx)
	span.End()

	assert.NoError(t, o.Shutdown(ctx))
}

func TestNew_RecordsAndShutsDown(t *testing.T) {
	o, err := New("observability-test", "")
	if !assert.NoError(t, err) {
		return
	}
	ctx := context.Background()

	o.RecordJobProcessed(ctx, "completed")
	o.RecordJobDuration(ctx, 120*time.Millisecond, "completed")
	o.RecordTotalScore(ctx, 229)

	_, span := o.StartSpan(ctx, "evaluate")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, o.Shutdown(ctx))
}
