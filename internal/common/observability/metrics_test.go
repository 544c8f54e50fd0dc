// internal/common/observability/metrics_test.go
package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObservability_NilSafe(t *testing.T) {
	var o *Observability

	assert.NotPanics(t, func() {
		o.RecordUpstreamCall(context.Background(), "gemini", "gemini-2.5-pro", "success", time.Second)
		ctx, span := o.StartSpan(context.Background(), "llm.invoke")
		span.End()
		assert.NotNil(t, ctx)
		o.Shutdown()
	})
}

func TestObservability_ZeroValue(t *testing.T) {
	o := &Observability{}

	assert.NotPanics(t, func() {
		o.RecordUpstreamCall(context.Background(), "openai", "gpt-4o-mini", "UPSTREAM_TIMEOUT", 10*time.Millisecond)
		_, span := o.StartSpan(context.Background(), "llm.invoke")
		span.End()
	})
}
