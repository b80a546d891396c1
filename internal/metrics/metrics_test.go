package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterIsIdempotent(t *testing.T) {
	Register()
	Register()
}

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(Classifications.WithLabelValues("fallback"))
	Classifications.WithLabelValues("fallback").Inc()
	if got := testutil.ToFloat64(Classifications.WithLabelValues("fallback")); got != before+1 {
		t.Fatalf("fallback counter = %v, want %v", got, before+1)
	}
}
