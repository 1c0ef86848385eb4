package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// New registers on the default registry, so it runs once for the package.
var testMetrics = New()

func TestRecordOperation(t *testing.T) {
	testMetrics.RecordOperation("add_paragraph", 5*time.Millisecond, nil)
	testMetrics.RecordOperation("add_paragraph", time.Millisecond, errors.New("boom"))

	ok := testutil.ToFloat64(testMetrics.OperationsTotal.WithLabelValues("add_paragraph", "ok"))
	if ok != 1 {
		t.Errorf("expected 1 ok operation, got %v", ok)
	}
	failed := testutil.ToFloat64(testMetrics.OperationsTotal.WithLabelValues("add_paragraph", "error"))
	if failed != 1 {
		t.Errorf("expected 1 failed operation, got %v", failed)
	}
}

func TestDocumentGauges(t *testing.T) {
	testMetrics.DocumentsOpen.Set(2)
	if got := testutil.ToFloat64(testMetrics.DocumentsOpen); got != 2 {
		t.Errorf("expected gauge 2, got %v", got)
	}

	before := testutil.ToFloat64(testMetrics.ReplacementsTotal)
	testMetrics.ReplacementsTotal.Add(3)
	if got := testutil.ToFloat64(testMetrics.ReplacementsTotal); got != before+3 {
		t.Errorf("expected counter %v, got %v", before+3, got)
	}
}

func TestUpdateUptime(t *testing.T) {
	testMetrics.UpdateUptime()
	if got := testutil.ToFloat64(testMetrics.ServerUptimeSeconds); got < 0 {
		t.Errorf("expected non-negative uptime, got %v", got)
	}
}
