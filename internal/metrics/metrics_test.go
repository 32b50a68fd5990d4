package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordValidation(t *testing.T) {
	before := testutil.ToFloat64(ValidationsTotal.WithLabelValues("MANUAL", "VALID"))
	RecordValidation("MANUAL", "VALID")
	assert.Equal(t, before+1, testutil.ToFloat64(ValidationsTotal.WithLabelValues("MANUAL", "VALID")))
}

func TestRecordSweep(t *testing.T) {
	rowsBefore := testutil.ToFloat64(SweepRowsTotal.WithLabelValues("test-sweep"))
	runsBefore := testutil.ToFloat64(SweepRunsTotal.WithLabelValues("test-sweep", OutcomeSuccess))

	RecordSweep("test-sweep", OutcomeSuccess, 4, time.Millisecond)
	RecordSweep("test-sweep", OutcomeSuccess, 0, time.Millisecond)

	assert.Equal(t, rowsBefore+4, testutil.ToFloat64(SweepRowsTotal.WithLabelValues("test-sweep")))
	assert.Equal(t, runsBefore+2, testutil.ToFloat64(SweepRunsTotal.WithLabelValues("test-sweep", OutcomeSuccess)))
}

func TestRecordPurchase(t *testing.T) {
	before := testutil.ToFloat64(PurchasesTotal.WithLabelValues(OutcomeSoldOut))
	RecordPurchase(OutcomeSoldOut, 5*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(PurchasesTotal.WithLabelValues(OutcomeSoldOut)))
}
