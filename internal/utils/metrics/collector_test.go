package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorRecordsByStatus(t *testing.T) {
	c := NewCollector()
	c.RecordTransaction("create_mint", StatusConfirmed, 20*time.Millisecond)
	c.RecordTransaction("mint_to", StatusConfirmed, 30*time.Millisecond)
	c.RecordTransaction("swap", StatusRejected, 10*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.transactionCounter.WithLabelValues(StatusConfirmed, "create_mint")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.transactionCounter.WithLabelValues(StatusRejected, "swap")))

	summary, err := c.Summary()
	require.NoError(t, err)
	assert.Equal(t, map[string]uint64{StatusConfirmed: 2, StatusRejected: 1}, summary)
	assert.Equal(t, []string{StatusConfirmed, StatusRejected}, Statuses(summary))
}

func TestCollectorsAreIndependent(t *testing.T) {
	first, second := NewCollector(), NewCollector()
	first.RecordTransaction("swap", StatusConfirmed, time.Millisecond)

	summary, err := second.Summary()
	require.NoError(t, err)
	assert.Empty(t, summary)
}
