package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// Snapshot metrics are stored as jsonb and re-read as "previous" on the next
// run, so the key set and decimal encoding are a persistence contract.
func TestMetricsJSONContract(t *testing.T) {
	data, err := json.Marshal(DemoMetrics())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{
		"revenue", "costs", "profit",
		"invoices_sent", "invoices_paid",
		"outstanding_total", "outstanding_overdue",
		"top_customers", "overdue_invoices",
	} {
		require.Contains(t, decoded, key)
	}

	var roundTripped Metrics
	require.NoError(t, json.Unmarshal(data, &roundTripped))
	requireDec(t, "24750.00", roundTripped.Revenue)
	require.Len(t, roundTripped.TopCustomers, 3)
	require.Equal(t, 21, roundTripped.OverdueInvoices[0].DaysOverdue)
}
