package metricsexport_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/llmsec/mutation-engine/pkg/metricsexport"
	"github.com/llmsec/mutation-engine/pkg/mutate"
)

func TestExporter_UpdatePopulatesGauges(t *testing.T) {
	stats := mutate.NewOperatorStatsByBucket()
	stats.ReportResult("op_a", "B", "PASS", 0, false, 1)
	stats.ReportResult("op_a", "B", "FAIL", 0, false, 2)

	novelty := mutate.NewNoveltyTracker()
	novelty.MarkSeen("B", "x")
	novelty.MarkSeen("B", "x")

	e := metricsexport.NewExporter()
	e.Update(stats, novelty)

	count, err := testutil.GatherAndCount(e.Registry())
	assert.NoError(t, err)
	assert.Greater(t, count, 0)
}
