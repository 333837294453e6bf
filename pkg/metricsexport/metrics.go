// Package metricsexport adapts the engine's operator statistics and
// novelty snapshots onto Prometheus gauges, the way the teacher's
// monitoring/prometheus client exposes chaos-run state for scraping.
package metricsexport

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/llmsec/mutation-engine/pkg/mutate"
)

// Exporter owns a dedicated Prometheus registry populated from the
// engine's in-process stats/novelty state on each Collect call.
type Exporter struct {
	registry *prometheus.Registry

	opPassTotal    *prometheus.GaugeVec
	opFailTotal    *prometheus.GaugeVec
	opUnknownTotal *prometheus.GaugeVec
	opPassRate     *prometheus.GaugeVec
	opEmaScore     *prometheus.GaugeVec

	noveltyUniqueRatio *prometheus.GaugeVec
	noveltyTotal       *prometheus.GaugeVec
}

// NewExporter builds an Exporter with its own isolated registry so
// embedding callers never collide with a global default registry.
func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		opPassTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mutation_op_pass_total", Help: "Count of PASS verdicts per operator/bucket.",
		}, []string{"op_id", "bucket_id"}),
		opFailTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mutation_op_fail_total", Help: "Count of FAIL verdicts per operator/bucket.",
		}, []string{"op_id", "bucket_id"}),
		opUnknownTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mutation_op_unknown_total", Help: "Count of UNKNOWN verdicts per operator/bucket.",
		}, []string{"op_id", "bucket_id"}),
		opPassRate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mutation_op_pass_rate", Help: "Pass rate per operator/bucket.",
		}, []string{"op_id", "bucket_id"}),
		opEmaScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mutation_op_oracle_score_ema", Help: "Exponential moving average of the oracle score per operator/bucket.",
		}, []string{"op_id", "bucket_id"}),
		noveltyUniqueRatio: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mutation_novelty_unique_ratio", Help: "unique/total content hash ratio per bucket.",
		}, []string{"bucket_id"}),
		noveltyTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mutation_novelty_total", Help: "Total children observed per bucket for novelty accounting.",
		}, []string{"bucket_id"}),
	}

	e.registry.MustRegister(
		e.opPassTotal, e.opFailTotal, e.opUnknownTotal, e.opPassRate, e.opEmaScore,
		e.noveltyUniqueRatio, e.noveltyTotal,
	)
	return e
}

// Registry exposes the underlying prometheus.Registry for an HTTP handler
// (e.g. promhttp.HandlerFor) to serve.
func (e *Exporter) Registry() *prometheus.Registry { return e.registry }

// Update overwrites every gauge from the current state of stats and
// novelty. Labels not present in the new snapshot keep their last value;
// callers that need strict reset-between-scrapes semantics should build a
// fresh Exporter per batch.
func (e *Exporter) Update(stats *mutate.OperatorStatsByBucket, novelty *mutate.NoveltyTracker) {
	if stats != nil {
		for _, s := range stats.Snapshot() {
			labels := prometheus.Labels{"op_id": s.OpID, "bucket_id": s.BucketID}
			e.opPassTotal.With(labels).Set(float64(s.NPass))
			e.opFailTotal.With(labels).Set(float64(s.NFail))
			e.opUnknownTotal.With(labels).Set(float64(s.NUnknown))
			e.opPassRate.With(labels).Set(s.PassRate)
			e.opEmaScore.With(labels).Set(s.EmaOracleScore)
		}
	}
	if novelty != nil {
		for _, n := range novelty.Snapshot() {
			labels := prometheus.Labels{"bucket_id": n.BucketID}
			e.noveltyUniqueRatio.With(labels).Set(n.UniqueRatio)
			e.noveltyTotal.With(labels).Set(float64(n.Total))
		}
	}
}
