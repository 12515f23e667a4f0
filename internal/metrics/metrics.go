package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	StoreOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loyalty_store_ops_total",
			Help: "Document store operations by op and result",
		},
		[]string{"op", "result"}, // get|query|count|put|merge|delete , ok|error
	)

	DegradedReadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loyalty_degraded_reads_total",
			Help: "Dashboard reads served with zero or sentinel values",
		},
		[]string{"component", "reason"}, // kpis|top_customers , missing|store_error
	)

	TierEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loyalty_tier_events_total",
			Help: "Tier change events by type and publish result",
		},
		[]string{"type", "result"}, // tier.upserted|tier.deleted , published|failed
	)

	ArchivedRowsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "loyalty_archived_rows_total",
			Help: "Sales rows written to the report archive",
		},
	)

	ArchiveBatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loyalty_archive_batches_total",
			Help: "Archiver batches by result",
		},
		[]string{"result"}, // ok|error|empty
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		StoreOpsTotal,
		DegradedReadsTotal,
		TierEventsTotal,
		ArchivedRowsTotal,
		ArchiveBatchesTotal,
	)
}
