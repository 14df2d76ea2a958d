// Package metrics exposes Prometheus counters for pipeline activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"feiralens/pkg/contracts/domain"
)

// Recorder registers and updates the pipeline counter set.
type Recorder struct {
	filesProcessed *prometheus.CounterVec
	linesParsed    prometheus.Counter
	linesDiscarded prometheus.Counter
	salesGenerated prometheus.Counter
	duplicates     prometheus.Counter
}

// NewRecorder creates a recorder and registers its collectors with the given
// registerer. Pass prometheus.DefaultRegisterer in production wiring.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		filesProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "feiralens",
			Subsystem: "pipeline",
			Name:      "files_processed_total",
			Help:      "Input files processed, labeled by file kind.",
		}, []string{"kind"}),
		linesParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "feiralens",
			Subsystem: "pipeline",
			Name:      "lines_parsed_total",
			Help:      "Input lines successfully parsed into line items.",
		}),
		linesDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "feiralens",
			Subsystem: "pipeline",
			Name:      "lines_discarded_total",
			Help:      "Input lines discarded during parsing.",
		}),
		salesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "feiralens",
			Subsystem: "pipeline",
			Name:      "sales_generated_total",
			Help:      "Sale records generated before deduplication.",
		}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "feiralens",
			Subsystem: "pipeline",
			Name:      "duplicate_sales_removed_total",
			Help:      "Sale records dropped by deduplication.",
		}),
	}

	reg.MustRegister(r.filesProcessed, r.linesParsed, r.linesDiscarded, r.salesGenerated, r.duplicates)
	return r
}

// ObserveFile records the outcome of one processed file.
func (r *Recorder) ObserveFile(kind string, counters domain.LineCounters, sales int) {
	r.filesProcessed.WithLabelValues(kind).Inc()
	r.linesParsed.Add(float64(counters.Parsed))
	r.linesDiscarded.Add(float64(counters.Discarded))
	r.salesGenerated.Add(float64(sales))
}

// ObserveDuplicates records sales removed by deduplication.
func (r *Recorder) ObserveDuplicates(removed int) {
	r.duplicates.Add(float64(removed))
}
