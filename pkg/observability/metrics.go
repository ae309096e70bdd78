package observability

import (
	"context"

	"github.com/aretw0/tabula/pkg/catalog"
	"github.com/aretw0/tabula/pkg/xref"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for catalog loading.
type Metrics struct {
	tablesLoaded  *prometheus.CounterVec
	tableFailures *prometheus.CounterVec
	records       *prometheus.GaugeVec
	tableDuration *prometheus.HistogramVec
	loadDuration  prometheus.Histogram
	dangling      *prometheus.GaugeVec
	reloads       *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		tablesLoaded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tabula_tables_loaded_total",
				Help: "Total number of successful table loads",
			},
			[]string{"table"},
		),
		tableFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tabula_table_load_failures_total",
				Help: "Total number of failed table loads",
			},
			[]string{"table"},
		),
		records: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tabula_table_records",
				Help: "Number of records in the last successful load of a table",
			},
			[]string{"table"},
		),
		tableDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "tabula_table_load_duration_seconds",
				Help: "Duration of single table loads",
			},
			[]string{"table"},
		),
		loadDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name: "tabula_catalog_load_duration_seconds",
				Help: "Duration of whole catalog loads",
			},
		),
		dangling: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tabula_dangling_references",
				Help: "Dangling references found by the last validation, per source table and field",
			},
			[]string{"table", "field"},
		),
		reloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tabula_reloads_total",
				Help: "Total number of catalog reloads by result",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(m.tablesLoaded, m.tableFailures, m.records, m.tableDuration, m.loadDuration, m.dangling, m.reloads)
	return m
}

// Hooks returns loader hooks that record table and catalog metrics.
func (m *Metrics) Hooks() catalog.Hooks {
	return catalog.Hooks{
		OnTableLoaded: func(_ context.Context, e *catalog.TableEvent) {
			m.tablesLoaded.WithLabelValues(e.Table).Inc()
			m.records.WithLabelValues(e.Table).Set(float64(e.Records))
			m.tableDuration.WithLabelValues(e.Table).Observe(e.Duration.Seconds())
		},
		OnTableFailed: func(_ context.Context, e *catalog.TableEvent) {
			m.tableFailures.WithLabelValues(e.Table).Inc()
		},
		OnCatalogLoaded: func(_ context.Context, e *catalog.CatalogEvent) {
			m.loadDuration.Observe(e.Duration.Seconds())
		},
	}
}

// ObserveReferences replaces the dangling reference gauges with the counts of report.
func (m *Metrics) ObserveReferences(report *xref.Report) {
	m.dangling.Reset()
	for _, v := range report.Violations {
		m.dangling.WithLabelValues(v.Source, v.Field).Inc()
	}
}

// ObserveReload counts a reload attempt.
func (m *Metrics) ObserveReload(err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.reloads.WithLabelValues(result).Inc()
}
