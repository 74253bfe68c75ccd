package catalog

import "github.com/prometheus/client_golang/prometheus"

const (
	labelSource = "source"
	labelResult = "result"
	labelKind   = "kind"
)

type StoreMetrics struct {
	Loads *prometheus.CounterVec
	Items *prometheus.GaugeVec
}

func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		Loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_load_total",
				Help: "Catalog load attempts",
			},
			[]string{labelSource, labelResult},
		),
		Items: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "catalog_items",
				Help: "Items in the loaded catalog",
			},
			[]string{labelKind},
		),
	}

	reg.MustRegister(m.Loads, m.Items)
	return m
}

func (m *StoreMetrics) observe(source string, c *Catalog, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.Loads.WithLabelValues(source, "error").Inc()
		return
	}
	m.Loads.WithLabelValues(source, "ok").Inc()
	m.Items.WithLabelValues("products").Set(float64(len(c.Products)))
	m.Items.WithLabelValues("categories").Set(float64(len(c.Categories)))
}
