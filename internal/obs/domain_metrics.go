package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// QuotesComputedTotal counts computed quotes by booking kind.
	QuotesComputedTotal *prometheus.CounterVec
	// CatalogLoadsTotal counts catalog snapshot load attempts by result.
	CatalogLoadsTotal *prometheus.CounterVec
	// OrderEventsTotal counts emitted order lifecycle events by topic.
	OrderEventsTotal *prometheus.CounterVec
	// CatalogEntries reports the size of the current catalog snapshot.
	CatalogEntries *prometheus.GaugeVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		QuotesComputedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_computed_total",
			Help:      "Count of computed booking quotes by kind.",
		}, []string{"kind"})
		CatalogLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_loads_total",
			Help:      "Count of catalog snapshot load attempts by result.",
		}, []string{"result"})
		OrderEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_events_total",
			Help:      "Count of emitted order lifecycle events by topic.",
		}, []string{"topic"})
		CatalogEntries = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_entries",
			Help:      "Entries in the current catalog snapshot by entity.",
		}, []string{"entity"})

		registerDomainCollector(reg, QuotesComputedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				QuotesComputedTotal = v
			}
		})
		registerDomainCollector(reg, CatalogLoadsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CatalogLoadsTotal = v
			}
		})
		registerDomainCollector(reg, OrderEventsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				OrderEventsTotal = v
			}
		})
		registerDomainCollector(reg, CatalogEntries, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.GaugeVec); ok {
				CatalogEntries = v
			}
		})
	})
}

func registerDomainCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
