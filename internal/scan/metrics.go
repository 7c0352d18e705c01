package scan

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics collects scan counters on a private registry so a batch run can push
// them to a Pushgateway once it is done. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	records  prometheus.Counter
	satoshis prometheus.Counter
	heights  prometheus.Gauge
	duration prometheus.Gauge
	lastRun  prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "utxo_aggregator",
			Name:      "records_scanned_total",
			Help:      "Coin records decoded from the chainstate.",
		}),
		satoshis: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "utxo_aggregator",
			Name:      "satoshis_scanned_total",
			Help:      "Sum of decoded coin amounts in satoshis.",
		}),
		heights: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "utxo_aggregator",
			Name:      "heights",
			Help:      "Distinct block heights holding unspent outputs.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "utxo_aggregator",
			Name:      "scan_duration_seconds",
			Help:      "Wall time of the last completed scan.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "utxo_aggregator",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last completed scan.",
		}),
	}
	m.registry.MustRegister(m.records, m.satoshis, m.heights, m.duration, m.lastRun)
	return m
}

func (m *Metrics) observeRecord(amount uint64) {
	if m == nil {
		return
	}
	m.records.Inc()
	m.satoshis.Add(float64(amount))
}

func (m *Metrics) observeScan(stats Stats) {
	if m == nil {
		return
	}
	m.duration.Set(stats.Duration.Seconds())
	m.lastRun.SetToCurrentTime()
}

func (m *Metrics) observeHeights(n int) {
	if m == nil {
		return
	}
	m.heights.Set(float64(n))
}

// Push sends the collected metrics to a Pushgateway under job.
func (m *Metrics) Push(url, job string) error {
	return push.New(url, job).Gatherer(m.registry).Push()
}
