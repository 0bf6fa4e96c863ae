// internal/utils/metrics/collector.go
package metrics

import (
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Статусы отправки транзакций
const (
	StatusConfirmed   = "confirmed"
	StatusRejected    = "rejected"
	StatusUnconfirmed = "unconfirmed"
	StatusBuildFailed = "build_failed"
)

const namespace = "swapdemo"

// Collector держит метрики прогона в собственном реестре, поэтому
// несколько коллекторов не конфликтуют между собой.
type Collector struct {
	registry            *prometheus.Registry
	transactionCounter  *prometheus.CounterVec
	transactionDuration *prometheus.HistogramVec
}

// NewCollector создает новый экземпляр коллектора метрик
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		transactionCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_total",
				Help:      "Total number of transactions submitted",
			},
			[]string{"status", "label"},
		),
		transactionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transaction_duration_seconds",
				Help:      "Time from build to confirmation in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{"label"},
		),
	}
	c.registry.MustRegister(c.transactionCounter, c.transactionDuration)
	return c
}

// Registry возвращает реестр для экспорта
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordTransaction records transaction metrics
func (c *Collector) RecordTransaction(label, status string, duration time.Duration) {
	c.transactionCounter.WithLabelValues(status, label).Inc()
	c.transactionDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// Summary возвращает количество транзакций по статусам
func (c *Collector) Summary() (map[string]uint64, error) {
	families, err := c.registry.Gather()
	if err != nil {
		return nil, err
	}
	out := make(map[string]uint64)
	for _, family := range families {
		if family.GetName() != namespace+"_transactions_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			out[labelValue(metric, "status")] += uint64(metric.GetCounter().GetValue())
		}
	}
	return out, nil
}

// Statuses возвращает статусы из Summary в стабильном порядке
func Statuses(summary map[string]uint64) []string {
	keys := make([]string, 0, len(summary))
	for k := range summary {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func labelValue(metric *dto.Metric, name string) string {
	for _, pair := range metric.GetLabel() {
		if pair.GetName() == name {
			return pair.GetValue()
		}
	}
	return ""
}
