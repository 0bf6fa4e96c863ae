// internal/utils/metrics/metrics.go
package metrics

import (
	"time"
)

// Recorder принимает результат одной отправки транзакции
type Recorder interface {
	RecordTransaction(label, status string, duration time.Duration)
}

// Nop ничего не записывает
type Nop struct{}

func (Nop) RecordTransaction(string, string, time.Duration) {}

var (
	_ Recorder = (*Collector)(nil)
	_ Recorder = Nop{}
)
