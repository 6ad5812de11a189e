package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	Training   = "training"
	Validation = "validation"
	Test       = "test"
)

var Observer = &Metrics{
	mutex:      new(sync.RWMutex),
	prometheus: NewPrometheusMetrics(),
	latest:     make(map[string]float64),
}

func init() {
	prometheus.MustRegister(Observer.prometheus.collectors()...)
}

// Metrics records the training progress of the models.
type Metrics struct {
	mutex      *sync.RWMutex
	prometheus Prometheus
	latest     map[string]float64
}

func (m *Metrics) Loss(model, subset string, loss float64) {
	m.set(model+"/loss/"+subset, loss)
	m.prometheus.Loss.WithLabelValues(model, subset).Set(loss)
}

func (m *Metrics) Accuracy(model, subset string, accuracy float64) {
	m.set(model+"/accuracy/"+subset, accuracy)
	m.prometheus.Accuracy.WithLabelValues(model, subset).Set(accuracy)
}

func (m *Metrics) Steps(model string, steps int) {
	m.prometheus.Steps.WithLabelValues(model).Add(float64(steps))
}

// Latest returns the last value recorded for the key, e.g. "dnn/loss/validation".
func (m *Metrics) Latest(key string) (float64, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	v, ok := m.latest[key]
	return v, ok
}

func (m *Metrics) set(key string, v float64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.latest[key] = v
}
