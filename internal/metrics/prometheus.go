package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus holds the collectors of the training progress.
type Prometheus struct {
	Loss     *prometheus.GaugeVec
	Accuracy *prometheus.GaugeVec
	Steps    *prometheus.CounterVec
}

func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Loss: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "digits",
				Name:      "log_loss",
			}, []string{"model", "subset"}),
		Accuracy: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "digits",
				Name:      "accuracy",
			}, []string{"model", "subset"}),
		Steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "digits",
				Name:      "training_steps",
			}, []string{"model"}),
	}
}

func (p Prometheus) collectors() []prometheus.Collector {
	return []prometheus.Collector{p.Loss, p.Accuracy, p.Steps}
}
