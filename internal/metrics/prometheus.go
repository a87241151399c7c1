package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const promNamespace = "kc_strategy_bot"

type promCounter struct {
	counter prometheus.Counter
}

func (p promCounter) Inc() {
	p.counter.Inc()
}

type Prometheus struct {
	Metrics *Metrics

	registry *prometheus.Registry
}

func NewPrometheus() *Prometheus {
	registry := prometheus.NewRegistry()
	ticks := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "scheduler_ticks_total",
		Help:      "Total number of scheduler ticks.",
	})
	executed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "actions_executed_total",
		Help:      "Total number of strategy actions executed successfully.",
	})
	failed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "actions_failed_total",
		Help:      "Total number of strategy action failures.",
	})
	refreshFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "snapshot_refresh_failures_total",
		Help:      "Total number of market data refresh failures.",
	})
	notifyFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "notifier_failures_total",
		Help:      "Total number of notification delivery failures.",
	})

	registry.MustRegister(ticks, executed, failed, refreshFailed, notifyFailed)

	return &Prometheus{
		Metrics: &Metrics{
			SchedulerTicks:   promCounter{ticks},
			ActionsExecuted:  promCounter{executed},
			ActionsFailed:    promCounter{failed},
			RefreshFailures:  promCounter{refreshFailed},
			NotifierFailures: promCounter{notifyFailed},
		},
		registry: registry,
	}
}

func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
