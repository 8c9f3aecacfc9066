package observability

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	sessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "simgate",
			Subsystem: "server",
			Name:      "sessions_active",
			Help:      "Currently connected client sessions.",
		},
	)
	sessionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "simgate",
			Subsystem: "server",
			Name:      "sessions_total",
			Help:      "Total accepted client sessions.",
		},
	)
	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "simgate",
			Subsystem: "dispatch",
			Name:      "commands_total",
			Help:      "Dispatched commands by verb and outcome.",
		},
		[]string{"verb", "outcome"},
	)
	commandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "simgate",
			Subsystem: "dispatch",
			Name:      "command_duration_seconds",
			Help:      "Command handler duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"verb"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(sessionsActive, sessionsTotal, commandsTotal, commandDuration)
	})
}

func SessionOpened() {
	RegisterMetrics()
	sessionsTotal.Inc()
	sessionsActive.Inc()
}

func SessionClosed() {
	RegisterMetrics()
	sessionsActive.Dec()
}

func CommandDispatched(command string, ok bool, duration time.Duration) {
	RegisterMetrics()
	verb := commandVerb(command)
	outcome := "error"
	if ok {
		outcome = "ok"
	}
	commandsTotal.WithLabelValues(verb, outcome).Inc()
	commandDuration.WithLabelValues(verb).Observe(duration.Seconds())
}

func commandVerb(command string) string {
	verb, _, _ := strings.Cut(strings.TrimSpace(command), " ")
	switch verb {
	case "vget", "vset", "vrun", "vexec":
		return verb
	default:
		return "other"
	}
}
