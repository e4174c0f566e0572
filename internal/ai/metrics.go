package ai

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK       = "ok"
	outcomeFallback = "fallback"
	outcomeError    = "error"
	outcomeDisabled = "disabled"
)

var calls = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "cms",
	Subsystem: "ai",
	Name:      "calls_total",
	Help:      "AI gateway operations by outcome.",
}, []string{"operation", "outcome"})

func observe(op, outcome string) {
	calls.WithLabelValues(op, outcome).Inc()
}
