package messages

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var histogramResponseTime = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "moneyezy",
		Subsystem: "telegram",
		Name:      "histogram_response_time_seconds",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
	},
	[]string{"kind", "status"},
)

var counterCommands = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "moneyezy",
		Subsystem: "telegram",
		Name:      "commands_total",
	},
	[]string{"command"},
)

func observeResponse(elapsed time.Duration, kind string, err bool) {
	histogramResponseTime.
		WithLabelValues(kind, strconv.FormatBool(err)).
		Observe(elapsed.Seconds())
}

func countCommand(cmd string) {
	if cmd == "" {
		cmd = "none"
	}
	counterCommands.WithLabelValues(cmd).Inc()
}
