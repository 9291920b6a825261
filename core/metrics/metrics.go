// Package metrics exposes the bot's Prometheus collectors. They are served
// by the ops listener at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpdatesReceived counts inbound Telegram updates by kind.
	UpdatesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kinobot_updates_received_total",
		Help: "Inbound Telegram updates by kind.",
	}, []string{"kind"})

	// RepliesSent counts outbound replies by delivery status.
	RepliesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kinobot_replies_sent_total",
		Help: "Outbound replies by delivery status.",
	}, []string{"status"})

	// StoreWrites counts subscriber store persistence attempts by status.
	StoreWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kinobot_store_writes_total",
		Help: "Subscriber store persistence attempts by status.",
	}, []string{"status"})
)

// RegisterSubscribersGauge exposes the current subscriber count as a gauge.
// The callback runs at scrape time.
func RegisterSubscribersGauge(count func() float64) {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "kinobot_subscribers",
		Help: "Current number of subscribers.",
	}, count)
}
