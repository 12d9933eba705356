package cooking

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "myrecipes_cooking_sessions_active",
			Help: "Number of hosted cooking sessions",
		},
	)

	sessionsOpened = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "myrecipes_cooking_sessions_opened_total",
			Help: "Total number of cooking sessions opened",
		},
	)

	sessionsReaped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "myrecipes_cooking_sessions_reaped_total",
			Help: "Total number of idle cooking sessions closed by the reaper",
		},
	)

	notificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "myrecipes_cooking_notifications_total",
			Help: "Cooking notifications by title",
		},
		[]string{"title"},
	)
)

// countingNotifier records every notification in notificationsSent.
type countingNotifier struct{}

func (countingNotifier) Notify(_ context.Context, title, _ string) error {
	notificationsSent.WithLabelValues(title).Inc()
	return nil
}
