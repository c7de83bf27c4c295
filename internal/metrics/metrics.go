// Package metrics holds the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ration_orders_placed_total",
		Help: "Orders committed successfully.",
	})

	OrdersRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ration_orders_rejected_total",
		Help: "Orders rejected before commit, by reason.",
	}, []string{"reason"})

	OTPIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ration_otp_issued_total",
		Help: "One-time codes generated and stored.",
	})

	OTPVerified = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ration_otp_verified_total",
		Help: "One-time codes verified successfully.",
	})

	NotificationsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ration_notifications_published_total",
		Help: "Area notifications published.",
	})

	StaleItemsPurged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ration_stale_items_purged_total",
		Help: "Ration items removed by the stale-stock sweeper.",
	})
)
