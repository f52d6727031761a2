package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "food_ordering_orders_placed_total",
		Help: "The total number of orders placed",
	})

	ordersDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "food_ordering_orders_delivered_total",
		Help: "The total number of orders delivered",
	})

	ordersCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "food_ordering_orders_cancelled_total",
		Help: "The total number of orders cancelled",
	})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "food_ordering_request_duration_seconds",
		Help:    "Time spent handling requests",
		Buckets: prometheus.DefBuckets,
	})
)

func metricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		requestDuration.Observe(time.Since(start).Seconds())
		return err
	}
}
