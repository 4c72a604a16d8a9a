package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// FanoutNotifications counts fan-out notification writes by outcome.
	FanoutNotifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_fanout_notifications_total",
		Help: "Total number of notifications written by the publish fan-out, by outcome",
	}, []string{"outcome"})

	// PostsPublished counts successful draft->published transitions.
	PostsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_posts_published_total",
		Help: "Total number of posts published",
	})
)

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the request-level Prometheus middleware handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
