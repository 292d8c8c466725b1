package monitoring

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsPath = "/metrics"

// Middleware records request counts and durations labelled with the matched
// route pattern, so /posts/status/:id is one series rather than one per id.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == metricsPath {
			// skip collecting metrics from the metrics endpoint itself
			return c.Next()
		}

		ActiveConnections.Inc()
		defer ActiveConnections.Dec()

		start := time.Now()
		err := c.Next()

		path := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		HTTPRequestsTotal.WithLabelValues(path, c.Method(), strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
		return err
	}
}

func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
