package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "podecho"

// Collector собирает HTTP-метрики сервиса в собственном реестре.
type Collector struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	payloadBytes    prometheus.Histogram
	instanceInfo    *prometheus.GaugeVec
}

// NewCollector создает коллектор и отмечает экземпляр в podecho_instance_info.
func NewCollector(pod string) *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)

	c := &Collector{
		registry: registry,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		payloadBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "echo_payload_bytes",
				Help:      "Size of accepted /echo request bodies in bytes",
				Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
			},
		),
		instanceInfo: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "instance_info",
				Help:      "Identity of the responding process instance",
			},
			[]string{"pod"},
		),
	}

	c.instanceInfo.WithLabelValues(pod).Set(1)

	return c
}

// ObservePayload записывает размер принятого тела /echo.
func (c *Collector) ObservePayload(size int) {
	c.payloadBytes.Observe(float64(size))
}

// Handler отдает метрики в формате Prometheus.
func (c *Collector) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry}))
}

// Middleware считает запросы и их длительность по шаблону маршрута.
func (c *Collector) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()

			err := next(ctx)

			status := ctx.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			route := ctx.Path()
			if route == "" {
				route = "unmatched"
			}

			method := ctx.Request().Method
			c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			c.requestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())

			return err
		}
	}
}
