package server

import (
	"github.com/labstack/echo/v4"

	"example.com/pod-echo/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	timeHandler *handlers.TimeHandler,
	echoHandler *handlers.EchoHandler,
	metricsHandler echo.HandlerFunc,
) {
	e.GET("/health", handlers.Health)
	e.GET("/time", timeHandler.Time)
	e.POST("/echo", echoHandler.Echo)

	if metricsHandler != nil {
		e.GET("/metrics", metricsHandler)
	}
}
