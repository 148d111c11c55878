package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type HealthResponse struct {
	Status string `json:"status"`
}

type TimeResponse struct {
	Epoch int64 `json:"epoch"`
}

// Health отвечает постоянным {"status":"ok"}, тело запроса не читается.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

type TimeHandler struct {
	Now func() time.Time
}

// NewTimeHandler создает обработчик текущего времени. nil означает time.Now.
func NewTimeHandler(now func() time.Time) *TimeHandler {
	if now == nil {
		now = time.Now
	}
	return &TimeHandler{Now: now}
}

// Time возвращает число целых секунд с начала эпохи Unix на момент запроса.
func (h *TimeHandler) Time(c echo.Context) error {
	return c.JSON(http.StatusOK, TimeResponse{Epoch: h.Now().Unix()})
}
