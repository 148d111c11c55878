package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
)

// PayloadObserver получает размер каждого принятого тела /echo.
type PayloadObserver interface {
	ObservePayload(size int)
}

type EchoHandler struct {
	Pod      string
	Observer PayloadObserver
}

// NewEchoHandler создает обработчик эха с идентификатором экземпляра, вычисленным при старте.
func NewEchoHandler(pod string, observer PayloadObserver) *EchoHandler {
	return &EchoHandler{Pod: pod, Observer: observer}
}

type EchoResponse struct {
	Pod     string          `json:"pod"`
	Payload json.RawMessage `json:"payload"`
}

// Echo возвращает тело запроса без изменений вместе с идентификатором экземпляра.
func (h *EchoHandler) Echo(c echo.Context) error {
	payload, err := readPayload(c.Request().Body)
	if err != nil {
		if errors.Is(err, ErrMalformedInput) {
			return badRequest(c, ErrMalformedInput.Error())
		}
		return err
	}

	if h.Observer != nil {
		h.Observer.ObservePayload(len(payload))
	}

	return c.JSON(http.StatusOK, EchoResponse{Pod: h.Pod, Payload: payload})
}

// readPayload принимает ровно одно JSON-значение любого вида.
func readPayload(body io.Reader) (json.RawMessage, error) {
	if body == nil {
		return nil, ErrMalformedInput
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	// JSON между системами обязан быть в UTF-8, json.Valid это не проверяет.
	if !utf8.Valid(raw) || !json.Valid(raw) {
		return nil, ErrMalformedInput
	}

	return json.RawMessage(raw), nil
}
