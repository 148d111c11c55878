package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

var ErrMalformedInput = errors.New("malformed input")

type ErrorResponse struct {
	Error string `json:"error"`
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}
