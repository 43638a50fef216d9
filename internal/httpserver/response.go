package httpserver

import "github.com/labstack/echo/v4"

type envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func success(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, envelope{StatusCode: status, Data: data, Message: message, Success: true})
}

func failure(c echo.Context, status int, message string) error {
	return c.JSON(status, envelope{StatusCode: status, Message: message})
}
