// Package rsdata writes the JSON envelope every API response shares.
package rsdata

import (
	"github.com/gofiber/fiber/v2"

	"textok/internal/service"
)

// RsData is the response envelope. ResultCode follows the "<status>-<n>"
// convention and the HTTP status always matches its numeric prefix.
type RsData struct {
	ResultCode string `json:"resultCode"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
}

// Send writes an envelope with the status derived from code.
func Send(c *fiber.Ctx, code, message string, data any) error {
	status := (&service.Error{Code: code}).Status()
	return c.Status(status).JSON(RsData{ResultCode: code, Message: message, Data: data})
}

// Error writes a service error as an envelope with no data.
func Error(c *fiber.Ctx, e *service.Error) error {
	return Send(c, e.Code, e.Message, nil)
}
