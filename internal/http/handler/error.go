package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog"

	"textok/internal/http/middleware"
	"textok/internal/http/rsdata"
	"textok/internal/model"
	"textok/internal/service"
)

// ErrorHandler returns a Fiber global error handler that writes every error
// as a response envelope. Service errors keep their code; framework errors
// get a generic "<status>-1" code; anything else is logged and reported as
// 500-1 without details.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if se, ok := service.AsError(err); ok {
			return rsdata.Error(c, se)
		}

		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return rsdata.Send(c, "400-1", "bad request", nil)
		case fiber.StatusNotFound:
			return rsdata.Send(c, "404-1", "resource not found", nil)
		case fiber.StatusMethodNotAllowed:
			return rsdata.Send(c, "405-1", "method not allowed", nil)
		}

		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("request_id", middleware.RequestIDFrom(c)).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("request_failed")
			return rsdata.Send(c, "500-1", "internal server error", nil)
		}
		return rsdata.Send(c, strconv.Itoa(status)+"-1", utils.StatusMessage(status), nil)
	}
}

// principal returns the authenticated caller or a 401 service error.
func principal(c *fiber.Ctx) (*model.Principal, error) {
	p := middleware.PrincipalFrom(c)
	if p == nil {
		return nil, service.ErrAuthenticationRequired
	}
	return p, nil
}

// ok writes a 200-1 envelope.
func ok(c *fiber.Ctx, message string, data any) error {
	return rsdata.Send(c, "200-1", message, data)
}
