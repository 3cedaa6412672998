package router

import (
	"catalog/pkg/httperror"
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Request any
type Response any

type HandlerInterface[R Request, Res Response] interface {
	Handle(ctx context.Context, req *R) (*Res, error)
}

// statusCoder lets a response pick its success status. Anything else is 200.
type statusCoder interface {
	StatusCode() int
}

// Handle adapts a typed handler to fiber: body, path, query and header
// values are decoded into R before the handler runs.
func Handle[R Request, Res Response](handler HandlerInterface[R, Res]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req R

		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
				return WriteError(c, httperror.BadRequest(
					"request.invalid_body",
					"Invalid body",
					fiber.Map{"error": err.Error()},
				))
			}
		}

		if err := c.ParamsParser(&req); err != nil {
			return WriteError(c, httperror.BadRequest(
				"request.invalid_path_params",
				"Invalid path params",
				fiber.Map{"error": err.Error()},
			))
		}

		if err := c.QueryParser(&req); err != nil {
			return WriteError(c, httperror.BadRequest(
				"request.invalid_query_params",
				"Invalid query params",
				fiber.Map{"error": err.Error()},
			))
		}

		if err := c.ReqHeaderParser(&req); err != nil {
			return WriteError(c, httperror.BadRequest(
				"request.invalid_headers",
				"Invalid headers",
				fiber.Map{"error": err.Error()},
			))
		}

		res, err := handler.Handle(c.UserContext(), &req)
		if err != nil {
			return WriteError(c, err)
		}

		status := fiber.StatusOK
		if sc, ok := any(res).(statusCoder); ok {
			status = sc.StatusCode()
		}

		if status == fiber.StatusNoContent {
			return c.SendStatus(status)
		}

		return c.Status(status).JSON(res)
	}
}

// WriteError renders err as the JSON error envelope. Internals of unexpected
// errors are logged, never returned.
func WriteError(c *fiber.Ctx, err error) error {
	var httpErr *httperror.Error
	if errors.As(err, &httpErr) {
		payload := fiber.Map{
			"error":   true,
			"code":    httpErr.Code,
			"message": httpErr.Message,
		}

		switch details := httpErr.Details.(type) {
		case nil:
		case map[string][]string:
			payload["errors"] = details
		default:
			payload["details"] = details
		}

		if httpErr.Status >= fiber.StatusInternalServerError {
			zap.L().Error("Handler returned server error", zap.String("code", httpErr.Code), zap.Error(httpErr))
		} else {
			zap.L().Warn("Handler returned client error", zap.String("code", httpErr.Code), zap.Error(httpErr))
		}

		return c.Status(httpErr.Status).JSON(payload)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code == fiber.StatusNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   true,
				"code":    "route.not_found",
				"message": "Resource not found.",
			})
		}

		zap.L().Warn("Fiber request error", zap.String("message", fiberErr.Message), zap.Error(err))
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error":   true,
			"code":    "request.invalid",
			"message": fiberErr.Message,
		})
	}

	zap.L().Error("Unhandled error", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   true,
		"code":    "internal_server_error",
		"message": "Internal server error.",
	})
}
