package http

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/smartpersona/backend/internal/observability"
	apperrors "github.com/smartpersona/backend/pkg/util/errorutil"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(observability.RequestLogger(logger, metrics))
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := toDomainError(err)
				metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
				response := fiber.Map{"error": fiber.Map{
					"code":    domainErr.Code,
					"message": domainErr.Message,
				}}
				if len(domainErr.Details) > 0 {
					response["error"].(fiber.Map)["details"] = domainErr.Details
				}
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.String("path", c.Path()), zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}

// toDomainError also covers errors raised by fiber itself, such as unknown
// routes, so they keep their status instead of collapsing to 500.
func toDomainError(err error) *apperrors.DomainError {
	var fiberErr *fiber.Error
	if !errors.As(err, &fiberErr) {
		return apperrors.ToDomainError(err)
	}
	switch fiberErr.Code {
	case http.StatusNotFound:
		return apperrors.NewDomainError(apperrors.CodeNotFound, "resource not found", fiberErr.Code, nil)
	case http.StatusMethodNotAllowed:
		return apperrors.NewDomainError("METHOD_NOT_ALLOWED", "method not allowed", fiberErr.Code, nil)
	case http.StatusUnauthorized:
		return apperrors.NewDomainError(apperrors.CodeUnauthorized, "unauthorized", fiberErr.Code, nil)
	case http.StatusTooManyRequests:
		return apperrors.NewDomainError(apperrors.CodeTooManyRequests, "too many requests, try again later", fiberErr.Code, nil)
	}
	if fiberErr.Code >= 400 && fiberErr.Code < 500 {
		return apperrors.NewDomainError(apperrors.CodeValidationFailed, "invalid request", http.StatusBadRequest, nil)
	}
	return apperrors.ToDomainError(err)
}
