package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/AbhignaKuchukulla/Issueflow/internal/observability"
	apperrors "github.com/AbhignaKuchukulla/Issueflow/pkg/util/errorutil"
)

// NewApp builds the fiber app. Immutable copies params, queries and bodies out of
// the fasthttp buffers, so ids and names stored in the document stay valid after
// the request is recycled.
func NewApp(name string) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               name,
		DisableStartupMessage: true,
		Immutable:             true,
	})
}

// RegisterMiddlewares attaches global middlewares. The request logger sits
// outermost so it observes the status written by the error handler.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration, allowedOrigins string) {
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	app.Use(errorHandlingMiddleware(logger, metrics))
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
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
				domainErr := apperrors.ToDomainError(err)
				metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.String("path", c.Path()), zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(errorBody(domainErr))
				err = nil
			}
		}()
		return c.Next()
	}
}

func errorBody(err *apperrors.DomainError) fiber.Map {
	if err.Code == apperrors.CodeValidation {
		violations := err.Violations
		if len(violations) == 0 {
			violations = []string{err.Message}
		}
		return fiber.Map{"errors": violations}
	}
	body := fiber.Map{"error": err.Code, "message": err.Message}
	if len(err.Details) > 0 {
		body["details"] = err.Details
	}
	return body
}
