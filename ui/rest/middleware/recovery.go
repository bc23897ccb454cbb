package middleware

import (
	"errors"
	"fmt"

	pkgError "github.com/AzielCF/az-console/pkg/error"
	"github.com/AzielCF/az-console/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Recovery turns a handler panic into a ResponseData body. GenericError
// values keep their status and code; anything else is a 500.
func Recovery() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			res := utils.ResponseData{
				Status:  fiber.StatusInternalServerError,
				Code:    "INTERNAL_SERVER_ERROR",
				Message: fmt.Sprintf("%v", rec),
			}

			var generic pkgError.GenericError
			if err, ok := rec.(error); ok && errors.As(err, &generic) {
				res.Status = generic.StatusCode()
				res.Code = generic.ErrCode()
				res.Message = generic.Error()
			}
			if res.Status >= fiber.StatusInternalServerError {
				logrus.Errorf("[REST] panic recovered on %s %s: %v", ctx.Method(), ctx.Path(), rec)
			}

			_ = ctx.Status(res.Status).JSON(res)
		}()

		return ctx.Next()
	}
}
