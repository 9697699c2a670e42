package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/utils/v2"
)

// Param returns a copy of the route parameter that stays valid after the
// request buffer is reused.
func Param(c fiber.Ctx, key string) string {
	return utils.CopyString(c.Params(key))
}
