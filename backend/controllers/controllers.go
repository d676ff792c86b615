package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"prashiskshan/backend/services"
	"prashiskshan/backend/utils"
)

// parseBody decodes the JSON body; field validation is left to the services.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return utils.NewError(utils.KindValidation, "Cannot parse JSON", err)
	}
	return nil
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return services.ParseID(c.Params(name), name)
}
