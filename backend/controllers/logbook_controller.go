package controllers

import (
	"github.com/gofiber/fiber/v2"

	"prashiskshan/backend/middleware"
	"prashiskshan/backend/services"
	"prashiskshan/backend/utils"
)

type LogbookController struct {
	Logbooks *services.LogbookService
}

func NewLogbookController(logbooks *services.LogbookService) *LogbookController {
	return &LogbookController{Logbooks: logbooks}
}

// Create godoc
// @Summary Create a weekly logbook entry
// @Tags logbooks
// @Accept json
// @Produce json
// @Param entry body services.CreateLogbookInput true "Logbook entry"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /api/logbooks [post]
func (lc *LogbookController) Create(c *fiber.Ctx) error {
	var input services.CreateLogbookInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	entry, err := lc.Logbooks.Create(c.UserContext(), middleware.CurrentUser(c), input)
	if err != nil {
		return err
	}
	return utils.Created(c, "Logbook entry created successfully", entry)
}

func (lc *LogbookController) ListMine(c *fiber.Ctx) error {
	entries, err := lc.Logbooks.ListMine(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return utils.OK(c, entries)
}

func (lc *LogbookController) ListForInternship(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	entries, err := lc.Logbooks.ListForInternship(c.UserContext(), id)
	if err != nil {
		return err
	}
	return utils.OK(c, entries)
}

func (lc *LogbookController) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	entry, err := lc.Logbooks.Get(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return utils.OK(c, entry)
}

func (lc *LogbookController) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var input services.UpdateLogbookInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	entry, err := lc.Logbooks.Update(c.UserContext(), middleware.CurrentUser(c), id, input)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Logbook entry updated successfully", entry)
}

func (lc *LogbookController) Submit(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	entry, err := lc.Logbooks.Submit(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Logbook entry submitted for review", entry)
}

func (lc *LogbookController) Review(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var input services.ReviewLogbookInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	entry, err := lc.Logbooks.Review(c.UserContext(), middleware.CurrentUser(c), id, input)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Logbook entry reviewed successfully", entry)
}
