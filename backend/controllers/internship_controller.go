package controllers

import (
	"github.com/gofiber/fiber/v2"

	"prashiskshan/backend/middleware"
	"prashiskshan/backend/services"
	"prashiskshan/backend/utils"
)

type InternshipController struct {
	Internships *services.InternshipService
}

func NewInternshipController(internships *services.InternshipService) *InternshipController {
	return &InternshipController{Internships: internships}
}

// List godoc
// @Summary List internships
// @Description Public directory with status, category, type and search filters
// @Tags internships
// @Produce json
// @Param status query string false "Posting status, active by default"
// @Param category query string false "Category"
// @Param type query string false "remote, onsite or hybrid"
// @Param search query string false "Substring of title, description, company or skills"
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 50)"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /api/internships [get]
func (ic *InternshipController) List(c *fiber.Ctx) error {
	query := services.DefaultInternshipQuery()
	if err := c.QueryParser(&query); err != nil {
		return utils.NewValidationError(utils.FieldError{Field: "query", Message: "page and limit must be integers"})
	}

	internships, total, err := ic.Internships.List(c.UserContext(), query)
	if err != nil {
		return err
	}
	return utils.Paginate(c, internships, query.Page, query.Limit, total)
}

func (ic *InternshipController) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	internship, err := ic.Internships.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return utils.OK(c, internship)
}

func (ic *InternshipController) MyPosted(c *fiber.Ctx) error {
	internships, err := ic.Internships.ListPostedBy(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return utils.OK(c, internships)
}

func (ic *InternshipController) Categories(c *fiber.Ctx) error {
	categories, err := ic.Internships.Categories(c.UserContext())
	if err != nil {
		return err
	}
	return utils.OK(c, categories)
}

// Create godoc
// @Summary Post an internship
// @Tags internships
// @Accept json
// @Produce json
// @Param internship body services.CreateInternshipInput true "Posting"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Router /api/internships [post]
func (ic *InternshipController) Create(c *fiber.Ctx) error {
	var input services.CreateInternshipInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	internship, err := ic.Internships.Create(c.UserContext(), middleware.CurrentUser(c), input)
	if err != nil {
		return err
	}
	return utils.Created(c, "Internship created successfully", internship)
}

func (ic *InternshipController) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var input services.UpdateInternshipInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	internship, err := ic.Internships.Update(c.UserContext(), middleware.CurrentUser(c), id, input)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Internship updated successfully", internship)
}

func (ic *InternshipController) Verify(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	internship, err := ic.Internships.Verify(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Internship verified successfully", internship)
}

func (ic *InternshipController) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := ic.Internships.Delete(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Internship deleted successfully", nil)
}
