package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"prashiskshan/backend/middleware"
	"prashiskshan/backend/services"
	"prashiskshan/backend/utils"
)

const (
	applyLimit  = 3
	applyWindow = time.Minute
)

type ApplicationController struct {
	Applications *services.ApplicationService
	Limiter      middleware.Limiter
}

func NewApplicationController(applications *services.ApplicationService, limiter middleware.Limiter) *ApplicationController {
	return &ApplicationController{Applications: applications, Limiter: limiter}
}

// Apply godoc
// @Summary Apply for an internship
// @Description Creates a pending application and reserves one slot on the posting
// @Tags applications
// @Accept json
// @Produce json
// @Param application body services.ApplyInput true "Application"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 429 {object} utils.Response
// @Router /api/applications [post]
func (ac *ApplicationController) Apply(c *fiber.Ctx) error {
	var input services.ApplyInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	student := middleware.CurrentUser(c)

	key := "apply:" + student.ID.String() + ":" + input.InternshipID
	if ac.Limiter != nil && !ac.Limiter.Allow(key, applyLimit, applyWindow) {
		return utils.RateLimitedError("Too many applications submitted, please try again later")
	}

	application, err := ac.Applications.Apply(c.UserContext(), student, input)
	if err != nil {
		return err
	}
	return utils.Created(c, "Application submitted successfully", application)
}

func (ac *ApplicationController) ListMine(c *fiber.Ctx) error {
	applications, err := ac.Applications.ListMine(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return utils.OK(c, applications)
}

func (ac *ApplicationController) ListForInternship(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	applications, err := ac.Applications.ListForInternship(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return utils.OK(c, applications)
}

func (ac *ApplicationController) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	application, err := ac.Applications.Get(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return utils.OK(c, application)
}

// UpdateStatus godoc
// @Summary Review an application
// @Tags applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param review body services.UpdateApplicationStatusInput true "New status and feedback"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Router /api/applications/{id}/status [put]
func (ac *ApplicationController) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var input services.UpdateApplicationStatusInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	application, err := ac.Applications.UpdateStatus(c.UserContext(), middleware.CurrentUser(c), id, input)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Application status updated successfully", application)
}

func (ac *ApplicationController) Withdraw(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	application, err := ac.Applications.Withdraw(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Application withdrawn successfully", application)
}

func (ac *ApplicationController) ScheduleInterview(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var input services.ScheduleInterviewInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	application, err := ac.Applications.ScheduleInterview(c.UserContext(), middleware.CurrentUser(c), id, input)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Interview scheduled successfully", application)
}

func (ac *ApplicationController) AddNote(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var input services.AddNoteInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	application, err := ac.Applications.AddNote(c.UserContext(), middleware.CurrentUser(c), id, input)
	if err != nil {
		return err
	}
	return utils.Created(c, "Note added successfully", application)
}
