package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"prashiskshan/backend/middleware"
	"prashiskshan/backend/services"
	"prashiskshan/backend/utils"
)

type CredentialController struct {
	Credentials *services.CredentialService
}

func NewCredentialController(credentials *services.CredentialService) *CredentialController {
	return &CredentialController{Credentials: credentials}
}

func (cc *CredentialController) Create(c *fiber.Ctx) error {
	var input services.CreateCredentialInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	credential, err := cc.Credentials.Create(c.UserContext(), input)
	if err != nil {
		return err
	}
	return utils.Created(c, "Credential created successfully", credential)
}

func (cc *CredentialController) ListMine(c *fiber.Ctx) error {
	credentials, err := cc.Credentials.ListForStudent(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return utils.OK(c, credentials)
}

func (cc *CredentialController) ListForStudent(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	credentials, err := cc.Credentials.ListForStudent(c.UserContext(), id)
	if err != nil {
		return err
	}
	return utils.OK(c, credentials)
}

func (cc *CredentialController) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	credential, err := cc.Credentials.Get(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return utils.OK(c, credential)
}

func (cc *CredentialController) Issue(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	credential, err := cc.Credentials.Issue(c.UserContext(), id)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Credential issued successfully", credential)
}

// Verify godoc
// @Summary Verify a credential
// @Description Marks the credential verified; a supplied performance block replaces the stored one
// @Tags credentials
// @Accept json
// @Produce json
// @Param id path string true "Credential ID"
// @Param verification body services.VerifyCredentialInput false "Performance evaluation"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /api/credentials/{id}/verify [put]
func (cc *CredentialController) Verify(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var input services.VerifyCredentialInput
	if len(c.Body()) > 0 {
		if err := parseBody(c, &input); err != nil {
			return err
		}
	}
	credential, err := cc.Credentials.Verify(c.UserContext(), middleware.CurrentUser(c), id, input)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Credential verified successfully", credential)
}

func (cc *CredentialController) Revoke(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	credential, err := cc.Credentials.Revoke(c.UserContext(), id)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Credential revoked successfully", credential)
}

// Lookup godoc
// @Summary Public credential verification
// @Description Returns the public subset of a credential by its credential id
// @Tags credentials
// @Produce json
// @Param credentialId path string true "Credential ID, e.g. PRS-1700000000000-ABC123XYZ"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /api/credentials/verify/{credentialId} [get]
func (cc *CredentialController) Lookup(c *fiber.Ctx) error {
	view, err := cc.Credentials.Lookup(c.UserContext(), strings.TrimSpace(c.Params("credentialId")))
	if err != nil {
		return err
	}
	return utils.OK(c, view)
}
