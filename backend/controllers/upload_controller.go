package controllers

import (
	"github.com/gofiber/fiber/v2"

	"prashiskshan/backend/middleware"
	"prashiskshan/backend/storage"
	"prashiskshan/backend/utils"
)

const maxUploadSize = 10 << 20

type UploadController struct {
	Storage storage.Uploader
}

func NewUploadController(uploader storage.Uploader) *UploadController {
	return &UploadController{Storage: uploader}
}

// UploadResult is shaped to drop straight into a resume or attachment field.
type UploadResult struct {
	URL          string `json:"url"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
}

// Upload godoc
// @Summary Upload a document
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document, at most 10 MiB"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 503 {object} utils.Response
// @Router /api/uploads [post]
func (uc *UploadController) Upload(c *fiber.Ctx) error {
	if uc.Storage == nil {
		return utils.UnavailableError("File storage is not configured")
	}

	header, err := c.FormFile("file")
	if err != nil {
		return utils.NewValidationError(utils.FieldError{Field: "file", Message: "is required"})
	}
	if header.Size > maxUploadSize {
		return utils.NewValidationError(utils.FieldError{Field: "file", Message: "must be at most 10 MiB"})
	}

	file, err := header.Open()
	if err != nil {
		return utils.InternalError("open upload", err)
	}
	defer file.Close()

	key, filename := storage.ObjectKey(middleware.CurrentUser(c).ID, header.Filename)
	url, err := uc.Storage.Upload(c.UserContext(), key, header.Header.Get(fiber.HeaderContentType), file)
	if err != nil {
		return utils.InternalError("store upload", err)
	}

	return utils.Created(c, "File uploaded successfully", UploadResult{
		URL:          url,
		Filename:     filename,
		OriginalName: header.Filename,
		Size:         header.Size,
	})
}
