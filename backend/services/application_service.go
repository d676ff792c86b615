package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"prashiskshan/backend/models"
	"prashiskshan/backend/utils"
)

type ApplyInput struct {
	InternshipID        string              `json:"internshipId" validate:"required,uuid"`
	CoverLetter         string              `json:"coverLetter" validate:"required"`
	Resume              models.Resume       `json:"resume" validate:"required"`
	Portfolio           *models.Portfolio   `json:"portfolio"`
	AdditionalDocuments []models.Attachment `json:"additionalDocuments" validate:"omitempty,dive"`
}

type UpdateApplicationStatusInput struct {
	Status   string `json:"status" validate:"required"`
	Feedback string `json:"feedback"`
}

type ScheduleInterviewInput struct {
	InterviewDate string `json:"interviewDate" validate:"required,isodate"`
	InterviewLink string `json:"interviewLink" validate:"omitempty,url"`
}

type AddNoteInput struct {
	Text string `json:"text" validate:"required"`
}

var withdrawableStatuses = []models.ApplicationStatus{
	models.ApplicationPending,
	models.ApplicationUnderReview,
	models.ApplicationShortlisted,
}

type ApplicationService struct {
	db *gorm.DB
}

func NewApplicationService(db *gorm.DB) *ApplicationService {
	return &ApplicationService{db: db}
}

// Apply creates a pending application and takes one capacity slot in the same transaction.
func (s *ApplicationService) Apply(ctx context.Context, student *models.User, in ApplyInput) (*models.Application, error) {
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	internshipID, err := ParseID(in.InternshipID, "internshipId")
	if err != nil {
		return nil, err
	}

	application := &models.Application{
		StudentID:           student.ID,
		InternshipID:        internshipID,
		Status:              models.ApplicationPending,
		CoverLetter:         in.CoverLetter,
		Resume:              in.Resume,
		AdditionalDocuments: datatypes.JSONSlice[models.Attachment](in.AdditionalDocuments),
		Notes:               datatypes.JSONSlice[models.ApplicationNote]{},
		AppliedAt:           now(),
	}
	if in.Portfolio != nil {
		application.Portfolio = *in.Portfolio
	}
	if application.AdditionalDocuments == nil {
		application.AdditionalDocuments = datatypes.JSONSlice[models.Attachment]{}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var internship models.Internship
		if err := tx.First(&internship, "id = ?", internshipID).Error; err != nil {
			return utils.DBError(err, "Internship not found")
		}
		if !internship.AcceptingApplications(application.AppliedAt) {
			if internship.Status != models.InternshipActive {
				return utils.ConflictError("This internship is not accepting applications")
			}
			return utils.ConflictError("Application deadline has passed")
		}

		var existing int64
		err := tx.Model(&models.Application{}).
			Where("student_id = ? AND internship_id = ?", student.ID, internshipID).
			Count(&existing).Error
		if err != nil {
			return utils.DBError(err, "Application not found")
		}
		if existing > 0 {
			return utils.ConflictError("You have already applied for this internship")
		}

		if !internship.HasCapacity() {
			return utils.ConflictError("Maximum applications reached for this internship")
		}
		// the row may have filled up since it was read
		res := tx.Model(&models.Internship{}).
			Where("id = ? AND current_applications < max_applications", internshipID).
			UpdateColumn("current_applications", gorm.Expr("current_applications + 1"))
		if res.Error != nil {
			return utils.DBError(res.Error, "Internship not found")
		}
		if res.RowsAffected == 0 {
			return utils.ConflictError("Maximum applications reached for this internship")
		}

		if err := tx.Create(application).Error; err != nil {
			if utils.IsUniqueViolation(err) {
				return utils.ConflictError("You have already applied for this internship")
			}
			return utils.DBError(err, "Application not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.load(ctx, application.ID)
}

func (s *ApplicationService) load(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var application models.Application
	err := s.db.WithContext(ctx).
		Preload("Internship", internshipSummary).
		Preload("Student", studentSummary).
		First(&application, "id = ?", id).Error
	if err != nil {
		return nil, utils.DBError(err, "Application not found")
	}
	return &application, nil
}

func (s *ApplicationService) ListMine(ctx context.Context, student *models.User) ([]models.Application, error) {
	applications := []models.Application{}
	err := s.db.WithContext(ctx).
		Preload("Internship", internshipSummary).
		Where("student_id = ?", student.ID).
		Order("applied_at DESC").
		Find(&applications).Error
	if err != nil {
		return nil, utils.DBError(err, "Application not found")
	}
	return applications, nil
}

// ListForInternship returns every application of a posting the actor owns.
func (s *ApplicationService) ListForInternship(ctx context.Context, actor *models.User, internshipID uuid.UUID) ([]models.Application, error) {
	var internship models.Internship
	if err := s.db.WithContext(ctx).First(&internship, "id = ?", internshipID).Error; err != nil {
		return nil, utils.DBError(err, "Internship not found")
	}
	if !internship.OwnedBy(actor.ID) && !isAdmin(actor) {
		return nil, utils.ForbiddenError("Not authorized to view these applications")
	}

	applications := []models.Application{}
	err := s.db.WithContext(ctx).
		Preload("Student", studentSummary).
		Where("internship_id = ?", internshipID).
		Order("applied_at DESC").
		Find(&applications).Error
	if err != nil {
		return nil, utils.DBError(err, "Application not found")
	}
	return applications, nil
}

func (s *ApplicationService) Get(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Application, error) {
	application, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	allowed := application.StudentID == actor.ID ||
		isAdmin(actor) ||
		(application.Internship != nil && application.Internship.OwnedBy(actor.ID))
	if !allowed {
		return nil, utils.ForbiddenError("Not authorized to view this application")
	}
	return application, nil
}

// loadForReviewer fetches an application for the owner of its internship or an admin.
func (s *ApplicationService) loadForReviewer(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Application, error) {
	application, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if isAdmin(actor) {
		return application, nil
	}
	if application.Internship == nil || !application.Internship.OwnedBy(actor.ID) {
		return nil, utils.ForbiddenError("Not authorized to update this application")
	}
	return application, nil
}

func (s *ApplicationService) UpdateStatus(ctx context.Context, actor *models.User, id uuid.UUID, in UpdateApplicationStatusInput) (*models.Application, error) {
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	next := models.ApplicationStatus(in.Status)
	if !next.Valid() {
		names := make([]string, len(models.ApplicationStatuses))
		for i, status := range models.ApplicationStatuses {
			names[i] = string(status)
		}
		return nil, utils.NewValidationError(utils.FieldError{
			Field:   "status",
			Message: "must be one of: " + strings.Join(names, ", "),
		})
	}
	application, err := s.loadForReviewer(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if next == models.ApplicationWithdrawn {
		return nil, utils.ConflictError("Only the applicant can withdraw an application")
	}
	if !application.Status.Reviewable() {
		return nil, utils.ConflictError("Cannot update a withdrawn application")
	}

	updates := map[string]interface{}{
		"status":         next,
		"reviewed_at":    now(),
		"reviewed_by_id": actor.ID,
	}
	if in.Feedback != "" {
		updates["feedback"] = in.Feedback
	}

	res := s.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ? AND status <> ?", application.ID, models.ApplicationWithdrawn).
		Updates(updates)
	if res.Error != nil {
		return nil, utils.DBError(res.Error, "Application not found")
	}
	if res.RowsAffected == 0 {
		return nil, utils.ConflictError("Cannot update a withdrawn application")
	}
	return s.load(ctx, application.ID)
}

// Withdraw marks the applicant's application withdrawn and frees its capacity slot.
// The conditional status update lets only one of two concurrent withdrawals decrement.
func (s *ApplicationService) Withdraw(ctx context.Context, student *models.User, id uuid.UUID) (*models.Application, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var application models.Application
		if err := tx.First(&application, "id = ?", id).Error; err != nil {
			return utils.DBError(err, "Application not found")
		}
		if application.StudentID != student.ID {
			return utils.ForbiddenError("Not authorized to withdraw this application")
		}
		if !application.Status.Withdrawable() {
			return utils.ConflictError("Cannot withdraw this application")
		}

		res := tx.Model(&models.Application{}).
			Where("id = ? AND status IN ?", application.ID, withdrawableStatuses).
			Update("status", models.ApplicationWithdrawn)
		if res.Error != nil {
			return utils.DBError(res.Error, "Application not found")
		}
		if res.RowsAffected == 0 {
			return utils.ConflictError("Cannot withdraw this application")
		}

		err := tx.Model(&models.Internship{}).
			Where("id = ? AND current_applications > 0", application.InternshipID).
			UpdateColumn("current_applications", gorm.Expr("current_applications - 1")).Error
		if err != nil {
			return utils.DBError(err, "Internship not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

func (s *ApplicationService) ScheduleInterview(ctx context.Context, actor *models.User, id uuid.UUID, in ScheduleInterviewInput) (*models.Application, error) {
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	application, err := s.loadForReviewer(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	// only while the decision is still open
	if !application.Status.Withdrawable() {
		return nil, utils.ConflictError("Cannot schedule an interview for a " + string(application.Status) + " application")
	}

	err = s.db.WithContext(ctx).Model(&models.Application{}).Where("id = ?", application.ID).Updates(map[string]interface{}{
		"interview_scheduled": true,
		"interview_date":      utils.MustParseDate(in.InterviewDate),
		"interview_link":      in.InterviewLink,
	}).Error
	if err != nil {
		return nil, utils.DBError(err, "Application not found")
	}
	return s.load(ctx, application.ID)
}

func (s *ApplicationService) AddNote(ctx context.Context, actor *models.User, id uuid.UUID, in AddNoteInput) (*models.Application, error) {
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var application models.Application
		if err := tx.Preload("Internship").First(&application, "id = ?", id).Error; err != nil {
			return utils.DBError(err, "Application not found")
		}
		if !isAdmin(actor) && (application.Internship == nil || !application.Internship.OwnedBy(actor.ID)) {
			return utils.ForbiddenError("Not authorized to update this application")
		}

		notes := append(application.Notes, models.ApplicationNote{
			Text:    in.Text,
			AddedBy: actor.ID,
			AddedAt: now(),
		})
		err := tx.Model(&models.Application{}).Where("id = ?", application.ID).
			Update("notes", datatypes.JSONSlice[models.ApplicationNote](notes)).Error
		if err != nil {
			return utils.DBError(err, "Application not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}
