// Package services holds the business rules of the platform. Handlers parse and validate
// input, services enforce ownership, state transitions and counters against the database.
package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"prashiskshan/backend/config"
	"prashiskshan/backend/models"
	"prashiskshan/backend/utils"
)

// Services bundles every service over one database handle.
type Services struct {
	Auth         *AuthService
	Internships  *InternshipService
	Applications *ApplicationService
	Logbooks     *LogbookService
	Credentials  *CredentialService
	Dashboard    *DashboardService
}

func New(db *gorm.DB, cfg *config.Config) *Services {
	return &Services{
		Auth:         NewAuthService(db, cfg),
		Internships:  NewInternshipService(db),
		Applications: NewApplicationService(db),
		Logbooks:     NewLogbookService(db),
		Credentials:  NewCredentialService(db),
		Dashboard:    NewDashboardService(db),
	}
}

// ParseID converts a path or body identifier, reporting the offending field on failure.
func ParseID(value, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, utils.NewValidationError(utils.FieldError{Field: field, Message: "must be a valid id"})
	}
	return id, nil
}

func isAdmin(actor *models.User) bool {
	return actor != nil && actor.Role == models.RoleAdmin
}

func now() time.Time {
	return time.Now().UTC()
}

// studentSummary limits preloaded users to the public profile columns.
func studentSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "email", "role", "profile_first_name", "profile_last_name",
		"profile_college", "profile_department", "profile_enrollment_no", "profile_year_of_study")
}

func internshipSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "title", "company", "location", "type", "status", "posted_by_id",
		"start_date", "end_date", "application_deadline", "max_applications", "current_applications")
}

func userName(db *gorm.DB) *gorm.DB {
	return db.Select("id", "profile_first_name", "profile_last_name")
}
