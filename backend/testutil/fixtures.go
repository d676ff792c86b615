package testutil

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"prashiskshan/backend/models"
	"prashiskshan/backend/utils"
)

// Password is the plain-text password of every fixture user.
const Password = "password123"

// CreateUser stores a user with the given role; the email is derived from name.
func CreateUser(t testing.TB, db *gorm.DB, role models.Role, name string) *models.User {
	t.Helper()

	hash, err := utils.HashPassword(Password, 4)
	require.NoError(t, err)

	user := &models.User{
		Email:        strings.ToLower(name) + "@example.com",
		PasswordHash: hash,
		Role:         role,
		Profile: models.Profile{
			FirstName: name,
			LastName:  "Tester",
		},
		IsVerified: true,
	}
	if role == models.RoleStudent {
		user.Profile.EnrollmentNo = "ENR-" + strings.ToUpper(name)
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// InternshipOption adjusts a fixture internship before it is stored.
type InternshipOption func(*models.Internship)

func WithStatus(status models.InternshipStatus) InternshipOption {
	return func(i *models.Internship) { i.Status = status }
}

func WithDeadline(deadline time.Time) InternshipOption {
	return func(i *models.Internship) { i.ApplicationDeadline = deadline }
}

func WithCapacity(max, current int) InternshipOption {
	return func(i *models.Internship) {
		i.MaxApplications = max
		i.CurrentApplications = current
	}
}

func WithCategory(category string) InternshipOption {
	return func(i *models.Internship) { i.Category = category }
}

func WithTitle(title string) InternshipOption {
	return func(i *models.Internship) { i.Title = title }
}

// CreateInternship stores an active posting owned by poster, open for two weeks, capacity 50.
func CreateInternship(t testing.TB, db *gorm.DB, poster *models.User, opts ...InternshipOption) *models.Internship {
	t.Helper()

	now := time.Now().UTC()
	internship := &models.Internship{
		Title:               "Backend Intern",
		Description:         "Build REST services in Go",
		Company:             "Acme Labs",
		Location:            "Pune",
		Type:                models.InternshipHybrid,
		Duration:            12,
		Stipend:             models.Stipend{Amount: 10000, Currency: "INR", Type: models.StipendPaid},
		Skills:              []string{"Go", "PostgreSQL"},
		StartDate:           now.AddDate(0, 1, 0),
		EndDate:             now.AddDate(0, 4, 0),
		ApplicationDeadline: now.AddDate(0, 0, 14),
		MaxApplications:     50,
		Status:              models.InternshipActive,
		PostedByID:          poster.ID,
		Category:            "Engineering",
	}
	for _, opt := range opts {
		opt(internship)
	}
	require.NoError(t, db.Create(internship).Error)
	// zero values are skipped on insert when a column default exists
	require.NoError(t, db.Model(internship).Update("current_applications", internship.CurrentApplications).Error)
	return internship
}

// Reload reads the current row for a model that has an ID.
func Reload[T any](t testing.TB, db *gorm.DB, id interface{}) *T {
	t.Helper()
	var out T
	require.NoError(t, db.First(&out, "id = ?", id).Error)
	return &out
}
