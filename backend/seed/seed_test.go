package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"prashiskshan/backend/models"
	"prashiskshan/backend/testutil"
	"prashiskshan/backend/utils"
)

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestRunSeedsOnce(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	summary, err := Run(ctx, db, 4, nil)
	require.NoError(t, err)
	assert.Equal(t, &Summary{Users: 9, Internships: 3, Applications: 3, Logbooks: 1, Credentials: 1}, summary)
	assert.EqualValues(t, 9, count(t, db, &models.User{}))
	assert.EqualValues(t, 3, count(t, db, &models.Internship{}))

	var admin models.User
	require.NoError(t, db.Where("email = ?", "admin@prashiskshan.com").First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, utils.CheckPassword(admin.PasswordHash, "admin123"))

	var internships []models.Internship
	require.NoError(t, db.Find(&internships).Error)
	for _, internship := range internships {
		assert.EqualValues(t, 1, internship.CurrentApplications, internship.Title)
	}

	var credential models.Credential
	require.NoError(t, db.First(&credential).Error)
	assert.Equal(t, models.CredentialVerified, credential.Status)
	assert.NotEmpty(t, credential.Certificate.CredentialID)

	again, err := Run(ctx, db, 4, nil)
	require.NoError(t, err)
	assert.Equal(t, &Summary{}, again)
	assert.EqualValues(t, 9, count(t, db, &models.User{}))
}

func TestResetClearsEveryTable(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	_, err := Run(ctx, db, 4, nil)
	require.NoError(t, err)
	require.NoError(t, Reset(ctx, db))

	for _, model := range models.All() {
		assert.Zero(t, count(t, db, model), "%T", model)
	}

	summary, err := Run(ctx, db, 4, nil)
	require.NoError(t, err)
	assert.Equal(t, 9, summary.Users)
}
