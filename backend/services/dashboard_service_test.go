package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prashiskshan/backend/models"
	"prashiskshan/backend/testutil"
)

func TestDashboardStatsPerRole(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	all := New(db, testutil.Config())

	admin := testutil.CreateUser(t, db, models.RoleAdmin, "Admin")
	faculty := testutil.CreateUser(t, db, models.RoleFaculty, "Faculty")
	poster := testutil.CreateUser(t, db, models.RoleIndustry, "Poster")
	rival := testutil.CreateUser(t, db, models.RoleIndustry, "Rival")
	student := testutil.CreateUser(t, db, models.RoleStudent, "Student")

	mine := testutil.CreateInternship(t, db, poster)
	testutil.CreateInternship(t, db, poster, testutil.WithStatus(models.InternshipDraft))
	theirs := testutil.CreateInternship(t, db, rival)

	_, err := all.Applications.Apply(ctx, student, applyInput(mine))
	require.NoError(t, err)
	second, err := all.Applications.Apply(ctx, student, applyInput(theirs))
	require.NoError(t, err)
	_, err = all.Applications.Withdraw(ctx, student, second.ID)
	require.NoError(t, err)

	entry, err := all.Logbooks.Create(ctx, student, logbookInput(mine, 1))
	require.NoError(t, err)
	_, err = all.Logbooks.Submit(ctx, student, entry.ID)
	require.NoError(t, err)
	_, err = all.Logbooks.Create(ctx, student, logbookInput(mine, 2))
	require.NoError(t, err)

	_, err = all.Credentials.Create(ctx, credentialInput(student, mine))
	require.NoError(t, err)

	stats, err := all.Dashboard.Stats(ctx, student)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"pending": 1, "withdrawn": 1}, stats.Applications)
	assert.Equal(t, map[string]int64{"draft": 1, "submitted": 1}, stats.Logbooks)
	assert.Equal(t, map[string]int64{"pending": 1}, stats.Credentials)
	assert.Nil(t, stats.Totals)

	stats, err = all.Dashboard.Stats(ctx, poster)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"active": 1, "draft": 1}, stats.Internships)
	assert.Equal(t, map[string]int64{"pending": 1}, stats.Applications, "only applications to own postings")

	stats, err = all.Dashboard.Stats(ctx, faculty)
	require.NoError(t, err)
	require.NotNil(t, stats.PendingReviews)
	require.NotNil(t, stats.PendingVerifications)
	assert.EqualValues(t, 1, *stats.PendingReviews)
	assert.EqualValues(t, 1, *stats.PendingVerifications)

	stats, err = all.Dashboard.Stats(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"admin": 1, "faculty": 1, "industry": 2, "student": 1}, stats.Users)
	assert.EqualValues(t, 5, stats.Totals["users"])
	assert.EqualValues(t, 3, stats.Totals["internships"])
	assert.EqualValues(t, 2, stats.Totals["applications"])
	assert.EqualValues(t, 2, stats.Totals["logbooks"])
	assert.EqualValues(t, 1, stats.Totals["credentials"])
}
