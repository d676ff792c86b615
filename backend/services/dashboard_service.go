package services

import (
	"context"

	"gorm.io/gorm"

	"prashiskshan/backend/models"
	"prashiskshan/backend/utils"
)

// DashboardStats carries role-specific counters; sections that do not apply are omitted.
type DashboardStats struct {
	Role                 models.Role      `json:"role"`
	Applications         map[string]int64 `json:"applications,omitempty"`
	Logbooks             map[string]int64 `json:"logbooks,omitempty"`
	Internships          map[string]int64 `json:"internships,omitempty"`
	Credentials          map[string]int64 `json:"credentials,omitempty"`
	Users                map[string]int64 `json:"users,omitempty"`
	PendingReviews       *int64           `json:"pendingLogbookReviews,omitempty"`
	PendingVerifications *int64           `json:"pendingCredentialVerifications,omitempty"`
	Totals               map[string]int64 `json:"totals,omitempty"`
}

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

type groupCount struct {
	GroupKey string
	Count    int64
}

// countBy groups the rows of model matching scope by column.
func (s *DashboardService) countBy(ctx context.Context, model interface{}, column string, scope func(*gorm.DB) *gorm.DB) (map[string]int64, error) {
	var rows []groupCount
	query := s.db.WithContext(ctx).Model(model).Select(column + " AS group_key, COUNT(*) AS count")
	if scope != nil {
		query = query.Scopes(scope)
	}
	if err := query.Group(column).Scan(&rows).Error; err != nil {
		return nil, utils.DBError(err, "Statistics not found")
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.GroupKey] = row.Count
	}
	return counts, nil
}

func (s *DashboardService) count(ctx context.Context, model interface{}, scope func(*gorm.DB) *gorm.DB) (int64, error) {
	var n int64
	query := s.db.WithContext(ctx).Model(model)
	if scope != nil {
		query = query.Scopes(scope)
	}
	if err := query.Count(&n).Error; err != nil {
		return 0, utils.DBError(err, "Statistics not found")
	}
	return n, nil
}

func where(query string, args ...interface{}) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	}
}

func (s *DashboardService) Stats(ctx context.Context, actor *models.User) (*DashboardStats, error) {
	stats := &DashboardStats{Role: actor.Role}
	var err error

	switch actor.Role {
	case models.RoleStudent:
		own := where("student_id = ?", actor.ID)
		if stats.Applications, err = s.countBy(ctx, &models.Application{}, "status", own); err != nil {
			return nil, err
		}
		if stats.Logbooks, err = s.countBy(ctx, &models.Logbook{}, "status", own); err != nil {
			return nil, err
		}
		if stats.Credentials, err = s.countBy(ctx, &models.Credential{}, "status", own); err != nil {
			return nil, err
		}

	case models.RoleIndustry:
		if stats.Internships, err = s.countBy(ctx, &models.Internship{}, "status", where("posted_by_id = ?", actor.ID)); err != nil {
			return nil, err
		}
		posted := s.db.Model(&models.Internship{}).Select("id").Where("posted_by_id = ?", actor.ID)
		if stats.Applications, err = s.countBy(ctx, &models.Application{}, "status", where("internship_id IN (?)", posted)); err != nil {
			return nil, err
		}

	case models.RoleFaculty:
		reviews, err := s.count(ctx, &models.Logbook{}, where("status = ?", models.LogbookSubmitted))
		if err != nil {
			return nil, err
		}
		verifications, err := s.count(ctx, &models.Credential{}, where("status IN ?",
			[]models.CredentialStatus{models.CredentialPending, models.CredentialIssued}))
		if err != nil {
			return nil, err
		}
		stats.PendingReviews = &reviews
		stats.PendingVerifications = &verifications

	case models.RoleAdmin:
		if stats.Users, err = s.countBy(ctx, &models.User{}, "role", nil); err != nil {
			return nil, err
		}
		stats.Totals = map[string]int64{}
		totals := []struct {
			name  string
			model interface{}
		}{
			{"users", &models.User{}},
			{"internships", &models.Internship{}},
			{"applications", &models.Application{}},
			{"logbooks", &models.Logbook{}},
			{"credentials", &models.Credential{}},
		}
		for _, t := range totals {
			n, err := s.count(ctx, t.model, nil)
			if err != nil {
				return nil, err
			}
			stats.Totals[t.name] = n
		}
	}

	return stats, nil
}
