// Package seed loads demo accounts and records for local development.
package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"prashiskshan/backend/models"
	"prashiskshan/backend/utils"
)

// Summary reports what Run inserted.
type Summary struct {
	Users        int
	Internships  int
	Applications int
	Logbooks     int
	Credentials  int
}

type account struct {
	email    string
	password string
	role     models.Role
	profile  models.Profile
}

var accounts = []account{
	{"admin@prashiskshan.com", "admin123", models.RoleAdmin, models.Profile{
		FirstName: "Admin", LastName: "User", Phone: "+91 9876543210", Company: "Prashiskshan", Designation: "System Administrator"}},
	{"student1@example.com", "student123", models.RoleStudent, models.Profile{
		FirstName: "Raj", LastName: "Kumar", Phone: "+91 9876543211", College: "IIT Delhi", Department: "Computer Science", EnrollmentNo: "2023CS001", YearOfStudy: "3rd Year"}},
	{"student2@example.com", "student123", models.RoleStudent, models.Profile{
		FirstName: "Priya", LastName: "Sharma", Phone: "+91 9876543212", College: "IIT Bombay", Department: "Electronics", EnrollmentNo: "2023EE002", YearOfStudy: "2nd Year"}},
	{"student3@example.com", "student123", models.RoleStudent, models.Profile{
		FirstName: "Amit", LastName: "Singh", Phone: "+91 9876543213", College: "IIT Madras", Department: "Mechanical", EnrollmentNo: "2023ME003", YearOfStudy: "4th Year"}},
	{"faculty1@example.com", "faculty123", models.RoleFaculty, models.Profile{
		FirstName: "Dr. Neha", LastName: "Gupta", Phone: "+91 9876543214", College: "IIT Delhi", Department: "Computer Science", Designation: "Professor"}},
	{"faculty2@example.com", "faculty123", models.RoleFaculty, models.Profile{
		FirstName: "Prof. Ravi", LastName: "Verma", Phone: "+91 9876543215", College: "IIT Bombay", Department: "Electronics", Designation: "Associate Professor"}},
	{"industry1@techcorp.com", "industry123", models.RoleIndustry, models.Profile{
		FirstName: "Suresh", LastName: "Patel", Phone: "+91 9876543216", Company: "TechCorp Solutions", Designation: "HR Manager"}},
	{"industry2@innovate.com", "industry123", models.RoleIndustry, models.Profile{
		FirstName: "Meera", LastName: "Jain", Phone: "+91 9876543217", Company: "InnovateTech", Designation: "Project Manager"}},
	{"industry3@startup.com", "industry123", models.RoleIndustry, models.Profile{
		FirstName: "Vikram", LastName: "Reddy", Phone: "+91 9876543218", Company: "StartupHub", Designation: "CTO"}},
}

func strs(values ...string) datatypes.JSONSlice[string] {
	return datatypes.JSONSlice[string](values)
}

// Reset removes every row of every model, children first.
func Reset(ctx context.Context, db *gorm.DB) error {
	all := models.All()
	for i := len(all) - 1; i >= 0; i-- {
		if err := db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(all[i]).Error; err != nil {
			return fmt.Errorf("reset %T: %w", all[i], err)
		}
	}
	return nil
}

// Run inserts the demo data in one transaction. It does nothing when the admin account exists.
func Run(ctx context.Context, db *gorm.DB, bcryptCost int, logger *log.Logger) (*Summary, error) {
	var existing int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", accounts[0].email).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("check seed state: %w", err)
	}
	if existing > 0 {
		if logger != nil {
			logger.Println("database already seeded, skipping")
		}
		return &Summary{}, nil
	}

	summary := &Summary{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := make(map[string]*models.User, len(accounts))
		for _, a := range accounts {
			hash, err := utils.HashPassword(a.password, bcryptCost)
			if err != nil {
				return err
			}
			user := &models.User{Email: a.email, PasswordHash: hash, Role: a.role, Profile: a.profile, IsVerified: true}
			if err := tx.Create(user).Error; err != nil {
				return fmt.Errorf("create user %s: %w", a.email, err)
			}
			users[a.email] = user
		}
		summary.Users = len(users)

		now := time.Now().UTC().Truncate(24 * time.Hour)
		internships := []*models.Internship{
			{
				Title:               "Full Stack Development Intern",
				Description:         "Join our dynamic team to work on web applications across the frontend and backend.",
				Company:             "TechCorp Solutions",
				Location:            "Bangalore",
				Type:                models.InternshipHybrid,
				Duration:            12,
				Stipend:             models.Stipend{Amount: 15000, Currency: "INR", Type: models.StipendPaid},
				Skills:              strs("React", "Node.js", "PostgreSQL", "JavaScript", "HTML", "CSS"),
				Requirements:        strs("Computer Science background", "Basic knowledge of web development"),
				Responsibilities:    strs("Develop web applications", "Write clean code", "Collaborate with team"),
				Benefits:            strs("Mentorship", "Certificate", "Job opportunity"),
				StartDate:           now.AddDate(0, 1, 0),
				EndDate:             now.AddDate(0, 4, 0),
				ApplicationDeadline: now.AddDate(0, 0, 21),
				MaxApplications:     50,
				Status:              models.InternshipActive,
				PostedByID:          users["industry1@techcorp.com"].ID,
				Category:            "Software Development",
				Tags:                strs("Web Development", "Full Stack"),
			},
			{
				Title:               "Data Science Intern",
				Description:         "Work on data analysis, machine learning model development and data visualization.",
				Company:             "InnovateTech",
				Location:            "Mumbai",
				Type:                models.InternshipRemote,
				Duration:            16,
				Stipend:             models.Stipend{Amount: 20000, Currency: "INR", Type: models.StipendPaid},
				Skills:              strs("Python", "Machine Learning", "Pandas", "NumPy"),
				Requirements:        strs("Statistics background", "Python programming"),
				Responsibilities:    strs("Analyze datasets", "Build ML models", "Write reports"),
				Benefits:            strs("Research experience", "Industry exposure"),
				StartDate:           now.AddDate(0, 1, 15),
				EndDate:             now.AddDate(0, 5, 15),
				ApplicationDeadline: now.AddDate(0, 1, 0),
				MaxApplications:     30,
				Status:              models.InternshipActive,
				PostedByID:          users["industry2@innovate.com"].ID,
				Category:            "Data Science",
				Tags:                strs("Machine Learning", "AI"),
			},
			{
				Title:               "Mobile App Development Intern",
				Description:         "Develop mobile applications for iOS and Android using React Native.",
				Company:             "StartupHub",
				Location:            "Delhi",
				Type:                models.InternshipOnsite,
				Duration:            8,
				Stipend:             models.Stipend{Amount: 12000, Currency: "INR", Type: models.StipendPaid},
				Skills:              strs("React Native", "JavaScript", "iOS", "Android"),
				Requirements:        strs("Mobile development interest", "JavaScript knowledge"),
				Responsibilities:    strs("Build mobile apps", "Test applications"),
				Benefits:            strs("Portfolio building", "Startup culture"),
				StartDate:           now.AddDate(0, 0, 20),
				EndDate:             now.AddDate(0, 2, 20),
				ApplicationDeadline: now.AddDate(0, 0, 10),
				MaxApplications:     25,
				Status:              models.InternshipActive,
				PostedByID:          users["industry3@startup.com"].ID,
				Category:            "Mobile Development",
				Tags:                strs("Mobile", "React Native"),
			},
		}
		for _, internship := range internships {
			if err := tx.Create(internship).Error; err != nil {
				return fmt.Errorf("create internship %q: %w", internship.Title, err)
			}
		}
		summary.Internships = len(internships)

		applications := []*models.Application{
			{
				StudentID:    users["student1@example.com"].ID,
				InternshipID: internships[0].ID,
				Status:       models.ApplicationAccepted,
				CoverLetter:  "I have been learning React and Node.js for the past year and have built several projects.",
				Resume:       models.Resume{URL: "https://example.com/resume1.pdf", Filename: "raj_kumar_resume.pdf", OriginalName: "Raj Kumar Resume.pdf"},
				Portfolio:    models.Portfolio{URL: "https://rajkumar.dev", Description: "Web development projects"},
			},
			{
				StudentID:    users["student2@example.com"].ID,
				InternshipID: internships[1].ID,
				Status:       models.ApplicationUnderReview,
				CoverLetter:  "I have completed several courses in Python and machine learning.",
				Resume:       models.Resume{URL: "https://example.com/resume2.pdf", Filename: "priya_sharma_resume.pdf", OriginalName: "Priya Sharma Resume.pdf"},
			},
			{
				StudentID:    users["student3@example.com"].ID,
				InternshipID: internships[2].ID,
				Status:       models.ApplicationShortlisted,
				CoverLetter:  "I have been learning React Native and have built a few mobile apps.",
				Resume:       models.Resume{URL: "https://example.com/resume3.pdf", Filename: "amit_singh_resume.pdf", OriginalName: "Amit Singh Resume.pdf"},
			},
		}
		for _, application := range applications {
			application.AppliedAt = time.Now().UTC()
			if err := tx.Create(application).Error; err != nil {
				return fmt.Errorf("create application: %w", err)
			}
			err := tx.Model(&models.Internship{}).Where("id = ?", application.InternshipID).
				UpdateColumn("current_applications", gorm.Expr("current_applications + 1")).Error
			if err != nil {
				return fmt.Errorf("count application: %w", err)
			}
		}
		summary.Applications = len(applications)

		reviewer := users["industry1@techcorp.com"]
		submittedAt := now.AddDate(0, 0, -2)
		reviewedAt := now.AddDate(0, 0, -1)
		rating := 4
		logbook := &models.Logbook{
			StudentID:    users["student1@example.com"].ID,
			InternshipID: internships[0].ID,
			Title:        "Week 1 - Project Setup and Learning",
			Week:         1,
			Date:         now.AddDate(0, 0, -7),
			TasksCompleted: datatypes.JSONSlice[models.LogbookTask]{
				{Task: "Environment Setup", Description: "Set up the development environment", HoursSpent: 8},
				{Task: "Code Review", Description: "Reviewed existing codebase and documentation", HoursSpent: 6},
			},
			SkillsLearned: datatypes.JSONSlice[models.LogbookSkill]{
				{Skill: "React Hooks", Proficiency: models.ProficiencyIntermediate},
				{Skill: "SQL Queries", Proficiency: models.ProficiencyBeginner},
			},
			Challenges: datatypes.JSONSlice[models.LogbookChallenge]{
				{Challenge: "Understanding complex state management", Solution: "Practiced with small projects", Outcome: "Implemented state management in a practice task"},
			},
			Achievements: datatypes.JSONSlice[models.LogbookAchievement]{
				{Achievement: "Completed first feature implementation", Impact: "Contributed to the authentication module"},
			},
			Reflection:   "First week was challenging but exciting.",
			Status:       models.LogbookApproved,
			SubmittedAt:  &submittedAt,
			ReviewedAt:   &reviewedAt,
			ReviewedByID: &reviewer.ID,
			Feedback:     "Great work on the first week!",
			Rating:       &rating,
		}
		if err := tx.Create(logbook).Error; err != nil {
			return fmt.Errorf("create logbook: %w", err)
		}
		summary.Logbooks = 1

		perf := 5
		validUntil := now.AddDate(1, 0, 0)
		verifiedAt := now
		credential := &models.Credential{
			StudentID:    users["student1@example.com"].ID,
			InternshipID: internships[0].ID,
			Company:      "TechCorp Solutions",
			Title:        "Full Stack Development Intern",
			Duration:     12,
			StartDate:    now.AddDate(0, -3, 0),
			EndDate:      now,
			Skills:       strs("React", "Node.js", "PostgreSQL", "JavaScript"),
			Achievements: strs("Developed user authentication system", "Optimized database queries"),
			Performance: models.Performance{
				Rating:              &perf,
				Feedback:            "Excellent performance throughout the internship.",
				Strengths:           strs("Quick learner", "Team player"),
				AreasForImprovement: strs("Code documentation", "Testing practices"),
			},
			Certificate: models.Certificate{
				URL:        "https://example.com/certificates/techcorp_intern.pdf",
				ValidUntil: &validUntil,
			},
			Status:       models.CredentialVerified,
			VerifiedByID: &reviewer.ID,
			VerifiedAt:   &verifiedAt,
		}
		if err := tx.Create(credential).Error; err != nil {
			return fmt.Errorf("create credential: %w", err)
		}
		summary.Credentials = 1
		return nil
	})
	if err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Printf("seeded users=%d internships=%d applications=%d logbooks=%d credentials=%d",
			summary.Users, summary.Internships, summary.Applications, summary.Logbooks, summary.Credentials)
	}
	return summary, nil
}
