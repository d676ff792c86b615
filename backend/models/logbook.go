package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type LogbookStatus string

const (
	LogbookDraft     LogbookStatus = "draft"
	LogbookSubmitted LogbookStatus = "submitted"
	LogbookApproved  LogbookStatus = "approved"
	LogbookRejected  LogbookStatus = "rejected"
)

func (s LogbookStatus) Valid() bool {
	switch s {
	case LogbookDraft, LogbookSubmitted, LogbookApproved, LogbookRejected:
		return true
	default:
		return false
	}
}

// Editable reports whether the student may still change the entry.
func (s LogbookStatus) Editable() bool {
	switch s {
	case LogbookDraft, LogbookSubmitted, LogbookRejected:
		return true
	case LogbookApproved:
		return false
	default:
		return false
	}
}

// IsReviewOutcome reports whether s is a valid reviewer decision.
func (s LogbookStatus) IsReviewOutcome() bool {
	switch s {
	case LogbookApproved, LogbookRejected:
		return true
	case LogbookDraft, LogbookSubmitted:
		return false
	default:
		return false
	}
}

type Proficiency string

const (
	ProficiencyBeginner     Proficiency = "beginner"
	ProficiencyIntermediate Proficiency = "intermediate"
	ProficiencyAdvanced     Proficiency = "advanced"
)

type LogbookTask struct {
	Task        string  `json:"task" validate:"required"`
	Description string  `json:"description,omitempty"`
	HoursSpent  float64 `json:"hoursSpent" validate:"gte=0"`
}

type LogbookSkill struct {
	Skill       string      `json:"skill" validate:"required"`
	Proficiency Proficiency `json:"proficiency" validate:"omitempty,oneof=beginner intermediate advanced"`
}

type LogbookChallenge struct {
	Challenge string `json:"challenge" validate:"required"`
	Solution  string `json:"solution,omitempty"`
	Outcome   string `json:"outcome,omitempty"`
}

type LogbookAchievement struct {
	Achievement string `json:"achievement" validate:"required"`
	Impact      string `json:"impact,omitempty"`
}

type Logbook struct {
	Base
	StudentID      uuid.UUID                               `gorm:"type:uuid;not null;uniqueIndex:idx_logbook_student_internship_week,priority:1" json:"studentId"`
	Student        *User                                   `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	InternshipID   uuid.UUID                               `gorm:"type:uuid;not null;uniqueIndex:idx_logbook_student_internship_week,priority:2;index" json:"internshipId"`
	Internship     *Internship                             `gorm:"foreignKey:InternshipID" json:"internship,omitempty"`
	Title          string                                  `gorm:"not null" json:"title"`
	Week           int                                     `gorm:"not null;uniqueIndex:idx_logbook_student_internship_week,priority:3" json:"week"`
	Date           time.Time                               `gorm:"not null" json:"date"`
	TasksCompleted datatypes.JSONSlice[LogbookTask]        `json:"tasksCompleted"`
	SkillsLearned  datatypes.JSONSlice[LogbookSkill]       `json:"skillsLearned"`
	Challenges     datatypes.JSONSlice[LogbookChallenge]   `json:"challenges"`
	Achievements   datatypes.JSONSlice[LogbookAchievement] `json:"achievements"`
	Reflection     string                                  `gorm:"type:text;not null" json:"reflection"`
	Attachments    datatypes.JSONSlice[Attachment]         `json:"attachments"`
	Status         LogbookStatus                           `gorm:"type:varchar(20);not null;default:'draft';index:idx_logbook_status_submitted,priority:1" json:"status"`
	SubmittedAt    *time.Time                              `gorm:"index:idx_logbook_status_submitted,priority:2" json:"submittedAt,omitempty"`
	ReviewedAt     *time.Time                              `json:"reviewedAt,omitempty"`
	ReviewedByID   *uuid.UUID                              `gorm:"type:uuid" json:"reviewedBy,omitempty"`
	Feedback       string                                  `json:"feedback,omitempty"`
	Rating         *int                                    `json:"rating,omitempty"`
}
