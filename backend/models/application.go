package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "pending"
	ApplicationUnderReview ApplicationStatus = "under_review"
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	ApplicationAccepted    ApplicationStatus = "accepted"
	ApplicationRejected    ApplicationStatus = "rejected"
	ApplicationWithdrawn   ApplicationStatus = "withdrawn"
)

// ApplicationStatuses lists every status in lifecycle order.
var ApplicationStatuses = []ApplicationStatus{
	ApplicationPending,
	ApplicationUnderReview,
	ApplicationShortlisted,
	ApplicationAccepted,
	ApplicationRejected,
	ApplicationWithdrawn,
}

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationUnderReview, ApplicationShortlisted,
		ApplicationAccepted, ApplicationRejected, ApplicationWithdrawn:
		return true
	default:
		return false
	}
}

// Withdrawable reports whether the applicant may still withdraw.
func (s ApplicationStatus) Withdrawable() bool {
	switch s {
	case ApplicationPending, ApplicationUnderReview, ApplicationShortlisted:
		return true
	case ApplicationAccepted, ApplicationRejected, ApplicationWithdrawn:
		return false
	default:
		return false
	}
}

// Reviewable reports whether a reviewer may still change the status.
func (s ApplicationStatus) Reviewable() bool {
	switch s {
	case ApplicationPending, ApplicationUnderReview, ApplicationShortlisted,
		ApplicationAccepted, ApplicationRejected:
		return true
	case ApplicationWithdrawn:
		return false
	default:
		return false
	}
}

type Resume struct {
	URL          string `gorm:"not null" json:"url" validate:"required"`
	Filename     string `json:"filename" validate:"required"`
	OriginalName string `json:"originalName,omitempty"`
}

type Portfolio struct {
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

type ApplicationNote struct {
	Text    string    `json:"text"`
	AddedBy uuid.UUID `json:"addedBy"`
	AddedAt time.Time `json:"addedAt"`
}

type Application struct {
	Base
	StudentID           uuid.UUID                            `gorm:"type:uuid;not null;uniqueIndex:idx_application_student_internship,priority:1" json:"studentId"`
	Student             *User                                `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	InternshipID        uuid.UUID                            `gorm:"type:uuid;not null;uniqueIndex:idx_application_student_internship,priority:2;index" json:"internshipId"`
	Internship          *Internship                          `gorm:"foreignKey:InternshipID" json:"internship,omitempty"`
	Status              ApplicationStatus                    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CoverLetter         string                               `gorm:"type:text;not null" json:"coverLetter"`
	Resume              Resume                               `gorm:"embedded;embeddedPrefix:resume_" json:"resume"`
	Portfolio           Portfolio                            `gorm:"embedded;embeddedPrefix:portfolio_" json:"portfolio"`
	AdditionalDocuments datatypes.JSONSlice[Attachment]      `json:"additionalDocuments"`
	AppliedAt           time.Time                            `gorm:"not null" json:"appliedAt"`
	ReviewedAt          *time.Time                           `json:"reviewedAt,omitempty"`
	ReviewedByID        *uuid.UUID                           `gorm:"type:uuid" json:"reviewedBy,omitempty"`
	Feedback            string                               `json:"feedback,omitempty"`
	InterviewScheduled  bool                                 `gorm:"not null;default:false" json:"interviewScheduled"`
	InterviewDate       *time.Time                           `json:"interviewDate,omitempty"`
	InterviewLink       string                               `json:"interviewLink,omitempty"`
	Notes               datatypes.JSONSlice[ApplicationNote] `json:"notes"`
}
