package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type InternshipType string

const (
	InternshipRemote InternshipType = "remote"
	InternshipOnsite InternshipType = "onsite"
	InternshipHybrid InternshipType = "hybrid"
)

type InternshipStatus string

const (
	InternshipDraft     InternshipStatus = "draft"
	InternshipActive    InternshipStatus = "active"
	InternshipPaused    InternshipStatus = "paused"
	InternshipClosed    InternshipStatus = "closed"
	InternshipCompleted InternshipStatus = "completed"
)

func (s InternshipStatus) Valid() bool {
	switch s {
	case InternshipDraft, InternshipActive, InternshipPaused, InternshipClosed, InternshipCompleted:
		return true
	default:
		return false
	}
}

// CanTransitionTo encodes the posting lifecycle: draft to active, active and paused both ways,
// either of them to closed, and closed to completed.
// Staying in the same status is always allowed.
func (s InternshipStatus) CanTransitionTo(next InternshipStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case InternshipDraft:
		return next == InternshipActive
	case InternshipActive:
		return next == InternshipPaused || next == InternshipClosed
	case InternshipPaused:
		return next == InternshipActive || next == InternshipClosed
	case InternshipClosed:
		return next == InternshipCompleted
	case InternshipCompleted:
		return false
	default:
		return false
	}
}

type StipendType string

const (
	StipendPaid    StipendType = "paid"
	StipendUnpaid  StipendType = "unpaid"
	StipendStipend StipendType = "stipend"
)

type Stipend struct {
	Amount   float64     `gorm:"not null;default:0" json:"amount"`
	Currency string      `gorm:"type:varchar(8);not null;default:'INR'" json:"currency"`
	Type     StipendType `gorm:"type:varchar(20);not null;default:'unpaid'" json:"type"`
}

type Internship struct {
	Base
	Title               string                      `gorm:"not null" json:"title"`
	Description         string                      `gorm:"type:text;not null" json:"description"`
	Company             string                      `gorm:"not null" json:"company"`
	Location            string                      `gorm:"not null" json:"location"`
	Type                InternshipType              `gorm:"type:varchar(20);not null" json:"type"`
	Duration            int                         `gorm:"not null" json:"duration"`
	Stipend             Stipend                     `gorm:"embedded;embeddedPrefix:stipend_" json:"stipend"`
	Skills              datatypes.JSONSlice[string] `json:"skills"`
	Requirements        datatypes.JSONSlice[string] `json:"requirements"`
	Responsibilities    datatypes.JSONSlice[string] `json:"responsibilities"`
	Benefits            datatypes.JSONSlice[string] `json:"benefits"`
	StartDate           time.Time                   `gorm:"not null;index:idx_internship_status_start,priority:2" json:"startDate"`
	EndDate             time.Time                   `gorm:"not null" json:"endDate"`
	ApplicationDeadline time.Time                   `gorm:"not null" json:"applicationDeadline"`
	MaxApplications     int                         `gorm:"not null;default:100" json:"maxApplications"`
	CurrentApplications int                         `gorm:"not null;default:0" json:"currentApplications"`
	Status              InternshipStatus            `gorm:"type:varchar(20);not null;default:'draft';index:idx_internship_status_start,priority:1" json:"status"`
	PostedByID          uuid.UUID                   `gorm:"type:uuid;not null;index" json:"postedById"`
	PostedBy            *User                       `gorm:"foreignKey:PostedByID" json:"postedBy,omitempty"`
	Category            string                      `gorm:"not null;index" json:"category"`
	Tags                datatypes.JSONSlice[string] `json:"tags"`
	IsVerified          bool                        `gorm:"not null;default:false" json:"isVerified"`
	VerifiedByID        *uuid.UUID                  `gorm:"type:uuid" json:"verifiedById,omitempty"`
	VerifiedAt          *time.Time                  `json:"verifiedAt,omitempty"`
}

// OwnedBy reports whether userID posted the internship.
func (i *Internship) OwnedBy(userID uuid.UUID) bool {
	return i.PostedByID == userID
}

// AcceptingApplications checks status and deadline at the given instant.
func (i *Internship) AcceptingApplications(now time.Time) bool {
	return i.Status == InternshipActive && !now.After(i.ApplicationDeadline)
}

// HasCapacity reports whether another application fits.
func (i *Internship) HasCapacity() bool {
	return i.CurrentApplications < i.MaxApplications
}
