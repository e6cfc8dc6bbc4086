package models

import (
	"time"
)

// ProposalStatus is the lifecycle state shared by offers and applications.
// All three outcomes are terminal.
type ProposalStatus string

const (
	ProposalStatusPending   ProposalStatus = "PENDING"
	ProposalStatusAccepted  ProposalStatus = "ACCEPTED"
	ProposalStatusRejected  ProposalStatus = "REJECTED"
	ProposalStatusWithdrawn ProposalStatus = "WITHDRAWN"
)

type EngagementSource string

const (
	EngagementSourceOffer       EngagementSource = "OFFER"
	EngagementSourceApplication EngagementSource = "APPLICATION"
)

type EngagementStatus string

const (
	EngagementStatusActive     EngagementStatus = "ACTIVE"
	EngagementStatusCompleted  EngagementStatus = "COMPLETED"
	EngagementStatusTerminated EngagementStatus = "TERMINATED"
)

// Mentorship is a mentorship listing owned by an alumnus. Slots are claimed
// on acceptance; the row is soft-deleted, never removed while referenced.
type Mentorship struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	AlumnusID uint          `gorm:"not null;index" json:"alumnus_id"`
	Alumnus   AlumniProfile `gorm:"foreignKey:AlumnusID" json:"alumnus,omitempty"`

	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	FocusArea   string `gorm:"size:100" json:"focus_area"`

	Capacity       int  `gorm:"not null" json:"capacity"`
	RemainingSlots int  `gorm:"not null" json:"remaining_slots"`
	IsActive       bool `gorm:"default:true" json:"is_active"`

	IsDeleted bool       `gorm:"default:false;index" json:"-"`
	DeletedAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Mentorship model
func (Mentorship) TableName() string {
	return "mentorships"
}

// MentorshipOffer is a proposal from the mentorship owner to a student.
// One row per (mentorship, student) pair, enforced by the composite index.
type MentorshipOffer struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	MentorshipID uint           `gorm:"not null;uniqueIndex:idx_mentorship_offer_pair" json:"mentorship_id"`
	Mentorship   Mentorship     `gorm:"foreignKey:MentorshipID" json:"mentorship,omitempty"`
	StudentID    uint           `gorm:"not null;uniqueIndex:idx_mentorship_offer_pair" json:"student_id"`
	Student      StudentProfile `gorm:"foreignKey:StudentID" json:"student,omitempty"`

	Status      ProposalStatus `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	RespondedAt *time.Time     `json:"responded_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for MentorshipOffer model
func (MentorshipOffer) TableName() string {
	return "mentorship_offers"
}

// MentorshipApplication is a proposal from a student to a mentorship
type MentorshipApplication struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	MentorshipID uint           `gorm:"not null;uniqueIndex:idx_mentorship_application_pair" json:"mentorship_id"`
	Mentorship   Mentorship     `gorm:"foreignKey:MentorshipID" json:"mentorship,omitempty"`
	StudentID    uint           `gorm:"not null;uniqueIndex:idx_mentorship_application_pair" json:"student_id"`
	Student      StudentProfile `gorm:"foreignKey:StudentID" json:"student,omitempty"`

	Status      ProposalStatus `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	RespondedAt *time.Time     `json:"responded_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for MentorshipApplication model
func (MentorshipApplication) TableName() string {
	return "mentorship_applications"
}

// MentorshipEngagement is the single authoritative record that a student is
// engaged in a mentorship. The (mentorship, student) uniqueness is a database
// constraint: two concurrent accepts cannot both insert.
type MentorshipEngagement struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	MentorshipID uint           `gorm:"not null;uniqueIndex:idx_mentorship_engagement_pair" json:"mentorship_id"`
	Mentorship   Mentorship     `gorm:"foreignKey:MentorshipID" json:"mentorship,omitempty"`
	StudentID    uint           `gorm:"not null;uniqueIndex:idx_mentorship_engagement_pair" json:"student_id"`
	Student      StudentProfile `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	AlumnusID    uint           `gorm:"not null;index" json:"alumnus_id"`

	// Weak back-reference to the offer or application that produced this
	// engagement. Relation plus lookup only, never ownership.
	Source   EngagementSource `gorm:"size:20;not null" json:"source"`
	SourceID uint             `gorm:"not null" json:"source_id"`

	Status EngagementStatus `gorm:"size:20;not null;default:ACTIVE;index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for MentorshipEngagement model
func (MentorshipEngagement) TableName() string {
	return "mentorship_engagements"
}

// CreateMentorshipRequest represents a request to create a mentorship
type CreateMentorshipRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	FocusArea   string `json:"focus_area"`
	Capacity    int    `json:"capacity" binding:"required,gt=0"`
}

// UpdateMentorshipRequest represents a partial update to a mentorship.
// Raising or lowering capacity shifts remaining slots by the same amount.
type UpdateMentorshipRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	FocusArea   *string `json:"focus_area"`
	Capacity    *int    `json:"capacity" binding:"omitempty,gt=0"`
	IsActive    *bool   `json:"is_active"`
}

// CreateOfferRequest represents an offer from an opportunity owner to a student
type CreateOfferRequest struct {
	StudentID uint `json:"student_id" binding:"required"`
}
