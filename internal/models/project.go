package models

import (
	"time"

	"gorm.io/datatypes"
)

// ProjectStatus is the single source of truth for where a project is in its
// lifecycle. The legacy pending/active/completed flags are derived from it.
type ProjectStatus string

const (
	ProjectOpen       ProjectStatus = "open"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectInactive   ProjectStatus = "inactive"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectOpen, ProjectInProgress, ProjectCompleted, ProjectInactive:
		return true
	}
	return false
}

// IsPending reports whether the project is waiting for a bid to be awarded.
func (s ProjectStatus) IsPending() bool { return s == ProjectOpen }

// IsActive reports whether the project is live (on the market or being worked on).
func (s ProjectStatus) IsActive() bool { return s == ProjectOpen || s == ProjectInProgress }

func (s ProjectStatus) IsCompleted() bool { return s == ProjectCompleted }

// SkillRef is an opaque reference to a skill in the catalogue.
type SkillRef struct {
	Skill   string `json:"skill"`
	SkillID string `json:"skill_id"`
}

type Project struct {
	ID                   uint64                        `gorm:"primarykey" json:"id"`
	ClientID             uint64                        `gorm:"not null;index" json:"client_id"`
	Title                string                        `gorm:"type:varchar(255);not null" json:"title"`
	Description          string                        `gorm:"type:text;not null" json:"description"`
	SkillsRequired       datatypes.JSONSlice[SkillRef] `json:"skills_required"`
	Budget               float64                       `gorm:"not null" json:"budget"`
	Duration             string                        `gorm:"type:varchar(100)" json:"duration"`
	Status               ProjectStatus                 `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	AcceptedBidID        *uint64                       `json:"accepted_bid_id"`
	AssignedFreelancerID *uint64                       `gorm:"index" json:"assigned_freelancer_id"`
	BidDeadline          *time.Time                    `json:"bid_deadline"`
	CompletedAt          *time.Time                    `json:"completed_at"`
	ClientReviewed       bool                          `gorm:"not null;default:false" json:"client_reviewed"`
	FreelancerReviewed   bool                          `gorm:"not null;default:false" json:"freelancer_reviewed"`
	CreatedAt            time.Time                     `gorm:"index" json:"created_at"`
	UpdatedAt            time.Time                     `json:"updated_at"`

	// Relations
	Client Person `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

// HasAssignedFreelancer reports whether a freelancer has been attached to the project.
func (p Project) HasAssignedFreelancer() bool {
	return p.AssignedFreelancerID != nil && *p.AssignedFreelancerID != 0
}

// IsParticipant reports whether the person is the owner or the assigned freelancer.
func (p Project) IsParticipant(personID uint64) bool {
	if p.ClientID == personID {
		return true
	}
	return p.HasAssignedFreelancer() && *p.AssignedFreelancerID == personID
}
