package models

import (
	"time"

	"gorm.io/datatypes"
)

type BidStatus string

const (
	BidPending   BidStatus = "pending"
	BidAccepted  BidStatus = "accepted"
	BidRejected  BidStatus = "rejected"
	BidWithdrawn BidStatus = "withdrawn"
)

func (s BidStatus) Valid() bool {
	switch s {
	case BidPending, BidAccepted, BidRejected, BidWithdrawn:
		return true
	}
	return false
}

// Active reports whether the bid still counts towards the one-live-bid rule.
func (s BidStatus) Active() bool {
	return s == BidPending || s == BidAccepted
}

type Milestone struct {
	Title     string     `json:"title"`
	Amount    float64    `json:"amount"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	Completed bool       `json:"completed"`
}

type Bid struct {
	ID                uint64                         `gorm:"primarykey" json:"id"`
	ProjectID         uint64                         `gorm:"not null;index;uniqueIndex:idx_bids_active_per_freelancer,priority:1" json:"project_id"`
	FreelancerID      uint64                         `gorm:"not null;index;uniqueIndex:idx_bids_active_per_freelancer,priority:2" json:"freelancer_id"`
	Amount            float64                        `gorm:"not null" json:"amount"`
	Duration          int                            `gorm:"not null" json:"duration"`
	CoverLetter       string                         `gorm:"type:text" json:"cover_letter"`
	Status            BidStatus                      `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Milestones        datatypes.JSONSlice[Milestone] `json:"milestones"`
	StartDate         *time.Time                     `json:"start_date"`
	AvailabilityHours int                            `gorm:"not null" json:"availability_hours"`
	ClientDecisionAt  *time.Time                     `json:"client_decision_at"`
	ClientMessage     string                         `gorm:"type:text" json:"client_message"`
	// ActiveSlot is 1 while the bid is pending or accepted and NULL once it
	// is terminal, so the unique index only constrains live bids.
	ActiveSlot *int      `gorm:"uniqueIndex:idx_bids_active_per_freelancer,priority:3" json:"-"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	Project    Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Freelancer Person  `gorm:"foreignKey:FreelancerID" json:"freelancer,omitempty"`
}

// ActiveSlotFor returns the active_slot column value for a status.
func ActiveSlotFor(status BidStatus) *int {
	if !status.Active() {
		return nil
	}
	one := 1
	return &one
}
