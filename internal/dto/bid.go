package dto

import (
	"time"

	"github.com/yukikurage/freelance-marketplace-api/internal/models"
)

// BidDTO represents a bid in API responses
type BidDTO struct {
	ID                uint64             `json:"id"`
	ProjectID         uint64             `json:"project_id"`
	Project           *ProjectSummaryDTO `json:"project,omitempty"`
	FreelancerID      uint64             `json:"freelancer_id"`
	Freelancer        *PersonSummaryDTO  `json:"freelancer,omitempty"`
	Amount            float64            `json:"amount"`
	Duration          int                `json:"duration"`
	CoverLetter       string             `json:"cover_letter"`
	Status            models.BidStatus   `json:"status"`
	Milestones        []models.Milestone `json:"milestones"`
	StartDate         *time.Time         `json:"start_date"`
	AvailabilityHours int                `json:"availability_hours"`
	ClientDecisionAt  *time.Time         `json:"client_decision_at"`
	ClientMessage     string             `json:"client_message,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// ToBidDTO converts a Bid model to BidDTO
func ToBidDTO(bid models.Bid) BidDTO {
	milestones := []models.Milestone(bid.Milestones)
	if milestones == nil {
		milestones = []models.Milestone{}
	}

	return BidDTO{
		ID:                bid.ID,
		ProjectID:         bid.ProjectID,
		Project:           toProjectSummaryDTO(bid.Project),
		FreelancerID:      bid.FreelancerID,
		Freelancer:        ToPersonSummaryDTO(bid.Freelancer),
		Amount:            bid.Amount,
		Duration:          bid.Duration,
		CoverLetter:       bid.CoverLetter,
		Status:            bid.Status,
		Milestones:        milestones,
		StartDate:         bid.StartDate,
		AvailabilityHours: bid.AvailabilityHours,
		ClientDecisionAt:  bid.ClientDecisionAt,
		ClientMessage:     bid.ClientMessage,
		CreatedAt:         bid.CreatedAt,
		UpdatedAt:         bid.UpdatedAt,
	}
}

// ToBidDTOs converts a slice of bids
func ToBidDTOs(bids []models.Bid) []BidDTO {
	out := make([]BidDTO, len(bids))
	for i, b := range bids {
		out[i] = ToBidDTO(b)
	}
	return out
}
