package dto

import (
	"time"

	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/repository"
)

// ReviewDTO represents a review in API responses
type ReviewDTO struct {
	ID              uint64            `json:"id"`
	ProjectID       uint64            `json:"project_id"`
	ReviewerID      uint64            `json:"reviewer_id"`
	Reviewer        *PersonSummaryDTO `json:"reviewer,omitempty"`
	RevieweeID      uint64            `json:"reviewee_id"`
	ReviewerType    models.Role       `json:"reviewer_type"`
	RevieweeType    models.Role       `json:"reviewee_type"`
	Rating          int               `json:"rating"`
	Communication   int               `json:"communication"`
	Quality         int               `json:"quality"`
	Timeliness      int               `json:"timeliness"`
	Professionalism int               `json:"professionalism"`
	Comment         string            `json:"comment"`
	IsPublic        bool              `json:"is_public"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// UserReviewsDTO is a page of reviews about a person plus their averages
type UserReviewsDTO struct {
	Reviews []ReviewDTO               `json:"reviews"`
	Summary *repository.ReviewSummary `json:"summary"`
}

// ToReviewDTO converts a Review model to ReviewDTO
func ToReviewDTO(review models.Review) ReviewDTO {
	return ReviewDTO{
		ID:              review.ID,
		ProjectID:       review.ProjectID,
		ReviewerID:      review.ReviewerID,
		Reviewer:        ToPersonSummaryDTO(review.Reviewer),
		RevieweeID:      review.RevieweeID,
		ReviewerType:    review.ReviewerType,
		RevieweeType:    review.RevieweeType,
		Rating:          review.Rating,
		Communication:   review.Communication,
		Quality:         review.Quality,
		Timeliness:      review.Timeliness,
		Professionalism: review.Professionalism,
		Comment:         review.Comment,
		IsPublic:        review.IsPublic,
		CreatedAt:       review.CreatedAt,
		UpdatedAt:       review.UpdatedAt,
	}
}

// ToReviewDTOs converts a slice of reviews
func ToReviewDTOs(reviews []models.Review) []ReviewDTO {
	out := make([]ReviewDTO, len(reviews))
	for i, r := range reviews {
		out[i] = ToReviewDTO(r)
	}
	return out
}
