package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/freelance-marketplace-api/internal/dto"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/services"
	"github.com/yukikurage/freelance-marketplace-api/internal/utils"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// CreateReview records the caller's review of the other side of a completed project
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	type CreateReviewRequest struct {
		ProjectID       uint64  `json:"project_id" binding:"required"`
		RevieweeID      *uint64 `json:"reviewee_id"`
		Rating          int     `json:"rating" binding:"required"`
		Communication   *int    `json:"communication"`
		Quality         *int    `json:"quality"`
		Timeliness      *int    `json:"timeliness"`
		Professionalism *int    `json:"professionalism"`
		Comment         string  `json:"comment"`
		IsPublic        *bool   `json:"is_public"`
	}

	var req CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), caller, services.CreateReviewInput{
		ProjectID:       req.ProjectID,
		RevieweeID:      req.RevieweeID,
		Rating:          req.Rating,
		Communication:   req.Communication,
		Quality:         req.Quality,
		Timeliness:      req.Timeliness,
		Professionalism: req.Professionalism,
		Comment:         req.Comment,
		IsPublic:        req.IsPublic,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Review created", dto.ToReviewDTO(*review))
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateReviewRequest struct {
		Rating          *int    `json:"rating"`
		Communication   *int    `json:"communication"`
		Quality         *int    `json:"quality"`
		Timeliness      *int    `json:"timeliness"`
		Professionalism *int    `json:"professionalism"`
		Comment         *string `json:"comment"`
		IsPublic        *bool   `json:"is_public"`
	}

	var req UpdateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.UpdateReview(c.Request.Context(), caller, reviewID, services.UpdateReviewInput{
		Rating:          req.Rating,
		Communication:   req.Communication,
		Quality:         req.Quality,
		Timeliness:      req.Timeliness,
		Professionalism: req.Professionalism,
		Comment:         req.Comment,
		IsPublic:        req.IsPublic,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Review updated", dto.ToReviewDTO(*review))
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), caller, reviewID); err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Review deleted", nil)
}

// GetUserReviews returns public reviews about a person with rating averages.
// user_type narrows the result to reviews received as client or freelancer.
func (h *ReviewHandler) GetUserReviews(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var userType *models.Role
	if raw := c.Query("user_type"); raw != "" {
		role := models.Role(raw)
		userType = &role
	}

	params := utils.GetPaginationParams(c)
	result, total, err := h.reviewService.GetUserReviews(c.Request.Context(), userID, userType, params.Page, params.Limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondPage(c, "Reviews retrieved", dto.UserReviewsDTO{
		Reviews: dto.ToReviewDTOs(result.Reviews),
		Summary: result.Summary,
	}, params, total)
}

// GetProjectReviews returns the public reviews left on a project
func (h *ReviewHandler) GetProjectReviews(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reviews, err := h.reviewService.GetProjectReviews(c.Request.Context(), projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Reviews retrieved", dto.ToReviewDTOs(reviews))
}
