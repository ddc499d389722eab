package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/freelance-marketplace-api/internal/dto"
	apierrors "github.com/yukikurage/freelance-marketplace-api/internal/errors"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/services"
	"github.com/yukikurage/freelance-marketplace-api/internal/utils"
)

type BidHandler struct {
	bidService *services.BidService
}

func NewBidHandler(bidService *services.BidService) *BidHandler {
	return &BidHandler{
		bidService: bidService,
	}
}

// CreateBid places a bid on an open project
func (h *BidHandler) CreateBid(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	type CreateBidRequest struct {
		ProjectID         uint64             `json:"project_id" binding:"required"`
		Amount            float64            `json:"amount" binding:"required"`
		Duration          int                `json:"duration" binding:"required"`
		CoverLetter       string             `json:"cover_letter"`
		Milestones        []models.Milestone `json:"milestones"`
		StartDate         *time.Time         `json:"start_date"`
		AvailabilityHours *int               `json:"availability_hours"`
	}

	var req CreateBidRequest
	if !bindJSON(c, &req) {
		return
	}

	bid, err := h.bidService.CreateBid(c.Request.Context(), caller, services.CreateBidInput{
		ProjectID:         req.ProjectID,
		Amount:            req.Amount,
		Duration:          req.Duration,
		CoverLetter:       req.CoverLetter,
		Milestones:        req.Milestones,
		StartDate:         req.StartDate,
		AvailabilityHours: req.AvailabilityHours,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Bid placed", dto.ToBidDTO(*bid))
}

// GetBid returns a bid visible to the caller
func (h *BidHandler) GetBid(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	bidID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	bid, err := h.bidService.GetBid(c.Request.Context(), caller, bidID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Bid retrieved", dto.ToBidDTO(*bid))
}

// UpdateBid changes the terms of a pending bid
func (h *BidHandler) UpdateBid(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	bidID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateBidRequest struct {
		Amount            *float64            `json:"amount"`
		Duration          *int                `json:"duration"`
		CoverLetter       *string             `json:"cover_letter"`
		Milestones        *[]models.Milestone `json:"milestones"`
		StartDate         *time.Time          `json:"start_date"`
		AvailabilityHours *int                `json:"availability_hours"`
	}

	var req UpdateBidRequest
	if !bindJSON(c, &req) {
		return
	}

	bid, err := h.bidService.UpdateBid(c.Request.Context(), caller, bidID, services.UpdateBidInput{
		Amount:            req.Amount,
		Duration:          req.Duration,
		CoverLetter:       req.CoverLetter,
		Milestones:        req.Milestones,
		StartDate:         req.StartDate,
		AvailabilityHours: req.AvailabilityHours,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Bid updated", dto.ToBidDTO(*bid))
}

// AcceptBid assigns the bidding freelancer to the project and rejects the
// other pending bids.
func (h *BidHandler) AcceptBid(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	bidID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	bid, err := h.bidService.AcceptBid(c.Request.Context(), caller, bidID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Bid accepted", dto.ToBidDTO(*bid))
}

func (h *BidHandler) RejectBid(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	bidID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type RejectBidRequest struct {
		Message string `json:"message" binding:"max=2000"`
	}

	// the body is optional
	var req RejectBidRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	bid, err := h.bidService.RejectBid(c.Request.Context(), caller, bidID, req.Message)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Bid rejected", dto.ToBidDTO(*bid))
}

func (h *BidHandler) WithdrawBid(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	bidID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	bid, err := h.bidService.WithdrawBid(c.Request.Context(), caller, bidID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Bid withdrawn", dto.ToBidDTO(*bid))
}

// ListProjectBids lists the bids on a project
func (h *BidHandler) ListProjectBids(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	input, params, ok := listBidsInput(c)
	if !ok {
		return
	}

	bids, total, err := h.bidService.ListBidsForProject(c.Request.Context(), caller, projectID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondPage(c, "Bids retrieved", dto.ToBidDTOs(bids), params, total)
}

// ListFreelancerBids lists the bids placed by a freelancer
func (h *BidHandler) ListFreelancerBids(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	freelancerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	h.listFreelancerBids(c, caller, freelancerID)
}

// ListMyBids lists the caller's own bids
func (h *BidHandler) ListMyBids(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	h.listFreelancerBids(c, caller, caller.ID)
}

func (h *BidHandler) listFreelancerBids(c *gin.Context, caller services.Caller, freelancerID uint64) {
	input, params, ok := listBidsInput(c)
	if !ok {
		return
	}

	bids, total, err := h.bidService.ListBidsForFreelancer(c.Request.Context(), caller, freelancerID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondPage(c, "Bids retrieved", dto.ToBidDTOs(bids), params, total)
}

func listBidsInput(c *gin.Context) (services.ListBidsInput, utils.PaginationParams, bool) {
	params := utils.GetPaginationParams(c)
	input := services.ListBidsInput{
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if raw := c.Query("status"); raw != "" {
		status := models.BidStatus(raw)
		if !status.Valid() {
			apierrors.BadRequest(c, "Invalid status")
			return input, params, false
		}
		input.Status = &status
	}
	return input, params, true
}
