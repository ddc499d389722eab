package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/freelance-marketplace-api/internal/constants"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BidService handles bid business logic
type BidService struct {
	bidRepo     repository.BidRepository
	projectRepo repository.ProjectRepository
	guard       *Guard
	now         func() time.Time
}

// NewBidService creates a new BidService
func NewBidService(bidRepo repository.BidRepository, projectRepo repository.ProjectRepository, guard *Guard) *BidService {
	return &BidService{
		bidRepo:     bidRepo,
		projectRepo: projectRepo,
		guard:       guard,
		now:         time.Now,
	}
}

// CreateBidInput represents input for placing a bid
type CreateBidInput struct {
	ProjectID         uint64
	Amount            float64
	Duration          int
	CoverLetter       string
	Milestones        []models.Milestone
	StartDate         *time.Time
	AvailabilityHours *int
}

// UpdateBidInput represents a partial bid update. Nil fields are left untouched.
type UpdateBidInput struct {
	Amount            *float64
	Duration          *int
	CoverLetter       *string
	Milestones        *[]models.Milestone
	StartDate         *time.Time
	AvailabilityHours *int
}

// ListBidsInput represents filters for listing bids
type ListBidsInput struct {
	Status   *models.BidStatus
	Page     int
	PageSize int
}

// CreateBid places a pending bid on an open project
func (s *BidService) CreateBid(ctx context.Context, caller Caller, input CreateBidInput) (*models.Bid, error) {
	if err := s.guard.Allow(caller, models.RoleFreelancer); err != nil {
		return nil, err
	}
	if err := validateBidTerms(input.Amount, input.Duration, input.CoverLetter); err != nil {
		return nil, err
	}
	if err := validateMilestones(input.Milestones); err != nil {
		return nil, err
	}

	availability := constants.DefaultAvailabilityHours
	if input.AvailabilityHours != nil {
		availability = *input.AvailabilityHours
	}
	if err := validateAvailability(availability); err != nil {
		return nil, err
	}

	project, err := s.findProject(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.Status != models.ProjectOpen {
		return nil, ErrProjectNotOpen
	}
	if project.BidDeadline != nil && project.BidDeadline.Before(s.now()) {
		return nil, ErrBidDeadlinePassed
	}

	active, err := s.bidRepo.HasActiveBid(ctx, project.ID, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing bids: %w", err)
	}
	if active {
		return nil, ErrActiveBidExists
	}

	bid := &models.Bid{
		ProjectID:         project.ID,
		FreelancerID:      caller.ID,
		Amount:            input.Amount,
		Duration:          input.Duration,
		CoverLetter:       strings.TrimSpace(input.CoverLetter),
		Milestones:        datatypes.NewJSONSlice(input.Milestones),
		StartDate:         input.StartDate,
		AvailabilityHours: availability,
	}

	if err := s.bidRepo.Create(ctx, bid); err != nil {
		switch {
		case errors.Is(err, repository.ErrActiveBidExists):
			return nil, ErrActiveBidExists
		case errors.Is(err, repository.ErrProjectNotOpen):
			return nil, ErrProjectNotOpen
		default:
			return nil, fmt.Errorf("failed to create bid: %w", err)
		}
	}

	return s.findBid(ctx, bid.ID, "Project", "Freelancer")
}

// AcceptBid accepts a pending bid, rejects its competitors and starts the project
func (s *BidService) AcceptBid(ctx context.Context, caller Caller, bidID uint64) (*models.Bid, error) {
	bid, err := s.findDecidableBid(ctx, caller, bidID)
	if err != nil {
		return nil, err
	}

	err = s.bidRepo.Accept(ctx, repository.AcceptBidParams{
		ProjectID:    bid.ProjectID,
		BidID:        bid.ID,
		FreelancerID: bid.FreelancerID,
		DecidedAt:    s.now(),
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProjectNotOpen):
			return nil, ErrProjectNotOpen
		case errors.Is(err, repository.ErrBidNotPending):
			return nil, ErrBidNotPending
		default:
			return nil, fmt.Errorf("failed to accept bid: %w", err)
		}
	}

	return s.findBid(ctx, bidID, "Project", "Freelancer")
}

// RejectBid rejects a pending bid with an optional message to the freelancer
func (s *BidService) RejectBid(ctx context.Context, caller Caller, bidID uint64, message string) (*models.Bid, error) {
	if _, err := s.findDecidableBid(ctx, caller, bidID); err != nil {
		return nil, err
	}

	fields := map[string]any{"client_decision_at": s.now()}
	if message = strings.TrimSpace(message); message != "" {
		fields["client_message"] = message
	}

	if err := s.bidRepo.Decide(ctx, bidID, models.BidRejected, fields); err != nil {
		if errors.Is(err, repository.ErrBidNotPending) {
			return nil, ErrBidNotPending
		}
		return nil, fmt.Errorf("failed to reject bid: %w", err)
	}

	return s.findBid(ctx, bidID, "Project", "Freelancer")
}

// WithdrawBid withdraws the caller's own pending bid
func (s *BidService) WithdrawBid(ctx context.Context, caller Caller, bidID uint64) (*models.Bid, error) {
	bid, err := s.findOwnBid(ctx, caller, bidID)
	if err != nil {
		return nil, err
	}
	if bid.Status != models.BidPending {
		return nil, ErrBidNotPending
	}

	if err := s.bidRepo.Decide(ctx, bidID, models.BidWithdrawn, nil); err != nil {
		if errors.Is(err, repository.ErrBidNotPending) {
			return nil, ErrBidNotPending
		}
		return nil, fmt.Errorf("failed to withdraw bid: %w", err)
	}

	return s.findBid(ctx, bidID, "Project", "Freelancer")
}

// UpdateBid applies a partial update to the caller's own pending bid
func (s *BidService) UpdateBid(ctx context.Context, caller Caller, bidID uint64, input UpdateBidInput) (*models.Bid, error) {
	bid, err := s.findOwnBid(ctx, caller, bidID)
	if err != nil {
		return nil, err
	}
	if bid.Status != models.BidPending {
		return nil, ErrBidNotPending
	}

	amount, duration, coverLetter := bid.Amount, bid.Duration, bid.CoverLetter
	fields := map[string]any{}

	if input.Amount != nil {
		amount = *input.Amount
		fields["amount"] = amount
	}
	if input.Duration != nil {
		duration = *input.Duration
		fields["duration"] = duration
	}
	if input.CoverLetter != nil {
		coverLetter = strings.TrimSpace(*input.CoverLetter)
		fields["cover_letter"] = coverLetter
	}
	if err := validateBidTerms(amount, duration, coverLetter); err != nil {
		return nil, err
	}

	if input.Milestones != nil {
		if err := validateMilestones(*input.Milestones); err != nil {
			return nil, err
		}
		fields["milestones"] = datatypes.NewJSONSlice(*input.Milestones)
	}
	if input.StartDate != nil {
		fields["start_date"] = *input.StartDate
	}
	if input.AvailabilityHours != nil {
		if err := validateAvailability(*input.AvailabilityHours); err != nil {
			return nil, err
		}
		fields["availability_hours"] = *input.AvailabilityHours
	}

	if len(fields) > 0 {
		if err := s.bidRepo.UpdatePending(ctx, bidID, fields); err != nil {
			if errors.Is(err, repository.ErrBidNotPending) {
				return nil, ErrBidNotPending
			}
			return nil, fmt.Errorf("failed to update bid: %w", err)
		}
	}

	return s.findBid(ctx, bidID, "Project", "Freelancer")
}

// GetBid returns a bid visible to its freelancer, the project owner or an admin
func (s *BidService) GetBid(ctx context.Context, caller Caller, bidID uint64) (*models.Bid, error) {
	bid, err := s.findBid(ctx, bidID, "Project", "Freelancer")
	if err != nil {
		return nil, err
	}

	switch {
	case caller.Is(models.RoleAdmin):
	case caller.Is(models.RoleFreelancer) && bid.FreelancerID == caller.ID:
	case caller.Is(models.RoleClient) && bid.Project.ClientID == caller.ID:
	default:
		return nil, ErrNotBidOwner
	}
	return bid, nil
}

// ListBidsForProject lists bids on a project for its owner, its bidders or an admin
func (s *BidService) ListBidsForProject(ctx context.Context, caller Caller, projectID uint64, input ListBidsInput) ([]models.Bid, int64, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, 0, Validation("invalid bid status")
	}

	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, 0, err
	}

	switch caller.Role {
	case models.RoleAdmin:
	case models.RoleClient:
		if project.ClientID != caller.ID {
			return nil, 0, ErrBidsNotVisible
		}
	case models.RoleFreelancer:
		hasBid, err := s.bidRepo.HasAnyBid(ctx, projectID, caller.ID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to check bids: %w", err)
		}
		if !hasBid {
			return nil, 0, ErrBidsNotVisible
		}
	default:
		return nil, 0, ErrBidsNotVisible
	}

	return s.list(ctx, repository.BidFilter{ProjectID: &projectID}, input)
}

// ListBidsForFreelancer lists a freelancer's bids for the freelancer or an admin
func (s *BidService) ListBidsForFreelancer(ctx context.Context, caller Caller, freelancerID uint64, input ListBidsInput) ([]models.Bid, int64, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, 0, Validation("invalid bid status")
	}
	if !caller.Is(models.RoleAdmin) && !(caller.Is(models.RoleFreelancer) && caller.ID == freelancerID) {
		return nil, 0, ErrBidsNotVisible
	}

	return s.list(ctx, repository.BidFilter{FreelancerID: &freelancerID}, input)
}

func (s *BidService) list(ctx context.Context, filter repository.BidFilter, input ListBidsInput) ([]models.Bid, int64, error) {
	filter.Status = input.Status
	filter.Page = input.Page
	filter.PageSize = input.PageSize

	bids, total, err := s.bidRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bids: %w", err)
	}
	return bids, total, nil
}

// findDecidableBid loads a bid the calling client may accept or reject.
func (s *BidService) findDecidableBid(ctx context.Context, caller Caller, bidID uint64) (*models.Bid, error) {
	if err := s.guard.Allow(caller, models.RoleClient); err != nil {
		return nil, err
	}

	bid, err := s.findBid(ctx, bidID, "Project")
	if err != nil {
		return nil, err
	}
	if bid.Project.ClientID != caller.ID {
		return nil, ErrNotProjectOwner
	}
	if bid.Status != models.BidPending {
		return nil, ErrBidNotPending
	}
	if bid.Project.Status != models.ProjectOpen {
		return nil, ErrProjectNotOpen
	}
	return bid, nil
}

func (s *BidService) findOwnBid(ctx context.Context, caller Caller, bidID uint64) (*models.Bid, error) {
	if err := s.guard.Allow(caller, models.RoleFreelancer); err != nil {
		return nil, err
	}

	bid, err := s.findBid(ctx, bidID)
	if err != nil {
		return nil, err
	}
	if bid.FreelancerID != caller.ID {
		return nil, ErrNotBidOwner
	}
	return bid, nil
}

func (s *BidService) findBid(ctx context.Context, bidID uint64, preload ...string) (*models.Bid, error) {
	bid, err := s.bidRepo.FindByID(ctx, bidID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBidNotFound
		}
		return nil, fmt.Errorf("failed to find bid: %w", err)
	}
	return bid, nil
}

func (s *BidService) findProject(ctx context.Context, projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

func validateBidTerms(amount float64, duration int, coverLetter string) error {
	if amount <= 0 {
		return Validation("amount must be greater than zero")
	}
	if duration < 1 {
		return Validation("duration must be at least one day")
	}
	if len([]rune(coverLetter)) > constants.MaxCoverLetterLength {
		return Validation(fmt.Sprintf("cover letter cannot exceed %d characters", constants.MaxCoverLetterLength))
	}
	return nil
}

func validateMilestones(milestones []models.Milestone) error {
	for i, m := range milestones {
		if strings.TrimSpace(m.Title) == "" {
			return Validation(fmt.Sprintf("milestone %d is missing a title", i+1))
		}
		if m.Amount <= 0 {
			return Validation(fmt.Sprintf("milestone %d is missing an amount", i+1))
		}
	}
	return nil
}

func validateAvailability(hours int) error {
	if hours < 1 || hours > 168 {
		return Validation("availability hours must be between 1 and 168")
	}
	return nil
}
