package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/freelance-marketplace-api/internal/database"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/utils"
	"gorm.io/gorm"
)

// GormBidRepository is a GORM implementation of BidRepository
type GormBidRepository struct {
	db *gorm.DB
}

// NewBidRepository creates a new BidRepository
func NewBidRepository(db *gorm.DB) BidRepository {
	return &GormBidRepository{db: db}
}

// Create inserts a pending bid if the project is open and the freelancer has
// no live bid on it. The unique index on active bids backs the count check.
func (r *GormBidRepository) Create(ctx context.Context, bid *models.Bid) error {
	bid.Status = models.BidPending
	bid.ActiveSlot = models.ActiveSlotFor(bid.Status)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var open int64
		if err := tx.Model(&models.Project{}).
			Where("id = ? AND status = ?", bid.ProjectID, models.ProjectOpen).
			Count(&open).Error; err != nil {
			return err
		}
		if open == 0 {
			return ErrProjectNotOpen
		}

		var live int64
		if err := tx.Model(&models.Bid{}).
			Where("project_id = ? AND freelancer_id = ? AND status IN ?",
				bid.ProjectID, bid.FreelancerID, []models.BidStatus{models.BidPending, models.BidAccepted}).
			Count(&live).Error; err != nil {
			return err
		}
		if live > 0 {
			return ErrActiveBidExists
		}

		return tx.Create(bid).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrActiveBidExists
	}
	return err
}

// FindByID finds a bid by ID with optional preloading
func (r *GormBidRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Bid, error) {
	var bid models.Bid
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&bid, id).Error; err != nil {
		return nil, err
	}
	return &bid, nil
}

// HasActiveBid reports whether the freelancer has a pending or accepted bid on the project
func (r *GormBidRepository) HasActiveBid(ctx context.Context, projectID, freelancerID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Bid{}).
		Where("project_id = ? AND freelancer_id = ? AND status IN ?",
			projectID, freelancerID, []models.BidStatus{models.BidPending, models.BidAccepted}).
		Count(&count).Error
	return count > 0, err
}

// HasAnyBid reports whether the freelancer ever bid on the project
func (r *GormBidRepository) HasAnyBid(ctx context.Context, projectID, freelancerID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Bid{}).
		Where("project_id = ? AND freelancer_id = ?", projectID, freelancerID).
		Count(&count).Error
	return count > 0, err
}

// List retrieves bids with filtering and pagination
func (r *GormBidRepository) List(ctx context.Context, filter BidFilter) ([]models.Bid, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Bid{})

	if filter.ProjectID != nil {
		query = query.Where("bids.project_id = ?", *filter.ProjectID)
	}
	if filter.FreelancerID != nil {
		query = query.Where("bids.freelancer_id = ?", *filter.FreelancerID)
	}
	if filter.Status != nil {
		query = query.Where("bids.status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	bids := []models.Bid{}
	err := query.
		Scopes(database.NewestFirst("bids"), database.Paginate(utils.NewPaginationParams(filter.Page, filter.PageSize))).
		Preload("Freelancer").
		Preload("Project").
		Find(&bids).Error
	if err != nil {
		return nil, 0, err
	}
	return bids, total, nil
}

// UpdatePending applies a partial update to a bid that is still pending
func (r *GormBidRepository) UpdatePending(ctx context.Context, id uint64, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.Bid{}).
		Where("id = ? AND status = ?", id, models.BidPending).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return ErrBidNotPending
	}
	return nil
}

// Decide moves a pending bid to a terminal status
func (r *GormBidRepository) Decide(ctx context.Context, id uint64, status models.BidStatus, fields map[string]any) error {
	updates := map[string]any{
		"status":      status,
		"active_slot": models.ActiveSlotFor(status),
	}
	for k, v := range fields {
		updates[k] = v
	}
	return r.UpdatePending(ctx, id, updates)
}

// Accept accepts a bid, rejects the other pending bids and starts the project.
// Both the project and the bid are updated conditionally, so concurrent
// acceptances on the same project leave exactly one winner.
func (r *GormBidRepository) Accept(ctx context.Context, params AcceptBidParams) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Project{}).
			Where("id = ? AND status = ?", params.ProjectID, models.ProjectOpen).
			Updates(map[string]any{
				"status":                 models.ProjectInProgress,
				"accepted_bid_id":        params.BidID,
				"assigned_freelancer_id": params.FreelancerID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrProjectNotOpen
		}

		res = tx.Model(&models.Bid{}).
			Where("id = ? AND project_id = ? AND status = ?", params.BidID, params.ProjectID, models.BidPending).
			Updates(map[string]any{
				"status":             models.BidAccepted,
				"client_decision_at": params.DecidedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrBidNotPending
		}

		return tx.Model(&models.Bid{}).
			Where("project_id = ? AND id <> ? AND status = ?", params.ProjectID, params.BidID, models.BidPending).
			Updates(map[string]any{
				"status":             models.BidRejected,
				"client_decision_at": params.DecidedAt,
				"active_slot":        nil,
			}).Error
	})
}
