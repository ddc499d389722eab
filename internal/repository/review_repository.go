package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/freelance-marketplace-api/internal/database"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/utils"
	"gorm.io/gorm"
)

// GormReviewRepository is a GORM implementation of ReviewRepository
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &GormReviewRepository{db: db}
}

// Create records a review and sets the project's reviewed flag in one transaction
func (r *GormReviewRepository) Create(ctx context.Context, review *models.Review, reviewedColumn string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		return tx.Model(&models.Project{}).
			Where("id = ?", review.ProjectID).
			Update(reviewedColumn, true).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrReviewExists
	}
	return err
}

// FindByID finds a review by ID
func (r *GormReviewRepository) FindByID(ctx context.Context, id uint64) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).Preload("Reviewer").First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// Exists reports whether the reviewer already reviewed the project
func (r *GormReviewRepository) Exists(ctx context.Context, projectID, reviewerID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("project_id = ? AND reviewer_id = ?", projectID, reviewerID).
		Count(&count).Error
	return count > 0, err
}

// UpdateFields applies a partial update to a review
func (r *GormReviewRepository) UpdateFields(ctx context.Context, id uint64, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.Review{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a review and clears the project's reviewed flag
func (r *GormReviewRepository) Delete(ctx context.Context, review *models.Review, reviewedColumn string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Review{}, review.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.Project{}).
			Where("id = ?", review.ProjectID).
			Update(reviewedColumn, false).Error
	})
}

// ListByProject lists the public reviews of a project, newest first
func (r *GormReviewRepository) ListByProject(ctx context.Context, projectID uint64) ([]models.Review, error) {
	reviews := []models.Review{}
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND is_public = ?", projectID, true).
		Scopes(database.NewestFirst("reviews")).
		Preload("Reviewer").
		Find(&reviews).Error
	return reviews, err
}

func (r *GormReviewRepository) publicFor(ctx context.Context, filter ReviewFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("reviews.reviewee_id = ? AND reviews.is_public = ?", filter.RevieweeID, true)
	if filter.RevieweeType != nil {
		query = query.Where("reviews.reviewee_type = ?", *filter.RevieweeType)
	}
	return query
}

// ListPublicForUser lists public reviews about a person, newest first
func (r *GormReviewRepository) ListPublicForUser(ctx context.Context, filter ReviewFilter) ([]models.Review, int64, error) {
	query := r.publicFor(ctx, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	reviews := []models.Review{}
	err := query.
		Scopes(database.NewestFirst("reviews"), database.Paginate(utils.NewPaginationParams(filter.Page, filter.PageSize))).
		Preload("Reviewer").
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// SummarizePublicForUser averages the public reviews about a person
func (r *GormReviewRepository) SummarizePublicForUser(ctx context.Context, filter ReviewFilter) (*ReviewSummary, error) {
	var summary ReviewSummary
	err := r.publicFor(ctx, filter).
		Select(`COUNT(*) AS count,
			COALESCE(AVG(rating), 0) AS average_rating,
			COALESCE(AVG(communication), 0) AS average_communication,
			COALESCE(AVG(quality), 0) AS average_quality,
			COALESCE(AVG(timeliness), 0) AS average_timeliness,
			COALESCE(AVG(professionalism), 0) AS average_professionalism`).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
