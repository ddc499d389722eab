package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/freelance-marketplace-api/internal/constants"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/repository"
	"gorm.io/gorm"
)

// ReviewService handles review business logic
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	projectRepo repository.ProjectRepository
	personRepo  repository.PersonRepository
	guard       *Guard
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviewRepo repository.ReviewRepository, projectRepo repository.ProjectRepository, personRepo repository.PersonRepository, guard *Guard) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		projectRepo: projectRepo,
		personRepo:  personRepo,
		guard:       guard,
	}
}

// CreateReviewInput represents input for reviewing the other side of a project.
// Sub-ratings default to Rating; RevieweeID defaults to the counterpart.
type CreateReviewInput struct {
	ProjectID       uint64
	RevieweeID      *uint64
	Rating          int
	Communication   *int
	Quality         *int
	Timeliness      *int
	Professionalism *int
	Comment         string
	IsPublic        *bool
}

// UpdateReviewInput represents a partial review update. Nil fields are left untouched.
type UpdateReviewInput struct {
	Rating          *int
	Communication   *int
	Quality         *int
	Timeliness      *int
	Professionalism *int
	Comment         *string
	IsPublic        *bool
}

// UserReviews is a page of public reviews about a person with their averages.
type UserReviews struct {
	Reviews []models.Review           `json:"reviews"`
	Summary *repository.ReviewSummary `json:"summary"`
}

// CreateReview records the caller's review of a completed project
func (s *ReviewService) CreateReview(ctx context.Context, caller Caller, input CreateReviewInput) (*models.Review, error) {
	if err := s.guard.Allow(caller, models.RoleClient, models.RoleFreelancer); err != nil {
		return nil, err
	}

	if err := validateRating("rating", input.Rating); err != nil {
		return nil, err
	}
	for _, r := range []namedRating{
		{"communication", input.Communication},
		{"quality", input.Quality},
		{"timeliness", input.Timeliness},
		{"professionalism", input.Professionalism},
	} {
		if r.value == nil {
			continue
		}
		if err := validateRating(r.column, *r.value); err != nil {
			return nil, err
		}
	}
	comment := strings.TrimSpace(input.Comment)
	if err := validateComment(comment); err != nil {
		return nil, err
	}

	project, err := s.findProject(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if !project.Status.IsCompleted() {
		return nil, ErrProjectNotCompleted
	}

	var counterpart uint64
	switch {
	case caller.Is(models.RoleClient) && project.ClientID == caller.ID:
		if !project.HasAssignedFreelancer() {
			return nil, ErrNotParticipant
		}
		counterpart = *project.AssignedFreelancerID
	case caller.Is(models.RoleFreelancer) && project.HasAssignedFreelancer() && *project.AssignedFreelancerID == caller.ID:
		counterpart = project.ClientID
	default:
		return nil, ErrNotParticipant
	}

	if input.RevieweeID != nil && *input.RevieweeID != counterpart {
		return nil, Validation("reviewee must be the other party of the project")
	}

	exists, err := s.reviewRepo.Exists(ctx, project.ID, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if exists {
		return nil, ErrReviewExists
	}

	isPublic := true
	if input.IsPublic != nil {
		isPublic = *input.IsPublic
	}

	review := &models.Review{
		ProjectID:       project.ID,
		ReviewerID:      caller.ID,
		RevieweeID:      counterpart,
		ReviewerType:    caller.Role,
		RevieweeType:    caller.Role.Counterpart(),
		Rating:          input.Rating,
		Communication:   ratingOrDefault(input.Communication, input.Rating),
		Quality:         ratingOrDefault(input.Quality, input.Rating),
		Timeliness:      ratingOrDefault(input.Timeliness, input.Rating),
		Professionalism: ratingOrDefault(input.Professionalism, input.Rating),
		Comment:         comment,
		IsPublic:        isPublic,
	}

	if err := s.reviewRepo.Create(ctx, review, reviewedColumn(caller.Role)); err != nil {
		if errors.Is(err, repository.ErrReviewExists) {
			return nil, ErrReviewExists
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	return s.findReview(ctx, review.ID)
}

// UpdateReview applies a partial update to the caller's own review
func (s *ReviewService) UpdateReview(ctx context.Context, caller Caller, reviewID uint64, input UpdateReviewInput) (*models.Review, error) {
	review, err := s.findOwnReview(ctx, caller, reviewID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	ratings := []namedRating{
		{"rating", input.Rating},
		{"communication", input.Communication},
		{"quality", input.Quality},
		{"timeliness", input.Timeliness},
		{"professionalism", input.Professionalism},
	}
	for _, r := range ratings {
		if r.value == nil {
			continue
		}
		if err := validateRating(r.column, *r.value); err != nil {
			return nil, err
		}
		fields[r.column] = *r.value
	}
	if input.Comment != nil {
		comment := strings.TrimSpace(*input.Comment)
		if err := validateComment(comment); err != nil {
			return nil, err
		}
		fields["comment"] = comment
	}
	if input.IsPublic != nil {
		fields["is_public"] = *input.IsPublic
	}

	if len(fields) == 0 {
		return review, nil
	}
	if err := s.reviewRepo.UpdateFields(ctx, reviewID, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	return s.findReview(ctx, reviewID)
}

// DeleteReview removes the caller's own review and reopens the project for review by that side
func (s *ReviewService) DeleteReview(ctx context.Context, caller Caller, reviewID uint64) error {
	review, err := s.findOwnReview(ctx, caller, reviewID)
	if err != nil {
		return err
	}

	if err := s.reviewRepo.Delete(ctx, review, reviewedColumn(review.ReviewerType)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return nil
}

// GetUserReviews returns public reviews about a person with rating averages
func (s *ReviewService) GetUserReviews(ctx context.Context, userID uint64, userType *models.Role, page, pageSize int) (*UserReviews, int64, error) {
	if userType != nil && *userType != models.RoleClient && *userType != models.RoleFreelancer {
		return nil, 0, Validation("user_type must be client or freelancer")
	}

	if _, err := s.personRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrPersonNotFound
		}
		return nil, 0, fmt.Errorf("failed to find user: %w", err)
	}

	filter := repository.ReviewFilter{
		RevieweeID:   userID,
		RevieweeType: userType,
		Page:         page,
		PageSize:     pageSize,
	}

	reviews, total, err := s.reviewRepo.ListPublicForUser(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	summary, err := s.reviewRepo.SummarizePublicForUser(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to summarize reviews: %w", err)
	}

	return &UserReviews{Reviews: reviews, Summary: summary}, total, nil
}

// GetProjectReviews returns the public reviews of a project
func (s *ReviewService) GetProjectReviews(ctx context.Context, projectID uint64) ([]models.Review, error) {
	if _, err := s.findProject(ctx, projectID); err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project reviews: %w", err)
	}
	return reviews, nil
}

func (s *ReviewService) findOwnReview(ctx context.Context, caller Caller, reviewID uint64) (*models.Review, error) {
	review, err := s.findReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.ReviewerID != caller.ID {
		return nil, ErrNotReviewOwner
	}
	return review, nil
}

func (s *ReviewService) findReview(ctx context.Context, reviewID uint64) (*models.Review, error) {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to find review: %w", err)
	}
	return review, nil
}

func (s *ReviewService) findProject(ctx context.Context, projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// reviewedColumn names the project flag recording that a side has reviewed.
func reviewedColumn(reviewer models.Role) string {
	if reviewer == models.RoleFreelancer {
		return "freelancer_reviewed"
	}
	return "client_reviewed"
}

type namedRating struct {
	column string
	value  *int
}

func ratingOrDefault(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}

func validateRating(name string, value int) error {
	if value < constants.MinRating || value > constants.MaxRating {
		return Validation(fmt.Sprintf("%s must be between %d and %d", name, constants.MinRating, constants.MaxRating))
	}
	return nil
}

func validateComment(comment string) error {
	if len([]rune(comment)) > constants.MaxReviewCommentLength {
		return Validation(fmt.Sprintf("comment cannot exceed %d characters", constants.MaxReviewCommentLength))
	}
	return nil
}
