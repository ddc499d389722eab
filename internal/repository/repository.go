package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/freelance-marketplace-api/internal/models"
)

var (
	// ErrProjectNotOpen is returned when a conditional update or insert finds the project no longer open.
	ErrProjectNotOpen = errors.New("project repository: project is not open")
	// ErrBidNotPending is returned when a conditional bid update finds the bid no longer pending.
	ErrBidNotPending = errors.New("bid repository: bid is not pending")
	// ErrActiveBidExists is returned when the freelancer already holds a live bid on the project.
	ErrActiveBidExists = errors.New("bid repository: active bid already exists")
	// ErrReviewExists is returned when the reviewer already reviewed the project.
	ErrReviewExists = errors.New("review repository: review already exists")
)

// PersonRepository defines the interface for person data access
type PersonRepository interface {
	// Create creates a new person
	Create(ctx context.Context, person *models.Person) error

	// FindByID finds a person by ID
	FindByID(ctx context.Context, id uint64) (*models.Person, error)

	// FindByEmail finds a person by email (case-insensitive, stored lower-cased)
	FindByEmail(ctx context.Context, email string) (*models.Person, error)

	// FindByGoogleID finds a person by Google subject identifier
	FindByGoogleID(ctx context.Context, googleID string) (*models.Person, error)

	// UpdateFields applies a partial update to a person
	UpdateFields(ctx context.Context, id uint64, fields map[string]any) error
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	Statuses  []models.ProjectStatus
	ClientID  *uint64
	MinBudget *float64
	MaxBudget *float64
	Page      int
	PageSize  int
}

// ClientStats aggregates a client's projects.
type ClientStats struct {
	TotalProjects     int64   `json:"totalProjects"`
	ActiveProjects    int64   `json:"activeProjects"`
	CompletedProjects int64   `json:"completedProjects"`
	TotalSpent        float64 `json:"totalSpent"`
}

// FreelancerStats aggregates a freelancer's bids and contracts.
type FreelancerStats struct {
	TotalBids         int64   `json:"totalBids"`
	AcceptedBids      int64   `json:"acceptedBids"`
	CompletedProjects int64   `json:"completedProjects"`
	TotalEarned       float64 `json:"totalEarned"`
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *models.Project) error

	// FindByID finds a project by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Project, error)

	// List retrieves projects with filtering and pagination, newest first
	List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error)

	// Search ranks projects by full-text relevance, then newest first
	Search(ctx context.Context, query string, filter ProjectFilter) ([]models.Project, int64, error)

	// UpdateOwned applies a partial update to a project owned by clientID.
	// It reports false when no project matched.
	UpdateOwned(ctx context.Context, id, clientID uint64, fields map[string]any) (bool, error)

	// Transition moves an owned project to a new status if it is currently in
	// one of from. It reports false when no project matched.
	Transition(ctx context.Context, id, clientID uint64, from []models.ProjectStatus, fields map[string]any) (bool, error)

	// DeleteInactive removes an owned, inactive, unassigned project and its bids.
	// It reports false when no project matched.
	DeleteInactive(ctx context.Context, id, clientID uint64) (bool, error)

	// ClientStats aggregates the client's projects
	ClientStats(ctx context.Context, clientID uint64) (*ClientStats, error)

	// FreelancerStats aggregates the freelancer's bids and completed contracts
	FreelancerStats(ctx context.Context, freelancerID uint64) (*FreelancerStats, error)
}

// BidFilter holds filtering options for listing bids
type BidFilter struct {
	ProjectID    *uint64
	FreelancerID *uint64
	Status       *models.BidStatus
	Page         int
	PageSize     int
}

// AcceptBidParams describes a bid acceptance.
type AcceptBidParams struct {
	ProjectID    uint64
	BidID        uint64
	FreelancerID uint64
	DecidedAt    time.Time
}

// BidRepository defines the interface for bid data access
type BidRepository interface {
	// Create inserts a pending bid if the project is open and the freelancer
	// has no live bid on it
	Create(ctx context.Context, bid *models.Bid) error

	// FindByID finds a bid by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Bid, error)

	// HasActiveBid reports whether the freelancer has a pending or accepted bid on the project
	HasActiveBid(ctx context.Context, projectID, freelancerID uint64) (bool, error)

	// HasAnyBid reports whether the freelancer ever bid on the project
	HasAnyBid(ctx context.Context, projectID, freelancerID uint64) (bool, error)

	// List retrieves bids with filtering and pagination, newest first
	List(ctx context.Context, filter BidFilter) ([]models.Bid, int64, error)

	// UpdatePending applies a partial update to a bid that is still pending
	UpdatePending(ctx context.Context, id uint64, fields map[string]any) error

	// Decide moves a pending bid to a terminal status
	Decide(ctx context.Context, id uint64, status models.BidStatus, fields map[string]any) error

	// Accept accepts a bid, rejects the other pending bids and starts the
	// project, all in one transaction
	Accept(ctx context.Context, params AcceptBidParams) error
}

// ReviewFilter holds filtering options for listing reviews
type ReviewFilter struct {
	RevieweeID   uint64
	RevieweeType *models.Role
	Page         int
	PageSize     int
}

// ReviewSummary holds averages over a set of reviews.
type ReviewSummary struct {
	Count                  int64   `json:"count"`
	AverageRating          float64 `json:"averageRating"`
	AverageCommunication   float64 `json:"averageCommunication"`
	AverageQuality         float64 `json:"averageQuality"`
	AverageTimeliness      float64 `json:"averageTimeliness"`
	AverageProfessionalism float64 `json:"averageProfessionalism"`
}

// ReviewRepository defines the interface for review data access
type ReviewRepository interface {
	// Create records a review and sets the project's reviewed flag in one transaction
	Create(ctx context.Context, review *models.Review, reviewedColumn string) error

	// FindByID finds a review by ID
	FindByID(ctx context.Context, id uint64) (*models.Review, error)

	// Exists reports whether the reviewer already reviewed the project
	Exists(ctx context.Context, projectID, reviewerID uint64) (bool, error)

	// UpdateFields applies a partial update to a review
	UpdateFields(ctx context.Context, id uint64, fields map[string]any) error

	// Delete removes a review and clears the project's reviewed flag
	Delete(ctx context.Context, review *models.Review, reviewedColumn string) error

	// ListByProject lists the public reviews of a project, newest first
	ListByProject(ctx context.Context, projectID uint64) ([]models.Review, error)

	// ListPublicForUser lists public reviews about a person, newest first
	ListPublicForUser(ctx context.Context, filter ReviewFilter) ([]models.Review, int64, error)

	// SummarizePublicForUser averages the public reviews about a person
	SummarizePublicForUser(ctx context.Context, filter ReviewFilter) (*ReviewSummary, error)
}

// OTPStore keeps one-time codes until they expire.
type OTPStore interface {
	// Save stores a code for (purpose, email), replacing any previous one
	Save(ctx context.Context, purpose, email, code string, ttl time.Duration) error

	// Get returns the stored code, or ErrOTPNotFound when none is live
	Get(ctx context.Context, purpose, email string) (string, error)

	// IncrementAttempts counts a failed verification and returns the total
	IncrementAttempts(ctx context.Context, purpose, email string) (int64, error)

	// Delete removes the code and its attempt counter
	Delete(ctx context.Context, purpose, email string) error
}

// ErrOTPNotFound is returned when no live code exists.
var ErrOTPNotFound = errors.New("otp store: code not found or expired")
