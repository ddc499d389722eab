package repository

import (
	"context"
	"strings"

	"github.com/yukikurage/freelance-marketplace-api/internal/database"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/utils"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *GormProjectRepository) filtered(ctx context.Context, filter ProjectFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Project{})

	if len(filter.Statuses) > 0 {
		query = query.Where("projects.status IN ?", filter.Statuses)
	}
	if filter.ClientID != nil {
		query = query.Where("projects.client_id = ?", *filter.ClientID)
	}
	if filter.MinBudget != nil {
		query = query.Where("projects.budget >= ?", *filter.MinBudget)
	}
	if filter.MaxBudget != nil {
		query = query.Where("projects.budget <= ?", *filter.MaxBudget)
	}
	return query
}

// List retrieves projects with filtering and pagination
func (r *GormProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error) {
	query := r.filtered(ctx, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	projects := []models.Project{}
	err := query.
		Scopes(database.NewestFirst("projects"), database.Paginate(utils.NewPaginationParams(filter.Page, filter.PageSize))).
		Preload("Client").
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// Search ranks matching projects by relevance over title and description.
func (r *GormProjectRepository) Search(ctx context.Context, query string, filter ProjectFilter) ([]models.Project, int64, error) {
	match, rank, args := searchClauses(r.db.Dialector.Name(), strings.TrimSpace(query))
	base := r.filtered(ctx, filter).Where(match, args...)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	projects := []models.Project{}
	err := base.
		Select("projects.*, ("+rank+") AS relevance", args...).
		Order("relevance DESC, projects.created_at DESC, projects.id DESC").
		Scopes(database.Paginate(utils.NewPaginationParams(filter.Page, filter.PageSize))).
		Preload("Client").
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// searchClauses returns the match condition, the relevance expression and
// the single bind argument they share, per SQL dialect.
func searchClauses(dialect, query string) (match, rank string, args []any) {
	switch dialect {
	case "postgres":
		doc := "to_tsvector('simple', projects.title || ' ' || projects.description)"
		return doc + " @@ plainto_tsquery('simple', ?)",
			"ts_rank(" + doc + ", plainto_tsquery('simple', ?))",
			[]any{query}
	case "mysql":
		expr := "MATCH(projects.title, projects.description) AGAINST (? IN NATURAL LANGUAGE MODE)"
		return expr, expr, []any{query}
	default:
		like := "%" + strings.ToLower(query) + "%"
		return "(LOWER(projects.title) LIKE ? OR LOWER(projects.description) LIKE ?)",
			"CASE WHEN LOWER(projects.title) LIKE ? THEN 2 ELSE 0 END + CASE WHEN LOWER(projects.description) LIKE ? THEN 1 ELSE 0 END",
			[]any{like, like}
	}
}

// UpdateOwned applies a partial update to a project owned by clientID
func (r *GormProjectRepository) UpdateOwned(ctx context.Context, id, clientID uint64, fields map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ? AND client_id = ?", id, clientID).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Transition moves an owned project between statuses with a conditional update
func (r *GormProjectRepository) Transition(ctx context.Context, id, clientID uint64, from []models.ProjectStatus, fields map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ? AND client_id = ? AND status IN ?", id, clientID, from).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// DeleteInactive removes an owned, inactive, unassigned project and its bids
func (r *GormProjectRepository) DeleteInactive(ctx context.Context, id, clientID uint64) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND client_id = ? AND status = ? AND assigned_freelancer_id IS NULL",
			id, clientID, models.ProjectInactive).
			Delete(&models.Project{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true

		return tx.Where("project_id = ?", id).Delete(&models.Bid{}).Error
	})
	return deleted, err
}

// ClientStats aggregates the client's projects
func (r *GormProjectRepository) ClientStats(ctx context.Context, clientID uint64) (*ClientStats, error) {
	var stats ClientStats

	var counts struct {
		Total     int64
		Active    int64
		Completed int64
	}
	err := r.db.WithContext(ctx).Model(&models.Project{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status IN ? THEN 1 ELSE 0 END), 0) AS active,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed`,
			[]models.ProjectStatus{models.ProjectOpen, models.ProjectInProgress}, models.ProjectCompleted).
		Where("client_id = ?", clientID).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	stats.TotalProjects = counts.Total
	stats.ActiveProjects = counts.Active
	stats.CompletedProjects = counts.Completed

	err = r.db.WithContext(ctx).Table("bids").
		Select("COALESCE(SUM(bids.amount), 0)").
		Joins("JOIN projects ON projects.accepted_bid_id = bids.id").
		Where("projects.client_id = ? AND projects.status = ?", clientID, models.ProjectCompleted).
		Row().Scan(&stats.TotalSpent)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// FreelancerStats aggregates the freelancer's bids and completed contracts
func (r *GormProjectRepository) FreelancerStats(ctx context.Context, freelancerID uint64) (*FreelancerStats, error) {
	var stats FreelancerStats

	var bids struct {
		Total    int64
		Accepted int64
		Earned   float64
	}
	err := r.db.WithContext(ctx).Model(&models.Bid{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS accepted,
			COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0) AS earned`,
			models.BidAccepted, models.BidAccepted).
		Where("freelancer_id = ?", freelancerID).
		Scan(&bids).Error
	if err != nil {
		return nil, err
	}
	stats.TotalBids = bids.Total
	stats.AcceptedBids = bids.Accepted
	stats.TotalEarned = bids.Earned

	if err := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("assigned_freelancer_id = ? AND status = ?", freelancerID, models.ProjectCompleted).
		Count(&stats.CompletedProjects).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
