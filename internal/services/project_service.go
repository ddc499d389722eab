package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repository.ProjectRepository
	bidRepo     repository.BidRepository
	guard       *Guard
	aiService   *AIService
	now         func() time.Time
}

// NewProjectService creates a new ProjectService. aiService may be nil.
func NewProjectService(projectRepo repository.ProjectRepository, bidRepo repository.BidRepository, guard *Guard, aiService *AIService) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		bidRepo:     bidRepo,
		guard:       guard,
		aiService:   aiService,
		now:         time.Now,
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Title          string
	Description    string
	SkillsRequired []models.SkillRef
	Budget         *float64
	Duration       string
	BidDeadline    *time.Time
}

// UpdateProjectInput represents a partial project update. Nil fields are left untouched.
type UpdateProjectInput struct {
	Title            *string
	Description      *string
	SkillsRequired   *[]models.SkillRef
	Budget           *float64
	Duration         *string
	BidDeadline      *time.Time
	ClearBidDeadline bool
}

// ListProjectsInput represents filters for listing projects
type ListProjectsInput struct {
	Status    *models.ProjectStatus
	ClientID  *uint64
	MinBudget *float64
	MaxBudget *float64
	Page      int
	PageSize  int
}

// CreateProject creates an open project owned by the calling client
func (s *ProjectService) CreateProject(ctx context.Context, caller Caller, input CreateProjectInput) (*models.Project, error) {
	if err := s.guard.Allow(caller, models.RoleClient); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" {
		return nil, Validation("title is required")
	}
	if description == "" {
		return nil, Validation("description is required")
	}

	skills := NormalizeSkills(input.SkillsRequired)
	if len(skills) == 0 {
		return nil, Validation("at least one required skill is needed")
	}

	if input.Budget == nil {
		return nil, Validation("budget is required")
	}
	if *input.Budget <= 0 {
		return nil, Validation("budget must be greater than zero")
	}
	if input.BidDeadline != nil && input.BidDeadline.Before(s.now()) {
		return nil, Validation("bid deadline must be in the future")
	}

	project := &models.Project{
		ClientID:       caller.ID,
		Title:          title,
		Description:    description,
		SkillsRequired: datatypes.NewJSONSlice(skills),
		Budget:         *input.Budget,
		Duration:       strings.TrimSpace(input.Duration),
		Status:         models.ProjectOpen,
		BidDeadline:    input.BidDeadline,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.findProject(ctx, project.ID, "Client")
}

// UpdateProject applies a partial update to a project the caller owns
func (s *ProjectService) UpdateProject(ctx context.Context, caller Caller, projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	if err := s.guard.Allow(caller, models.RoleClient); err != nil {
		return nil, err
	}

	fields := map[string]any{}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, Validation("title cannot be empty")
		}
		fields["title"] = title
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, Validation("description cannot be empty")
		}
		fields["description"] = description
	}
	if input.SkillsRequired != nil {
		skills := NormalizeSkills(*input.SkillsRequired)
		if len(skills) == 0 {
			return nil, Validation("at least one required skill is needed")
		}
		fields["skills_required"] = datatypes.NewJSONSlice(skills)
	}
	if input.Budget != nil {
		if *input.Budget <= 0 {
			return nil, Validation("budget must be greater than zero")
		}
		fields["budget"] = *input.Budget
	}
	if input.Duration != nil {
		fields["duration"] = strings.TrimSpace(*input.Duration)
	}
	if input.ClearBidDeadline {
		fields["bid_deadline"] = nil
	} else if input.BidDeadline != nil {
		if input.BidDeadline.Before(s.now()) {
			return nil, Validation("bid deadline must be in the future")
		}
		fields["bid_deadline"] = *input.BidDeadline
	}

	if len(fields) > 0 {
		updated, err := s.projectRepo.UpdateOwned(ctx, projectID, caller.ID, fields)
		if err != nil {
			return nil, fmt.Errorf("failed to update project: %w", err)
		}
		if !updated {
			return nil, ErrProjectNotFound
		}
	}

	project, err := s.findProject(ctx, projectID, "Client")
	if err != nil {
		return nil, err
	}
	if project.ClientID != caller.ID {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

// DeleteProject removes an inactive project that never had a freelancer assigned
func (s *ProjectService) DeleteProject(ctx context.Context, caller Caller, projectID uint64) error {
	project, err := s.findOwnedProject(ctx, caller, projectID)
	if err != nil {
		return err
	}

	switch {
	case project.Status.IsCompleted():
		return ErrProjectCompleted
	case project.HasAssignedFreelancer():
		return ErrProjectHasFreelancer
	case project.Status.IsActive():
		return ErrProjectStillActive
	}

	deleted, err := s.projectRepo.DeleteInactive(ctx, projectID, caller.ID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if !deleted {
		// reactivated or assigned since it was read
		return ErrProjectNotInactive
	}
	return nil
}

// CompleteProject marks an in-progress project as completed
func (s *ProjectService) CompleteProject(ctx context.Context, caller Caller, projectID uint64) (*models.Project, error) {
	project, err := s.findOwnedProject(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}

	switch project.Status {
	case models.ProjectInProgress:
	case models.ProjectCompleted:
		return nil, ErrProjectCompleted
	case models.ProjectOpen:
		return nil, ErrNoAcceptedBid
	default:
		return nil, ErrProjectNotInProgress
	}
	if project.AcceptedBidID == nil || !project.HasAssignedFreelancer() {
		return nil, ErrNoAcceptedBid
	}

	bid, err := s.bidRepo.FindByID(ctx, *project.AcceptedBidID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoAcceptedBid
		}
		return nil, fmt.Errorf("failed to find accepted bid: %w", err)
	}
	if bid.Status != models.BidAccepted || bid.ProjectID != project.ID || bid.FreelancerID != *project.AssignedFreelancerID {
		return nil, ErrAssignmentMismatch
	}

	ok, err := s.projectRepo.Transition(ctx, projectID, caller.ID,
		[]models.ProjectStatus{models.ProjectInProgress},
		map[string]any{
			"status":       models.ProjectCompleted,
			"completed_at": s.now(),
		})
	if err != nil {
		return nil, fmt.Errorf("failed to complete project: %w", err)
	}
	if !ok {
		return nil, ErrProjectNotInProgress
	}

	return s.findProject(ctx, projectID, "Client")
}

// DeactivateProject takes an open project off the market
func (s *ProjectService) DeactivateProject(ctx context.Context, caller Caller, projectID uint64) (*models.Project, error) {
	return s.transition(ctx, caller, projectID, models.ProjectOpen, models.ProjectInactive, ErrProjectNotOpen)
}

// ReactivateProject puts an inactive project back on the market
func (s *ProjectService) ReactivateProject(ctx context.Context, caller Caller, projectID uint64) (*models.Project, error) {
	return s.transition(ctx, caller, projectID, models.ProjectInactive, models.ProjectOpen, ErrProjectNotInactive)
}

func (s *ProjectService) transition(ctx context.Context, caller Caller, projectID uint64, from, to models.ProjectStatus, stateErr error) (*models.Project, error) {
	project, err := s.findOwnedProject(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}
	if project.Status != from {
		return nil, stateErr
	}

	ok, err := s.projectRepo.Transition(ctx, projectID, caller.ID, []models.ProjectStatus{from}, map[string]any{"status": to})
	if err != nil {
		return nil, fmt.Errorf("failed to update project status: %w", err)
	}
	if !ok {
		return nil, stateErr
	}

	return s.findProject(ctx, projectID, "Client")
}

// GetProject returns a project the caller is allowed to see
func (s *ProjectService) GetProject(ctx context.Context, caller Caller, projectID uint64) (*models.Project, error) {
	project, err := s.findProject(ctx, projectID, "Client")
	if err != nil {
		return nil, err
	}

	switch caller.Role {
	case models.RoleAdmin:
		return project, nil
	case models.RoleClient:
		if project.ClientID == caller.ID {
			return project, nil
		}
	case models.RoleFreelancer:
		if project.Status == models.ProjectOpen || project.IsParticipant(caller.ID) {
			return project, nil
		}
		hasBid, err := s.bidRepo.HasAnyBid(ctx, projectID, caller.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check bids: %w", err)
		}
		if hasBid {
			return project, nil
		}
	}
	return nil, ErrProjectNotShared
}

// ListProjects lists projects visible to the caller, newest first
func (s *ProjectService) ListProjects(ctx context.Context, caller Caller, input ListProjectsInput) ([]models.Project, int64, error) {
	filter, err := s.scopeFilter(caller, input)
	if err != nil {
		return nil, 0, err
	}

	projects, total, err := s.projectRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// SearchProjects ranks projects visible to the caller by text relevance
func (s *ProjectService) SearchProjects(ctx context.Context, caller Caller, query string, input ListProjectsInput) ([]models.Project, int64, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, 0, Validation("search query is required")
	}

	filter, err := s.scopeFilter(caller, input)
	if err != nil {
		return nil, 0, err
	}

	projects, total, err := s.projectRepo.Search(ctx, query, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search projects: %w", err)
	}
	return projects, total, nil
}

// scopeFilter narrows caller-supplied filters to what the caller may see.
// Freelancers only ever browse open projects.
func (s *ProjectService) scopeFilter(caller Caller, input ListProjectsInput) (repository.ProjectFilter, error) {
	if input.Status != nil && !input.Status.Valid() {
		return repository.ProjectFilter{}, Validation("invalid project status")
	}
	if input.MinBudget != nil && input.MaxBudget != nil && *input.MinBudget > *input.MaxBudget {
		return repository.ProjectFilter{}, Validation("min_budget cannot exceed max_budget")
	}

	filter := repository.ProjectFilter{
		MinBudget: input.MinBudget,
		MaxBudget: input.MaxBudget,
		Page:      input.Page,
		PageSize:  input.PageSize,
	}
	if input.Status != nil {
		filter.Statuses = []models.ProjectStatus{*input.Status}
	}

	switch caller.Role {
	case models.RoleFreelancer:
		filter.Statuses = []models.ProjectStatus{models.ProjectOpen}
		filter.ClientID = input.ClientID
	case models.RoleClient:
		filter.ClientID = &caller.ID
	case models.RoleAdmin:
		filter.ClientID = input.ClientID
	default:
		return repository.ProjectFilter{}, ErrRoleNotAllowed
	}
	return filter, nil
}

// GetProjectStats returns role-dependent aggregates for the caller
func (s *ProjectService) GetProjectStats(ctx context.Context, caller Caller) (any, error) {
	switch caller.Role {
	case models.RoleClient:
		stats, err := s.projectRepo.ClientStats(ctx, caller.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to compute client stats: %w", err)
		}
		return stats, nil
	case models.RoleFreelancer:
		stats, err := s.projectRepo.FreelancerStats(ctx, caller.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to compute freelancer stats: %w", err)
		}
		return stats, nil
	default:
		return nil, ErrRoleNotAllowed
	}
}

// SuggestSkills proposes required skills for a project draft
func (s *ProjectService) SuggestSkills(ctx context.Context, caller Caller, title, description string) ([]models.SkillRef, error) {
	if err := s.guard.Allow(caller, models.RoleClient); err != nil {
		return nil, err
	}
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(title) == "" && strings.TrimSpace(description) == "" {
		return nil, Validation("title or description is required")
	}

	skills, err := s.aiService.SuggestSkills(ctx, title, description)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest skills: %w", err)
	}
	return skills, nil
}

func (s *ProjectService) findProject(ctx context.Context, projectID uint64, preload ...string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// findOwnedProject treats projects owned by someone else as missing.
func (s *ProjectService) findOwnedProject(ctx context.Context, caller Caller, projectID uint64) (*models.Project, error) {
	if err := s.guard.Allow(caller, models.RoleClient); err != nil {
		return nil, err
	}
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.ClientID != caller.ID {
		return nil, ErrProjectNotFound
	}
	return project, nil
}
