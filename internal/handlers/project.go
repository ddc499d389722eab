package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/freelance-marketplace-api/internal/dto"
	apierrors "github.com/yukikurage/freelance-marketplace-api/internal/errors"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/services"
	"github.com/yukikurage/freelance-marketplace-api/internal/utils"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// ListProjects returns projects visible to the caller.
// Freelancers always get the open projects only.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	input, params, ok := listProjectsInput(c)
	if !ok {
		return
	}

	projects, total, err := h.projectService.ListProjects(c.Request.Context(), caller, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondPage(c, "Projects retrieved", dto.ToProjectDTOs(projects), params, total)
}

// SearchProjects ranks visible projects by relevance to q
func (h *ProjectHandler) SearchProjects(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	input, params, ok := listProjectsInput(c)
	if !ok {
		return
	}

	projects, total, err := h.projectService.SearchProjects(c.Request.Context(), caller, c.Query("q"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondPage(c, "Projects retrieved", dto.ToProjectDTOs(projects), params, total)
}

func listProjectsInput(c *gin.Context) (services.ListProjectsInput, utils.PaginationParams, bool) {
	params := utils.GetPaginationParams(c)
	input := services.ListProjectsInput{
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if raw := c.Query("status"); raw != "" {
		status := models.ProjectStatus(raw)
		if !status.Valid() {
			apierrors.BadRequest(c, "Invalid status")
			return input, params, false
		}
		input.Status = &status
	}

	var ok bool
	if input.ClientID, ok = optionalUint(c, "client_id"); !ok {
		return input, params, false
	}
	if input.MinBudget, ok = optionalFloat(c, "min_budget"); !ok {
		return input, params, false
	}
	if input.MaxBudget, ok = optionalFloat(c, "max_budget"); !ok {
		return input, params, false
	}
	return input, params, true
}

// GetProject returns a specific project
func (h *ProjectHandler) GetProject(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(c.Request.Context(), caller, projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Project retrieved", dto.ToProjectDTO(*project))
}

// CreateProject posts a new open project
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	type CreateProjectRequest struct {
		Title          string            `json:"title" binding:"required,max=255"`
		Description    string            `json:"description" binding:"required"`
		SkillsRequired []models.SkillRef `json:"skills_required" binding:"required,min=1"`
		Budget         *float64          `json:"budget" binding:"required,gt=0"`
		Duration       string            `json:"duration" binding:"max=100"`
		BidDeadline    *time.Time        `json:"bid_deadline"`
	}

	var req CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), caller, services.CreateProjectInput{
		Title:          req.Title,
		Description:    req.Description,
		SkillsRequired: req.SkillsRequired,
		Budget:         req.Budget,
		Duration:       req.Duration,
		BidDeadline:    req.BidDeadline,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Project created", dto.ToProjectDTO(*project))
}

// UpdateProject applies a partial update; omitted fields stay as they are
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateProjectRequest struct {
		Title            *string            `json:"title" binding:"omitempty,max=255"`
		Description      *string            `json:"description"`
		SkillsRequired   *[]models.SkillRef `json:"skills_required"`
		Budget           *float64           `json:"budget" binding:"omitempty,gt=0"`
		Duration         *string            `json:"duration" binding:"omitempty,max=100"`
		BidDeadline      *time.Time         `json:"bid_deadline"`
		ClearBidDeadline bool               `json:"clear_bid_deadline"`
	}

	var req UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), caller, projectID, services.UpdateProjectInput{
		Title:            req.Title,
		Description:      req.Description,
		SkillsRequired:   req.SkillsRequired,
		Budget:           req.Budget,
		Duration:         req.Duration,
		BidDeadline:      req.BidDeadline,
		ClearBidDeadline: req.ClearBidDeadline,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Project updated", dto.ToProjectDTO(*project))
}

// DeleteProject deletes an inactive project
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), caller, projectID); err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Project deleted", nil)
}

// CompleteProject marks the project as completed
func (h *ProjectHandler) CompleteProject(c *gin.Context) {
	h.changeStatus(c, h.projectService.CompleteProject, "Project completed")
}

// DeactivateProject takes the project off the market
func (h *ProjectHandler) DeactivateProject(c *gin.Context) {
	h.changeStatus(c, h.projectService.DeactivateProject, "Project deactivated")
}

// ReactivateProject puts the project back on the market
func (h *ProjectHandler) ReactivateProject(c *gin.Context) {
	h.changeStatus(c, h.projectService.ReactivateProject, "Project reactivated")
}

type projectTransition func(ctx context.Context, caller services.Caller, projectID uint64) (*models.Project, error)

func (h *ProjectHandler) changeStatus(c *gin.Context, transition projectTransition, message string) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project, err := transition(c.Request.Context(), caller, projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, message, dto.ToProjectDTO(*project))
}

// GetProjectStats returns role-dependent aggregates for the caller
func (h *ProjectHandler) GetProjectStats(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	stats, err := h.projectService.GetProjectStats(c.Request.Context(), caller)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Project stats", stats)
}

// SuggestSkills proposes required skills for a project draft
func (h *ProjectHandler) SuggestSkills(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	type SuggestSkillsRequest struct {
		Title       string `json:"title" binding:"max=255"`
		Description string `json:"description" binding:"max=10000"`
	}

	var req SuggestSkillsRequest
	if !bindJSON(c, &req) {
		return
	}

	skills, err := h.projectService.SuggestSkills(c.Request.Context(), caller, req.Title, req.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Skills suggested", gin.H{"skills": skills})
}
