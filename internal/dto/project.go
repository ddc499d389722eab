package dto

import (
	"time"

	"github.com/yukikurage/freelance-marketplace-api/internal/models"
)

// ProjectDTO represents a project in API responses. The ispending, isactive
// and iscompleted flags are derived from Status.
type ProjectDTO struct {
	ID                   uint64               `json:"id"`
	ClientID             uint64               `json:"client_id"`
	Client               *PersonSummaryDTO    `json:"client,omitempty"`
	Title                string               `json:"title"`
	Description          string               `json:"description"`
	SkillsRequired       []models.SkillRef    `json:"skills_required"`
	Budget               float64              `json:"budget"`
	Duration             string               `json:"duration"`
	Status               models.ProjectStatus `json:"status"`
	IsPending            bool                 `json:"ispending"`
	IsActive             bool                 `json:"isactive"`
	IsCompleted          bool                 `json:"iscompleted"`
	AcceptedBidID        *uint64              `json:"accepted_bid_id"`
	AssignedFreelancerID *uint64              `json:"assigned_freelancer_id"`
	BidDeadline          *time.Time           `json:"bid_deadline"`
	CompletedAt          *time.Time           `json:"completed_at"`
	ClientReviewed       bool                 `json:"client_reviewed"`
	FreelancerReviewed   bool                 `json:"freelancer_reviewed"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
}

// ProjectSummaryDTO is the project header embedded in bids
type ProjectSummaryDTO struct {
	ID       uint64               `json:"id"`
	ClientID uint64               `json:"client_id"`
	Title    string               `json:"title"`
	Budget   float64              `json:"budget"`
	Status   models.ProjectStatus `json:"status"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	skills := []models.SkillRef(project.SkillsRequired)
	if skills == nil {
		skills = []models.SkillRef{}
	}

	return ProjectDTO{
		ID:                   project.ID,
		ClientID:             project.ClientID,
		Client:               ToPersonSummaryDTO(project.Client),
		Title:                project.Title,
		Description:          project.Description,
		SkillsRequired:       skills,
		Budget:               project.Budget,
		Duration:             project.Duration,
		Status:               project.Status,
		IsPending:            project.Status.IsPending(),
		IsActive:             project.Status.IsActive(),
		IsCompleted:          project.Status.IsCompleted(),
		AcceptedBidID:        project.AcceptedBidID,
		AssignedFreelancerID: project.AssignedFreelancerID,
		BidDeadline:          project.BidDeadline,
		CompletedAt:          project.CompletedAt,
		ClientReviewed:       project.ClientReviewed,
		FreelancerReviewed:   project.FreelancerReviewed,
		CreatedAt:            project.CreatedAt,
		UpdatedAt:            project.UpdatedAt,
	}
}

// ToProjectDTOs converts a slice of projects
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	out := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		out[i] = ToProjectDTO(p)
	}
	return out
}

func toProjectSummaryDTO(project models.Project) *ProjectSummaryDTO {
	if project.ID == 0 {
		return nil
	}
	return &ProjectSummaryDTO{
		ID:       project.ID,
		ClientID: project.ClientID,
		Title:    project.Title,
		Budget:   project.Budget,
		Status:   project.Status,
	}
}
