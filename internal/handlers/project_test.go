package handlers

import (
	"net/http"
	"time"

	"github.com/yukikurage/freelance-marketplace-api/internal/dto"
	apierrors "github.com/yukikurage/freelance-marketplace-api/internal/errors"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/repository"
)

func projectPayload(title string) map[string]any {
	return map[string]any{
		"title":       title,
		"description": "Build a marketplace backend in Go",
		"skills_required": []map[string]string{
			{"skill": "Go"},
			{"skill": "MySQL", "skill_id": "mysql"},
		},
		"budget":   1500,
		"duration": "1 month",
	}
}

func (suite *HandlerTestSuite) createProject(auth, title string) dto.ProjectDTO {
	w := suite.do(http.MethodPost, "/api/projects", auth, projectPayload(title))
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var project dto.ProjectDTO
	suite.decodeData(w, &project)
	return project
}

func (suite *HandlerTestSuite) TestProjectHandler_Create() {
	client, clientAuth := suite.createPerson(models.RoleClient)

	project := suite.createProject(clientAuth, "Marketplace API")
	suite.Equal(client.ID, project.ClientID)
	suite.Equal(models.ProjectOpen, project.Status)
	suite.True(project.IsPending)
	suite.True(project.IsActive)
	suite.False(project.IsCompleted)
	suite.Require().Len(project.SkillsRequired, 2)
	suite.Equal("go", project.SkillsRequired[0].SkillID)
}

func (suite *HandlerTestSuite) TestProjectHandler_CreateValidation() {
	_, clientAuth := suite.createPerson(models.RoleClient)
	_, freelancerAuth := suite.createPerson(models.RoleFreelancer)

	w := suite.do(http.MethodPost, "/api/projects", freelancerAuth, projectPayload("Not mine to post"))
	suite.Require().Equal(http.StatusForbidden, w.Code)

	payload := projectPayload("No budget")
	delete(payload, "budget")
	w = suite.do(http.MethodPost, "/api/projects", clientAuth, payload)
	suite.Require().Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apierrors.ErrCodeValidation, suite.decodeError(w).Code)

	payload = projectPayload("No skills")
	payload["skills_required"] = []map[string]string{}
	w = suite.do(http.MethodPost, "/api/projects", clientAuth, payload)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestProjectHandler_ListScopesByRole() {
	_, clientAuth := suite.createPerson(models.RoleClient)
	_, otherAuth := suite.createPerson(models.RoleClient)
	_, freelancerAuth := suite.createPerson(models.RoleFreelancer)

	open := suite.createProject(clientAuth, "Open project")
	hidden := suite.createProject(clientAuth, "Hidden project")
	suite.createProject(otherAuth, "Someone else's")

	w := suite.do(http.MethodPost, projectPath(hidden.ID, "/deactivate"), clientAuth, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var projects []dto.ProjectDTO
	resp := suite.decodeData(suite.do(http.MethodGet, "/api/projects", clientAuth, nil), &projects)
	suite.Len(projects, 2)
	suite.Require().NotNil(resp.Pagination)
	suite.EqualValues(2, resp.Pagination.Total)

	// freelancers only ever see the open inventory, whatever status they ask for
	resp = suite.decodeData(suite.do(http.MethodGet, "/api/projects?status=inactive&limit=1", freelancerAuth, nil), &projects)
	suite.Require().Len(projects, 1)
	suite.Equal(models.ProjectOpen, projects[0].Status)
	suite.EqualValues(2, resp.Pagination.Total)
	suite.Equal(1, resp.Pagination.Limit)
	suite.NotEqual(hidden.ID, projects[0].ID)

	w = suite.do(http.MethodGet, "/api/projects?status=bogus", clientAuth, nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, projectPath(open.ID, ""), freelancerAuth, nil)
	suite.Equal(http.StatusOK, w.Code)
	w = suite.do(http.MethodGet, projectPath(hidden.ID, ""), freelancerAuth, nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestProjectHandler_Search() {
	_, clientAuth := suite.createPerson(models.RoleClient)
	_, freelancerAuth := suite.createPerson(models.RoleFreelancer)

	suite.createProject(clientAuth, "Mobile app")
	suite.createProject(clientAuth, "Marketplace backend")

	var projects []dto.ProjectDTO
	suite.decodeData(suite.do(http.MethodGet, "/api/projects/search?q=backend", freelancerAuth, nil), &projects)
	suite.Require().NotEmpty(projects)
	suite.Equal("Marketplace backend", projects[0].Title)

	w := suite.do(http.MethodGet, "/api/projects/search?q=", freelancerAuth, nil)
	suite.Require().Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apierrors.ErrCodeValidation, suite.decodeError(w).Code)
}

func (suite *HandlerTestSuite) TestProjectHandler_UpdateAndDelete() {
	_, clientAuth := suite.createPerson(models.RoleClient)
	_, otherAuth := suite.createPerson(models.RoleClient)
	project := suite.createProject(clientAuth, "Original")

	deadline := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	w := suite.do(http.MethodPatch, projectPath(project.ID, ""), clientAuth, map[string]any{
		"title":        "Renamed",
		"bid_deadline": deadline,
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var updated dto.ProjectDTO
	suite.decodeData(w, &updated)
	suite.Equal("Renamed", updated.Title)
	suite.Equal(project.Description, updated.Description)
	suite.Require().NotNil(updated.BidDeadline)
	suite.True(deadline.Equal(*updated.BidDeadline))

	w = suite.do(http.MethodPatch, projectPath(project.ID, ""), otherAuth, map[string]any{"title": "Hijacked"})
	suite.Equal(http.StatusNotFound, w.Code)

	// open projects must be deactivated before deletion
	w = suite.do(http.MethodDelete, projectPath(project.ID, ""), clientAuth, nil)
	suite.Require().Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apierrors.ErrCodeInvalidState, suite.decodeError(w).Code)

	suite.Require().Equal(http.StatusOK, suite.do(http.MethodPost, projectPath(project.ID, "/deactivate"), clientAuth, nil).Code)
	suite.Require().Equal(http.StatusOK, suite.do(http.MethodDelete, projectPath(project.ID, ""), clientAuth, nil).Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, projectPath(project.ID, ""), clientAuth, nil).Code)
}

func (suite *HandlerTestSuite) TestProjectHandler_Reactivate() {
	_, clientAuth := suite.createPerson(models.RoleClient)
	project := suite.createProject(clientAuth, "Paused")

	w := suite.do(http.MethodPost, projectPath(project.ID, "/reactivate"), clientAuth, nil)
	suite.Require().Equal(http.StatusBadRequest, w.Code)

	suite.Require().Equal(http.StatusOK, suite.do(http.MethodPost, projectPath(project.ID, "/deactivate"), clientAuth, nil).Code)

	w = suite.do(http.MethodPost, projectPath(project.ID, "/reactivate"), clientAuth, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var reactivated dto.ProjectDTO
	suite.decodeData(w, &reactivated)
	suite.Equal(models.ProjectOpen, reactivated.Status)
	suite.True(reactivated.IsPending)
}

func (suite *HandlerTestSuite) TestProjectHandler_Stats() {
	_, clientAuth := suite.createPerson(models.RoleClient)
	_, adminAuth := suite.createPerson(models.RoleAdmin)
	suite.createProject(clientAuth, "Counted")

	var stats repository.ClientStats
	suite.decodeData(suite.do(http.MethodGet, "/api/projects/stats", clientAuth, nil), &stats)
	suite.EqualValues(1, stats.TotalProjects)
	suite.EqualValues(1, stats.ActiveProjects)
	suite.Zero(stats.CompletedProjects)

	w := suite.do(http.MethodGet, "/api/projects/stats", adminAuth, nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestProjectHandler_SuggestSkillsUnavailable() {
	_, clientAuth := suite.createPerson(models.RoleClient)

	w := suite.do(http.MethodPost, "/api/projects/suggest-skills", clientAuth, map[string]string{
		"title":       "Landing page",
		"description": "React and Tailwind",
	})
	suite.Require().Equal(http.StatusServiceUnavailable, w.Code)
	suite.Equal(apierrors.ErrCodeServiceUnavailable, suite.decodeError(w).Code)
}

func (suite *HandlerTestSuite) TestProjectHandler_InvalidID() {
	_, clientAuth := suite.createPerson(models.RoleClient)

	w := suite.do(http.MethodGet, "/api/projects/abc", clientAuth, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}
