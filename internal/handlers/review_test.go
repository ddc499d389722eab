package handlers

import (
	"fmt"
	"net/http"

	"github.com/yukikurage/freelance-marketplace-api/internal/dto"
	apierrors "github.com/yukikurage/freelance-marketplace-api/internal/errors"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
)

type completedProject struct {
	project        dto.ProjectDTO
	client         *models.Person
	clientAuth     string
	freelancer     *models.Person
	freelancerAuth string
}

// setupCompletedProject drives a project through bidding, acceptance and completion over HTTP.
func (suite *HandlerTestSuite) setupCompletedProject() completedProject {
	client, clientAuth := suite.createPerson(models.RoleClient)
	freelancer, freelancerAuth := suite.createPerson(models.RoleFreelancer)

	project := suite.createProject(clientAuth, "Ship it")
	bid := suite.createBid(freelancerAuth, project.ID, 1000)

	w := suite.do(http.MethodPost, bidPath(bid.ID, "/accept"), clientAuth, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.do(http.MethodPost, projectPath(project.ID, "/complete"), clientAuth, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.decodeData(w, &project)

	return completedProject{
		project:        project,
		client:         client,
		clientAuth:     clientAuth,
		freelancer:     freelancer,
		freelancerAuth: freelancerAuth,
	}
}

func (suite *HandlerTestSuite) TestProjectHandler_CompleteRequiresInProgress() {
	_, clientAuth := suite.createPerson(models.RoleClient)
	project := suite.createProject(clientAuth, "Too early")

	w := suite.do(http.MethodPost, projectPath(project.ID, "/complete"), clientAuth, nil)
	suite.Require().Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apierrors.ErrCodeInvalidState, suite.decodeError(w).Code)

	done := suite.setupCompletedProject()
	suite.Equal(models.ProjectCompleted, done.project.Status)
	suite.True(done.project.IsCompleted)
	suite.False(done.project.IsActive)
	suite.NotNil(done.project.CompletedAt)
}

func (suite *HandlerTestSuite) TestReviewHandler_CreateBothSides() {
	done := suite.setupCompletedProject()

	w := suite.do(http.MethodPost, "/api/reviews", done.clientAuth, map[string]any{
		"project_id": done.project.ID,
		"rating":     5,
		"quality":    4,
		"comment":    "Great work",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var review dto.ReviewDTO
	suite.decodeData(w, &review)
	suite.Equal(done.freelancer.ID, review.RevieweeID)
	suite.Equal(models.RoleClient, review.ReviewerType)
	suite.Equal(models.RoleFreelancer, review.RevieweeType)
	suite.Equal(5, review.Communication)
	suite.Equal(4, review.Quality)
	suite.True(review.IsPublic)

	w = suite.do(http.MethodPost, "/api/reviews", done.clientAuth, map[string]any{
		"project_id": done.project.ID,
		"rating":     4,
	})
	suite.Require().Equal(http.StatusConflict, w.Code)

	w = suite.do(http.MethodPost, "/api/reviews", done.freelancerAuth, map[string]any{
		"project_id":  done.project.ID,
		"reviewee_id": done.freelancer.ID,
		"rating":      4,
	})
	suite.Require().Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apierrors.ErrCodeValidation, suite.decodeError(w).Code)

	w = suite.do(http.MethodPost, "/api/reviews", done.freelancerAuth, map[string]any{
		"project_id": done.project.ID,
		"rating":     4,
		"is_public":  false,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var project dto.ProjectDTO
	suite.decodeData(suite.do(http.MethodGet, projectPath(done.project.ID, ""), done.clientAuth, nil), &project)
	suite.True(project.ClientReviewed)
	suite.True(project.FreelancerReviewed)

	// only the public review is listed
	var reviews []dto.ReviewDTO
	suite.decodeData(suite.do(http.MethodGet, projectPath(done.project.ID, "/reviews"), done.clientAuth, nil), &reviews)
	suite.Require().Len(reviews, 1)
	suite.Equal(review.ID, reviews[0].ID)
}

func (suite *HandlerTestSuite) TestReviewHandler_RequiresCompletedProject() {
	_, clientAuth := suite.createPerson(models.RoleClient)
	project := suite.createProject(clientAuth, "Still open")

	w := suite.do(http.MethodPost, "/api/reviews", clientAuth, map[string]any{
		"project_id": project.ID,
		"rating":     5,
	})
	suite.Require().Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apierrors.ErrCodeInvalidState, suite.decodeError(w).Code)

	done := suite.setupCompletedProject()
	_, outsiderAuth := suite.createPerson(models.RoleFreelancer)
	w = suite.do(http.MethodPost, "/api/reviews", outsiderAuth, map[string]any{
		"project_id": done.project.ID,
		"rating":     1,
	})
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestReviewHandler_UserReviews() {
	done := suite.setupCompletedProject()

	w := suite.do(http.MethodPost, "/api/reviews", done.clientAuth, map[string]any{
		"project_id":      done.project.ID,
		"rating":          4,
		"communication":   2,
		"professionalism": 3,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	path := fmt.Sprintf("/api/users/%d/reviews", done.freelancer.ID)
	var result dto.UserReviewsDTO
	resp := suite.decodeData(suite.do(http.MethodGet, path, "", nil), &result)
	suite.Require().Len(result.Reviews, 1)
	suite.Require().NotNil(result.Summary)
	suite.EqualValues(1, result.Summary.Count)
	suite.InDelta(4.0, result.Summary.AverageRating, 0.001)
	suite.InDelta(2.0, result.Summary.AverageCommunication, 0.001)
	suite.InDelta(3.0, result.Summary.AverageProfessionalism, 0.001)
	suite.EqualValues(1, resp.Pagination.Total)

	suite.decodeData(suite.do(http.MethodGet, path+"?user_type=client", "", nil), &result)
	suite.Empty(result.Reviews)
	suite.EqualValues(0, result.Summary.Count)

	w = suite.do(http.MethodGet, path+"?user_type=admin", "", nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, "/api/users/9999/reviews", "", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestReviewHandler_UpdateAndDelete() {
	done := suite.setupCompletedProject()

	w := suite.do(http.MethodPost, "/api/reviews", done.freelancerAuth, map[string]any{
		"project_id": done.project.ID,
		"rating":     3,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var review dto.ReviewDTO
	suite.decodeData(w, &review)
	reviewPath := fmt.Sprintf("/api/reviews/%d", review.ID)

	w = suite.do(http.MethodPatch, reviewPath, done.freelancerAuth, map[string]any{"rating": 6})
	suite.Require().Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPatch, reviewPath, done.freelancerAuth, map[string]any{
		"rating":  5,
		"comment": "Paid on time",
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.decodeData(w, &review)
	suite.Equal(5, review.Rating)
	suite.Equal("Paid on time", review.Comment)

	w = suite.do(http.MethodDelete, reviewPath, done.clientAuth, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodDelete, reviewPath, done.freelancerAuth, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var project dto.ProjectDTO
	suite.decodeData(suite.do(http.MethodGet, projectPath(done.project.ID, ""), done.clientAuth, nil), &project)
	suite.False(project.FreelancerReviewed)
}
