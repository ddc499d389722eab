package services

import (
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
)

func (suite *ServiceTestSuite) TestCreateReview_CompletedProjectOnlyOnce() {
	client := suite.createPerson(models.RoleClient)
	freelancer := suite.createPerson(models.RoleFreelancer)
	project, _ := suite.inProgressProject(client, freelancer)

	_, err := suite.reviews.CreateReview(suite.ctx, client, CreateReviewInput{ProjectID: project.ID, Rating: 5})
	suite.ErrorIs(err, ErrInvalidState)

	_, err = suite.projects.CompleteProject(suite.ctx, client, project.ID)
	suite.Require().NoError(err)

	review, err := suite.reviews.CreateReview(suite.ctx, client, CreateReviewInput{
		ProjectID:  project.ID,
		RevieweeID: &freelancer.ID,
		Rating:     5,
		Comment:    "Great work",
	})
	suite.Require().NoError(err)
	suite.Equal(freelancer.ID, review.RevieweeID)
	suite.Equal(models.RoleClient, review.ReviewerType)
	suite.Equal(models.RoleFreelancer, review.RevieweeType)
	suite.Equal(5, review.Quality)
	suite.True(review.IsPublic)
	suite.True(suite.reload(project.ID).ClientReviewed)
	suite.False(suite.reload(project.ID).FreelancerReviewed)

	_, err = suite.reviews.CreateReview(suite.ctx, client, CreateReviewInput{ProjectID: project.ID, Rating: 4})
	suite.ErrorIs(err, ErrConflict)

	back, err := suite.reviews.CreateReview(suite.ctx, freelancer, CreateReviewInput{ProjectID: project.ID, Rating: 4})
	suite.Require().NoError(err)
	suite.Equal(client.ID, back.RevieweeID)
	suite.True(suite.reload(project.ID).FreelancerReviewed)
}

func (suite *ServiceTestSuite) TestCreateReview_Rules() {
	client := suite.createPerson(models.RoleClient)
	freelancer := suite.createPerson(models.RoleFreelancer)
	outsider := suite.createPerson(models.RoleFreelancer)
	project := suite.completedProject(client, freelancer)

	_, err := suite.reviews.CreateReview(suite.ctx, outsider, CreateReviewInput{ProjectID: project.ID, Rating: 3})
	suite.ErrorIs(err, ErrForbidden)

	_, err = suite.reviews.CreateReview(suite.ctx, client, CreateReviewInput{ProjectID: project.ID, Rating: 6})
	suite.ErrorIs(err, ErrValidation)

	_, err = suite.reviews.CreateReview(suite.ctx, client, CreateReviewInput{ProjectID: project.ID, RevieweeID: &outsider.ID, Rating: 3})
	suite.ErrorIs(err, ErrValidation)

	_, err = suite.reviews.CreateReview(suite.ctx, client, CreateReviewInput{ProjectID: 9999, Rating: 3})
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *ServiceTestSuite) TestUpdateAndDeleteReview() {
	client := suite.createPerson(models.RoleClient)
	freelancer := suite.createPerson(models.RoleFreelancer)
	project := suite.completedProject(client, freelancer)

	quality := 2
	review, err := suite.reviews.CreateReview(suite.ctx, client, CreateReviewInput{ProjectID: project.ID, Rating: 4, Quality: &quality})
	suite.Require().NoError(err)
	suite.Equal(2, review.Quality)
	suite.Equal(4, review.Communication)

	_, err = suite.reviews.UpdateReview(suite.ctx, freelancer, review.ID, UpdateReviewInput{})
	suite.ErrorIs(err, ErrForbidden)

	comment := "Changed my mind"
	updated, err := suite.reviews.UpdateReview(suite.ctx, client, review.ID, UpdateReviewInput{Comment: &comment})
	suite.Require().NoError(err)
	suite.Equal(comment, updated.Comment)
	suite.Equal(4, updated.Rating)

	suite.ErrorIs(suite.reviews.DeleteReview(suite.ctx, freelancer, review.ID), ErrForbidden)
	suite.Require().NoError(suite.reviews.DeleteReview(suite.ctx, client, review.ID))
	suite.False(suite.reload(project.ID).ClientReviewed)
}

func (suite *ServiceTestSuite) TestGetUserReviews_PublicWithAverages() {
	client := suite.createPerson(models.RoleClient)
	freelancer := suite.createPerson(models.RoleFreelancer)
	first := suite.completedProject(client, freelancer)
	second := suite.completedProject(client, freelancer)

	_, err := suite.reviews.CreateReview(suite.ctx, client, CreateReviewInput{ProjectID: first.ID, Rating: 5})
	suite.Require().NoError(err)
	_, err = suite.reviews.CreateReview(suite.ctx, client, CreateReviewInput{ProjectID: second.ID, Rating: 3})
	suite.Require().NoError(err)

	hidden := false
	_, err = suite.reviews.CreateReview(suite.ctx, freelancer, CreateReviewInput{ProjectID: first.ID, Rating: 1, IsPublic: &hidden})
	suite.Require().NoError(err)

	result, total, err := suite.reviews.GetUserReviews(suite.ctx, freelancer.ID, nil, 1, 20)
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)
	suite.Len(result.Reviews, 2)
	suite.Equal(int64(2), result.Summary.Count)
	suite.InDelta(4, result.Summary.AverageRating, 0.001)
	suite.InDelta(4, result.Summary.AverageProfessionalism, 0.001)

	result, total, err = suite.reviews.GetUserReviews(suite.ctx, client.ID, nil, 1, 20)
	suite.Require().NoError(err)
	suite.Zero(total)
	suite.Empty(result.Reviews)

	projectReviews, err := suite.reviews.GetProjectReviews(suite.ctx, first.ID)
	suite.Require().NoError(err)
	suite.Len(projectReviews, 1)

	_, _, err = suite.reviews.GetUserReviews(suite.ctx, 9999, nil, 1, 20)
	suite.ErrorIs(err, ErrNotFound)
}
