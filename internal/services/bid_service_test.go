package services

import (
	"time"

	"github.com/yukikurage/freelance-marketplace-api/internal/models"
)

func (suite *ServiceTestSuite) TestAcceptBid_RejectsCompetitorsAndStartsProject() {
	client := suite.createPerson(models.RoleClient)
	f1 := suite.createPerson(models.RoleFreelancer)
	f2 := suite.createPerson(models.RoleFreelancer)
	project := suite.createProject(client)

	b1 := suite.placeBid(f1, project.ID, 500, 10)
	b2 := suite.placeBid(f2, project.ID, 600, 7)

	accepted, err := suite.bids.AcceptBid(suite.ctx, client, b1.ID)
	suite.Require().NoError(err)
	suite.Equal(models.BidAccepted, accepted.Status)
	suite.NotNil(accepted.ClientDecisionAt)

	suite.Equal(models.BidRejected, suite.reloadBid(b2.ID).Status)

	p := suite.reload(project.ID)
	suite.Equal(models.ProjectInProgress, p.Status)
	suite.True(p.Status.IsActive())
	suite.False(p.Status.IsPending())
	suite.Equal(b1.ID, *p.AcceptedBidID)
	suite.Equal(f1.ID, *p.AssignedFreelancerID)

	// no other bid can become accepted afterwards
	_, err = suite.bids.AcceptBid(suite.ctx, client, b2.ID)
	suite.ErrorIs(err, ErrInvalidState)
}

func (suite *ServiceTestSuite) TestCreateBid_SecondActiveBidConflicts() {
	client := suite.createPerson(models.RoleClient)
	freelancer := suite.createPerson(models.RoleFreelancer)
	project := suite.createProject(client)
	suite.placeBid(freelancer, project.ID, 500, 10)

	_, err := suite.bids.CreateBid(suite.ctx, freelancer, CreateBidInput{ProjectID: project.ID, Amount: 450, Duration: 9})
	suite.ErrorIs(err, ErrConflict)

	var count int64
	suite.db.Model(&models.Bid{}).Where("project_id = ?", project.ID).Count(&count)
	suite.Equal(int64(1), count)
}

func (suite *ServiceTestSuite) TestCreateBid_Preconditions() {
	client := suite.createPerson(models.RoleClient)
	freelancer := suite.createPerson(models.RoleFreelancer)
	project := suite.createProject(client)

	_, err := suite.bids.CreateBid(suite.ctx, client, CreateBidInput{ProjectID: project.ID, Amount: 100, Duration: 1})
	suite.ErrorIs(err, ErrForbidden)

	_, err = suite.bids.CreateBid(suite.ctx, freelancer, CreateBidInput{ProjectID: 9999, Amount: 100, Duration: 1})
	suite.ErrorIs(err, ErrNotFound)

	_, err = suite.bids.CreateBid(suite.ctx, freelancer, CreateBidInput{ProjectID: project.ID, Amount: 0, Duration: 1})
	suite.ErrorIs(err, ErrValidation)

	_, err = suite.bids.CreateBid(suite.ctx, freelancer, CreateBidInput{
		ProjectID:  project.ID,
		Amount:     100,
		Duration:   1,
		Milestones: []models.Milestone{{Title: "", Amount: 50}},
	})
	suite.ErrorIs(err, ErrValidation)

	past := time.Now().Add(-time.Hour)
	suite.Require().NoError(suite.db.Model(&models.Project{}).Where("id = ?", project.ID).Update("bid_deadline", past).Error)
	_, err = suite.bids.CreateBid(suite.ctx, freelancer, CreateBidInput{ProjectID: project.ID, Amount: 100, Duration: 1})
	suite.ErrorIs(err, ErrDeadlinePassed)

	_, err = suite.projects.DeactivateProject(suite.ctx, client, project.ID)
	suite.Require().NoError(err)
	_, err = suite.bids.CreateBid(suite.ctx, freelancer, CreateBidInput{ProjectID: project.ID, Amount: 100, Duration: 1})
	suite.ErrorIs(err, ErrInvalidState)
}

func (suite *ServiceTestSuite) TestCreateBid_DefaultsAvailability() {
	client := suite.createPerson(models.RoleClient)
	freelancer := suite.createPerson(models.RoleFreelancer)
	project := suite.createProject(client)

	bid := suite.placeBid(freelancer, project.ID, 500, 10)
	suite.Equal(40, bid.AvailabilityHours)
	suite.Equal(models.BidPending, bid.Status)
}

func (suite *ServiceTestSuite) TestAcceptBid_OnlyOwner() {
	owner := suite.createPerson(models.RoleClient)
	other := suite.createPerson(models.RoleClient)
	freelancer := suite.createPerson(models.RoleFreelancer)
	project := suite.createProject(owner)
	bid := suite.placeBid(freelancer, project.ID, 500, 10)

	_, err := suite.bids.AcceptBid(suite.ctx, other, bid.ID)
	suite.ErrorIs(err, ErrForbidden)

	_, err = suite.bids.AcceptBid(suite.ctx, freelancer, bid.ID)
	suite.ErrorIs(err, ErrForbidden)

	_, err = suite.bids.AcceptBid(suite.ctx, owner, 9999)
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *ServiceTestSuite) TestRejectBid_RecordsMessage() {
	client := suite.createPerson(models.RoleClient)
	freelancer := suite.createPerson(models.RoleFreelancer)
	project := suite.createProject(client)
	bid := suite.placeBid(freelancer, project.ID, 500, 10)

	rejected, err := suite.bids.RejectBid(suite.ctx, client, bid.ID, "  too expensive ")
	suite.Require().NoError(err)
	suite.Equal(models.BidRejected, rejected.Status)
	suite.Equal("too expensive", rejected.ClientMessage)
	suite.Equal(models.ProjectOpen, suite.reload(project.ID).Status)

	// terminal
	_, err = suite.bids.RejectBid(suite.ctx, client, bid.ID, "")
	suite.ErrorIs(err, ErrInvalidState)

	// a rejected bid frees the freelancer to bid again
	suite.placeBid(freelancer, project.ID, 400, 10)
}

func (suite *ServiceTestSuite) TestWithdrawBid() {
	client := suite.createPerson(models.RoleClient)
	freelancer := suite.createPerson(models.RoleFreelancer)
	other := suite.createPerson(models.RoleFreelancer)
	project := suite.createProject(client)
	bid := suite.placeBid(freelancer, project.ID, 500, 10)

	_, err := suite.bids.WithdrawBid(suite.ctx, other, bid.ID)
	suite.ErrorIs(err, ErrForbidden)

	withdrawn, err := suite.bids.WithdrawBid(suite.ctx, freelancer, bid.ID)
	suite.Require().NoError(err)
	suite.Equal(models.BidWithdrawn, withdrawn.Status)

	_, err = suite.bids.WithdrawBid(suite.ctx, freelancer, bid.ID)
	suite.ErrorIs(err, ErrInvalidState)
}

func (suite *ServiceTestSuite) TestUpdateBid_PartialFields() {
	client := suite.createPerson(models.RoleClient)
	freelancer := suite.createPerson(models.RoleFreelancer)
	project := suite.createProject(client)
	bid := suite.placeBid(freelancer, project.ID, 500, 10)

	amount := 450.0
	updated, err := suite.bids.UpdateBid(suite.ctx, freelancer, bid.ID, UpdateBidInput{Amount: &amount})
	suite.Require().NoError(err)
	suite.Equal(450.0, updated.Amount)
	suite.Equal(10, updated.Duration)
	suite.Equal("I can do this", updated.CoverLetter)

	zero := 0
	_, err = suite.bids.UpdateBid(suite.ctx, freelancer, bid.ID, UpdateBidInput{Duration: &zero})
	suite.ErrorIs(err, ErrValidation)

	_, err = suite.bids.AcceptBid(suite.ctx, client, bid.ID)
	suite.Require().NoError(err)
	_, err = suite.bids.UpdateBid(suite.ctx, freelancer, bid.ID, UpdateBidInput{Amount: &amount})
	suite.ErrorIs(err, ErrInvalidState)
}

func (suite *ServiceTestSuite) TestListBidsForProject_Visibility() {
	client := suite.createPerson(models.RoleClient)
	bidder := suite.createPerson(models.RoleFreelancer)
	outsider := suite.createPerson(models.RoleFreelancer)
	admin := suite.createPerson(models.RoleAdmin)
	project := suite.createProject(client)
	suite.placeBid(bidder, project.ID, 500, 10)

	_, _, err := suite.bids.ListBidsForProject(suite.ctx, outsider, project.ID, ListBidsInput{Page: 1, PageSize: 20})
	suite.ErrorIs(err, ErrForbidden)

	for _, caller := range []Caller{client, bidder, admin} {
		bids, total, err := suite.bids.ListBidsForProject(suite.ctx, caller, project.ID, ListBidsInput{Page: 1, PageSize: 20})
		suite.Require().NoError(err)
		suite.Equal(int64(1), total)
		suite.Len(bids, 1)
	}

	rejected := models.BidRejected
	bids, total, err := suite.bids.ListBidsForProject(suite.ctx, client, project.ID, ListBidsInput{Status: &rejected, Page: 1, PageSize: 20})
	suite.Require().NoError(err)
	suite.Zero(total)
	suite.Empty(bids)
}

func (suite *ServiceTestSuite) TestListBidsForFreelancer_SelfOrAdmin() {
	client := suite.createPerson(models.RoleClient)
	freelancer := suite.createPerson(models.RoleFreelancer)
	other := suite.createPerson(models.RoleFreelancer)
	admin := suite.createPerson(models.RoleAdmin)
	suite.placeBid(freelancer, suite.createProject(client).ID, 500, 10)
	suite.placeBid(freelancer, suite.createProject(client).ID, 300, 5)

	bids, total, err := suite.bids.ListBidsForFreelancer(suite.ctx, freelancer, freelancer.ID, ListBidsInput{Page: 1, PageSize: 1})
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)
	suite.Len(bids, 1)

	_, _, err = suite.bids.ListBidsForFreelancer(suite.ctx, admin, freelancer.ID, ListBidsInput{Page: 1, PageSize: 20})
	suite.NoError(err)

	_, _, err = suite.bids.ListBidsForFreelancer(suite.ctx, other, freelancer.ID, ListBidsInput{Page: 1, PageSize: 20})
	suite.ErrorIs(err, ErrForbidden)
}

func (suite *ServiceTestSuite) TestGetBid_Visibility() {
	client := suite.createPerson(models.RoleClient)
	freelancer := suite.createPerson(models.RoleFreelancer)
	stranger := suite.createPerson(models.RoleClient)
	bid := suite.placeBid(freelancer, suite.createProject(client).ID, 500, 10)

	_, err := suite.bids.GetBid(suite.ctx, client, bid.ID)
	suite.NoError(err)
	_, err = suite.bids.GetBid(suite.ctx, freelancer, bid.ID)
	suite.NoError(err)
	_, err = suite.bids.GetBid(suite.ctx, stranger, bid.ID)
	suite.ErrorIs(err, ErrForbidden)
}
