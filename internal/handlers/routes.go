package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/freelance-marketplace-api/internal/middleware"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
)

// Router groups the handlers mounted under /api.
type Router struct {
	Auth    *AuthHandler
	OAuth   *OAuthHandler
	Project *ProjectHandler
	Bid     *BidHandler
	Review  *ReviewHandler

	// RequireAuth resolves the caller for protected routes.
	RequireAuth gin.HandlerFunc
}

// Register mounts the API routes on r.
func (h Router) Register(r gin.IRouter) {
	clientsOnly := middleware.RequireRole(models.RoleClient)
	freelancersOnly := middleware.RequireRole(models.RoleFreelancer)

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", h.Auth.Signup)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", h.Auth.Logout)
			auth.GET("/me", h.RequireAuth, h.Auth.GetCurrentUser)
			auth.POST("/otp/request", h.Auth.RequestOTP)
			auth.POST("/otp/verify", h.Auth.VerifyOTP)
			auth.POST("/password/reset", h.Auth.ResetPassword)
			if h.OAuth != nil {
				auth.GET("/google/login", h.OAuth.GoogleLogin)
				auth.GET("/google/callback", h.OAuth.GoogleCallback)
			}
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(h.RequireAuth)
		{
			projects.GET("", h.Project.ListProjects)
			projects.POST("", clientsOnly, h.Project.CreateProject)
			projects.GET("/search", h.Project.SearchProjects)
			projects.GET("/stats", h.Project.GetProjectStats)
			projects.POST("/suggest-skills", clientsOnly, h.Project.SuggestSkills)
			projects.GET("/:id", h.Project.GetProject)
			projects.PATCH("/:id", clientsOnly, h.Project.UpdateProject)
			projects.DELETE("/:id", clientsOnly, h.Project.DeleteProject)
			projects.POST("/:id/complete", clientsOnly, h.Project.CompleteProject)
			projects.POST("/:id/deactivate", clientsOnly, h.Project.DeactivateProject)
			projects.POST("/:id/reactivate", clientsOnly, h.Project.ReactivateProject)
			projects.GET("/:id/bids", h.Bid.ListProjectBids)
			projects.GET("/:id/reviews", h.Review.GetProjectReviews)
		}

		// Bid routes (protected)
		bids := api.Group("/bids")
		bids.Use(h.RequireAuth)
		{
			bids.POST("", freelancersOnly, h.Bid.CreateBid)
			bids.GET("/mine", freelancersOnly, h.Bid.ListMyBids)
			bids.GET("/:id", h.Bid.GetBid)
			bids.PATCH("/:id", freelancersOnly, h.Bid.UpdateBid)
			bids.POST("/:id/withdraw", freelancersOnly, h.Bid.WithdrawBid)
			bids.POST("/:id/accept", clientsOnly, h.Bid.AcceptBid)
			bids.POST("/:id/reject", clientsOnly, h.Bid.RejectBid)
		}

		// Review routes (protected)
		reviews := api.Group("/reviews")
		reviews.Use(h.RequireAuth)
		{
			reviews.POST("", h.Review.CreateReview)
			reviews.PATCH("/:id", h.Review.UpdateReview)
			reviews.DELETE("/:id", h.Review.DeleteReview)
		}

		// Public profile reviews; bid history needs a caller
		users := api.Group("/users")
		{
			users.GET("/:id/reviews", h.Review.GetUserReviews)
			users.GET("/:id/bids", h.RequireAuth, h.Bid.ListFreelancerBids)
		}
	}
}
