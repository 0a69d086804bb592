package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ygyuri/foodbank-management-system/config"
	"github.com/ygyuri/foodbank-management-system/internal/api/handler"
	"github.com/ygyuri/foodbank-management-system/internal/api/middleware"
	"github.com/ygyuri/foodbank-management-system/internal/dto"
	"github.com/ygyuri/foodbank-management-system/pkg/jwt"
	"github.com/ygyuri/foodbank-management-system/pkg/redis"
)

const maxBodyBytes = 1 << 20

// Setup builds the gin engine. rdb may be nil; token revocation and login rate
// limiting are then skipped.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := dto.RegisterValidators(v); err != nil {
			logger.Fatal("register validators", zap.Error(err))
		}
	}

	// typed nil pointers must not reach the middleware interfaces
	var (
		blacklist middleware.TokenBlacklist
		limiter   middleware.RateLimiter
	)
	if rdb != nil {
		blacklist = rdb
		limiter = rdb
	}

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(limiter, cfg.Auth.LoginRateLimit, time.Minute), h.Auth.Login)
			auth.POST("/register", h.Auth.Register)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// ownership checks for the rest live in the services
			users := authorized.Group("/users")
			{
				users.GET("", middleware.RoleAuth("admin"), h.User.ListUsers)
				users.GET("/:id", h.User.GetUser)
				users.PUT("/:id", h.User.UpdateUser)
				users.DELETE("/:id", middleware.RoleAuth("admin"), h.User.DeleteUser)
				users.POST("/:id/approve", middleware.RoleAuth("admin"), h.User.ApproveUser)
				users.POST("/:id/reject", middleware.RoleAuth("admin"), h.User.RejectUser)
				users.POST("/:id/reset-status", middleware.RoleAuth("admin"), h.User.ResetUserStatus)
			}

			donations := authorized.Group("/donations")
			{
				donations.GET("", h.Donation.ListDonations)
				donations.POST("", h.Donation.CreateDonation)
				donations.GET("/:id", h.Donation.GetDonation)
				donations.PUT("/:id", h.Donation.UpdateDonation)
				donations.DELETE("/:id", h.Donation.DeleteDonation)
				donations.POST("/:id/assign-foodbank/:foodbank_id", h.Donation.AssignFoodbank)
				donations.POST("/:id/status", h.Donation.UpdateDonationStatus)
				donations.POST("/:id/complete", h.Donation.CompleteDonation)
			}

			donationRequests := authorized.Group("/donation-requests")
			{
				donationRequests.GET("", h.DonationRequest.ListDonationRequests)
				donationRequests.POST("", h.DonationRequest.CreateDonationRequest)
				donationRequests.GET("/:id", h.DonationRequest.GetDonationRequest)
				donationRequests.PUT("/:id", h.DonationRequest.UpdateDonationRequest)
				donationRequests.DELETE("/:id", h.DonationRequest.DeleteDonationRequest)
				donationRequests.PUT("/:id/status", h.DonationRequest.UpdateDonationRequestStatus)
			}

			requests := authorized.Group("/requests-fb")
			{
				requests.GET("", h.RequestFB.ListRequests)
				requests.POST("", h.RequestFB.CreateRequest)
				requests.GET("/:id", h.RequestFB.GetRequest)
				requests.PUT("/:id", h.RequestFB.UpdateRequest)
				requests.DELETE("/:id", h.RequestFB.DeleteRequest)
				requests.PUT("/:id/status", h.RequestFB.UpdateRequestStatus)
				requests.POST("/:id/assign-donation/:donation_id", h.RequestFB.AssignDonation)
			}

			feedback := authorized.Group("/feedback")
			{
				feedback.GET("", h.Feedback.ListFeedback)
				feedback.POST("", h.Feedback.CreateFeedback)
				feedback.GET("/:id", h.Feedback.GetFeedback)
				feedback.PUT("/:id", h.Feedback.UpdateFeedback)
				feedback.DELETE("/:id", h.Feedback.DeleteFeedback)
			}

			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.ListNotifications)
				notifications.GET("/admin", middleware.RoleAuth("admin"), h.Notification.ListAllNotifications)
				notifications.GET("/ws", h.Notification.Stream)
				notifications.POST("/read-all", h.Notification.MarkAllRead)
				notifications.POST("/:id/read", h.Notification.MarkRead)
			}

			subscriptions := authorized.Group("/subscriptions")
			{
				subscriptions.GET("", h.Subscription.ListSubscriptions)
				subscriptions.POST("", middleware.RoleAuth("admin"), h.Subscription.CreateSubscription)
				subscriptions.GET("/:id", h.Subscription.GetSubscription)
				subscriptions.PUT("/:id", middleware.RoleAuth("admin"), h.Subscription.UpdateSubscription)
				subscriptions.DELETE("/:id", middleware.RoleAuth("admin"), h.Subscription.DeleteSubscription)
				subscriptions.GET("/:id/calendar", h.Subscription.SubscriptionCalendar)
			}

			reports := authorized.Group("/reports")
			{
				reports.GET("/overview", middleware.RoleAuth("admin"), h.Report.Overview)
				reports.GET("/donation-trends", middleware.RoleAuth("admin"), h.Report.DonationTrends)
				reports.GET("/foodbank-stats", middleware.RoleAuth("admin"), h.Report.FoodbankStats)
				reports.GET("/donor-stats", middleware.RoleAuth("admin"), h.Report.DonorStats)
				reports.GET("/recipient-stats", middleware.RoleAuth("admin"), h.Report.RecipientStats)
				reports.GET("/recipient-demographics", middleware.RoleAuth("admin"), h.Report.RecipientDemographics)
				reports.GET("/donations/export", middleware.RoleAuth("admin"), h.Export.ExportDonations)
				// donors fetch their own statement
				reports.GET("/donors/:id/statement", h.Export.DonorStatement)
			}
		}
	}

	return r
}
