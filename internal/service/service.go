package service

import (
	"go.uber.org/zap"

	"github.com/ygyuri/foodbank-management-system/config"
	"github.com/ygyuri/foodbank-management-system/internal/notify"
	"github.com/ygyuri/foodbank-management-system/internal/repository"
	"github.com/ygyuri/foodbank-management-system/internal/workflow"
	"github.com/ygyuri/foodbank-management-system/pkg/jwt"
)

// Service aggregates every service for the router.
type Service struct {
	Auth            AuthService
	User            UserService
	Donation        DonationService
	DonationRequest DonationRequestService
	RequestFB       RequestFBService
	Feedback        FeedbackService
	Subscription    SubscriptionService
	Notification    NotificationService
	Report          ReportService
	Export          ExportService
}

// Deps are the collaborators shared by the services.
type Deps struct {
	Config   *config.Config
	Repo     *repository.Repository
	JWT      *jwt.Manager
	Tokens   TokenStore // nil disables logout blacklisting
	Authz    *workflow.Authorizer
	Notifier notify.Notifier
	Logger   *zap.Logger
}

func NewService(d Deps) *Service {
	return &Service{
		Auth:            NewAuthService(d.Config, d.Repo, d.JWT, d.Tokens, d.Logger),
		User:            NewUserService(d.Repo, d.Authz, d.Notifier, d.Config.Auth.BcryptCost, d.Logger),
		Donation:        NewDonationService(d.Repo, d.Authz, d.Notifier, d.Logger),
		DonationRequest: NewDonationRequestService(d.Repo, d.Authz, d.Notifier, d.Logger),
		RequestFB:       NewRequestFBService(d.Repo, d.Authz, d.Notifier, d.Logger),
		Feedback:        NewFeedbackService(d.Repo, d.Authz, d.Notifier, d.Logger),
		Subscription:    NewSubscriptionService(d.Repo, d.Authz, d.Logger),
		Notification:    NewNotificationService(d.Repo, d.Authz, d.Logger),
		Report:          NewReportService(d.Repo, d.Authz, d.Logger),
		Export:          NewExportService(d.Repo, d.Authz, d.Logger),
	}
}
