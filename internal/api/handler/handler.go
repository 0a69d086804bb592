package handler

import (
	"github.com/ygyuri/foodbank-management-system/config"
	"github.com/ygyuri/foodbank-management-system/internal/service"
)

// Handler aggregates every HTTP handler for the router.
type Handler struct {
	Auth            *AuthHandler
	User            *UserHandler
	Donation        *DonationHandler
	DonationRequest *DonationRequestHandler
	RequestFB       *RequestFBHandler
	Feedback        *FeedbackHandler
	Subscription    *SubscriptionHandler
	Notification    *NotificationHandler
	Report          *ReportHandler
	Export          *ExportHandler
}

// NewHandler stream may be nil, which disables the websocket endpoint.
func NewHandler(svc *service.Service, authCfg *config.AuthConfig, stream Streamer) *Handler {
	return &Handler{
		Auth:            NewAuthHandler(svc.Auth, authCfg),
		User:            NewUserHandler(svc.User),
		Donation:        NewDonationHandler(svc.Donation),
		DonationRequest: NewDonationRequestHandler(svc.DonationRequest),
		RequestFB:       NewRequestFBHandler(svc.RequestFB),
		Feedback:        NewFeedbackHandler(svc.Feedback),
		Subscription:    NewSubscriptionHandler(svc.Subscription),
		Notification:    NewNotificationHandler(svc.Notification, stream),
		Report:          NewReportHandler(svc.Report),
		Export:          NewExportHandler(svc.Export),
	}
}
