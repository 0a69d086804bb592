package service

import (
	"encoding/json"

	"github.com/ygyuri/foodbank-management-system/internal/dto"
	"github.com/ygyuri/foodbank-management-system/internal/model"
)

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:               u.UserID,
		Name:             u.Name,
		Email:            u.Email,
		Role:             string(u.Role),
		Status:           string(u.Status),
		Sex:              u.Sex,
		Birthday:         dto.FormatDatePtr(u.Birthday),
		Description:      u.Description,
		Phone:            u.Phone,
		Location:         u.Location,
		Address:          u.Address,
		OrganizationName: u.OrganizationName,
		RecipientType:    string(u.RecipientType),
		DonorType:        u.DonorType,
		Notes:            u.Notes,
		CreatedAt:        dto.FormatTime(u.CreatedAt),
	}
}

func toUserBrief(u *model.User) *dto.UserBrief {
	if u == nil {
		return nil
	}
	return &dto.UserBrief{
		ID:               u.UserID,
		Name:             u.Name,
		Email:            u.Email,
		OrganizationName: u.OrganizationName,
	}
}

func toDonationResponse(d *model.Donation) dto.DonationResponse {
	return dto.DonationResponse{
		ID:                d.DonationID,
		DonorID:           d.DonorID,
		FoodbankID:        d.FoodbankID,
		RecipientID:       d.RecipientID,
		AssignedRequestID: d.AssignedRequestID,
		Type:              string(d.Type),
		Quantity:          d.Quantity,
		Status:            string(d.Status),
		Description:       d.Description,
		Version:           d.Version,
		Donor:             toUserBrief(d.Donor),
		Foodbank:          toUserBrief(d.Foodbank),
		Recipient:         toUserBrief(d.Recipient),
		CreatedAt:         dto.FormatTime(d.CreatedAt),
		UpdatedAt:         dto.FormatTime(d.UpdatedAt),
	}
}

func toDonationResponses(list []model.Donation) []dto.DonationResponse {
	out := make([]dto.DonationResponse, 0, len(list))
	for i := range list {
		out = append(out, toDonationResponse(&list[i]))
	}
	return out
}

func toDonationRequestResponse(r *model.DonationRequest) dto.DonationRequestResponse {
	return dto.DonationRequestResponse{
		ID:          r.DonationRequestID,
		FoodbankID:  r.FoodbankID,
		DonorID:     r.DonorID,
		Type:        string(r.Type),
		Quantity:    r.Quantity,
		Status:      string(r.Status),
		Description: r.Description,
		CreatedBy:   r.CreatedBy,
		ApprovedBy:  r.ApprovedBy,
		ApprovedAt:  dto.FormatTimePtr(r.ApprovedAt),
		Version:     r.Version,
		Foodbank:    toUserBrief(r.Foodbank),
		Donor:       toUserBrief(r.Donor),
		CreatedAt:   dto.FormatTime(r.CreatedAt),
		UpdatedAt:   dto.FormatTime(r.UpdatedAt),
	}
}

func toRequestFBResponse(r *model.RequestFB) dto.RequestFBResponse {
	return dto.RequestFBResponse{
		ID:                 r.RequestFBID,
		FoodbankID:         r.FoodbankID,
		RecipientID:        r.RecipientID,
		Type:               string(r.Type),
		Quantity:           r.Quantity,
		Status:             string(r.Status),
		Description:        r.Description,
		AssignedDonationID: r.AssignedDonationID,
		Version:            r.Version,
		Foodbank:           toUserBrief(r.Foodbank),
		Recipient:          toUserBrief(r.Recipient),
		CreatedAt:          dto.FormatTime(r.CreatedAt),
		UpdatedAt:          dto.FormatTime(r.UpdatedAt),
	}
}

func toFeedbackResponse(f *model.Feedback) dto.FeedbackResponse {
	return dto.FeedbackResponse{
		ID:           f.FeedbackID,
		SenderID:     f.SenderID,
		ReceiverID:   f.ReceiverID,
		ThankYouNote: f.ThankYouNote,
		Rating:       f.Rating,
		Message:      f.Message,
		Type:         string(f.Type),
		Reference:    f.Reference,
		Sender:       toUserBrief(f.Sender),
		Receiver:     toUserBrief(f.Receiver),
		CreatedAt:    dto.FormatTime(f.CreatedAt),
	}
}

func toSubscriptionResponse(s *model.Subscription) dto.SubscriptionResponse {
	return dto.SubscriptionResponse{
		ID:                 s.SubscriptionID,
		FoodbankID:         s.FoodbankID,
		Status:             string(s.Status),
		TrialEndsAt:        dto.FormatDatePtr(s.TrialEndsAt),
		SubscriptionEndsAt: dto.FormatDatePtr(s.SubscriptionEndsAt),
		MonthlyFee:         s.MonthlyFee,
		Foodbank:           toUserBrief(s.Foodbank),
		CreatedAt:          dto.FormatTime(s.CreatedAt),
	}
}

func toNotificationResponse(n *model.Notification) dto.NotificationResponse {
	var data interface{}
	if len(n.Data) > 0 {
		var m map[string]interface{}
		if err := json.Unmarshal(n.Data, &m); err == nil {
			data = m
		}
	}
	return dto.NotificationResponse{
		ID:          n.NotificationID,
		UserID:      n.UserID,
		Type:        n.Type,
		Title:       n.Title,
		Content:     n.Content,
		Data:        data,
		RelatedType: n.RelatedType,
		RelatedID:   n.RelatedID,
		ReadAt:      dto.FormatTimePtr(n.ReadAt),
		CreatedAt:   dto.FormatTime(n.CreatedAt),
	}
}
