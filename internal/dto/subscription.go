package dto

// ── subscriptions ──

type CreateSubscriptionRequest struct {
	FoodbankID         string  `json:"foodbank_id"          binding:"required,uuid"`
	Status             string  `json:"status"               binding:"omitempty,subscription_status"`
	TrialEndsAt        *string `json:"trial_ends_at"        binding:"omitempty,datetime=2006-01-02"`
	SubscriptionEndsAt *string `json:"subscription_ends_at" binding:"omitempty,datetime=2006-01-02"`
	MonthlyFee         float64 `json:"monthly_fee"          binding:"min=0"`
}

type UpdateSubscriptionRequest struct {
	Status             *string  `json:"status"               binding:"omitempty,subscription_status"`
	TrialEndsAt        *string  `json:"trial_ends_at"        binding:"omitempty,datetime=2006-01-02"`
	SubscriptionEndsAt *string  `json:"subscription_ends_at" binding:"omitempty,datetime=2006-01-02"`
	MonthlyFee         *float64 `json:"monthly_fee"          binding:"omitempty,min=0"`
}

type SubscriptionListRequest struct {
	PaginationRequest
	FoodbankID string `form:"foodbank_id" binding:"omitempty,uuid"`
	Status     string `form:"status"      binding:"omitempty,subscription_status"`
}
