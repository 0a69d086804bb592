package model

import "time"

// Subscription is a foodbank's platform plan. Maps to subscriptions.
type Subscription struct {
	SubscriptionID     string             `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"subscription_id"`
	FoodbankID         string             `gorm:"type:uuid;not null;index"                       json:"foodbank_id"`
	Status             SubscriptionStatus `gorm:"type:varchar(20);not null;default:'trial'"      json:"status"`
	TrialEndsAt        *time.Time         `json:"trial_ends_at,omitempty"`
	SubscriptionEndsAt *time.Time         `json:"subscription_ends_at,omitempty"`
	MonthlyFee         float64            `gorm:"type:numeric(10,2);not null;default:0"          json:"monthly_fee"`
	SoftDeleteModel

	Foodbank *User `gorm:"foreignKey:FoodbankID;references:UserID" json:"foodbank,omitempty"`
}

func (Subscription) TableName() string { return "subscriptions" }
