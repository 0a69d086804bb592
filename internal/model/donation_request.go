package model

import "time"

// DonationRequest is a foodbank asking a specific donor for goods. Maps to donation_requests.
type DonationRequest struct {
	DonationRequestID string                `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"donation_request_id"`
	FoodbankID        string                `gorm:"type:uuid;not null;index"                       json:"foodbank_id"`
	DonorID           string                `gorm:"type:uuid;not null;index"                       json:"donor_id"`
	Type              DonationType          `gorm:"type:varchar(20);not null"                      json:"type"`
	Quantity          int                   `gorm:"not null"                                       json:"quantity"`
	Status            DonationRequestStatus `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	Description       string                `gorm:"type:text"                                      json:"description,omitempty"`
	ApprovedBy        *string               `gorm:"type:uuid"                                      json:"approved_by,omitempty"`
	ApprovedAt        *time.Time            `json:"approved_at,omitempty"`
	VersionedModel

	Foodbank *User `gorm:"foreignKey:FoodbankID;references:UserID" json:"foodbank,omitempty"`
	Donor    *User `gorm:"foreignKey:DonorID;references:UserID"    json:"donor,omitempty"`
}

func (DonationRequest) TableName() string { return "donation_requests" }
