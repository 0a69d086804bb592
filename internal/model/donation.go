package model

// Donation maps to donations.
type Donation struct {
	DonationID        string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"donation_id"`
	DonorID           string         `gorm:"type:uuid;not null;index"                       json:"donor_id"`
	FoodbankID        *string        `gorm:"type:uuid;index"                                json:"foodbank_id,omitempty"`
	RecipientID       *string        `gorm:"type:uuid"                                      json:"recipient_id,omitempty"`
	AssignedRequestID *string        `gorm:"type:uuid;uniqueIndex"                          json:"assigned_request_id,omitempty"`
	Type              DonationType   `gorm:"type:varchar(20);not null"                      json:"type"`
	Quantity          int            `gorm:"not null"                                       json:"quantity"`
	Status            DonationStatus `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	Description       string         `gorm:"type:text"                                      json:"description,omitempty"`
	VersionedModel

	Donor     *User `gorm:"foreignKey:DonorID;references:UserID"     json:"donor,omitempty"`
	Foodbank  *User `gorm:"foreignKey:FoodbankID;references:UserID"  json:"foodbank,omitempty"`
	Recipient *User `gorm:"foreignKey:RecipientID;references:UserID" json:"recipient,omitempty"`
}

func (Donation) TableName() string { return "donations" }

// HasFoodbank reports whether a foodbank has been assigned.
func (d *Donation) HasFoodbank() bool {
	return d.FoodbankID != nil && *d.FoodbankID != ""
}
