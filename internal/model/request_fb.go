package model

// RequestFB is a recipient asking a foodbank for goods. Maps to requests_fb.
type RequestFB struct {
	RequestFBID        string          `gorm:"column:request_fb_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"request_fb_id"`
	FoodbankID         *string         `gorm:"type:uuid;index"                                json:"foodbank_id,omitempty"`
	RecipientID        string          `gorm:"type:uuid;not null;index"                       json:"recipient_id"`
	Type               DonationType    `gorm:"type:varchar(20);not null"                      json:"type"`
	Quantity           int             `gorm:"not null"                                       json:"quantity"`
	Status             RequestFBStatus `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	Description        string          `gorm:"type:text"                                      json:"description,omitempty"`
	AssignedDonationID *string         `gorm:"type:uuid"                                      json:"assigned_donation_id,omitempty"`
	VersionedModel

	Foodbank  *User `gorm:"foreignKey:FoodbankID;references:UserID"  json:"foodbank,omitempty"`
	Recipient *User `gorm:"foreignKey:RecipientID;references:UserID" json:"recipient,omitempty"`
}

func (RequestFB) TableName() string { return "requests_fb" }
