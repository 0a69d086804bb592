package model

import "time"

// User maps to users.
type User struct {
	UserID           string        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name             string        `gorm:"type:varchar(100);not null"                     json:"name"`
	Email            string        `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash     string        `gorm:"type:varchar(255);not null"                     json:"-"`
	Role             Role          `gorm:"type:varchar(20);not null"                      json:"role"`
	Status           UserStatus    `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	Sex              string        `gorm:"type:varchar(10)"                               json:"sex,omitempty"`
	Birthday         *time.Time    `gorm:"type:date"                                      json:"birthday,omitempty"`
	Description      string        `gorm:"type:text"                                      json:"description,omitempty"`
	Phone            string        `gorm:"type:varchar(30)"                               json:"phone,omitempty"`
	Location         string        `gorm:"type:varchar(255)"                              json:"location,omitempty"`
	Address          string        `gorm:"type:varchar(255)"                              json:"address,omitempty"`
	OrganizationName string        `gorm:"type:varchar(255)"                              json:"organization_name,omitempty"`
	RecipientType    RecipientType `gorm:"type:varchar(20)"                               json:"recipient_type,omitempty"`
	DonorType        string        `gorm:"type:varchar(50)"                               json:"donor_type,omitempty"`
	Notes            string        `gorm:"type:text"                                      json:"notes,omitempty"`
	VersionedModel
}

// TableName overrides the gorm default.
func (User) TableName() string { return "users" }

// DisplayName organization name when set, otherwise the person's name.
func (u *User) DisplayName() string {
	if u.OrganizationName != "" {
		return u.OrganizationName
	}
	return u.Name
}
