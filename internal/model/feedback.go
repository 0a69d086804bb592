package model

// Feedback maps to feedback.
type Feedback struct {
	FeedbackID   string       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"feedback_id"`
	SenderID     string       `gorm:"type:uuid;not null;index"                       json:"sender_id"`
	ReceiverID   string       `gorm:"type:uuid;not null;index"                       json:"receiver_id"`
	ThankYouNote string       `gorm:"type:varchar(1000)"                             json:"thank_you_note,omitempty"`
	Rating       int          `gorm:"not null"                                       json:"rating"`
	Message      string       `gorm:"type:text"                                      json:"message,omitempty"`
	Type         FeedbackType `gorm:"type:varchar(30);not null"                      json:"type"`
	Reference    string       `gorm:"type:varchar(255)"                              json:"reference,omitempty"`
	SoftDeleteModel

	Sender   *User `gorm:"foreignKey:SenderID;references:UserID"   json:"sender,omitempty"`
	Receiver *User `gorm:"foreignKey:ReceiverID;references:UserID" json:"receiver,omitempty"`
}

func (Feedback) TableName() string { return "feedback" }
