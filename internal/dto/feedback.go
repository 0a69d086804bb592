package dto

type CreateFeedbackRequest struct {
	ReceiverID   string `json:"receiver_id"    binding:"required,uuid"`
	ThankYouNote string `json:"thank_you_note" binding:"omitempty,max=1000"`
	Rating       int    `json:"rating"         binding:"required,min=1,max=5"`
	Message      string `json:"message"        binding:"omitempty,max=5000"`
	Type         string `json:"type"           binding:"required,feedback_type"`
	Reference    string `json:"reference"      binding:"omitempty,max=255"`
}

type UpdateFeedbackRequest struct {
	ThankYouNote *string `json:"thank_you_note" binding:"omitempty,max=1000"`
	Rating       *int    `json:"rating"         binding:"omitempty,min=1,max=5"`
	Message      *string `json:"message"        binding:"omitempty,max=5000"`
	Reference    *string `json:"reference"      binding:"omitempty,max=255"`
}

type FeedbackListRequest struct {
	PaginationRequest
	Type string `form:"type" binding:"omitempty,feedback_type"`
}
