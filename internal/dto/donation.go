package dto

// ── donations ──

// CreateDonationRequest DonorID is required when an admin creates on a donor's behalf.
type CreateDonationRequest struct {
	DonorID     string  `json:"donor_id"     binding:"omitempty,uuid"`
	FoodbankID  *string `json:"foodbank_id"  binding:"omitempty,uuid"`
	RecipientID *string `json:"recipient_id" binding:"omitempty,uuid"`
	Type        string  `json:"type"         binding:"required,donation_type"`
	Quantity    int     `json:"quantity"     binding:"required,min=1"`
	Description string  `json:"description"  binding:"omitempty,max=5000"`
}

type UpdateDonationRequest struct {
	Type        *string `json:"type"         binding:"omitempty,donation_type"`
	Quantity    *int    `json:"quantity"     binding:"omitempty,min=1"`
	Description *string `json:"description"  binding:"omitempty,max=5000"`
	RecipientID *string `json:"recipient_id" binding:"omitempty,uuid"`
	Status      *string `json:"status"       binding:"omitempty,oneof=pending assigned delivered"`
}

type DonationListRequest struct {
	PaginationRequest
	Type        string `form:"type"         binding:"omitempty,donation_type"`
	Status      string `form:"status"       binding:"omitempty,donation_status"`
	DonorID     string `form:"donor_id"     binding:"omitempty,uuid"`
	FoodbankID  string `form:"foodbank_id"  binding:"omitempty,uuid"`
	RecipientID string `form:"recipient_id" binding:"omitempty,uuid"`
}

type UpdateDonationStatusRequest struct {
	Status string `json:"status" binding:"required,donation_status"`
}

// ── donation requests ──

// CreateDonationRequestRequest FoodbankID is required when an admin creates one.
type CreateDonationRequestRequest struct {
	FoodbankID  string `json:"foodbank_id" binding:"omitempty,uuid"`
	DonorID     string `json:"donor_id"    binding:"required,uuid"`
	Type        string `json:"type"        binding:"required,donation_type"`
	Quantity    int    `json:"quantity"    binding:"required,min=1"`
	Description string `json:"description" binding:"omitempty,max=5000"`
}

type UpdateDonationRequestRequest struct {
	DonorID     *string `json:"donor_id"    binding:"omitempty,uuid"`
	Type        *string `json:"type"        binding:"omitempty,donation_type"`
	Quantity    *int    `json:"quantity"    binding:"omitempty,min=1"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
}

type DonationRequestListRequest struct {
	PaginationRequest
	Status   string `form:"status"   binding:"omitempty,oneof=pending approved rejected"`
	Type     string `form:"type"     binding:"omitempty,donation_type"`
	DonorID  string `form:"donor_id" binding:"omitempty,uuid"`
	SortBy   string `form:"sort_by"  binding:"omitempty,oneof=created_at quantity"`
	SortDesc bool   `form:"desc"`
}

type UpdateDonationRequestStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved rejected"`
}

// ── recipient requests ──

// CreateRequestFBRequest RecipientID is required when an admin creates one.
type CreateRequestFBRequest struct {
	RecipientID string  `json:"recipient_id" binding:"omitempty,uuid"`
	FoodbankID  *string `json:"foodbank_id"  binding:"omitempty,uuid"`
	Type        string  `json:"type"         binding:"required,donation_type"`
	Quantity    int     `json:"quantity"     binding:"required,min=1"`
	Description string  `json:"description"  binding:"omitempty,max=5000"`
}

type UpdateRequestFBRequest struct {
	Type     *string `json:"type"     binding:"omitempty,donation_type"`
	Quantity *int    `json:"quantity" binding:"omitempty,min=1"`
}

type RequestFBListRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected fulfilled"`
	Type   string `form:"type"   binding:"omitempty,donation_type"`
}

type UpdateRequestFBStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved rejected"`
}
