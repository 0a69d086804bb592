package dto

// ── users ──

type UserListRequest struct {
	PaginationRequest
	Role    string `form:"role"    binding:"omitempty,user_role"`
	Status  string `form:"status"  binding:"omitempty,oneof=pending approved rejected"`
	Keyword string `form:"keyword" binding:"omitempty,max=100"`
}

// UpdateUserRequest nil fields are left unchanged.
type UpdateUserRequest struct {
	Name             *string `json:"name"              binding:"omitempty,min=2,max=100"`
	Email            *string `json:"email"             binding:"omitempty,email,max=255"`
	Password         *string `json:"password"          binding:"omitempty,min=8,max=72"`
	Sex              *string `json:"sex"               binding:"omitempty,max=10"`
	Birthday         *string `json:"birthday"          binding:"omitempty,datetime=2006-01-02"`
	Description      *string `json:"description"       binding:"omitempty,max=5000"`
	Phone            *string `json:"phone"             binding:"omitempty,max=30"`
	Location         *string `json:"location"          binding:"omitempty,max=255"`
	Address          *string `json:"address"           binding:"omitempty,max=255"`
	OrganizationName *string `json:"organization_name" binding:"omitempty,max=255"`
	RecipientType    *string `json:"recipient_type"    binding:"omitempty,recipient_type"`
	DonorType        *string `json:"donor_type"        binding:"omitempty,max=50"`
	Notes            *string `json:"notes"             binding:"omitempty,max=5000"`
}
