package dto

// ── auth ──

type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest self-registration. Admin accounts are created through fbctl.
type RegisterRequest struct {
	Name             string  `json:"name"              binding:"required,min=2,max=100"`
	Email            string  `json:"email"             binding:"required,email,max=255"`
	Password         string  `json:"password"          binding:"required,min=8,max=72"`
	Role             string  `json:"role"              binding:"required,oneof=donor foodbank recipient"`
	Phone            string  `json:"phone"             binding:"omitempty,max=30"`
	Location         string  `json:"location"          binding:"omitempty,max=255"`
	Address          string  `json:"address"           binding:"omitempty,max=255"`
	OrganizationName string  `json:"organization_name" binding:"omitempty,max=255"`
	RecipientType    string  `json:"recipient_type"    binding:"omitempty,recipient_type"`
	DonorType        string  `json:"donor_type"        binding:"omitempty,max=50"`
	Description      string  `json:"description"       binding:"omitempty,max=5000"`
	Sex              string  `json:"sex"               binding:"omitempty,max=10"`
	Birthday         *string `json:"birthday"          binding:"omitempty,datetime=2006-01-02"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}
