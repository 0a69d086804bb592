package dto

import (
	"time"
)

// ── auth ──

type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // seconds
	User         UserResponse `json:"user"`
}

// ── users ──

type UserResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	Role             string  `json:"role"`
	Status           string  `json:"status"`
	Sex              string  `json:"sex,omitempty"`
	Birthday         *string `json:"birthday,omitempty"`
	Description      string  `json:"description,omitempty"`
	Phone            string  `json:"phone,omitempty"`
	Location         string  `json:"location,omitempty"`
	Address          string  `json:"address,omitempty"`
	OrganizationName string  `json:"organization_name,omitempty"`
	RecipientType    string  `json:"recipient_type,omitempty"`
	DonorType        string  `json:"donor_type,omitempty"`
	Notes            string  `json:"notes,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

// UserBrief embedded in other responses.
type UserBrief struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	OrganizationName string `json:"organization_name,omitempty"`
}

// ── donations ──

type DonationResponse struct {
	ID                string     `json:"id"`
	DonorID           string     `json:"donor_id"`
	FoodbankID        *string    `json:"foodbank_id"`
	RecipientID       *string    `json:"recipient_id"`
	AssignedRequestID *string    `json:"assigned_request_id"`
	Type              string     `json:"type"`
	Quantity          int        `json:"quantity"`
	Status            string     `json:"status"`
	Description       string     `json:"description,omitempty"`
	Version           int        `json:"version"`
	Donor             *UserBrief `json:"donor,omitempty"`
	Foodbank          *UserBrief `json:"foodbank,omitempty"`
	Recipient         *UserBrief `json:"recipient,omitempty"`
	CreatedAt         string     `json:"created_at"`
	UpdatedAt         string     `json:"updated_at"`
}

type DonationRequestResponse struct {
	ID          string     `json:"id"`
	FoodbankID  string     `json:"foodbank_id"`
	DonorID     string     `json:"donor_id"`
	Type        string     `json:"type"`
	Quantity    int        `json:"quantity"`
	Status      string     `json:"status"`
	Description string     `json:"description,omitempty"`
	CreatedBy   *string    `json:"created_by,omitempty"`
	ApprovedBy  *string    `json:"approved_by,omitempty"`
	ApprovedAt  *string    `json:"approved_at,omitempty"`
	Version     int        `json:"version"`
	Foodbank    *UserBrief `json:"foodbank,omitempty"`
	Donor       *UserBrief `json:"donor,omitempty"`
	CreatedAt   string     `json:"created_at"`
	UpdatedAt   string     `json:"updated_at"`
}

type RequestFBResponse struct {
	ID                 string     `json:"id"`
	FoodbankID         *string    `json:"foodbank_id"`
	RecipientID        string     `json:"recipient_id"`
	Type               string     `json:"type"`
	Quantity           int        `json:"quantity"`
	Status             string     `json:"status"`
	Description        string     `json:"description,omitempty"`
	AssignedDonationID *string    `json:"assigned_donation_id"`
	Version            int        `json:"version"`
	Foodbank           *UserBrief `json:"foodbank,omitempty"`
	Recipient          *UserBrief `json:"recipient,omitempty"`
	CreatedAt          string     `json:"created_at"`
	UpdatedAt          string     `json:"updated_at"`
}

// FulfillmentResponse both rows after a fulfillment commit.
type FulfillmentResponse struct {
	Request  RequestFBResponse `json:"request"`
	Donation DonationResponse  `json:"donation"`
}

// ── feedback ──

type FeedbackResponse struct {
	ID           string     `json:"id"`
	SenderID     string     `json:"sender_id"`
	ReceiverID   string     `json:"receiver_id"`
	ThankYouNote string     `json:"thank_you_note,omitempty"`
	Rating       int        `json:"rating"`
	Message      string     `json:"message,omitempty"`
	Type         string     `json:"type"`
	Reference    string     `json:"reference,omitempty"`
	Sender       *UserBrief `json:"sender,omitempty"`
	Receiver     *UserBrief `json:"receiver,omitempty"`
	CreatedAt    string     `json:"created_at"`
}

// ── subscriptions ──

type SubscriptionResponse struct {
	ID                 string     `json:"id"`
	FoodbankID         string     `json:"foodbank_id"`
	Status             string     `json:"status"`
	TrialEndsAt        *string    `json:"trial_ends_at,omitempty"`
	SubscriptionEndsAt *string    `json:"subscription_ends_at,omitempty"`
	MonthlyFee         float64    `json:"monthly_fee"`
	Foodbank           *UserBrief `json:"foodbank,omitempty"`
	CreatedAt          string     `json:"created_at"`
}

// ── notifications ──

type NotificationResponse struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	Type        string      `json:"type"`
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	Data        interface{} `json:"data,omitempty"`
	RelatedType *string     `json:"related_type,omitempty"`
	RelatedID   *string     `json:"related_id,omitempty"`
	ReadAt      *string     `json:"read_at,omitempty"`
	CreatedAt   string      `json:"created_at"`
}

// ── reports ──

type CountEntry struct {
	Key      string `json:"key"`
	Count    int64  `json:"count"`
	Quantity int64  `json:"quantity,omitempty"`
}

type TrendPoint struct {
	Period   string `json:"period"`
	Total    int64  `json:"total"`
	Approved int64  `json:"approved"`
	Pending  int64  `json:"pending"`
	Rejected int64  `json:"rejected"`
}

type OverviewResponse struct {
	UsersByRole        []CountEntry `json:"users_by_role"`
	DonationsByStatus  []CountEntry `json:"donations_by_status"`
	DonationsByType    []CountEntry `json:"donations_by_type"`
	RequestsFBByStatus []CountEntry `json:"requests_fb_by_status"`
	LastSevenDays      []TrendPoint `json:"last_seven_days"`
}

type FoodbankStats struct {
	UserID               string `json:"user_id"`
	Name                 string `json:"name"`
	Email                string `json:"email"`
	TotalRequests        int64  `json:"total_requests"`
	TotalDonations       int64  `json:"total_donations"`
	DonationsReceived    int64  `json:"donations_received"`
	DonationsDistributed int64  `json:"donations_distributed"`
}

type DonorStats struct {
	UserID             string `json:"user_id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	TotalDonations     int64  `json:"total_donations"`
	TotalQuantity      int64  `json:"total_quantity"`
	CompletedDonations int64  `json:"completed_donations"`
}

// RecipientStats rates are percentages with two decimals.
type RecipientStats struct {
	UserID          string  `json:"user_id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	TotalRequests   int64   `json:"total_requests"`
	Pending         int64   `json:"total_pending_requests"`
	Approved        int64   `json:"total_approved_requests"`
	Rejected        int64   `json:"total_rejected_requests"`
	Fulfilled       int64   `json:"total_fulfilled_requests"`
	ApprovalRate    float64 `json:"approval_rate"`
	FulfillmentRate float64 `json:"fulfillment_rate"`
}

// ── paging ──

type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// ── formatting ──

const dateLayout = "2006-01-02"

// FormatTime RFC 3339 in UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func FormatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatTime(*t)
	return &s
}

func FormatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
