package model

// ── Roles ──

// Role is the single source of truth for what a user may do.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleDonor     Role = "donor"
	RoleFoodbank  Role = "foodbank"
	RoleRecipient Role = "recipient"
)

// Roles lists every role in a stable order.
var Roles = []Role{RoleAdmin, RoleDonor, RoleFoodbank, RoleRecipient}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDonor, RoleFoodbank, RoleRecipient:
		return true
	}
	return false
}

// ── User status ──

type UserStatus string

const (
	UserPending  UserStatus = "pending"
	UserApproved UserStatus = "approved"
	UserRejected UserStatus = "rejected"
)

func (s UserStatus) Valid() bool {
	switch s {
	case UserPending, UserApproved, UserRejected:
		return true
	}
	return false
}

// ── Donation status ──

type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationAssigned  DonationStatus = "assigned"
	DonationDelivered DonationStatus = "delivered"
	DonationApproved  DonationStatus = "approved"
	DonationRejected  DonationStatus = "rejected"
	DonationCompleted DonationStatus = "completed"
)

func (s DonationStatus) Valid() bool {
	switch s {
	case DonationPending, DonationAssigned, DonationDelivered,
		DonationApproved, DonationRejected, DonationCompleted:
		return true
	}
	return false
}

// ── Donation request status ──

type DonationRequestStatus string

const (
	DonationRequestPending  DonationRequestStatus = "pending"
	DonationRequestApproved DonationRequestStatus = "approved"
	DonationRequestRejected DonationRequestStatus = "rejected"
)

func (s DonationRequestStatus) Valid() bool {
	switch s {
	case DonationRequestPending, DonationRequestApproved, DonationRequestRejected:
		return true
	}
	return false
}

// ── Recipient request status ──

type RequestFBStatus string

const (
	RequestFBPending   RequestFBStatus = "pending"
	RequestFBApproved  RequestFBStatus = "approved"
	RequestFBRejected  RequestFBStatus = "rejected"
	RequestFBFulfilled RequestFBStatus = "fulfilled"
)

func (s RequestFBStatus) Valid() bool {
	switch s {
	case RequestFBPending, RequestFBApproved, RequestFBRejected, RequestFBFulfilled:
		return true
	}
	return false
}

// ── Goods type ──

// DonationType is shared by donations, donation requests and recipient requests.
type DonationType string

const (
	DonationTypeFood     DonationType = "food"
	DonationTypeClothing DonationType = "clothing"
	DonationTypeMoney    DonationType = "money"
)

func (t DonationType) Valid() bool {
	switch t {
	case DonationTypeFood, DonationTypeClothing, DonationTypeMoney:
		return true
	}
	return false
}

// ── Feedback ──

type FeedbackType string

const (
	FeedbackRequestFB       FeedbackType = "request_fb"
	FeedbackDonationRequest FeedbackType = "donation_request"
	FeedbackDonation        FeedbackType = "donation"
)

func (t FeedbackType) Valid() bool {
	switch t {
	case FeedbackRequestFB, FeedbackDonationRequest, FeedbackDonation:
		return true
	}
	return false
}

// ── Subscription ──

type SubscriptionStatus string

const (
	SubscriptionActive  SubscriptionStatus = "active"
	SubscriptionExpired SubscriptionStatus = "expired"
	SubscriptionTrial   SubscriptionStatus = "trial"
)

func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubscriptionActive, SubscriptionExpired, SubscriptionTrial:
		return true
	}
	return false
}

// ── Recipient type ──

type RecipientType string

const (
	RecipientIndividual   RecipientType = "individual"
	RecipientOrganization RecipientType = "organization"
)

func (t RecipientType) Valid() bool {
	switch t {
	case RecipientIndividual, RecipientOrganization:
		return true
	}
	return false
}
