// Package notify turns committed workflow transitions into notifications.
//
// Building an Event is pure and happens in the caller right after commit. Delivering it
// (Dispatcher) is best effort: channel failures are logged and reported in the result,
// never returned as transition errors.
package notify

import (
	"strconv"

	"github.com/ygyuri/foodbank-management-system/internal/model"
	"github.com/ygyuri/foodbank-management-system/internal/permission"
)

// Kind names an event type in the routing table.
type Kind string

const (
	KindDonationCreated              Kind = "donation.created"
	KindDonationFoodbankAssigned     Kind = "donation.foodbank_assigned"
	KindDonationStatusChanged        Kind = "donation.status_changed"
	KindDonationCompleted            Kind = "donation.completed"
	KindDonationRequestCreated       Kind = "donation_request.created"
	KindDonationRequestStatusChanged Kind = "donation_request.status_changed"
	KindRequestFBCreated             Kind = "request_fb.created"
	KindRequestFBStatusChanged       Kind = "request_fb.status_changed"
	KindRequestFBFulfilled           Kind = "request_fb.fulfilled"
	KindFeedbackReceived             Kind = "feedback.received"
	KindUserStatusChanged            Kind = "user.status_changed"
)

// Audience is the counterpart a route addresses.
type Audience string

const (
	AudienceDonor     Audience = "donor"
	AudienceFoodbank  Audience = "foodbank"
	AudienceRecipient Audience = "recipient"
	AudienceReceiver  Audience = "receiver"
	AudienceUser      Audience = "user"
)

// Event a committed transition and who it concerns.
type Event struct {
	Kind       Kind
	Subject    permission.Subject
	SubjectID  string
	Status     string
	GoodsType  model.DonationType
	Quantity   int
	Rating     int
	Recipients map[Audience]string
	Data       map[string]any
}

// IsZero reports an event that should not be dispatched.
func (e Event) IsZero() bool { return e.Kind == "" }

func recipients(pairs ...any) map[Audience]string {
	out := make(map[Audience]string, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		a := pairs[i].(Audience)
		switch v := pairs[i+1].(type) {
		case string:
			if v != "" {
				out[a] = v
			}
		case *string:
			if v != nil && *v != "" {
				out[a] = *v
			}
		}
	}
	return out
}

// ── Donation ──

// DonationCreated informs the donor and, when already chosen, the foodbank.
func DonationCreated(d *model.Donation) Event {
	return Event{
		Kind:       KindDonationCreated,
		Subject:    permission.SubjectDonation,
		SubjectID:  d.DonationID,
		Status:     string(d.Status),
		GoodsType:  d.Type,
		Quantity:   d.Quantity,
		Recipients: recipients(AudienceDonor, d.DonorID, AudienceFoodbank, d.FoodbankID),
		Data:       map[string]any{"donation_id": d.DonationID, "type": d.Type, "quantity": d.Quantity},
	}
}

// DonationFoodbankAssigned informs the newly assigned foodbank.
func DonationFoodbankAssigned(d *model.Donation) Event {
	return Event{
		Kind:       KindDonationFoodbankAssigned,
		Subject:    permission.SubjectDonation,
		SubjectID:  d.DonationID,
		Status:     string(d.Status),
		GoodsType:  d.Type,
		Quantity:   d.Quantity,
		Recipients: recipients(AudienceFoodbank, d.FoodbankID),
		Data:       map[string]any{"donation_id": d.DonationID, "foodbank_id": permission.Deref(d.FoodbankID)},
	}
}

// DonationStatusChanged only produces an event when the status actually moved and a
// foodbank is attached; otherwise the zero Event is returned.
func DonationStatusChanged(d *model.Donation, previous model.DonationStatus) Event {
	if previous == d.Status || !d.HasFoodbank() {
		return Event{}
	}
	return Event{
		Kind:       KindDonationStatusChanged,
		Subject:    permission.SubjectDonation,
		SubjectID:  d.DonationID,
		Status:     string(d.Status),
		GoodsType:  d.Type,
		Quantity:   d.Quantity,
		Recipients: recipients(AudienceFoodbank, d.FoodbankID),
		Data:       map[string]any{"donation_id": d.DonationID, "status": d.Status},
	}
}

// DonationCompleted informs the donor.
func DonationCompleted(d *model.Donation) Event {
	return Event{
		Kind:       KindDonationCompleted,
		Subject:    permission.SubjectDonation,
		SubjectID:  d.DonationID,
		Status:     string(d.Status),
		GoodsType:  d.Type,
		Quantity:   d.Quantity,
		Recipients: recipients(AudienceDonor, d.DonorID),
		Data:       map[string]any{"donation_id": d.DonationID, "status": d.Status},
	}
}

// ── DonationRequest ──

func DonationRequestCreated(r *model.DonationRequest) Event {
	return Event{
		Kind:       KindDonationRequestCreated,
		Subject:    permission.SubjectDonationRequest,
		SubjectID:  r.DonationRequestID,
		Status:     string(r.Status),
		GoodsType:  r.Type,
		Quantity:   r.Quantity,
		Recipients: recipients(AudienceDonor, r.DonorID, AudienceFoodbank, r.FoodbankID),
		Data:       map[string]any{"donation_request_id": r.DonationRequestID, "type": r.Type, "quantity": r.Quantity},
	}
}

func DonationRequestStatusChanged(r *model.DonationRequest) Event {
	return Event{
		Kind:       KindDonationRequestStatusChanged,
		Subject:    permission.SubjectDonationRequest,
		SubjectID:  r.DonationRequestID,
		Status:     string(r.Status),
		GoodsType:  r.Type,
		Quantity:   r.Quantity,
		Recipients: recipients(AudienceFoodbank, r.FoodbankID, AudienceDonor, r.DonorID),
		Data: map[string]any{
			"donation_request_id": r.DonationRequestID,
			"status":              r.Status,
			"approved_by":         permission.Deref(r.ApprovedBy),
		},
	}
}

// ── RequestFB ──

func RequestFBCreated(r *model.RequestFB) Event {
	return Event{
		Kind:       KindRequestFBCreated,
		Subject:    permission.SubjectRequestFB,
		SubjectID:  r.RequestFBID,
		Status:     string(r.Status),
		GoodsType:  r.Type,
		Quantity:   r.Quantity,
		Recipients: recipients(AudienceRecipient, r.RecipientID, AudienceFoodbank, r.FoodbankID),
		Data:       map[string]any{"request_fb_id": r.RequestFBID, "type": r.Type, "quantity": r.Quantity},
	}
}

func RequestFBStatusChanged(r *model.RequestFB) Event {
	return Event{
		Kind:       KindRequestFBStatusChanged,
		Subject:    permission.SubjectRequestFB,
		SubjectID:  r.RequestFBID,
		Status:     string(r.Status),
		GoodsType:  r.Type,
		Quantity:   r.Quantity,
		Recipients: recipients(AudienceRecipient, r.RecipientID),
		Data:       map[string]any{"request_fb_id": r.RequestFBID, "status": r.Status},
	}
}

// RequestFBFulfilled informs the recipient and the donor whose donation was used.
func RequestFBFulfilled(r *model.RequestFB, d *model.Donation) Event {
	return Event{
		Kind:       KindRequestFBFulfilled,
		Subject:    permission.SubjectRequestFB,
		SubjectID:  r.RequestFBID,
		Status:     string(r.Status),
		GoodsType:  r.Type,
		Quantity:   r.Quantity,
		Recipients: recipients(AudienceRecipient, r.RecipientID, AudienceDonor, d.DonorID),
		Data: map[string]any{
			"request_fb_id": r.RequestFBID,
			"donation_id":   d.DonationID,
			"status":        r.Status,
		},
	}
}

// ── Feedback / User ──

func FeedbackReceived(f *model.Feedback) Event {
	return Event{
		Kind:       KindFeedbackReceived,
		Subject:    permission.SubjectFeedback,
		SubjectID:  f.FeedbackID,
		Rating:     f.Rating,
		Recipients: recipients(AudienceReceiver, f.ReceiverID),
		Data: map[string]any{
			"feedback_id": f.FeedbackID,
			"sender_id":   f.SenderID,
			"rating":      strconv.Itoa(f.Rating),
			"type":        f.Type,
		},
	}
}

// UserStatusChanged routes nowhere today; it exists so the routing table stays the one
// place that decides.
func UserStatusChanged(u *model.User) Event {
	return Event{
		Kind:       KindUserStatusChanged,
		Subject:    permission.SubjectUser,
		SubjectID:  u.UserID,
		Status:     string(u.Status),
		Recipients: recipients(AudienceUser, u.UserID),
	}
}
