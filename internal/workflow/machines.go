package workflow

import (
	"github.com/ygyuri/foodbank-management-system/internal/model"
	"github.com/ygyuri/foodbank-management-system/internal/permission"
)

// UserMachine approval of non-admin accounts.
var UserMachine = &Machine[model.UserStatus]{
	subject: permission.SubjectUser,
	initial: model.UserPending,
	states:  []model.UserStatus{model.UserPending, model.UserApproved, model.UserRejected},
	edges: []Edge[model.UserStatus]{
		{Action: permission.ActionApprove, From: []model.UserStatus{model.UserPending}, To: model.UserApproved},
		{Action: permission.ActionReject, From: []model.UserStatus{model.UserPending}, To: model.UserRejected},
		{Action: permission.ActionReset, From: []model.UserStatus{model.UserApproved, model.UserRejected}, To: model.UserPending},
	},
}

// DonationMachine donation lifecycle. update_status, approve and reject accept any
// source state; the completion and assignment edges are guarded.
var DonationMachine = &Machine[model.DonationStatus]{
	subject: permission.SubjectDonation,
	initial: model.DonationPending,
	states: []model.DonationStatus{
		model.DonationPending, model.DonationAssigned, model.DonationDelivered,
		model.DonationApproved, model.DonationRejected, model.DonationCompleted,
	},
	terminal: map[model.DonationStatus]bool{model.DonationCompleted: true},
	edges: []Edge[model.DonationStatus]{
		{Action: permission.ActionAssignFoodbank, From: []model.DonationStatus{model.DonationPending}, To: model.DonationAssigned},

		{Action: permission.ActionUpdateStatus, To: model.DonationPending},
		{Action: permission.ActionUpdateStatus, To: model.DonationAssigned},
		{Action: permission.ActionUpdateStatus, To: model.DonationCompleted},
		{Action: permission.ActionApprove, To: model.DonationApproved},
		{Action: permission.ActionReject, To: model.DonationRejected},

		{Action: permission.ActionDeliver, From: []model.DonationStatus{model.DonationAssigned}, To: model.DonationDelivered},

		{Action: permission.ActionComplete, From: []model.DonationStatus{
			model.DonationPending, model.DonationAssigned, model.DonationDelivered,
			model.DonationApproved, model.DonationRejected,
		}, To: model.DonationCompleted},
	},
	strict: map[permission.Action]bool{
		permission.ActionComplete:       true,
		permission.ActionAssignFoodbank: true,
	},
}

// DonationRequestMachine single decision, terminal afterwards.
var DonationRequestMachine = &Machine[model.DonationRequestStatus]{
	subject: permission.SubjectDonationRequest,
	initial: model.DonationRequestPending,
	states: []model.DonationRequestStatus{
		model.DonationRequestPending, model.DonationRequestApproved, model.DonationRequestRejected,
	},
	terminal: map[model.DonationRequestStatus]bool{
		model.DonationRequestApproved: true,
		model.DonationRequestRejected: true,
	},
	edges: []Edge[model.DonationRequestStatus]{
		{Action: permission.ActionApprove, From: []model.DonationRequestStatus{model.DonationRequestPending}, To: model.DonationRequestApproved},
		{Action: permission.ActionReject, From: []model.DonationRequestStatus{model.DonationRequestPending}, To: model.DonationRequestRejected},
	},
}

// RequestFBMachine recipient request lifecycle. fulfilled is only reachable through
// the donation assignment.
var RequestFBMachine = &Machine[model.RequestFBStatus]{
	subject: permission.SubjectRequestFB,
	initial: model.RequestFBPending,
	states: []model.RequestFBStatus{
		model.RequestFBPending, model.RequestFBApproved, model.RequestFBRejected, model.RequestFBFulfilled,
	},
	terminal: map[model.RequestFBStatus]bool{model.RequestFBFulfilled: true},
	edges: []Edge[model.RequestFBStatus]{
		{Action: permission.ActionApprove, From: []model.RequestFBStatus{model.RequestFBPending}, To: model.RequestFBApproved},
		{Action: permission.ActionReject, From: []model.RequestFBStatus{model.RequestFBPending}, To: model.RequestFBRejected},
		{Action: permission.ActionUpdateStatus, From: []model.RequestFBStatus{model.RequestFBPending}, To: model.RequestFBPending},
		{Action: permission.ActionFulfill, From: []model.RequestFBStatus{model.RequestFBPending}, To: model.RequestFBFulfilled},
	},
	strict: map[permission.Action]bool{permission.ActionFulfill: true},
}
