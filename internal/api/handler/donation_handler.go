package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ygyuri/foodbank-management-system/internal/dto"
	"github.com/ygyuri/foodbank-management-system/internal/model"
	"github.com/ygyuri/foodbank-management-system/internal/service"
	"github.com/ygyuri/foodbank-management-system/pkg/response"
)

// DonationHandler donation CRUD and status transitions.
type DonationHandler struct {
	donationSvc service.DonationService
}

func NewDonationHandler(donationSvc service.DonationService) *DonationHandler {
	return &DonationHandler{donationSvc: donationSvc}
}

// ListDonations scoped to the caller's role.
// GET /api/v1/donations
func (h *DonationHandler) ListDonations(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.DonationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badParams(c, err)
		return
	}

	list, total, err := h.donationSvc.List(c.Request.Context(), actor, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetDonation
// GET /api/v1/donations/:id
func (h *DonationHandler) GetDonation(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	d, err := h.donationSvc.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, d)
}

// CreateDonation
// POST /api/v1/donations
func (h *DonationHandler) CreateDonation(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}

	d, err := h.donationSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, d)
}

// UpdateDonation
// PUT /api/v1/donations/:id
func (h *DonationHandler) UpdateDonation(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}

	d, err := h.donationSvc.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, d)
}

// DeleteDonation
// DELETE /api/v1/donations/:id
func (h *DonationHandler) DeleteDonation(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.donationSvc.Delete(c.Request.Context(), actor, id); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// AssignFoodbank
// POST /api/v1/donations/:id/assign-foodbank/:foodbank_id
func (h *DonationHandler) AssignFoodbank(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	foodbankID, ok := uuidParam(c, "foodbank_id")
	if !ok {
		return
	}

	d, err := h.donationSvc.AssignFoodbank(c.Request.Context(), actor, id, foodbankID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, d)
}

// UpdateDonationStatus
// POST /api/v1/donations/:id/status
func (h *DonationHandler) UpdateDonationStatus(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateDonationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}

	d, err := h.donationSvc.UpdateStatus(c.Request.Context(), actor, id, model.DonationStatus(req.Status))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, d)
}

// CompleteDonation
// POST /api/v1/donations/:id/complete
func (h *DonationHandler) CompleteDonation(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	d, err := h.donationSvc.Complete(c.Request.Context(), actor, id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, d)
}
