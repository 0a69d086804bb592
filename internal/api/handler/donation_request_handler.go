package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ygyuri/foodbank-management-system/internal/dto"
	"github.com/ygyuri/foodbank-management-system/internal/model"
	"github.com/ygyuri/foodbank-management-system/internal/service"
	"github.com/ygyuri/foodbank-management-system/pkg/response"
)

// DonationRequestHandler foodbank requests addressed to donors.
type DonationRequestHandler struct {
	svc service.DonationRequestService
}

func NewDonationRequestHandler(svc service.DonationRequestService) *DonationRequestHandler {
	return &DonationRequestHandler{svc: svc}
}

// ListDonationRequests
// GET /api/v1/donation-requests
func (h *DonationRequestHandler) ListDonationRequests(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.DonationRequestListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badParams(c, err)
		return
	}

	list, total, err := h.svc.List(c.Request.Context(), actor, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetDonationRequest
// GET /api/v1/donation-requests/:id
func (h *DonationRequestHandler) GetDonationRequest(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	r, err := h.svc.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, r)
}

// CreateDonationRequest
// POST /api/v1/donation-requests
func (h *DonationRequestHandler) CreateDonationRequest(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.CreateDonationRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}

	r, err := h.svc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, r)
}

// UpdateDonationRequest
// PUT /api/v1/donation-requests/:id
func (h *DonationRequestHandler) UpdateDonationRequest(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateDonationRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}

	r, err := h.svc.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, r)
}

// DeleteDonationRequest
// DELETE /api/v1/donation-requests/:id
func (h *DonationRequestHandler) DeleteDonationRequest(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), actor, id); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// UpdateDonationRequestStatus approve or reject.
// PUT /api/v1/donation-requests/:id/status
func (h *DonationRequestHandler) UpdateDonationRequestStatus(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateDonationRequestStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}

	r, err := h.svc.UpdateStatus(c.Request.Context(), actor, id, model.DonationRequestStatus(req.Status))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, r)
}
