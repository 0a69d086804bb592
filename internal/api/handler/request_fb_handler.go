package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ygyuri/foodbank-management-system/internal/dto"
	"github.com/ygyuri/foodbank-management-system/internal/model"
	"github.com/ygyuri/foodbank-management-system/internal/service"
	"github.com/ygyuri/foodbank-management-system/pkg/response"
)

// RequestFBHandler recipient requests and their fulfillment.
type RequestFBHandler struct {
	svc service.RequestFBService
}

func NewRequestFBHandler(svc service.RequestFBService) *RequestFBHandler {
	return &RequestFBHandler{svc: svc}
}

// ListRequests
// GET /api/v1/requests-fb
func (h *RequestFBHandler) ListRequests(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.RequestFBListRequest
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

// GetRequest
// GET /api/v1/requests-fb/:id
func (h *RequestFBHandler) GetRequest(c *gin.Context) {
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

// CreateRequest
// POST /api/v1/requests-fb
func (h *RequestFBHandler) CreateRequest(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.CreateRequestFBRequest
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

// UpdateRequest
// PUT /api/v1/requests-fb/:id
func (h *RequestFBHandler) UpdateRequest(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateRequestFBRequest
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

// DeleteRequest
// DELETE /api/v1/requests-fb/:id
func (h *RequestFBHandler) DeleteRequest(c *gin.Context) {
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

// UpdateRequestStatus
// PUT /api/v1/requests-fb/:id/status
func (h *RequestFBHandler) UpdateRequestStatus(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateRequestFBStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}

	r, err := h.svc.UpdateStatus(c.Request.Context(), actor, id, model.RequestFBStatus(req.Status))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, r)
}

// AssignDonation fulfills the request with the donation.
// POST /api/v1/requests-fb/:id/assign-donation/:donation_id
func (h *RequestFBHandler) AssignDonation(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	donationID, ok := uuidParam(c, "donation_id")
	if !ok {
		return
	}

	result, err := h.svc.FulfillWithDonation(c.Request.Context(), actor, id, donationID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}
