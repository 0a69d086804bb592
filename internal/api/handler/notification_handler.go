package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ygyuri/foodbank-management-system/internal/dto"
	"github.com/ygyuri/foodbank-management-system/internal/service"
	"github.com/ygyuri/foodbank-management-system/pkg/response"
)

// Streamer upgrades a request to a push connection for userID. Implemented by
// *realtime.Hub.
type Streamer interface {
	Serve(w http.ResponseWriter, r *http.Request, userID string) error
}

// NotificationHandler in-app inbox and its live channel.
type NotificationHandler struct {
	svc    service.NotificationService
	stream Streamer
}

func NewNotificationHandler(svc service.NotificationService, stream Streamer) *NotificationHandler {
	return &NotificationHandler{svc: svc, stream: stream}
}

// ListNotifications the caller's own inbox.
// GET /api/v1/notifications
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.NotificationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badParams(c, err)
		return
	}

	list, total, err := h.svc.ListOwn(c.Request.Context(), actor, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ListAllNotifications admin view across users.
// GET /api/v1/notifications/admin
func (h *NotificationHandler) ListAllNotifications(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.NotificationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badParams(c, err)
		return
	}

	list, total, err := h.svc.ListAll(c.Request.Context(), actor, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// MarkRead
// POST /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	n, err := h.svc.MarkRead(c.Request.Context(), actor, id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, n)
}

// MarkAllRead
// POST /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	count, err := h.svc.MarkAllRead(c.Request.Context(), actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, gin.H{"marked": count})
}

// Stream websocket carrying new notifications as they are stored.
// GET /api/v1/notifications/ws
func (h *NotificationHandler) Stream(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	if h.stream == nil {
		response.Error(c, http.StatusServiceUnavailable, 50301, "live notifications are disabled")
		return
	}

	// the upgrader has already answered the client when this fails
	if err := h.stream.Serve(c.Writer, c.Request, userID); err != nil {
		_ = c.Error(err)
	}
}
