package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/ygyuri/foodbank-management-system/internal/dto"
	"github.com/ygyuri/foodbank-management-system/internal/service"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF  = "application/pdf"
	mimeICS  = "text/calendar; charset=utf-8"
)

// sendFile writes data as an attachment download.
func sendFile(c *gin.Context, contentType, filename string, data []byte) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, data)
}

// ExportHandler file downloads.
type ExportHandler struct {
	exportSvc service.ExportService
}

func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportDonations
// GET /api/v1/reports/donations/export?status=&type=&from=&to=
func (h *ExportHandler) ExportDonations(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.ExportDonationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badParams(c, err)
		return
	}

	buf, filename, err := h.exportSvc.ExportDonations(c.Request.Context(), actor, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	sendFile(c, mimeXLSX, filename, buf.Bytes())
}

// DonorStatement
// GET /api/v1/reports/donors/:id/statement
func (h *ExportHandler) DonorStatement(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.DonorStatement(c.Request.Context(), actor, id)
	if err != nil {
		handleError(c, err)
		return
	}

	sendFile(c, mimePDF, filename, buf.Bytes())
}
