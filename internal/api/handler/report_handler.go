package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/servicehub/marketplace/internal/core/ports"
)

type ReportHandler struct {
	service ports.ReportService
}

func NewReportHandler(service ports.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Create handles POST /api/reports.
//
// @Summary      Report a user
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createReportRequest  true  "Report"
// @Success      201   {object}  reportResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /api/reports [post]
func (h *ReportHandler) Create(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req createReportRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	r, err := h.service.Create(c.Request().Context(), id, req.ReportedUserID, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toReportResponse(r))
}

// List handles GET /api/reports. Admin only.
//
// @Summary      List reports
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "pending, reviewed or resolved"
// @Success      200     {array}   reportResponse
// @Failure      400     {object}  messageResponse
// @Failure      403     {object}  messageResponse
// @Router       /api/reports [get]
func (h *ReportHandler) List(c echo.Context) error {
	reports, err := h.service.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapSlice(reports, toReportResponse))
}

// UpdateStatus handles PUT /api/reports/:id/status. Admin only.
//
// @Summary      Move a report through moderation
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Report id"
// @Param        body  body      reportStatusRequest  true  "New status"
// @Success      200   {object}  reportResponse
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /api/reports/{id}/status [put]
func (h *ReportHandler) UpdateStatus(c echo.Context) error {
	var req reportStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	r, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReportResponse(r))
}
