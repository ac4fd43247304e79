package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/servicehub/marketplace/internal/core/ports"
)

// ApplicationHandler handles providers applying to services and owners
// deciding on them.
type ApplicationHandler struct {
	service ports.ApplicationService
}

func NewApplicationHandler(service ports.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

// Apply handles POST /api/services/:id/applications.
//
// @Summary      Apply to a service
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Service id"
// @Param        body  body      applyRequest  true  "Cover message"
// @Success      201   {object}  applicationResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /api/services/{id}/applications [post]
func (h *ApplicationHandler) Apply(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req applyRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	app, err := h.service.Apply(c.Request().Context(), id, c.Param("id"), req.Message)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toApplicationResponse(app))
}

// ListForService handles GET /api/services/:id/applications.
//
// @Summary      List applications to a service
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Service id"
// @Success      200  {array}   applicationResponse
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/services/{id}/applications [get]
func (h *ApplicationHandler) ListForService(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	apps, err := h.service.ListForService(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapSlice(apps, toApplicationResponse))
}

// ListMine handles GET /api/applications/mine.
//
// @Summary      List my applications
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   applicationResponse
// @Failure      401  {object}  messageResponse
// @Router       /api/applications/mine [get]
func (h *ApplicationHandler) ListMine(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	apps, err := h.service.ListMine(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapSlice(apps, toApplicationResponse))
}

// Decide handles PUT /api/applications/:id/status.
//
// @Summary      Accept or reject an application
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Application id"
// @Param        body  body      decideApplicationRequest  true  "Decision"
// @Success      200   {object}  applicationResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /api/applications/{id}/status [put]
func (h *ApplicationHandler) Decide(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req decideApplicationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	app, err := h.service.Decide(c.Request().Context(), id, c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toApplicationResponse(app))
}
