package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/servicehub/marketplace/internal/core/domain"
	"github.com/servicehub/marketplace/internal/core/ports"
)

// HeaderTotalCount carries the number of services matching a list query.
const HeaderTotalCount = "X-Total-Count"

// ServiceHandler handles HTTP requests for posted services.
type ServiceHandler struct {
	service ports.CatalogService
}

func NewServiceHandler(service ports.CatalogService) *ServiceHandler {
	return &ServiceHandler{service: service}
}

// List handles GET /api/services.
//
// @Summary      List services
// @Description  Newest first. The total match count is returned in X-Total-Count.
// @Tags         services
// @Produce      json
// @Param        search    query     string  false  "Case-insensitive match on title or description"
// @Param        category  query     string  false  "Exact category name"
// @Param        location  query     string  false  "Case-insensitive partial location"
// @Param        status    query     string  false  "open, in_progress or closed"
// @Param        ownerId   query     string  false  "Owner user id"
// @Param        minPrice  query     number  false  "Minimum price"
// @Param        maxPrice  query     number  false  "Maximum price"
// @Param        limit     query     int     false  "Page size (default 50, max 200)"
// @Param        offset    query     int     false  "Items to skip"
// @Success      200       {array}   serviceResponse
// @Failure      400       {object}  messageResponse
// @Failure      500       {object}  messageResponse
// @Router       /api/services [get]
func (h *ServiceHandler) List(c echo.Context) error {
	filter, err := parseServiceFilter(c)
	if err != nil {
		return err
	}

	res, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	c.Response().Header().Set(HeaderTotalCount, strconv.FormatInt(res.Total, 10))
	return c.JSON(http.StatusOK, mapSlice(res.Items, toServiceResponse))
}

func parseServiceFilter(c echo.Context) (ports.ServiceFilter, error) {
	f := ports.ServiceFilter{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
		Location: c.QueryParam("location"),
		Status:   domain.ServiceStatus(c.QueryParam("status")),
		OwnerID:  c.QueryParam("ownerId"),
	}

	var err error
	if f.MinPrice, err = floatParam(c, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = floatParam(c, "maxPrice"); err != nil {
		return f, err
	}
	if f.Limit, err = intParam(c, "limit"); err != nil {
		return f, err
	}
	if f.Offset, err = intParam(c, "offset"); err != nil {
		return f, err
	}
	return f, nil
}

func floatParam(c echo.Context, name string) (*float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be a number")
	}
	return &v, nil
}

func intParam(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a non-negative integer")
	}
	return v, nil
}

// Get handles GET /api/services/:id.
//
// @Summary      Get a service
// @Tags         services
// @Produce      json
// @Param        id   path      string  true  "Service id"
// @Success      200  {object}  serviceResponse
// @Failure      404  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /api/services/{id} [get]
func (h *ServiceHandler) Get(c echo.Context) error {
	svc, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toServiceResponse(svc))
}

// Create handles POST /api/services.
//
// @Summary      Post a service
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createServiceRequest  true  "Service details"
// @Success      201   {object}  serviceResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/services [post]
func (h *ServiceHandler) Create(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req createServiceRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	svc, err := h.service.Create(c.Request().Context(), id, toCreateServiceInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toServiceResponse(svc))
}

// Update handles PUT /api/services/:id.
//
// @Summary      Update a service
// @Description  Partial update. Status changes follow open → in_progress → closed.
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Service id"
// @Param        body  body      updateServiceRequest  true  "Fields to change"
// @Success      200   {object}  serviceResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/services/{id} [put]
func (h *ServiceHandler) Update(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req updateServiceRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	svc, err := h.service.Update(c.Request().Context(), id, c.Param("id"), toUpdateServiceInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toServiceResponse(svc))
}

// Delete handles DELETE /api/services/:id.
//
// @Summary      Delete a service
// @Description  Also removes the service's applications and reviews.
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Service id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /api/services/{id} [delete]
func (h *ServiceHandler) Delete(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Service deleted"})
}
