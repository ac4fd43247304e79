package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/servicehub/marketplace/internal/core/ports"
)

type ReviewHandler struct {
	service ports.ReviewService
}

func NewReviewHandler(service ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// ListForService handles GET /api/reviews/service/:serviceId.
//
// @Summary      List a service's reviews
// @Tags         reviews
// @Produce      json
// @Param        serviceId  path      string  true  "Service id"
// @Success      200        {array}   reviewResponse
// @Failure      500        {object}  messageResponse
// @Router       /api/reviews/service/{serviceId} [get]
func (h *ReviewHandler) ListForService(c echo.Context) error {
	reviews, err := h.service.ListForService(c.Request().Context(), c.Param("serviceId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapSlice(reviews, toReviewResponse))
}

// Create handles POST /api/reviews.
//
// @Summary      Review a service
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createReviewRequest  true  "Review"
// @Success      201   {object}  reviewResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /api/reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req createReviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	review, err := h.service.Create(c.Request().Context(), id, ports.CreateReviewInput{
		ServiceID: req.ServiceID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toReviewResponse(review))
}

// Delete handles DELETE /api/reviews/:id.
//
// @Summary      Delete a review
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Review id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/reviews/{id} [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Review deleted"})
}

// Rating handles GET /api/users/:id/rating.
//
// @Summary      Average rating of a user's services
// @Tags         reviews
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  ratingResponse
// @Failure      500  {object}  messageResponse
// @Router       /api/users/{id}/rating [get]
func (h *ReviewHandler) Rating(c echo.Context) error {
	sum, err := h.service.RatingForUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ratingResponse{UserID: sum.UserID, Average: sum.Average, Count: sum.Count})
}
