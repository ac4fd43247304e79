package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/servicehub/marketplace/internal/core/ports"
	"github.com/servicehub/marketplace/pkg/logger"
)

// StreamServer upgrades a request into a live notification stream.
type StreamServer interface {
	Serve(w http.ResponseWriter, r *http.Request, userID string) error
}

type NotificationHandler struct {
	service ports.NotificationService
	stream  StreamServer
}

func NewNotificationHandler(service ports.NotificationService, stream StreamServer) *NotificationHandler {
	return &NotificationHandler{service: service, stream: stream}
}

// List handles GET /api/notifications.
//
// @Summary      List my notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  notificationListResponse
// @Failure      401  {object}  messageResponse
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	items, unread, err := h.service.List(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notificationListResponse{
		Items:       mapSlice(items, toNotificationResponse),
		UnreadCount: unread,
	})
}

// MarkRead handles PUT /api/notifications/:id/read.
//
// @Summary      Mark a notification read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Notification id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	if err := h.service.MarkRead(c.Request().Context(), id, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Notification marked as read"})
}

// MarkAllRead handles PUT /api/notifications/read-all.
//
// @Summary      Mark all notifications read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  markAllReadResponse
// @Failure      401  {object}  messageResponse
// @Router       /api/notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	n, err := h.service.MarkAllRead(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, markAllReadResponse{Message: "All notifications marked as read", Updated: n})
}

// Stream handles GET /api/notifications/stream.
//
// @Summary      Live notification stream
// @Description  Websocket. Browsers pass the token as ?token= since they cannot set headers on upgrade.
// @Tags         notifications
// @Security     BearerAuth
// @Param        token  query  string  false  "Bearer token"
// @Success      101
// @Failure      401  {object}  messageResponse
// @Router       /api/notifications/stream [get]
func (h *NotificationHandler) Stream(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	// the upgrader has already answered the client when Serve fails
	if err := h.stream.Serve(c.Response(), c.Request(), id.UserID); err != nil {
		log := logger.FromContext(c.Request().Context())
		log.Debug().Err(err).Msg("websocket upgrade failed")
	}
	return nil
}
