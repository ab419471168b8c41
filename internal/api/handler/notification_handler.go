package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ChhatbarPooja/crm-api/internal/core/ports"
)

// NotificationHandler handles HTTP requests for the actor's notifications.
type NotificationHandler struct {
	service ports.NotificationService
}

func NewNotificationHandler(service ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

type unreadCountResponse struct {
	Success bool  `json:"success"`
	Count   int64 `json:"count"`
}

// List handles GET /v1/notifications: the actor's notifications, newest
// first.
//
// @Summary      List the caller's notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page (default 1)"
// @Param        limit  query     int  false  "Page size (default 10)"
// @Success      200    {object}  dataEnvelope
// @Failure      401    {object}  errorEnvelope
// @Router       /v1/notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), actor, page, limit)
	if err != nil {
		return err
	}

	return respondPage(c, http.StatusOK, result.Items, len(result.Items), result.Page)
}

// UnreadCount handles GET /v1/notifications/unread.
//
// @Summary      Count the caller's unread notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  unreadCountResponse
// @Router       /v1/notifications/unread [get]
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	count, err := h.service.UnreadCount(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, unreadCountResponse{Success: true, Count: count})
}

// MarkRead handles PUT /v1/notifications/:id. Only the recipient may mark
// a notification read: absent id yields 404, someone else's notification 403.
//
// @Summary      Mark one notification read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Notification id"
// @Success      200  {object}  dataEnvelope
// @Failure      403  {object}  errorEnvelope
// @Failure      404  {object}  errorEnvelope
// @Router       /v1/notifications/{id} [put]
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	n, err := h.service.MarkRead(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, n)
}

// MarkAllRead handles PUT /v1/notifications/read-all.
//
// @Summary      Mark all of the caller's notifications read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageEnvelope
// @Router       /v1/notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.MarkAllRead(c.Request().Context(), actor); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "All notifications marked as read")
}
