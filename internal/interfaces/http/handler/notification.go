package handler

import (
	"github.com/gin-gonic/gin"
	notificationapp "github.com/rwbiz/backend/internal/application/notification"
)

// NotificationHandler serves the caller's in-app notifications
type NotificationHandler struct {
	BaseHandler
	notificationService *notificationapp.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *notificationapp.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// List godoc
// @ID           listNotifications
// @Summary      List my notifications
// @Tags         notifications
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        unread_only query bool false "Only unread"
// @Success      200 {object} APIResponse[[]notificationapp.NotificationResponse]
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req notificationapp.ListNotificationsRequest
	if !h.bindQuery(c, &req) {
		return
	}

	items, total, err := h.notificationService.List(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, "Notifications retrieved", items, total, req.Page, req.PageSize)
}

// UnreadCount godoc
// @ID           countUnreadNotifications
// @Summary      Count unread notifications
// @Tags         notifications
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Success      200 {object} APIResponse[notificationapp.UnreadCountResponse]
// @Security     BearerAuth
// @Router       /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}

	count, err := h.notificationService.UnreadCount(c.Request.Context(), a)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Unread count retrieved", count)
}

// MarkRead godoc
// @ID           markNotificationRead
// @Summary      Mark a notification read
// @Tags         notifications
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Notification ID" format(uuid)
// @Success      200 {object} APIResponse[notificationapp.NotificationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "notification")
	if !ok {
		return
	}

	n, err := h.notificationService.MarkRead(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Notification marked read", n)
}

// MarkAllRead godoc
// @ID           markAllNotificationsRead
// @Summary      Mark all notifications read
// @Tags         notifications
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Success      200 {object} APIResponse[notificationapp.MarkAllReadResponse]
// @Security     BearerAuth
// @Router       /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}

	result, err := h.notificationService.MarkAllRead(c.Request.Context(), a)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Notifications marked read", result)
}

// Delete godoc
// @ID           deleteNotification
// @Summary      Delete a notification
// @Tags         notifications
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Notification ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "notification")
	if !ok {
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), a, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
