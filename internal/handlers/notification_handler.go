package handlers

import (
	"net/http"

	"paneteria_admin/internal/services"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifications services.NotificationService
}

func NewNotificationHandler(notifications services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"notifications": h.notifications.List(),
		"unread":        h.notifications.UnreadCount(),
	})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if !h.notifications.MarkRead(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "read"})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	h.notifications.MarkAllRead()
	c.JSON(http.StatusOK, gin.H{"status": "read"})
}

func (h *NotificationHandler) Remove(c *gin.Context) {
	if !h.notifications.Remove(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

func (h *NotificationHandler) Clear(c *gin.Context) {
	h.notifications.Clear()
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
