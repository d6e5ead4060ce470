package handlers

import (
	"backend/models"
	"backend/repository"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListNotificationsHandler lists the actor's in-app notifications
// @Summary List notifications
// @Description List notifications for the acting user, newest first
// @Tags Notifications
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {array} models.Notification
// @Failure 401 {object} models.ErrorResponse
// @Router /api/notifications [get]
func ListNotificationsHandler(db *sql.DB, store repository.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}

		notifications, err := store.Notifications().ListByUser(c.Request.Context(), actor.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list notifications", Details: err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(notifications), "notifications": notifications})
	}
}

// MarkNotificationReadHandler marks a notification as read
// @Summary Mark notification read
// @Description Mark one of the acting user's notifications as read
// @Tags Notifications
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "Notification ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/notifications/{id}/read [put]
func MarkNotificationReadHandler(db *sql.DB, store repository.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		notifications, err := store.Notifications().ListByUser(c.Request.Context(), actor.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load notifications", Details: err.Error()})
			return
		}
		owned := false
		for _, n := range notifications {
			if n.ID == id {
				owned = true
				break
			}
		}
		if !owned {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Notification not found"})
			return
		}

		if err := store.Notifications().MarkRead(c.Request.Context(), id); err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to mark notification read", Details: err.Error()})
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse{Message: "Notification marked as read", ID: id})
	}
}
