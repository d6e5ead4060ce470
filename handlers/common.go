package handlers

import (
	"backend/models"
	"backend/services"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// currentUser resolves the acting user from the Authorization header session
// token. Every procurement route goes through this; an unresolved session is
// a hard 401.
func currentUser(c *gin.Context, db *sql.DB) (*models.User, bool) {
	token := strings.TrimSpace(c.GetHeader("Authorization"))
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Missing Authorization header"})
		return nil, false
	}

	user, err := models.GetUserBySessionID(db, token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid or expired session"})
		return nil, false
	}
	if user.Suspended {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Account is suspended"})
		return nil, false
	}
	return user, true
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Anything untyped is a 500 with the bare error string.
func respondServiceError(c *gin.Context, err error) {
	var validation *services.ValidationError
	var transition *services.StateTransitionError
	var notFound *services.NotFoundError
	var conflict *services.ConflictError
	var forbidden *services.ForbiddenError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request",
			Details: validation.Message,
			Field:   validation.Field,
		})
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "Invalid state transition",
			Details: transition.Error(),
		})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "Not found",
			Details: notFound.Error(),
		})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "Conflict",
			Details: conflict.Error(),
		})
	case errors.As(err, &forbidden):
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Error:   "Forbidden",
			Details: forbidden.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Internal server error",
			Details: err.Error(),
		})
	}
}

// pathID reads a numeric path parameter; a malformed value is a 400.
func pathID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Invalid " + name,
			Field: name,
		})
		return 0, false
	}
	return uint(id), true
}
