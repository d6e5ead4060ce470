package handlers

import (
	"backend/models"
	"backend/storage"
	"backend/utils"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// LoginHandler handles user authentication
// @Summary Login user
// @Description Authenticate user and return session token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body object true "Login credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/login [post]
func LoginHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var loginData struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
			IP       string `json:"ip"`
		}

		if err := c.ShouldBindJSON(&loginData); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}

		user, err := storage.GetUserByEmail(db, loginData.Email)
		if err != nil || !utils.ValidatePassword(user.Password, loginData.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		if user.Suspended {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is suspended"})
			return
		}

		newToken, err := utils.GenerateJWT(user.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}

		refreshToken, err := utils.GenerateRefreshToken(user.Email, newToken)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate refresh token"})
			return
		}

		// Access token expires in 15 minutes, refresh token in 15 days.
		session := &models.Session{
			UserID:                user.ID,
			SessionID:             newToken,
			HostName:              user.Email,
			IPAddress:             loginData.IP,
			Timestamp:             time.Now(),
			ExpiresAt:             time.Now().Add(15 * time.Minute),
			RefreshToken:          refreshToken,
			RefreshTokenExpiresAt: time.Now().Add(15 * 24 * time.Hour),
		}

		if err := storage.SaveSession(db, session, true); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Login successful",
			"access_token":  newToken,
			"refresh_token": refreshToken,
			"role":          user.Role,
			"expires_in":    900,
			"user": gin.H{
				"id":         user.ID,
				"email":      user.Email,
				"name":       user.FullName(),
				"company_id": user.CompanyID,
			},
		})
	}
}

// ValidateSession validates user session
// @Summary Validate session
// @Description Validate user session token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/validate-session [post]
func ValidateSession(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing Authorization header"})
			return
		}

		sessionToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if sessionToken == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Authorization header missing token"})
			return
		}

		// Validate JWT (checks signature and expiration)
		parsedToken, err := utils.ValidateJWT(sessionToken)
		if err != nil || !parsedToken.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		claims, ok := parsedToken.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		exp, ok := claims["exp"].(float64)
		if !ok || time.Now().Unix() > int64(exp) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
			return
		}

		// Ensure session exists and is not expired in DB
		user, err := models.GetUserBySessionID(db, sessionToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":    "Session validated",
			"session_id": sessionToken,
			"role":       user.Role,
			"user_id":    user.ID,
		})
	}
}

// RefreshTokenHandler handles refresh token requests to get new access tokens
// @Summary Refresh access token
// @Description Exchange refresh token for a new access token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body object true "Refresh token request"
// @Success 200 {object} object "New access token"
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/refresh-token [post]
func RefreshTokenHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var refreshRequest struct {
			RefreshToken string `json:"refresh_token" binding:"required"`
		}

		if err := c.ShouldBindJSON(&refreshRequest); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Refresh token is required"})
			return
		}

		parsedToken, err := utils.ValidateJWT(refreshRequest.RefreshToken)
		if err != nil || !parsedToken.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
			return
		}

		claims, ok := parsedToken.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims structure"})
			return
		}

		tokenType, ok := claims["type"].(string)
		if !ok || tokenType != "refresh" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token type"})
			return
		}

		email, ok := claims["email"].(string)
		if !ok || email == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Email claim missing or invalid"})
			return
		}

		user, err := storage.GetUserByEmail(db, email)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		if user.Suspended {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is suspended"})
			return
		}

		// Query by refresh_token and user_id since session_id rotates on each
		// refresh; the refresh token itself is the stable device key.
		var existingSessionID string
		err = db.QueryRow(`
			SELECT session_id FROM session
			WHERE refresh_token = $1 AND user_id = $2 AND refresh_token_expires_at > NOW()`,
			refreshRequest.RefreshToken, user.ID).Scan(&existingSessionID)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found, expired, or refresh token mismatch"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify session", "details": err.Error()})
			}
			return
		}

		newAccessToken, err := utils.GenerateJWT(user.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
			return
		}

		_, err = db.Exec(`
			UPDATE session
			SET session_id = $1, expires_at = $2, timestp = $3
			WHERE refresh_token = $4 AND user_id = $5`,
			newAccessToken, time.Now().Add(15*time.Minute), time.Now(), refreshRequest.RefreshToken, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update session", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Token refreshed successfully",
			"access_token":  newAccessToken,
			"refresh_token": refreshRequest.RefreshToken,
			"expires_in":    900,
		})
	}
}

// LogoutHandler deletes all sessions for a user
// @Summary Logout user
// @Description Delete user sessions
// @Tags Authentication
// @Accept json
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/logout/{user_id} [post]
func LogoutHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("user_id")

		userIDInt, err := strconv.ParseUint(userID, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}

		if err := storage.DeleteSession(db, uint(userIDInt)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete session"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Session deleted, user logged out"})
	}
}
