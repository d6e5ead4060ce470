package models

import (
	"database/sql"
	"errors"
	"time"
)

// UserRole is the closed set of procurement roles; the policy layer keys off
// these values.
type UserRole string

const (
	RoleRequestor   UserRole = "requestor"
	RoleApprover    UserRole = "approver"
	RoleProcurement UserRole = "procurement"
	RoleAdmin       UserRole = "admin"
)

// User represents the users table.
type User struct {
	ID         uint      `json:"id" example:"1"`
	EmployeeID string    `json:"employee_id" example:"EMP001"`
	Email      string    `json:"email" example:"user@example.com"`
	Password   string    `json:"-"`
	FirstName  string    `json:"first_name" example:"John"`
	LastName   string    `json:"last_name" example:"Doe"`
	Role       UserRole  `json:"role" example:"requestor"`
	CompanyID  uint      `json:"company_id" example:"1"`
	PhoneNo    string    `json:"phone_no" example:"9876543210"`
	Suspended  bool      `json:"suspended" example:"false"`
	CreatedAt  time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt  time.Time `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

// FullName is the display name used in notifications and exports.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Session represents the session table (raw SQL store, see storage package).
type Session struct {
	UserID                uint      `json:"user_id"`
	SessionID             string    `json:"session_id"`
	HostName              string    `json:"host_name"`
	IPAddress             string    `json:"ip_address"`
	Timestamp             time.Time `json:"timestp"`
	ExpiresAt             time.Time `json:"expires_at"`
	RefreshToken          string    `json:"refresh_token,omitempty"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at,omitempty"`
}

// GetUserBySessionID resolves the acting user for a request.
func GetUserBySessionID(db *sql.DB, sessionID string) (*User, error) {
	query := `
		SELECT u.id, u.employee_id, u.email, u.first_name, u.last_name, u.role, u.company_id, u.suspended
		FROM users u
		JOIN session s ON s.user_id = u.id
		WHERE s.session_id = $1 AND s.expires_at > NOW()`

	var user User
	err := db.QueryRow(query, sessionID).Scan(
		&user.ID, &user.EmployeeID, &user.Email, &user.FirstName,
		&user.LastName, &user.Role, &user.CompanyID, &user.Suspended,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("session not found or expired")
		}
		return nil, err
	}
	return &user, nil
}

// Notification represents the notifications table.
type Notification struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"id" example:"1"`
	UserID    uint      `gorm:"column:user_id;not null;index" json:"user_id" example:"1"`
	Message   string    `gorm:"column:message;type:text;not null" json:"message" example:"PR-202501-0007 awaits your approval"`
	Status    string    `gorm:"column:status;type:varchar(10);not null;default:'unread'" json:"status" example:"unread"`
	Action    string    `gorm:"column:action;type:varchar(50)" json:"action" example:"view_requisition"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
