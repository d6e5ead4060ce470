package storage

import (
	"backend/models"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

var db *sql.DB

// InitDB opens the database/sql handle used by the session store.
func InitDB() *sql.DB {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")

	connStr := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%s sslmode=disable",
		user, password, dbname, host, port)

	var err error
	db, err = sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Pool settings sized for the session store's light load
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	return db
}

// SaveSession saves a new session for a user, handling multiple device support.
// If allowMultipleSessions is true, it allows multiple devices to be logged in simultaneously.
// If false, it deletes all existing sessions before creating a new one.
func SaveSession(db *sql.DB, session *models.Session, allowMultipleSessions bool) error {
	if !allowMultipleSessions {
		deleteAllQuery := `DELETE FROM session WHERE user_id = $1`
		_, err := db.Exec(deleteAllQuery, session.UserID)
		if err != nil {
			return fmt.Errorf("failed to delete all user sessions: %v", err)
		}
	}

	insertQuery := `INSERT INTO session (user_id, session_id, host_name, ip_address, timestp, expires_at, refresh_token, refresh_token_expires_at)
                    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := db.Exec(insertQuery, session.UserID, session.SessionID, session.HostName, session.IPAddress, session.Timestamp, session.ExpiresAt, session.RefreshToken, session.RefreshTokenExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to insert new session: %v", err)
	}
	return nil
}

func DeleteSession(db *sql.DB, userID uint) error {
	query := `DELETE FROM session WHERE user_id = $1`
	_, err := db.Exec(query, userID)
	return err
}

func GetUserByEmail(db *sql.DB, email string) (*models.User, error) {
	var user models.User
	query := `SELECT id, email, password, first_name, last_name, role, company_id, suspended FROM users WHERE LOWER(email) = LOWER($1)`

	err := db.QueryRow(query, email).Scan(&user.ID, &user.Email, &user.Password,
		&user.FirstName, &user.LastName, &user.Role, &user.CompanyID, &user.Suspended)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user with email %s not found", email)
		}
		return nil, fmt.Errorf("failed to query user: %v", err)
	}

	return &user, nil
}

func CleanupExpiredSessions(db *sql.DB) error {
	threshold := time.Now().Add(-24 * time.Hour)
	_, err := db.Exec("DELETE FROM session WHERE expires_at < $1", threshold)
	return err
}
