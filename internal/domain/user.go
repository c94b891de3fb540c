/**
 * @description
 * This file defines the user-facing domain models for the banking API: the user
 * record, the session issued at login, and the DTOs exchanged with the auth and
 * profile endpoints.
 *
 * @notes
 * - The password hash and transaction password hash are bcrypt digests and are
 *   never serialized back to clients.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered customer of the bank.
// This struct maps directly to the `users` table.
type User struct {
	ID                      uuid.UUID `json:"id"`
	Username                string    `json:"username"`
	FullName                string    `json:"full_name"`
	Email                   string    `json:"email"`
	PasswordHash            string    `json:"-"`
	TransactionPasswordHash string    `json:"-"`
	IsActive                bool      `json:"is_active"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// Session represents an issued login session.
// It maps to the `user_sessions` table; a session is valid while it is active
// and its expiry is in the future.
type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"-"`
	IsActive  bool      `json:"is_active"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginRequest is the DTO for the login endpoint.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is returned to the client after a successful login.
type LoginResult struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// UserSummary is the reduced user view embedded in login and dashboard responses.
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email,omitempty"`
}

// UpdateProfileRequest is the DTO for profile updates.
type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// ChangePasswordRequest is the DTO for the change-password endpoint.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
