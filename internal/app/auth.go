/**
 * @description
 * Authentication and credential management: login, logout, session token
 * verification for the API middleware, transaction-password verification, and
 * password changes.
 *
 * Sessions are double-tracked: the client holds an HS256 JWT, and the same
 * token is stored as a session row so that logout and password changes can
 * revoke it server-side before its expiry.
 *
 * @dependencies
 * - github.com/golang-jwt/jwt/v5: Session token signing and verification.
 * - golang.org/x/crypto/bcrypt: Password and transaction-password hashes.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sterlingbank/banking-api/internal/domain"
	"github.com/sterlingbank/banking-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// Login verifies a username/password pair, issues a session token, stores the
// session row, and records the outcome in the audit log. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req domain.LoginRequest, meta domain.RequestMeta) (*domain.LoginResult, error) {
	if req.Username == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	user, err := s.repo.FindActiveUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.audit(ctx, domain.AuditEntry{
				Action:    domain.AuditLoginFailed,
				TableName: "users",
				NewValues: map[string]interface{}{"username": req.Username},
			}, meta)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.audit(ctx, domain.AuditEntry{
			UserID:    &user.ID,
			Action:    domain.AuditLoginFailed,
			TableName: "users",
			RecordID:  &user.ID,
			NewValues: map[string]interface{}{"username": req.Username},
		}, meta)
		return nil, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.sessionTTL)
	token, err := s.signSessionToken(user, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	if err := s.repo.CreateSession(ctx, user.ID, token, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.audit(ctx, domain.AuditEntry{
		UserID:    &user.ID,
		Action:    domain.AuditLoginSuccess,
		TableName: "users",
		RecordID:  &user.ID,
		NewValues: map[string]interface{}{"username": user.Username},
	}, meta)

	return &domain.LoginResult{
		Token: token,
		User: domain.UserSummary{
			ID:       user.ID,
			Username: user.Username,
			FullName: user.FullName,
			Email:    user.Email,
		},
	}, nil
}

// Logout deactivates the presented session token.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID, token string, meta domain.RequestMeta) error {
	if err := s.repo.DeactivateSession(ctx, token); err != nil {
		return fmt.Errorf("failed to deactivate session: %w", err)
	}

	s.audit(ctx, domain.AuditEntry{
		UserID:    &userID,
		Action:    domain.AuditLogout,
		TableName: "user_sessions",
	}, meta)

	return nil
}

// AuthenticateToken verifies a bearer token: the JWT signature and expiry
// first, then the server-side session row, which must be active and unexpired.
// It returns the authenticated user's id.
func (s *Service) AuthenticateToken(ctx context.Context, token string) (uuid.UUID, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrInvalidCredentials
	}

	session, err := s.repo.FindActiveSessionByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return uuid.Nil, ErrInvalidCredentials
		}
		return uuid.Nil, fmt.Errorf("failed to look up session: %w", err)
	}

	return session.UserID, nil
}

// VerifyTransactionPassword checks the transfer-specific credential against the
// stored hash. The check and its failure are audit-logged; this is the
// compliance trail for money movement authorization.
func (s *Service) VerifyTransactionPassword(ctx context.Context, userID uuid.UUID, password string, meta domain.RequestMeta) error {
	if password == "" {
		return fmt.Errorf("%w: transaction password is required", ErrValidation)
	}

	user, err := s.repo.FindActiveUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.TransactionPasswordHash), []byte(password)); err != nil {
		s.audit(ctx, domain.AuditEntry{
			UserID:    &userID,
			Action:    domain.AuditTransactionPasswordFailed,
			TableName: "users",
			RecordID:  &userID,
		}, meta)
		return ErrInvalidTransactionPassword
	}

	return nil
}

// ChangePassword verifies the current password, stores a new bcrypt hash, and
// deactivates every existing session so clients must log in again.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req domain.ChangePasswordRequest, meta domain.RequestMeta) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return fmt.Errorf("%w: current password and new password are required", ErrValidation)
	}
	if len(req.NewPassword) < minPasswordLength {
		return fmt.Errorf("%w: new password must be at least %d characters long", ErrValidation, minPasswordLength)
	}

	user, err := s.repo.FindActiveUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		s.audit(ctx, domain.AuditEntry{
			UserID:    &userID,
			Action:    domain.AuditPasswordChangeFailed,
			TableName: "users",
			RecordID:  &userID,
		}, meta)
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	if err := s.repo.UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.repo.DeactivateUserSessions(ctx, userID); err != nil {
		log.Printf("level=error component=auth msg=\"session invalidation failed after password change\" user_id=%s err=%v", userID, err)
	}

	s.audit(ctx, domain.AuditEntry{
		UserID:    &userID,
		Action:    domain.AuditPasswordChanged,
		TableName: "users",
		RecordID:  &userID,
	}, meta)

	return nil
}

func (s *Service) signSessionToken(user *domain.User, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"exp":      jwt.NewNumericDate(expiresAt),
		"iat":      jwt.NewNumericDate(time.Now()),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}
