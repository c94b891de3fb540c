package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sterlingbank/banking-api/internal/domain"
	"github.com/sterlingbank/banking-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

type authRepoStub struct {
	store.Repository

	user *domain.User

	sessionToken   string
	sessionExpires time.Time
	session        *domain.Session

	deactivatedToken    string
	deactivatedAllUser  uuid.UUID
	updatedPasswordHash string

	auditEntries []domain.AuditEntry
}

func (s *authRepoStub) FindActiveUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	if s.user == nil || s.user.Username != username {
		return nil, store.ErrUserNotFound
	}
	return s.user, nil
}

func (s *authRepoStub) FindActiveUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if s.user == nil || s.user.ID != userID {
		return nil, store.ErrUserNotFound
	}
	return s.user, nil
}

func (s *authRepoStub) CreateSession(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	s.sessionToken = token
	s.sessionExpires = expiresAt
	return nil
}

func (s *authRepoStub) FindActiveSessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	if s.session == nil || s.session.Token != token {
		return nil, store.ErrSessionNotFound
	}
	return s.session, nil
}

func (s *authRepoStub) DeactivateSession(ctx context.Context, token string) error {
	s.deactivatedToken = token
	return nil
}

func (s *authRepoStub) DeactivateUserSessions(ctx context.Context, userID uuid.UUID) error {
	s.deactivatedAllUser = userID
	return nil
}

func (s *authRepoStub) UpdatePasswordHash(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	s.updatedPasswordHash = passwordHash
	return nil
}

func (s *authRepoStub) CreateAuditLog(ctx context.Context, entry domain.AuditEntry) error {
	s.auditEntries = append(s.auditEntries, entry)
	return nil
}

func newAuthStub(t *testing.T, password string) (*authRepoStub, uuid.UUID) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	userID := uuid.New()
	return &authRepoStub{
		user: &domain.User{
			ID:           userID,
			Username:     "jsmith",
			FullName:     "John Smith",
			Email:        "jsmith@example.com",
			PasswordHash: string(hash),
			IsActive:     true,
		},
	}, userID
}

func TestLogin_IssuesTokenAndStoresSession(t *testing.T) {
	repo, userID := newAuthStub(t, "correct-horse")
	service := newTestService(repo)

	result, err := service.Login(context.Background(), domain.LoginRequest{Username: "jsmith", Password: "correct-horse"}, domain.RequestMeta{})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a session token")
	}
	if repo.sessionToken != result.Token {
		t.Fatal("expected the issued token to be stored as a session row")
	}
	if result.User.ID != userID || result.User.Username != "jsmith" {
		t.Fatalf("unexpected user summary: %+v", result.User)
	}
	if remaining := time.Until(repo.sessionExpires); remaining < 59*time.Minute || remaining > time.Hour {
		t.Fatalf("expected session expiry near the configured TTL, got %v", remaining)
	}

	if len(repo.auditEntries) != 1 || repo.auditEntries[0].Action != domain.AuditLoginSuccess {
		t.Fatalf("expected a LOGIN_SUCCESS audit entry, got %+v", repo.auditEntries)
	}
}

func TestLogin_UnknownUserAndWrongPasswordAreIndistinguishable(t *testing.T) {
	repo, userID := newAuthStub(t, "correct-horse")
	service := newTestService(repo)

	_, unknownErr := service.Login(context.Background(), domain.LoginRequest{Username: "ghost", Password: "whatever"}, domain.RequestMeta{})
	_, wrongErr := service.Login(context.Background(), domain.LoginRequest{Username: "jsmith", Password: "wrong"}, domain.RequestMeta{})

	if !errors.Is(unknownErr, ErrInvalidCredentials) || !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both paths, got %v and %v", unknownErr, wrongErr)
	}

	if len(repo.auditEntries) != 2 {
		t.Fatalf("expected two LOGIN_FAILED audit entries, got %d", len(repo.auditEntries))
	}
	if repo.auditEntries[0].Action != domain.AuditLoginFailed || repo.auditEntries[0].UserID != nil {
		t.Fatalf("expected unattributed LOGIN_FAILED for unknown user, got %+v", repo.auditEntries[0])
	}
	if repo.auditEntries[1].Action != domain.AuditLoginFailed || repo.auditEntries[1].UserID == nil || *repo.auditEntries[1].UserID != userID {
		t.Fatalf("expected attributed LOGIN_FAILED for wrong password, got %+v", repo.auditEntries[1])
	}
}

func TestLogin_RejectsMissingFields(t *testing.T) {
	repo, _ := newAuthStub(t, "correct-horse")
	service := newTestService(repo)

	_, err := service.Login(context.Background(), domain.LoginRequest{Username: "jsmith"}, domain.RequestMeta{})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthenticateToken_AcceptsIssuedToken(t *testing.T) {
	repo, userID := newAuthStub(t, "correct-horse")
	service := newTestService(repo)

	result, err := service.Login(context.Background(), domain.LoginRequest{Username: "jsmith", Password: "correct-horse"}, domain.RequestMeta{})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	repo.session = &domain.Session{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     result.Token,
		IsActive:  true,
		ExpiresAt: repo.sessionExpires,
	}

	gotID, err := service.AuthenticateToken(context.Background(), result.Token)
	if err != nil {
		t.Fatalf("AuthenticateToken returned error: %v", err)
	}
	if gotID != userID {
		t.Fatalf("expected user %s, got %s", userID, gotID)
	}
}

func TestAuthenticateToken_RejectsRevokedSession(t *testing.T) {
	repo, _ := newAuthStub(t, "correct-horse")
	service := newTestService(repo)

	result, err := service.Login(context.Background(), domain.LoginRequest{Username: "jsmith", Password: "correct-horse"}, domain.RequestMeta{})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	// The JWT is intact but no active session row remains.
	_, err = service.AuthenticateToken(context.Background(), result.Token)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for revoked session, got %v", err)
	}
}

func TestAuthenticateToken_RejectsForgedToken(t *testing.T) {
	repo, _ := newAuthStub(t, "correct-horse")
	service := newTestService(repo)

	other := NewService(repo, nil, "bank.events", "other-secret", time.Hour, time.Second, bcrypt.MinCost)
	forged, err := other.signSessionToken(repo.user, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("failed to sign forged token: %v", err)
	}

	_, err = service.AuthenticateToken(context.Background(), forged)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for forged token, got %v", err)
	}
}

func TestLogout_DeactivatesPresentedToken(t *testing.T) {
	repo, userID := newAuthStub(t, "correct-horse")
	service := newTestService(repo)

	if err := service.Logout(context.Background(), userID, "session-token", domain.RequestMeta{}); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if repo.deactivatedToken != "session-token" {
		t.Fatalf("expected the presented token to be deactivated, got %q", repo.deactivatedToken)
	}
	if len(repo.auditEntries) != 1 || repo.auditEntries[0].Action != domain.AuditLogout {
		t.Fatalf("expected a LOGOUT audit entry, got %+v", repo.auditEntries)
	}
}

func TestChangePassword_RotatesHashAndRevokesSessions(t *testing.T) {
	repo, userID := newAuthStub(t, "old-password")
	service := newTestService(repo)

	err := service.ChangePassword(context.Background(), userID, domain.ChangePasswordRequest{
		CurrentPassword: "old-password",
		NewPassword:     "new-password-1",
	}, domain.RequestMeta{})
	if err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}

	if repo.updatedPasswordHash == "" {
		t.Fatal("expected a new password hash to be stored")
	}
	if bcrypt.CompareHashAndPassword([]byte(repo.updatedPasswordHash), []byte("new-password-1")) != nil {
		t.Fatal("stored hash does not match the new password")
	}
	if repo.deactivatedAllUser != userID {
		t.Fatal("expected all sessions to be deactivated after password change")
	}
	if len(repo.auditEntries) != 1 || repo.auditEntries[0].Action != domain.AuditPasswordChanged {
		t.Fatalf("expected a PASSWORD_CHANGED audit entry, got %+v", repo.auditEntries)
	}
}

func TestChangePassword_RejectsWrongCurrentPassword(t *testing.T) {
	repo, userID := newAuthStub(t, "old-password")
	service := newTestService(repo)

	err := service.ChangePassword(context.Background(), userID, domain.ChangePasswordRequest{
		CurrentPassword: "not-it",
		NewPassword:     "new-password-1",
	}, domain.RequestMeta{})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if repo.updatedPasswordHash != "" {
		t.Fatal("expected password hash untouched")
	}
	if len(repo.auditEntries) != 1 || repo.auditEntries[0].Action != domain.AuditPasswordChangeFailed {
		t.Fatalf("expected a PASSWORD_CHANGE_FAILED audit entry, got %+v", repo.auditEntries)
	}
}

func TestChangePassword_RejectsShortNewPassword(t *testing.T) {
	repo, userID := newAuthStub(t, "old-password")
	service := newTestService(repo)

	err := service.ChangePassword(context.Background(), userID, domain.ChangePasswordRequest{
		CurrentPassword: "old-password",
		NewPassword:     "short",
	}, domain.RequestMeta{})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
