package app

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sterlingbank/banking-api/internal/domain"
	"github.com/sterlingbank/banking-api/internal/store"
)

type serviceRepoStub struct {
	store.Repository

	user     *domain.User
	accounts []domain.Account
	payees   []domain.Payee
	recent   []domain.DashboardTransaction

	createdPayee     *domain.Payee
	deactivatedPayee uuid.UUID
	updatedFullName  string
	updatedEmail     string

	auditEntries []domain.AuditEntry
}

func (s *serviceRepoStub) FindActiveUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if s.user == nil || s.user.ID != userID {
		return nil, store.ErrUserNotFound
	}
	return s.user, nil
}

func (s *serviceRepoStub) FindActiveAccountsByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Account, error) {
	return s.accounts, nil
}

func (s *serviceRepoStub) FindRecentTransactionsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.DashboardTransaction, error) {
	if limit < len(s.recent) {
		return s.recent[:limit], nil
	}
	return s.recent, nil
}

func (s *serviceRepoStub) FindActivePayeesByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Payee, error) {
	return s.payees, nil
}

func (s *serviceRepoStub) FindActivePayeeByID(ctx context.Context, payeeID, userID uuid.UUID) (*domain.Payee, error) {
	for i := range s.payees {
		if s.payees[i].ID == payeeID && s.payees[i].UserID == userID {
			return &s.payees[i], nil
		}
	}
	return nil, store.ErrPayeeNotFound
}

func (s *serviceRepoStub) CreatePayee(ctx context.Context, payee *domain.Payee) (*domain.Payee, error) {
	created := *payee
	created.ID = uuid.New()
	created.IsActive = true
	s.createdPayee = &created
	return &created, nil
}

func (s *serviceRepoStub) DeactivatePayee(ctx context.Context, payeeID, userID uuid.UUID) error {
	s.deactivatedPayee = payeeID
	return nil
}

func (s *serviceRepoStub) CountActivePayees(ctx context.Context, userID uuid.UUID) (int, error) {
	return len(s.payees), nil
}

func (s *serviceRepoStub) UpdateProfile(ctx context.Context, userID uuid.UUID, fullName, email string) (*domain.User, error) {
	s.updatedFullName = fullName
	s.updatedEmail = email
	updated := *s.user
	updated.FullName = fullName
	updated.Email = email
	return &updated, nil
}

func (s *serviceRepoStub) CreateAuditLog(ctx context.Context, entry domain.AuditEntry) error {
	s.auditEntries = append(s.auditEntries, entry)
	return nil
}

func TestAddPayee_ValidatesRequiredFields(t *testing.T) {
	repo := &serviceRepoStub{}
	service := newTestService(repo)

	tests := []struct {
		name string
		req  domain.AddPayeeRequest
	}{
		{"missing name", domain.AddPayeeRequest{AccountNumber: "12345678", SortCode: "10-20-30"}},
		{"missing account number", domain.AddPayeeRequest{PayeeName: "Jane Roe", SortCode: "10-20-30"}},
		{"missing sort code", domain.AddPayeeRequest{PayeeName: "Jane Roe", AccountNumber: "12345678"}},
		{"whitespace only", domain.AddPayeeRequest{PayeeName: "  ", AccountNumber: "12345678", SortCode: "10-20-30"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.AddPayee(context.Background(), uuid.New(), tt.req, domain.RequestMeta{})
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
	if repo.createdPayee != nil {
		t.Fatal("expected no payee to be created for invalid input")
	}
}

func TestAddPayee_TrimsFieldsAndAudits(t *testing.T) {
	repo := &serviceRepoStub{}
	service := newTestService(repo)
	userID := uuid.New()

	payee, err := service.AddPayee(context.Background(), userID, domain.AddPayeeRequest{
		PayeeName:     " Jane Roe ",
		AccountNumber: " 87654321 ",
		SortCode:      "40-50-60",
		Nickname:      "jane",
	}, domain.RequestMeta{})
	if err != nil {
		t.Fatalf("AddPayee returned error: %v", err)
	}

	if payee.PayeeName != "Jane Roe" || payee.AccountNumber != "87654321" {
		t.Fatalf("expected trimmed payee fields, got %q / %q", payee.PayeeName, payee.AccountNumber)
	}
	if len(repo.auditEntries) != 1 || repo.auditEntries[0].Action != domain.AuditPayeeAdded {
		t.Fatalf("expected a PAYEE_ADDED audit entry, got %+v", repo.auditEntries)
	}
}

func TestDeletePayee_RecordsOldValues(t *testing.T) {
	userID := uuid.New()
	payeeID := uuid.New()
	repo := &serviceRepoStub{
		payees: []domain.Payee{{
			ID:            payeeID,
			UserID:        userID,
			PayeeName:     "Jane Roe",
			AccountNumber: "87654321",
			SortCode:      "40-50-60",
			IsActive:      true,
		}},
	}
	service := newTestService(repo)

	if err := service.DeletePayee(context.Background(), userID, payeeID, domain.RequestMeta{}); err != nil {
		t.Fatalf("DeletePayee returned error: %v", err)
	}
	if repo.deactivatedPayee != payeeID {
		t.Fatal("expected the payee to be deactivated")
	}
	if len(repo.auditEntries) != 1 || repo.auditEntries[0].Action != domain.AuditPayeeDeleted {
		t.Fatalf("expected a PAYEE_DELETED audit entry, got %+v", repo.auditEntries)
	}
	if repo.auditEntries[0].OldValues["payee_name"] != "Jane Roe" {
		t.Fatal("expected the removed payee's values in the audit entry")
	}
}

func TestDeletePayee_RejectsForeignPayee(t *testing.T) {
	repo := &serviceRepoStub{
		payees: []domain.Payee{{
			ID:       uuid.New(),
			UserID:   uuid.New(),
			IsActive: true,
		}},
	}
	service := newTestService(repo)

	err := service.DeletePayee(context.Background(), uuid.New(), repo.payees[0].ID, domain.RequestMeta{})
	if !errors.Is(err, store.ErrPayeeNotFound) {
		t.Fatalf("expected ErrPayeeNotFound for a payee owned by another user, got %v", err)
	}
	if repo.deactivatedPayee != uuid.Nil {
		t.Fatal("expected no deactivation for a foreign payee")
	}
}

func TestUpdateProfile_AuditsOldAndNewValues(t *testing.T) {
	userID := uuid.New()
	repo := &serviceRepoStub{
		user: &domain.User{
			ID:       userID,
			Username: "jsmith",
			FullName: "John Smith",
			Email:    "jsmith@example.com",
			IsActive: true,
		},
	}
	service := newTestService(repo)

	updated, err := service.UpdateProfile(context.Background(), userID, domain.UpdateProfileRequest{
		FullName: "Jonathan Smith",
		Email:    "jonathan@example.com",
	}, domain.RequestMeta{})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if updated.FullName != "Jonathan Smith" {
		t.Fatalf("expected updated full name, got %q", updated.FullName)
	}

	if len(repo.auditEntries) != 1 || repo.auditEntries[0].Action != domain.AuditProfileUpdated {
		t.Fatalf("expected a PROFILE_UPDATED audit entry, got %+v", repo.auditEntries)
	}
	entry := repo.auditEntries[0]
	if entry.OldValues["full_name"] != "John Smith" || entry.NewValues["full_name"] != "Jonathan Smith" {
		t.Fatalf("expected old and new names in audit entry, got %v / %v", entry.OldValues, entry.NewValues)
	}
}

func TestUpdateProfile_RejectsMissingFields(t *testing.T) {
	repo := &serviceRepoStub{}
	service := newTestService(repo)

	_, err := service.UpdateProfile(context.Background(), uuid.New(), domain.UpdateProfileRequest{FullName: "Jane"}, domain.RequestMeta{})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestGetDashboard_AggregatesSections(t *testing.T) {
	userID := uuid.New()
	repo := &serviceRepoStub{
		user: &domain.User{ID: userID, Username: "jsmith", FullName: "John Smith", IsActive: true},
		accounts: []domain.Account{
			{ID: uuid.New(), UserID: userID, AccountNumber: "12345678", Balance: 10000, IsActive: true},
			{ID: uuid.New(), UserID: userID, AccountNumber: "23456789", Balance: 500, IsActive: true},
		},
		payees: []domain.Payee{{ID: uuid.New(), UserID: userID, IsActive: true}},
		recent: []domain.DashboardTransaction{
			{Transaction: domain.Transaction{ID: uuid.New(), Amount: 2500, Status: domain.TransactionStatusCompleted}, Direction: "debit"},
		},
	}
	service := newTestService(repo)

	dashboard, err := service.GetDashboard(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetDashboard returned error: %v", err)
	}

	if dashboard.User.Username != "jsmith" {
		t.Fatalf("unexpected user summary: %+v", dashboard.User)
	}
	if len(dashboard.Accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(dashboard.Accounts))
	}
	if len(dashboard.RecentTransactions) != 1 || dashboard.RecentTransactions[0].Direction != "debit" {
		t.Fatalf("unexpected recent transactions: %+v", dashboard.RecentTransactions)
	}
	if dashboard.PayeesCount != 1 {
		t.Fatalf("expected payee count 1, got %d", dashboard.PayeesCount)
	}
}

func TestGetDashboard_FailsForUnknownUser(t *testing.T) {
	repo := &serviceRepoStub{}
	service := newTestService(repo)

	_, err := service.GetDashboard(context.Background(), uuid.New())
	if !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
