package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sterlingbank/banking-api/internal/app"
	"github.com/sterlingbank/banking-api/internal/store"
)

func TestWriteServiceError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", fmt.Errorf("%w: amount must be greater than 0", app.ErrValidation), http.StatusBadRequest},
		{"invalid credentials", app.ErrInvalidCredentials, http.StatusUnauthorized},
		{"invalid transaction password", app.ErrInvalidTransactionPassword, http.StatusUnauthorized},
		{"insufficient funds", store.ErrInsufficientFunds, http.StatusBadRequest},
		{"account not found", store.ErrAccountNotFound, http.StatusNotFound},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"payee not found", store.ErrPayeeNotFound, http.StatusNotFound},
		{"transaction not found", store.ErrTransactionNotFound, http.StatusNotFound},
		{"payee exists", store.ErrPayeeExists, http.StatusConflict},
		{"unknown error", fmt.Errorf("pool exhausted"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, "/test", tt.err)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestWriteServiceError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, "/test", fmt.Errorf("dial tcp 10.0.0.5:5432: connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != "{\"error\":\"Internal server error\"}\n" {
		t.Fatalf("expected generic error body, got %q", body)
	}
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		fallback int
		want     int
	}{
		{"missing", "/api/transactions", 20, 20},
		{"valid", "/api/transactions?limit=50", 20, 50},
		{"not a number", "/api/transactions?limit=abc", 20, 20},
		{"zero", "/api/transactions?limit=0", 20, 20},
		{"negative", "/api/transactions?limit=-5", 20, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if got := queryInt(r, "limit", tt.fallback); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestBuildPagination(t *testing.T) {
	p := buildPagination(2, 20, 45)
	if p.Pages != 3 {
		t.Fatalf("expected 3 pages for 45 rows at 20 per page, got %d", p.Pages)
	}
	if p.Page != 2 || p.Limit != 20 || p.Total != 45 {
		t.Fatalf("unexpected pagination: %+v", p)
	}

	if empty := buildPagination(1, 20, 0); empty.Pages != 0 {
		t.Fatalf("expected 0 pages for empty result, got %d", empty.Pages)
	}
}
