package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

type authenticatorStub struct {
	userID uuid.UUID
	err    error

	gotToken string
}

func (a *authenticatorStub) AuthenticateToken(ctx context.Context, token string) (uuid.UUID, error) {
	a.gotToken = token
	if a.err != nil {
		return uuid.Nil, a.err
	}
	return a.userID, nil
}

func TestAuthMiddleware_RejectsMissingHeader(t *testing.T) {
	handler := AuthMiddleware(&authenticatorStub{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run without a token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_RejectsMalformedHeader(t *testing.T) {
	handler := AuthMiddleware(&authenticatorStub{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run with a malformed header")
	}))

	for _, header := range []string{"token-without-scheme", "Bearer ", "Basic abc123"} {
		req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, rec.Code)
		}
	}
}

func TestAuthMiddleware_RejectsInvalidToken(t *testing.T) {
	auth := &authenticatorStub{err: errors.New("invalid credentials")}
	handler := AuthMiddleware(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run with an invalid token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if auth.gotToken != "bad-token" {
		t.Fatalf("expected token to be passed to the authenticator, got %q", auth.gotToken)
	}
}

func TestAuthMiddleware_PassesUserAndTokenThroughContext(t *testing.T) {
	wantID := uuid.New()
	auth := &authenticatorStub{userID: wantID}

	var gotID uuid.UUID
	var gotToken string
	handler := AuthMiddleware(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = UserIDFromContext(r.Context())
		gotToken, _ = SessionTokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != wantID {
		t.Fatalf("expected user id %s in context, got %s", wantID, gotID)
	}
	if gotToken != "good-token" {
		t.Fatalf("expected session token in context, got %q", gotToken)
	}
}

type limiterStub struct {
	count      int
	retryAfter int
	err        error

	gotScope   string
	gotSubject string
}

func (l *limiterStub) ConsumeRateLimit(ctx context.Context, scope, subject string, limit int, window time.Duration) (int, int, error) {
	l.gotScope = scope
	l.gotSubject = subject
	return l.count, l.retryAfter, l.err
}

func TestRateLimitMiddleware_NilLimiterPassesThrough(t *testing.T) {
	called := false
	handler := RateLimitMiddleware(nil, "auth", 5, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Fatal("expected request to pass through without a limiter")
	}
}

func TestRateLimitMiddleware_BlocksOverLimit(t *testing.T) {
	limiter := &limiterStub{count: 6, retryAfter: 42}
	handler := RateLimitMiddleware(limiter, "auth", 5, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run over the limit")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "42" {
		t.Fatalf("expected Retry-After 42, got %q", got)
	}
	if limiter.gotScope != "auth" {
		t.Fatalf("expected scope auth, got %q", limiter.gotScope)
	}
	if limiter.gotSubject != "203.0.113.9" {
		t.Fatalf("expected first forwarded address as subject, got %q", limiter.gotSubject)
	}
}

func TestRateLimitMiddleware_FailsOpenOnLimiterError(t *testing.T) {
	limiter := &limiterStub{err: errors.New("redis down")}
	called := false
	handler := RateLimitMiddleware(limiter, "api", 100, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Fatal("expected request to pass through when the limiter errors")
	}
}
