package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-shop/meridian/internal/auth"
	"github.com/meridian-shop/meridian/internal/shared"
)

type stubRepo struct {
	user *auth.User
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if s.user == nil {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func (s *stubRepo) Get(ctx context.Context, id int64) (*auth.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func newAuthHandler(t *testing.T, repo auth.Repository) (*auth.Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := shared.NewSessionManager(redisClient, time.Hour)
	handler := auth.NewHandler(nil, auth.NewService(repo), sessions)
	return handler, sessions
}

func adminUser(t *testing.T, password string) *auth.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &auth.User{ID: 1, Email: "admin@shop.local", Name: "Admin", PasswordHash: string(hashed), IsActive: true}
}

func TestLoginIssuesToken(t *testing.T) {
	handler, sessions := newAuthHandler(t, &stubRepo{user: adminUser(t, "correctpass")})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"admin@shop.local","password":"correctpass"}`))
	res := httptest.NewRecorder()
	handler.Login(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.Code)
	}
	var body struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Success || body.Token == "" {
		t.Fatalf("expected token in response, got %+v", body)
	}

	userID, err := sessions.Resolve(context.Background(), body.Token)
	if err != nil {
		t.Fatalf("resolve token: %v", err)
	}
	if userID != 1 {
		t.Fatalf("expected user id 1, got %d", userID)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	handler, _ := newAuthHandler(t, &stubRepo{user: adminUser(t, "correctpass")})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"admin@shop.local","password":"wrongpass"}`))
	res := httptest.NewRecorder()
	handler.Login(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", res.Code)
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	user := adminUser(t, "correctpass")
	user.IsActive = false
	handler, _ := newAuthHandler(t, &stubRepo{user: user})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"admin@shop.local","password":"correctpass"}`))
	res := httptest.NewRecorder()
	handler.Login(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", res.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	handler, sessions := newAuthHandler(t, &stubRepo{user: adminUser(t, "correctpass")})

	protected := handler.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shared.AdminIDFromContext(r.Context()) != 1 {
			t.Fatal("admin id missing from context")
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	// Without a token.
	res := httptest.NewRecorder()
	protected.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/orders", nil))
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", res.Code)
	}

	// With a valid token.
	token, err := sessions.Create(context.Background(), 1)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res = httptest.NewRecorder()
	protected.ServeHTTP(res, req)
	if res.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", res.Code)
	}
}
