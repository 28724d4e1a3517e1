package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

// Mock repositories for testing
type mockUserRepository struct {
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	key := strings.ToLower(user.Email)
	if _, exists := m.users[key]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[key] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.users[strings.ToLower(email)]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

type mockRefreshTokenRepository struct {
	tokens map[uuid.UUID]string
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{
		tokens: make(map[uuid.UUID]string),
	}
}

func (m *mockRefreshTokenRepository) Store(ctx context.Context, userID uuid.UUID, token string, ttl time.Duration) error {
	m.tokens[userID] = token
	return nil
}

func (m *mockRefreshTokenRepository) Get(ctx context.Context, userID uuid.UUID) (string, error) {
	token, exists := m.tokens[userID]
	if !exists {
		return "", repository.ErrRefreshTokenNotFound
	}
	return token, nil
}

func (m *mockRefreshTokenRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	delete(m.tokens, userID)
	return nil
}

func noopMiddleware(next http.Handler) http.Handler {
	return next
}

func newAuthTestRouter() chi.Router {
	jwtCfg := config.JWTConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessExpiry:  15,
		RefreshExpiry: 7,
	}

	authService := service.NewAuthService(newMockUserRepository(), newMockRefreshTokenRepository(), jwtCfg)
	handler := NewAuthHandler(authService, jwtCfg, false, zap.NewNop())

	router := chi.NewRouter()
	handler.RegisterRoutes(router, noopMiddleware, noopMiddleware)
	return router
}

func postJSON(t *testing.T, router chi.Router, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request body: %v", err)
	}

	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

// Feature: storefront, Property 3: Invalid signup data is rejected
// Validates: Requirements 1.5
func TestProperty_InvalidSignupDataIsRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("signup with invalid data returns validation errors", prop.ForAll(
		func(invalidCase int) bool {
			router := newAuthTestRouter()

			var reqBody SignupRequest

			// Generate different invalid cases
			switch invalidCase % 4 {
			case 0:
				// Empty email
				reqBody = SignupRequest{Name: "Jane", Email: "", Password: "secret123"}
			case 1:
				// Invalid email format
				reqBody = SignupRequest{Name: "Jane", Email: "not-an-email", Password: "secret123"}
			case 2:
				// Password too short
				reqBody = SignupRequest{Name: "Jane", Email: "jane@example.com", Password: "abc"}
			case 3:
				// Empty name
				reqBody = SignupRequest{Name: "", Email: "jane@example.com", Password: "secret123"}
			}

			w := postJSON(t, router, "/api/v1/auth/signup", reqBody)

			return w.Code == http.StatusBadRequest
		},
		gen.Int(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestSignup_SetsSessionCookies(t *testing.T) {
	router := newAuthTestRouter()

	w := postJSON(t, router, "/api/v1/auth/signup", SignupRequest{
		Name:     "Jane",
		Email:    "jane@example.com",
		Password: "secret123",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	cookies := w.Result().Cookies()
	access := cookieByName(cookies, "accessToken")
	refresh := cookieByName(cookies, "refreshToken")

	if access == nil || access.Value == "" {
		t.Fatal("access token cookie not set")
	}
	if refresh == nil || refresh.Value == "" {
		t.Fatal("refresh token cookie not set")
	}
	if !access.HttpOnly || !refresh.HttpOnly {
		t.Error("session cookies must be HttpOnly")
	}
	if access.SameSite != http.SameSiteStrictMode || refresh.SameSite != http.SameSiteStrictMode {
		t.Error("session cookies must be SameSite=Strict")
	}

	// The response body must not leak the password hash
	if strings.Contains(w.Body.String(), "password") {
		t.Error("response body mentions password")
	}
}

func TestSignup_DuplicateEmailConflict(t *testing.T) {
	router := newAuthTestRouter()

	body := SignupRequest{Name: "Jane", Email: "jane@example.com", Password: "secret123"}
	if w := postJSON(t, router, "/api/v1/auth/signup", body); w.Code != http.StatusCreated {
		t.Fatalf("first signup failed: %d", w.Code)
	}

	if w := postJSON(t, router, "/api/v1/auth/signup", body); w.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate email, got %d", w.Code)
	}
}

func TestLogin_WrongPasswordUnauthorized(t *testing.T) {
	router := newAuthTestRouter()

	signup := SignupRequest{Name: "Jane", Email: "jane@example.com", Password: "secret123"}
	if w := postJSON(t, router, "/api/v1/auth/signup", signup); w.Code != http.StatusCreated {
		t.Fatalf("signup failed: %d", w.Code)
	}

	w := postJSON(t, router, "/api/v1/auth/login", LoginRequest{
		Email:    "jane@example.com",
		Password: "wrong-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong password, got %d", w.Code)
	}
}

func TestRefreshToken_MintsNewAccessCookie(t *testing.T) {
	router := newAuthTestRouter()

	w := postJSON(t, router, "/api/v1/auth/signup", SignupRequest{
		Name:     "Jane",
		Email:    "jane@example.com",
		Password: "secret123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("signup failed: %d", w.Code)
	}
	refresh := cookieByName(w.Result().Cookies(), "refreshToken")

	w = postJSON(t, router, "/api/v1/auth/refresh-token", struct{}{}, refresh)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	access := cookieByName(w.Result().Cookies(), "accessToken")
	if access == nil || access.Value == "" {
		t.Error("refresh did not set a new access token cookie")
	}
}

func TestRefreshToken_MissingCookieUnauthorized(t *testing.T) {
	router := newAuthTestRouter()

	w := postJSON(t, router, "/api/v1/auth/refresh-token", struct{}{})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without refresh cookie, got %d", w.Code)
	}
}

func TestLogout_ClearsCookiesAndRevokesSession(t *testing.T) {
	router := newAuthTestRouter()

	w := postJSON(t, router, "/api/v1/auth/signup", SignupRequest{
		Name:     "Jane",
		Email:    "jane@example.com",
		Password: "secret123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("signup failed: %d", w.Code)
	}
	refresh := cookieByName(w.Result().Cookies(), "refreshToken")

	w = postJSON(t, router, "/api/v1/auth/logout", struct{}{}, refresh)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	for _, name := range []string{"accessToken", "refreshToken"} {
		cleared := cookieByName(w.Result().Cookies(), name)
		if cleared == nil || cleared.MaxAge >= 0 {
			t.Errorf("%s cookie not cleared", name)
		}
	}

	// The revoked refresh token no longer mints access tokens
	w = postJSON(t, router, "/api/v1/auth/refresh-token", struct{}{}, refresh)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", w.Code)
	}
}
