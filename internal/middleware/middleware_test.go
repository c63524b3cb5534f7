package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/mediafaves/internal/ctxkeys"
	"github.com/templui/mediafaves/internal/db/dbtest"
	"github.com/templui/mediafaves/internal/repository"
	"github.com/templui/mediafaves/internal/service"
)

func newAuthService(t *testing.T) *service.AuthService {
	t.Helper()
	return service.NewAuthService(repository.NewUserRepository(dbtest.New(t)), "test-secret", time.Hour)
}

func protected(t *testing.T, authService *service.AuthService) (http.HandlerFunc, *string) {
	t.Helper()
	var seen string
	h := RequireToken(authService)(func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		require.NotNil(t, user)
		assert.Empty(t, user.PasswordHash)
		seen = user.Email
		w.WriteHeader(http.StatusOK)
	})
	return h, &seen
}

func TestRequireTokenMissingHeader(t *testing.T) {
	h, _ := protected(t, newAuthService(t))

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/api/favorites", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"No token, authorization denied"}`, rec.Body.String())
}

func TestRequireTokenInvalid(t *testing.T) {
	h, _ := protected(t, newAuthService(t))

	req := httptest.NewRequest(http.MethodGet, "/api/favorites", nil)
	req.Header.Set(TokenHeader, "not-a-jwt")
	rec := httptest.NewRecorder()
	h(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Token is not valid"}`, rec.Body.String())
}

func TestRequireTokenUnknownUser(t *testing.T) {
	authService := newAuthService(t)
	h, _ := protected(t, authService)

	token, err := authService.GenerateJWT(999)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/favorites", nil)
	req.Header.Set(TokenHeader, token)
	rec := httptest.NewRecorder()
	h(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"User not found"}`, rec.Body.String())
}

func TestRequireTokenBindsUser(t *testing.T) {
	authService := newAuthService(t)
	h, seen := protected(t, authService)

	token, err := authService.Register(context.Background(), "ann@example.com", "Str0ng!pass")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/favorites", nil)
	req.Header.Set(TokenHeader, token)
	rec := httptest.NewRecorder()
	h(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ann@example.com", *seen)
}

func TestRecover(t *testing.T) {
	h := Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Server error"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	called := false
	h := CORS("*")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/favorites", nil)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), TokenHeader)
}

func TestCORSPassesThrough(t *testing.T) {
	h := CORS("https://app.example.com")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))
}

func TestRequestLoggingRequestID(t *testing.T) {
	var seen string
	h := RequestLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxkeys.RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mw("first"), mw("second"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"first", "second", "handler"}, order)
}
