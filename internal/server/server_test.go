package server_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/gosuda/schooldocs/internal/api/v1"
	"github.com/gosuda/schooldocs/internal/config"
	"github.com/gosuda/schooldocs/internal/domain"
	"github.com/gosuda/schooldocs/internal/server"
	"github.com/gosuda/schooldocs/internal/server/middleware"
)

const testSecret = "server-test-secret-at-least-32-chars"

// listOnly answers List; any other method panics through the nil embedded interface.
type listOnly struct {
	v1.TemplateService
	tenants []uuid.UUID
}

func (l *listOnly) List(_ context.Context, tenantID uuid.UUID, _ *domain.DocumentType) ([]*domain.Template, error) {
	l.tenants = append(l.tenants, tenantID)
	return nil, nil
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{Secret: testSecret},
		Server: config.ServerConfig{
			Addr:         ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			CORSOrigins:  []string{"*"},
			RateLimit:    100,
			RateBurst:    100,
		},
	}
}

func bearer(t *testing.T, tenantID uuid.UUID, role string) string {
	t.Helper()

	claims := middleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
		TenantID:         tenantID.String(),
		UserID:           uuid.New().String(),
		Role:             role,
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	srv := server.New(t.Context(), testConfig(), server.Deps{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadyz(t *testing.T) {
	t.Parallel()

	t.Run("all_ok", func(t *testing.T) {
		t.Parallel()

		srv := server.New(t.Context(), testConfig(), server.Deps{Probes: map[string]server.Pinger{
			"postgres": pingFunc(func(context.Context) error { return nil }),
		}})

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"postgres":"ok"`)
	})

	t.Run("redis_down", func(t *testing.T) {
		t.Parallel()

		srv := server.New(t.Context(), testConfig(), server.Deps{Probes: map[string]server.Pinger{
			"postgres": pingFunc(func(context.Context) error { return nil }),
			"redis":    pingFunc(func(context.Context) error { return errors.New("connection refused") }),
		}})

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), `"redis":"unavailable"`)
	})
}

func TestAPIRequiresToken(t *testing.T) {
	t.Parallel()

	srv := server.New(t.Context(), testConfig(), server.Deps{Templates: &listOnly{}})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/templates", http.NoBody))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPIScopesToTokenTenant(t *testing.T) {
	t.Parallel()

	tid := uuid.New()
	svc := &listOnly{}
	srv := server.New(t.Context(), testConfig(), server.Deps{Templates: svc})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/templates", http.NoBody)
	req.Header.Set("Authorization", bearer(t, tid, middleware.RoleStaff))
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, "[]", rec.Body.String())
	assert.Equal(t, []uuid.UUID{tid}, svc.tenants)
}

func TestAPIRejectsUnknownRole(t *testing.T) {
	t.Parallel()

	svc := &listOnly{}
	srv := server.New(t.Context(), testConfig(), server.Deps{Templates: svc})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/templates", http.NoBody)
	req.Header.Set("Authorization", bearer(t, uuid.New(), "parent"))
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, svc.tenants)
}
