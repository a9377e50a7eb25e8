package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinezone/cinezone/internal/application/user"
	"github.com/cinezone/cinezone/internal/infrastructure/permission"
	"github.com/cinezone/cinezone/internal/infrastructure/ratelimit"
	"github.com/cinezone/cinezone/internal/interfaces/http/handlers/testutil"
	"github.com/cinezone/cinezone/internal/shared/authorization"
	"github.com/cinezone/cinezone/internal/shared/constants"
	"github.com/cinezone/cinezone/internal/shared/errors"
	"github.com/cinezone/cinezone/internal/shared/logger"
)

type mockAuthenticator struct {
	AuthenticateFunc func(ctx context.Context, token string) (*user.Principal, error)
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, token string) (*user.Principal, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, token)
	}
	return nil, errors.NewTokenInvalidError()
}

type mockLimiter struct {
	AllowFunc func(ctx context.Context, key string) (ratelimit.Decision, error)
}

func (m *mockLimiter) Allow(ctx context.Context, key string) (ratelimit.Decision, error) {
	if m.AllowFunc != nil {
		return m.AllowFunc(ctx, key)
	}
	return ratelimit.Decision{Allowed: true}, nil
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler(logger.NewNop()))
	r.Use(handlers...)
	return r
}

func parseError(t *testing.T, w *httptest.ResponseRecorder) *testutil.ErrorInfo {
	t.Helper()
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	require.NotNil(t, resp.Error)
	assert.False(t, resp.Success)
	return resp.Error
}

func newAuth(t *testing.T, authn Authenticator) *AuthMiddleware {
	t.Helper()
	enforcer, err := permission.NewMemoryEnforcer(logger.NewNop())
	require.NoError(t, err)
	return NewAuthMiddleware(authn, enforcer, logger.NewNop())
}

func TestRequireAuth(t *testing.T) {
	authn := &mockAuthenticator{
		AuthenticateFunc: func(_ context.Context, token string) (*user.Principal, error) {
			switch token {
			case "good":
				return &user.Principal{UserID: 7, Role: authorization.RoleUser}, nil
			case "inactive":
				return nil, errors.NewAccountInactiveError()
			default:
				return nil, errors.NewTokenInvalidError()
			}
		},
	}
	m := newAuth(t, authn)

	r := newEngine(m.RequireAuth())
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":   c.MustGet(constants.ContextKeyUserID),
			"role": c.GetString(constants.ContextKeyUserRole),
		})
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"invalid token", "Bearer nope", http.StatusUnauthorized},
		{"inactive account", "Bearer inactive", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusOK},
		{"lowercase scheme", "bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewJSONRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(constants.HeaderAuthorization, tt.header)
			}
			w := testutil.Perform(r, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"id":7,"role":"user"}`, w.Body.String())
			}
		})
	}
}

func TestRequireTier(t *testing.T) {
	m := newAuth(t, &mockAuthenticator{})

	withRole := func(role authorization.UserRole) gin.HandlerFunc {
		return func(c *gin.Context) {
			testutil.SetAuthContext(c, 1, role)
			c.Next()
		}
	}
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	r := newEngine()
	r.GET("/admin/as-user", withRole(authorization.RoleUser), m.RequireTier(authorization.TierAdmin), ok)
	r.GET("/admin/as-admin", withRole(authorization.RoleAdmin), m.RequireTier(authorization.TierAdmin), ok)
	r.GET("/auth/as-user", withRole(authorization.RoleUser), m.RequireTier(authorization.TierAuthenticated), ok)
	r.GET("/admin/anonymous", m.RequireTier(authorization.TierAdmin), ok)

	assert.Equal(t, http.StatusForbidden, testutil.Perform(r, testutil.NewJSONRequest(http.MethodGet, "/admin/as-user", nil)).Code)
	assert.Equal(t, http.StatusOK, testutil.Perform(r, testutil.NewJSONRequest(http.MethodGet, "/admin/as-admin", nil)).Code)
	assert.Equal(t, http.StatusOK, testutil.Perform(r, testutil.NewJSONRequest(http.MethodGet, "/auth/as-user", nil)).Code)
	assert.Equal(t, http.StatusUnauthorized, testutil.Perform(r, testutil.NewJSONRequest(http.MethodGet, "/admin/anonymous", nil)).Code)
}

func TestRateLimit(t *testing.T) {
	reset := time.Unix(1700000060, 0)

	t.Run("allowed sets headers", func(t *testing.T) {
		limiter := &mockLimiter{AllowFunc: func(_ context.Context, key string) (ratelimit.Decision, error) {
			assert.Equal(t, "ip:192.0.2.1", key)
			return ratelimit.Decision{Allowed: true, Limit: 10, Remaining: 9, ResetAt: reset}, nil
		}}
		r := newEngine(RateLimit(limiter, logger.NewNop()))
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := testutil.Perform(r, testutil.NewJSONRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "9", w.Header().Get("X-RateLimit-Remaining"))
		assert.Equal(t, "1700000060", w.Header().Get("X-RateLimit-Reset"))
	})

	t.Run("denied", func(t *testing.T) {
		limiter := &mockLimiter{AllowFunc: func(context.Context, string) (ratelimit.Decision, error) {
			return ratelimit.Decision{Allowed: false, Limit: 10, ResetAt: reset}, nil
		}}
		r := newEngine(RateLimit(limiter, logger.NewNop()))
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := testutil.Perform(r, testutil.NewJSONRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, string(errors.ErrorTypeRateLimited), parseError(t, w).Type)
	})

	t.Run("limiter failure fails open", func(t *testing.T) {
		limiter := &mockLimiter{AllowFunc: func(context.Context, string) (ratelimit.Decision, error) {
			return ratelimit.Decision{}, assert.AnError
		}}
		r := newEngine(RateLimit(limiter, logger.NewNop()))
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := testutil.Perform(r, testutil.NewJSONRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestErrorHandler(t *testing.T) {
	r := newEngine()
	r.GET("/not-found", func(c *gin.Context) { _ = c.Error(errors.NewNotFoundError("Movie not found")) })
	r.GET("/conflict", func(c *gin.Context) { _ = c.Error(errors.NewConflictError("Email is already in use")) })
	r.GET("/unexpected", func(c *gin.Context) { _ = c.Error(assert.AnError) })
	r.GET("/written", func(c *gin.Context) {
		c.JSON(http.StatusAccepted, gin.H{})
		_ = c.Error(assert.AnError)
	})

	w := testutil.Perform(r, testutil.NewJSONRequest(http.MethodGet, "/not-found", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	info := parseError(t, w)
	assert.Equal(t, "not_found", info.Type)
	assert.Equal(t, "Movie not found", info.Message)

	w = testutil.Perform(r, testutil.NewJSONRequest(http.MethodGet, "/conflict", nil))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = testutil.Perform(r, testutil.NewJSONRequest(http.MethodGet, "/unexpected", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	info = parseError(t, w)
	assert.Equal(t, constants.ErrMsgInternalServerError, info.Message)
	assert.Empty(t, info.Details)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())

	w = testutil.Perform(r, testutil.NewJSONRequest(http.MethodGet, "/written", nil))
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(logger.NewNop()))
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	req := testutil.NewJSONRequest(http.MethodGet, "/panic", nil)
	req.Header.Set(constants.HeaderAuthorization, "Bearer secret")
	w := testutil.Perform(r, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal_error", parseError(t, w).Type)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestRedactedHeaders(t *testing.T) {
	req := testutil.NewJSONRequest(http.MethodGet, "/x", nil)
	req.Header.Set(constants.HeaderAuthorization, "Bearer secret")

	headers := redactedHeaders(req)
	assert.Contains(t, headers, "Authorization: *")
	for _, h := range headers {
		assert.NotContains(t, h, "secret")
	}
}

func TestNotFound(t *testing.T) {
	r := gin.New()
	r.NoRoute(NotFound())

	w := testutil.Perform(r, testutil.NewJSONRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, constants.ErrMsgRouteNotFound, parseError(t, w).Message)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(constants.ContextKeyRequestID))
	})

	w := testutil.Perform(r, testutil.NewJSONRequest(http.MethodGet, "/x", nil))
	generated := w.Header().Get(constants.HeaderXRequestID)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := testutil.NewJSONRequest(http.MethodGet, "/x", nil)
	req.Header.Set(constants.HeaderXRequestID, "abc-123")
	w = testutil.Perform(r, req)
	assert.Equal(t, "abc-123", w.Header().Get(constants.HeaderXRequestID))
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := testutil.NewJSONRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := testutil.Perform(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = testutil.NewJSONRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = testutil.Perform(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	assert.Equal(t, "http://any.example", getAllowedOrigin("http://any.example", []string{"*"}))
}
