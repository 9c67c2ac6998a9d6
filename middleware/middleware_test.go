package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"barberbook/config"
	"barberbook/services/backend"
	"barberbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authRouter(t *testing.T) *gin.Engine {
	t.Helper()
	config.AppConfig.JWTSecret = "test-secret"
	t.Cleanup(func() { config.AppConfig.JWTSecret = "" })

	r := gin.New()
	r.GET("/me", JWTAuthMiddleware(), func(c *gin.Context) {
		creds := backend.CredentialsFrom(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"userID":  c.GetString(CtxUserID),
			"staff":   c.GetBool(CtxIsStaff),
			"email":   c.GetString(CtxEmail),
			"refresh": creds.Refresh,
		})
	})
	r.GET("/admin", JWTAuthMiddleware(), AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestJWTAuthMiddleware(t *testing.T) {
	r := authRouter(t)
	token, err := utils.GenerateToken("test-secret", "5", "barber", "", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(RefreshTokenHeader, "refresh-1")
	req.Header.Set("X-User-Email", "nick@shop.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userID":"5","staff":true,"email":"nick@shop.com","refresh":"refresh-1"}`, w.Body.String())
}

func TestJWTAuthMiddleware_Rejects(t *testing.T) {
	r := authRouter(t)

	for name, header := range map[string]string{
		"missing":   "",
		"no bearer": "Token abc",
		"bad token": "Bearer abc.def.ghi",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAdminOnly(t *testing.T) {
	r := authRouter(t)
	for role, want := range map[string]int{"admin": http.StatusNoContent, "barber": http.StatusForbidden, "customer": http.StatusForbidden} {
		token, err := utils.GenerateToken("test-secret", "1", role, "", time.Hour)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, role)
	}
}

func TestAdminOnly_RequiresSecret(t *testing.T) {
	r := authRouter(t)
	config.AppConfig.JWTSecret = ""

	// Unsigned tokens pass authentication but not the admin guard.
	token, err := utils.GenerateToken("any-key", "1", "admin", "", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	// A different client has its own budget.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "10.0.0.9")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zap.WarnLevel, entry.Level)
	assert.Equal(t, "/missing", entry.ContextMap()["path"])
	assert.EqualValues(t, 404, entry.ContextMap()["status"])
}
