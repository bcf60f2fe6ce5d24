package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/steakz-restaurant/models"
	"github.com/yeremiapane/steakz-restaurant/utils"
	"golang.org/x/time/rate"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	utils.SilenceLoggers()
	return gin.New()
}

func do(r http.Handler, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := utils.NewTokenIssuer("secret", "steakz", time.Hour, nil)
	r := newEngine()
	r.GET("/me", AuthMiddleware(tokens), func(c *gin.Context) {
		v := Viewer(c)
		require.NotNil(t, v.BranchID)
		c.JSON(http.StatusOK, gin.H{"id": v.UserID, "role": v.Role, "branch": *v.BranchID})
	})

	branch := uint(4)
	token, err := tokens.GenerateToken(12, string(models.RoleCashier), &branch)
	require.NoError(t, err)

	w := do(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":12,"role":"CASHIER","branch":4}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", map[string]string{"Authorization": token}).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer nope"}).Code)

	tokens.Revoke(token)
	w = do(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"UNAUTHORIZED"`)
}

func TestWebSocketAuthFromQuery(t *testing.T) {
	tokens := utils.NewTokenIssuer("secret", "steakz", time.Hour, nil)
	r := newEngine()
	r.GET("/ws", WebSocketAuthMiddleware(tokens), func(c *gin.Context) { c.Status(http.StatusOK) })

	token, err := tokens.GenerateToken(1, string(models.RoleChef), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ws?token="+token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/ws", nil).Code)
}

func TestRequireRoles(t *testing.T) {
	tokens := utils.NewTokenIssuer("secret", "steakz", time.Hour, nil)
	r := newEngine()
	r.GET("/admin", AuthMiddleware(tokens), RequireRoles(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/staff", AuthMiddleware(tokens), RequireStaff(), func(c *gin.Context) { c.Status(http.StatusOK) })

	admin, _ := tokens.GenerateToken(1, string(models.RoleAdmin), nil)
	chef, _ := tokens.GenerateToken(2, string(models.RoleChef), nil)
	customer, _ := tokens.GenerateToken(3, string(models.RoleCustomer), nil)
	bearer := func(tok string) map[string]string { return map[string]string{"Authorization": "Bearer " + tok} }

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/admin", bearer(admin)).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/admin", bearer(chef)).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/staff", bearer(chef)).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/staff", bearer(customer)).Code)
}

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(rate.Every(time.Hour), 2)
	r := newEngine()
	r.GET("/", rl.RateLimit(), func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2"))
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	r := newEngine()
	r.Use(CORSMiddlewares([]string{"http://pos.test"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, http.MethodGet, "/", map[string]string{"Origin": "http://pos.test"})
	assert.Equal(t, "http://pos.test", w.Header().Get("Access-Control-Allow-Origin"))

	w = do(r, http.MethodGet, "/", map[string]string{"Origin": "http://evil.test"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = do(r, http.MethodOptions, "/", map[string]string{"Origin": "http://pos.test"})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequestIDIsSetAndReused(t *testing.T) {
	r := newEngine()
	r.Use(RequestID(), LoggerMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestID)) })

	w := do(r, http.MethodGet, "/", nil)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())

	id := "6f1c2d1e-8a53-4c5b-9d0e-7e1f0a2b3c4d"
	w = do(r, http.MethodGet, "/", map[string]string{RequestIDHeader: id})
	assert.Equal(t, id, w.Body.String())
}
