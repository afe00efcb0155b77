package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/internal/authz"
)

var testSecret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	handler := func(c *gin.Context) {
		uid, _ := c.Get("user_id")
		role, _ := c.Get("role_id")
		c.JSON(http.StatusOK, gin.H{"user_id": uid, "role_id": role})
	}
	r.GET("/api/things", handler)
	r.POST("/api/things", handler)
	r.GET("/healthz", handler)
	return r
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token, exp, err := IssueToken(testSecret, Claims{UserID: 7, RoleID: authz.RoleAdmin}, time.Minute)
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	w := do(newRouter(AuthMiddleware(testSecret)), http.MethodGet, "/api/things", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7,"role_id":50}`, w.Body.String())
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	r := newRouter(AuthMiddleware(testSecret))

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/things", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/things", "garbage").Code)

	other, _, err := IssueToken([]byte("other"), Claims{UserID: 1, RoleID: authz.RoleAdmin}, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/things", other).Code)

	expired, _, err := IssueToken(testSecret, Claims{UserID: 1, RoleID: authz.RoleAdmin}, -time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/things", expired).Code)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: 1, RoleID: authz.RoleAdmin})
	s, err := noExp.SignedString(testSecret)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/things", s).Code)
}

func TestAuthMiddleware_PublicPath(t *testing.T) {
	w := do(newRouter(AuthMiddleware(testSecret)), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoles(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("role_id", authz.RoleStaff); c.Next() })
	r.GET("/admin", RequireRoles(authz.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/staff", RequireRoles(authz.RoleStaff, authz.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/admin", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/staff", "").Code)
}

func TestReadOnlyGuard(t *testing.T) {
	setRole := func(role int) gin.HandlerFunc {
		return func(c *gin.Context) { c.Set("role_id", role); c.Next() }
	}

	viewer := newRouter(setRole(authz.RoleViewer), ReadOnlyGuard())
	assert.Equal(t, http.StatusOK, do(viewer, http.MethodGet, "/api/things", "").Code)
	assert.Equal(t, http.StatusForbidden, do(viewer, http.MethodPost, "/api/things", "").Code)

	staff := newRouter(setRole(authz.RoleStaff), ReadOnlyGuard())
	assert.Equal(t, http.StatusOK, do(staff, http.MethodPost, "/api/things", "").Code)
}

func TestRequestID(t *testing.T) {
	r := newRouter(RequestID())

	w := do(r, http.MethodGet, "/api/things", "")
	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/things", nil)
	req.Header.Set(RequestIDHeader, id)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, id, w.Header().Get(RequestIDHeader))
}
