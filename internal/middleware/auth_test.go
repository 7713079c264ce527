package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KundeServices/booking-gateway/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.GET("/admin", AuthMiddleware(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": c.GetString(ContextAdminEmail)})
	})
	return r
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func get(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	r := protectedRouter(cfg)

	valid := jwt.MapClaims{
		"sub":  "admin@kunde.dk",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}

	t.Run("valid token", func(t *testing.T) {
		w := get(r, "Bearer "+signToken(t, "test-secret", valid))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "admin@kunde.dk")
	})

	t.Run("missing header", func(t *testing.T) {
		w := get(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		w := get(r, "Token abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		w := get(r, "Bearer "+signToken(t, "other-secret", valid))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := jwt.MapClaims{
			"sub":  "admin@kunde.dk",
			"role": "admin",
			"exp":  time.Now().Add(-time.Hour).Unix(),
		}
		w := get(r, "Bearer "+signToken(t, "test-secret", expired))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-admin role", func(t *testing.T) {
		user := jwt.MapClaims{
			"sub":  "user@kunde.dk",
			"role": "viewer",
			"exp":  time.Now().Add(time.Hour).Unix(),
		}
		w := get(r, "Bearer "+signToken(t, "test-secret", user))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
