package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func corsRequest(r *gin.Engine, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/ping", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func corsRouter(domains ...string) *gin.Engine {
	r := gin.New()
	r.Use(CORSMiddleware(domains...))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCORSMiddleware_BrandDomains(t *testing.T) {
	r := corsRouter("kunde-a.dk")

	w := corsRequest(r, http.MethodGet, "https://kunde-a.dk")
	assert.Equal(t, "https://kunde-a.dk", w.Header().Get("Access-Control-Allow-Origin"))

	// subdomínio da marca também é aceito
	w = corsRequest(r, http.MethodGet, "https://booking.kunde-a.dk")
	assert.Equal(t, "https://booking.kunde-a.dk", w.Header().Get("Access-Control-Allow-Origin"))

	w = corsRequest(r, http.MethodGet, "https://evil.example")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_DevModeReflectsAnyOrigin(t *testing.T) {
	r := corsRouter()

	w := corsRequest(r, http.MethodGet, "http://localhost:3000")
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	r := corsRouter("kunde-a.dk")

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://kunde-a.dk")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Methods"))
}
