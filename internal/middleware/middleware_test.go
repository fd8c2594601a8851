package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"pdfvault/internal/pkg/logger"
)

func TestCORS_AllowedOrigin(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"http://localhost:63342"}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("Origin", "http://localhost:63342")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:63342", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_UnknownOriginNotReflected(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"http://localhost:63342"}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("Origin", "http://evil.test")
	router.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"http://localhost:63342"}))
	router.POST("/x", func(c *gin.Context) { t.Fatal("preflight reached handler") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:63342")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequestLogger_RecoversPanic(t *testing.T) {
	var buf bytes.Buffer
	router := gin.New()
	router.Use(RequestLogger(logger.NewWithWriter(&buf, "info")))
	router.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_SERVER_ERROR")
	assert.Contains(t, buf.String(), "kaboom")
}

func TestRequestLogger_LogsRequest(t *testing.T) {
	var buf bytes.Buffer
	router := gin.New()
	router.Use(RequestLogger(logger.NewWithWriter(&buf, "info")))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/ok", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, buf.String(), `"path":"/ok"`)
	assert.Contains(t, buf.String(), `"component":"http"`)
}

func TestMetrics_PassesThrough(t *testing.T) {
	router := gin.New()
	router.Use(Metrics())
	router.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusAccepted) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/items/7", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
}
