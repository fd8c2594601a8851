package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pdfvault/internal/domain/document"
	"pdfvault/internal/middleware"
	jwtsvc "pdfvault/internal/pkg/jwt"
)

// NewRouter builds the gin engine: health and metrics are public, the file
// API under /api/v1 requires a bearer token.
func NewRouter(logger *slog.Logger, corsOrigins []string, j *jwtsvc.Service, documentHandler *document.Handler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(corsOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(j))
		{
			document.RegisterRoutes(protected, documentHandler)
		}
	}

	return r
}
