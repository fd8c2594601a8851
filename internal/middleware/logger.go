package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"

	"pdfvault/internal/pkg/response"
)

// RequestLogger logs every request, logs 5xx and c.Errors in detail, and
// turns panics into a JSON 500.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	logger = logger.With(slog.String("component", "http"))

	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.Error("panic",
					requestAttrs(c, start,
						slog.String("error", fmt.Sprintf("%v", recovered)),
						slog.String("stack", string(debug.Stack())),
					)...,
				)
				response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Internal Server Error")
				return
			}

			for _, err := range c.Errors {
				logger.Error("request_error", requestAttrs(c, start, slog.String("error", err.Error()))...)
			}
			if len(c.Errors) == 0 && c.Writer.Status() >= http.StatusInternalServerError {
				logger.Error("http_error", requestAttrs(c, start)...)
				return
			}

			logger.Info("request", requestAttrs(c, start)...)
		}()

		c.Next()
	}
}

func requestAttrs(c *gin.Context, start time.Time, extra ...any) []any {
	attrs := []any{
		slog.Int("status", c.Writer.Status()),
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("client_ip", c.ClientIP()),
		slog.String("owner", c.GetString("owner")),
		slog.String("request_id", requestID(c)),
		slog.Duration("latency", time.Since(start)),
	}
	return append(attrs, extra...)
}

func requestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = c.GetHeader("X-Request-Id")
	}
	return requestID
}
