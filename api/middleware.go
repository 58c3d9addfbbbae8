package api

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/aviasales/pkg/correlation"
	"github.com/Domenick1991/aviasales/pkg/logger"
	"github.com/Domenick1991/aviasales/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CorrelationID reads the correlation id header or generates one, stores it in the
// request context and echoes it back.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(correlation.Header)
		if id == "" {
			id = c.GetHeader(correlation.LegacyHeader)
		}
		if id == "" {
			id = uuid.NewString()
		}
		c.Request = c.Request.WithContext(correlation.WithID(c.Request.Context(), id))
		c.Header(correlation.Header, id)
		c.Next()
	}
}

func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(started),
			"correlation_id", correlation.FromContext(c.Request.Context()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= http.StatusInternalServerError:
			log.Error("request failed", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("request rejected", fields...)
		default:
			log.Info("request handled", fields...)
		}
	}
}

func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(route, c.Request.Method, strconv.Itoa(c.Writer.Status()), time.Since(started))
	}
}

// Recovery turns panics into 500 problem responses.
func Recovery(log logger.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		log.Error("panic recovered",
			"panic", recovered,
			"path", c.Request.URL.Path,
			"correlation_id", correlation.FromContext(c.Request.Context()),
		)
		writeProblem(c, Problem{Status: http.StatusInternalServerError, Detail: "internal server error"})
	})
}
