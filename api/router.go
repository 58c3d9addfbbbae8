package api

import (
	"context"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/Domenick1991/aviasales/pkg/logger"
	"github.com/Domenick1991/aviasales/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registrar mounts a resource's routes on its group.
type Registrar interface {
	Register(router *gin.RouterGroup)
}

type HealthCheck func(ctx context.Context) error

type RouterOptions struct {
	Log          logger.Logger
	Metrics      *metrics.Metrics
	Gatherer     prometheus.Gatherer
	HealthChecks map[string]HealthCheck
}

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors report json names instead of Go field names.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := f.Tag.Get("json")
			if name == "" {
				name = f.Tag.Get("form")
			}
			name, _, _ = strings.Cut(name, ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// NewRouter builds the HTTP API. Each resource is mounted under /api/{name}.
func NewRouter(opts RouterOptions, resources map[string]Registrar) *gin.Engine {
	useJSONFieldNames()

	router := gin.New()
	router.Use(CorrelationID(), RequestLogger(opts.Log), Metrics(opts.Metrics), Recovery(opts.Log))

	router.NoRoute(func(c *gin.Context) {
		writeProblem(c, Problem{Status: http.StatusNotFound, Detail: "route not found"})
	})

	router.GET("/health", healthHandler(opts.HealthChecks))
	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	group := router.Group("/api")
	for name, resource := range resources {
		resource.Register(group.Group("/" + name))
	}
	return router
}

func healthHandler(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(c.Request.Context()); err != nil {
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		state := "ok"
		if status != http.StatusOK {
			state = "degraded"
		}
		c.JSON(status, gin.H{"status": state, "checks": results})
	}
}
