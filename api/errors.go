package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Domenick1991/aviasales/internal/domain"
	"github.com/Domenick1991/aviasales/pkg/correlation"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const problemContentType = "application/problem+json"

// Problem is an RFC 7807 problem details body.
type Problem struct {
	Type          string            `json:"type"`
	Title         string            `json:"title"`
	Status        int               `json:"status"`
	Detail        string            `json:"detail,omitempty"`
	Instance      string            `json:"instance,omitempty"`
	CorrelationID string            `json:"correlationId,omitempty"`
	Errors        map[string]string `json:"errors,omitempty"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidReference):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrFlightUnavailable):
		return http.StatusExpectationFailed
	case errors.Is(err, domain.ErrExternalFailure):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeProblem(c *gin.Context, p Problem) {
	if p.Type == "" {
		p.Type = "about:blank"
	}
	if p.Title == "" {
		p.Title = http.StatusText(p.Status)
	}
	p.Instance = c.Request.URL.Path
	p.CorrelationID = correlation.FromContext(c.Request.Context())

	c.Header("Content-Type", problemContentType)
	c.AbortWithStatusJSON(p.Status, p)
}

// respondError maps a service error to a problem response. Internal errors are
// attached to the context for the request logger and hidden from the client.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	detail := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		detail = "internal server error"
	}
	writeProblem(c, Problem{Status: status, Detail: detail})
}

func respondBindError(c *gin.Context, err error) {
	p := Problem{Status: http.StatusBadRequest, Detail: "request validation failed"}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		p.Errors = make(map[string]string, len(verrs))
		for _, fe := range verrs {
			p.Errors[fieldPath(fe)] = fieldMessage(fe)
		}
	} else {
		p.Detail = err.Error()
	}
	writeProblem(c, p)
}

// fieldPath drops the top-level struct name from the namespace: "req.details.facilities" -> "details.facilities".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "len":
		return "must have length " + fe.Param()
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gtfield":
		return "must be after " + fe.Param()
	case "nefield":
		return "must differ from " + fe.Param()
	case "datetime":
		return "must match layout " + fe.Param()
	}
	return "failed on " + fe.Tag()
}
