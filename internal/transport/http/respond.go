package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"quizhost-service/internal/domain"
)

type errorResponse struct {
	Message string `json:"message"`
}

// statusFor maps the domain error taxonomy onto HTTP. Repeated submissions
// keep the 403 the original clients expect; other conflicts are 409.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrAlreadyAttempted):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		// Store faults and the like: log the cause, hide it from the caller.
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, errorResponse{Message: "error occurred"})
		return
	}
	c.JSON(status, errorResponse{Message: err.Error()})
}
