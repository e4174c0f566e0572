package server

import (
	"errors"
	"net/http"

	"github.com/emrgen/cms/internal/ai"
	"github.com/emrgen/cms/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// statusFor maps service and gateway errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, ai.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	}

	switch ai.KindOf(err) {
	case ai.KindDisabled:
		return http.StatusServiceUnavailable
	case ai.KindRateLimited:
		return http.StatusTooManyRequests
	case ai.KindUpstream:
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}

// abortWithError writes {"error": msg}. Persistence failures are logged and reported
// without their details.
func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	switch status {
	case http.StatusInternalServerError:
		logrus.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		message = "internal server error"
	case http.StatusServiceUnavailable:
		message = "ai generation is not configured"
	case http.StatusBadGateway, http.StatusTooManyRequests:
		logrus.Warnf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func abortNotFound(c *gin.Context, what string) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": what + " not found"})
}

func abortBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
}
