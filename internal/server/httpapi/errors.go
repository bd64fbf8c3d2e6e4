package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/claimcheck/internal/common"
	"github.com/gin-gonic/gin"
)

const (
	detailUnauthorized = "could not validate credentials"
	detailNotFound     = "claim not found"
	detailInternal     = "internal error"
)

// errorStatus maps a service error to its HTTP status and client message.
func errorStatus(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "request body too large"
	case errors.Is(err, common.ErrEmailTaken):
		return http.StatusBadRequest, common.ErrEmailTaken.Error()
	case errors.Is(err, common.ErrMalformedRequest):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, common.ErrInvalidCredentials.Error()
	case errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrUserNotFound):
		return http.StatusUnauthorized, detailUnauthorized
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, detailNotFound
	}
	return http.StatusInternalServerError, detailInternal
}

func abortWithError(c *gin.Context, err error) {
	status, detail := errorStatus(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, errorResponse{Detail: detail})
}

func abortWithDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, errorResponse{Detail: detail})
}

// bindError turns a binding failure into a malformed-request error unless the
// body limit was hit.
func bindError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return fmt.Errorf("%w: %v", common.ErrMalformedRequest, err)
}
