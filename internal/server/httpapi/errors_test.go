package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/claimcheck/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{common.ErrEmailTaken, http.StatusBadRequest},
		{fmt.Errorf("%w: x", common.ErrMalformedRequest), http.StatusUnprocessableEntity},
		{common.ErrInvalidCredentials, http.StatusUnauthorized},
		{common.ErrInvalidToken, http.StatusUnauthorized},
		{common.ErrTokenExpired, http.StatusUnauthorized},
		{common.ErrUserNotFound, http.StatusUnauthorized},
		{fmt.Errorf("db: %w", common.ErrorNotFound), http.StatusNotFound},
		{&http.MaxBytesError{Limit: 1}, http.StatusRequestEntityTooLarge},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		status, _ := errorStatus(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
	}
}

func TestBindError(t *testing.T) {
	err := bindError(errors.New("EOF"))
	assert.ErrorIs(t, err, common.ErrMalformedRequest)

	tooLarge := &http.MaxBytesError{Limit: 1}
	err = bindError(fmt.Errorf("multipart: %w", tooLarge))
	assert.NotErrorIs(t, err, common.ErrMalformedRequest)
	assert.ErrorAs(t, err, &tooLarge)
}
