package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", Invalid("origin", "is required"), http.StatusBadRequest},
		{"domain", Domain("load %s is not delivered", "l1"), http.StatusBadRequest},
		{"not found", NotFound("load"), http.StatusNotFound},
		{"wrapped not found", pkgerrors.Wrap(NotFound("load"), "get load"), http.StatusNotFound},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("not your load"), http.StatusForbidden},
		{"conflict", fmt.Errorf("accept bid: %w", ErrConflict), http.StatusConflict},
		{"unclassified", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"weight": "must be positive", "origin": "is required"}}
	assert.Equal(t, "validation failed: origin: is required, weight: must be positive", err.Error())
}
