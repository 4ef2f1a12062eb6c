package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	sentinel := errors.New("value is empty")

	tests := []struct {
		name         string
		err          error
		wantMessage  string
		wantSentinel bool
		wantCategory ErrorCategory
	}{
		{
			name:         "plain",
			err:          NewValidationError("size", "size must be positive"),
			wantMessage:  "validation error on field 'size': size must be positive",
			wantCategory: CategoryInvalidRequest,
		},
		{
			name:         "wrapped_sentinel",
			err:          WrapValidationError("numeric", "value is empty", sentinel),
			wantMessage:  "validation error on field 'numeric': value is empty",
			wantSentinel: true,
			wantCategory: CategoryInvalidRequest,
		},
		{
			name:         "nested_in_fmt",
			err:          fmt.Errorf("tag 59: %w", WrapValidationError("ans", "bad", sentinel)),
			wantMessage:  "tag 59: validation error on field 'ans': bad",
			wantSentinel: true,
			wantCategory: CategoryInvalidRequest,
		},
		{
			name:         "not_validation",
			err:          errors.New("disk full"),
			wantMessage:  "disk full",
			wantCategory: CategorySystemError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.err.Error())
			assert.Equal(t, tt.wantSentinel, errors.Is(tt.err, sentinel))
			assert.Equal(t, tt.wantCategory, Category(tt.err))
			assert.Equal(t, tt.wantCategory == CategoryInvalidRequest, IsValidationError(tt.err))
		})
	}
}
