package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypePredicates(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		check  func(error) bool
		status int
	}{
		{"duplicate", NewDuplicateError("dup"), IsDuplicate, http.StatusConflict},
		{"not found", NewNotFoundError("missing"), IsNotFound, http.StatusNotFound},
		{"validation", NewValidationError("bad"), IsValidation, http.StatusBadRequest},
		{"conflict", NewConflictError("owned"), IsConflict, http.StatusConflict},
		{"already exists", NewAlreadyExistsError("PT", "PT#1"), IsAlreadyExists, http.StatusConflict},
		{"item not found", NewItemNotFoundError("PT", "PT#1"), IsItemNotFound, http.StatusNotFound},
		{"too many results", NewTooManyResultsError("PT", "PT#1"), IsTooManyResults, http.StatusInternalServerError},
		{"unhandled", NewUnhandledTransactionError([]string{"put"}, "boom", nil), IsUnhandledTransaction, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("context: %w", tt.err)
			assert.True(t, tt.check(wrapped))
			assert.Equal(t, tt.status, GetHTTPStatus(wrapped))
		})
	}
}

func TestItemNotFoundCarriesKeys(t *testing.T) {
	err := NewItemNotFoundError("PT#1#P#P.AAA-CCC", "D#abc")

	assert.Equal(t, "PT#1#P#P.AAA-CCC", err.Details["pk"])
	assert.Equal(t, "D#abc", err.Details["sk"])
	assert.Contains(t, err.Error(), "D#abc")
}

func TestBulkWriteErrorKeepsEveryFailure(t *testing.T) {
	first := errors.New("chunk 0 throttled")
	second := errors.New("chunk 3 throttled")

	err := NewBulkWriteError([]error{first, second})

	require.True(t, IsBulkWrite(err))
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
	assert.Contains(t, err.Error(), "2 error(s)")
}

func TestWrapPreservesType(t *testing.T) {
	err := Wrap(NewDuplicateError("dup"), "adding key")

	assert.True(t, IsDuplicate(err))
	assert.Nil(t, Wrap(nil, "nothing"))
	assert.True(t, IsType(Wrap(errors.New("plain"), "ctx"), ErrorTypeInternal))
}
