package backend

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranfashion/console/internal/application/usecase"
	"github.com/kiranfashion/console/internal/domain"
)

func TestNewAPIError_StringMessage(t *testing.T) {
	e := newAPIError(http.StatusBadRequest, []byte(`{"message":"Email already exists","status":400}`))
	assert.Equal(t, "Email already exists", e.Text())
	assert.ErrorIs(t, e, domain.ErrInvalidInput)
}

func TestNewAPIError_FieldMapKeepsDocumentOrder(t *testing.T) {
	raw := `{"message":{"sell_amount":["must be greater than base"],"email":["Invalid email"],"name":"required"}}`
	e := newAPIError(http.StatusUnprocessableEntity, []byte(raw))

	require.Len(t, e.Fields, 3)
	assert.Equal(t, "sell_amount", e.Fields[0].Field)
	assert.Equal(t, "email", e.Fields[1].Field)
	assert.Equal(t, []string{"required"}, e.Fields[2].Messages)
	assert.Equal(t, "must be greater than base", e.Text())
}

func TestNewAPIError_Fallbacks(t *testing.T) {
	assert.Equal(t, usecase.DefaultErrorText, newAPIError(http.StatusInternalServerError, []byte(`<html>oops</html>`)).Text())
	assert.Equal(t, usecase.DefaultErrorText, newAPIError(http.StatusInternalServerError, []byte(`{"message":{}}`)).Text())
	assert.Equal(t, "Not allowed", newAPIError(http.StatusForbidden, []byte(`{"error":"Not allowed"}`)).Text())
}

func TestAPIError_Is(t *testing.T) {
	cases := []struct {
		status int
		target error
	}{
		{http.StatusUnauthorized, domain.ErrUnauthenticated},
		{http.StatusForbidden, domain.ErrForbidden},
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusBadRequest, domain.ErrInvalidInput},
		{http.StatusBadGateway, domain.ErrUnavailable},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", &APIError{Status: tc.status})
			assert.True(t, errors.Is(err, tc.target))
		})
	}
	assert.False(t, errors.Is(&APIError{Status: http.StatusNotFound}, domain.ErrUnauthenticated))
}

func TestAPIError_TextReachesUseCaseErrorText(t *testing.T) {
	err := fmt.Errorf("save: %w", newAPIError(http.StatusBadRequest, []byte(`{"message":{"phone":["Phone taken"]}}`)))
	assert.Equal(t, "Phone taken", usecase.ErrorText(err))
	assert.Equal(t, usecase.DefaultErrorText, usecase.ErrorText(errors.New("dial tcp: connection refused")))
}
