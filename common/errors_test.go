package common_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guarzo/hrmapi/common"
)

func TestNewRequestError(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantMsg   string
		wantCode  string
		wantField string
	}{
		{
			name:    "server message",
			status:  http.StatusNotFound,
			body:    `{"success":false,"message":"Employee not found"}`,
			wantMsg: "Employee not found",
		},
		{
			name:    "falls back to status text",
			status:  http.StatusUnauthorized,
			body:    `{}`,
			wantMsg: "Unauthorized",
		},
		{
			name:    "unknown status",
			status:  599,
			body:    `{}`,
			wantMsg: "Request failed",
		},
		{
			name:      "validation details",
			status:    http.StatusUnprocessableEntity,
			body:      `{"success":false,"message":"Validation failed","error_code":"VALIDATION_ERROR","details":[{"field":"email","message":"invalid"}]}`,
			wantMsg:   "Validation failed",
			wantCode:  "VALIDATION_ERROR",
			wantField: "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reqErr := common.NewRequestError(tt.status, []byte(tt.body))
			assert.Equal(t, tt.status, reqErr.StatusCode)
			assert.Equal(t, tt.wantMsg, reqErr.Message)
			assert.Equal(t, tt.wantCode, reqErr.ErrorCode)
			assert.JSONEq(t, tt.body, string(reqErr.Body))
			if tt.wantField != "" {
				require.Len(t, reqErr.Details, 1)
				assert.Equal(t, tt.wantField, reqErr.Details[0].Field)
			}
		})
	}
}

func TestStatusCode(t *testing.T) {
	wrapped := fmt.Errorf("list employees: %w", common.NewRequestError(http.StatusUnauthorized, []byte(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, common.StatusCode(wrapped))
	assert.True(t, common.IsUnauthorized(wrapped))

	assert.Equal(t, 0, common.StatusCode(errors.New("boom")))
	assert.False(t, common.IsUnauthorized(nil))
}

func TestTransportError_Unwrap(t *testing.T) {
	err := &common.TransportError{Method: http.MethodGet, URL: "http://localhost:8000/api/v1/auth/me", Err: context.Canceled}
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "GET http://localhost:8000/api/v1/auth/me")

	var reqErr *common.RequestError
	assert.False(t, errors.As(err, &reqErr))
}
