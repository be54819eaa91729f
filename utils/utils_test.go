package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()

	err := WriteJSON(w, http.StatusCreated, map[string]string{"key": "value"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"key":"value"}`, w.Body.String())
}

func TestWriteJSON_NilBody(t *testing.T) {
	w := httptest.NewRecorder()

	require.NoError(t, WriteJSON(w, http.StatusNoContent, nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestErrorWriters(t *testing.T) {
	tests := []struct {
		name      string
		write     func(w http.ResponseWriter) error
		status    int
		errorType string
		message   string
	}{
		{
			name:      "unauthorized default message",
			write:     func(w http.ResponseWriter) error { return WriteUnauthorized(w, "") },
			status:    http.StatusUnauthorized,
			errorType: "unauthorized",
			message:   "Authentication required",
		},
		{
			name:      "not found",
			write:     func(w http.ResponseWriter) error { return WriteNotFound(w, "endpoint not found") },
			status:    http.StatusNotFound,
			errorType: "not_found",
			message:   "endpoint not found",
		},
		{
			name:      "bad request",
			write:     func(w http.ResponseWriter) error { return WriteBadRequest(w, "invalid body", nil) },
			status:    http.StatusBadRequest,
			errorType: "bad_request",
			message:   "invalid body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			require.NoError(t, tt.write(w))

			assert.Equal(t, tt.status, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.errorType, resp.Error)
			assert.Equal(t, tt.message, resp.Message)
		})
	}
}

type testEvent struct {
	Type  string `json:"type" validate:"required,eq=TOKEN"`
	Token string `json:"authorizationToken" validate:"max=16"`
}

func TestDecodeJSON(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"type":"TOKEN","authorizationToken":"abc"}`))

		var event testEvent
		require.NoError(t, DecodeJSON(req, &event))
		assert.Equal(t, "abc", event.Token)
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"type":`))

		var event testEvent
		err := DecodeJSON(req, &event)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid JSON body")
	})

	t.Run("validation errors use json field names", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"type":"REQUEST","authorizationToken":"`+strings.Repeat("a", 32)+`"}`))

		var event testEvent
		err := DecodeJSON(req, &event)

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "type must be TOKEN", validationErr.Fields["type"])
		assert.Equal(t, "authorizationToken must be at most 16", validationErr.Fields["authorizationToken"])
	})
}
