package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/customers/internal/store"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	payload := map[string]string{"hello": "world"}

	WriteJSON(w, http.StatusOK, payload)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &body)
	require.NoError(t, err)
	assert.Equal(t, "world", body["hello"])
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, http.StatusBadRequest, "something went wrong")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &body)
	require.NoError(t, err)
	assert.Equal(t, "something went wrong", body.Error)
}

func TestWriteJSON_EmptySlice(t *testing.T) {
	w := httptest.NewRecorder()

	WriteJSON(w, http.StatusOK, []string{})

	assert.Equal(t, "[]\n", w.Body.String())
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", fmt.Errorf("get customer x: %w", store.ErrNotFound), http.StatusNotFound, "customer not found"},
		{"duplicate", fmt.Errorf("create customer a@b.c: %w", store.ErrDuplicateEmail), http.StatusConflict, "customer with this email already exists"},
		{"other", errors.New("connection refused"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/customers", nil)

			WriteServiceError(w, r, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body.Error)
		})
	}
}

func TestWriteServiceError_LogsUnexpected(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	r := httptest.NewRequest(http.MethodGet, "/customers", nil)
	r = r.WithContext(logger.WithContext(r.Context()))

	WriteServiceError(httptest.NewRecorder(), r, errors.New("connection refused"))
	assert.Contains(t, buf.String(), "connection refused")

	buf.Reset()
	WriteServiceError(httptest.NewRecorder(), r, store.ErrNotFound)
	assert.Empty(t, buf.String())
}
