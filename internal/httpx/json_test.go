package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/campushq/campus-trust/internal/errors"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"id": "abc"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"abc"}`, rec.Body.String())
}

func TestWriteJSON_UnencodableValue(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, func() {})

	// Nothing was written before encoding failed, so the status is clean.
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unauthorized", apperrors.Unauthorized("no"), http.StatusUnauthorized, "unauthorized"},
		{"forbidden", apperrors.Forbidden("no"), http.StatusForbidden, "forbidden"},
		{"rate limited", apperrors.RateLimited("slow down", 30), http.StatusTooManyRequests, "rate_limited"},
		{"validation", apperrors.Validation("bad"), http.StatusBadRequest, "validation"},
		{"not found", apperrors.NotFound("gone"), http.StatusNotFound, "not_found"},
		{"conflict", apperrors.Conflict("dup"), http.StatusConflict, "conflict"},
		{"timeout", &apperrors.AppError{Code: apperrors.ErrCodeTimeout, Message: "slow"}, http.StatusGatewayTimeout, "timeout"},
		{"internal", apperrors.Internal("oops"), http.StatusInternalServerError, "internal"},
		{"wrapped", apperrors.Wrap(errors.New("cause"), apperrors.ErrCodeNotFound, "gone"), http.StatusNotFound, "not_found"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body["error"])
		})
	}
}

func TestWriteError_RetryAfterHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, apperrors.RateLimited("slow down", 42))

	assert.Equal(t, "42", rec.Header().Get("Retry-After"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 42, body["retryAfter"])
}

func TestWriteError_PlainErrorStaysOpaque(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("pq: connection refused"))

	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestWriteError_FieldInBody(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, apperrors.ValidationField("email", "email is required"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "email", body["field"])
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("valid body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ok"}`))
		rec := httptest.NewRecorder()

		var dst payload
		require.True(t, DecodeJSON(rec, r, &dst))
		assert.Equal(t, "ok", dst.Name)
	})

	t.Run("malformed body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
		rec := httptest.NewRecorder()

		var dst payload
		assert.False(t, DecodeJSON(rec, r, &dst))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ok","extra":1}`))
		rec := httptest.NewRecorder()

		var dst payload
		assert.False(t, DecodeJSON(rec, r, &dst))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
