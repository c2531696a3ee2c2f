package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestJSON(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		data     any
		wantBody string
	}{
		{name: "object", code: http.StatusOK, data: map[string]string{"summary": "short"}, wantBody: `{"summary":"short"}`},
		{name: "slice", code: http.StatusOK, data: []int{1, 2}, wantBody: `[1,2]`},
		{name: "nil body", code: http.StatusNoContent, data: nil, wantBody: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			JSON(rec, tt.code, tt.data)

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
			if tt.wantBody == "" {
				assert.Empty(t, rec.Body.String())
			} else {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestJSON_EncodingError(t *testing.T) {
	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		JSON(rec, http.StatusOK, map[string]any{"bad": make(chan int)})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSafeError(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		err     error
		wantMsg string
	}{
		{name: "validation message passes", code: http.StatusBadRequest, err: errors.New("invalid content type"), wantMsg: "invalid content type"},
		{name: "unknown model passes", code: http.StatusBadRequest, err: errors.New("unknown model: gpt-9"), wantMsg: "unknown model: gpt-9"},
		{name: "internal message hidden", code: http.StatusBadRequest, err: errors.New("dial tcp 10.0.0.1:443: refused"), wantMsg: "internal server error"},
		{name: "5xx always hidden", code: http.StatusInternalServerError, err: errors.New("invalid state"), wantMsg: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			SafeError(rec, tt.code, tt.err)

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeBody(t, rec).Error)
		})
	}
}

func TestSafeError_Nil(t *testing.T) {
	rec := httptest.NewRecorder()
	SafeError(rec, http.StatusBadRequest, nil)
	assert.Empty(t, rec.Body.String())
}

func TestAppError(t *testing.T) {
	inner := errors.New("readability: no content")
	appErr := NewAppError(http.StatusBadGateway, "Failed to load article content", inner, "Check the URL")

	assert.Equal(t, "readability: no content", appErr.Error())
	assert.ErrorIs(t, appErr, inner)
	assert.Equal(t, []string{"Check the URL"}, appErr.Hints)

	bare := &AppError{UserMsg: "Please enter a valid URL", Code: http.StatusBadRequest}
	assert.Equal(t, "Please enter a valid URL", bare.Error())
}

func TestWriteError(t *testing.T) {
	t.Run("app error with hints", func(t *testing.T) {
		rec := httptest.NewRecorder()
		err := fmt.Errorf("handler: %w", NewAppError(http.StatusBadGateway, "Failed to load article content",
			errors.New("status 403 with key sk-1234567890abcdef"), "Website allows content extraction"))

		WriteError(rec, http.StatusInternalServerError, err)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Failed to load article content", body.Error)
		assert.Equal(t, []string{"Website allows content extraction"}, body.Hints)
		assert.NotContains(t, rec.Body.String(), "sk-")
	})

	t.Run("plain error falls back", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, http.StatusInternalServerError, errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "internal server error", decodeBody(t, rec).Error)
	})

	t.Run("nil error writes nothing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, http.StatusInternalServerError, nil)
		assert.Empty(t, rec.Body.String())
	})
}
