package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tracedRequest(t *testing.T) (*http.Request, *logger.TestLogBuffer) {
	t.Helper()
	ctx, buf := logger.NewTestContext(t)
	ctx = WithTraceID(ctx, "trace-1234")
	return httptest.NewRequest(http.MethodPost, "/api/reminders/trigger", nil).WithContext(ctx), buf
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRespondWithJSON(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithJSON(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusCreated,
		map[string]any{"success": true, "reminders_sent": 2})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"reminders_sent":2}`, w.Body.String())
}

func TestRespondWithJSON_EncodeFailureIsLogged(t *testing.T) {
	req, buf := tracedRequest(t)
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusOK, map[string]any{"ch": make(chan int)})

	assert.Equal(t, http.StatusOK, w.Code)
	logger.AssertLogField(t, buf, "msg", "could not encode response")
	logger.AssertLogField(t, buf, "level", "ERROR")
}

func TestRespondWithError(t *testing.T) {
	req, buf := tracedRequest(t)
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusBadRequest, "Invalid request format")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid request format", resp.Error)
	assert.Equal(t, "trace-1234", resp.TraceID)
	logger.AssertLogField(t, buf, "level", "DEBUG")
}

func TestRespondWithError_WithoutTraceID(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithError(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusNotFound, "Participant not found")

	assert.NotContains(t, w.Body.String(), "trace_id")
	assert.Equal(t, "Participant not found", decodeError(t, w).Error)
}

func TestRespondWithErrorAndLog_Levels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusInternalServerError, "ERROR"},
		{http.StatusBadGateway, "ERROR"},
		{http.StatusTooManyRequests, "WARN"},
		{http.StatusConflict, "WARN"},
		{http.StatusNotFound, "DEBUG"},
		{http.StatusBadRequest, "DEBUG"},
	}

	for _, tc := range tests {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			req, buf := tracedRequest(t)
			w := httptest.NewRecorder()

			RespondWithErrorAndLog(w, req, tc.status, "Something failed", errors.New("boom"))

			assert.Equal(t, tc.status, w.Code)
			logger.AssertLogField(t, buf, "level", tc.level)
			logger.AssertLogField(t, buf, "trace_id", "trace-1234")
			logger.AssertLogField(t, buf, "error", "boom")
			logger.AssertLogField(t, buf, "status", float64(tc.status))
		})
	}
}

func TestRespondWithErrorAndLog_HidesCause(t *testing.T) {
	req, buf := tracedRequest(t)
	w := httptest.NewRecorder()

	RespondWithErrorAndLog(w, req, http.StatusInternalServerError, "Failed to send test email",
		errors.New("smtp 550 rejected mentor@example.com"))

	assert.Equal(t, "Failed to send test email", decodeError(t, w).Error)
	assert.NotContains(t, w.Body.String(), "smtp")
	assert.NotContains(t, buf.String(), "mentor@example.com")
	logger.AssertLogContains(t, buf, "550")
}
