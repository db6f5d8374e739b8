package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddlewareGeneratesID(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r)
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/v1/devices", nil))

	require.NotEmpty(t, seen)
	require.Equal(t, seen, recorder.Header().Get(RequestIDHeader))
}

func TestRequestIDMiddlewarePassesClientID(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r)
	}))

	request := httptest.NewRequest(http.MethodGet, "/v1/devices", nil)
	request.Header.Set(RequestIDHeader, "client-supplied-id")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	require.Equal(t, "client-supplied-id", seen)
	require.Equal(t, "client-supplied-id", recorder.Header().Get(RequestIDHeader))
}

func TestGetRequestIDOutsideMiddleware(t *testing.T) {
	require.Empty(t, GetRequestID(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestRecovererMiddlewareConvertsPanic(t *testing.T) {
	handler := RecovererMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/v1/devices", nil))

	require.Equal(t, http.StatusInternalServerError, recorder.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Equal(t, "Internal server error", body["error"].(map[string]any)["message"])
}
