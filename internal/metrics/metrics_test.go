package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskCreatedIncrementsCounter(t *testing.T) {
	m := New()
	require.Equal(t, 0.0, testutil.ToFloat64(m.TasksCreated()))

	m.TaskCreated()
	m.TaskCreated()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TasksCreated()))
}

func TestMiddlewareObservesMatchedRoute(t *testing.T) {
	m := New()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	handler := m.Middleware(mux)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/tasks/7", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, 2, testutil.CollectAndCount(m.requestDuration, "http_request_duration_seconds"))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `route="GET /api/tasks/{id}",status_code="404"`)
	assert.Contains(t, body, `route="unmatched",status_code="404"`)
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.TaskCreated()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "tasks_total 1"), "missing counter in:\n%s", body)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestStatusRecorderDefaultsToOK(t *testing.T) {
	rec := NewStatusRecorder(httptest.NewRecorder())
	_, err := rec.Write([]byte("ok"))
	require.NoError(t, err)
	rec.WriteHeader(http.StatusTeapot)

	assert.Equal(t, http.StatusOK, rec.Status())
}
