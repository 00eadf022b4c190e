package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		path       string
		statusCode int
	}{
		{
			name:       "normalizes loan path",
			method:     http.MethodGet,
			path:       "/api/prestamos/01ABC123",
			statusCode: http.StatusTeapot,
		},
		{
			name:       "keeps non-matching path as-is",
			method:     http.MethodPost,
			path:       "/health",
			statusCode: http.StatusCreated,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			httpRequestsTotal.Reset()
			httpRequestDuration.Reset()
			httpRequestsInFlight.Set(0)

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(tc.statusCode)
			})

			req := httptest.NewRequest(tc.method, tc.path, nil)
			rr := httptest.NewRecorder()

			Metrics(next).ServeHTTP(rr, req)

			if !handlerCalled {
				t.Fatalf("next handler was not invoked")
			}

			if got := testutil.ToFloat64(httpRequestsInFlight); got != 0 {
				t.Fatalf("expected in-flight gauge to return to 0, got %v", got)
			}

			normalized := normalizePath(tc.path)
			counter := httpRequestsTotal.WithLabelValues(tc.method, normalized, strconv.Itoa(tc.statusCode))
			if got := testutil.ToFloat64(counter); got != 1 {
				t.Fatalf("expected 1 recorded request, got %v", got)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	testCases := []struct {
		path string
		want string
	}{
		{"/api/prestamos/01ABC123", "/api/prestamos/:id"},
		{"/api/prestamos/01ABC123/pagos", "/api/prestamos/:id/pagos"},
		{"/api/prestamos/debe", "/api/prestamos/debe"},
		{"/api/prestamos/pagados/clientes", "/api/prestamos/pagados/clientes"},
		{"/api/prestamos/reporte/diario", "/api/prestamos/reporte/diario"},
		{"/api/prestamos/", "/api/prestamos/"},
		{"/api/capital", "/api/capital"},
		{"/health", "/health"},
	}

	for _, tc := range testCases {
		if got := normalizePath(tc.path); got != tc.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
