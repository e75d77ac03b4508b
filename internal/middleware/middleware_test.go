package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Logging(logger), Metrics())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": RequestIDFromContext(c)})
	})
	r.GET("/boom", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
	})
	return r
}

func TestRequestID(t *testing.T) {
	r := newRouter(zerolog.Nop())

	tests := []struct {
		name     string
		incoming string
	}{
		{name: "generated when missing"},
		{name: "client id kept", incoming: "req-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get(RequestIDHeader)
			require.NotEmpty(t, got)
			if tt.incoming != "" {
				assert.Equal(t, tt.incoming, got)
			} else {
				assert.Len(t, got, 36)
			}

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, got, body["request_id"])
		})
	}
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	r := newRouter(zerolog.New(&buf))

	req := httptest.NewRequest(http.MethodGet, "/boom?x=1", nil)
	req.Header.Set(RequestIDHeader, "req-log")
	r.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "req-log", line["request_id"])
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "/boom", line["path"])
	assert.Equal(t, "x=1", line["query"])
	assert.EqualValues(t, 500, line["status"])
}

func requestCount(t *testing.T, endpoint, status string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != "propchat_http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			if hasLabels(m, map[string]string{"endpoint": endpoint, "status": status}) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func hasLabels(m *dto.Metric, want map[string]string) bool {
	matched := 0
	for _, lp := range m.GetLabel() {
		if v, ok := want[lp.GetName()]; ok && v == lp.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}

func TestMetrics(t *testing.T) {
	r := newRouter(zerolog.Nop())

	beforePing := requestCount(t, "/ping", "200")
	beforeMissing := requestCount(t, "unmatched", "404")

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope/123", nil))

	assert.Equal(t, beforePing+1, requestCount(t, "/ping", "200"))
	assert.Equal(t, beforeMissing+1, requestCount(t, "unmatched", "404"))
}
