package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propchat/internal/config"
	"propchat/internal/handler"
	"propchat/internal/repository"
	"propchat/internal/service"
	"propchat/internal/session"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server: config.ServerConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}

	dataset := repository.NewDatasetStore(nil, zerolog.Nop())
	chat := service.NewChatService(
		service.NewFallbackExtractor(nil, nil, zerolog.Nop()),
		session.NewMemoryStore(),
		dataset,
		service.NewSearchEngine(true, nil, zerolog.Nop()),
		service.DefaultChatOptions(),
		zerolog.Nop(),
	)

	return newRouter(cfg, routeHandlers{
		chat:    handler.NewChatHandler(chat, 500, zerolog.Nop()),
		context: handler.NewContextHandler(chat, zerolog.Nop()),
		health:  handler.NewHealthHandler(dataset, handler.BuildInfo{Version: "test"}),
	}, zerolog.Nop())
}

func TestRouter(t *testing.T) {
	r := testRouter(t)

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		status   int
		contains string
	}{
		{name: "info", method: http.MethodGet, path: "/", status: http.StatusOK, contains: "propchat"},
		{name: "health before load", method: http.MethodGet, path: "/health", status: http.StatusOK, contains: "NOT_LOADED"},
		{name: "chat before load", method: http.MethodPost, path: "/api/chat", body: `{"message":"2bhk"}`, status: http.StatusServiceUnavailable, contains: "DATASET_UNAVAILABLE"},
		{name: "stats", method: http.MethodGet, path: "/api/chat/context-stats", status: http.StatusOK, contains: `"totalChats":0`},
		{name: "unknown api route", method: http.MethodGet, path: "/api/listings", status: http.StatusNotFound, contains: "API endpoint not found"},
		{name: "unknown page", method: http.MethodGet, path: "/about", status: http.StatusNotFound, contains: "Not found"},
		{name: "metrics", method: http.MethodGet, path: "/metrics", status: http.StatusOK, contains: "propchat_http_requests_total"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.contains)
			assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
