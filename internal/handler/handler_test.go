package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propchat/internal/model"
	"propchat/internal/repository"
	"propchat/internal/service"
	"propchat/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubDataset struct {
	props  []model.Property
	err    error
	status repository.DatasetStatus
}

func (s stubDataset) Properties() ([]model.Property, error) { return s.props, s.err }
func (s stubDataset) Status() repository.DatasetStatus      { return s.status }

func loadedDataset() stubDataset {
	return stubDataset{
		props: []model.Property{
			{
				ID: "v1", ProjectName: "Skyline Heights", BHK: "3BHK",
				FullAddress: "Baner Road, Baner, Pune",
				Price:       12000000, PriceKnown: true, CarpetArea: 1200, CarpetAreaKnown: true,
				Status: model.StatusReadyToMove, AmenityTags: []string{"lift"},
			},
			{
				ID: "v2", ProjectName: "Harbour View", BHK: "2BHK",
				FullAddress: "Chembur East, Mumbai",
				Price:       9500000, PriceKnown: true, CarpetArea: 800, CarpetAreaKnown: true,
				Status: model.StatusUnderConstruction,
			},
		},
		status: repository.DatasetStatus{State: repository.StateLoaded, Source: "csv", Properties: 2},
	}
}

func newTestRouter(ds stubDataset) *gin.Engine {
	chat := service.NewChatService(
		service.NewFallbackExtractor(nil, nil, zerolog.Nop()),
		session.NewMemoryStore(),
		ds,
		service.NewSearchEngine(true, nil, zerolog.Nop()),
		service.DefaultChatOptions(),
		zerolog.Nop(),
	)
	chatHandler := NewChatHandler(chat, 500, zerolog.Nop())
	contextHandler := NewContextHandler(chat, zerolog.Nop())
	healthHandler := NewHealthHandler(ds, BuildInfo{Version: "test", BuildTime: "now", GitCommit: "abc"})

	r := gin.New()
	r.GET("/", healthHandler.Info)
	r.GET("/health", healthHandler.Health)
	r.GET("/version", healthHandler.Version)
	api := r.Group("/api")
	api.POST("/chat", chatHandler.Chat)
	api.POST("/chat/clear-context", contextHandler.Clear)
	api.GET("/chat/context-stats", contextHandler.Stats)
	r.NoRoute(NotFound)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestChat_Validation(t *testing.T) {
	r := newTestRouter(loadedDataset())

	tests := []struct {
		name string
		body string
		code string
	}{
		{name: "no body", body: ``, code: "MISSING_MESSAGE"},
		{name: "missing", body: `{}`, code: "MISSING_MESSAGE"},
		{name: "null", body: `{"message": null}`, code: "MISSING_MESSAGE"},
		{name: "empty string", body: `{"message": ""}`, code: "MISSING_MESSAGE"},
		{name: "number", body: `{"message": 42}`, code: "INVALID_MESSAGE_TYPE"},
		{name: "object", body: `{"message": {"text": "2bhk"}}`, code: "INVALID_MESSAGE_TYPE"},
		{name: "whitespace", body: `{"message": "   \n\t"}`, code: "EMPTY_MESSAGE"},
		{name: "too long", body: `{"message": "` + strings.Repeat("a", 501) + `"}`, code: "MESSAGE_TOO_LONG"},
		{name: "not json", body: `message=2bhk`, code: "INVALID_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/api/chat", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var body model.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestChat_LengthCountsCharacters(t *testing.T) {
	r := newTestRouter(loadedDataset())

	// 500 two-byte characters are within the limit
	w := do(r, http.MethodPost, "/api/chat", `{"message": "`+strings.Repeat("é", 500)+`"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChat_Conversation(t *testing.T) {
	r := newTestRouter(loadedDataset())

	w := do(r, http.MethodPost, "/api/chat", `{"message": "3BHK in Pune"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var first model.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.True(t, strings.HasPrefix(first.ChatID, "chat_"))
	assert.Equal(t, 1, first.TotalResults)
	require.Len(t, first.Properties, 1)
	assert.Equal(t, "v1", first.Properties[0].ID)
	assert.Equal(t, "₹1.20 Cr", first.Properties[0].Price)
	assert.False(t, first.ContextApplied)

	w = do(r, http.MethodPost, "/api/chat", `{"message": "ready to move", "chatId": "`+first.ChatID+`"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var second model.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.Equal(t, first.ChatID, second.ChatID)
	assert.True(t, second.ContextApplied)
	require.NotNil(t, second.Filters.City)
	assert.Equal(t, "Pune", *second.Filters.City)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	for _, key := range []string{"summary", "properties", "filters", "totalResults", "contextApplied"} {
		assert.Contains(t, raw, key)
	}
}

func TestChat_DatasetUnavailable(t *testing.T) {
	r := newTestRouter(stubDataset{err: repository.ErrDatasetNotLoaded})

	w := do(r, http.MethodPost, "/api/chat", `{"message": "2BHK in Pune"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "DATASET_UNAVAILABLE", body.Code)
}

func TestClearContext(t *testing.T) {
	r := newTestRouter(loadedDataset())

	for _, id := range []string{"a", "b"} {
		w := do(r, http.MethodPost, "/api/chat", `{"message": "Pune", "chatId": "`+id+`"}`)
		require.Equal(t, http.StatusOK, w.Code)
	}

	tests := []struct {
		name    string
		body    string
		message string
		cleared *int
	}{
		{name: "unknown id", body: `{"chatId": "zzz"}`, message: "No context found for chat"},
		{name: "one id", body: `{"chatId": "a"}`, message: "Context cleared for chat"},
		{name: "empty body clears all", body: ``, message: "All contexts cleared (1 chats)", cleared: intPtr(1)},
		{name: "empty object on empty store", body: `{}`, message: "All contexts cleared (0 chats)", cleared: intPtr(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/api/chat/clear-context", tt.body)
			require.Equal(t, http.StatusOK, w.Code)

			var body model.ClearContextResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.True(t, body.Success)
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, tt.cleared, body.ClearedCount)
		})
	}
}

func TestContextStats(t *testing.T) {
	r := newTestRouter(loadedDataset())

	w := do(r, http.MethodPost, "/api/chat", `{"message": "2BHK in Mumbai", "chatId": "stats"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/chat/context-stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body model.ContextStatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 1, body.TotalChats)
	assert.Equal(t, "stats", body.Chats[0].ChatID)
	assert.Equal(t, 1, body.Chats[0].MessageCount)
	assert.Equal(t, "2BHK in Mumbai", body.Chats[0].LastQuery)
	assert.Equal(t, 1, body.Chats[0].LastResultCount)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		ds     stubDataset
		status string
	}{
		{name: "loaded", ds: loadedDataset(), status: "healthy"},
		{name: "failed load", ds: stubDataset{status: repository.DatasetStatus{State: repository.StateFailed, Error: "open project.csv"}}, status: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(newTestRouter(tt.ds), http.MethodGet, "/health", "")
			require.Equal(t, http.StatusOK, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body["status"])
			assert.Equal(t, string(tt.ds.status.State), body["dataset"].(map[string]any)["state"])
		})
	}
}

func TestInfoVersionAndNotFound(t *testing.T) {
	r := newTestRouter(loadedDataset())

	w := do(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "propchat")

	w = do(r, http.MethodGet, "/version", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"version":"test","build_time":"now","git_commit":"abc"}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"API endpoint not found","code":"NOT_FOUND"}`, w.Body.String())
}

func intPtr(v int) *int { return &v }
