package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tripcraft/internal/ai"
	"tripcraft/internal/bootstrap"
	"tripcraft/internal/config"
	"tripcraft/internal/model"
)

type stubAI struct {
	doc    json.RawMessage
	chunks []string
}

func (s *stubAI) GenerateJSON(context.Context, string) (json.RawMessage, error) {
	return s.doc, nil
}

func (s *stubAI) StreamChat(_ context.Context, _ string, _ []ai.ChatMessage, _ string, onChunk func(string) error) (string, error) {
	full := ""
	for _, chunk := range s.chunks {
		full += chunk
		if err := onChunk(chunk); err != nil {
			return "", err
		}
	}
	return full, nil
}

func newTestApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Itinerary{}, &model.ChatMessage{}))

	cfg := &config.Config{}
	cfg.App.Name = "tripcraft-test"
	cfg.App.GinMode = gin.TestMode
	cfg.Auth.JWTSecret = "e2e-secret"
	cfg.Auth.JWTExpireMinute = 60

	return &bootstrap.App{
		Config: cfg,
		DB:     db,
		AI: &stubAI{
			doc:    json.RawMessage(`{"destination":"Lisbon","itinerary":{"day1":{"title":"Arrival"}}}`),
			chunks: []string{"Day 1: ", "arrive."},
		},
	}
}

func doJSON(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func registerAndLogin(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	rec := doJSON(router, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var login struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.Equal(t, "bearer", login.TokenType)
	require.NotEmpty(t, login.AccessToken)
	return login.AccessToken
}

func TestAuthFlow(t *testing.T) {
	router := NewRouter(newTestApp(t))

	rec := doJSON(router, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "a@b.com", "password": "pw1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var registered map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))
	assert.Equal(t, "a@b.com", registered["email"])
	assert.NotZero(t, registered["id"])
	assert.NotContains(t, registered, "password")
	assert.NotContains(t, rec.Body.String(), "pw1")

	// Duplicate email.
	rec = doJSON(router, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "a@b.com", "password": "pw2",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already registered")

	// Bad credentials.
	rec = doJSON(router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "a@b.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

	token := registerAndLogin(t, router, "c@d.com", "pw3")

	rec = doJSON(router, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "c@d.com")

	rec = doJSON(router, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.Contains(t, rec.Body.String(), "could not validate credentials")
}

func TestItineraryGenerate(t *testing.T) {
	router := NewRouter(newTestApp(t))

	rec := doJSON(router, http.MethodPost, "/api/itinerary/generate", "", gin.H{
		"destination":  "Lisbon",
		"start_date":   "2026-09-01",
		"end_date":     "2026-09-05",
		"budget":       "mid-range",
		"travel_style": "relaxed",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "Lisbon", doc["destination"])
}

func TestItineraryGenerate_NoProvider(t *testing.T) {
	app := newTestApp(t)
	app.AI = nil
	router := NewRouter(app)

	rec := doJSON(router, http.MethodPost, "/api/itinerary/generate", "", gin.H{
		"destination":  "Lisbon",
		"start_date":   "2026-09-01",
		"end_date":     "2026-09-05",
		"budget":       "low",
		"travel_style": "backpacking",
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "detail")
}

func TestItinerarySaveAndOwnership(t *testing.T) {
	router := NewRouter(newTestApp(t))

	tokenA := registerAndLogin(t, router, "a@b.com", "pw1")
	tokenB := registerAndLogin(t, router, "b@b.com", "pw2")

	rec := doJSON(router, http.MethodPost, "/api/itinerary/save", tokenA, gin.H{
		"destination":    "Kyoto",
		"start_date":     "2026-04-01",
		"end_date":       "2026-04-07",
		"budget":         "high",
		"travel_style":   "culture",
		"itinerary_json": gin.H{"destination": "Kyoto", "itinerary": gin.H{"day1": gin.H{"title": "Temples"}}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var saved struct {
		Message string `json:"message"`
		ID      uint   `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.NotZero(t, saved.ID)
	assert.NotEmpty(t, saved.Message)

	// Owner sees the record with the payload inlined as an object.
	rec = doJSON(router, http.MethodGet, "/api/itinerary/saved", tokenA, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var mine []struct {
		Destination   string          `json:"destination"`
		ItineraryJSON json.RawMessage `json:"itinerary_json"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "Kyoto", mine[0].Destination)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(mine[0].ItineraryJSON, &payload))
	assert.Equal(t, "Kyoto", payload["destination"])

	// The other user's listing is empty.
	rec = doJSON(router, http.MethodGet, "/api/itinerary/saved", tokenB, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var theirs []json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &theirs))
	assert.Empty(t, theirs)

	// Saving requires a token.
	rec = doJSON(router, http.MethodPost, "/api/itinerary/save", "", gin.H{
		"destination": "X", "itinerary_json": gin.H{},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChatStream(t *testing.T) {
	router := NewRouter(newTestApp(t))

	rec := doJSON(router, http.MethodPost, "/api/chat/stream", "", gin.H{
		"message": "Plan a weekend in Lisbon",
		"history": []gin.H{{"role": "user", "content": "hi"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Equal(t, "Day 1: arrive.", rec.Body.String())
}

func TestChatStream_MissingMessage(t *testing.T) {
	router := NewRouter(newTestApp(t))

	rec := doJSON(router, http.MethodPost, "/api/chat/stream", "", gin.H{"history": []gin.H{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	router := NewRouter(newTestApp(t))

	rec := doJSON(router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tripcraft-test")
}
