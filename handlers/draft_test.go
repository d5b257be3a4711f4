package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"letterflow_app_go/config"
	"letterflow_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draftProviderConfig(providerURL string) *config.Config {
	return &config.Config{
		Environment:   "test",
		EmailTestMode: true,
		AppURL:        "http://localhost:8080",
		AIAPIKey:      "test-key",
		AIBaseURL:     providerURL,
		AIModel:       "test-model",
	}
}

func TestGenerateDraftHandlerUpdatesContentAndInstructions(t *testing.T) {
	testDB := setupTestDB(t)
	user := createTestUser(t, testDB, "user@example.com", "correct-horse-battery")
	letter := createTestLetter(t, testDB, user.ID, "Demand letter")

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"<p>Dear <strong>Sir</strong></p>"}}]}`))
	}))
	defer provider.Close()

	form := url.Values{}
	form.Set("instructions", "be firm")
	_, c, rec := setupEcho(http.MethodPost, "/letters/"+letter.ID+"/draft", strings.NewReader(form.Encode()))
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	c.Set("config", draftProviderConfig(provider.URL))
	c.SetParamNames("id")
	c.SetParamValues(letter.ID)
	authenticate(c, user)

	require.NoError(t, GenerateDraftHandler(c))

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "<p>Dear <strong>Sir</strong></p>", resp["content"])

	// Both the draft and the instructions that produced it are persisted
	got, err := services.GetLetter(testDB, user.ID, letter.ID)
	require.NoError(t, err)
	assert.Equal(t, "<p>Dear <strong>Sir</strong></p>", got.Content)
	assert.Equal(t, "be firm", got.Instructions)
}

func TestGenerateDraftHandlerRequiresConfiguration(t *testing.T) {
	testDB := setupTestDB(t)
	user := createTestUser(t, testDB, "user@example.com", "correct-horse-battery")
	letter := createTestLetter(t, testDB, user.ID, "Letter")

	form := url.Values{}
	form.Set("instructions", "be firm")
	_, c, _ := setupEcho(http.MethodPost, "/letters/"+letter.ID+"/draft", strings.NewReader(form.Encode()))
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	c.SetParamNames("id")
	c.SetParamValues(letter.ID)
	authenticate(c, user)

	err := GenerateDraftHandler(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.Code)
}
