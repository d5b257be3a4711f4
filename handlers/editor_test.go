package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"letterflow_app_go/pagination"
	"letterflow_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditorHandlerRendersChrome(t *testing.T) {
	testDB := setupTestDB(t)
	user := createTestUser(t, testDB, "user@example.com", "correct-horse-battery")
	letter := createTestLetter(t, testDB, user.ID, "Editor letter")

	_, c, rec := setupEcho(http.MethodGet, "/letters/"+letter.ID+"/edit", nil)
	c.SetParamNames("id")
	c.SetParamValues(letter.ID)
	authenticate(c, user)

	require.NoError(t, EditorHandler(c))

	body := rec.Body.String()
	assert.Contains(t, body, `id="page-stack"`)
	assert.Contains(t, body, `class="page-frame"`)
	assert.Contains(t, body, `contenteditable="true"`)
	assert.Contains(t, body, "mask-image")
	assert.Contains(t, body, "1 page(s)")
}

func TestSaveLetterContentHandler(t *testing.T) {
	testDB := setupTestDB(t)
	user := createTestUser(t, testDB, "user@example.com", "correct-horse-battery")
	letter := createTestLetter(t, testDB, user.ID, "Letter")

	payload := `{"content":"<p>Dear <b>Sir</b></p>"}`
	_, c, rec := setupEcho(http.MethodPut, "/letters/"+letter.ID+"/content", strings.NewReader(payload))
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c.SetParamNames("id")
	c.SetParamValues(letter.ID)
	authenticate(c, user)

	require.NoError(t, SaveLetterContentHandler(c))

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "<p>Dear <strong>Sir</strong></p>", resp["content"])
}

func TestSaveLetterContentHandlerRejectsInvalidMarkup(t *testing.T) {
	testDB := setupTestDB(t)
	user := createTestUser(t, testDB, "user@example.com", "correct-horse-battery")
	letter := createTestLetter(t, testDB, user.ID, "Letter")

	payload := `{"content":"<div>nope</div>"}`
	_, c, _ := setupEcho(http.MethodPut, "/letters/"+letter.ID+"/content", strings.NewReader(payload))
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c.SetParamNames("id")
	c.SetParamValues(letter.ID)
	authenticate(c, user)

	err := SaveLetterContentHandler(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.Code)

	// Stored content untouched
	got, err := services.GetLetter(testDB, user.ID, letter.ID)
	require.NoError(t, err)
	assert.Equal(t, "<p></p>", got.Content)
}

func TestUpdateLetterMarginsHandler(t *testing.T) {
	testDB := setupTestDB(t)
	user := createTestUser(t, testDB, "user@example.com", "correct-horse-battery")
	letter := createTestLetter(t, testDB, user.ID, "Letter")

	form := url.Values{}
	form.Set("top", "100")
	form.Set("bottom", "-8")
	_, c, rec := setupEcho(http.MethodPut, "/letters/"+letter.ID+"/margins", strings.NewReader(form.Encode()))
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	c.SetParamNames("id")
	c.SetParamValues(letter.ID)
	authenticate(c, user)

	require.NoError(t, UpdateLetterMarginsHandler(c))

	var m pagination.Margins
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, 100, m.Top)
	assert.Equal(t, 0, m.Bottom) // clamped
	assert.Equal(t, 72, m.Left)  // untouched side keeps its value
}

func TestPaginationHandlerComputesChrome(t *testing.T) {
	testDB := setupTestDB(t)
	user := createTestUser(t, testDB, "user@example.com", "correct-horse-battery")
	letter := createTestLetter(t, testDB, user.ID, "Letter")

	payload := `{"content_height_px":2000}`
	_, c, rec := setupEcho(http.MethodPost, "/letters/"+letter.ID+"/pagination", strings.NewReader(payload))
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c.SetParamNames("id")
	c.SetParamValues(letter.ID)
	authenticate(c, user)

	require.NoError(t, PaginationHandler(c))

	var resp struct {
		Geometry      pagination.Geometry `json:"geometry"`
		TotalHeightPx int                 `json:"total_height_px"`
		FramesHTML    string              `json:"frames_html"`
		MaskCSS       string              `json:"mask_css"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// 2000px of content at default margins (979px usable) needs 3 pages
	assert.Equal(t, 3, resp.Geometry.PageCount)
	assert.Equal(t, 3*1123+2*20, resp.TotalHeightPx)
	assert.Equal(t, 3, strings.Count(resp.FramesHTML, `class="page-frame"`))
	assert.True(t, strings.HasPrefix(resp.MaskCSS, "linear-gradient(to bottom,"))
	assert.Contains(t, resp.MaskCSS, "transparent 0px")
}

func TestUpdateLetterMarginsHandlerPageSize(t *testing.T) {
	testDB := setupTestDB(t)
	user := createTestUser(t, testDB, "user@example.com", "correct-horse-battery")
	letter := createTestLetter(t, testDB, user.ID, "Letter")

	form := url.Values{}
	form.Set("size", "legal")
	_, c, rec := setupEcho(http.MethodPut, "/letters/"+letter.ID+"/margins", strings.NewReader(form.Encode()))
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	c.SetParamNames("id")
	c.SetParamValues(letter.ID)
	authenticate(c, user)

	require.NoError(t, UpdateLetterMarginsHandler(c))
	assert.Contains(t, rec.Body.String(), `"page_size":"legal"`)

	got, err := services.GetLetter(testDB, user.ID, letter.ID)
	require.NoError(t, err)
	assert.Equal(t, "legal", got.PageSize)
}

func TestPaginationHandlerUsesLetterPageSize(t *testing.T) {
	testDB := setupTestDB(t)
	user := createTestUser(t, testDB, "user@example.com", "correct-horse-battery")
	letter := createTestLetter(t, testDB, user.ID, "Letter")

	_, err := services.UpdateLetterPageSize(testDB, user.ID, letter.ID, "legal")
	require.NoError(t, err)

	payload := `{"content_height_px":2000}`
	_, c, rec := setupEcho(http.MethodPost, "/letters/"+letter.ID+"/pagination", strings.NewReader(payload))
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c.SetParamNames("id")
	c.SetParamValues(letter.ID)
	authenticate(c, user)

	require.NoError(t, PaginationHandler(c))

	var resp struct {
		Geometry pagination.Geometry `json:"geometry"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// Legal pages: 14" tall at 96dpi, 1200px usable with default margins
	assert.Equal(t, 816, resp.Geometry.PageWidthPx)
	assert.Equal(t, 1344, resp.Geometry.PageHeightPx)
	assert.Equal(t, 2, resp.Geometry.PageCount)
}

func TestPaginationHandlerUnknownLetter(t *testing.T) {
	testDB := setupTestDB(t)
	user := createTestUser(t, testDB, "user@example.com", "correct-horse-battery")

	payload := `{"content_height_px":500}`
	_, c, _ := setupEcho(http.MethodPost, "/letters/missing/pagination", strings.NewReader(payload))
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c.SetParamNames("id")
	c.SetParamValues("missing")
	authenticate(c, user)

	err := PaginationHandler(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}
