package services

import (
	"testing"

	"letterflow_app_go/models"
	"letterflow_app_go/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLetterTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Letter{},
		&models.SourceDocument{},
	))
	return db
}

func createLetterTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	user := &models.User{Name: "Test User", Email: email, Password: "x", Role: models.RoleMember, IsActive: true}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestCreateLetterDefaults(t *testing.T) {
	db := setupLetterTestDB(t)
	user := createLetterTestUser(t, db, "a@example.com")

	letter, err := CreateLetter(db, user.ID, "  Demand letter  ")
	require.NoError(t, err)

	assert.Equal(t, "Demand letter", letter.Title)
	assert.Equal(t, models.LetterStatusDraft, letter.Status)
	assert.Equal(t, "<p></p>", letter.Content)
	assert.Equal(t, pagination.DefaultMargins(), letter.Margins())
}

func TestCreateLetterRequiresTitle(t *testing.T) {
	db := setupLetterTestDB(t)
	user := createLetterTestUser(t, db, "a@example.com")

	_, err := CreateLetter(db, user.ID, "   ")
	assert.Error(t, err)
}

func TestGetLetterScopedToOwner(t *testing.T) {
	db := setupLetterTestDB(t)
	owner := createLetterTestUser(t, db, "owner@example.com")
	other := createLetterTestUser(t, db, "other@example.com")

	letter, err := CreateLetter(db, owner.ID, "Private")
	require.NoError(t, err)

	_, err = GetLetter(db, other.ID, letter.ID)
	assert.Error(t, err)

	got, err := GetLetter(db, owner.ID, letter.ID)
	require.NoError(t, err)
	assert.Equal(t, letter.ID, got.ID)
}

func TestUpdateLetterContentCanonicalizes(t *testing.T) {
	db := setupLetterTestDB(t)
	user := createLetterTestUser(t, db, "a@example.com")
	letter, err := CreateLetter(db, user.ID, "Letter")
	require.NoError(t, err)

	updated, err := UpdateLetterContent(db, user.ID, letter.ID, "<p>Dear <b>Sir</b></p>")
	require.NoError(t, err)
	assert.Equal(t, "<p>Dear <strong>Sir</strong></p>", updated.Content)
}

func TestUpdateLetterContentRejectsInvalidMarkup(t *testing.T) {
	db := setupLetterTestDB(t)
	user := createLetterTestUser(t, db, "a@example.com")
	letter, err := CreateLetter(db, user.ID, "Letter")
	require.NoError(t, err)

	_, err = UpdateLetterContent(db, user.ID, letter.ID, "<div>nope</div>")
	assert.Error(t, err)

	// Stored content is untouched
	got, err := GetLetter(db, user.ID, letter.ID)
	require.NoError(t, err)
	assert.Equal(t, "<p></p>", got.Content)
}

func TestUpdateLetterMarginsClampsNegative(t *testing.T) {
	db := setupLetterTestDB(t)
	user := createLetterTestUser(t, db, "a@example.com")
	letter, err := CreateLetter(db, user.ID, "Letter")
	require.NoError(t, err)

	updated, err := UpdateLetterMargins(db, user.ID, letter.ID, pagination.Margins{Top: -5, Bottom: 40, Left: 60, Right: 60})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.MarginTop)
	assert.Equal(t, 40, updated.MarginBottom)
}

func TestUpdateLetterPageSize(t *testing.T) {
	db := setupLetterTestDB(t)
	user := createLetterTestUser(t, db, "a@example.com")
	letter, err := CreateLetter(db, user.ID, "Letter")
	require.NoError(t, err)
	assert.Equal(t, models.PageSizeA4, letter.PageSize)

	_, err = UpdateLetterPageSize(db, user.ID, letter.ID, "tabloid")
	assert.Error(t, err)

	updated, err := UpdateLetterPageSize(db, user.ID, letter.ID, models.PageSizeLegal)
	require.NoError(t, err)
	assert.Equal(t, models.PageSizeLegal, updated.PageSize)
	assert.Equal(t, 1344, updated.PageOptions().PageHeightPx)
}

func TestUpdateLetterDetailsValidatesStatus(t *testing.T) {
	db := setupLetterTestDB(t)
	user := createLetterTestUser(t, db, "a@example.com")
	letter, err := CreateLetter(db, user.ID, "Letter")
	require.NoError(t, err)

	_, err = UpdateLetterDetails(db, user.ID, letter.ID, "Letter", "", "archived")
	assert.Error(t, err)

	updated, err := UpdateLetterDetails(db, user.ID, letter.ID, "Final letter", "be firm", models.LetterStatusFinal)
	require.NoError(t, err)
	assert.Equal(t, "Final letter", updated.Title)
	assert.Equal(t, models.LetterStatusFinal, updated.Status)
}

func TestDeleteLetterRemovesSourceDocuments(t *testing.T) {
	db := setupLetterTestDB(t)
	user := createLetterTestUser(t, db, "a@example.com")
	letter, err := CreateLetter(db, user.ID, "Letter")
	require.NoError(t, err)

	doc := &models.SourceDocument{
		UserID:           user.ID,
		LetterID:         letter.ID,
		FileName:         "abc_1.pdf",
		FileOriginalName: "evidence.pdf",
		StorageKey:       "users/x/letters/y/sources/abc_1.pdf",
		FileSize:         100,
		MimeType:         "application/pdf",
	}
	require.NoError(t, db.Create(doc).Error)

	require.NoError(t, DeleteLetter(db, user.ID, letter.ID))

	var count int64
	db.Model(&models.Letter{}).Where("id = ?", letter.ID).Count(&count)
	assert.Equal(t, int64(0), count)
	db.Model(&models.SourceDocument{}).Where("letter_id = ?", letter.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestListLettersNewestFirst(t *testing.T) {
	db := setupLetterTestDB(t)
	user := createLetterTestUser(t, db, "a@example.com")

	first, err := CreateLetter(db, user.ID, "First")
	require.NoError(t, err)
	second, err := CreateLetter(db, user.ID, "Second")
	require.NoError(t, err)

	// Touch the first letter so it becomes the most recently updated
	_, err = UpdateLetterContent(db, user.ID, first.ID, "<p>hi</p>")
	require.NoError(t, err)

	letters, err := ListLetters(db, user.ID)
	require.NoError(t, err)
	require.Len(t, letters, 2)
	assert.Equal(t, "First", letters[0].Title)
	assert.Equal(t, second.Title, letters[1].Title)
}
