package handlers

import (
	"io"
	"net/http/httptest"
	"testing"

	"letterflow_app_go/config"
	"letterflow_app_go/db"
	"letterflow_app_go/middleware"
	"letterflow_app_go/models"
	"letterflow_app_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache for async tasks
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open(db.MemoryDSN(dbName)), &gorm.Config{})
	assert.NoError(t, err)

	err = testDB.Exec("PRAGMA journal_mode=WAL;").Error
	assert.NoError(t, err)

	// Initialize Storage for tests if not already set
	if services.Storage == nil {
		services.Storage = services.NewLocalStorage("tmp/test_uploads")
	}

	err = testDB.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.PasswordResetToken{},
		&models.Letter{},
		&models.SourceDocument{},
	)
	assert.NoError(t, err)

	// Set global DB
	db.DB = testDB

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment:   "test",
		EmailTestMode: true,
		AppURL:        "http://localhost:8080",
	})

	return e, c, rec
}

func createTestUser(t *testing.T, testDB *gorm.DB, email, password string) *models.User {
	hash, err := services.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		Name:     "Test User",
		Email:    email,
		Password: hash,
		Role:     models.RoleMember,
		IsActive: true,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

// authenticate puts a user in the echo context the way RequireAuth does
func authenticate(c echo.Context, user *models.User) {
	c.Set(middleware.ContextKeyUser, user)
}

func createTestLetter(t *testing.T, testDB *gorm.DB, userID, title string) *models.Letter {
	letter, err := services.CreateLetter(testDB, userID, title)
	require.NoError(t, err)
	return letter
}
