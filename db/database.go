package db

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the shared connection used across services and handlers.
var DB *gorm.DB

// sqlitePragmas are appended to every DSN: WAL keeps readers unblocked
// during letter saves, the busy timeout makes overlapping editor
// requests wait instead of failing, and foreign keys guard the
// letter/source-document relation.
const sqlitePragmas = "_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

// buildDSN appends the connection pragmas to a database path or DSN.
func buildDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + sqlitePragmas
}

// MemoryDSN returns a shared-cache in-memory DSN under the given name.
// Each test opens its own name for isolation while async work on other
// connections still sees the same database.
func MemoryDSN(name string) string {
	return "file:" + name + "?mode=memory&cache=shared&_busy_timeout=5000"
}

// Initialize opens the sqlite database and stores the shared handle.
func Initialize(dbPath string, environment string) error {
	logLevel := logger.Info
	switch environment {
	case "production":
		logLevel = logger.Warn
	case "test":
		logLevel = logger.Silent
	}

	conn, err := gorm.Open(sqlite.Open(buildDSN(dbPath)), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to open database at %s: %w", dbPath, err)
	}

	DB = conn
	log.Printf("Database ready at %s (WAL, 5s busy timeout)", dbPath)
	return nil
}

// AutoMigrate runs schema migrations for the given models.
func AutoMigrate(models ...interface{}) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}
	if err := DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	log.Printf("Schema migrated (%d models)", len(models))
	return nil
}

// Close releases the underlying connection.
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access connection: %w", err)
	}
	return sqlDB.Close()
}
