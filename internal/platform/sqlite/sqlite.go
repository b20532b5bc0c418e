package sqlite

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New opens a file-backed (or in-memory) SQLite database. Used for local
// runs and tests; production deployments use the mysql platform package.
func New(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open sqlite failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sqlite sql db failed: %w", err)
	}
	// SQLite allows one writer at a time; a single connection avoids
	// table-locked errors under concurrent requests.
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}
