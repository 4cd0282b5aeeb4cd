package database

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupStoreTestDB opens an in-memory database through the regular SetupDB
// path, so the option plumbing, TranslateError, and the default migration
// list get exercised by every store test.
func setupStoreTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", t.Name())
	db, err := SetupDB(WithDialector(sqlite.Open(dsn)))
	if err != nil {
		t.Fatalf("set up test database: %v", err)
	}

	t.Cleanup(func() {
		DB = nil
	})

	return db
}
