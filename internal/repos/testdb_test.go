package repos

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/trainhub/trainhub-backend/internal/logger"
	"github.com/trainhub/trainhub-backend/internal/types"
)

func newTestDB(t *testing.T) (*gorm.DB, *logger.Logger) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// A second pooled connection would see an empty database.
	if sqlDB, dErr := db.DB(); dErr == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	err = db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Category{},
		&types.TrainingSession{},
		&types.Course{},
		&types.CourseContent{},
		&types.CourseCompletion{},
		&types.Registration{},
		&types.Feedback{},
		&types.Notification{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, dErr := db.DB()
		if dErr == nil {
			sqlDB.Close()
		}
	})
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return db, log
}
