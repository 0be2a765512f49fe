package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/paradb/paradb-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a private in-memory SQLite database with every model
// migrated. The pool is pinned to one connection so all queries share the
// same in-memory schema.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	err = db.AutoMigrate(
		&models.User{},
		&models.Map{},
		&models.Difficulty{},
		&models.Favorite{},
	)
	require.NoError(t, err)

	return db
}

// CreateUser inserts an active user with a throwaway password hash.
func CreateUser(t *testing.T, db *gorm.DB, id, username string) *models.User {
	t.Helper()

	now := time.Now().UTC()
	user := &models.User{
		ID:              id,
		CreationDate:    now,
		AccountStatus:   models.AccountStatusActive,
		Username:        username,
		Email:           fmt.Sprintf("%s@example.com", username),
		EmailStatus:     models.EmailStatusUnverified,
		Password:        []byte("hashedpassword"),
		PasswordUpdated: now,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateMap inserts a map uploaded by uploaderID. Maps created later get
// later submission dates.
func CreateMap(t *testing.T, db *gorm.DB, id, title, uploaderID string, submitted time.Time) *models.Map {
	t.Helper()

	description := "Test Description"
	m := &models.Map{
		ID:             id,
		SubmissionDate: submitted,
		Title:          title,
		Artist:         "Test Artist",
		Uploader:       uploaderID,
		Description:    &description,
		Complexity:     1,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
