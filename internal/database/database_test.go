package database

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/paradb/paradb-api/internal/database/migrations"
	"github.com/paradb/paradb-api/internal/models"
	"github.com/paradb/paradb-api/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Map{}, &models.Difficulty{}))
	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

func TestMigrationsEmbedded(t *testing.T) {
	names, err := fs.Glob(migrations.Migrations, "*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"00001_create_users.sql",
		"00002_create_maps.sql",
		"00003_create_favorites.sql",
	}, names)
}

func TestMigrate_PropagatesGooseError(t *testing.T) {
	SetDB(openTestDB(t))

	original := gooseUp
	t.Cleanup(func() { gooseUp = original })

	var gotDir string
	gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
		gotDir = dir
		return errors.New("boom")
	}

	err := Migrate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, ".", gotDir)
}

func TestPaginate(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&models.User{ID: "U1", Username: "u", Email: "u@example.com", Password: []byte("x")}).Error)
	for _, id := range []string{"M1", "M2", "M3", "M4", "M5"} {
		require.NoError(t, db.Create(&models.Map{ID: id, Title: id, Artist: "a", Uploader: "U1"}).Error)
	}

	var page []models.Map
	err := db.Order("id").Scopes(Paginate(utils.PaginationParams{Page: 2, Limit: 2, Offset: 2})).Find(&page).Error
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "M3", page[0].ID)
	assert.Equal(t, "M4", page[1].ID)
}

func TestBySubmission(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&models.User{ID: "U1", Username: "u", Email: "u@example.com", Password: []byte("x")}).Error)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	maps := []models.Map{
		{ID: "M2", SubmissionDate: base, Title: "b", Artist: "a", Uploader: "U1"},
		{ID: "M1", SubmissionDate: base, Title: "a", Artist: "a", Uploader: "U1"},
		{ID: "M3", SubmissionDate: base.Add(time.Minute), Title: "c", Artist: "a", Uploader: "U1"},
	}
	require.NoError(t, db.Create(&maps).Error)

	var oldest []models.Map
	require.NoError(t, db.Scopes(BySubmission(false)).Find(&oldest).Error)
	assert.Equal(t, []string{"M1", "M2", "M3"}, mapIDs(oldest))

	var newest []models.Map
	require.NoError(t, db.Scopes(BySubmission(true)).Find(&newest).Error)
	assert.Equal(t, []string{"M3", "M1", "M2"}, mapIDs(newest))
}

func mapIDs(maps []models.Map) []string {
	ids := make([]string, len(maps))
	for i, m := range maps {
		ids[i] = m.ID
	}
	return ids
}
