package repository

import (
	"context"

	"github.com/paradb/paradb-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormFavoriteRepository is a GORM implementation of FavoriteRepository
type GormFavoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a new FavoriteRepository
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

// Add favorites a map, ignoring an existing favorite
func (r *GormFavoriteRepository) Add(ctx context.Context, favorite *models.Favorite) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "map_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Omit("Map").
		Create(favorite).Error
}

// Remove un-favorites a map
func (r *GormFavoriteRepository) Remove(ctx context.Context, mapID, userID string) error {
	return r.db.WithContext(ctx).
		Where("map_id = ? AND user_id = ?", mapID, userID).
		Delete(&models.Favorite{}).Error
}

// Exists reports whether the user has favorited the map
func (r *GormFavoriteRepository) Exists(ctx context.Context, mapID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("map_id = ? AND user_id = ?", mapID, userID).
		Count(&count).Error
	return count > 0, err
}

// CountForMap counts the favorites of a map
func (r *GormFavoriteRepository) CountForMap(ctx context.Context, mapID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("map_id = ?", mapID).
		Count(&count).Error
	return count, err
}

// ListMapsForUser lists the maps a user has favorited
func (r *GormFavoriteRepository) ListMapsForUser(ctx context.Context, userID string) ([]models.Map, error) {
	maps := []models.Map{}
	err := r.db.WithContext(ctx).
		Joins("JOIN favorites ON favorites.map_id = maps.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.favorited_date DESC, maps.id ASC").
		Preload("Difficulties").
		Find(&maps).Error
	if err != nil {
		return nil, err
	}
	return maps, nil
}
