package services

import (
	"context"
	"fmt"
	"time"

	"github.com/paradb/paradb-api/internal/models"
	"github.com/paradb/paradb-api/internal/repository"
)

// FavoriteService handles favoriting and un-favoriting maps
type FavoriteService struct {
	mapRepo      repository.MapRepository
	favoriteRepo repository.FavoriteRepository
	now          func() time.Time
}

// NewFavoriteService creates a new FavoriteService
func NewFavoriteService(mapRepo repository.MapRepository, favoriteRepo repository.FavoriteRepository) *FavoriteService {
	return &FavoriteService{
		mapRepo:      mapRepo,
		favoriteRepo: favoriteRepo,
		now:          time.Now,
	}
}

// SetFavorite favorites or un-favorites a map for a user. Both directions
// are idempotent.
func (s *FavoriteService) SetFavorite(ctx context.Context, mapID, userID string, favorite bool) error {
	res := s.mapRepo.GetMap(ctx, mapID)
	if !res.OK() {
		if res.HasError(repository.GetMapMissingMap) {
			return ErrMapNotFound
		}
		return fmt.Errorf("failed to find map: %w", res.Err())
	}

	if !favorite {
		if err := s.favoriteRepo.Remove(ctx, mapID, userID); err != nil {
			return fmt.Errorf("failed to remove favorite: %w", err)
		}
		return nil
	}

	err := s.favoriteRepo.Add(ctx, &models.Favorite{
		MapID:         mapID,
		UserID:        userID,
		FavoritedDate: s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// ListFavorites returns the maps a user has favorited
func (s *FavoriteService) ListFavorites(ctx context.Context, userID string) ([]models.Map, error) {
	maps, err := s.favoriteRepo.ListMapsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return maps, nil
}
