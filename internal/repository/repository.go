package repository

import (
	"context"

	"github.com/paradb/paradb-api/internal/models"
	"github.com/paradb/paradb-api/internal/result"
	"github.com/paradb/paradb-api/internal/utils"
)

// FindMapsError enumerates failure kinds of FindMaps.
type FindMapsError string

const (
	FindMapsUnknownDBError FindMapsError = "unknown_db_error"
)

// GetMapError enumerates failure kinds of GetMap.
type GetMapError string

const (
	GetMapMissingMap     GetMapError = "missing_map"
	GetMapUnknownDBError GetMapError = "unknown_db_error"
)

// MapRepository defines the interface for map data access
type MapRepository interface {
	// FindMaps returns every map ordered by submission date. It never
	// returns partial results.
	FindMaps(ctx context.Context) result.Result[[]models.Map, FindMapsError]

	// GetMap finds a map by ID with its difficulties
	GetMap(ctx context.Context, id string) result.Result[*models.Map, GetMapError]

	// ListMaps retrieves a page of maps, newest first, and the total count
	ListMaps(ctx context.Context, params utils.PaginationParams) ([]models.Map, int64, error)

	// CreateMap inserts a map together with its difficulties
	CreateMap(ctx context.Context, m *models.Map) error

	// DeleteMap removes a map and everything that belongs to it
	DeleteMap(ctx context.Context, id string) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// ExistsByUsernameOrEmail reports which of username and email are taken
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (usernameTaken, emailTaken bool, err error)
}

// FavoriteRepository defines the interface for favorite data access
type FavoriteRepository interface {
	// Add favorites a map for a user; favoriting twice is a no-op
	Add(ctx context.Context, favorite *models.Favorite) error

	// Remove un-favorites a map; removing a missing favorite is a no-op
	Remove(ctx context.Context, mapID, userID string) error

	// Exists reports whether the user has favorited the map
	Exists(ctx context.Context, mapID, userID string) (bool, error)

	// CountForMap counts how many users favorited a map
	CountForMap(ctx context.Context, mapID string) (int64, error)

	// ListMapsForUser lists the maps a user has favorited, most recent first
	ListMapsForUser(ctx context.Context, userID string) ([]models.Map, error)
}
