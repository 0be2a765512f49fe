package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/paradb/paradb-api/internal/constants"
	"github.com/paradb/paradb-api/internal/dto"
	"github.com/paradb/paradb-api/internal/models"
	"github.com/paradb/paradb-api/internal/repository"
	"github.com/paradb/paradb-api/internal/search"
	"github.com/paradb/paradb-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrMapNotFound           = errors.New("map not found")
	ErrNotMapUploader        = errors.New("only the uploader can perform this action")
	ErrTitleRequired         = errors.New("title is required")
	ErrArtistRequired        = errors.New("artist is required")
	ErrInvalidComplexity     = errors.New("complexity must not be negative")
	ErrInvalidDifficulty     = errors.New("difficulty names must be non-empty and unique")
	ErrInvalidSortAttribute  = errors.New("unsupported sort attribute")
	ErrSearchNotConfigured   = errors.New("search is not configured")
	ErrFailedToCreateMap     = errors.New("failed to create map")
	ErrFailedToGenerateMapID = errors.New("failed to generate map id")
)

// MapIndexer pushes map changes to the search index.
type MapIndexer interface {
	IndexMap(ctx context.Context, m models.Map) error
	RemoveMap(ctx context.Context, id string) error
}

// MapSearcher queries the search index.
type MapSearcher interface {
	Search(ctx context.Context, query string, params search.Params) (*search.Results, error)
}

// MapService handles map business logic
type MapService struct {
	mapRepo      repository.MapRepository
	favoriteRepo repository.FavoriteRepository
	indexer      MapIndexer
	searcher     MapSearcher
	now          func() time.Time
}

// NewMapService creates a new MapService. indexer and searcher may be nil
// when no search service is configured.
func NewMapService(mapRepo repository.MapRepository, favoriteRepo repository.FavoriteRepository, indexer MapIndexer, searcher MapSearcher) *MapService {
	return &MapService{
		mapRepo:      mapRepo,
		favoriteRepo: favoriteRepo,
		indexer:      indexer,
		searcher:     searcher,
		now:          time.Now,
	}
}

// MapDetail is a map with its favorite information
type MapDetail struct {
	Map           *models.Map
	Favorites     int64
	UserFavorited *bool
}

// DifficultyInput describes one difficulty of a submitted map
type DifficultyInput struct {
	Name       string
	Difficulty *int
}

// SubmitMapInput represents input for submitting a map
type SubmitMapInput struct {
	Title        string
	Artist       string
	Author       *string
	Description  *string
	AlbumArt     *string
	Complexity   int
	Difficulties []DifficultyInput
	UploaderID   string
}

// SearchInput represents a map search request
type SearchInput struct {
	Query    string
	Offset   int64
	Limit    int64
	Sort     []string
	Artist   string
	Author   string
	Uploader string
}

// ListMaps returns a page of maps
func (s *MapService) ListMaps(ctx context.Context, params utils.PaginationParams) ([]models.Map, int64, error) {
	maps, total, err := s.mapRepo.ListMaps(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list maps: %w", err)
	}
	return maps, total, nil
}

// GetMap returns a map with favorite counts. viewerID is empty for
// anonymous requests.
func (s *MapService) GetMap(ctx context.Context, id, viewerID string) (*MapDetail, error) {
	res := s.mapRepo.GetMap(ctx, id)
	if !res.OK() {
		if res.HasError(repository.GetMapMissingMap) {
			return nil, ErrMapNotFound
		}
		return nil, fmt.Errorf("failed to find map: %w", res.Err())
	}

	detail := &MapDetail{Map: res.Value()}

	count, err := s.favoriteRepo.CountForMap(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count favorites: %w", err)
	}
	detail.Favorites = count

	if viewerID != "" {
		favorited, err := s.favoriteRepo.Exists(ctx, id, viewerID)
		if err != nil {
			return nil, fmt.Errorf("failed to check favorite: %w", err)
		}
		detail.UserFavorited = &favorited
	}

	return detail, nil
}

// SubmitMap validates and stores a new map, then indexes it
func (s *MapService) SubmitMap(ctx context.Context, input SubmitMapInput) (*models.Map, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	artist := strings.TrimSpace(input.Artist)
	if artist == "" {
		return nil, ErrArtistRequired
	}
	if input.Complexity < 0 {
		return nil, ErrInvalidComplexity
	}

	difficulties := make([]models.Difficulty, 0, len(input.Difficulties))
	seen := make(map[string]struct{}, len(input.Difficulties))
	for _, d := range input.Difficulties {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return nil, ErrInvalidDifficulty
		}
		if _, dup := seen[name]; dup {
			return nil, ErrInvalidDifficulty
		}
		seen[name] = struct{}{}
		difficulties = append(difficulties, models.Difficulty{
			DifficultyName: name,
			Difficulty:     d.Difficulty,
		})
	}

	id, err := utils.GenerateID(constants.MapIDPrefix)
	if err != nil {
		return nil, ErrFailedToGenerateMapID
	}

	m := &models.Map{
		ID:             id,
		SubmissionDate: s.now().UTC(),
		Title:          title,
		Artist:         artist,
		Author:         trimOptional(input.Author),
		Uploader:       input.UploaderID,
		Description:    trimOptional(input.Description),
		AlbumArt:       trimOptional(input.AlbumArt),
		Complexity:     input.Complexity,
		Difficulties:   difficulties,
	}

	if err := s.mapRepo.CreateMap(ctx, m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateMap, err)
	}

	if s.indexer != nil {
		if err := s.indexer.IndexMap(ctx, *m); err != nil {
			log.Printf("Failed to index map %s: %v", m.ID, err)
		}
	}

	return m, nil
}

// DeleteMap deletes a map if the actor uploaded it
func (s *MapService) DeleteMap(ctx context.Context, id, actorID string) error {
	res := s.mapRepo.GetMap(ctx, id)
	if !res.OK() {
		if res.HasError(repository.GetMapMissingMap) {
			return ErrMapNotFound
		}
		return fmt.Errorf("failed to find map: %w", res.Err())
	}

	if res.Value().Uploader != actorID {
		return ErrNotMapUploader
	}

	if err := s.mapRepo.DeleteMap(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMapNotFound
		}
		return fmt.Errorf("failed to delete map: %w", err)
	}

	if s.indexer != nil {
		if err := s.indexer.RemoveMap(ctx, id); err != nil {
			log.Printf("Failed to remove map %s from index: %v", id, err)
		}
	}

	return nil
}

// Search queries the search index for maps
func (s *MapService) Search(ctx context.Context, input SearchInput) (*search.Results, error) {
	if s.searcher == nil {
		return nil, ErrSearchNotConfigured
	}

	for _, entry := range input.Sort {
		attr, direction, _ := strings.Cut(entry, ":")
		if !dto.IsSortableAttribute(attr) || (direction != "asc" && direction != "desc") {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSortAttribute, entry)
		}
	}

	filters := map[string]string{}
	if input.Artist != "" {
		filters["artist"] = input.Artist
	}
	if input.Author != "" {
		filters["author"] = input.Author
	}
	if input.Uploader != "" {
		filters["uploader"] = input.Uploader
	}

	limit := input.Limit
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	results, err := s.searcher.Search(ctx, input.Query, search.Params{
		Offset:  offset,
		Limit:   limit,
		Sort:    input.Sort,
		Filters: filters,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search maps: %w", err)
	}
	return results, nil
}

// trimOptional trims a string pointer, mapping blank values to nil
func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
