package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/paradb/paradb-api/internal/database"
	"github.com/paradb/paradb-api/internal/models"
	"github.com/paradb/paradb-api/internal/result"
	"github.com/paradb/paradb-api/internal/utils"
	"gorm.io/gorm"
)

var (
	// ErrCreateMap is returned when inserting the map row fails.
	ErrCreateMap = errors.New("map repository: create map failed")
	// ErrCreateDifficulties is returned when inserting difficulties fails.
	ErrCreateDifficulties = errors.New("map repository: create difficulties failed")
)

// GormMapRepository is a GORM implementation of MapRepository
type GormMapRepository struct {
	db *gorm.DB
}

// NewMapRepository creates a new MapRepository
func NewMapRepository(db *gorm.DB) MapRepository {
	return &GormMapRepository{db: db}
}

// FindMaps returns all maps, oldest submission first
func (r *GormMapRepository) FindMaps(ctx context.Context) result.Result[[]models.Map, FindMapsError] {
	maps := []models.Map{}
	if err := r.db.WithContext(ctx).Scopes(database.BySubmission(false)).Find(&maps).Error; err != nil {
		return result.FailWith[[]models.Map](FindMapsUnknownDBError, err.Error())
	}
	return result.Ok[FindMapsError](maps)
}

// GetMap finds a map by ID with its difficulties
func (r *GormMapRepository) GetMap(ctx context.Context, id string) result.Result[*models.Map, GetMapError] {
	var m models.Map
	err := r.db.WithContext(ctx).
		Preload("Difficulties", func(db *gorm.DB) *gorm.DB {
			return db.Order("difficulty_name ASC")
		}).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return result.FailWith[*models.Map](GetMapMissingMap, "")
		}
		return result.FailWith[*models.Map](GetMapUnknownDBError, err.Error())
	}
	return result.Ok[GetMapError](&m)
}

// ListMaps retrieves a page of maps, newest first
func (r *GormMapRepository) ListMaps(ctx context.Context, params utils.PaginationParams) ([]models.Map, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Map{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	maps := []models.Map{}
	err := query.
		Scopes(database.BySubmission(true), database.Paginate(params)).
		Preload("Difficulties").
		Find(&maps).Error
	if err != nil {
		return nil, 0, err
	}

	return maps, total, nil
}

// CreateMap inserts the map and its difficulties atomically
func (r *GormMapRepository) CreateMap(ctx context.Context, m *models.Map) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Difficulties").Create(m).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateMap, err)
		}

		if len(m.Difficulties) == 0 {
			return nil
		}
		for i := range m.Difficulties {
			m.Difficulties[i].MapID = m.ID
		}
		if err := tx.Create(&m.Difficulties).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateDifficulties, err)
		}

		return nil
	})
}

// DeleteMap deletes a map with its difficulties and favorites in a transaction
func (r *GormMapRepository) DeleteMap(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("map_id = ?", id).Delete(&models.Difficulty{}).Error; err != nil {
			return err
		}

		if err := tx.Where("map_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&models.Map{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}
