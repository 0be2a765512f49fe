package dto

import (
	"time"

	"github.com/paradb/paradb-api/internal/models"
	"github.com/paradb/paradb-api/internal/repository"
	"github.com/paradb/paradb-api/internal/utils"
)

// MapSortableAttributes are the fields a map search may be sorted by. The
// search index is configured with the same list.
var MapSortableAttributes = []string{
	"title",
	"artist",
	"author",
	"uploader",
	"submission_date",
	"complexity",
}

// IsSortableAttribute reports whether attr is in MapSortableAttributes
func IsSortableAttribute(attr string) bool {
	for _, a := range MapSortableAttributes {
		if a == attr {
			return true
		}
	}
	return false
}

// DifficultyDTO represents a difficulty in API responses
type DifficultyDTO struct {
	DifficultyName string `json:"difficulty_name"`
	Difficulty     *int   `json:"difficulty"`
}

// MapDTO represents a map in API responses
type MapDTO struct {
	ID             string          `json:"id"`
	SubmissionDate time.Time       `json:"submission_date"`
	Title          string          `json:"title"`
	Artist         string          `json:"artist"`
	Author         *string         `json:"author"`
	Uploader       string          `json:"uploader"`
	Description    *string         `json:"description"`
	AlbumArt       *string         `json:"album_art"`
	Complexity     int             `json:"complexity"`
	Difficulties   []DifficultyDTO `json:"difficulties"`
}

// MapDetailDTO is a single map with per-request favorite information
type MapDetailDTO struct {
	MapDTO
	Favorites     int64 `json:"favorites"`
	UserFavorited *bool `json:"user_favorited,omitempty"`
}

// MapListResponse represents a paginated list of maps
type MapListResponse struct {
	Maps       []MapDTO                 `json:"maps"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// MapSearchResponse represents one page of search hits
type MapSearchResponse struct {
	Maps               []repository.SearchableMap `json:"maps"`
	EstimatedTotalHits int64                      `json:"estimated_total_hits"`
	Offset             int64                      `json:"offset"`
	Limit              int64                      `json:"limit"`
}

// ToMapDTO converts a Map model to MapDTO
func ToMapDTO(m models.Map) MapDTO {
	dto := MapDTO{
		ID:             m.ID,
		SubmissionDate: m.SubmissionDate,
		Title:          m.Title,
		Artist:         m.Artist,
		Author:         m.Author,
		Uploader:       m.Uploader,
		Description:    m.Description,
		AlbumArt:       m.AlbumArt,
		Complexity:     m.Complexity,
		Difficulties:   make([]DifficultyDTO, len(m.Difficulties)),
	}
	for i, d := range m.Difficulties {
		dto.Difficulties[i] = DifficultyDTO{
			DifficultyName: d.DifficultyName,
			Difficulty:     d.Difficulty,
		}
	}
	return dto
}

// ToMapDTOs converts a slice of maps
func ToMapDTOs(maps []models.Map) []MapDTO {
	out := make([]MapDTO, len(maps))
	for i, m := range maps {
		out[i] = ToMapDTO(m)
	}
	return out
}
