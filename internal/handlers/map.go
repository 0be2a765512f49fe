package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/paradb/paradb-api/internal/dto"
	apierrors "github.com/paradb/paradb-api/internal/errors"
	"github.com/paradb/paradb-api/internal/middleware"
	"github.com/paradb/paradb-api/internal/services"
	"github.com/paradb/paradb-api/internal/utils"
)

type MapHandler struct {
	mapService      *services.MapService
	favoriteService *services.FavoriteService
}

func NewMapHandler(mapService *services.MapService, favoriteService *services.FavoriteService) *MapHandler {
	return &MapHandler{
		mapService:      mapService,
		favoriteService: favoriteService,
	}
}

// ListMaps returns a page of maps, newest first
func (h *MapHandler) ListMaps(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	maps, total, err := h.mapService.ListMaps(c.Request.Context(), params)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch maps", err)
		return
	}

	c.JSON(http.StatusOK, dto.MapListResponse{
		Maps: dto.ToMapDTOs(maps),
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetMap returns a specific map by ID.
// user_favorited is only present for logged-in viewers.
func (h *MapHandler) GetMap(c *gin.Context) {
	viewerID, _ := middleware.GetUserID(c)

	detail, err := h.mapService.GetMap(c.Request.Context(), c.Param("id"), viewerID)
	if err != nil {
		respondMapError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapDetailDTO{
		MapDTO:        dto.ToMapDTO(*detail.Map),
		Favorites:     detail.Favorites,
		UserFavorited: detail.UserFavorited,
	})
}

// SubmitMap creates a new map owned by the current user
func (h *MapHandler) SubmitMap(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type DifficultyRequest struct {
		DifficultyName string `json:"difficulty_name"`
		Difficulty     *int   `json:"difficulty"`
	}
	type SubmitMapRequest struct {
		Title        string              `json:"title" binding:"required"`
		Artist       string              `json:"artist" binding:"required"`
		Author       *string             `json:"author"`
		Description  *string             `json:"description"`
		AlbumArt     *string             `json:"album_art"`
		Complexity   int                 `json:"complexity"`
		Difficulties []DifficultyRequest `json:"difficulties"`
	}

	var req SubmitMapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.SubmitMapInput{
		Title:        req.Title,
		Artist:       req.Artist,
		Author:       req.Author,
		Description:  req.Description,
		AlbumArt:     req.AlbumArt,
		Complexity:   req.Complexity,
		Difficulties: make([]services.DifficultyInput, len(req.Difficulties)),
		UploaderID:   userID,
	}
	for i, d := range req.Difficulties {
		input.Difficulties[i] = services.DifficultyInput{
			Name:       d.DifficultyName,
			Difficulty: d.Difficulty,
		}
	}

	m, err := h.mapService.SubmitMap(c.Request.Context(), input)
	if err != nil {
		respondMapError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMapDTO(*m))
}

// DeleteMap deletes a map. Only the uploader may delete it.
func (h *MapHandler) DeleteMap(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.mapService.DeleteMap(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondMapError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Map deleted successfully"})
}

// SearchMaps queries the search index.
// sort takes comma separated attribute:direction pairs, e.g. title:asc.
func (h *MapHandler) SearchMaps(c *gin.Context) {
	window, err := utils.GetSearchWindow(c)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	var sort []string
	for _, raw := range c.QueryArray("sort") {
		for _, entry := range strings.Split(raw, ",") {
			if entry = strings.TrimSpace(entry); entry != "" {
				sort = append(sort, entry)
			}
		}
	}

	results, err := h.mapService.Search(c.Request.Context(), services.SearchInput{
		Query:    c.Query("q"),
		Offset:   window.Offset,
		Limit:    window.Limit,
		Sort:     sort,
		Artist:   c.Query("artist"),
		Author:   c.Query("author"),
		Uploader: c.Query("uploader"),
	})
	if err != nil {
		respondMapError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapSearchResponse{
		Maps:               results.Hits,
		EstimatedTotalHits: results.EstimatedTotalHits,
		Offset:             results.Offset,
		Limit:              results.Limit,
	})
}

// FavoriteMap marks a map as a favorite of the current user
func (h *MapHandler) FavoriteMap(c *gin.Context) {
	h.setFavorite(c, true)
}

// UnfavoriteMap removes a map from the current user's favorites
func (h *MapHandler) UnfavoriteMap(c *gin.Context) {
	h.setFavorite(c, false)
}

func (h *MapHandler) setFavorite(c *gin.Context, favorite bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.favoriteService.SetFavorite(c.Request.Context(), c.Param("id"), userID, favorite); err != nil {
		respondMapError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorited": favorite})
}

// ListFavorites returns the current user's favorite maps
func (h *MapHandler) ListFavorites(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	maps, err := h.favoriteService.ListFavorites(c.Request.Context(), userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch favorites", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"maps": dto.ToMapDTOs(maps)})
}

func respondMapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMapNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotMapUploader):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrArtistRequired),
		errors.Is(err, services.ErrInvalidComplexity),
		errors.Is(err, services.ErrInvalidDifficulty),
		errors.Is(err, services.ErrInvalidSortAttribute):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrSearchNotConfigured):
		apierrors.ServiceUnavailable(c, err.Error(), nil)
	case errors.Is(err, services.ErrFailedToCreateMap):
		apierrors.InternalError(c, services.ErrFailedToCreateMap.Error(), err)
	default:
		apierrors.InternalError(c, "Internal server error", err)
	}
}
