package utils

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/paradb/paradb-api/internal/constants"
)

// PaginationParams holds page-based pagination for database listings
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationResponse represents the pagination metadata in API responses
type PaginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// GetPaginationParams extracts page and limit from the query. Out of range
// or malformed values fall back to the defaults.
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(constants.MinPageSize)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))

	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// SearchWindow is the offset/limit pair a search request asks for. Zero
// means the parameter was absent.
type SearchWindow struct {
	Offset int64
	Limit  int64
}

// GetSearchWindow reads offset and limit from the query. Unlike page-based
// listings, a malformed value is an error; range checks are left to the
// search service.
func GetSearchWindow(c *gin.Context) (SearchWindow, error) {
	var w SearchWindow
	for _, p := range []struct {
		key string
		dst *int64
	}{
		{"offset", &w.Offset},
		{"limit", &w.Limit},
	} {
		raw := c.Query(p.key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return SearchWindow{}, fmt.Errorf("invalid %s %q", p.key, raw)
		}
		*p.dst = v
	}
	return w, nil
}
