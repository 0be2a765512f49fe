package search

import "github.com/paradb/paradb-api/internal/dto"

// MapsIndex is the name of the index holding map documents.
const MapsIndex = "maps"

// PrimaryKey is the document field used to deduplicate maps.
const PrimaryKey = "id"

var (
	// RankingRules in priority order.
	RankingRules = []string{
		"sort",
		"words",
		"typo",
		"proximity",
		"attribute",
		"exactness",
	}

	SearchableAttributes = []string{
		"title",
		"artist",
		"author",
		"description",
	}

	FilterableAttributes = []string{
		"artist",
		"author",
		"uploader",
	}
)

// SortableAttributes returns the sortable fields shared with the HTTP API.
func SortableAttributes() []string {
	out := make([]string, len(dto.MapSortableAttributes))
	copy(out, dto.MapSortableAttributes)
	return out
}
