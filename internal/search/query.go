package search

import (
	"fmt"
	"strings"

	"github.com/paradb/paradb-api/internal/repository"
)

// Params narrows and orders a search.
type Params struct {
	Offset int64
	Limit  int64
	// Sort entries use the attribute:direction form, e.g. "title:asc".
	Sort []string
	// Filters map a filterable attribute to the exact value it must equal.
	Filters map[string]string
}

// Results is one page of matching documents.
type Results struct {
	Hits               []repository.SearchableMap `json:"hits"`
	EstimatedTotalHits int64                      `json:"estimated_total_hits"`
	Offset             int64                      `json:"offset"`
	Limit              int64                      `json:"limit"`
}

// FilterExpression renders equality filters in Meilisearch filter syntax,
// joined with AND in attribute order. It returns "" for no filters.
func FilterExpression(filters map[string]string) string {
	if len(filters) == 0 {
		return ""
	}

	clauses := make([]string, 0, len(filters))
	for _, attr := range FilterableAttributes {
		value, ok := filters[attr]
		if !ok {
			continue
		}
		clauses = append(clauses, fmt.Sprintf("%s = %s", attr, quote(value)))
	}
	return strings.Join(clauses, " AND ")
}

func quote(value string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(value)
	return `"` + escaped + `"`
}
