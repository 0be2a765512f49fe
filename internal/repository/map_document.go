package repository

import "github.com/paradb/paradb-api/internal/models"

// SearchableMap is the flattened projection of a map that is pushed to the
// search index. It is derived data and can always be rebuilt from the maps
// table.
type SearchableMap struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Artist         string  `json:"artist"`
	Author         *string `json:"author"`
	Uploader       string  `json:"uploader"`
	Description    *string `json:"description"`
	SubmissionDate int64   `json:"submission_date"`
	Complexity     int     `json:"complexity"`
}

// ProjectForSearch converts a map into its search document. Fields are
// copied as-is; the submission date is flattened to unix seconds so it can
// be sorted on.
func ProjectForSearch(m models.Map) SearchableMap {
	return SearchableMap{
		ID:             m.ID,
		Title:          m.Title,
		Artist:         m.Artist,
		Author:         m.Author,
		Uploader:       m.Uploader,
		Description:    m.Description,
		SubmissionDate: m.SubmissionDate.Unix(),
		Complexity:     m.Complexity,
	}
}

// ProjectAllForSearch projects every map, preserving order. The result is
// never nil.
func ProjectAllForSearch(maps []models.Map) []SearchableMap {
	docs := make([]SearchableMap, 0, len(maps))
	for _, m := range maps {
		docs = append(docs, ProjectForSearch(m))
	}
	return docs
}
