package search

import (
	"context"
	"fmt"
	"log"

	"github.com/paradb/paradb-api/internal/models"
	"github.com/paradb/paradb-api/internal/repository"
)

// Service keeps the maps index in step with map writes on the request path
// and answers search queries.
type Service struct {
	index Index
}

// NewService creates a Service on the maps index of engine.
func NewService(engine Engine) *Service {
	return &Service{
		index: engine.Index(MapsIndex),
	}
}

// IndexMap enqueues an upsert of the map's document. It does not wait for
// the task; a rebuild repairs any document lost here.
func (s *Service) IndexMap(ctx context.Context, m models.Map) error {
	doc := repository.ProjectForSearch(m)
	task, err := s.index.AddDocuments(ctx, []repository.SearchableMap{doc}, PrimaryKey)
	if err != nil {
		return fmt.Errorf("failed to index map %s: %w", m.ID, err)
	}
	log.Printf("Enqueued search task %d for map %s", task, m.ID)
	return nil
}

// RemoveMap enqueues deletion of the map's document without waiting.
func (s *Service) RemoveMap(ctx context.Context, id string) error {
	task, err := s.index.DeleteDocument(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to remove map %s from index: %w", id, err)
	}
	log.Printf("Enqueued search task %d removing map %s", task, id)
	return nil
}

// Search runs a free-text query against the maps index.
func (s *Service) Search(ctx context.Context, query string, params Params) (*Results, error) {
	results, err := s.index.Search(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search maps: %w", err)
	}
	return results, nil
}
