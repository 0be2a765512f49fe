package search

import (
	"context"
	"fmt"
	"io"

	"github.com/paradb/paradb-api/internal/models"
	"github.com/paradb/paradb-api/internal/repository"
	"github.com/paradb/paradb-api/internal/result"
)

// MapSource supplies the authoritative map rows.
type MapSource interface {
	FindMaps(ctx context.Context) result.Result[[]models.Map, repository.FindMapsError]
}

// Rebuilder drops and recreates the maps index from the store.
type Rebuilder struct {
	maps   MapSource
	engine Engine
	out    io.Writer
}

// NewRebuilder creates a Rebuilder that writes progress lines to out.
func NewRebuilder(maps MapSource, engine Engine, out io.Writer) *Rebuilder {
	return &Rebuilder{
		maps:   maps,
		engine: engine,
		out:    out,
	}
}

// Rebuild replaces the maps index with one built from the current store
// contents. Any failure aborts the remaining steps; nothing is rolled back,
// so an interrupted run may leave the index empty or half configured until
// Rebuild is run again.
func (r *Rebuilder) Rebuild(ctx context.Context) error {
	res := r.maps.FindMaps(ctx)
	if !res.OK() {
		return fmt.Errorf("failed to find maps: %w", res.Err())
	}
	docs := repository.ProjectAllForSearch(res.Value())

	r.progress("Deleting old indexes")
	if err := r.engine.DeleteIndexIfExists(ctx, MapsIndex); err != nil {
		return fmt.Errorf("failed to delete index: %w", err)
	}

	r.progress("Creating new indexes")
	createTask, err := r.engine.CreateIndex(ctx, MapsIndex)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if err := r.engine.WaitForTask(ctx, createTask); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	r.progress("Getting index")
	index, err := r.engine.GetIndex(ctx, MapsIndex)
	if err != nil {
		return fmt.Errorf("failed to get index: %w", err)
	}

	r.progress("Setting up attribute fields")
	updateRanking, err := index.UpdateRankingRules(ctx, RankingRules)
	if err != nil {
		return fmt.Errorf("failed to update ranking rules: %w", err)
	}
	updateSearch, err := index.UpdateSearchableAttributes(ctx, SearchableAttributes)
	if err != nil {
		return fmt.Errorf("failed to update searchable attributes: %w", err)
	}
	updateFilters, err := index.UpdateFilterableAttributes(ctx, FilterableAttributes)
	if err != nil {
		return fmt.Errorf("failed to update filterable attributes: %w", err)
	}
	updateSorts, err := index.UpdateSortableAttributes(ctx, SortableAttributes())
	if err != nil {
		return fmt.Errorf("failed to update sortable attributes: %w", err)
	}

	r.progress("Adding data")
	addData, err := index.AddDocuments(ctx, docs, PrimaryKey)
	if err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}

	if err := WaitForTasks(ctx, r.engine, updateRanking, updateSearch, updateFilters, updateSorts, addData); err != nil {
		return err
	}

	r.progress("Done!")
	return nil
}

func (r *Rebuilder) progress(line string) {
	fmt.Fprintln(r.out, line)
}
