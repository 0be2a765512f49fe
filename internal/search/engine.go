// Package search owns the Meilisearch "maps" index: its one-shot rebuild
// from the relational store, live document updates, and queries.
package search

import (
	"context"
	"fmt"

	"github.com/paradb/paradb-api/internal/repository"
	"golang.org/x/sync/errgroup"
)

// TaskID identifies an asynchronous index mutation on the search service.
type TaskID int64

// Engine is the subset of the search service used by this package.
type Engine interface {
	// DeleteIndexIfExists removes the named index. A missing index is not an error.
	DeleteIndexIfExists(ctx context.Context, name string) error

	// CreateIndex enqueues creation of an empty index.
	CreateIndex(ctx context.Context, name string) (TaskID, error)

	// GetIndex fetches the named index, failing if it does not exist.
	GetIndex(ctx context.Context, name string) (Index, error)

	// Index returns a handle without contacting the service.
	Index(name string) Index

	// WaitForTask blocks until the task is terminal. A task that ends in
	// any state other than succeeded yields a *TaskFailedError.
	WaitForTask(ctx context.Context, id TaskID) error
}

// Index is a handle on one search index holding map documents.
type Index interface {
	UpdateRankingRules(ctx context.Context, rules []string) (TaskID, error)
	UpdateSearchableAttributes(ctx context.Context, attributes []string) (TaskID, error)
	UpdateFilterableAttributes(ctx context.Context, attributes []string) (TaskID, error)
	UpdateSortableAttributes(ctx context.Context, attributes []string) (TaskID, error)
	AddDocuments(ctx context.Context, docs []repository.SearchableMap, primaryKey string) (TaskID, error)
	DeleteDocument(ctx context.Context, id string) (TaskID, error)
	Search(ctx context.Context, query string, params Params) (*Results, error)
}

// TaskFailedError reports a task that reached a terminal state other than
// success.
type TaskFailedError struct {
	ID      TaskID
	Status  string
	Code    string
	Message string
}

func (e *TaskFailedError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("search task %d %s", e.ID, e.Status)
	}
	return fmt.Sprintf("search task %d %s: %s: %s", e.ID, e.Status, e.Code, e.Message)
}

// WaitForTasks waits for every task concurrently and succeeds only when all
// of them succeed. The first failure cancels the remaining waits and is
// returned.
func WaitForTasks(ctx context.Context, engine Engine, ids ...TaskID) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			return engine.WaitForTask(ctx, id)
		})
	}
	return g.Wait()
}
