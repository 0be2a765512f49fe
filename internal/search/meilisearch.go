package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"github.com/paradb/paradb-api/internal/repository"
)

const (
	taskPollInterval  = 50 * time.Millisecond
	codeIndexNotFound = "index_not_found"
)

// MeiliEngine implements Engine on a Meilisearch server. The SDK calls other
// than task waits take no context; ctx only bounds waiting.
type MeiliEngine struct {
	client *meilisearch.Client
}

// NewMeiliEngine creates an engine for the server at host.
func NewMeiliEngine(host, apiKey string) *MeiliEngine {
	return &MeiliEngine{
		client: meilisearch.NewClient(meilisearch.ClientConfig{
			Host:   host,
			APIKey: apiKey,
		}),
	}
}

// DeleteIndexIfExists deletes the index and waits for the deletion, treating
// an index_not_found task failure as success.
func (e *MeiliEngine) DeleteIndexIfExists(ctx context.Context, name string) error {
	info, err := e.client.DeleteIndex(name)
	if err != nil {
		return err
	}

	err = e.WaitForTask(ctx, TaskID(info.TaskUID))
	var failed *TaskFailedError
	if errors.As(err, &failed) && failed.Code == codeIndexNotFound {
		return nil
	}
	return err
}

// CreateIndex enqueues creation of an empty index
func (e *MeiliEngine) CreateIndex(ctx context.Context, name string) (TaskID, error) {
	info, err := e.client.CreateIndex(&meilisearch.IndexConfig{Uid: name})
	if err != nil {
		return 0, err
	}
	return TaskID(info.TaskUID), nil
}

// GetIndex fetches an existing index
func (e *MeiliEngine) GetIndex(ctx context.Context, name string) (Index, error) {
	index, err := e.client.GetIndex(name)
	if err != nil {
		return nil, err
	}
	return &meiliIndex{index: index}, nil
}

// Index returns a handle without a request to the server
func (e *MeiliEngine) Index(name string) Index {
	return &meiliIndex{index: e.client.Index(name)}
}

// WaitForTask polls the task until it is terminal. Any final status other
// than succeeded becomes a *TaskFailedError.
func (e *MeiliEngine) WaitForTask(ctx context.Context, id TaskID) error {
	task, err := e.client.WaitForTask(int64(id), meilisearch.WaitParams{
		Context:  ctx,
		Interval: taskPollInterval,
	})
	if err != nil {
		return fmt.Errorf("failed to wait for search task %d: %w", id, err)
	}
	if task.Status != meilisearch.TaskStatusSucceeded {
		return &TaskFailedError{
			ID:      id,
			Status:  string(task.Status),
			Code:    task.Error.Code,
			Message: task.Error.Message,
		}
	}
	return nil
}

type meiliIndex struct {
	index *meilisearch.Index
}

func (i *meiliIndex) UpdateRankingRules(ctx context.Context, rules []string) (TaskID, error) {
	return taskID(i.index.UpdateRankingRules(&rules))
}

func (i *meiliIndex) UpdateSearchableAttributes(ctx context.Context, attributes []string) (TaskID, error) {
	return taskID(i.index.UpdateSearchableAttributes(&attributes))
}

func (i *meiliIndex) UpdateFilterableAttributes(ctx context.Context, attributes []string) (TaskID, error) {
	return taskID(i.index.UpdateFilterableAttributes(&attributes))
}

func (i *meiliIndex) UpdateSortableAttributes(ctx context.Context, attributes []string) (TaskID, error) {
	return taskID(i.index.UpdateSortableAttributes(&attributes))
}

func (i *meiliIndex) AddDocuments(ctx context.Context, docs []repository.SearchableMap, primaryKey string) (TaskID, error) {
	return taskID(i.index.AddDocuments(docs, primaryKey))
}

func (i *meiliIndex) DeleteDocument(ctx context.Context, id string) (TaskID, error) {
	return taskID(i.index.DeleteDocument(id))
}

func (i *meiliIndex) Search(ctx context.Context, query string, params Params) (*Results, error) {
	request := &meilisearch.SearchRequest{
		Offset: params.Offset,
		Limit:  params.Limit,
		Sort:   params.Sort,
	}
	if filter := FilterExpression(params.Filters); filter != "" {
		request.Filter = filter
	}

	resp, err := i.index.Search(query, request)
	if err != nil {
		return nil, err
	}

	hits := []repository.SearchableMap{}
	raw, err := json.Marshal(resp.Hits)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search hits: %w", err)
	}
	if err := json.Unmarshal(raw, &hits); err != nil {
		return nil, fmt.Errorf("failed to decode search hits: %w", err)
	}

	return &Results{
		Hits:               hits,
		EstimatedTotalHits: resp.EstimatedTotalHits,
		Offset:             resp.Offset,
		Limit:              resp.Limit,
	}, nil
}

func taskID(info *meilisearch.TaskInfo, err error) (TaskID, error) {
	if err != nil {
		return 0, err
	}
	return TaskID(info.TaskUID), nil
}
