// Package searchtest provides an in-memory search.Engine for tests.
package searchtest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/paradb/paradb-api/internal/repository"
	"github.com/paradb/paradb-api/internal/search"
)

// Call records one mutation issued against the engine.
type Call struct {
	Op    string
	Index string
	Args  []string
	Task  search.TaskID
}

// IndexState is the applied state of one fake index.
type IndexState struct {
	RankingRules         []string
	SearchableAttributes []string
	FilterableAttributes []string
	SortableAttributes   []string
	PrimaryKey           string
	Documents            map[string]repository.SearchableMap
}

// Engine applies mutations immediately and records every call. Tasks
// listed in FailTasks or whose operation is in FailOps end in the failed
// state; errors in Err* fields are returned from the matching call.
type Engine struct {
	mu      sync.Mutex
	nextID  search.TaskID
	indexes map[string]*IndexState
	tasks   map[search.TaskID]bool
	waited  map[search.TaskID]bool

	Calls     []Call
	FailOps   map[string]bool
	DeleteErr error
	CreateErr error
	SearchErr error
}

// NewEngine creates an empty fake engine.
func NewEngine() *Engine {
	return &Engine{
		indexes: map[string]*IndexState{},
		tasks:   map[search.TaskID]bool{},
		waited:  map[search.TaskID]bool{},
		FailOps: map[string]bool{},
	}
}

// State returns a copy of the named index, or nil if it does not exist.
func (e *Engine) State(name string) *IndexState {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, ok := e.indexes[name]
	if !ok {
		return nil
	}
	cp := *st
	cp.Documents = make(map[string]repository.SearchableMap, len(st.Documents))
	for k, v := range st.Documents {
		cp.Documents[k] = v
	}
	return &cp
}

// Seed creates an index holding docs, as if left by an earlier run.
func (e *Engine) Seed(name string, docs ...repository.SearchableMap) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := &IndexState{Documents: map[string]repository.SearchableMap{}}
	for _, d := range docs {
		st.Documents[d.ID] = d
	}
	e.indexes[name] = st
}

// Ops returns the operation names of all recorded calls in order.
func (e *Engine) Ops() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	ops := make([]string, 0, len(e.Calls))
	for _, c := range e.Calls {
		ops = append(ops, c.Op)
	}
	return ops
}

// Waited reports whether WaitForTask was called for id.
func (e *Engine) Waited(id search.TaskID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.waited[id]
}

// Tasks returns all task IDs issued so far.
func (e *Engine) Tasks() []search.TaskID {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]search.TaskID, 0, len(e.tasks))
	for id := range e.tasks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (e *Engine) record(op, index string, args ...string) search.TaskID {
	e.nextID++
	id := e.nextID
	e.tasks[id] = !e.FailOps[op]
	e.Calls = append(e.Calls, Call{Op: op, Index: index, Args: args, Task: id})
	return id
}

func (e *Engine) DeleteIndexIfExists(ctx context.Context, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.Calls = append(e.Calls, Call{Op: "deleteIndex", Index: name})
	if e.DeleteErr != nil {
		return e.DeleteErr
	}
	delete(e.indexes, name)
	return nil
}

func (e *Engine) CreateIndex(ctx context.Context, name string) (search.TaskID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.CreateErr != nil {
		e.Calls = append(e.Calls, Call{Op: "createIndex", Index: name})
		return 0, e.CreateErr
	}
	id := e.record("createIndex", name)
	if e.tasks[id] {
		if _, exists := e.indexes[name]; !exists {
			e.indexes[name] = &IndexState{Documents: map[string]repository.SearchableMap{}}
		}
	}
	return id, nil
}

func (e *Engine) GetIndex(ctx context.Context, name string) (search.Index, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.Calls = append(e.Calls, Call{Op: "getIndex", Index: name})
	if _, ok := e.indexes[name]; !ok {
		return nil, fmt.Errorf("index %q not found", name)
	}
	return &index{engine: e, name: name}, nil
}

func (e *Engine) Index(name string) search.Index {
	return &index{engine: e, name: name}
}

func (e *Engine) WaitForTask(ctx context.Context, id search.TaskID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ok, known := e.tasks[id]
	if !known {
		return fmt.Errorf("unknown task %d", id)
	}
	e.waited[id] = true
	if !ok {
		return &search.TaskFailedError{ID: id, Status: "failed", Code: "internal", Message: "injected failure"}
	}
	return nil
}

type index struct {
	engine *Engine
	name   string
}

// apply records op and, when the task succeeds, mutates the index state,
// creating the index implicitly like Meilisearch does.
func (i *index) apply(op string, args []string, mutate func(st *IndexState)) search.TaskID {
	e := i.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.record(op, i.name, args...)
	if !e.tasks[id] {
		return id
	}
	st, ok := e.indexes[i.name]
	if !ok {
		st = &IndexState{Documents: map[string]repository.SearchableMap{}}
		e.indexes[i.name] = st
	}
	mutate(st)
	return id
}

func (i *index) UpdateRankingRules(ctx context.Context, rules []string) (search.TaskID, error) {
	return i.apply("updateRankingRules", rules, func(st *IndexState) {
		st.RankingRules = append([]string(nil), rules...)
	}), nil
}

func (i *index) UpdateSearchableAttributes(ctx context.Context, attributes []string) (search.TaskID, error) {
	return i.apply("updateSearchableAttributes", attributes, func(st *IndexState) {
		st.SearchableAttributes = append([]string(nil), attributes...)
	}), nil
}

func (i *index) UpdateFilterableAttributes(ctx context.Context, attributes []string) (search.TaskID, error) {
	return i.apply("updateFilterableAttributes", attributes, func(st *IndexState) {
		st.FilterableAttributes = append([]string(nil), attributes...)
	}), nil
}

func (i *index) UpdateSortableAttributes(ctx context.Context, attributes []string) (search.TaskID, error) {
	return i.apply("updateSortableAttributes", attributes, func(st *IndexState) {
		st.SortableAttributes = append([]string(nil), attributes...)
	}), nil
}

func (i *index) AddDocuments(ctx context.Context, docs []repository.SearchableMap, primaryKey string) (search.TaskID, error) {
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return i.apply("addDocuments", ids, func(st *IndexState) {
		st.PrimaryKey = primaryKey
		for _, d := range docs {
			st.Documents[d.ID] = d
		}
	}), nil
}

func (i *index) DeleteDocument(ctx context.Context, id string) (search.TaskID, error) {
	return i.apply("deleteDocument", []string{id}, func(st *IndexState) {
		delete(st.Documents, id)
	}), nil
}

// Search matches query case-insensitively against title and artist, applies
// equality filters, and returns hits ordered by id.
func (i *index) Search(ctx context.Context, query string, params search.Params) (*search.Results, error) {
	e := i.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.SearchErr != nil {
		return nil, e.SearchErr
	}

	hits := []repository.SearchableMap{}
	if st, ok := e.indexes[i.name]; ok {
		q := strings.ToLower(query)
		for _, d := range st.Documents {
			if q != "" && !strings.Contains(strings.ToLower(d.Title), q) && !strings.Contains(strings.ToLower(d.Artist), q) {
				continue
			}
			if !matchesFilters(d, params.Filters) {
				continue
			}
			hits = append(hits, d)
		}
	}
	sort.Slice(hits, func(a, b int) bool { return hits[a].ID < hits[b].ID })

	total := int64(len(hits))
	start := params.Offset
	if start > total {
		start = total
	}
	end := total
	if params.Limit > 0 && start+params.Limit < end {
		end = start + params.Limit
	}

	return &search.Results{
		Hits:               hits[start:end],
		EstimatedTotalHits: total,
		Offset:             params.Offset,
		Limit:              params.Limit,
	}, nil
}

func matchesFilters(d repository.SearchableMap, filters map[string]string) bool {
	for attr, want := range filters {
		var got string
		switch attr {
		case "artist":
			got = d.Artist
		case "uploader":
			got = d.Uploader
		case "author":
			if d.Author != nil {
				got = *d.Author
			}
		}
		if got != want {
			return false
		}
	}
	return true
}
