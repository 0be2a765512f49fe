package search_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/paradb/paradb-api/internal/models"
	"github.com/paradb/paradb-api/internal/repository"
	"github.com/paradb/paradb-api/internal/result"
	"github.com/paradb/paradb-api/internal/search"
	"github.com/paradb/paradb-api/internal/search/searchtest"
	"github.com/paradb/paradb-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMaps struct {
	res   result.Result[[]models.Map, repository.FindMapsError]
	calls int
}

func (s *stubMaps) FindMaps(ctx context.Context) result.Result[[]models.Map, repository.FindMapsError] {
	s.calls++
	return s.res
}

func okMaps(maps ...models.Map) *stubMaps {
	if maps == nil {
		maps = []models.Map{}
	}
	return &stubMaps{res: result.Ok[repository.FindMapsError](maps)}
}

var progressLines = "Deleting old indexes\nCreating new indexes\nGetting index\nSetting up attribute fields\nAdding data\nDone!\n"

func sampleMap() models.Map {
	return models.Map{
		ID:             "m1",
		SubmissionDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Title:          "Song",
		Artist:         "A",
		Author:         nil,
		Uploader:       "u1",
		Description:    testutil.Ptr("desc"),
	}
}

func TestRebuild_EmptyStore(t *testing.T) {
	engine := searchtest.NewEngine()
	var out bytes.Buffer

	err := search.NewRebuilder(okMaps(), engine, &out).Rebuild(context.Background())

	require.NoError(t, err)
	assert.Equal(t, progressLines, out.String())

	st := engine.State(search.MapsIndex)
	require.NotNil(t, st)
	assert.Empty(t, st.Documents)
	assert.Equal(t, search.RankingRules, st.RankingRules)
	assert.Equal(t, search.SearchableAttributes, st.SearchableAttributes)
	assert.Equal(t, search.FilterableAttributes, st.FilterableAttributes)
	assert.Equal(t, search.SortableAttributes(), st.SortableAttributes)

	// the load call is made even with nothing to load
	var addCall *searchtest.Call
	for i := range engine.Calls {
		if engine.Calls[i].Op == "addDocuments" {
			addCall = &engine.Calls[i]
		}
	}
	require.NotNil(t, addCall)
	assert.Empty(t, addCall.Args)
}

func TestRebuild_SingleMap(t *testing.T) {
	engine := searchtest.NewEngine()

	err := search.NewRebuilder(okMaps(sampleMap()), engine, &bytes.Buffer{}).Rebuild(context.Background())
	require.NoError(t, err)

	st := engine.State(search.MapsIndex)
	require.NotNil(t, st)
	assert.Equal(t, "id", st.PrimaryKey)
	require.Len(t, st.Documents, 1)

	doc := st.Documents["m1"]
	assert.Equal(t, "m1", doc.ID)
	assert.Equal(t, "Song", doc.Title)
	assert.Equal(t, "A", doc.Artist)
	assert.Nil(t, doc.Author)
	assert.Equal(t, "u1", doc.Uploader)
	require.NotNil(t, doc.Description)
	assert.Equal(t, "desc", *doc.Description)
}

func TestRebuild_RemovesStaleDocuments(t *testing.T) {
	engine := searchtest.NewEngine()
	engine.Seed(search.MapsIndex,
		repository.SearchableMap{ID: "stale1", Title: "Old"},
		repository.SearchableMap{ID: "m1", Title: "Outdated title"},
	)

	err := search.NewRebuilder(okMaps(sampleMap()), engine, &bytes.Buffer{}).Rebuild(context.Background())
	require.NoError(t, err)

	res, err := engine.Index(search.MapsIndex).Search(context.Background(), "", search.Params{})
	require.NoError(t, err)
	require.Len(t, res.Hits, 1)
	assert.Equal(t, "m1", res.Hits[0].ID)
	assert.Equal(t, "Song", res.Hits[0].Title)
}

func TestRebuild_Idempotent(t *testing.T) {
	engine := searchtest.NewEngine()
	source := okMaps(sampleMap(), models.Map{ID: "m2", Title: "Other", Artist: "B", Uploader: "u2"})
	rebuilder := search.NewRebuilder(source, engine, &bytes.Buffer{})

	require.NoError(t, rebuilder.Rebuild(context.Background()))
	first := engine.State(search.MapsIndex)

	require.NoError(t, rebuilder.Rebuild(context.Background()))
	second := engine.State(search.MapsIndex)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, source.calls)
}

func TestRebuild_FetchFailureShortCircuits(t *testing.T) {
	engine := searchtest.NewEngine()
	source := &stubMaps{res: result.Fail[[]models.Map](
		result.Error[repository.FindMapsError]{Type: repository.FindMapsUnknownDBError, Message: "connection refused"},
		result.Error[repository.FindMapsError]{Type: "timeout", Message: "statement timeout"},
	)}
	var out bytes.Buffer

	err := search.NewRebuilder(source, engine, &out).Rebuild(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), `{"type":"unknown_db_error","message":"connection refused"}`)
	assert.Contains(t, err.Error(), `{"type":"timeout","message":"statement timeout"}`)

	var failure *result.FailureError[repository.FindMapsError]
	require.True(t, errors.As(err, &failure))
	assert.Len(t, failure.Errors, 2)

	assert.Empty(t, engine.Calls, "search service must not be contacted")
	assert.Empty(t, out.String())
}

func TestRebuild_FailedTaskPreventsDone(t *testing.T) {
	for _, op := range []string{
		"createIndex",
		"updateRankingRules",
		"updateSearchableAttributes",
		"updateFilterableAttributes",
		"updateSortableAttributes",
		"addDocuments",
	} {
		t.Run(op, func(t *testing.T) {
			engine := searchtest.NewEngine()
			engine.FailOps[op] = true
			var out bytes.Buffer

			err := search.NewRebuilder(okMaps(sampleMap()), engine, &out).Rebuild(context.Background())

			require.Error(t, err)
			var failed *search.TaskFailedError
			assert.True(t, errors.As(err, &failed))
			assert.NotContains(t, out.String(), "Done!")
		})
	}
}

func TestRebuild_WaitsForEveryTask(t *testing.T) {
	engine := searchtest.NewEngine()

	require.NoError(t, search.NewRebuilder(okMaps(sampleMap()), engine, &bytes.Buffer{}).Rebuild(context.Background()))

	tasks := engine.Tasks()
	require.Len(t, tasks, 6)
	for _, id := range tasks {
		assert.True(t, engine.Waited(id), "task %d was not awaited", id)
	}
}

func TestRebuild_CallOrder(t *testing.T) {
	engine := searchtest.NewEngine()

	require.NoError(t, search.NewRebuilder(okMaps(), engine, &bytes.Buffer{}).Rebuild(context.Background()))

	assert.Equal(t, []string{
		"deleteIndex",
		"createIndex",
		"getIndex",
		"updateRankingRules",
		"updateSearchableAttributes",
		"updateFilterableAttributes",
		"updateSortableAttributes",
		"addDocuments",
	}, engine.Ops())
}

func TestRebuild_ServiceErrorsAbort(t *testing.T) {
	t.Run("delete", func(t *testing.T) {
		engine := searchtest.NewEngine()
		engine.DeleteErr = errors.New("401 invalid api key")
		var out bytes.Buffer

		err := search.NewRebuilder(okMaps(), engine, &out).Rebuild(context.Background())

		require.ErrorContains(t, err, "invalid api key")
		assert.Equal(t, "Deleting old indexes\n", out.String())
		assert.Equal(t, []string{"deleteIndex"}, engine.Ops())
	})

	t.Run("create", func(t *testing.T) {
		engine := searchtest.NewEngine()
		engine.CreateErr = errors.New("unreachable")

		err := search.NewRebuilder(okMaps(), engine, &bytes.Buffer{}).Rebuild(context.Background())

		require.ErrorContains(t, err, "unreachable")
		assert.Equal(t, []string{"deleteIndex", "createIndex"}, engine.Ops())
	})
}
