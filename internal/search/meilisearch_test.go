package search_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/paradb/paradb-api/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// meiliServer answers index deletions with task 7 and reports tasks with
// the JSON registered in tasks.
type meiliServer struct {
	mu    sync.Mutex
	tasks map[int]string
}

func newMeiliServer(t *testing.T) (*meiliServer, *search.MeiliEngine) {
	t.Helper()

	s := &meiliServer{tasks: map[int]string{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/indexes/maps", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		fmt.Fprint(w, `{"taskUid":7,"indexUid":"maps","status":"enqueued","type":"indexDeletion"}`)
	})
	mux.HandleFunc("/tasks/", func(w http.ResponseWriter, r *http.Request) {
		var id int
		if _, err := fmt.Sscanf(r.URL.Path, "/tasks/%d", &id); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		body, ok := s.tasks[id]
		s.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return s, search.NewMeiliEngine(server.URL, "masterKey")
}

func (s *meiliServer) setTask(id int, status, code, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	body := fmt.Sprintf(`{"uid":%d,"indexUid":"maps","status":%q,"type":"indexDeletion"`, id, status)
	if code != "" {
		body += fmt.Sprintf(`,"error":{"message":%q,"code":%q,"type":"invalid_request","link":""}`, message, code)
	}
	s.tasks[id] = body + "}"
}

func TestMeiliEngine_DeleteIndexIfExists(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		code       string
		wantFailed bool
	}{
		{name: "deleted", status: "succeeded"},
		{name: "index absent", status: "failed", code: "index_not_found"},
		{name: "other failure", status: "failed", code: "internal", wantFailed: true},
		{name: "canceled", status: "canceled", wantFailed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, engine := newMeiliServer(t)
			server.setTask(7, tt.status, tt.code, "boom")

			err := engine.DeleteIndexIfExists(context.Background(), search.MapsIndex)
			if !tt.wantFailed {
				require.NoError(t, err)
				return
			}

			var failed *search.TaskFailedError
			require.True(t, errors.As(err, &failed), "got %v", err)
			assert.Equal(t, search.TaskID(7), failed.ID)
			assert.Equal(t, tt.status, failed.Status)
			assert.Equal(t, tt.code, failed.Code)
		})
	}
}

func TestMeiliEngine_WaitForTask(t *testing.T) {
	server, engine := newMeiliServer(t)
	server.setTask(1, "succeeded", "", "")
	server.setTask(2, "failed", "invalid_settings_ranking_rules", "bad rule")
	server.setTask(3, "canceled", "", "")

	require.NoError(t, engine.WaitForTask(context.Background(), 1))

	var failed *search.TaskFailedError
	err := engine.WaitForTask(context.Background(), 2)
	require.True(t, errors.As(err, &failed), "got %v", err)
	assert.Equal(t, "invalid_settings_ranking_rules", failed.Code)
	assert.Equal(t, "bad rule", failed.Message)

	err = engine.WaitForTask(context.Background(), 3)
	require.True(t, errors.As(err, &failed), "got %v", err)
	assert.Equal(t, "canceled", failed.Status)

	// Failures of the barrier surface the same typed error
	err = search.WaitForTasks(context.Background(), engine, 1, 2)
	require.True(t, errors.As(err, &failed), "got %v", err)
	assert.Equal(t, search.TaskID(2), failed.ID)
}
