package internal_reciprocal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internal_pool "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/internal/pool"
	"github.com/delloop-lab/mypracticehelper-sub000/pkg/commons"
	"github.com/delloop-lab/mypracticehelper-sub000/pkg/types"
)

// clientStore is an in-memory backend for client records and relationship
// appends.
type clientStore struct {
	mu      sync.Mutex
	clients map[string]*types.Client
	appends []string
	server  *httptest.Server
}

func newClientStore(clients ...*types.Client) *clientStore {
	s := &clientStore{clients: map[string]*types.Client{}}
	for _, c := range clients {
		s.clients[c.ID] = c
	}
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

func (s *clientStore) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	// api/clients/{id} or api/clients/{id}/relationships
	if len(parts) >= 4 && parts[3] == "relationships" && r.Method == http.MethodPost {
		var rel types.Relationship
		json.NewDecoder(r.Body).Decode(&rel)
		c, ok := s.clients[parts[2]]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		c.Relationships = append(c.Relationships, rel)
		s.appends = append(s.appends, parts[2]+":"+rel.RelatedClientID+":"+rel.Type)
		return
	}
	if len(parts) == 3 && r.Method == http.MethodGet {
		c, ok := s.clients[parts[2]]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(c)
		return
	}
	w.WriteHeader(http.StatusBadRequest)
}

func (s *clientStore) appendCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.appends)
}

func newTestQueue(t *testing.T, store *clientStore) *Queue {
	t.Helper()
	logger, err := commons.NewApplicationLoggerWithLevel("error")
	require.NoError(t, err)
	backend := internal_pool.NewBackendClient(logger, resty.New(), store.server.URL, time.Second)
	return NewQueue(logger, backend)
}

func TestQueue_EnqueuesMissingBackReference(t *testing.T) {
	store := newClientStore(
		&types.Client{ID: "c2", Name: "Robert Hale"},
	)
	defer store.server.Close()
	q := newTestQueue(t, store)

	saved := types.Client{
		ID:   "c1",
		Name: "Alice Hale",
		Relationships: []types.Relationship{
			{RelatedClientID: "c2", Type: "Father"},
		},
	}
	enqueued, err := q.EnqueueChecks(context.Background(), saved)
	require.NoError(t, err)
	require.Len(t, enqueued, 1)
	assert.Equal(t, "c1", enqueued[0].SourceID)
	assert.Equal(t, "c2", enqueued[0].TargetID)
	assert.Equal(t, "Son", enqueued[0].SuggestedType)
	assert.Equal(t, 1, q.Pending())
}

func TestQueue_NothingEnqueuedWhenBackReferenceExists(t *testing.T) {
	store := newClientStore(
		&types.Client{
			ID:   "c2",
			Name: "Robert Hale",
			Relationships: []types.Relationship{
				{RelatedClientID: "c1", Type: "Daughter"},
			},
		},
	)
	defer store.server.Close()
	q := newTestQueue(t, store)

	saved := types.Client{
		ID: "c1",
		Relationships: []types.Relationship{
			{RelatedClientID: "c2", Type: "Father"},
		},
	}
	enqueued, err := q.EnqueueChecks(context.Background(), saved)
	require.NoError(t, err)
	assert.Empty(t, enqueued)
	assert.Zero(t, q.Pending())
}

func TestQueue_SelfAndEmptyEdgesIgnored(t *testing.T) {
	store := newClientStore()
	defer store.server.Close()
	q := newTestQueue(t, store)

	saved := types.Client{
		ID: "c1",
		Relationships: []types.Relationship{
			{RelatedClientID: "", Type: "Friend"},
			{RelatedClientID: "c1", Type: "Self"},
		},
	}
	enqueued, err := q.EnqueueChecks(context.Background(), saved)
	require.NoError(t, err)
	assert.Empty(t, enqueued)
}

func TestQueue_StrictlyOneTaskAtATime(t *testing.T) {
	store := newClientStore(
		&types.Client{ID: "c2", Name: "Robert Hale"},
		&types.Client{ID: "c3", Name: "Mary Hale"},
	)
	defer store.server.Close()
	q := newTestQueue(t, store)

	saved := types.Client{
		ID: "c1",
		Relationships: []types.Relationship{
			{RelatedClientID: "c2", Type: "Father"},
			{RelatedClientID: "c3", Type: "Mother"},
		},
	}
	_, err := q.EnqueueChecks(context.Background(), saved)
	require.NoError(t, err)

	first, err := q.Next()
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "c2", first.TargetID, "FIFO order")

	// Second dequeue is refused while the first is unresolved.
	_, err = q.Next()
	assert.True(t, commons.IsCategory(err, commons.CategoryState))

	require.NoError(t, q.Skip())
	second, err := q.Next()
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, "c3", second.TargetID)
}

func TestQueue_ConfirmWritesReverseEdge(t *testing.T) {
	store := newClientStore(&types.Client{ID: "c2", Name: "Robert Hale"})
	defer store.server.Close()
	q := newTestQueue(t, store)

	saved := types.Client{
		ID: "c1",
		Relationships: []types.Relationship{
			{RelatedClientID: "c2", Type: "Father"},
		},
	}
	_, err := q.EnqueueChecks(context.Background(), saved)
	require.NoError(t, err)

	task, err := q.Next()
	require.NoError(t, err)
	require.NotNil(t, task)
	require.NoError(t, q.Confirm(context.Background()))

	assert.Equal(t, []string{"c2:c1:Son"}, store.appends)

	// Queue is drained and ready for the next task.
	next, err := q.Next()
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestQueue_ConfirmIdempotentWhenEdgeAppearedMeanwhile(t *testing.T) {
	target := &types.Client{ID: "c2", Name: "Robert Hale"}
	store := newClientStore(target)
	defer store.server.Close()
	q := newTestQueue(t, store)

	saved := types.Client{
		ID: "c1",
		Relationships: []types.Relationship{
			{RelatedClientID: "c2", Type: "Father"},
		},
	}
	_, err := q.EnqueueChecks(context.Background(), saved)
	require.NoError(t, err)
	_, err = q.Next()
	require.NoError(t, err)

	// The reverse edge appears between dequeue and confirm.
	store.mu.Lock()
	target.Relationships = append(target.Relationships,
		types.Relationship{RelatedClientID: "c1", Type: "Son"})
	store.mu.Unlock()

	require.NoError(t, q.Confirm(context.Background()))
	assert.Zero(t, store.appendCount(), "no duplicate edge written")
}

func TestQueue_ConfirmFailureKeepsTaskActive(t *testing.T) {
	store := newClientStore(&types.Client{ID: "c2"})
	defer store.server.Close()
	q := newTestQueue(t, store)

	saved := types.Client{
		ID:            "c1",
		Relationships: []types.Relationship{{RelatedClientID: "c2", Type: "Sister"}},
	}
	_, err := q.EnqueueChecks(context.Background(), saved)
	require.NoError(t, err)
	_, err = q.Next()
	require.NoError(t, err)

	// Take the backend away; confirm must fail and keep the task active.
	store.server.Close()
	err = q.Confirm(context.Background())
	require.Error(t, err)

	_, err = q.Next()
	assert.True(t, commons.IsCategory(err, commons.CategoryState), "task still active")
	assert.NoError(t, q.Skip())
}

func TestQueue_ConfirmWithoutActiveTaskRejected(t *testing.T) {
	store := newClientStore()
	defer store.server.Close()
	q := newTestQueue(t, store)

	err := q.Confirm(context.Background())
	assert.True(t, commons.IsCategory(err, commons.CategoryState))
	assert.True(t, commons.IsCategory(q.Skip(), commons.CategoryState))
}

func TestQueue_DuplicatePairNotEnqueuedTwice(t *testing.T) {
	store := newClientStore(&types.Client{ID: "c2", Name: "Robert Hale"})
	defer store.server.Close()
	q := newTestQueue(t, store)

	saved := types.Client{
		ID:            "c1",
		Relationships: []types.Relationship{{RelatedClientID: "c2", Type: "Father"}},
	}
	_, err := q.EnqueueChecks(context.Background(), saved)
	require.NoError(t, err)
	again, err := q.EnqueueChecks(context.Background(), saved)
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.Equal(t, 1, q.Pending())
}
