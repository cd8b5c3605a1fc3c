package internal_pool

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delloop-lab/mypracticehelper-sub000/pkg/commons"
	"github.com/delloop-lab/mypracticehelper-sub000/pkg/types"
)

func testLogger(t *testing.T) commons.Logger {
	t.Helper()
	l, err := commons.NewApplicationLoggerWithLevel("error")
	require.NoError(t, err)
	return l
}

func newTestBackend(t *testing.T, handler http.Handler, timeout time.Duration) (*BackendClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	return NewBackendClient(testLogger(t), resty.New(), server.URL, timeout), server
}

func TestBackendClient_NotesDecodeBothFieldConventions(t *testing.T) {
	// The pool mixes records written by different producers. camelCase and
	// snake_case spellings of the same field must land in the same place.
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/notes", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{
				"id":        "n1",
				"source":    "recording",
				"sessionId": "sess-1",
				"clientId":  "c1",
				"createdAt": "2026-03-14T10:00:00Z",
			},
			{
				"id":         "n2",
				"source":     "written",
				"session_id": "sess-1",
				"client_id":  "c1",
				"created_at": "2026-03-14T11:00:00Z",
			},
		})
	})
	b, server := newTestBackend(t, handler, time.Second)
	defer server.Close()

	notes, err := b.Notes(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "sess-1", notes[0].SessionID)
	assert.Equal(t, "sess-1", notes[1].SessionID)
	assert.Equal(t, "c1", notes[1].ClientID)
	assert.Equal(t, 2026, notes[1].CreatedAt.Year())
}

func TestBackendClient_UndecodableRecordSkipped(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": "good", "source": "written"},
			{"id": map[string]interface{}{"not": "a string"}, "source": "written"},
		})
	})
	b, server := newTestBackend(t, handler, time.Second)
	defer server.Close()

	notes, err := b.Notes(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "good", notes[0].ID)
}

func TestBackendClient_TimeoutIsItsOwnCategory(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})
	b, server := newTestBackend(t, handler, 20*time.Millisecond)
	defer server.Close()

	_, err := b.Notes(context.Background())
	require.Error(t, err)
	assert.True(t, commons.IsCategory(err, commons.CategoryTimeout))
}

func TestBackendClient_HTTPErrorIsTransport(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	b, server := newTestBackend(t, handler, time.Second)
	defer server.Close()

	_, err := b.Sessions(context.Background())
	require.Error(t, err)
	assert.True(t, commons.IsCategory(err, commons.CategoryTransport))
	assert.False(t, commons.IsCategory(err, commons.CategoryTimeout))
}

func TestBackendClient_ClientDecodesRelationships(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/clients/c1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":   "c1",
			"name": "Alice Carter",
			"relationships": []map[string]interface{}{
				{"related_client_id": "c2", "type": "Mother"},
			},
		})
	})
	b, server := newTestBackend(t, handler, time.Second)
	defer server.Close()

	client, err := b.Client(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, client.Relationships, 1)
	assert.Equal(t, "c2", client.Relationships[0].RelatedClientID)
	assert.Equal(t, "Mother", client.Relationships[0].Type)
	assert.True(t, client.References("c2"))
	assert.False(t, client.References("c3"))
}

func TestBackendClient_AppendRelationshipPostsEdge(t *testing.T) {
	var got map[string]string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/clients/c2/relationships", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&got)
	})
	b, server := newTestBackend(t, handler, time.Second)
	defer server.Close()

	err := b.AppendRelationship(context.Background(), "c2",
		types.Relationship{RelatedClientID: "c1", Type: "Daughter"})
	require.NoError(t, err)
	assert.Equal(t, "c1", got["relatedClientId"])
	assert.Equal(t, "Daughter", got["type"])
}
