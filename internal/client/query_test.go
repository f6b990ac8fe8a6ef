package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docstore-io/couch-client/pkg/couchdb"
)

func TestQueryClient_Find(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/orders/_find", request.URL.Path)
		assert.Equal(t, http.MethodPost, request.Method)

		var body map[string]any
		_ = json.NewDecoder(request.Body).Decode(&body)
		assert.Equal(t, map[string]any{"state": "open"}, body["selector"])
		assert.Equal(t, float64(10), body["limit"])
		assert.Equal(t, []any{"_id", "state"}, body["fields"])
		assert.Equal(t, "_design/reports", body["use_index"])

		_, _ = writer.Write([]byte(`{
			"docs": [{"_id": "order:0001", "state": "open"}],
			"bookmark": "g1AAAA"
		}`))
	}))
	defer server.Close()

	c := newClient(t, server)

	limit := int64(10)
	useIndex := "_design/reports"

	result, err := c.Queries().Find(context.Background(), "orders",
		map[string]any{"state": "open"},
		&couchdb.FindOptions{
			Limit:    &limit,
			Fields:   []string{"_id", "state"},
			UseIndex: useIndex,
		})
	require.NoError(t, err)
	require.Len(t, result.Docs, 1)
	assert.Equal(t, "order:0001", result.Docs[0].ID())
	assert.Equal(t, "g1AAAA", result.Bookmark)
}

func TestQueryClient_Explain(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/orders/_explain", request.URL.Path)
		assert.Equal(t, http.MethodPost, request.Method)

		var body map[string]any
		_ = json.NewDecoder(request.Body).Decode(&body)
		assert.Equal(t, map[string]any{"state": "open"}, body["selector"])

		_, _ = writer.Write([]byte(`{"dbname":"orders","index":{"type":"json","name":"state-index"}}`))
	}))
	defer server.Close()

	c := newClient(t, server)

	explain, err := c.Queries().Explain(context.Background(), "orders", map[string]any{"state": "open"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "orders", explain.DBName)
	assert.Equal(t, "state-index", explain.Index.Name)
}

func TestQueryClient_GetIndexes(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/orders/_index", request.URL.Path)
		assert.Equal(t, http.MethodGet, request.Method)

		_, _ = writer.Write([]byte(`{
			"total_rows": 1,
			"indexes": [{"ddoc": "_design/reports", "name": "state-index", "type": "json"}]
		}`))
	}))
	defer server.Close()

	c := newClient(t, server)

	indexes, err := c.Queries().GetIndexes(context.Background(), "orders")
	require.NoError(t, err)
	require.Len(t, indexes.Indexes, 1)
	assert.Equal(t, "state-index", indexes.Indexes[0].Name)
}

func TestQueryClient_CreateIndex(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/orders/_index", request.URL.Path)
		assert.Equal(t, http.MethodPost, request.Method)

		var body map[string]any
		_ = json.NewDecoder(request.Body).Decode(&body)
		assert.Equal(t, map[string]any{"fields": []any{"state"}}, body["index"])
		assert.Equal(t, "state-index", body["name"])

		_, _ = writer.Write([]byte(`{"result":"created","id":"_design/abc","name":"state-index"}`))
	}))
	defer server.Close()

	c := newClient(t, server)

	name := "state-index"

	result, err := c.Queries().CreateIndex(context.Background(), "orders",
		map[string]any{"fields": []any{"state"}},
		&couchdb.IndexCreateOptions{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "created", result.Result)
}

func TestQueryClient_DeleteIndex(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/orders/_index/abc/json/state-index", request.URL.Path)
		assert.Equal(t, http.MethodDelete, request.Method)

		_, _ = writer.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	c := newClient(t, server)

	result, err := c.Queries().DeleteIndex(context.Background(), "orders", "abc", "json", "state-index")
	require.NoError(t, err)
	assert.True(t, result.OK)
}
