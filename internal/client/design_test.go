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

func TestDesignDocumentsClient_Get(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/orders/_design/reports", request.URL.Path)
		assert.Equal(t, http.MethodGet, request.Method)

		_, _ = writer.Write([]byte(`{
			"_id": "_design/reports",
			"_rev": "1-abc",
			"views": {"by_state": {"map": "function(doc) { emit(doc.state, 1); }"}}
		}`))
	}))
	defer server.Close()

	c := newClient(t, server)

	doc, err := c.DesignDocuments().Get(context.Background(), "orders", "reports", nil)
	require.NoError(t, err)
	assert.Equal(t, "_design/reports", doc.ID())
}

func TestDesignDocumentsClient_Put(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/orders/_design/reports", request.URL.Path)
		assert.Equal(t, http.MethodPut, request.Method)

		var body map[string]any
		_ = json.NewDecoder(request.Body).Decode(&body)
		assert.Contains(t, body, "views")

		writer.WriteHeader(http.StatusCreated)
		_, _ = writer.Write([]byte(`{"ok":true,"id":"_design/reports","rev":"1-abc"}`))
	}))
	defer server.Close()

	c := newClient(t, server)

	result, err := c.DesignDocuments().Put(context.Background(), "orders", "reports", map[string]any{
		"views": map[string]any{
			"by_state": map[string]any{"map": "function(doc) { emit(doc.state, 1); }"},
		},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "_design/reports", result.ID)
}

func TestDesignDocumentsClient_GetInfo(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/orders/_design/reports/_info", request.URL.Path)

		_, _ = writer.Write([]byte(`{"name":"reports","view_index":{"language":"javascript"}}`))
	}))
	defer server.Close()

	c := newClient(t, server)

	info, err := c.DesignDocuments().GetInfo(context.Background(), "orders", "reports")
	require.NoError(t, err)
	assert.Equal(t, "reports", info.Name)
}

func TestDesignDocumentsClient_View(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/orders/_design/reports/_view/by_state", request.URL.Path)
		assert.Equal(t, http.MethodGet, request.Method)
		assert.Equal(t, "true", request.URL.Query().Get("group"))
		assert.Equal(t, `"open"`, request.URL.Query().Get("key"))

		_, _ = writer.Write([]byte(`{"rows":[{"key":"open","value":7}]}`))
	}))
	defer server.Close()

	c := newClient(t, server)

	group := true

	result, err := c.DesignDocuments().View(context.Background(), "orders", "reports", "by_state",
		&couchdb.ViewOptions{Group: &group, Key: "open"})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, json.RawMessage(`"open"`), result.Rows[0].Key)
}

func TestDesignDocumentsClient_ViewWithKeys(t *testing.T) {
	t.Parallel()

	// A keys list switches to the POST form with the keys in the body.
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/orders/_design/reports/_view/by_state", request.URL.Path)
		assert.Equal(t, http.MethodPost, request.Method)

		var body map[string]any
		_ = json.NewDecoder(request.Body).Decode(&body)
		assert.Equal(t, []any{"open", "shipped"}, body["keys"])

		_, _ = writer.Write([]byte(`{"rows":[]}`))
	}))
	defer server.Close()

	c := newClient(t, server)

	_, err := c.DesignDocuments().View(context.Background(), "orders", "reports", "by_state",
		&couchdb.ViewOptions{Keys: []any{"open", "shipped"}})
	require.NoError(t, err)
}
