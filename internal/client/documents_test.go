package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docstore-io/couch-client/internal/auth"
	"github.com/docstore-io/couch-client/internal/client"
	"github.com/docstore-io/couch-client/pkg/couchdb"
)

func TestDocumentsClient_Get(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/orders/order:0001", request.URL.Path)
		assert.Equal(t, http.MethodGet, request.Method)
		assert.Equal(t, "1-abc", request.URL.Query().Get("rev"))
		assert.Equal(t, "true", request.URL.Query().Get("revs_info"))

		_, _ = writer.Write([]byte(`{"_id":"order:0001","_rev":"1-abc","state":"open"}`))
	}))
	defer server.Close()

	c := newClient(t, server)

	rev := "1-abc"
	revsInfo := true

	doc, err := c.Documents().Get(context.Background(), "orders", "order:0001", &couchdb.DocumentGetOptions{
		Rev:      &rev,
		RevsInfo: &revsInfo,
	})
	require.NoError(t, err)
	assert.Equal(t, "order:0001", doc.ID())
	assert.Equal(t, "1-abc", doc.Rev())
	assert.Equal(t, "open", doc["state"])
}

func TestDocumentsClient_GetEscapesDocumentID(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		// The raw path keeps the slash in the document ID escaped
		assert.Equal(t, "/orders/order%2F0001", request.URL.EscapedPath())

		_, _ = writer.Write([]byte(`{"_id":"order/0001","_rev":"1-abc"}`))
	}))
	defer server.Close()

	c := newClient(t, server)

	doc, err := c.Documents().Get(context.Background(), "orders", "order/0001", nil)
	require.NoError(t, err)
	assert.Equal(t, "order/0001", doc.ID())
}

func TestDocumentsClient_GetConditional(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, `"1-abc"`, request.Header.Get("If-None-Match"))

		_, _ = writer.Write([]byte(`{"_id":"order:0001","_rev":"2-def"}`))
	}))
	defer server.Close()

	c := newClient(t, server)

	ifNoneMatch := `"1-abc"`

	doc, err := c.Documents().Get(context.Background(), "orders", "order:0001", &couchdb.DocumentGetOptions{
		IfNoneMatch: &ifNoneMatch,
	})
	require.NoError(t, err)
	assert.Equal(t, "2-def", doc.Rev())
}

func TestDocumentsClient_CachedReadRevalidates(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/orders/order:0001", request.URL.Path)
		requests.Add(1)

		if request.Header.Get("If-None-Match") == `"1-abc"` {
			writer.WriteHeader(http.StatusNotModified)

			return
		}

		writer.Header().Set("ETag", `"1-abc"`)
		_, _ = writer.Write([]byte(`{"_id":"order:0001","_rev":"1-abc","state":"open"}`))
	}))
	defer server.Close()

	c, err := client.New(&couchdb.Config{
		URL:      server.URL,
		RetryMax: -1,
		Cache: &couchdb.CacheConfig{
			Type:   couchdb.CacheTypeMemory,
			Memory: &couchdb.MemoryCacheConfig{MaxSize: 10},
		},
	}, auth.NewNoAuth())
	require.NoError(t, err)

	cold, err := c.Documents().Get(context.Background(), "orders", "order:0001", nil)
	require.NoError(t, err)
	assert.Equal(t, "open", cold["state"])

	// The second read revalidates with If-None-Match and decodes the cached
	// body from the 304 answer
	warm, err := c.Documents().Get(context.Background(), "orders", "order:0001", nil)
	require.NoError(t, err)
	assert.Equal(t, "open", warm["state"])
	assert.Equal(t, "1-abc", warm.Rev())

	assert.Equal(t, int32(2), requests.Load())
}

func TestDocumentsClient_Put(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/orders/order:0001", request.URL.Path)
		assert.Equal(t, http.MethodPut, request.Method)
		assert.Equal(t, "1-abc", request.URL.Query().Get("rev"))

		var body map[string]any
		_ = json.NewDecoder(request.Body).Decode(&body)
		assert.Equal(t, "shipped", body["state"])

		writer.WriteHeader(http.StatusCreated)
		_, _ = writer.Write([]byte(`{"ok":true,"id":"order:0001","rev":"2-def"}`))
	}))
	defer server.Close()

	c := newClient(t, server)

	rev := "1-abc"

	result, err := c.Documents().Put(context.Background(), "orders", "order:0001",
		map[string]any{"state": "shipped"},
		&couchdb.DocumentPutOptions{Rev: &rev})
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, "2-def", result.Rev)
}

func TestDocumentsClient_PutBatch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "ok", request.URL.Query().Get("batch"))

		writer.WriteHeader(http.StatusAccepted)
		_, _ = writer.Write([]byte(`{"ok":true,"id":"order:0001"}`))
	}))
	defer server.Close()

	c := newClient(t, server)

	batch := true

	result, err := c.Documents().Put(context.Background(), "orders", "order:0001",
		map[string]any{"state": "open"},
		&couchdb.DocumentPutOptions{Batch: &batch})
	require.NoError(t, err)
	assert.True(t, result.OK)
}

func TestDocumentsClient_Delete(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/orders/order:0001", request.URL.Path)
		assert.Equal(t, http.MethodDelete, request.Method)
		assert.Equal(t, "2-def", request.URL.Query().Get("rev"))

		_, _ = writer.Write([]byte(`{"ok":true,"id":"order:0001","rev":"3-ghi"}`))
	}))
	defer server.Close()

	c := newClient(t, server)

	rev := "2-def"

	result, err := c.Documents().Delete(context.Background(), "orders", "order:0001", &couchdb.DocumentDeleteOptions{
		Rev: &rev,
	})
	require.NoError(t, err)
	assert.Equal(t, "3-ghi", result.Rev)
}

func TestDocumentsClient_Create(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/orders", request.URL.Path)
		assert.Equal(t, http.MethodPost, request.Method)

		writer.WriteHeader(http.StatusCreated)
		_, _ = writer.Write([]byte(`{"ok":true,"id":"generated-id","rev":"1-abc"}`))
	}))
	defer server.Close()

	c := newClient(t, server)

	result, err := c.Documents().Create(context.Background(), "orders", map[string]any{"state": "open"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "generated-id", result.ID)
}

func TestDocumentsClient_Head(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodHead, request.Method)

		writer.Header().Set("ETag", `"2-def"`)
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := newClient(t, server)

	rev, err := c.Documents().Head(context.Background(), "orders", "order:0001")
	require.NoError(t, err)
	assert.Equal(t, "2-def", rev)
}

func TestDocumentsClient_HeadMissing(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := newClient(t, server)

	_, err := c.Documents().Head(context.Background(), "orders", "missing")
	require.Error(t, err)
	assert.True(t, couchdb.IsNotFound(err))
}
