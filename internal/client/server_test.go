package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docstore-io/couch-client/internal/auth"
	"github.com/docstore-io/couch-client/internal/client"
	"github.com/docstore-io/couch-client/pkg/couchdb"
)

// newClient wraps a test server in a full client.
func newClient(t *testing.T, server *httptest.Server) couchdb.Client {
	t.Helper()

	c, err := client.New(&couchdb.Config{URL: server.URL, RetryMax: -1}, auth.NewNoAuth())
	require.NoError(t, err)

	return c
}

func TestServerClient_GetInfo(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/", request.URL.Path)
		assert.Equal(t, http.MethodGet, request.Method)
		assert.Equal(t, "application/json", request.Header.Get("Accept"))

		_, _ = writer.Write([]byte(`{
			"couchdb": "Welcome",
			"version": "3.3.3",
			"features": ["partitioned"],
			"vendor": {"name": "The Apache Software Foundation"}
		}`))
	}))
	defer server.Close()

	c := newClient(t, server)

	info, err := c.Server().GetInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Welcome", info.CouchDB)
	assert.Equal(t, "3.3.3", info.Version)
	assert.Equal(t, []string{"partitioned"}, info.Features)
	assert.Equal(t, "The Apache Software Foundation", info.Vendor.Name)
}

func TestServerClient_GetUp(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/_up", request.URL.Path)

		_, _ = writer.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	c := newClient(t, server)

	up, err := c.Server().GetUp(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", up.Status)
}

func TestServerClient_GetAllDbs(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/_all_dbs", request.URL.Path)
		assert.Equal(t, "10", request.URL.Query().Get("limit"))
		assert.Equal(t, `"a"`, request.URL.Query().Get("startkey"))

		_, _ = writer.Write([]byte(`["accounts","albums"]`))
	}))
	defer server.Close()

	c := newClient(t, server)

	limit := int64(10)
	startKey := "a"

	dbs, err := c.Server().GetAllDbs(context.Background(), &couchdb.AllDbsOptions{
		Limit:    &limit,
		StartKey: &startKey,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"accounts", "albums"}, dbs)
}

func TestServerClient_GetUUIDs(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/_uuids", request.URL.Path)
		assert.Equal(t, "2", request.URL.Query().Get("count"))

		_, _ = writer.Write([]byte(`{"uuids":["u1","u2"]}`))
	}))
	defer server.Close()

	c := newClient(t, server)

	count := int64(2)

	result, err := c.Server().GetUUIDs(context.Background(), &couchdb.UUIDsOptions{Count: &count})
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, result.UUIDs)
}

func TestServerClient_GetSession(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/_session", request.URL.Path)

		_, _ = writer.Write([]byte(`{
			"ok": true,
			"userCtx": {"name": "admin", "roles": ["_admin"]},
			"info": {"authenticated": "cookie"}
		}`))
	}))
	defer server.Close()

	c := newClient(t, server)

	session, err := c.Server().GetSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin", session.UserCtx.Name)
	assert.Equal(t, []string{"_admin"}, session.UserCtx.Roles)
}

func TestServerClient_GetMembership(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/_membership", request.URL.Path)

		_, _ = writer.Write([]byte(`{"all_nodes":["node1@host"],"cluster_nodes":["node1@host"]}`))
	}))
	defer server.Close()

	c := newClient(t, server)

	membership, err := c.Server().GetMembership(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"node1@host"}, membership.AllNodes)
}

func TestServerClient_GetActiveTasks(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/_active_tasks", request.URL.Path)

		_, _ = writer.Write([]byte(`[{"type":"database_compaction","database":"orders","progress":21}]`))
	}))
	defer server.Close()

	c := newClient(t, server)

	tasks, err := c.Server().GetActiveTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "database_compaction", tasks[0].Type)
	assert.Equal(t, 21, tasks[0].Progress)
}
