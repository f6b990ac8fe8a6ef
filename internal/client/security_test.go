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

func TestSecurityClient_Get(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/orders/_security", request.URL.Path)
		assert.Equal(t, http.MethodGet, request.Method)

		_, _ = writer.Write([]byte(`{
			"admins": {"names": ["alice"], "roles": ["ops"]},
			"members": {"names": [], "roles": ["staff"]}
		}`))
	}))
	defer server.Close()

	c := newClient(t, server)

	security, err := c.Security().Get(context.Background(), "orders")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, security.Admins.Names)
	assert.Equal(t, []string{"staff"}, security.Members.Roles)
}

func TestSecurityClient_Put(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/orders/_security", request.URL.Path)
		assert.Equal(t, http.MethodPut, request.Method)

		var body map[string]any
		_ = json.NewDecoder(request.Body).Decode(&body)
		admins, ok := body["admins"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, []any{"alice"}, admins["names"])

		_, _ = writer.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	c := newClient(t, server)

	result, err := c.Security().Put(context.Background(), "orders", &couchdb.SecurityObject{
		Admins:  couchdb.Names{Names: []string{"alice"}, Roles: []string{"ops"}},
		Members: couchdb.Names{Roles: []string{"staff"}},
	})
	require.NoError(t, err)
	assert.True(t, result.OK)
}
