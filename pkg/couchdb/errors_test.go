package couchdb_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docstore-io/couch-client/pkg/couchdb"
)

func TestParseServerError_Envelope(t *testing.T) {
	t.Parallel()

	err := couchdb.ParseServerError(http.StatusNotFound, []byte(`{"error":"not_found","reason":"missing"}`))

	require.NotNil(t, err)
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "not_found", err.ErrorType)
	assert.Equal(t, "missing", err.Reason)
	assert.Equal(t, "not_found: missing (status 404)", err.Error())
}

func TestParseServerError_NonJSONBody(t *testing.T) {
	t.Parallel()

	err := couchdb.ParseServerError(http.StatusBadGateway, []byte("upstream unavailable"))

	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadGateway, err.StatusCode)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), err.ErrorType)
}

func TestParseServerError_EmptyBody(t *testing.T) {
	t.Parallel()

	err := couchdb.ParseServerError(http.StatusInternalServerError, nil)

	require.NotNil(t, err)
	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), err.ErrorType)
}

func TestErrorPredicates(t *testing.T) {
	t.Parallel()

	notFound := couchdb.ParseServerError(http.StatusNotFound, []byte(`{"error":"not_found","reason":"missing"}`))
	conflict := couchdb.ParseServerError(http.StatusConflict, []byte(`{"error":"conflict","reason":"Document update conflict."}`))
	unauthorized := couchdb.ParseServerError(http.StatusUnauthorized, []byte(`{"error":"unauthorized","reason":"Name or password is incorrect."}`))
	forbidden := couchdb.ParseServerError(http.StatusForbidden, []byte(`{"error":"forbidden","reason":"You are not allowed to access this db."}`))

	assert.True(t, couchdb.IsNotFound(notFound))
	assert.True(t, couchdb.IsConflict(conflict))
	assert.True(t, couchdb.IsUnauthorized(unauthorized))
	assert.True(t, couchdb.IsForbidden(forbidden))

	assert.False(t, couchdb.IsNotFound(conflict))
	assert.False(t, couchdb.IsConflict(notFound))
	assert.False(t, couchdb.IsNotFound(nil))
}

func TestErrorPredicates_Wrapped(t *testing.T) {
	t.Parallel()

	inner := couchdb.ParseServerError(http.StatusConflict, []byte(`{"error":"conflict","reason":"stale"}`))
	wrapped := fmt.Errorf("putting document: %w", inner)

	assert.True(t, couchdb.IsConflict(wrapped))
}
