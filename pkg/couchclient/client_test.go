package couchclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docstore-io/couch-client/pkg/couchclient"
	"github.com/docstore-io/couch-client/pkg/couchdb"
)

func TestNew_NilConfig(t *testing.T) {
	t.Parallel()

	_, err := couchclient.New(nil)
	assert.ErrorIs(t, err, couchdb.ErrConfigRequired)
}

func TestNew_MissingURL(t *testing.T) {
	t.Parallel()

	_, err := couchclient.New(&couchdb.Config{})
	assert.ErrorIs(t, err, couchdb.ErrServerURLRequired)
}

func TestNew_NormalizesURL(t *testing.T) {
	t.Parallel()

	config := &couchdb.Config{URL: "http://localhost:5984/"}

	_, err := couchclient.New(config)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5984", config.URL)
}

func TestNew_AddsSchemeWhenMissing(t *testing.T) {
	t.Parallel()

	config := &couchdb.Config{URL: "couch.example.com"}

	_, err := couchclient.New(config)
	require.NoError(t, err)
	assert.Equal(t, "https://couch.example.com", config.URL)
}

func TestNew_BasicAuthRequiresUsername(t *testing.T) {
	t.Parallel()

	_, err := couchclient.New(&couchdb.Config{
		URL:      "http://localhost:5984",
		AuthType: couchdb.AuthTypeBasic,
	})
	assert.ErrorIs(t, err, couchdb.ErrCredentialsRequired)
}

func TestNew_CookieAuthRequiresUsername(t *testing.T) {
	t.Parallel()

	_, err := couchclient.New(&couchdb.Config{
		URL:      "http://localhost:5984",
		AuthType: couchdb.AuthTypeCookie,
	})
	assert.ErrorIs(t, err, couchdb.ErrCredentialsRequired)
}

func TestNew_UnknownAuthType(t *testing.T) {
	t.Parallel()

	_, err := couchclient.New(&couchdb.Config{
		URL:      "http://localhost:5984",
		AuthType: couchdb.AuthType("oauth"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, couchdb.ErrUnknownAuthType)
	assert.Contains(t, err.Error(), "oauth")
}

func TestNew_BasicAuthEndToEnd(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		username, password, ok := request.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "admin", username)
		assert.Equal(t, "secret", password)

		_, _ = writer.Write([]byte(`{"couchdb":"Welcome","version":"3.3.3"}`))
	}))
	defer server.Close()

	c, err := couchclient.NewWithBasicAuth(server.URL, "admin", "secret")
	require.NoError(t, err)

	info, err := c.Server().GetInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Welcome", info.CouchDB)
}

func TestNew_DefaultsToCookieAuthWithCredentials(t *testing.T) {
	t.Parallel()

	var sawSession bool

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/_session":
			sawSession = true

			http.SetCookie(writer, &http.Cookie{Name: "AuthSession", Value: "cookie-value", MaxAge: 600})
			_, _ = writer.Write([]byte(`{"ok":true}`))
		default:
			cookie, err := request.Cookie("AuthSession")
			require.NoError(t, err)
			assert.Equal(t, "cookie-value", cookie.Value)

			_, _ = writer.Write([]byte(`{"couchdb":"Welcome"}`))
		}
	}))
	defer server.Close()

	// No explicit AuthType: credentials imply cookie authentication
	c, err := couchclient.New(&couchdb.Config{
		URL:      server.URL,
		Username: "admin",
		Password: "secret",
	})
	require.NoError(t, err)

	_, err = c.Server().GetInfo(context.Background())
	require.NoError(t, err)
	assert.True(t, sawSession)
}

func TestNewWithURL_NoAuthentication(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Empty(t, request.Header.Get("Authorization"))
		assert.Empty(t, request.Cookies())

		_, _ = writer.Write([]byte(`{"couchdb":"Welcome"}`))
	}))
	defer server.Close()

	c, err := couchclient.NewWithURL(server.URL)
	require.NoError(t, err)

	_, err = c.Server().GetInfo(context.Background())
	require.NoError(t, err)
}
