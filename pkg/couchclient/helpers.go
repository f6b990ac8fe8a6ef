package couchclient

import (
	"github.com/docstore-io/couch-client/pkg/couchdb"
)

// NewWithURL creates an unauthenticated client for a server URL.
func NewWithURL(url string) (couchdb.Client, error) {
	return New(&couchdb.Config{
		URL:      url,
		AuthType: couchdb.AuthTypeNone,
	})
}

// NewWithBasicAuth creates a client that sends basic credentials on every
// request.
func NewWithBasicAuth(url, username, password string) (couchdb.Client, error) {
	return New(&couchdb.Config{
		URL:      url,
		Username: username,
		Password: password,
		AuthType: couchdb.AuthTypeBasic,
	})
}

// NewWithCookieAuth creates a client that authenticates through an
// AuthSession cookie obtained from POST /_session.
func NewWithCookieAuth(url, username, password string) (couchdb.Client, error) {
	return New(&couchdb.Config{
		URL:      url,
		Username: username,
		Password: password,
		AuthType: couchdb.AuthTypeCookie,
	})
}
