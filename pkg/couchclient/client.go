// Package couchclient provides the main entry point for creating CouchDB
// API clients.
package couchclient

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"

	"github.com/docstore-io/couch-client/internal/auth"
	"github.com/docstore-io/couch-client/internal/client"
	"github.com/docstore-io/couch-client/internal/constants"
	"github.com/docstore-io/couch-client/pkg/couchdb"
)

// New creates a new CouchDB client from config.
func New(config *couchdb.Config) (couchdb.Client, error) {
	if config == nil {
		return nil, couchdb.ErrConfigRequired
	}

	if config.URL == "" {
		return nil, couchdb.ErrServerURLRequired
	}

	// Normalize the server URL
	serverURL := strings.TrimSuffix(config.URL, "/")
	if !strings.HasPrefix(serverURL, "http://") && !strings.HasPrefix(serverURL, "https://") {
		serverURL = "https://" + serverURL
	}

	config.URL = serverURL

	authenticator, err := selectAuthenticator(config)
	if err != nil {
		return nil, err
	}

	couchClient, err := client.New(config, authenticator)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return couchClient, nil
}

// selectAuthenticator picks the authenticator for the configured auth type.
// An empty AuthType means cookie authentication when credentials are present
// and no authentication otherwise.
func selectAuthenticator(config *couchdb.Config) (auth.Authenticator, error) {
	authType := config.AuthType
	if authType == "" {
		if config.Username != "" || config.Password != "" {
			authType = couchdb.AuthTypeCookie
		} else {
			authType = couchdb.AuthTypeNone
		}
	}

	switch authType {
	case couchdb.AuthTypeNone:
		return &auth.NoAuth{}, nil
	case couchdb.AuthTypeBasic:
		if config.Username == "" {
			return nil, couchdb.ErrCredentialsRequired
		}

		return auth.NewBasicAuthenticator(config.Username, config.Password), nil
	case couchdb.AuthTypeCookie:
		if config.Username == "" {
			return nil, couchdb.ErrCredentialsRequired
		}

		return auth.NewCookieAuthenticator(config.URL, config.Username, config.Password, sessionHTTPClient(config)), nil
	default:
		return nil, fmt.Errorf("%w: %q", couchdb.ErrUnknownAuthType, authType)
	}
}

// sessionHTTPClient builds the client used for /_session requests so session
// establishment honors the same timeout and TLS settings as the transport.
func sessionHTTPClient(config *couchdb.Config) *http.Client {
	httpClient := &http.Client{Timeout: constants.DefaultTimeout}
	if config.Timeout > 0 {
		httpClient.Timeout = config.Timeout
	}

	if config.SkipTLSVerify {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // opt-in for development
		}
	}

	return httpClient
}
