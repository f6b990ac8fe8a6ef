// Package client implements the couchdb.Client interfaces. Each resource
// file holds the static operation descriptors for its endpoints and the thin
// generated methods that validate, build, and dispatch requests.
package client

import (
	"crypto/tls"
	"net/http"

	"github.com/docstore-io/couch-client/internal/auth"
	internalhttp "github.com/docstore-io/couch-client/internal/http"
	"github.com/docstore-io/couch-client/pkg/couchdb"
)

// Client implements the couchdb.Client interface.
type Client struct {
	httpClient *internalhttp.Client
	baseURL    string
	logger     couchdb.Logger

	// Resource clients
	server          couchdb.ServerClient
	databases       couchdb.DatabasesClient
	documents       couchdb.DocumentsClient
	attachments     couchdb.AttachmentsClient
	designDocuments couchdb.DesignDocumentsClient
	queries         couchdb.QueryClient
	replication     couchdb.ReplicationClient
	security        couchdb.SecurityClient
}

// createHTTPClientOptions builds transport options from config.
func createHTTPClientOptions(config *couchdb.Config) ([]internalhttp.Option, error) {
	var httpOpts []internalhttp.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, internalhttp.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, internalhttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, internalhttp.WithUserAgent(config.UserAgent))
	}

	switch {
	case config.RetryMax > 0:
		waitMin := config.RetryWaitMin
		waitMax := config.RetryWaitMax

		httpOpts = append(httpOpts, internalhttp.WithRetryConfig(config.RetryMax, waitMin, waitMax))
	case config.RetryMax < 0:
		httpOpts = append(httpOpts, internalhttp.WithRetryConfig(0, 0, 0))
	}

	if config.SkipTLSVerify || config.Timeout > 0 {
		standardClient := &http.Client{Timeout: config.Timeout}
		if config.SkipTLSVerify {
			standardClient.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // opt-in for development
			}
		}

		httpOpts = append(httpOpts, internalhttp.WithHTTPClient(standardClient))
	}

	if config.Cache != nil {
		cache, err := couchdb.NewCacheFromConfig(config.Cache)
		if err != nil {
			return nil, err
		}

		manager := couchdb.NewCacheManager(cache, config.Logger)
		requestInterceptor, responseInterceptor := couchdb.CacheInterceptor(manager, nil)

		chain := couchdb.NewInterceptorChain()
		chain.AddRequestInterceptor(requestInterceptor)
		chain.AddResponseInterceptor(responseInterceptor)

		httpOpts = append(httpOpts, internalhttp.WithInterceptors(chain))
	}

	return httpOpts, nil
}

// New creates a client over an already-selected authenticator. URL
// validation and authenticator selection happen in pkg/couchclient.
func New(config *couchdb.Config, authenticator auth.Authenticator) (*Client, error) {
	if config == nil {
		return nil, couchdb.ErrConfigRequired
	}

	if config.URL == "" {
		return nil, couchdb.ErrServerURLRequired
	}

	httpOpts, err := createHTTPClientOptions(config)
	if err != nil {
		return nil, err
	}

	httpClient := internalhttp.NewClient(config.URL, authenticator, httpOpts...)

	client := &Client{
		httpClient: httpClient,
		baseURL:    config.URL,
		logger:     config.Logger,
	}

	client.initializeResourceClients()

	return client, nil
}

// Server implements couchdb.Client.Server.
func (c *Client) Server() couchdb.ServerClient {
	return c.server
}

// Databases implements couchdb.Client.Databases.
func (c *Client) Databases() couchdb.DatabasesClient {
	return c.databases
}

// Documents implements couchdb.Client.Documents.
func (c *Client) Documents() couchdb.DocumentsClient {
	return c.documents
}

// Attachments implements couchdb.Client.Attachments.
func (c *Client) Attachments() couchdb.AttachmentsClient {
	return c.attachments
}

// DesignDocuments implements couchdb.Client.DesignDocuments.
func (c *Client) DesignDocuments() couchdb.DesignDocumentsClient {
	return c.designDocuments
}

// Queries implements couchdb.Client.Queries.
func (c *Client) Queries() couchdb.QueryClient {
	return c.queries
}

// Replication implements couchdb.Client.Replication.
func (c *Client) Replication() couchdb.ReplicationClient {
	return c.replication
}

// Security implements couchdb.Client.Security.
func (c *Client) Security() couchdb.SecurityClient {
	return c.security
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.server = NewServerClient(c.httpClient)
	c.databases = NewDatabasesClient(c.httpClient)
	c.documents = NewDocumentsClient(c.httpClient)
	c.attachments = NewAttachmentsClient(c.httpClient)
	c.designDocuments = NewDesignDocumentsClient(c.httpClient)
	c.queries = NewQueryClient(c.httpClient)
	c.replication = NewReplicationClient(c.httpClient)
	c.security = NewSecurityClient(c.httpClient)
}
