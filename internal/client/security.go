package client

import (
	"context"
	"fmt"
	"net/http"

	internalhttp "github.com/docstore-io/couch-client/internal/http"
	"github.com/docstore-io/couch-client/pkg/couchdb"
)

// Security endpoint descriptors.
var (
	getSecurityOp = &couchdb.Operation{
		Method:         http.MethodGet,
		PathTemplate:   "/{db}/_security",
		Required:       []string{"db"},
		Valid:          []string{"db", "headers"},
		DefaultHeaders: jsonHeaders,
	}

	putSecurityOp = &couchdb.Operation{
		Method:         http.MethodPut,
		PathTemplate:   "/{db}/_security",
		Required:       []string{"db", "security"},
		Valid:          []string{"db", "security", "headers"},
		BodyParam:      "security",
		DefaultHeaders: jsonHeaders,
	}
)

// SecurityClient implements couchdb.SecurityClient.
type SecurityClient struct {
	httpClient *internalhttp.Client
}

// NewSecurityClient creates a new security client.
func NewSecurityClient(httpClient *internalhttp.Client) *SecurityClient {
	return &SecurityClient{httpClient: httpClient}
}

// Get implements couchdb.SecurityClient.Get.
func (c *SecurityClient) Get(ctx context.Context, db string) (*couchdb.SecurityObject, error) {
	req, err := buildRequest(getSecurityOp, couchdb.Params{"db": db})
	if err != nil {
		return nil, fmt.Errorf("getting security: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("getting security: %w", err)
	}

	var security couchdb.SecurityObject
	if err := decodeJSON(resp.Body, &security); err != nil {
		return nil, fmt.Errorf("getting security: %w", err)
	}

	return &security, nil
}

// Put implements couchdb.SecurityClient.Put.
func (c *SecurityClient) Put(ctx context.Context, db string, security *couchdb.SecurityObject) (*couchdb.OK, error) {
	req, err := buildRequest(putSecurityOp, couchdb.Params{"db": db, "security": security})
	if err != nil {
		return nil, fmt.Errorf("setting security: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("setting security: %w", err)
	}

	var result couchdb.OK
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("setting security: %w", err)
	}

	return &result, nil
}
