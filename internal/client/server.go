package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/docstore-io/couch-client/internal/constants"
	internalhttp "github.com/docstore-io/couch-client/internal/http"
	"github.com/docstore-io/couch-client/pkg/couchdb"
)

// jsonHeaders is the default header set shared by JSON operations.
var jsonHeaders = map[string]string{"Accept": constants.ContentTypeJSON}

// Server endpoint descriptors.
var (
	getServerInfoOp = &couchdb.Operation{
		Method:         http.MethodGet,
		PathTemplate:   "/",
		Valid:          []string{"headers"},
		DefaultHeaders: jsonHeaders,
	}

	getUpOp = &couchdb.Operation{
		Method:         http.MethodGet,
		PathTemplate:   "/_up",
		Valid:          []string{"headers"},
		DefaultHeaders: jsonHeaders,
	}

	getAllDbsOp = &couchdb.Operation{
		Method:       http.MethodGet,
		PathTemplate: "/_all_dbs",
		Valid:        []string{"descending", "endkey", "limit", "skip", "startkey", "headers"},
		Params: map[string]couchdb.Param{
			"descending": {In: couchdb.InQuery, Wire: "descending"},
			"endkey":     {In: couchdb.InQuery, Wire: "endkey"},
			"limit":      {In: couchdb.InQuery, Wire: "limit"},
			"skip":       {In: couchdb.InQuery, Wire: "skip"},
			"startkey":   {In: couchdb.InQuery, Wire: "startkey"},
		},
		DefaultHeaders: jsonHeaders,
	}

	getUUIDsOp = &couchdb.Operation{
		Method:       http.MethodGet,
		PathTemplate: "/_uuids",
		Valid:        []string{"count", "headers"},
		Params: map[string]couchdb.Param{
			"count": {In: couchdb.InQuery, Wire: "count"},
		},
		DefaultHeaders: jsonHeaders,
	}

	getActiveTasksOp = &couchdb.Operation{
		Method:         http.MethodGet,
		PathTemplate:   "/_active_tasks",
		Valid:          []string{"headers"},
		DefaultHeaders: jsonHeaders,
	}

	getMembershipOp = &couchdb.Operation{
		Method:         http.MethodGet,
		PathTemplate:   "/_membership",
		Valid:          []string{"headers"},
		DefaultHeaders: jsonHeaders,
	}

	getSessionOp = &couchdb.Operation{
		Method:         http.MethodGet,
		PathTemplate:   "/_session",
		Valid:          []string{"headers"},
		DefaultHeaders: jsonHeaders,
	}
)

// ServerClient implements couchdb.ServerClient.
type ServerClient struct {
	httpClient *internalhttp.Client
}

// NewServerClient creates a new server client.
func NewServerClient(httpClient *internalhttp.Client) *ServerClient {
	return &ServerClient{httpClient: httpClient}
}

// GetInfo implements couchdb.ServerClient.GetInfo.
func (c *ServerClient) GetInfo(ctx context.Context) (*couchdb.ServerInformation, error) {
	req, err := buildRequest(getServerInfoOp, couchdb.Params{})
	if err != nil {
		return nil, fmt.Errorf("getting server info: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("getting server info: %w", err)
	}

	var info couchdb.ServerInformation
	if err := decodeJSON(resp.Body, &info); err != nil {
		return nil, fmt.Errorf("getting server info: %w", err)
	}

	return &info, nil
}

// GetUp implements couchdb.ServerClient.GetUp.
func (c *ServerClient) GetUp(ctx context.Context) (*couchdb.UpInformation, error) {
	req, err := buildRequest(getUpOp, couchdb.Params{})
	if err != nil {
		return nil, fmt.Errorf("getting server status: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("getting server status: %w", err)
	}

	var up couchdb.UpInformation
	if err := decodeJSON(resp.Body, &up); err != nil {
		return nil, fmt.Errorf("getting server status: %w", err)
	}

	return &up, nil
}

// GetAllDbs implements couchdb.ServerClient.GetAllDbs.
func (c *ServerClient) GetAllDbs(ctx context.Context, opts *couchdb.AllDbsOptions) ([]string, error) {
	bag := couchdb.Params{}

	if opts != nil {
		setOpt(bag, "descending", opts.Descending)
		setOpt(bag, "limit", opts.Limit)
		setOpt(bag, "skip", opts.Skip)
		setHeaders(bag, opts.Headers)

		// Database-name boundaries are JSON string literals on the wire.
		if opts.StartKey != nil {
			if err := setJSONKey(bag, "startkey", *opts.StartKey); err != nil {
				return nil, fmt.Errorf("listing databases: %w", err)
			}
		}

		if opts.EndKey != nil {
			if err := setJSONKey(bag, "endkey", *opts.EndKey); err != nil {
				return nil, fmt.Errorf("listing databases: %w", err)
			}
		}
	}

	req, err := buildRequest(getAllDbsOp, bag)
	if err != nil {
		return nil, fmt.Errorf("listing databases: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("listing databases: %w", err)
	}

	var dbs []string
	if err := decodeJSON(resp.Body, &dbs); err != nil {
		return nil, fmt.Errorf("listing databases: %w", err)
	}

	return dbs, nil
}

// GetUUIDs implements couchdb.ServerClient.GetUUIDs.
func (c *ServerClient) GetUUIDs(ctx context.Context, opts *couchdb.UUIDsOptions) (*couchdb.UUIDsResult, error) {
	bag := couchdb.Params{}

	if opts != nil {
		setOpt(bag, "count", opts.Count)
		setHeaders(bag, opts.Headers)
	}

	req, err := buildRequest(getUUIDsOp, bag)
	if err != nil {
		return nil, fmt.Errorf("getting uuids: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("getting uuids: %w", err)
	}

	var result couchdb.UUIDsResult
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("getting uuids: %w", err)
	}

	return &result, nil
}

// GetActiveTasks implements couchdb.ServerClient.GetActiveTasks.
func (c *ServerClient) GetActiveTasks(ctx context.Context) ([]couchdb.ActiveTask, error) {
	req, err := buildRequest(getActiveTasksOp, couchdb.Params{})
	if err != nil {
		return nil, fmt.Errorf("getting active tasks: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("getting active tasks: %w", err)
	}

	var tasks []couchdb.ActiveTask
	if err := decodeJSON(resp.Body, &tasks); err != nil {
		return nil, fmt.Errorf("getting active tasks: %w", err)
	}

	return tasks, nil
}

// GetMembership implements couchdb.ServerClient.GetMembership.
func (c *ServerClient) GetMembership(ctx context.Context) (*couchdb.MembershipInformation, error) {
	req, err := buildRequest(getMembershipOp, couchdb.Params{})
	if err != nil {
		return nil, fmt.Errorf("getting membership: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("getting membership: %w", err)
	}

	var membership couchdb.MembershipInformation
	if err := decodeJSON(resp.Body, &membership); err != nil {
		return nil, fmt.Errorf("getting membership: %w", err)
	}

	return &membership, nil
}

// GetSession implements couchdb.ServerClient.GetSession.
func (c *ServerClient) GetSession(ctx context.Context) (*couchdb.SessionInformation, error) {
	req, err := buildRequest(getSessionOp, couchdb.Params{})
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}

	var session couchdb.SessionInformation
	if err := decodeJSON(resp.Body, &session); err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}

	return &session, nil
}
