package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/docstore-io/couch-client/internal/constants"
	internalhttp "github.com/docstore-io/couch-client/internal/http"
	"github.com/docstore-io/couch-client/pkg/couchdb"
)

// Database endpoint descriptors.
var (
	headDatabaseOp = &couchdb.Operation{
		Method:       http.MethodHead,
		PathTemplate: "/{db}",
		Required:     []string{"db"},
		Valid:        []string{"db", "headers"},
	}

	getDatabaseOp = &couchdb.Operation{
		Method:         http.MethodGet,
		PathTemplate:   "/{db}",
		Required:       []string{"db"},
		Valid:          []string{"db", "headers"},
		DefaultHeaders: jsonHeaders,
	}

	createDatabaseOp = &couchdb.Operation{
		Method:       http.MethodPut,
		PathTemplate: "/{db}",
		Required:     []string{"db"},
		Valid:        []string{"db", "q", "n", "partitioned", "headers"},
		Params: map[string]couchdb.Param{
			"q":           {In: couchdb.InQuery, Wire: "q"},
			"n":           {In: couchdb.InQuery, Wire: "n"},
			"partitioned": {In: couchdb.InQuery, Wire: "partitioned"},
		},
		DefaultHeaders: jsonHeaders,
	}

	deleteDatabaseOp = &couchdb.Operation{
		Method:         http.MethodDelete,
		PathTemplate:   "/{db}",
		Required:       []string{"db"},
		Valid:          []string{"db", "headers"},
		DefaultHeaders: jsonHeaders,
	}

	compactDatabaseOp = &couchdb.Operation{
		Method:       http.MethodPost,
		PathTemplate: "/{db}/_compact",
		Required:     []string{"db"},
		Valid:        []string{"db", "headers"},
		// The server rejects _compact without an explicit JSON content type.
		DefaultHeaders: map[string]string{
			"Accept":       constants.ContentTypeJSON,
			"Content-Type": constants.ContentTypeJSON,
		},
	}

	viewCleanupOp = &couchdb.Operation{
		Method:       http.MethodPost,
		PathTemplate: "/{db}/_view_cleanup",
		Required:     []string{"db"},
		Valid:        []string{"db", "headers"},
		DefaultHeaders: map[string]string{
			"Accept":       constants.ContentTypeJSON,
			"Content-Type": constants.ContentTypeJSON,
		},
	}

	getShardsOp = &couchdb.Operation{
		Method:         http.MethodGet,
		PathTemplate:   "/{db}/_shards",
		Required:       []string{"db"},
		Valid:          []string{"db", "headers"},
		DefaultHeaders: jsonHeaders,
	}

	allDocsOp = &couchdb.Operation{
		Method:       http.MethodGet,
		PathTemplate: "/{db}/_all_docs",
		Required:     []string{"db"},
		Valid: []string{
			"db", "conflicts", "descending", "endkey", "includeDocs",
			"inclusiveEnd", "key", "limit", "skip", "startkey", "updateSeq",
			"headers",
		},
		Params: map[string]couchdb.Param{
			"conflicts":    {In: couchdb.InQuery, Wire: "conflicts"},
			"descending":   {In: couchdb.InQuery, Wire: "descending"},
			"endkey":       {In: couchdb.InQuery, Wire: "endkey"},
			"includeDocs":  {In: couchdb.InQuery, Wire: "include_docs"},
			"inclusiveEnd": {In: couchdb.InQuery, Wire: "inclusive_end"},
			"key":          {In: couchdb.InQuery, Wire: "key"},
			"limit":        {In: couchdb.InQuery, Wire: "limit"},
			"skip":         {In: couchdb.InQuery, Wire: "skip"},
			"startkey":     {In: couchdb.InQuery, Wire: "startkey"},
			"updateSeq":    {In: couchdb.InQuery, Wire: "update_seq"},
		},
		DefaultHeaders: jsonHeaders,
	}

	// allDocsKeysOp is the POST form used when an explicit key set is given;
	// the key list travels in the body while the remaining options stay in
	// the query string.
	allDocsKeysOp = &couchdb.Operation{
		Method:       http.MethodPost,
		PathTemplate: "/{db}/_all_docs",
		Required:     []string{"db", "keys"},
		Valid: []string{
			"db", "keys", "conflicts", "descending", "includeDocs",
			"inclusiveEnd", "limit", "skip", "updateSeq", "headers",
		},
		Params: map[string]couchdb.Param{
			"keys":         {In: couchdb.InBody, Wire: "keys"},
			"conflicts":    {In: couchdb.InQuery, Wire: "conflicts"},
			"descending":   {In: couchdb.InQuery, Wire: "descending"},
			"includeDocs":  {In: couchdb.InQuery, Wire: "include_docs"},
			"inclusiveEnd": {In: couchdb.InQuery, Wire: "inclusive_end"},
			"limit":        {In: couchdb.InQuery, Wire: "limit"},
			"skip":         {In: couchdb.InQuery, Wire: "skip"},
			"updateSeq":    {In: couchdb.InQuery, Wire: "update_seq"},
		},
		DefaultHeaders: jsonHeaders,
	}

	bulkDocsOp = &couchdb.Operation{
		Method:       http.MethodPost,
		PathTemplate: "/{db}/_bulk_docs",
		Required:     []string{"db", "docs"},
		Valid:        []string{"db", "docs", "newEdits", "headers"},
		Params: map[string]couchdb.Param{
			"docs":     {In: couchdb.InBody, Wire: "docs"},
			"newEdits": {In: couchdb.InBody, Wire: "new_edits"},
		},
		DefaultHeaders: jsonHeaders,
	}

	bulkGetOp = &couchdb.Operation{
		Method:       http.MethodPost,
		PathTemplate: "/{db}/_bulk_get",
		Required:     []string{"db", "docs"},
		Valid:        []string{"db", "docs", "revs", "headers"},
		Params: map[string]couchdb.Param{
			"docs": {In: couchdb.InBody, Wire: "docs"},
			"revs": {In: couchdb.InQuery, Wire: "revs"},
		},
		DefaultHeaders: jsonHeaders,
	}

	revsDiffOp = &couchdb.Operation{
		Method:         http.MethodPost,
		PathTemplate:   "/{db}/_revs_diff",
		Required:       []string{"db", "revisions"},
		Valid:          []string{"db", "revisions", "headers"},
		BodyParam:      "revisions",
		DefaultHeaders: jsonHeaders,
	}

	changesOp = &couchdb.Operation{
		Method:       http.MethodGet,
		PathTemplate: "/{db}/_changes",
		Required:     []string{"db"},
		Valid: []string{
			"db", "attachments", "conflicts", "descending", "feed", "filter",
			"heartbeat", "includeDocs", "limit", "seqInterval", "since",
			"style", "timeout", "view", "headers",
		},
		Params: changesParams,
		DefaultHeaders: jsonHeaders,
	}

	changesStreamOp = &couchdb.Operation{
		Method:       http.MethodGet,
		PathTemplate: "/{db}/_changes",
		Required:     []string{"db"},
		Valid: []string{
			"db", "attachments", "conflicts", "descending", "feed", "filter",
			"heartbeat", "includeDocs", "limit", "seqInterval", "since",
			"style", "timeout", "view", "headers",
		},
		Params:         changesParams,
		DefaultHeaders: jsonHeaders,
		ResponseStream: true,
	}

	changesParams = map[string]couchdb.Param{
		"attachments": {In: couchdb.InQuery, Wire: "attachments"},
		"conflicts":   {In: couchdb.InQuery, Wire: "conflicts"},
		"descending":  {In: couchdb.InQuery, Wire: "descending"},
		"feed":        {In: couchdb.InQuery, Wire: "feed"},
		"filter":      {In: couchdb.InQuery, Wire: "filter"},
		"heartbeat":   {In: couchdb.InQuery, Wire: "heartbeat"},
		"includeDocs": {In: couchdb.InQuery, Wire: "include_docs"},
		"limit":       {In: couchdb.InQuery, Wire: "limit"},
		"seqInterval": {In: couchdb.InQuery, Wire: "seq_interval"},
		"since":       {In: couchdb.InQuery, Wire: "since"},
		"style":       {In: couchdb.InQuery, Wire: "style"},
		"timeout":     {In: couchdb.InQuery, Wire: "timeout"},
		"view":        {In: couchdb.InQuery, Wire: "view"},
	}
)

// DatabasesClient implements couchdb.DatabasesClient.
type DatabasesClient struct {
	httpClient *internalhttp.Client
}

// NewDatabasesClient creates a new databases client.
func NewDatabasesClient(httpClient *internalhttp.Client) *DatabasesClient {
	return &DatabasesClient{httpClient: httpClient}
}

// Exists implements couchdb.DatabasesClient.Exists. A 404 is a negative
// answer, not an error.
func (c *DatabasesClient) Exists(ctx context.Context, db string) (bool, error) {
	req, err := buildRequest(headDatabaseOp, couchdb.Params{"db": db})
	if err != nil {
		return false, fmt.Errorf("checking database: %w", err)
	}

	_, err = c.httpClient.Do(ctx, req)
	if err != nil {
		var serverErr *couchdb.ServerError
		if errors.As(err, &serverErr) && serverErr.StatusCode == http.StatusNotFound {
			return false, nil
		}

		return false, fmt.Errorf("checking database: %w", err)
	}

	return true, nil
}

// Get implements couchdb.DatabasesClient.Get.
func (c *DatabasesClient) Get(ctx context.Context, db string) (*couchdb.DatabaseInformation, error) {
	req, err := buildRequest(getDatabaseOp, couchdb.Params{"db": db})
	if err != nil {
		return nil, fmt.Errorf("getting database: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("getting database: %w", err)
	}

	var info couchdb.DatabaseInformation
	if err := decodeJSON(resp.Body, &info); err != nil {
		return nil, fmt.Errorf("getting database: %w", err)
	}

	return &info, nil
}

// Create implements couchdb.DatabasesClient.Create.
func (c *DatabasesClient) Create(ctx context.Context, db string, opts *couchdb.DatabaseCreateOptions) (*couchdb.OK, error) {
	bag := couchdb.Params{"db": db}

	if opts != nil {
		setOpt(bag, "q", opts.Q)
		setOpt(bag, "n", opts.N)
		setOpt(bag, "partitioned", opts.Partitioned)
		setHeaders(bag, opts.Headers)
	}

	req, err := buildRequest(createDatabaseOp, bag)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	var result couchdb.OK
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	return &result, nil
}

// Delete implements couchdb.DatabasesClient.Delete.
func (c *DatabasesClient) Delete(ctx context.Context, db string) (*couchdb.OK, error) {
	req, err := buildRequest(deleteDatabaseOp, couchdb.Params{"db": db})
	if err != nil {
		return nil, fmt.Errorf("deleting database: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("deleting database: %w", err)
	}

	var result couchdb.OK
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("deleting database: %w", err)
	}

	return &result, nil
}

// Compact implements couchdb.DatabasesClient.Compact.
func (c *DatabasesClient) Compact(ctx context.Context, db string) (*couchdb.OK, error) {
	req, err := buildRequest(compactDatabaseOp, couchdb.Params{"db": db})
	if err != nil {
		return nil, fmt.Errorf("compacting database: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("compacting database: %w", err)
	}

	var result couchdb.OK
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("compacting database: %w", err)
	}

	return &result, nil
}

// ViewCleanup implements couchdb.DatabasesClient.ViewCleanup.
func (c *DatabasesClient) ViewCleanup(ctx context.Context, db string) (*couchdb.OK, error) {
	req, err := buildRequest(viewCleanupOp, couchdb.Params{"db": db})
	if err != nil {
		return nil, fmt.Errorf("cleaning up views: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("cleaning up views: %w", err)
	}

	var result couchdb.OK
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("cleaning up views: %w", err)
	}

	return &result, nil
}

// GetShards implements couchdb.DatabasesClient.GetShards.
func (c *DatabasesClient) GetShards(ctx context.Context, db string) (*couchdb.ShardsInformation, error) {
	req, err := buildRequest(getShardsOp, couchdb.Params{"db": db})
	if err != nil {
		return nil, fmt.Errorf("getting shards: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("getting shards: %w", err)
	}

	var shards couchdb.ShardsInformation
	if err := decodeJSON(resp.Body, &shards); err != nil {
		return nil, fmt.Errorf("getting shards: %w", err)
	}

	return &shards, nil
}

// AllDocs implements couchdb.DatabasesClient.AllDocs. When opts.Keys is set
// the POST form is used so the key list travels in the body.
func (c *DatabasesClient) AllDocs(ctx context.Context, db string, opts *couchdb.AllDocsOptions) (*couchdb.AllDocsResult, error) {
	op := allDocsOp
	bag := couchdb.Params{"db": db}

	if opts != nil {
		setOpt(bag, "conflicts", opts.Conflicts)
		setOpt(bag, "descending", opts.Descending)
		setOpt(bag, "includeDocs", opts.IncludeDocs)
		setOpt(bag, "inclusiveEnd", opts.InclusiveEnd)
		setOpt(bag, "updateSeq", opts.UpdateSeq)
		setOpt(bag, "limit", opts.Limit)
		setOpt(bag, "skip", opts.Skip)
		setHeaders(bag, opts.Headers)

		if opts.Keys != nil {
			op = allDocsKeysOp
			bag["keys"] = opts.Keys
		} else {
			if err := setJSONKey(bag, "key", opts.Key); err != nil {
				return nil, fmt.Errorf("listing documents: %w", err)
			}

			if err := setJSONKey(bag, "startkey", opts.StartKey); err != nil {
				return nil, fmt.Errorf("listing documents: %w", err)
			}

			if err := setJSONKey(bag, "endkey", opts.EndKey); err != nil {
				return nil, fmt.Errorf("listing documents: %w", err)
			}
		}
	}

	req, err := buildRequest(op, bag)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	var result couchdb.AllDocsResult
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	return &result, nil
}

// BulkDocs implements couchdb.DatabasesClient.BulkDocs.
func (c *DatabasesClient) BulkDocs(ctx context.Context, db string, docs []couchdb.Document, opts *couchdb.BulkDocsOptions) ([]couchdb.DocumentResult, error) {
	bag := couchdb.Params{"db": db, "docs": docs}

	if opts != nil {
		setOpt(bag, "newEdits", opts.NewEdits)
		setHeaders(bag, opts.Headers)
	}

	req, err := buildRequest(bulkDocsOp, bag)
	if err != nil {
		return nil, fmt.Errorf("bulk writing documents: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bulk writing documents: %w", err)
	}

	var results []couchdb.DocumentResult
	if err := decodeJSON(resp.Body, &results); err != nil {
		return nil, fmt.Errorf("bulk writing documents: %w", err)
	}

	return results, nil
}

// BulkGet implements couchdb.DatabasesClient.BulkGet.
func (c *DatabasesClient) BulkGet(ctx context.Context, db string, docs []couchdb.BulkGetQueryDoc, opts *couchdb.BulkGetOptions) (*couchdb.BulkGetResult, error) {
	bag := couchdb.Params{"db": db, "docs": docs}

	if opts != nil {
		setOpt(bag, "revs", opts.Revs)
		setHeaders(bag, opts.Headers)
	}

	req, err := buildRequest(bulkGetOp, bag)
	if err != nil {
		return nil, fmt.Errorf("bulk getting documents: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bulk getting documents: %w", err)
	}

	var result couchdb.BulkGetResult
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("bulk getting documents: %w", err)
	}

	return &result, nil
}

// RevsDiff implements couchdb.DatabasesClient.RevsDiff.
func (c *DatabasesClient) RevsDiff(ctx context.Context, db string, revisions map[string][]string) (couchdb.RevsDiffResult, error) {
	req, err := buildRequest(revsDiffOp, couchdb.Params{"db": db, "revisions": revisions})
	if err != nil {
		return nil, fmt.Errorf("diffing revisions: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("diffing revisions: %w", err)
	}

	var result couchdb.RevsDiffResult
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("diffing revisions: %w", err)
	}

	return result, nil
}

// Changes implements couchdb.DatabasesClient.Changes.
func (c *DatabasesClient) Changes(ctx context.Context, db string, opts *couchdb.ChangesOptions) (*couchdb.ChangesResult, error) {
	bag := changesBag(db, opts)

	req, err := buildRequest(changesOp, bag)
	if err != nil {
		return nil, fmt.Errorf("getting changes: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("getting changes: %w", err)
	}

	var result couchdb.ChangesResult
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("getting changes: %w", err)
	}

	return &result, nil
}

// ChangesStream implements couchdb.DatabasesClient.ChangesStream. The caller
// owns closing the returned stream. Use a continuous or longpoll feed to keep
// it open.
func (c *DatabasesClient) ChangesStream(ctx context.Context, db string, opts *couchdb.ChangesOptions) (io.ReadCloser, error) {
	bag := changesBag(db, opts)

	req, err := buildRequest(changesStreamOp, bag)
	if err != nil {
		return nil, fmt.Errorf("streaming changes: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("streaming changes: %w", err)
	}

	return resp.Raw, nil
}

func changesBag(db string, opts *couchdb.ChangesOptions) couchdb.Params {
	bag := couchdb.Params{"db": db}

	if opts != nil {
		setOpt(bag, "attachments", opts.Attachments)
		setOpt(bag, "conflicts", opts.Conflicts)
		setOpt(bag, "descending", opts.Descending)
		setOpt(bag, "feed", opts.Feed)
		setOpt(bag, "filter", opts.Filter)
		setOpt(bag, "heartbeat", opts.Heartbeat)
		setOpt(bag, "includeDocs", opts.IncludeDocs)
		setOpt(bag, "limit", opts.Limit)
		setOpt(bag, "seqInterval", opts.SeqInterval)
		setOpt(bag, "since", opts.Since)
		setOpt(bag, "style", opts.Style)
		setOpt(bag, "timeout", opts.Timeout)
		setOpt(bag, "view", opts.View)
		setHeaders(bag, opts.Headers)
	}

	return bag
}
