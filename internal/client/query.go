package client

import (
	"context"
	"fmt"
	"net/http"

	internalhttp "github.com/docstore-io/couch-client/internal/http"
	"github.com/docstore-io/couch-client/pkg/couchdb"
)

// Mango query endpoint descriptors. Find options ride in the request body
// next to the selector, so every option here is an InBody parameter.
var (
	findOp = &couchdb.Operation{
		Method:       http.MethodPost,
		PathTemplate: "/{db}/_find",
		Required:     []string{"db", "selector"},
		Valid: []string{
			"db", "selector", "bookmark", "conflicts", "executionStats",
			"fields", "limit", "r", "skip", "sort", "stable", "update",
			"useIndex", "headers",
		},
		Params:         findParams,
		DefaultHeaders: jsonHeaders,
	}

	explainOp = &couchdb.Operation{
		Method:       http.MethodPost,
		PathTemplate: "/{db}/_explain",
		Required:     []string{"db", "selector"},
		Valid: []string{
			"db", "selector", "bookmark", "conflicts", "executionStats",
			"fields", "limit", "r", "skip", "sort", "stable", "update",
			"useIndex", "headers",
		},
		Params:         findParams,
		DefaultHeaders: jsonHeaders,
	}

	findParams = map[string]couchdb.Param{
		"selector":       {In: couchdb.InBody, Wire: "selector"},
		"bookmark":       {In: couchdb.InBody, Wire: "bookmark"},
		"conflicts":      {In: couchdb.InBody, Wire: "conflicts"},
		"executionStats": {In: couchdb.InBody, Wire: "execution_stats"},
		"fields":         {In: couchdb.InBody, Wire: "fields"},
		"limit":          {In: couchdb.InBody, Wire: "limit"},
		"r":              {In: couchdb.InBody, Wire: "r"},
		"skip":           {In: couchdb.InBody, Wire: "skip"},
		"sort":           {In: couchdb.InBody, Wire: "sort"},
		"stable":         {In: couchdb.InBody, Wire: "stable"},
		"update":         {In: couchdb.InBody, Wire: "update"},
		"useIndex":       {In: couchdb.InBody, Wire: "use_index"},
	}

	getIndexesOp = &couchdb.Operation{
		Method:         http.MethodGet,
		PathTemplate:   "/{db}/_index",
		Required:       []string{"db"},
		Valid:          []string{"db", "headers"},
		DefaultHeaders: jsonHeaders,
	}

	createIndexOp = &couchdb.Operation{
		Method:       http.MethodPost,
		PathTemplate: "/{db}/_index",
		Required:     []string{"db", "index"},
		Valid:        []string{"db", "index", "ddoc", "name", "type", "headers"},
		Params: map[string]couchdb.Param{
			"index": {In: couchdb.InBody, Wire: "index"},
			"ddoc":  {In: couchdb.InBody, Wire: "ddoc"},
			"name":  {In: couchdb.InBody, Wire: "name"},
			"type":  {In: couchdb.InBody, Wire: "type"},
		},
		DefaultHeaders: jsonHeaders,
	}

	deleteIndexOp = &couchdb.Operation{
		Method:         http.MethodDelete,
		PathTemplate:   "/{db}/_index/{ddoc}/{index_type}/{name}",
		Required:       []string{"db", "ddoc", "indexType", "name"},
		Valid:          []string{"db", "ddoc", "indexType", "name", "headers"},
		DefaultHeaders: jsonHeaders,
	}
)

// QueryClient implements couchdb.QueryClient.
type QueryClient struct {
	httpClient *internalhttp.Client
}

// NewQueryClient creates a new query client.
func NewQueryClient(httpClient *internalhttp.Client) *QueryClient {
	return &QueryClient{httpClient: httpClient}
}

// Find implements couchdb.QueryClient.Find.
func (c *QueryClient) Find(ctx context.Context, db string, selector map[string]any, opts *couchdb.FindOptions) (*couchdb.FindResult, error) {
	req, err := buildRequest(findOp, findBag(db, selector, opts))
	if err != nil {
		return nil, fmt.Errorf("finding documents: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("finding documents: %w", err)
	}

	var result couchdb.FindResult
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("finding documents: %w", err)
	}

	return &result, nil
}

// Explain implements couchdb.QueryClient.Explain.
func (c *QueryClient) Explain(ctx context.Context, db string, selector map[string]any, opts *couchdb.FindOptions) (*couchdb.ExplainResult, error) {
	req, err := buildRequest(explainOp, findBag(db, selector, opts))
	if err != nil {
		return nil, fmt.Errorf("explaining query: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("explaining query: %w", err)
	}

	var result couchdb.ExplainResult
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("explaining query: %w", err)
	}

	return &result, nil
}

// GetIndexes implements couchdb.QueryClient.GetIndexes.
func (c *QueryClient) GetIndexes(ctx context.Context, db string) (*couchdb.IndexesResult, error) {
	req, err := buildRequest(getIndexesOp, couchdb.Params{"db": db})
	if err != nil {
		return nil, fmt.Errorf("listing indexes: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("listing indexes: %w", err)
	}

	var result couchdb.IndexesResult
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("listing indexes: %w", err)
	}

	return &result, nil
}

// CreateIndex implements couchdb.QueryClient.CreateIndex.
func (c *QueryClient) CreateIndex(ctx context.Context, db string, index any, opts *couchdb.IndexCreateOptions) (*couchdb.IndexCreateResult, error) {
	bag := couchdb.Params{"db": db, "index": index}

	if opts != nil {
		setOpt(bag, "ddoc", opts.DDoc)
		setOpt(bag, "name", opts.Name)
		setOpt(bag, "type", opts.Type)
		setHeaders(bag, opts.Headers)
	}

	req, err := buildRequest(createIndexOp, bag)
	if err != nil {
		return nil, fmt.Errorf("creating index: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("creating index: %w", err)
	}

	var result couchdb.IndexCreateResult
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("creating index: %w", err)
	}

	return &result, nil
}

// DeleteIndex implements couchdb.QueryClient.DeleteIndex.
func (c *QueryClient) DeleteIndex(ctx context.Context, db, ddoc, indexType, name string) (*couchdb.OK, error) {
	bag := couchdb.Params{"db": db, "ddoc": ddoc, "indexType": indexType, "name": name}

	req, err := buildRequest(deleteIndexOp, bag)
	if err != nil {
		return nil, fmt.Errorf("deleting index: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("deleting index: %w", err)
	}

	var result couchdb.OK
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("deleting index: %w", err)
	}

	return &result, nil
}

func findBag(db string, selector map[string]any, opts *couchdb.FindOptions) couchdb.Params {
	bag := couchdb.Params{"db": db, "selector": selector}

	if opts != nil {
		setOpt(bag, "bookmark", opts.Bookmark)
		setOpt(bag, "conflicts", opts.Conflicts)
		setOpt(bag, "executionStats", opts.ExecutionStats)
		setOpt(bag, "limit", opts.Limit)
		setOpt(bag, "r", opts.R)
		setOpt(bag, "skip", opts.Skip)
		setOpt(bag, "stable", opts.Stable)
		setOpt(bag, "update", opts.Update)
		setAny(bag, "useIndex", opts.UseIndex)
		setHeaders(bag, opts.Headers)

		if opts.Fields != nil {
			bag["fields"] = opts.Fields
		}

		if opts.Sort != nil {
			bag["sort"] = opts.Sort
		}
	}

	return bag
}
