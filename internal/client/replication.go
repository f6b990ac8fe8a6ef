package client

import (
	"context"
	"fmt"
	"net/http"

	internalhttp "github.com/docstore-io/couch-client/internal/http"
	"github.com/docstore-io/couch-client/pkg/couchdb"
)

// Replication endpoint descriptors.
var (
	replicateOp = &couchdb.Operation{
		Method:       http.MethodPost,
		PathTemplate: "/_replicate",
		Required:     []string{"source", "target"},
		Valid: []string{
			"source", "target", "cancel", "continuous", "createTarget",
			"docIds", "filter", "selector", "sinceSeq", "headers",
		},
		Params: map[string]couchdb.Param{
			"source":       {In: couchdb.InBody, Wire: "source"},
			"target":       {In: couchdb.InBody, Wire: "target"},
			"cancel":       {In: couchdb.InBody, Wire: "cancel"},
			"continuous":   {In: couchdb.InBody, Wire: "continuous"},
			"createTarget": {In: couchdb.InBody, Wire: "create_target"},
			"docIds":       {In: couchdb.InBody, Wire: "doc_ids"},
			"filter":       {In: couchdb.InBody, Wire: "filter"},
			"selector":     {In: couchdb.InBody, Wire: "selector"},
			"sinceSeq":     {In: couchdb.InBody, Wire: "since_seq"},
		},
		DefaultHeaders: jsonHeaders,
	}

	schedulerJobsOp = &couchdb.Operation{
		Method:       http.MethodGet,
		PathTemplate: "/_scheduler/jobs",
		Valid:        []string{"limit", "skip", "headers"},
		Params: map[string]couchdb.Param{
			"limit": {In: couchdb.InQuery, Wire: "limit"},
			"skip":  {In: couchdb.InQuery, Wire: "skip"},
		},
		DefaultHeaders: jsonHeaders,
	}

	schedulerDocsOp = &couchdb.Operation{
		Method:       http.MethodGet,
		PathTemplate: "/_scheduler/docs",
		Valid:        []string{"limit", "skip", "headers"},
		Params: map[string]couchdb.Param{
			"limit": {In: couchdb.InQuery, Wire: "limit"},
			"skip":  {In: couchdb.InQuery, Wire: "skip"},
		},
		DefaultHeaders: jsonHeaders,
	}
)

// ReplicationClient implements couchdb.ReplicationClient.
type ReplicationClient struct {
	httpClient *internalhttp.Client
}

// NewReplicationClient creates a new replication client.
func NewReplicationClient(httpClient *internalhttp.Client) *ReplicationClient {
	return &ReplicationClient{httpClient: httpClient}
}

// Replicate implements couchdb.ReplicationClient.Replicate. The call blocks
// until a one-shot replication completes; continuous replications return as
// soon as the job is accepted.
func (c *ReplicationClient) Replicate(ctx context.Context, request *couchdb.ReplicationRequest) (*couchdb.ReplicationResult, error) {
	bag := couchdb.Params{}

	if request != nil {
		setAny(bag, "source", request.Source)
		setAny(bag, "target", request.Target)
		setOpt(bag, "cancel", request.Cancel)
		setOpt(bag, "continuous", request.Continuous)
		setOpt(bag, "createTarget", request.CreateTarget)
		setOpt(bag, "filter", request.Filter)
		setOpt(bag, "sinceSeq", request.SinceSeq)
		setHeaders(bag, request.Headers)

		if request.DocIDs != nil {
			bag["docIds"] = request.DocIDs
		}

		if request.Selector != nil {
			bag["selector"] = request.Selector
		}
	}

	req, err := buildRequest(replicateOp, bag)
	if err != nil {
		return nil, fmt.Errorf("replicating: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("replicating: %w", err)
	}

	var result couchdb.ReplicationResult
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("replicating: %w", err)
	}

	return &result, nil
}

// GetSchedulerJobs implements couchdb.ReplicationClient.GetSchedulerJobs.
func (c *ReplicationClient) GetSchedulerJobs(ctx context.Context, opts *couchdb.SchedulerOptions) (*couchdb.SchedulerJobsResult, error) {
	bag := couchdb.Params{}

	if opts != nil {
		setOpt(bag, "limit", opts.Limit)
		setOpt(bag, "skip", opts.Skip)
		setHeaders(bag, opts.Headers)
	}

	req, err := buildRequest(schedulerJobsOp, bag)
	if err != nil {
		return nil, fmt.Errorf("getting scheduler jobs: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("getting scheduler jobs: %w", err)
	}

	var result couchdb.SchedulerJobsResult
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("getting scheduler jobs: %w", err)
	}

	return &result, nil
}

// GetSchedulerDocs implements couchdb.ReplicationClient.GetSchedulerDocs.
func (c *ReplicationClient) GetSchedulerDocs(ctx context.Context, opts *couchdb.SchedulerOptions) (*couchdb.SchedulerDocsResult, error) {
	bag := couchdb.Params{}

	if opts != nil {
		setOpt(bag, "limit", opts.Limit)
		setOpt(bag, "skip", opts.Skip)
		setHeaders(bag, opts.Headers)
	}

	req, err := buildRequest(schedulerDocsOp, bag)
	if err != nil {
		return nil, fmt.Errorf("getting scheduler docs: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("getting scheduler docs: %w", err)
	}

	var result couchdb.SchedulerDocsResult
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("getting scheduler docs: %w", err)
	}

	return &result, nil
}
