package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	internalhttp "github.com/docstore-io/couch-client/internal/http"
	"github.com/docstore-io/couch-client/pkg/couchdb"
)

// Document endpoint descriptors.
var (
	headDocumentOp = &couchdb.Operation{
		Method:       http.MethodHead,
		PathTemplate: "/{db}/{doc_id}",
		Required:     []string{"db", "docId"},
		Valid:        []string{"db", "docId", "headers"},
	}

	getDocumentOp = &couchdb.Operation{
		Method:       http.MethodGet,
		PathTemplate: "/{db}/{doc_id}",
		Required:     []string{"db", "docId"},
		Valid: []string{
			"db", "docId", "attachments", "attEncodingInfo", "conflicts",
			"deletedConflicts", "ifNoneMatch", "latest", "localSeq", "meta",
			"rev", "revs", "revsInfo", "headers",
		},
		Params: map[string]couchdb.Param{
			"attachments":      {In: couchdb.InQuery, Wire: "attachments"},
			"attEncodingInfo":  {In: couchdb.InQuery, Wire: "att_encoding_info"},
			"conflicts":        {In: couchdb.InQuery, Wire: "conflicts"},
			"deletedConflicts": {In: couchdb.InQuery, Wire: "deleted_conflicts"},
			"latest":           {In: couchdb.InQuery, Wire: "latest"},
			"localSeq":         {In: couchdb.InQuery, Wire: "local_seq"},
			"meta":             {In: couchdb.InQuery, Wire: "meta"},
			"rev":              {In: couchdb.InQuery, Wire: "rev"},
			"revs":             {In: couchdb.InQuery, Wire: "revs"},
			"revsInfo":         {In: couchdb.InQuery, Wire: "revs_info"},
			"ifNoneMatch":      {In: couchdb.InHeader, Wire: "If-None-Match"},
		},
		DefaultHeaders: jsonHeaders,
	}

	putDocumentOp = &couchdb.Operation{
		Method:       http.MethodPut,
		PathTemplate: "/{db}/{doc_id}",
		Required:     []string{"db", "docId", "document"},
		Valid: []string{
			"db", "docId", "document", "rev", "batch", "newEdits", "ifMatch",
			"headers",
		},
		Params: map[string]couchdb.Param{
			"rev":      {In: couchdb.InQuery, Wire: "rev"},
			"batch":    {In: couchdb.InQuery, Wire: "batch"},
			"newEdits": {In: couchdb.InQuery, Wire: "new_edits"},
			"ifMatch":  {In: couchdb.InHeader, Wire: "If-Match"},
		},
		BodyParam:      "document",
		DefaultHeaders: jsonHeaders,
	}

	deleteDocumentOp = &couchdb.Operation{
		Method:       http.MethodDelete,
		PathTemplate: "/{db}/{doc_id}",
		Required:     []string{"db", "docId"},
		Valid:        []string{"db", "docId", "rev", "batch", "ifMatch", "headers"},
		Params: map[string]couchdb.Param{
			"rev":     {In: couchdb.InQuery, Wire: "rev"},
			"batch":   {In: couchdb.InQuery, Wire: "batch"},
			"ifMatch": {In: couchdb.InHeader, Wire: "If-Match"},
		},
		DefaultHeaders: jsonHeaders,
	}

	createDocumentOp = &couchdb.Operation{
		Method:       http.MethodPost,
		PathTemplate: "/{db}",
		Required:     []string{"db", "document"},
		Valid:        []string{"db", "document", "batch", "headers"},
		Params: map[string]couchdb.Param{
			"batch": {In: couchdb.InQuery, Wire: "batch"},
		},
		BodyParam:      "document",
		DefaultHeaders: jsonHeaders,
	}
)

// DocumentsClient implements couchdb.DocumentsClient.
type DocumentsClient struct {
	httpClient *internalhttp.Client
}

// NewDocumentsClient creates a new documents client.
func NewDocumentsClient(httpClient *internalhttp.Client) *DocumentsClient {
	return &DocumentsClient{httpClient: httpClient}
}

// Head implements couchdb.DocumentsClient.Head. It returns the current
// revision carried in the ETag header.
func (c *DocumentsClient) Head(ctx context.Context, db, docID string) (string, error) {
	req, err := buildRequest(headDocumentOp, couchdb.Params{"db": db, "docId": docID})
	if err != nil {
		return "", fmt.Errorf("checking document: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("checking document: %w", err)
	}

	return strings.Trim(resp.Headers.Get("ETag"), `"`), nil
}

// Get implements couchdb.DocumentsClient.Get.
func (c *DocumentsClient) Get(ctx context.Context, db, docID string, opts *couchdb.DocumentGetOptions) (couchdb.Document, error) {
	bag := couchdb.Params{"db": db, "docId": docID}

	if opts != nil {
		setOpt(bag, "attachments", opts.Attachments)
		setOpt(bag, "attEncodingInfo", opts.AttEncodingInfo)
		setOpt(bag, "conflicts", opts.Conflicts)
		setOpt(bag, "deletedConflicts", opts.DeletedConflicts)
		setOpt(bag, "latest", opts.Latest)
		setOpt(bag, "localSeq", opts.LocalSeq)
		setOpt(bag, "meta", opts.Meta)
		setOpt(bag, "rev", opts.Rev)
		setOpt(bag, "revs", opts.Revs)
		setOpt(bag, "revsInfo", opts.RevsInfo)
		setOpt(bag, "ifNoneMatch", opts.IfNoneMatch)
		setHeaders(bag, opts.Headers)
	}

	req, err := buildRequest(getDocumentOp, bag)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	var doc couchdb.Document
	if err := decodeJSON(resp.Body, &doc); err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	return doc, nil
}

// Put implements couchdb.DocumentsClient.Put.
func (c *DocumentsClient) Put(ctx context.Context, db, docID string, document any, opts *couchdb.DocumentPutOptions) (*couchdb.DocumentResult, error) {
	bag := couchdb.Params{"db": db, "docId": docID, "document": document}

	if opts != nil {
		setOpt(bag, "rev", opts.Rev)
		setOpt(bag, "newEdits", opts.NewEdits)
		setOpt(bag, "ifMatch", opts.IfMatch)
		setBatch(bag, opts.Batch)
		setHeaders(bag, opts.Headers)
	}

	req, err := buildRequest(putDocumentOp, bag)
	if err != nil {
		return nil, fmt.Errorf("putting document: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("putting document: %w", err)
	}

	var result couchdb.DocumentResult
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("putting document: %w", err)
	}

	return &result, nil
}

// Delete implements couchdb.DocumentsClient.Delete.
func (c *DocumentsClient) Delete(ctx context.Context, db, docID string, opts *couchdb.DocumentDeleteOptions) (*couchdb.DocumentResult, error) {
	bag := couchdb.Params{"db": db, "docId": docID}

	if opts != nil {
		setOpt(bag, "rev", opts.Rev)
		setOpt(bag, "ifMatch", opts.IfMatch)
		setBatch(bag, opts.Batch)
		setHeaders(bag, opts.Headers)
	}

	req, err := buildRequest(deleteDocumentOp, bag)
	if err != nil {
		return nil, fmt.Errorf("deleting document: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("deleting document: %w", err)
	}

	var result couchdb.DocumentResult
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("deleting document: %w", err)
	}

	return &result, nil
}

// Create implements couchdb.DocumentsClient.Create. The server assigns the
// document ID.
func (c *DocumentsClient) Create(ctx context.Context, db string, document any, opts *couchdb.DocumentCreateOptions) (*couchdb.DocumentResult, error) {
	bag := couchdb.Params{"db": db, "document": document}

	if opts != nil {
		setBatch(bag, opts.Batch)
		setHeaders(bag, opts.Headers)
	}

	req, err := buildRequest(createDocumentOp, bag)
	if err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}

	var result couchdb.DocumentResult
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}

	return &result, nil
}

// setBatch maps the boolean batch option to its "ok" wire value.
func setBatch(bag couchdb.Params, batch *bool) {
	if batch != nil && *batch {
		bag["batch"] = "ok"
	}
}
