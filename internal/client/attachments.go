package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	internalhttp "github.com/docstore-io/couch-client/internal/http"
	"github.com/docstore-io/couch-client/pkg/couchdb"
)

// Attachment endpoint descriptors. Attachment bodies are opaque bytes, so no
// Accept default is applied and get responses stream.
var (
	headAttachmentOp = &couchdb.Operation{
		Method:       http.MethodHead,
		PathTemplate: "/{db}/{doc_id}/{attachment_name}",
		Required:     []string{"db", "docId", "attachmentName"},
		Valid:        []string{"db", "docId", "attachmentName", "rev", "headers"},
		Params: map[string]couchdb.Param{
			"rev": {In: couchdb.InQuery, Wire: "rev"},
		},
	}

	getAttachmentOp = &couchdb.Operation{
		Method:       http.MethodGet,
		PathTemplate: "/{db}/{doc_id}/{attachment_name}",
		Required:     []string{"db", "docId", "attachmentName"},
		Valid: []string{
			"db", "docId", "attachmentName", "rev", "ifNoneMatch", "range",
			"headers",
		},
		Params: map[string]couchdb.Param{
			"rev":         {In: couchdb.InQuery, Wire: "rev"},
			"ifNoneMatch": {In: couchdb.InHeader, Wire: "If-None-Match"},
			"range":       {In: couchdb.InHeader, Wire: "Range"},
		},
		ResponseStream: true,
	}

	putAttachmentOp = &couchdb.Operation{
		Method:       http.MethodPut,
		PathTemplate: "/{db}/{doc_id}/{attachment_name}",
		Required:     []string{"db", "docId", "attachmentName", "body", "contentType"},
		Valid: []string{
			"db", "docId", "attachmentName", "body", "contentType", "rev",
			"ifMatch", "headers",
		},
		Params: map[string]couchdb.Param{
			"contentType": {In: couchdb.InHeader, Wire: "Content-Type"},
			"rev":         {In: couchdb.InQuery, Wire: "rev"},
			"ifMatch":     {In: couchdb.InHeader, Wire: "If-Match"},
		},
		BodyParam:      "body",
		DefaultHeaders: jsonHeaders,
	}

	deleteAttachmentOp = &couchdb.Operation{
		Method:       http.MethodDelete,
		PathTemplate: "/{db}/{doc_id}/{attachment_name}",
		Required:     []string{"db", "docId", "attachmentName"},
		Valid: []string{
			"db", "docId", "attachmentName", "rev", "batch", "ifMatch",
			"headers",
		},
		Params: map[string]couchdb.Param{
			"rev":     {In: couchdb.InQuery, Wire: "rev"},
			"batch":   {In: couchdb.InQuery, Wire: "batch"},
			"ifMatch": {In: couchdb.InHeader, Wire: "If-Match"},
		},
		DefaultHeaders: jsonHeaders,
	}
)

// AttachmentsClient implements couchdb.AttachmentsClient.
type AttachmentsClient struct {
	httpClient *internalhttp.Client
}

// NewAttachmentsClient creates a new attachments client.
func NewAttachmentsClient(httpClient *internalhttp.Client) *AttachmentsClient {
	return &AttachmentsClient{httpClient: httpClient}
}

// Head implements couchdb.AttachmentsClient.Head. It returns the attachment
// size from the Content-Length header.
func (c *AttachmentsClient) Head(ctx context.Context, db, docID, attachmentName string) (int64, error) {
	bag := couchdb.Params{"db": db, "docId": docID, "attachmentName": attachmentName}

	req, err := buildRequest(headAttachmentOp, bag)
	if err != nil {
		return 0, fmt.Errorf("checking attachment: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("checking attachment: %w", err)
	}

	size, err := strconv.ParseInt(resp.Headers.Get("Content-Length"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("checking attachment: parsing content length: %w", err)
	}

	return size, nil
}

// Get implements couchdb.AttachmentsClient.Get. The caller owns closing the
// returned stream.
func (c *AttachmentsClient) Get(ctx context.Context, db, docID, attachmentName string, opts *couchdb.AttachmentGetOptions) (io.ReadCloser, error) {
	bag := couchdb.Params{"db": db, "docId": docID, "attachmentName": attachmentName}

	if opts != nil {
		setOpt(bag, "rev", opts.Rev)
		setOpt(bag, "ifNoneMatch", opts.IfNoneMatch)
		setOpt(bag, "range", opts.Range)
		setHeaders(bag, opts.Headers)
	}

	req, err := buildRequest(getAttachmentOp, bag)
	if err != nil {
		return nil, fmt.Errorf("getting attachment: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("getting attachment: %w", err)
	}

	return resp.Raw, nil
}

// Put implements couchdb.AttachmentsClient.Put. The body is streamed to the
// server, not buffered.
func (c *AttachmentsClient) Put(ctx context.Context, db, docID, attachmentName string, body io.Reader, contentType string, opts *couchdb.AttachmentPutOptions) (*couchdb.DocumentResult, error) {
	if body == nil {
		return nil, fmt.Errorf("putting attachment: %w", couchdb.ErrAttachmentBodyNil)
	}

	bag := couchdb.Params{
		"db":             db,
		"docId":          docID,
		"attachmentName": attachmentName,
		"body":           body,
		"contentType":    contentType,
	}

	if opts != nil {
		setOpt(bag, "rev", opts.Rev)
		setOpt(bag, "ifMatch", opts.IfMatch)
		setHeaders(bag, opts.Headers)
	}

	req, err := buildRequest(putAttachmentOp, bag)
	if err != nil {
		return nil, fmt.Errorf("putting attachment: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("putting attachment: %w", err)
	}

	var result couchdb.DocumentResult
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("putting attachment: %w", err)
	}

	return &result, nil
}

// Delete implements couchdb.AttachmentsClient.Delete.
func (c *AttachmentsClient) Delete(ctx context.Context, db, docID, attachmentName string, opts *couchdb.AttachmentDeleteOptions) (*couchdb.DocumentResult, error) {
	bag := couchdb.Params{"db": db, "docId": docID, "attachmentName": attachmentName}

	if opts != nil {
		setOpt(bag, "rev", opts.Rev)
		setOpt(bag, "ifMatch", opts.IfMatch)
		setBatch(bag, opts.Batch)
		setHeaders(bag, opts.Headers)
	}

	req, err := buildRequest(deleteAttachmentOp, bag)
	if err != nil {
		return nil, fmt.Errorf("deleting attachment: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("deleting attachment: %w", err)
	}

	var result couchdb.DocumentResult
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("deleting attachment: %w", err)
	}

	return &result, nil
}
