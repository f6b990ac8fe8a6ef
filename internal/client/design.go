package client

import (
	"context"
	"fmt"
	"net/http"

	internalhttp "github.com/docstore-io/couch-client/internal/http"
	"github.com/docstore-io/couch-client/pkg/couchdb"
)

// Design document endpoint descriptors. Design documents share the document
// wire shape but live under the /_design/ namespace, so the ddoc name never
// needs the "_design/" prefix in the bag.
var (
	getDesignDocumentOp = &couchdb.Operation{
		Method:       http.MethodGet,
		PathTemplate: "/{db}/_design/{ddoc}",
		Required:     []string{"db", "ddoc"},
		Valid: []string{
			"db", "ddoc", "attachments", "attEncodingInfo", "conflicts",
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

	putDesignDocumentOp = &couchdb.Operation{
		Method:       http.MethodPut,
		PathTemplate: "/{db}/_design/{ddoc}",
		Required:     []string{"db", "ddoc", "document"},
		Valid: []string{
			"db", "ddoc", "document", "rev", "batch", "newEdits", "ifMatch",
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

	deleteDesignDocumentOp = &couchdb.Operation{
		Method:       http.MethodDelete,
		PathTemplate: "/{db}/_design/{ddoc}",
		Required:     []string{"db", "ddoc"},
		Valid:        []string{"db", "ddoc", "rev", "batch", "ifMatch", "headers"},
		Params: map[string]couchdb.Param{
			"rev":     {In: couchdb.InQuery, Wire: "rev"},
			"batch":   {In: couchdb.InQuery, Wire: "batch"},
			"ifMatch": {In: couchdb.InHeader, Wire: "If-Match"},
		},
		DefaultHeaders: jsonHeaders,
	}

	getDesignInfoOp = &couchdb.Operation{
		Method:         http.MethodGet,
		PathTemplate:   "/{db}/_design/{ddoc}/_info",
		Required:       []string{"db", "ddoc"},
		Valid:          []string{"db", "ddoc", "headers"},
		DefaultHeaders: jsonHeaders,
	}

	viewOp = &couchdb.Operation{
		Method:       http.MethodGet,
		PathTemplate: "/{db}/_design/{ddoc}/_view/{view}",
		Required:     []string{"db", "ddoc", "view"},
		Valid: []string{
			"db", "ddoc", "view", "conflicts", "descending", "endkey",
			"group", "groupLevel", "includeDocs", "inclusiveEnd", "key",
			"limit", "reduce", "skip", "stable", "startkey", "update",
			"updateSeq", "headers",
		},
		Params:         viewParams,
		DefaultHeaders: jsonHeaders,
	}

	// viewKeysOp is the POST form used when an explicit key set is given.
	viewKeysOp = &couchdb.Operation{
		Method:       http.MethodPost,
		PathTemplate: "/{db}/_design/{ddoc}/_view/{view}",
		Required:     []string{"db", "ddoc", "view", "keys"},
		Valid: []string{
			"db", "ddoc", "view", "keys", "conflicts", "descending", "group",
			"groupLevel", "includeDocs", "inclusiveEnd", "limit", "reduce",
			"skip", "stable", "update", "updateSeq", "headers",
		},
		Params: map[string]couchdb.Param{
			"keys":         {In: couchdb.InBody, Wire: "keys"},
			"conflicts":    {In: couchdb.InQuery, Wire: "conflicts"},
			"descending":   {In: couchdb.InQuery, Wire: "descending"},
			"group":        {In: couchdb.InQuery, Wire: "group"},
			"groupLevel":   {In: couchdb.InQuery, Wire: "group_level"},
			"includeDocs":  {In: couchdb.InQuery, Wire: "include_docs"},
			"inclusiveEnd": {In: couchdb.InQuery, Wire: "inclusive_end"},
			"limit":        {In: couchdb.InQuery, Wire: "limit"},
			"reduce":       {In: couchdb.InQuery, Wire: "reduce"},
			"skip":         {In: couchdb.InQuery, Wire: "skip"},
			"stable":       {In: couchdb.InQuery, Wire: "stable"},
			"update":       {In: couchdb.InQuery, Wire: "update"},
			"updateSeq":    {In: couchdb.InQuery, Wire: "update_seq"},
		},
		DefaultHeaders: jsonHeaders,
	}

	viewParams = map[string]couchdb.Param{
		"conflicts":    {In: couchdb.InQuery, Wire: "conflicts"},
		"descending":   {In: couchdb.InQuery, Wire: "descending"},
		"endkey":       {In: couchdb.InQuery, Wire: "endkey"},
		"group":        {In: couchdb.InQuery, Wire: "group"},
		"groupLevel":   {In: couchdb.InQuery, Wire: "group_level"},
		"includeDocs":  {In: couchdb.InQuery, Wire: "include_docs"},
		"inclusiveEnd": {In: couchdb.InQuery, Wire: "inclusive_end"},
		"key":          {In: couchdb.InQuery, Wire: "key"},
		"limit":        {In: couchdb.InQuery, Wire: "limit"},
		"reduce":       {In: couchdb.InQuery, Wire: "reduce"},
		"skip":         {In: couchdb.InQuery, Wire: "skip"},
		"stable":       {In: couchdb.InQuery, Wire: "stable"},
		"startkey":     {In: couchdb.InQuery, Wire: "startkey"},
		"update":       {In: couchdb.InQuery, Wire: "update"},
		"updateSeq":    {In: couchdb.InQuery, Wire: "update_seq"},
	}
)

// DesignDocumentsClient implements couchdb.DesignDocumentsClient.
type DesignDocumentsClient struct {
	httpClient *internalhttp.Client
}

// NewDesignDocumentsClient creates a new design documents client.
func NewDesignDocumentsClient(httpClient *internalhttp.Client) *DesignDocumentsClient {
	return &DesignDocumentsClient{httpClient: httpClient}
}

// Get implements couchdb.DesignDocumentsClient.Get.
func (c *DesignDocumentsClient) Get(ctx context.Context, db, ddoc string, opts *couchdb.DocumentGetOptions) (couchdb.Document, error) {
	bag := couchdb.Params{"db": db, "ddoc": ddoc}

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

	req, err := buildRequest(getDesignDocumentOp, bag)
	if err != nil {
		return nil, fmt.Errorf("getting design document: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("getting design document: %w", err)
	}

	var doc couchdb.Document
	if err := decodeJSON(resp.Body, &doc); err != nil {
		return nil, fmt.Errorf("getting design document: %w", err)
	}

	return doc, nil
}

// Put implements couchdb.DesignDocumentsClient.Put.
func (c *DesignDocumentsClient) Put(ctx context.Context, db, ddoc string, document any, opts *couchdb.DocumentPutOptions) (*couchdb.DocumentResult, error) {
	bag := couchdb.Params{"db": db, "ddoc": ddoc, "document": document}

	if opts != nil {
		setOpt(bag, "rev", opts.Rev)
		setOpt(bag, "newEdits", opts.NewEdits)
		setOpt(bag, "ifMatch", opts.IfMatch)
		setBatch(bag, opts.Batch)
		setHeaders(bag, opts.Headers)
	}

	req, err := buildRequest(putDesignDocumentOp, bag)
	if err != nil {
		return nil, fmt.Errorf("putting design document: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("putting design document: %w", err)
	}

	var result couchdb.DocumentResult
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("putting design document: %w", err)
	}

	return &result, nil
}

// Delete implements couchdb.DesignDocumentsClient.Delete.
func (c *DesignDocumentsClient) Delete(ctx context.Context, db, ddoc string, opts *couchdb.DocumentDeleteOptions) (*couchdb.DocumentResult, error) {
	bag := couchdb.Params{"db": db, "ddoc": ddoc}

	if opts != nil {
		setOpt(bag, "rev", opts.Rev)
		setOpt(bag, "ifMatch", opts.IfMatch)
		setBatch(bag, opts.Batch)
		setHeaders(bag, opts.Headers)
	}

	req, err := buildRequest(deleteDesignDocumentOp, bag)
	if err != nil {
		return nil, fmt.Errorf("deleting design document: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("deleting design document: %w", err)
	}

	var result couchdb.DocumentResult
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("deleting design document: %w", err)
	}

	return &result, nil
}

// GetInfo implements couchdb.DesignDocumentsClient.GetInfo.
func (c *DesignDocumentsClient) GetInfo(ctx context.Context, db, ddoc string) (*couchdb.DesignInfo, error) {
	req, err := buildRequest(getDesignInfoOp, couchdb.Params{"db": db, "ddoc": ddoc})
	if err != nil {
		return nil, fmt.Errorf("getting design info: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("getting design info: %w", err)
	}

	var info couchdb.DesignInfo
	if err := decodeJSON(resp.Body, &info); err != nil {
		return nil, fmt.Errorf("getting design info: %w", err)
	}

	return &info, nil
}

// View implements couchdb.DesignDocumentsClient.View. When opts.Keys is set
// the POST form is used so the key list travels in the body.
func (c *DesignDocumentsClient) View(ctx context.Context, db, ddoc, view string, opts *couchdb.ViewOptions) (*couchdb.ViewResult, error) {
	op := viewOp
	bag := couchdb.Params{"db": db, "ddoc": ddoc, "view": view}

	if opts != nil {
		setOpt(bag, "conflicts", opts.Conflicts)
		setOpt(bag, "descending", opts.Descending)
		setOpt(bag, "group", opts.Group)
		setOpt(bag, "groupLevel", opts.GroupLevel)
		setOpt(bag, "includeDocs", opts.IncludeDocs)
		setOpt(bag, "inclusiveEnd", opts.InclusiveEnd)
		setOpt(bag, "limit", opts.Limit)
		setOpt(bag, "reduce", opts.Reduce)
		setOpt(bag, "skip", opts.Skip)
		setOpt(bag, "stable", opts.Stable)
		setOpt(bag, "update", opts.Update)
		setOpt(bag, "updateSeq", opts.UpdateSeq)
		setHeaders(bag, opts.Headers)

		if opts.Keys != nil {
			op = viewKeysOp
			bag["keys"] = opts.Keys
		} else {
			if err := setJSONKey(bag, "key", opts.Key); err != nil {
				return nil, fmt.Errorf("querying view: %w", err)
			}

			if err := setJSONKey(bag, "startkey", opts.StartKey); err != nil {
				return nil, fmt.Errorf("querying view: %w", err)
			}

			if err := setJSONKey(bag, "endkey", opts.EndKey); err != nil {
				return nil, fmt.Errorf("querying view: %w", err)
			}
		}
	}

	req, err := buildRequest(op, bag)
	if err != nil {
		return nil, fmt.Errorf("querying view: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("querying view: %w", err)
	}

	var result couchdb.ViewResult
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("querying view: %w", err)
	}

	return &result, nil
}
