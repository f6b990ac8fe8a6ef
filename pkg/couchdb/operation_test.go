package couchdb_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docstore-io/couch-client/pkg/couchdb"
)

func testGetDocOp() *couchdb.Operation {
	return &couchdb.Operation{
		Method:       http.MethodGet,
		PathTemplate: "/{db}/{doc_id}",
		Required:     []string{"db", "docId"},
		Valid:        []string{"db", "docId", "rev", "conflicts", "ifNoneMatch", "headers"},
		Params: map[string]couchdb.Param{
			"rev":         {In: couchdb.InQuery, Wire: "rev"},
			"conflicts":   {In: couchdb.InQuery, Wire: "conflicts"},
			"ifNoneMatch": {In: couchdb.InHeader, Wire: "If-None-Match"},
		},
		DefaultHeaders: map[string]string{"Accept": "application/json"},
	}
}

func TestBuildRequest_PathSubstitution(t *testing.T) {
	t.Parallel()

	op := testGetDocOp()

	req := op.BuildRequest(couchdb.Params{"db": "orders", "docId": "a/b"})

	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/orders/a%2Fb", req.Path)
	assert.Empty(t, req.Query)
	assert.Nil(t, req.Body)
}

func TestBuildRequest_QueryAndHeaderParams(t *testing.T) {
	t.Parallel()

	op := testGetDocOp()

	req := op.BuildRequest(couchdb.Params{
		"db":          "orders",
		"docId":       "o-1",
		"rev":         "3-abc",
		"conflicts":   true,
		"ifNoneMatch": `"3-abc"`,
	})

	assert.Equal(t, "3-abc", req.Query.Get("rev"))
	assert.Equal(t, "true", req.Query.Get("conflicts"))
	assert.Equal(t, `"3-abc"`, req.Headers["If-None-Match"])
	assert.Equal(t, "application/json", req.Headers["Accept"])
}

func TestBuildRequest_UndefinedParamsOmitted(t *testing.T) {
	t.Parallel()

	op := testGetDocOp()

	req := op.BuildRequest(couchdb.Params{"db": "orders", "docId": "o-1"})

	_, hasRev := req.Query["rev"]
	assert.False(t, hasRev)
	_, hasHeader := req.Headers["If-None-Match"]
	assert.False(t, hasHeader)
}

func TestBuildRequest_CallerHeadersWin(t *testing.T) {
	t.Parallel()

	op := testGetDocOp()

	req := op.BuildRequest(couchdb.Params{
		"db":          "orders",
		"docId":       "o-1",
		"ifNoneMatch": `"1-x"`,
		"headers": map[string]string{
			"Accept":   "application/octet-stream",
			"If-Match": `"2-y"`,
		},
	})

	// Caller overrides beat defaults, computed headers survive untouched
	assert.Equal(t, "application/octet-stream", req.Headers["Accept"])
	assert.Equal(t, `"1-x"`, req.Headers["If-None-Match"])
	assert.Equal(t, `"2-y"`, req.Headers["If-Match"])
}

func TestBuildRequest_Idempotent(t *testing.T) {
	t.Parallel()

	op := testGetDocOp()
	bag := couchdb.Params{"db": "orders", "docId": "o-1", "rev": "1-a"}

	first := op.BuildRequest(bag)
	second := op.BuildRequest(bag)

	assert.Equal(t, first.Path, second.Path)
	assert.Equal(t, first.Query, second.Query)
	assert.Equal(t, first.Headers, second.Headers)
}

func TestBuildRequest_MultiValuedQuery(t *testing.T) {
	t.Parallel()

	op := &couchdb.Operation{
		Method:       http.MethodGet,
		PathTemplate: "/{db}/_design_docs",
		Required:     []string{"db"},
		Valid:        []string{"db", "keys", "headers"},
		Params: map[string]couchdb.Param{
			"keys": {In: couchdb.InQuery, Wire: "keys"},
		},
	}

	req := op.BuildRequest(couchdb.Params{
		"db":   "orders",
		"keys": []string{`"a"`, `"b"`},
	})

	assert.Equal(t, []string{`"a"`, `"b"`}, req.Query["keys"])
}

func TestBuildRequest_BodyFields(t *testing.T) {
	t.Parallel()

	op := &couchdb.Operation{
		Method:       http.MethodPost,
		PathTemplate: "/{db}/_bulk_docs",
		Required:     []string{"db", "docs"},
		Valid:        []string{"db", "docs", "newEdits", "headers"},
		Params: map[string]couchdb.Param{
			"docs":     {In: couchdb.InBody, Wire: "docs"},
			"newEdits": {In: couchdb.InBody, Wire: "new_edits"},
		},
	}

	docs := []map[string]any{{"_id": "a"}}
	req := op.BuildRequest(couchdb.Params{"db": "orders", "docs": docs, "newEdits": false})

	body, ok := req.Body.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, docs, body["docs"].([]map[string]any))
	assert.Equal(t, false, body["new_edits"])
}

func TestBuildRequest_BodyParamPassthrough(t *testing.T) {
	t.Parallel()

	op := &couchdb.Operation{
		Method:       http.MethodPut,
		PathTemplate: "/{db}/{doc_id}",
		Required:     []string{"db", "docId", "document"},
		Valid:        []string{"db", "docId", "document", "headers"},
		BodyParam:    "document",
	}

	doc := map[string]any{"state": "open"}
	req := op.BuildRequest(couchdb.Params{"db": "orders", "docId": "o-1", "document": doc})

	// The body value is handed through unexamined, not wrapped in a field map
	assert.Equal(t, doc, req.Body.(map[string]any))
}

func TestBuildRequest_PanicsOnMissingPlaceholderParam(t *testing.T) {
	t.Parallel()

	op := testGetDocOp()

	assert.Panics(t, func() {
		op.BuildRequest(couchdb.Params{"db": "orders"})
	})
}

func TestBuildRequest_StreamFlag(t *testing.T) {
	t.Parallel()

	op := &couchdb.Operation{
		Method:         http.MethodGet,
		PathTemplate:   "/{db}/_changes",
		Required:       []string{"db"},
		Valid:          []string{"db", "headers"},
		ResponseStream: true,
	}

	req := op.BuildRequest(couchdb.Params{"db": "orders"})
	assert.True(t, req.Stream)
}

func TestBuildRequest_ConditionalDefaultHeaderAbsent(t *testing.T) {
	t.Parallel()

	op := &couchdb.Operation{
		Method:       http.MethodGet,
		PathTemplate: "/{db}",
		Required:     []string{"db"},
		Valid:        []string{"db", "headers"},
		DefaultHeaders: map[string]string{
			"Accept":     "application/json",
			"X-Optional": "",
		},
	}

	req := op.BuildRequest(couchdb.Params{"db": "orders"})

	_, present := req.Headers["X-Optional"]
	assert.False(t, present)
	assert.Equal(t, "application/json", req.Headers["Accept"])
}

func TestParamsHeaders(t *testing.T) {
	t.Parallel()

	bag := couchdb.Params{"headers": map[string]string{"X-Trace": "abc"}}
	assert.Equal(t, map[string]string{"X-Trace": "abc"}, bag.Headers())

	empty := couchdb.Params{}
	assert.Nil(t, empty.Headers())
}
