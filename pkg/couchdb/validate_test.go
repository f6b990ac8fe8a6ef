package couchdb_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docstore-io/couch-client/pkg/couchdb"
)

func testFindOp() *couchdb.Operation {
	return &couchdb.Operation{
		Method:       http.MethodPost,
		PathTemplate: "/{db}/_find",
		Required:     []string{"db", "selector"},
		Valid:        []string{"db", "selector", "limit", "skip", "headers"},
	}
}

func TestValidate_OK(t *testing.T) {
	t.Parallel()

	op := testFindOp()

	err := op.Validate(couchdb.Params{
		"db":       "orders",
		"selector": map[string]any{"state": "open"},
		"limit":    int64(10),
	})
	assert.NoError(t, err)
}

func TestValidate_MissingRequired(t *testing.T) {
	t.Parallel()

	op := testFindOp()

	err := op.Validate(couchdb.Params{"db": "orders"})
	require.Error(t, err)

	var verr *couchdb.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Violations, 1)
	assert.Equal(t, couchdb.ViolationMissing, verr.Violations[0].Kind)
	assert.Equal(t, "selector", verr.Violations[0].Param)
	assert.Contains(t, err.Error(), `missing required parameter "selector"`)
}

func TestValidate_Unrecognized(t *testing.T) {
	t.Parallel()

	op := testFindOp()

	err := op.Validate(couchdb.Params{
		"db":       "orders",
		"selector": map[string]any{},
		"bogus":    1,
	})
	require.Error(t, err)

	var verr *couchdb.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Violations, 1)
	assert.Equal(t, couchdb.ViolationUnrecognized, verr.Violations[0].Kind)
	assert.Equal(t, "bogus", verr.Violations[0].Param)
	assert.Contains(t, err.Error(), `parameter "bogus" is not recognized`)
}

func TestValidate_AllViolationsReported(t *testing.T) {
	t.Parallel()

	op := testFindOp()

	// Missing both required params, plus two unknown ones
	err := op.Validate(couchdb.Params{"zeta": 1, "alpha": 2})
	require.Error(t, err)

	var verr *couchdb.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Violations, 4)

	// Missing params come first in declaration order, then unrecognized
	// params in lexical order
	assert.Equal(t, couchdb.Violation{Kind: couchdb.ViolationMissing, Param: "db"}, verr.Violations[0])
	assert.Equal(t, couchdb.Violation{Kind: couchdb.ViolationMissing, Param: "selector"}, verr.Violations[1])
	assert.Equal(t, couchdb.Violation{Kind: couchdb.ViolationUnrecognized, Param: "alpha"}, verr.Violations[2])
	assert.Equal(t, couchdb.Violation{Kind: couchdb.ViolationUnrecognized, Param: "zeta"}, verr.Violations[3])
}

func TestValidate_FalsyValuesArePresent(t *testing.T) {
	t.Parallel()

	op := &couchdb.Operation{
		Method:       http.MethodGet,
		PathTemplate: "/{db}",
		Required:     []string{"db", "limit", "descending"},
		Valid:        []string{"db", "limit", "descending", "headers"},
	}

	// Zero values and empty strings satisfy requirements; only absence
	// violates them
	err := op.Validate(couchdb.Params{"db": "", "limit": 0, "descending": false})
	assert.NoError(t, err)
}

func TestValidate_NilValueIsPresent(t *testing.T) {
	t.Parallel()

	op := testFindOp()

	err := op.Validate(couchdb.Params{"db": "orders", "selector": nil})
	assert.NoError(t, err)
}

func TestValidate_HeadersAlwaysPermitted(t *testing.T) {
	t.Parallel()

	op := &couchdb.Operation{
		Method:       http.MethodGet,
		PathTemplate: "/_up",
		Valid:        []string{"headers"},
	}

	err := op.Validate(couchdb.Params{"headers": map[string]string{"X-Trace": "abc"}})
	assert.NoError(t, err)
}

func TestValidate_NilBag(t *testing.T) {
	t.Parallel()

	op := &couchdb.Operation{
		Method:       http.MethodGet,
		PathTemplate: "/_up",
		Valid:        []string{"headers"},
	}

	assert.NoError(t, op.Validate(nil))
}

func TestIsValidationError(t *testing.T) {
	t.Parallel()

	op := testFindOp()

	err := op.Validate(couchdb.Params{})
	assert.True(t, couchdb.IsValidationError(err))
	assert.False(t, couchdb.IsValidationError(nil))
}
