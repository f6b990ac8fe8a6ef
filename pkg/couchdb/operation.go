package couchdb

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Location identifies where a parameter is placed on the wire.
type Location int

const (
	// InQuery places the parameter in the request query string.
	InQuery Location = iota

	// InHeader places the parameter in a request header.
	InHeader

	// InBody places the parameter in a JSON body object.
	InBody
)

// Param describes the wire mapping of one logical parameter.
type Param struct {
	// In is the wire location of the parameter.
	In Location

	// Wire is the query key, header name, or body field name used on the
	// network for this parameter.
	Wire string
}

// Operation is the static descriptor for one REST endpoint. Descriptors are
// constructed once as package-level values and never mutated; every generated
// method holds exactly one.
//
// Parameters destined for the URL path are not listed in Params: path
// placeholders in PathTemplate are matched to logical parameter names by the
// fixed camelCase-to-snake_case convention (docId -> doc_id).
type Operation struct {
	// Method is the HTTP method (GET, POST, PUT, DELETE, or HEAD).
	Method string

	// PathTemplate is the URL path with {name} placeholders, e.g. "/{db}/{doc_id}".
	PathTemplate string

	// Required lists the logical parameter names that must be present.
	Required []string

	// Valid lists every logical parameter name the operation accepts.
	// It is a superset of Required and always includes "headers".
	Valid []string

	// Params maps logical names to their wire location and name. Path
	// parameters are resolved from PathTemplate and do not appear here.
	Params map[string]Param

	// DefaultHeaders are always sent unless overridden. Entries with an
	// empty value are conditionally absent.
	DefaultHeaders map[string]string

	// BodyParam, if set, names the single logical parameter whose value is
	// the entire request body, passed through unexamined. When set, no
	// Params entry may use InBody.
	BodyParam string

	// ResponseStream marks operations whose response body should be handed
	// to the caller as a raw stream rather than buffered JSON.
	ResponseStream bool
}

// Params is the caller-supplied parameter bag for one operation call: logical
// parameter name to value. A key that is absent from the map means the
// parameter was not provided; a key present with a nil value counts as
// provided. The reserved "headers" key carries per-call header overrides as a
// map[string]string and is accepted by every operation.
type Params map[string]any

// headersKey is the reserved bag key for caller header overrides.
const headersKey = "headers"

// Headers returns the caller-supplied header overrides, or nil.
func (p Params) Headers() map[string]string {
	h, _ := p[headersKey].(map[string]string)
	return h
}

// Request is the fully resolved shape of one HTTP request, ready to hand to
// the transport. It owns no connection and has no lifecycle beyond a single
// call.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
	Body    any

	// Stream indicates the transport should return the response body as a
	// raw stream instead of buffering it.
	Stream bool
}

// Response is the envelope returned by the transport.
type Response struct {
	StatusCode int
	Status     string
	Headers    http.Header

	// Body holds the buffered response payload. Nil for streaming requests.
	Body []byte

	// Raw is the unread response body for streaming requests. The caller
	// must close it.
	Raw io.ReadCloser
}

var placeholderPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// BuildRequest resolves the operation against a validated parameter bag and
// returns the request descriptor. The bag must already have passed Validate;
// BuildRequest performs no caller-input checking of its own.
//
// A path placeholder with no corresponding bag entry indicates a malformed
// descriptor, not bad caller input, and panics.
func (op *Operation) BuildRequest(bag Params) *Request {
	path := placeholderPattern.ReplaceAllStringFunc(op.PathTemplate, func(m string) string {
		wire := m[1 : len(m)-1]

		v, ok := bag[logicalName(wire)]
		if !ok {
			panic(fmt.Sprintf("couchdb: %s %s: no parameter for path placeholder {%s}",
				op.Method, op.PathTemplate, wire))
		}

		return url.PathEscape(formatValue(v))
	})

	query := url.Values{}
	headers := make(map[string]string, len(op.DefaultHeaders))

	for name, value := range op.DefaultHeaders {
		if value != "" {
			headers[name] = value
		}
	}

	var bodyFields map[string]any

	for name, param := range op.Params {
		v, ok := bag[name]
		if !ok {
			continue
		}

		switch param.In {
		case InQuery:
			if values, isMulti := v.([]string); isMulti {
				// Multi-valued parameters keep their one-to-many shape;
				// the transport decides how repeated keys are encoded.
				query[param.Wire] = append([]string(nil), values...)
			} else {
				query.Set(param.Wire, formatValue(v))
			}
		case InHeader:
			headers[param.Wire] = formatValue(v)
		case InBody:
			if bodyFields == nil {
				bodyFields = make(map[string]any)
			}

			bodyFields[param.Wire] = v
		}
	}

	// Caller-supplied headers win over both defaults and computed headers.
	for name, value := range bag.Headers() {
		headers[name] = value
	}

	var body any

	switch {
	case op.BodyParam != "":
		body = bag[op.BodyParam]
	case bodyFields != nil:
		body = bodyFields
	}

	return &Request{
		Method:  op.Method,
		Path:    path,
		Query:   query,
		Headers: headers,
		Body:    body,
		Stream:  op.ResponseStream,
	}
}

// logicalName converts a snake_case wire name to the camelCase logical name
// used as a bag key (doc_id -> docId, att_encoding_info -> attEncodingInfo).
func logicalName(wire string) string {
	parts := strings.Split(wire, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}

	return strings.Join(parts, "")
}

// formatValue renders a scalar parameter value in its wire string form.
func formatValue(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case fmt.Stringer:
		return value.String()
	default:
		return fmt.Sprintf("%v", value)
	}
}
