package client

import (
	"encoding/json"
	"fmt"

	"github.com/docstore-io/couch-client/pkg/couchdb"
)

// buildRequest validates a parameter bag against an operation descriptor and
// builds the request. Every generated method funnels through here so a
// request is never built from an unvalidated bag.
func buildRequest(op *couchdb.Operation, bag couchdb.Params) (*couchdb.Request, error) {
	if err := op.Validate(bag); err != nil {
		return nil, err
	}

	return op.BuildRequest(bag), nil
}

// setOpt copies an optional pointer-typed parameter into the bag. A nil
// pointer means the parameter was not provided and stays out of the bag.
func setOpt[T any](bag couchdb.Params, key string, value *T) {
	if value != nil {
		bag[key] = *value
	}
}

// setAny copies an optional untyped parameter into the bag.
func setAny(bag couchdb.Params, key string, value any) {
	if value != nil {
		bag[key] = value
	}
}

// setHeaders installs caller header overrides under the reserved bag key.
func setHeaders(bag couchdb.Params, headers map[string]string) {
	if len(headers) > 0 {
		bag["headers"] = headers
	}
}

// setJSONKey JSON-encodes a view key value into the bag. The server requires
// key, keys, startkey, and endkey query values to be JSON literals.
func setJSONKey(bag couchdb.Params, key string, value any) error {
	if value == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	bag[key] = string(data)

	return nil
}

// decodeJSON unmarshals a buffered response body into out.
func decodeJSON(data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}

	return nil
}
