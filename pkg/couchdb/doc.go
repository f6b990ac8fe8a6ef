// Package couchdb provides types, interfaces, and helpers for working with
// a CouchDB-compatible HTTP API.
//
// # Overview
//
// The couchdb package defines the data models (e.g., Document,
// DatabaseInformation, ViewResult), the interfaces for resource-oriented
// clients (e.g., DatabasesClient, DocumentsClient), and the declarative
// request-construction engine every generated method is built on. A concrete
// implementation of the client interfaces is provided by the couchclient
// package, which wires configuration, transport, and authentication. Most
// consumers should import couchclient to construct a client and then
// interact with the resource client interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/docstore-io/couch-client/pkg/couchclient"
//	  "github.com/docstore-io/couch-client/pkg/couchdb"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := couchclient.New(&couchdb.Config{
//	    URL:      "http://localhost:5984",
//	    Username: "admin",
//	    Password: "secret",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  doc, err := cli.Documents().Get(ctx, "orders", "order-0001", nil)
//	  if err != nil { log.Fatal(err) }
//	  _ = doc
//	}
//
// # Operations
//
// Each endpoint is described by a static Operation value: the HTTP method, a
// path template with {name} placeholders, the sets of required and accepted
// logical parameter names, and the wire mapping of every optional parameter.
// Generated methods collect their arguments into a Params bag, validate it
// against the descriptor, and build an immutable Request from it; the
// transport never sees an unvalidated bag. Validation failures are returned
// as a ValidationError listing every violation at once.
//
// # Errors
//
// Server errors are represented by ServerError, decoded from the standard
// {"error", "reason"} envelope. Helpers such as IsNotFound, IsConflict, and
// IsUnauthorized make it easy to branch on common cases; IsValidationError
// identifies client-side parameter failures that never reached the network.
//
// # Interceptors and caching
//
// The package includes request/response interceptors (for logging, header
// stamping, rate limiting, response caching) and a pluggable Cache
// abstraction with in-memory and NATS JetStream KV backends. Document ETags
// are revision strings, so cached reads revalidate naturally with
// If-None-Match.
package couchdb
