// Package couchclient provides the primary entry point for constructing a
// CouchDB client that implements the couchdb.Client interface.
//
// It layers configuration, HTTP transport, and authentication on top of the
// resource interfaces and types defined in the couchdb package. Most
// applications should import couchclient to build a client, then use the
// returned couchdb.Client to access resource-specific clients, for example
// Databases(), Documents(), Queries(), etc.
//
// Quick start
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
//
//	  // Minimal: just a server URL (no auth).
//	  cli, err := couchclient.New(&couchdb.Config{URL: "http://localhost:5984"})
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with credentials. When credentials are provided and no auth type
//	  // is set, cookie-session authentication is used: the client obtains an
//	  // AuthSession cookie via POST /_session and renews it before expiry.
//	  cli, err = couchclient.New(&couchdb.Config{
//	    URL:      "http://localhost:5984",
//	    Username: "admin",
//	    Password: "secret",
//	    // alternatively: AuthType: couchdb.AuthTypeBasic,
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  // Use resource clients via the couchdb.Client interface
//	  dbs, err := cli.Server().GetAllDbs(ctx, nil)
//	  if err != nil { log.Fatal(err) }
//	  _ = dbs
//	}
//
// # TLS and development mode
//
// For local development against self-signed certificates, set
// Config.SkipTLSVerify=true. Never enable it in production.
//
// # Helpers
//
// The package also provides convenience constructors NewWithURL,
// NewWithBasicAuth, and NewWithCookieAuth that wrap New with the appropriate
// configuration.
package couchclient
