package couchdb

import (
	"context"
	"io"
	"time"
)

// ServerClient provides access to server-level endpoints.
type ServerClient interface {
	GetInfo(ctx context.Context) (*ServerInformation, error)
	GetUp(ctx context.Context) (*UpInformation, error)
	GetAllDbs(ctx context.Context, opts *AllDbsOptions) ([]string, error)
	GetUUIDs(ctx context.Context, opts *UUIDsOptions) (*UUIDsResult, error)
	GetActiveTasks(ctx context.Context) ([]ActiveTask, error)
	GetMembership(ctx context.Context) (*MembershipInformation, error)
	GetSession(ctx context.Context) (*SessionInformation, error)
}

// DatabasesClient provides access to database-level endpoints.
type DatabasesClient interface {
	Exists(ctx context.Context, db string) (bool, error)
	Get(ctx context.Context, db string) (*DatabaseInformation, error)
	Create(ctx context.Context, db string, opts *DatabaseCreateOptions) (*OK, error)
	Delete(ctx context.Context, db string) (*OK, error)
	Compact(ctx context.Context, db string) (*OK, error)
	ViewCleanup(ctx context.Context, db string) (*OK, error)
	GetShards(ctx context.Context, db string) (*ShardsInformation, error)
	AllDocs(ctx context.Context, db string, opts *AllDocsOptions) (*AllDocsResult, error)
	BulkDocs(ctx context.Context, db string, docs []Document, opts *BulkDocsOptions) ([]DocumentResult, error)
	BulkGet(ctx context.Context, db string, docs []BulkGetQueryDoc, opts *BulkGetOptions) (*BulkGetResult, error)
	RevsDiff(ctx context.Context, db string, revisions map[string][]string) (RevsDiffResult, error)
	Changes(ctx context.Context, db string, opts *ChangesOptions) (*ChangesResult, error)
	ChangesStream(ctx context.Context, db string, opts *ChangesOptions) (io.ReadCloser, error)
}

// DocumentsClient provides access to document endpoints.
type DocumentsClient interface {
	Head(ctx context.Context, db, docID string) (string, error)
	Get(ctx context.Context, db, docID string, opts *DocumentGetOptions) (Document, error)
	Put(ctx context.Context, db, docID string, document any, opts *DocumentPutOptions) (*DocumentResult, error)
	Delete(ctx context.Context, db, docID string, opts *DocumentDeleteOptions) (*DocumentResult, error)
	Create(ctx context.Context, db string, document any, opts *DocumentCreateOptions) (*DocumentResult, error)
}

// AttachmentsClient provides access to attachment endpoints. Attachment
// bodies are streamed in both directions and never buffered by the SDK.
type AttachmentsClient interface {
	Head(ctx context.Context, db, docID, attachmentName string) (int64, error)
	Get(ctx context.Context, db, docID, attachmentName string, opts *AttachmentGetOptions) (io.ReadCloser, error)
	Put(ctx context.Context, db, docID, attachmentName string, body io.Reader, contentType string, opts *AttachmentPutOptions) (*DocumentResult, error)
	Delete(ctx context.Context, db, docID, attachmentName string, opts *AttachmentDeleteOptions) (*DocumentResult, error)
}

// DesignDocumentsClient provides access to design documents and views.
type DesignDocumentsClient interface {
	Get(ctx context.Context, db, ddoc string, opts *DocumentGetOptions) (Document, error)
	Put(ctx context.Context, db, ddoc string, document any, opts *DocumentPutOptions) (*DocumentResult, error)
	Delete(ctx context.Context, db, ddoc string, opts *DocumentDeleteOptions) (*DocumentResult, error)
	GetInfo(ctx context.Context, db, ddoc string) (*DesignInfo, error)
	View(ctx context.Context, db, ddoc, view string, opts *ViewOptions) (*ViewResult, error)
}

// QueryClient provides access to Mango query endpoints.
type QueryClient interface {
	Find(ctx context.Context, db string, selector map[string]any, opts *FindOptions) (*FindResult, error)
	Explain(ctx context.Context, db string, selector map[string]any, opts *FindOptions) (*ExplainResult, error)
	GetIndexes(ctx context.Context, db string) (*IndexesResult, error)
	CreateIndex(ctx context.Context, db string, index any, opts *IndexCreateOptions) (*IndexCreateResult, error)
	DeleteIndex(ctx context.Context, db, ddoc, indexType, name string) (*OK, error)
}

// ReplicationClient provides access to replication endpoints.
type ReplicationClient interface {
	Replicate(ctx context.Context, request *ReplicationRequest) (*ReplicationResult, error)
	GetSchedulerJobs(ctx context.Context, opts *SchedulerOptions) (*SchedulerJobsResult, error)
	GetSchedulerDocs(ctx context.Context, opts *SchedulerOptions) (*SchedulerDocsResult, error)
}

// SecurityClient provides access to per-database security objects.
type SecurityClient interface {
	Get(ctx context.Context, db string) (*SecurityObject, error)
	Put(ctx context.Context, db string, security *SecurityObject) (*OK, error)
}

// Client is the full SDK surface. Use pkg/couchclient to construct one.
type Client interface {
	Server() ServerClient
	Databases() DatabasesClient
	Documents() DocumentsClient
	Attachments() AttachmentsClient
	DesignDocuments() DesignDocumentsClient
	Queries() QueryClient
	Replication() ReplicationClient
	Security() SecurityClient
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// AuthType selects how the client authenticates against the server.
type AuthType string

const (
	// AuthTypeNone sends no credentials.
	AuthTypeNone AuthType = "none"

	// AuthTypeBasic sends HTTP basic credentials on every request.
	AuthTypeBasic AuthType = "basic"

	// AuthTypeCookie obtains and renews an AuthSession cookie via
	// POST /_session.
	AuthTypeCookie AuthType = "cookie"
)

// Config represents client configuration for building a couchdb.Client.
//
// When AuthType is empty, cookie authentication is used if credentials are
// present and no authentication otherwise.
type Config struct {
	// URL is the server base URL, e.g. "http://localhost:5984".
	URL string

	// Username and Password authenticate against the server.
	Username string
	Password string

	// AuthType selects the authentication mechanism.
	AuthType AuthType

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// Timeout bounds each HTTP request. Zero means the default.
	Timeout time.Duration

	// RetryMax is the number of retries for retriable failures. Zero keeps
	// the default; negative disables retries.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// SkipTLSVerify disables certificate verification. Development only.
	SkipTLSVerify bool

	// Debug enables request/response logging through Logger.
	Debug bool

	// Logger receives SDK log output. Nil disables logging.
	Logger Logger

	// Cache configures the optional response cache. Nil disables caching.
	Cache *CacheConfig
}
