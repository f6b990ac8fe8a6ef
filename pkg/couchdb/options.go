package couchdb

// Option structs use pointer fields (or nil-able slices) so that an unset
// option is simply absent from the request: a pointer to false or zero is
// sent, a nil pointer is not. Every struct carries a Headers map of per-call
// header overrides, which always win over computed headers.

// AllDbsOptions are the optional parameters of GET /_all_dbs.
type AllDbsOptions struct {
	Descending *bool
	StartKey   *string
	EndKey     *string
	Limit      *int64
	Skip       *int64
	Headers    map[string]string
}

// UUIDsOptions are the optional parameters of GET /_uuids.
type UUIDsOptions struct {
	Count   *int64
	Headers map[string]string
}

// SchedulerOptions page through GET /_scheduler/jobs and /_scheduler/docs.
type SchedulerOptions struct {
	Limit   *int64
	Skip    *int64
	Headers map[string]string
}

// DatabaseCreateOptions are the optional parameters of PUT /{db}.
type DatabaseCreateOptions struct {
	Q           *int64
	N           *int64
	Partitioned *bool
	Headers     map[string]string
}

// AllDocsOptions are the optional parameters of GET|POST /{db}/_all_docs.
// Key-typed fields (Key, Keys, StartKey, EndKey) accept any JSON-serializable
// value and are JSON-encoded into the query string, as the server requires.
type AllDocsOptions struct {
	Conflicts    *bool
	Descending   *bool
	IncludeDocs  *bool
	InclusiveEnd *bool
	UpdateSeq    *bool
	Key          any
	Keys         []any
	StartKey     any
	EndKey       any
	Limit        *int64
	Skip         *int64
	Headers      map[string]string
}

// ViewOptions are the optional parameters of a view read.
type ViewOptions struct {
	Conflicts    *bool
	Descending   *bool
	IncludeDocs  *bool
	InclusiveEnd *bool
	UpdateSeq    *bool
	Key          any
	Keys         []any
	StartKey     any
	EndKey       any
	Limit        *int64
	Skip         *int64
	Reduce       *bool
	Group        *bool
	GroupLevel   *int64
	Stable       *bool
	Update       *string
	Headers      map[string]string
}

// ChangesOptions are the optional parameters of GET /{db}/_changes. Feed
// values other than "normal" put the transport in streaming mode.
type ChangesOptions struct {
	Conflicts   *bool
	Descending  *bool
	Feed        *string
	Filter      *string
	Heartbeat   *int64
	IncludeDocs *bool
	Attachments *bool
	Limit       *int64
	Since       *string
	Style       *string
	Timeout     *int64
	View        *string
	SeqInterval *int64
	Headers     map[string]string
}

// BulkDocsOptions are the optional parameters of POST /{db}/_bulk_docs.
type BulkDocsOptions struct {
	NewEdits *bool
	Headers  map[string]string
}

// BulkGetOptions are the optional parameters of POST /{db}/_bulk_get.
type BulkGetOptions struct {
	Revs    *bool
	Headers map[string]string
}

// DocumentGetOptions are the optional parameters of GET /{db}/{doc_id}.
type DocumentGetOptions struct {
	Attachments      *bool
	AttEncodingInfo  *bool
	Conflicts        *bool
	DeletedConflicts *bool
	Latest           *bool
	LocalSeq         *bool
	Meta             *bool
	Rev              *string
	Revs             *bool
	RevsInfo         *bool
	IfNoneMatch      *string
	Headers          map[string]string
}

// DocumentPutOptions are the optional parameters of PUT /{db}/{doc_id}.
type DocumentPutOptions struct {
	Rev      *string
	Batch    *bool
	NewEdits *bool
	IfMatch  *string
	Headers  map[string]string
}

// DocumentDeleteOptions are the optional parameters of DELETE /{db}/{doc_id}.
type DocumentDeleteOptions struct {
	Rev     *string
	Batch   *bool
	IfMatch *string
	Headers map[string]string
}

// DocumentCreateOptions are the optional parameters of POST /{db}.
type DocumentCreateOptions struct {
	Batch   *bool
	Headers map[string]string
}

// AttachmentGetOptions are the optional parameters of
// GET /{db}/{doc_id}/{attachment_name}.
type AttachmentGetOptions struct {
	Rev         *string
	IfNoneMatch *string
	Range       *string
	Headers     map[string]string
}

// AttachmentPutOptions are the optional parameters of
// PUT /{db}/{doc_id}/{attachment_name}.
type AttachmentPutOptions struct {
	Rev     *string
	IfMatch *string
	Headers map[string]string
}

// AttachmentDeleteOptions are the optional parameters of
// DELETE /{db}/{doc_id}/{attachment_name}.
type AttachmentDeleteOptions struct {
	Rev     *string
	Batch   *bool
	IfMatch *string
	Headers map[string]string
}

// FindOptions are the optional parameters of POST /{db}/_find and _explain.
// They are carried in the request body next to the selector.
type FindOptions struct {
	Fields         []string
	Sort           []any
	Limit          *int64
	Skip           *int64
	Bookmark       *string
	UseIndex       any
	Conflicts      *bool
	ExecutionStats *bool
	R              *int64
	Stable         *bool
	Update         *bool
	Headers        map[string]string
}

// IndexCreateOptions are the optional parameters of POST /{db}/_index.
type IndexCreateOptions struct {
	DDoc    *string
	Name    *string
	Type    *string
	Headers map[string]string
}

// ReplicationRequest is the body of POST /_replicate. Source and Target
// accept either a URL string or a credentialed endpoint object.
type ReplicationRequest struct {
	Source       any
	Target       any
	Cancel       *bool
	Continuous   *bool
	CreateTarget *bool
	DocIDs       []string
	Filter       *string
	Selector     map[string]any
	SinceSeq     *string
	Headers      map[string]string
}
