package couchdb

import "encoding/json"

// Document is an untyped CouchDB document. Document contents are passed
// through to and from the wire unexamined; the SDK never imposes a schema
// beyond the reserved underscore fields.
type Document map[string]any

// ID returns the _id field, if present.
func (d Document) ID() string {
	id, _ := d["_id"].(string)
	return id
}

// Rev returns the _rev field, if present.
func (d Document) Rev() string {
	rev, _ := d["_rev"].(string)
	return rev
}

// Vendor identifies the server implementation.
type Vendor struct {
	Name    string `json:"name"              yaml:"name"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Variant string `json:"variant,omitempty" yaml:"variant,omitempty"`
}

// ServerInformation is the response of GET /.
type ServerInformation struct {
	CouchDB  string   `json:"couchdb"           yaml:"couchdb"`
	Version  string   `json:"version"           yaml:"version"`
	GitSHA   string   `json:"git_sha,omitempty" yaml:"git_sha,omitempty"`
	UUID     string   `json:"uuid,omitempty"    yaml:"uuid,omitempty"`
	Features []string `json:"features"          yaml:"features"`
	Vendor   Vendor   `json:"vendor"            yaml:"vendor"`
}

// UpInformation is the response of GET /_up.
type UpInformation struct {
	Status string `json:"status" yaml:"status"`
}

// UUIDsResult is the response of GET /_uuids.
type UUIDsResult struct {
	UUIDs []string `json:"uuids" yaml:"uuids"`
}

// MembershipInformation is the response of GET /_membership.
type MembershipInformation struct {
	AllNodes     []string `json:"all_nodes"     yaml:"all_nodes"`
	ClusterNodes []string `json:"cluster_nodes" yaml:"cluster_nodes"`
}

// ActiveTask describes one entry of GET /_active_tasks.
type ActiveTask struct {
	Type      string `json:"type"               yaml:"type"`
	Database  string `json:"database,omitempty" yaml:"database,omitempty"`
	Node      string `json:"node,omitempty"     yaml:"node,omitempty"`
	PID       string `json:"pid,omitempty"      yaml:"pid,omitempty"`
	Progress  int    `json:"progress,omitempty" yaml:"progress,omitempty"`
	StartedOn int64  `json:"started_on"         yaml:"started_on"`
	UpdatedOn int64  `json:"updated_on"         yaml:"updated_on"`
}

// UserContext identifies the authenticated user of a session.
type UserContext struct {
	Name  string   `json:"name"  yaml:"name"`
	Roles []string `json:"roles" yaml:"roles"`
}

// SessionAuthInfo describes the server's authentication setup.
type SessionAuthInfo struct {
	Authenticated          string   `json:"authenticated,omitempty"    yaml:"authenticated,omitempty"`
	AuthenticationDB       string   `json:"authentication_db,omitempty" yaml:"authentication_db,omitempty"`
	AuthenticationHandlers []string `json:"authentication_handlers"    yaml:"authentication_handlers"`
}

// SessionInformation is the response of GET /_session.
type SessionInformation struct {
	OK      bool            `json:"ok"      yaml:"ok"`
	UserCtx UserContext     `json:"userCtx" yaml:"userCtx"`
	Info    SessionAuthInfo `json:"info"    yaml:"info"`
}

// Sizes reports size accounting for a database or view index.
type Sizes struct {
	Active   int64 `json:"active"   yaml:"active"`
	External int64 `json:"external" yaml:"external"`
	File     int64 `json:"file"     yaml:"file"`
}

// ClusterInfo reports the sharding parameters of a database.
type ClusterInfo struct {
	Q int `json:"q" yaml:"q"`
	N int `json:"n" yaml:"n"`
	W int `json:"w" yaml:"w"`
	R int `json:"r" yaml:"r"`
}

// DatabaseInformation is the response of GET /{db}.
type DatabaseInformation struct {
	DBName            string       `json:"db_name"               yaml:"db_name"`
	DocCount          int64        `json:"doc_count"             yaml:"doc_count"`
	DocDelCount       int64        `json:"doc_del_count"         yaml:"doc_del_count"`
	UpdateSeq         string       `json:"update_seq"            yaml:"update_seq"`
	PurgeSeq          string       `json:"purge_seq,omitempty"   yaml:"purge_seq,omitempty"`
	CompactRunning    bool         `json:"compact_running"       yaml:"compact_running"`
	DiskFormatVersion int          `json:"disk_format_version"   yaml:"disk_format_version"`
	Sizes             Sizes        `json:"sizes"                 yaml:"sizes"`
	Cluster           *ClusterInfo `json:"cluster,omitempty"     yaml:"cluster,omitempty"`
	Props             DatabaseProps `json:"props"                yaml:"props"`
}

// DatabaseProps carries persistent database properties.
type DatabaseProps struct {
	Partitioned bool `json:"partitioned,omitempty" yaml:"partitioned,omitempty"`
}

// OK is the minimal {"ok": true} acknowledgment body.
type OK struct {
	OK bool `json:"ok" yaml:"ok"`
}

// DocumentResult is the per-document write acknowledgment returned by
// document writes and bulk operations.
type DocumentResult struct {
	OK     bool   `json:"ok,omitempty"     yaml:"ok,omitempty"`
	ID     string `json:"id"               yaml:"id"`
	Rev    string `json:"rev,omitempty"    yaml:"rev,omitempty"`
	Error  string `json:"error,omitempty"  yaml:"error,omitempty"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Row is one row of a view or _all_docs response. Key and Value are raw JSON
// because view keys and reduced values take arbitrary shapes.
type Row struct {
	ID    string          `json:"id,omitempty"    yaml:"id,omitempty"`
	Key   json.RawMessage `json:"key"             yaml:"key"`
	Value json.RawMessage `json:"value"           yaml:"value"`
	Doc   Document        `json:"doc,omitempty"   yaml:"doc,omitempty"`
	Error string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// ViewResult is the response of a view read.
type ViewResult struct {
	TotalRows int64  `json:"total_rows,omitempty" yaml:"total_rows,omitempty"`
	Offset    int64  `json:"offset,omitempty"     yaml:"offset,omitempty"`
	UpdateSeq string `json:"update_seq,omitempty" yaml:"update_seq,omitempty"`
	Rows      []Row  `json:"rows"                 yaml:"rows"`
}

// AllDocsResult is the response of GET|POST /{db}/_all_docs; it shares the
// view row shape.
type AllDocsResult = ViewResult

// BulkGetDoc is one revision result inside a _bulk_get response.
type BulkGetDoc struct {
	OK    Document        `json:"ok,omitempty"    yaml:"ok,omitempty"`
	Error *DocumentResult `json:"error,omitempty" yaml:"error,omitempty"`
}

// BulkGetEntry groups the fetched revisions of one requested document.
type BulkGetEntry struct {
	ID   string       `json:"id"   yaml:"id"`
	Docs []BulkGetDoc `json:"docs" yaml:"docs"`
}

// BulkGetResult is the response of POST /{db}/_bulk_get.
type BulkGetResult struct {
	Results []BulkGetEntry `json:"results" yaml:"results"`
}

// BulkGetQueryDoc identifies one document revision to fetch via _bulk_get.
type BulkGetQueryDoc struct {
	ID        string   `json:"id"                   yaml:"id"`
	Rev       string   `json:"rev,omitempty"        yaml:"rev,omitempty"`
	AttsSince []string `json:"atts_since,omitempty" yaml:"atts_since,omitempty"`
}

// ChangeRev is one revision entry of a change.
type ChangeRev struct {
	Rev string `json:"rev" yaml:"rev"`
}

// Change is one row of a changes feed.
type Change struct {
	Seq     string      `json:"seq"               yaml:"seq"`
	ID      string      `json:"id"                yaml:"id"`
	Changes []ChangeRev `json:"changes"           yaml:"changes"`
	Deleted bool        `json:"deleted,omitempty" yaml:"deleted,omitempty"`
	Doc     Document    `json:"doc,omitempty"     yaml:"doc,omitempty"`
}

// ChangesResult is the response of a non-continuous GET /{db}/_changes.
type ChangesResult struct {
	Results []Change `json:"results"  yaml:"results"`
	LastSeq string   `json:"last_seq" yaml:"last_seq"`
	Pending int64    `json:"pending"  yaml:"pending"`
}

// RevDiff reports the missing revisions of one document in a _revs_diff
// response.
type RevDiff struct {
	Missing           []string `json:"missing"                      yaml:"missing"`
	PossibleAncestors []string `json:"possible_ancestors,omitempty" yaml:"possible_ancestors,omitempty"`
}

// RevsDiffResult maps document IDs to their revision differences.
type RevsDiffResult map[string]RevDiff

// ShardsInformation is the response of GET /{db}/_shards.
type ShardsInformation struct {
	Shards map[string][]string `json:"shards" yaml:"shards"`
}

// ExecutionStats reports the work performed by a _find query.
type ExecutionStats struct {
	TotalKeysExamined       int64   `json:"total_keys_examined"        yaml:"total_keys_examined"`
	TotalDocsExamined       int64   `json:"total_docs_examined"        yaml:"total_docs_examined"`
	TotalQuorumDocsExamined int64   `json:"total_quorum_docs_examined" yaml:"total_quorum_docs_examined"`
	ResultsReturned         int64   `json:"results_returned"           yaml:"results_returned"`
	ExecutionTimeMs         float64 `json:"execution_time_ms"          yaml:"execution_time_ms"`
}

// FindResult is the response of POST /{db}/_find.
type FindResult struct {
	Docs           []Document      `json:"docs"                      yaml:"docs"`
	Bookmark       string          `json:"bookmark,omitempty"        yaml:"bookmark,omitempty"`
	Warning        string          `json:"warning,omitempty"         yaml:"warning,omitempty"`
	ExecutionStats *ExecutionStats `json:"execution_stats,omitempty" yaml:"execution_stats,omitempty"`
}

// IndexDefinition describes the fields of a Mango index.
type IndexDefinition struct {
	Fields []map[string]string `json:"fields" yaml:"fields"`
}

// IndexInformation describes one Mango index.
type IndexInformation struct {
	DDoc string          `json:"ddoc" yaml:"ddoc"`
	Name string          `json:"name" yaml:"name"`
	Type string          `json:"type" yaml:"type"`
	Def  IndexDefinition `json:"def"  yaml:"def"`
}

// IndexesResult is the response of GET /{db}/_index.
type IndexesResult struct {
	TotalRows int                `json:"total_rows" yaml:"total_rows"`
	Indexes   []IndexInformation `json:"indexes"    yaml:"indexes"`
}

// IndexCreateResult is the response of POST /{db}/_index.
type IndexCreateResult struct {
	Result string `json:"result" yaml:"result"`
	ID     string `json:"id"     yaml:"id"`
	Name   string `json:"name"   yaml:"name"`
}

// ExplainResult is the response of POST /{db}/_explain.
type ExplainResult struct {
	DBName   string           `json:"dbname"   yaml:"dbname"`
	Index    IndexInformation `json:"index"    yaml:"index"`
	Selector map[string]any   `json:"selector" yaml:"selector"`
	Limit    int64            `json:"limit"    yaml:"limit"`
	Skip     int64            `json:"skip"     yaml:"skip"`
}

// ReplicationHistory is one session record of a completed replication.
type ReplicationHistory struct {
	SessionID        string `json:"session_id"         yaml:"session_id"`
	StartTime        string `json:"start_time"         yaml:"start_time"`
	EndTime          string `json:"end_time"           yaml:"end_time"`
	DocsRead         int64  `json:"docs_read"          yaml:"docs_read"`
	DocsWritten      int64  `json:"docs_written"       yaml:"docs_written"`
	DocWriteFailures int64  `json:"doc_write_failures" yaml:"doc_write_failures"`
}

// ReplicationResult is the response of POST /_replicate.
type ReplicationResult struct {
	OK            bool                 `json:"ok"                        yaml:"ok"`
	SessionID     string               `json:"session_id,omitempty"     yaml:"session_id,omitempty"`
	SourceLastSeq string               `json:"source_last_seq,omitempty" yaml:"source_last_seq,omitempty"`
	History       []ReplicationHistory `json:"history,omitempty"         yaml:"history,omitempty"`
}

// SchedulerEvent is one entry of a replication job's history.
type SchedulerEvent struct {
	Type      string `json:"type"      yaml:"type"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

// SchedulerJob describes one running replication job.
type SchedulerJob struct {
	ID       string           `json:"id"                 yaml:"id"`
	Database string           `json:"database"           yaml:"database"`
	DocID    string           `json:"doc_id,omitempty"   yaml:"doc_id,omitempty"`
	Source   string           `json:"source"             yaml:"source"`
	Target   string           `json:"target"             yaml:"target"`
	Node     string           `json:"node"               yaml:"node"`
	History  []SchedulerEvent `json:"history,omitempty"  yaml:"history,omitempty"`
}

// SchedulerJobsResult is the response of GET /_scheduler/jobs.
type SchedulerJobsResult struct {
	TotalRows int            `json:"total_rows" yaml:"total_rows"`
	Offset    int            `json:"offset"     yaml:"offset"`
	Jobs      []SchedulerJob `json:"jobs"       yaml:"jobs"`
}

// SchedulerDocument describes the scheduler state of one _replicator doc.
type SchedulerDocument struct {
	Database    string `json:"database"              yaml:"database"`
	DocID       string `json:"doc_id"                yaml:"doc_id"`
	Source      string `json:"source"                yaml:"source"`
	Target      string `json:"target"                yaml:"target"`
	State       string `json:"state"                 yaml:"state"`
	ErrorCount  int    `json:"error_count"           yaml:"error_count"`
	StartTime   string `json:"start_time,omitempty"  yaml:"start_time,omitempty"`
	LastUpdated string `json:"last_updated,omitempty" yaml:"last_updated,omitempty"`
}

// SchedulerDocsResult is the response of GET /_scheduler/docs.
type SchedulerDocsResult struct {
	TotalRows int                 `json:"total_rows" yaml:"total_rows"`
	Offset    int                 `json:"offset"     yaml:"offset"`
	Docs      []SchedulerDocument `json:"docs"       yaml:"docs"`
}

// Names grants a set of users and roles a security class.
type Names struct {
	Names []string `json:"names,omitempty" yaml:"names,omitempty"`
	Roles []string `json:"roles,omitempty" yaml:"roles,omitempty"`
}

// SecurityObject is the body of GET|PUT /{db}/_security.
type SecurityObject struct {
	Admins  Names `json:"admins"  yaml:"admins"`
	Members Names `json:"members" yaml:"members"`
}

// ViewIndexInfo reports the state of a design document's view index.
type ViewIndexInfo struct {
	CompactRunning bool   `json:"compact_running" yaml:"compact_running"`
	Language       string `json:"language"        yaml:"language"`
	Signature      string `json:"signature"       yaml:"signature"`
	Sizes          Sizes  `json:"sizes"           yaml:"sizes"`
	UpdaterRunning bool   `json:"updater_running" yaml:"updater_running"`
	WaitingClients int    `json:"waiting_clients" yaml:"waiting_clients"`
	WaitingCommit  bool   `json:"waiting_commit"  yaml:"waiting_commit"`
}

// DesignInfo is the response of GET /{db}/_design/{ddoc}/_info.
type DesignInfo struct {
	Name      string        `json:"name"       yaml:"name"`
	ViewIndex ViewIndexInfo `json:"view_index" yaml:"view_index"`
}
