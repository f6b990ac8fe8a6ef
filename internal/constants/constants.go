package constants

import "time"

// Version is the SDK version reported in the default User-Agent.
const Version = "0.3.0"

// DefaultUserAgent identifies the SDK on the wire.
const DefaultUserAgent = "couch-client/" + Version

// HTTP defaults.
const (
	// DefaultTimeout bounds a single request attempt.
	DefaultTimeout = 30 * time.Second

	// DefaultRetryMax is the default number of retries for retriable
	// failures (5xx, 429, connection errors).
	DefaultRetryMax = 2

	// DefaultRetryWaitMin is the initial retry backoff.
	DefaultRetryWaitMin = 500 * time.Millisecond

	// DefaultRetryWaitMax caps the retry backoff.
	DefaultRetryWaitMax = 10 * time.Second
)

// Session cookie handling.
const (
	// DefaultSessionTimeout matches the server's default
	// couch_httpd_auth/timeout when the cookie carries no expiry.
	DefaultSessionTimeout = 10 * time.Minute

	// SessionRenewSkew renews the session cookie this long before it
	// expires so in-flight requests never race expiry.
	SessionRenewSkew = 1 * time.Minute
)

// Content types.
const (
	ContentTypeJSON = "application/json"
)

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)
