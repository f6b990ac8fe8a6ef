package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/docstore-io/couch-client/internal/constants"
	"github.com/docstore-io/couch-client/pkg/couchdb"
)

// Static errors for err113 compliance.
var errNoSessionCookie = errors.New("server returned no AuthSession cookie")

// CookieAuthenticator obtains an AuthSession cookie from POST /_session and
// renews it shortly before it expires. The session request itself is the only
// time the password travels on the wire.
type CookieAuthenticator struct {
	serverURL string
	username  string
	password  string
	client    *http.Client

	mu      sync.Mutex
	cookie  *http.Cookie
	expires time.Time
}

// NewCookieAuthenticator creates a cookie-session authenticator. The
// httpClient is used only for session requests; nil uses a default client.
func NewCookieAuthenticator(serverURL, username, password string, httpClient *http.Client) *CookieAuthenticator {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.DefaultTimeout}
	}

	return &CookieAuthenticator{
		serverURL: serverURL,
		username:  username,
		password:  password,
		client:    httpClient,
	}
}

// Authenticate implements Authenticator. It attaches a live session cookie,
// obtaining or renewing one as needed.
func (a *CookieAuthenticator) Authenticate(ctx context.Context, req *http.Request) error {
	cookie, err := a.session(ctx)
	if err != nil {
		return err
	}

	req.AddCookie(cookie)

	return nil
}

// Renew discards the current cookie so the next request establishes a fresh
// session. Used after a 401 on a previously working session.
func (a *CookieAuthenticator) Renew() {
	a.mu.Lock()
	a.cookie = nil
	a.mu.Unlock()
}

func (a *CookieAuthenticator) session(ctx context.Context) (*http.Cookie, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cookie != nil && time.Now().Before(a.expires.Add(-constants.SessionRenewSkew)) {
		return a.cookie, nil
	}

	body, err := json.Marshal(map[string]string{
		"name":     a.username,
		"password": a.password,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding session request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.serverURL+"/_session", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating session request: %w", err)
	}

	req.Header.Set("Content-Type", constants.ContentTypeJSON)
	req.Header.Set("Accept", constants.ContentTypeJSON)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("establishing session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)

		return nil, couchdb.ParseServerError(resp.StatusCode, data)
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == "AuthSession" {
			a.cookie = cookie
			a.expires = cookieExpiry(cookie)

			return a.cookie, nil
		}
	}

	return nil, fmt.Errorf("establishing session: %w", errNoSessionCookie)
}

// cookieExpiry derives the renewal deadline from the cookie, falling back to
// the server's default session timeout when the cookie is a session cookie.
func cookieExpiry(cookie *http.Cookie) time.Time {
	if cookie.MaxAge > 0 {
		return time.Now().Add(time.Duration(cookie.MaxAge) * time.Second)
	}

	if !cookie.Expires.IsZero() {
		return cookie.Expires
	}

	return time.Now().Add(constants.DefaultSessionTimeout)
}
