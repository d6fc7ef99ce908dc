// Package client implements the REST and WebSocket transport for the chat
// backend. It is the only package that knows about HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/parlor/internal/chat"
	"github.com/hay-kot/parlor/internal/store/jsonfile"
)

const (
	apiPrefix         = "/api/v1"
	sessionCookieName = "session_id"
)

// Options configures the client.
type Options struct {
	// Timeout bounds each REST call at the transport level.
	Timeout time.Duration

	// HistoryLimit is the snapshot size requested from the messages
	// endpoint. Zero uses the server default.
	HistoryLimit int

	// State, when set, persists the session cookie across invocations.
	State *jsonfile.StateStore

	Logger zerolog.Logger
}

// Client talks to an OpenChatRoom-style backend. Session credentials live in
// a cookie jar, optionally persisted through the state store so the TUI and
// one-shot commands share a login.
type Client struct {
	base         *url.URL
	http         *http.Client
	jar          *cookiejar.Jar
	state        *jsonfile.StateStore
	historyLimit int
	log          zerolog.Logger
}

// Ensure Client satisfies the chat core's API contract.
var _ chat.API = (*Client)(nil)

// New creates a client for the given server base URL, seeding the cookie jar
// from persisted state when available.
func New(server string, opts Options) (*Client, error) {
	base, err := url.Parse(server)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	c := &Client{
		base: base,
		http: &http.Client{
			Jar:     jar,
			Timeout: opts.Timeout,
		},
		jar:          jar,
		state:        opts.State,
		historyLimit: opts.HistoryLimit,
		log:          opts.Logger,
	}

	if c.state != nil {
		state, err := c.state.Load()
		if err != nil {
			return nil, fmt.Errorf("load client state: %w", err)
		}
		if state.SessionCookie != "" {
			c.setSessionCookie(state.SessionCookie)
		}
	}

	return c, nil
}

// ProbeSession checks whether the persisted cookie still maps to a live
// session. 401/404 means "no session", not an error.
func (c *Client) ProbeSession(ctx context.Context) (*chat.Identity, error) {
	resp, err := c.do(ctx, http.MethodGet, "/session/me", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err := checkStatus("probe session", resp); err != nil {
		return nil, err
	}

	var id chat.Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return nil, fmt.Errorf("decode identity: %w", err)
	}
	return &id, nil
}

// StartSession creates or resumes the identity for the given name. The
// server replies with a Set-Cookie the jar captures; the cookie value is
// persisted so later invocations stay logged in.
func (c *Client) StartSession(ctx context.Context, name string) (chat.Identity, error) {
	resp, err := c.do(ctx, http.MethodPost, "/session/start", map[string]any{"name": name})
	if err != nil {
		return chat.Identity{}, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if err := checkStatus("start session", resp); err != nil {
		return chat.Identity{}, err
	}

	var id chat.Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return chat.Identity{}, fmt.Errorf("decode identity: %w", err)
	}

	c.persistSessionCookie()
	return id, nil
}

// EndSession forgets the session credentials locally. The backend has no
// logout endpoint; dropping the cookie is the whole operation.
func (c *Client) EndSession() error {
	c.setSessionCookie("")
	if c.state != nil {
		return c.state.SetCookie("")
	}
	return nil
}

// MyFeed returns the joined rooms feed.
func (c *Client) MyFeed(ctx context.Context) ([]chat.Room, error) {
	var rooms []chat.Room
	if err := c.getJSON(ctx, "/feed/my", "fetch my feed", &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// PublicFeed returns the discoverable rooms feed.
func (c *Client) PublicFeed(ctx context.Context) ([]chat.Room, error) {
	var rooms []chat.Room
	if err := c.getJSON(ctx, "/feed/public", "fetch public feed", &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// CreateRoom submits a new room.
func (c *Client) CreateRoom(ctx context.Context, name string, public bool) (chat.Room, error) {
	resp, err := c.do(ctx, http.MethodPost, "/rooms", map[string]any{
		"name":      name,
		"is_public": public,
	})
	if err != nil {
		return chat.Room{}, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if err := checkStatus("create room", resp); err != nil {
		return chat.Room{}, err
	}

	var room chat.Room
	if err := json.NewDecoder(resp.Body).Decode(&room); err != nil {
		return chat.Room{}, fmt.Errorf("decode room: %w", err)
	}
	return room, nil
}

// JoinRoom issues a membership request for a public room.
func (c *Client) JoinRoom(ctx context.Context, roomID int64) error {
	return c.post(ctx, fmt.Sprintf("/rooms/%d/join", roomID), "join room")
}

// LeaveRoom removes the membership.
func (c *Client) LeaveRoom(ctx context.Context, roomID int64) error {
	return c.post(ctx, fmt.Sprintf("/rooms/%d/leave", roomID), "leave room")
}

// DeleteRoom deletes an owned room.
func (c *Client) DeleteRoom(ctx context.Context, roomID int64) error {
	resp, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/rooms/%d", roomID), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck
	return checkStatus("delete room", resp)
}

// RoomMessages returns the most recent history slice, newest-first as the
// backend serves it. Reversal is the chat core's job.
func (c *Client) RoomMessages(ctx context.Context, roomID int64) ([]chat.Message, error) {
	path := fmt.Sprintf("/rooms/%d/messages", roomID)
	if c.historyLimit > 0 {
		path += "?limit=" + strconv.Itoa(c.historyLimit)
	}
	var messages []chat.Message
	if err := c.getJSON(ctx, path, "fetch messages", &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// RoomMembers returns the member roster.
func (c *Client) RoomMembers(ctx context.Context, roomID int64) ([]chat.Member, error) {
	var members []chat.Member
	if err := c.getJSON(ctx, fmt.Sprintf("/rooms/%d/members", roomID), "fetch members", &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (c *Client) getJSON(ctx context.Context, path, op string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	if err := checkStatus(op, resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path, op string) error {
	resp, err := c.do(ctx, http.MethodPost, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck
	return checkStatus(op, resp)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL(path), reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Trace().Str("method", method).Str("path", path).Msg("rest call")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &chat.ConnectionError{Op: method + " " + path, Err: err}
	}
	return resp, nil
}

func (c *Client) apiURL(path string) string {
	u := *c.base
	u.Path = apiPrefix + path
	if i := strings.IndexByte(path, '?'); i >= 0 {
		u.Path = apiPrefix + path[:i]
		u.RawQuery = path[i+1:]
	}
	return u.String()
}

// setSessionCookie installs (or clears) the session cookie in the jar for
// the configured base URL.
func (c *Client) setSessionCookie(value string) {
	cookie := &http.Cookie{Name: sessionCookieName, Value: value, Path: "/"}
	if value == "" {
		cookie.MaxAge = -1
	}
	c.jar.SetCookies(c.base, []*http.Cookie{cookie})
}

// persistSessionCookie copies the jar's session cookie into the state store.
func (c *Client) persistSessionCookie() {
	if c.state == nil {
		return
	}
	for _, cookie := range c.jar.Cookies(c.base) {
		if cookie.Name == sessionCookieName {
			if err := c.state.SetCookie(cookie.Value); err != nil {
				c.log.Warn().Err(err).Msg("persisting session cookie")
			}
			return
		}
	}
}

// checkStatus maps a non-2xx response to a ConnectionError carrying the
// status code. The body is drained so the connection can be reused.
func checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	return &chat.ConnectionError{Op: op, Status: resp.StatusCode}
}
