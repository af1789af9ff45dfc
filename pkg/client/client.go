// Package client is a Go client for the company management REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrNotLoggedIn = errors.New("client: not logged in")

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	IsActive bool   `json:"isActive"`
}

type Company struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	IsActive     bool   `json:"isActive"`
	TotalCredits int64  `json:"totalCredits"`
	UsedCredits  int64  `json:"usedCredits"`
}

type Task struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Status       string  `json:"status"`
	Priority     string  `json:"priority"`
	CompanyID    string  `json:"companyId"`
	AssignedToID *string `json:"assignedToId,omitempty"`
	DepartmentID *string `json:"departmentId,omitempty"`
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	Store   SessionStore
	Logger  *slog.Logger
}

type Client struct {
	baseURL string
	http    *http.Client
	store   SessionStore
	logger  *slog.Logger
	now     func() time.Time
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	store := cfg.Store
	if store == nil {
		store = &MemoryStore{}
	}
	lg := cfg.Logger
	if lg == nil {
		lg = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		store:   store,
		logger:  lg,
		now:     time.Now,
	}
}

// Session returns the stored session, or nil when logged out.
func (c *Client) Session() (*Session, error) {
	return c.store.Load()
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var result struct {
		User  *User `json:"user"`
		Token struct {
			IDToken   string    `json:"idToken"`
			ExpiresAt time.Time `json:"expiresAt"`
		} `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &result); err != nil {
		return nil, err
	}

	session := &Session{
		IDToken:   result.Token.IDToken,
		ExpiresAt: result.Token.ExpiresAt,
		User:      result.User,
	}
	if err := c.store.Save(session); err != nil {
		return nil, err
	}
	c.logger.Debug("logged in", "email", email)
	return session, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.authed(ctx, http.MethodGet, "/api/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Companies(ctx context.Context) ([]Company, error) {
	var out []Company
	if err := c.authed(ctx, http.MethodGet, "/api/companies", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Tasks(ctx context.Context, companyID string) ([]Task, error) {
	path := "/api/tasks"
	if companyID != "" {
		path += "?" + url.Values{"companyId": {companyID}}.Encode()
	}
	var out []Task
	if err := c.authed(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Logout tells the server and then drops the local session no matter what
// the server answered. The server error, if any, is still returned.
func (c *Client) Logout(ctx context.Context) error {
	var serverErr error
	session, err := c.store.Load()
	if err != nil {
		serverErr = err
	} else if session != nil && session.IDToken != "" {
		serverErr = c.do(ctx, http.MethodPost, "/api/auth/logout", session.IDToken, nil, nil)
		if serverErr != nil {
			c.logger.Warn("server logout failed, clearing local session anyway", "error", serverErr)
		}
	}

	if err := c.store.Clear(); err != nil {
		return errors.Join(serverErr, err)
	}
	return serverErr
}

func (c *Client) authed(ctx context.Context, method, path string, in, out interface{}) error {
	session, err := c.store.Load()
	if err != nil {
		return err
	}
	if session.Expired(c.now()) {
		return ErrNotLoggedIn
	}
	return c.do(ctx, method, path, session.IDToken, in, out)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		if resp.StatusCode >= http.StatusBadRequest {
			return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg, Code: env.Code}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}
