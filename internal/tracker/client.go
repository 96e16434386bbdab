// Package tracker integrates with the ClickUp task tracker: a thin REST
// client plus the status label tables used to gate outbound updates.
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Stable machine-readable error codes for tracker failures.
const (
	CodeTaskNotFound    = "TASK_NOT_FOUND"
	CodeHTTPError       = "HTTP_ERROR"
	CodeUnexpectedError = "UNEXPECTED_ERROR"
)

// TrackerError is the single error type for all tracker failures.
type TrackerError struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *TrackerError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("tracker: [%s, status %d]: %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("tracker: [%s]: %s", e.Code, e.Message)
}

// TaskStatus is the workflow position the tracker reports for a task.
type TaskStatus struct {
	Status string `json:"status"`
	Color  string `json:"color"`
}

// Task is the subset of the tracker's task payload the back office reads.
type Task struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Status TaskStatus `json:"status"`
	List   struct {
		ID string `json:"id"`
	} `json:"list"`
	URL string `json:"url"`
}

// List describes a tracker list and the workflow labels available on it.
type List struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Statuses []TaskStatus `json:"statuses"`
}

// Client is a stateless REST client for the tracker API. Calls share a
// fixed timeout; the tracker's convention sends the raw token in the
// Authorization header, without a Bearer prefix.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient builds a tracker client. The token is required.
func NewClient(token, baseURL string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("tracker: token is required")
	}
	if baseURL == "" {
		baseURL = "https://api.clickup.com/api/v2"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// GetTask fetches a task, including its currently reported status label.
func (c *Client) GetTask(ctx context.Context, taskID string) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodGet, "/task/"+taskID, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetList fetches a list and the workflow labels it offers.
func (c *Client) GetList(ctx context.Context, listID string) (*List, error) {
	var list List
	if err := c.do(ctx, http.MethodGet, "/list/"+listID, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// UpdateTaskStatus pushes a new status label to a task.
func (c *Client) UpdateTaskStatus(ctx context.Context, taskID, label string) error {
	body := map[string]string{"status": label}
	return c.do(ctx, http.MethodPut, "/task/"+taskID, body, nil)
}

// do performs one request and decodes a JSON response into out when out is
// non-nil. Non-2xx responses and transport failures come back as
// *TrackerError.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &TrackerError{Code: CodeUnexpectedError, Message: fmt.Sprintf("marshal request: %v", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &TrackerError{Code: CodeUnexpectedError, Message: err.Error()}
	}
	req.Header.Set("Authorization", c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TrackerError{Code: CodeUnexpectedError, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		code := CodeHTTPError
		if resp.StatusCode == http.StatusNotFound {
			code = CodeTaskNotFound
		}
		return &TrackerError{
			Code:       code,
			Message:    fmt.Sprintf("%s %s: %s", method, path, strings.TrimSpace(string(msg))),
			StatusCode: resp.StatusCode,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TrackerError{Code: CodeUnexpectedError, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}
