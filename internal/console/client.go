package console

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"licensedesk/entity"
	"licensedesk/lib/api/response"
	"licensedesk/lib/sl"
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api %d: %s", e.Status, e.Message)
}

type ClientConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client talks to the backend /api surface. It never retries: reads are retried by
// the next poller tick, and create-licenses or send-message must not be repeated blindly.
type Client struct {
	hc      *http.Client
	baseURL string
	token   string
	log     *slog.Logger
}

func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		hc:      &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		log:     logger.With(sl.Module("console.client")),
	}
}

// request sends one call and decodes the envelope's data into out when out is not nil.
func (c *Client) request(ctx context.Context, method, path string, query url.Values, payload, out interface{}) error {
	log := c.log.With(
		slog.String("method", method),
		slog.String("path", path),
	)

	status := "ERROR"
	t1 := time.Now()
	defer func() {
		log.Debug("api request completed", sl.Elapsed(t1), slog.String("status", status))
	}()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	status = resp.Status

	var envelope response.Raw
	decodeErr := json.Unmarshal(raw, &envelope)

	if resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(raw))
		if decodeErr == nil && envelope.StatusMessage != "" {
			msg = envelope.StatusMessage
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}
	if !envelope.Success {
		return &APIError{Status: resp.StatusCode, Message: envelope.StatusMessage}
	}
	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err = json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func list[T any](ctx context.Context, c *Client, col Collection) ([]T, error) {
	var items []T
	if err := c.request(ctx, http.MethodGet, col.path(), nil, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c *Client) Users(ctx context.Context) ([]entity.User, error) {
	return list[entity.User](ctx, c, Users)
}

func (c *Client) Licenses(ctx context.Context) ([]entity.License, error) {
	return list[entity.License](ctx, c, Licenses)
}

func (c *Client) Tickets(ctx context.Context) ([]entity.Ticket, error) {
	return list[entity.Ticket](ctx, c, Tickets)
}

func (c *Client) Activities(ctx context.Context) ([]entity.ActivityLogEntry, error) {
	return list[entity.ActivityLogEntry](ctx, c, Activities)
}

func (c *Client) Executions(ctx context.Context) ([]entity.ExecutionRecord, error) {
	return list[entity.ExecutionRecord](ctx, c, Executions)
}

func (c *Client) Accounts(ctx context.Context) ([]entity.Account, error) {
	return list[entity.Account](ctx, c, Accounts)
}

func (c *Client) CreateLicenses(ctx context.Context, req entity.CreateLicensesRequest) ([]entity.License, error) {
	var created []entity.License
	err := c.request(ctx, http.MethodPost, "/admin/create-licenses", nil, req, &created)
	return created, err
}

func (c *Client) UserAction(ctx context.Context, req entity.UserActionRequest) (*entity.User, error) {
	var user entity.User
	if err := c.request(ctx, http.MethodPost, "/admin/user-action", nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.request(ctx, http.MethodDelete, "/admin/user/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) RespondTicket(ctx context.Context, id, text string) (*entity.Ticket, error) {
	q := url.Values{}
	q.Set("response", text)
	var ticket entity.Ticket
	if err := c.request(ctx, http.MethodPost, "/admin/respond-ticket/"+url.PathEscape(id), q, nil, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (c *Client) DeleteTicket(ctx context.Context, id string) error {
	return c.request(ctx, http.MethodDelete, "/admin/ticket/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) ClearLogs(ctx context.Context, kind entity.LogKind) error {
	return c.request(ctx, http.MethodDelete, "/admin/clear-logs/"+url.PathEscape(string(kind)), nil, nil, nil)
}

func (c *Client) AddCredits(ctx context.Context, req entity.AddCreditsRequest) (*entity.User, error) {
	var user entity.User
	if err := c.request(ctx, http.MethodPost, "/admin/add-credits", nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) SendMessage(ctx context.Context, telegramID int64, text string) error {
	q := url.Values{}
	q.Set("telegram_id", strconv.FormatInt(telegramID, 10))
	q.Set("message", text)
	return c.request(ctx, http.MethodPost, "/admin/send-message", q, nil, nil)
}
