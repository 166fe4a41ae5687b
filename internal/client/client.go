// Package client talks to the expense API on behalf of expensectl.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL = "http://localhost:4000/api"

	// maxPageLimit is the largest page the API serves.
	maxPageLimit   = 100
	requestTimeout = 30 * time.Second
)

// Expense mirrors the API's expense JSON.
type Expense struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
	Note      string          `json:"note"`
	Currency  string          `json:"currency"`
	Category  string          `json:"category"`
	UserID    string          `json:"userId"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ExpenseInput is the body for create and update. Nil fields are omitted; on
// update they are left unchanged by the server.
type ExpenseInput struct {
	Amount   *decimal.Decimal
	Date     *string
	Note     *string
	Currency *string
	Category *string
}

type expenseBody struct {
	Amount   json.Number `json:"amount,omitempty"`
	Date     *string     `json:"date,omitempty"`
	Note     *string     `json:"note,omitempty"`
	Currency *string     `json:"currency,omitempty"`
	Category *string     `json:"category,omitempty"`
}

func (in ExpenseInput) MarshalJSON() ([]byte, error) {
	body := expenseBody{
		Date:     in.Date,
		Note:     in.Note,
		Currency: in.Currency,
		Category: in.Category,
	}
	if in.Amount != nil {
		body.Amount = json.Number(in.Amount.String())
	}
	return json.Marshal(body)
}

// ListQuery holds the list and export filters. Zero values are not sent.
type ListQuery struct {
	Category  string
	StartDate string
	EndDate   string
	Page      int
	Limit     int
}

func (q ListQuery) values() url.Values {
	values := url.Values{}
	if q.Category != "" {
		values.Set("category", q.Category)
	}
	if q.StartDate != "" {
		values.Set("startDate", q.StartDate)
	}
	if q.EndDate != "" {
		values.Set("endDate", q.EndDate)
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	return values
}

type Meta struct {
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	Limit       int   `json:"limit"`
}

type Page struct {
	Data []Expense `json:"data"`
	Meta Meta      `json:"meta"`
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int           `json:"-"`
	Code    string        `json:"error"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details"`
}

type ErrorDetail struct {
	Location string `json:"location"`
	Message  string `json:"message"`
	Value    any    `json:"value,omitempty"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		parts = append(parts, fmt.Sprintf("%s: %s", d.Location, d.Message))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s (%d %s)", msg, e.Status, e.Code)
	}
	return fmt.Sprintf("%s (%d %s): %s", msg, e.Status, e.Code, strings.Join(parts, "; "))
}

// IsNotFound reports whether err is the API's not-found answer.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsUnauthorized reports whether err is the API rejecting the token.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func New(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: requestTimeout},
	}
}

func (c *Client) Create(ctx context.Context, in ExpenseInput) (*Expense, error) {
	var out Expense
	if err := c.do(ctx, http.MethodPost, "/expenses", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) List(ctx context.Context, q ListQuery) (*Page, error) {
	var out Page
	if err := c.do(ctx, http.MethodGet, "/expenses", q.values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAll walks every page of the filtered result set.
func (c *Client) ListAll(ctx context.Context, q ListQuery) ([]Expense, error) {
	q.Page = 1
	q.Limit = maxPageLimit

	var all []Expense
	for {
		page, err := c.List(ctx, q)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Data...)
		if len(page.Data) == 0 || q.Page >= page.Meta.TotalPages {
			return all, nil
		}
		q.Page++
	}
}

func (c *Client) Update(ctx context.Context, id string, in ExpenseInput) (*Expense, error) {
	var out Expense
	if err := c.do(ctx, http.MethodPut, "/expenses/"+url.PathEscape(id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	var out struct {
		Success bool `json:"success"`
	}
	return c.do(ctx, http.MethodDelete, "/expenses/"+url.PathEscape(id), nil, nil, &out)
}

// Export downloads the filtered expenses as format ("csv" or "xlsx") and
// returns the content with the server-suggested filename.
func (c *Client) Export(ctx context.Context, q ListQuery, format string) ([]byte, string, error) {
	q.Page, q.Limit = 0, 0
	values := q.values()
	values.Set("format", format)

	resp, err := c.send(ctx, http.MethodGet, "/expenses/export", values, nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read export: %w", err)
	}

	filename := "expenses." + format
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		filename = params["filename"]
	}
	return data, filename, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	resp, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// send performs the request and turns non-2xx answers into *APIError.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Response, error) {
	target := c.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return resp, nil
	}
	defer resp.Body.Close()

	apiErr := &APIError{Status: resp.StatusCode}
	_ = json.NewDecoder(resp.Body).Decode(apiErr)
	return nil, apiErr
}
