package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/terra-clan/travel-catalog/internal/models"
)

// Client is a Go SDK for the travel-catalog API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new travel-catalog client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError is an error envelope returned by the server
type APIError struct {
	Status  int               `json:"-"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %s - %s", e.Code, e.Message)
}

// Carousel is the testimonial carousel position of a view
type Carousel struct {
	Index int    `json:"index"`
	Count int    `json:"count"`
	State string `json:"state"`
}

// ViewState is the filtered and sorted projection of a view
type ViewState struct {
	ID          string               `json:"id"`
	Catalog     string               `json:"catalog"`
	Criteria    ItemFilter           `json:"criteria"`
	Sort        string               `json:"sort"`
	Items       []models.CatalogItem `json:"items"`
	Total       int                  `json:"total"`
	Carousel    Carousel             `json:"carousel"`
	Testimonial *models.Testimonial  `json:"testimonial,omitempty"`
	Version     uint64               `json:"version"`
	Closed      bool                 `json:"closed,omitempty"`
}

// View is a registered view and its current state
type View struct {
	ID        string    `json:"id"`
	Catalog   string    `json:"catalog"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	State     ViewState `json:"-"`
}

// ItemFilter selects items of a catalog
type ItemFilter struct {
	Category string `json:"category,omitempty"`
	Tier     string `json:"tier,omitempty"`
	Season   string `json:"season,omitempty"`
	Activity string `json:"activity,omitempty"`
	Query    string `json:"query,omitempty"`
}

// ItemDetail is an item with its detail-page text
type ItemDetail struct {
	models.CatalogItem
	Detail string `json:"detail"`
}

// Routes lists the site's navigable routes
func (c *Client) Routes(ctx context.Context) ([]models.Route, error) {
	var data struct {
		Routes []models.Route `json:"routes"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/v1/routes", nil, &data); err != nil {
		return nil, err
	}
	return data.Routes, nil
}

// Page retrieves a static page document such as "about"
func (c *Client) Page(ctx context.Context, name string) (map[string]any, error) {
	var page map[string]any
	if err := c.call(ctx, http.MethodGet, "/api/v1/pages/"+url.PathEscape(name), nil, &page); err != nil {
		return nil, err
	}
	return page, nil
}

// ListCatalogs retrieves all loaded catalogs
func (c *Client) ListCatalogs(ctx context.Context) ([]models.CatalogSummary, error) {
	var data struct {
		Catalogs []models.CatalogSummary `json:"catalogs"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/v1/catalogs", nil, &data); err != nil {
		return nil, err
	}
	return data.Catalogs, nil
}

// ListItems retrieves the filtered items of a catalog in the given order
func (c *Client) ListItems(ctx context.Context, catalog string, filter ItemFilter, sort string) ([]models.CatalogItem, error) {
	q := url.Values{}
	for key, value := range map[string]string{
		"category": filter.Category,
		"tier":     filter.Tier,
		"season":   filter.Season,
		"activity": filter.Activity,
		"q":        filter.Query,
		"sort":     sort,
	} {
		if value != "" {
			q.Set(key, value)
		}
	}

	path := fmt.Sprintf("/api/v1/catalogs/%s/items", url.PathEscape(catalog))
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var data struct {
		Items []models.CatalogItem `json:"items"`
	}
	if err := c.call(ctx, http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}
	return data.Items, nil
}

// GetItem retrieves a single item by ID
func (c *Client) GetItem(ctx context.Context, catalog string, id int) (*ItemDetail, error) {
	var item ItemDetail
	path := fmt.Sprintf("/api/v1/catalogs/%s/items/%d", url.PathEscape(catalog), id)
	if err := c.call(ctx, http.MethodGet, path, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Spotlight retrieves the featured item of a catalog
func (c *Client) Spotlight(ctx context.Context, catalog string) (*ItemDetail, error) {
	var data struct {
		Item ItemDetail `json:"item"`
	}
	path := fmt.Sprintf("/api/v1/catalogs/%s/spotlight", url.PathEscape(catalog))
	if err := c.call(ctx, http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}
	return &data.Item, nil
}

// CreateView opens a new view over a catalog
func (c *Client) CreateView(ctx context.Context, catalog string) (*View, error) {
	return c.view(ctx, http.MethodPost, "/api/v1/views", map[string]string{"catalog": catalog})
}

// GetView retrieves a view and its current state
func (c *Client) GetView(ctx context.Context, id string) (*View, error) {
	return c.view(ctx, http.MethodGet, "/api/v1/views/"+url.PathEscape(id), nil)
}

// DeleteView closes a view
func (c *Client) DeleteView(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/v1/views/"+url.PathEscape(id), nil, nil)
}

// Select toggles a filter value on a view
func (c *Client) Select(ctx context.Context, id, dimension, value string) (*ViewState, error) {
	return c.viewAction(ctx, id, "select", map[string]string{"dimension": dimension, "value": value})
}

// Query sets the free-text query of a view
func (c *Client) Query(ctx context.Context, id, query string) (*ViewState, error) {
	return c.viewAction(ctx, id, "query", map[string]string{"query": query})
}

// Sort changes the sort key of a view
func (c *Client) Sort(ctx context.Context, id, sort string) (*ViewState, error) {
	return c.viewAction(ctx, id, "sort", map[string]string{"sort": sort})
}

// Reset clears every filter and restores the default sort
func (c *Client) Reset(ctx context.Context, id string) (*ViewState, error) {
	return c.viewAction(ctx, id, "reset", nil)
}

// Carousel moves the testimonial carousel: next, prev or goto index
func (c *Client) Carousel(ctx context.Context, id, action string, index int) (*ViewState, error) {
	return c.viewAction(ctx, id, "carousel", map[string]any{"action": action, "index": index})
}

// SubmitForm submits a form as JSON. Field errors are reported as *APIError.
func (c *Client) SubmitForm(ctx context.Context, form string, payload any) (*models.SubmissionResponse, error) {
	var resp models.SubmissionResponse
	if err := c.call(ctx, http.MethodPost, "/api/v1/forms/"+url.PathEscape(form), payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health checks if the service is healthy
func (c *Client) Health(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) view(ctx context.Context, method, path string, payload any) (*View, error) {
	var data struct {
		View  View      `json:"view"`
		State ViewState `json:"state"`
	}
	if err := c.call(ctx, method, path, payload, &data); err != nil {
		return nil, err
	}
	data.View.State = data.State
	return &data.View, nil
}

func (c *Client) viewAction(ctx context.Context, id, action string, payload any) (*ViewState, error) {
	var state ViewState
	path := fmt.Sprintf("/api/v1/views/%s/%s", url.PathEscape(id), action)
	if err := c.call(ctx, http.MethodPost, path, payload, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// call performs a request and decodes the data of the response envelope into out
func (c *Client) call(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	status, resp, err := c.doRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	var result struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *APIError       `json:"error"`
	}

	if err := json.Unmarshal(resp, &result); err != nil {
		return fmt.Errorf("HTTP %d: failed to unmarshal response: %w", status, err)
	}

	if !result.Success {
		if result.Error == nil {
			return &APIError{Status: status, Code: "unknown", Message: http.StatusText(status)}
		}
		result.Error.Status = status
		return result.Error
	}

	if out == nil || len(result.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(result.Data, out); err != nil {
		return fmt.Errorf("failed to unmarshal response data: %w", err)
	}
	return nil
}

// doRequest performs an HTTP request
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, respBody, nil
}
