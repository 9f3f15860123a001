package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/alfredjeanlab/cinemap/internal/model"
)

// HTTPClient implements GraphClient using the cinemap HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// resultBody mirrors model.Result on the wire.
type resultBody struct {
	Success    bool              `json:"success"`
	Node       *model.Node       `json:"node,omitempty"`
	Connection *model.Connection `json:"connection,omitempty"`
}

type nodeList struct {
	Nodes []model.Node `json:"nodes"`
}

type connectionList struct {
	Connections []model.Connection `json:"connections"`
}

func nodePath(id string, rest ...string) string {
	p := "/v1/nodes/" + url.PathEscape(id)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}

// --- Nodes ---

func (c *HTTPClient) ListNodes(ctx context.Context, view string) ([]model.Node, error) {
	path := "/v1/nodes"
	if view != "" && view != ViewAll {
		path += "?" + url.Values{"view": {view}}.Encode()
	}
	var resp nodeList
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Nodes, nil
}

func (c *HTTPClient) GetNode(ctx context.Context, id string) (*NodeDetail, error) {
	var d NodeDetail
	if err := c.doJSON(ctx, http.MethodGet, nodePath(id), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *HTTPClient) AddNode(ctx context.Context, in model.NodeInput) (model.Node, error) {
	var res resultBody
	if err := c.doJSON(ctx, http.MethodPost, "/v1/nodes", in, &res); err != nil {
		return model.Node{}, err
	}
	if res.Node == nil {
		return model.Node{}, fmt.Errorf("add node: response carried no node")
	}
	return *res.Node, nil
}

func (c *HTTPClient) UpdateNode(ctx context.Context, id string, u model.NodeUpdate) (model.Node, error) {
	var res resultBody
	if err := c.doJSON(ctx, http.MethodPatch, nodePath(id), u, &res); err != nil {
		return model.Node{}, err
	}
	if res.Node == nil {
		return model.Node{}, fmt.Errorf("update node: response carried no node")
	}
	return *res.Node, nil
}

func (c *HTTPClient) UpdateNodeNotes(ctx context.Context, id, text string) error {
	return c.doJSON(ctx, http.MethodPut, nodePath(id, "note"), map[string]string{"text": text}, nil)
}

func (c *HTTPClient) DeleteNode(ctx context.Context, id string) ([]string, error) {
	var resp struct {
		RemovedConnections []string `json:"removedConnections"`
	}
	if err := c.doJSON(ctx, http.MethodDelete, nodePath(id), nil, &resp); err != nil {
		return nil, err
	}
	return resp.RemovedConnections, nil
}

func (c *HTTPClient) ConnectionsForNode(ctx context.Context, id string) ([]model.Connection, error) {
	var resp connectionList
	if err := c.doJSON(ctx, http.MethodGet, nodePath(id, "connections"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Connections, nil
}

// --- Connections ---

func (c *HTTPClient) ListConnections(ctx context.Context, resolved bool) ([]model.Connection, error) {
	path := "/v1/connections"
	if resolved {
		path += "?resolved=true"
	}
	var resp connectionList
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Connections, nil
}

func (c *HTTPClient) AddConnection(ctx context.Context, in model.ConnectionInput) (model.Connection, error) {
	var res resultBody
	if err := c.doJSON(ctx, http.MethodPost, "/v1/connections", in, &res); err != nil {
		return model.Connection{}, err
	}
	if res.Connection == nil {
		return model.Connection{}, fmt.Errorf("add connection: response carried no connection")
	}
	return *res.Connection, nil
}

func (c *HTTPClient) DeleteConnection(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/connections/"+url.PathEscape(id), nil, nil)
}

// --- View state ---

func (c *HTTPClient) Mode(ctx context.Context) (*ModeStatus, error) {
	var st ModeStatus
	if err := c.doJSON(ctx, http.MethodGet, "/v1/mode", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *HTTPClient) SetMode(ctx context.Context, mode model.Mode) (*ModeStatus, error) {
	var st ModeStatus
	if err := c.doJSON(ctx, http.MethodPut, "/v1/mode", map[string]model.Mode{"mode": mode}, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *HTTPClient) SelectNode(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodPut, "/v1/selection", map[string]string{"nodeId": id}, nil)
}

func (c *HTTPClient) DeselectNode(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/selection", nil, nil)
}

func (c *HTTPClient) Filters(ctx context.Context) (model.Filters, error) {
	var f model.Filters
	err := c.doJSON(ctx, http.MethodGet, "/v1/filters", nil, &f)
	return f, err
}

func (c *HTTPClient) SetFilter(ctx context.Context, key model.FilterKey, value string) (model.Filters, error) {
	var f model.Filters
	err := c.doJSON(ctx, http.MethodPut, "/v1/filters/"+url.PathEscape(string(key)), map[string]string{"value": value}, &f)
	return f, err
}

func (c *HTTPClient) ClearFilters(ctx context.Context) (model.Filters, error) {
	var f model.Filters
	err := c.doJSON(ctx, http.MethodDelete, "/v1/filters", nil, &f)
	return f, err
}

func (c *HTTPClient) ToggleGroup(ctx context.Context, id string) (bool, error) {
	var resp struct {
		Expanded bool `json:"expanded"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/groups/"+url.PathEscape(id)+"/toggle", nil, &resp); err != nil {
		return false, err
	}
	return resp.Expanded, nil
}

func (c *HTTPClient) Reset(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/reset", nil, nil)
}

// --- Whole graph ---

func (c *HTTPClient) State(ctx context.Context) (model.State, error) {
	var st model.State
	err := c.doJSON(ctx, http.MethodGet, "/v1/state", nil, &st)
	return st, err
}

func (c *HTTPClient) Graph(ctx context.Context) (*GraphView, error) {
	var g GraphView
	if err := c.doJSON(ctx, http.MethodGet, "/v1/graph", nil, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *HTTPClient) Export(ctx context.Context, w io.Writer) error {
	resp, err := c.do(ctx, http.MethodGet, "/v1/export", "", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("reading export: %w", err)
	}
	return nil
}

func (c *HTTPClient) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	resp, err := c.do(ctx, http.MethodPost, "/v1/import", "application/x-ndjson", r)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var out ImportResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &out, nil
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- internal helpers ---

// APIError represents an error response from the server. Code is set when
// the server answered with a failed result; Unwrap then yields the matching
// *model.Error so errors.Is works against the model sentinels.
type APIError struct {
	StatusCode int
	Code       model.Code
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("HTTP %d: %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.Code == "" {
		return nil
	}
	return &model.Error{Code: e.Code, Message: e.Message}
}

// do sends a request and returns the response when its status is below 400.
// The caller closes the body.
func (c *HTTPClient) do(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, parseAPIError(resp.StatusCode, respBody)
	}
	return resp, nil
}

// parseAPIError accepts both error shapes the server writes: a failed
// result ({"success":false,"error":code,"message":...}) and a plain
// {"error":message}.
func parseAPIError(status int, body []byte) error {
	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &errResp) == nil {
		if errResp.Message != "" {
			return &APIError{StatusCode: status, Code: model.Code(errResp.Error), Message: errResp.Message}
		}
		if errResp.Error != "" {
			return &APIError{StatusCode: status, Message: errResp.Error}
		}
	}
	return &APIError{StatusCode: status, Message: strings.TrimSpace(string(body))}
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
		contentType = "application/json"
	}

	resp, err := c.do(ctx, method, path, contentType, bodyReader)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
