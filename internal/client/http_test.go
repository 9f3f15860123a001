package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alfredjeanlab/cinemap/internal/model"
)

// seen is what the fake server observed about the last request.
type seen struct {
	method, path, rawPath, query string
	contentType, auth, body      string
}

// fakeServer answers every request with status and reply and records it.
func fakeServer(t *testing.T, status int, reply string) (*HTTPClient, *seen) {
	t.Helper()
	got := &seen{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*got = seen{
			method:      r.Method,
			path:        r.URL.Path,
			rawPath:     r.URL.RawPath,
			query:       r.URL.RawQuery,
			contentType: r.Header.Get("Content-Type"),
			auth:        r.Header.Get("Authorization"),
			body:        string(body),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, ""), got
}

func TestHTTPClientRoutes(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		name    string
		reply   string
		call    func(c *HTTPClient) error
		method  string
		path    string
		query   string
		bodyHas string
	}{
		{
			name:  "add node",
			reply: `{"success":true,"node":{"id":"n-abc"}}`,
			call: func(c *HTTPClient) error {
				_, err := c.AddNode(ctx, model.NodeInput{Layer: model.LayerStructure, Title: "Act break"})
				return err
			},
			method: http.MethodPost, path: "/v1/nodes", bodyHas: `"title":"Act break"`,
		},
		{
			name:  "visible nodes",
			reply: `{"nodes":[]}`,
			call: func(c *HTTPClient) error {
				_, err := c.ListNodes(ctx, ViewVisible)
				return err
			},
			method: http.MethodGet, path: "/v1/nodes", query: "view=visible",
		},
		{
			name:  "all nodes",
			reply: `{"nodes":[]}`,
			call: func(c *HTTPClient) error {
				_, err := c.ListNodes(ctx, ViewAll)
				return err
			},
			method: http.MethodGet, path: "/v1/nodes",
		},
		{
			name:   "note",
			reply:  `{"success":true}`,
			call:   func(c *HTTPClient) error { return c.UpdateNodeNotes(ctx, "premise", "later") },
			method: http.MethodPut, path: "/v1/nodes/premise/note", bodyHas: `"text":"later"`,
		},
		{
			name:  "resolved connections",
			reply: `{"connections":[]}`,
			call: func(c *HTTPClient) error {
				_, err := c.ListConnections(ctx, true)
				return err
			},
			method: http.MethodGet, path: "/v1/connections", query: "resolved=true",
		},
		{
			name:  "set mode",
			reply: `{"mode":"build"}`,
			call: func(c *HTTPClient) error {
				_, err := c.SetMode(ctx, model.ModeBuild)
				return err
			},
			method: http.MethodPut, path: "/v1/mode", bodyHas: `"mode":"build"`,
		},
		{
			name:   "select",
			reply:  `{}`,
			call:   func(c *HTTPClient) error { return c.SelectNode(ctx, "lighting") },
			method: http.MethodPut, path: "/v1/selection", bodyHas: `"nodeId":"lighting"`,
		},
		{
			name:  "set filter",
			reply: `{"domain":"sound"}`,
			call: func(c *HTTPClient) error {
				f, err := c.SetFilter(ctx, model.FilterDomain, "sound")
				if err == nil && f.Domain != model.DomainSound {
					return errors.New("domain not decoded")
				}
				return err
			},
			method: http.MethodPut, path: "/v1/filters/domain", bodyHas: `"value":"sound"`,
		},
		{
			name:  "toggle group",
			reply: `{"expanded":true}`,
			call: func(c *HTTPClient) error {
				open, err := c.ToggleGroup(ctx, "lighting")
				if err == nil && !open {
					return errors.New("expanded not decoded")
				}
				return err
			},
			method: http.MethodPost, path: "/v1/groups/lighting/toggle",
		},
		{
			name:   "reset",
			reply:  `{}`,
			call:   func(c *HTTPClient) error { return c.Reset(ctx) },
			method: http.MethodPost, path: "/v1/reset",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c, got := fakeServer(t, http.StatusOK, tc.reply)
			if err := tc.call(c); err != nil {
				t.Fatalf("call: %v", err)
			}
			if got.method != tc.method || got.path != tc.path {
				t.Errorf("request = %s %s, want %s %s", got.method, got.path, tc.method, tc.path)
			}
			if got.query != tc.query {
				t.Errorf("query = %q, want %q", got.query, tc.query)
			}
			if tc.bodyHas != "" {
				if !strings.Contains(got.body, tc.bodyHas) {
					t.Errorf("body = %s, want it to contain %s", got.body, tc.bodyHas)
				}
				if got.contentType != "application/json" {
					t.Errorf("content-type = %q", got.contentType)
				}
			}
		})
	}
}

func TestHTTPClientEscapesIDs(t *testing.T) {
	c, got := fakeServer(t, http.StatusOK, `{"node":{"id":"a/b"},"connections":[]}`)
	if _, err := c.GetNode(context.Background(), "a/b"); err != nil {
		t.Fatal(err)
	}
	if got.rawPath != "/v1/nodes/a%2Fb" {
		t.Errorf("rawPath = %q", got.rawPath)
	}
}

func TestHTTPClientTokenAndBaseURL(t *testing.T) {
	got := &seen{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path, got.auth = r.URL.Path, r.Header.Get("Authorization")
		io.WriteString(w, `{"status":"ok"}`)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/", "secret")
	status, err := c.Health(context.Background())
	if err != nil || status != "ok" {
		t.Fatalf("Health = %q, %v", status, err)
	}
	if got.auth != "Bearer secret" {
		t.Errorf("authorization = %q", got.auth)
	}
	if got.path != "/v1/health" {
		t.Errorf("path = %q, want the trailing slash trimmed", got.path)
	}
}

func TestHTTPClientImportExport(t *testing.T) {
	c, got := fakeServer(t, http.StatusOK, `{"nodes":2,"connections":1}`)
	res, err := c.Import(context.Background(), strings.NewReader(`{"type":"header"}`+"\n"))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got.contentType != "application/x-ndjson" || got.path != "/v1/import" {
		t.Errorf("import request = %s %q", got.path, got.contentType)
	}
	if res == nil {
		t.Fatal("nil import result")
	}

	c, _ = fakeServer(t, http.StatusOK, "line one\nline two\n")
	var buf bytes.Buffer
	if err := c.Export(context.Background(), &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if buf.String() != "line one\nline two\n" {
		t.Errorf("export = %q", buf.String())
	}
}

func TestHTTPClientErrors(t *testing.T) {
	t.Run("failed result maps to model error", func(t *testing.T) {
		c, _ := fakeServer(t, http.StatusNotFound, `{"success":false,"error":"NodeNotFound","message":"ghost: node not found"}`)
		_, err := c.UpdateNode(context.Background(), "ghost", model.NodeUpdate{})

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("err = %T %v", err, err)
		}
		if apiErr.StatusCode != http.StatusNotFound || apiErr.Code != model.CodeNodeNotFound {
			t.Errorf("apiErr = %+v", apiErr)
		}
		if !errors.Is(err, model.ErrNodeNotFound) || model.ErrorCode(err) != model.CodeNodeNotFound {
			t.Errorf("err does not match the model sentinel: %v", err)
		}
	})

	t.Run("plain error body", func(t *testing.T) {
		c, _ := fakeServer(t, http.StatusUnauthorized, `{"error":"invalid token"}`)
		err := c.Reset(context.Background())
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Message != "invalid token" || apiErr.Code != "" {
			t.Fatalf("err = %v", err)
		}
		if errors.Unwrap(err) != nil {
			t.Error("an error without a code should not wrap a model error")
		}
	})

	t.Run("non-JSON body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}))
		defer srv.Close()
		_, err := NewHTTPClient(srv.URL, "").GetNode(context.Background(), "n-1")
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != 500 || apiErr.Message != "internal server error" {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("server down", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()
		if _, err := NewHTTPClient(url, "").Health(context.Background()); err == nil {
			t.Fatal("expected a connection error")
		}
	})
}
