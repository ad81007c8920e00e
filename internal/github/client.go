// Package github implements the GitHub Projects V2 GraphQL client:
// paginated item fetch, field schema lookup, and priority write-back.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultEndpoint is the public GitHub GraphQL endpoint.
const DefaultEndpoint = "https://api.github.com/graphql"

// Client talks to the GitHub GraphQL API for one project board.
type Client struct {
	Token         string
	Organization  string
	ProjectNumber int

	// Endpoint overrides the GraphQL URL; tests point it at a local server.
	Endpoint string
	// HTTPClient defaults to a client with a 30s timeout.
	HTTPClient *http.Client
	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// NewClient creates a client for the given project. The token is
// required; it is sent as a bearer credential on every request.
func NewClient(token, organization string, projectNumber int) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("github token is required (set GITHUB_TOKEN)")
	}
	return &Client{
		Token:         token,
		Organization:  organization,
		ProjectNumber: projectNumber,
	}, nil
}

// ProjectURL returns the browser URL of the project board.
func (c *Client) ProjectURL() string {
	return fmt.Sprintf("https://github.com/orgs/%s/projects/%d", c.Organization, c.ProjectNumber)
}

func (c *Client) endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return DefaultEndpoint
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

type graphQLError struct {
	Message string `json:"message"`
}

// execute posts one GraphQL query and decodes the data object into out.
// A non-200 status or a populated errors array is returned as an error.
func (c *Client) execute(ctx context.Context, query string, variables map[string]any, out any) error {
	payload := struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}{Query: query, Variables: variables}
	if payload.Variables == nil {
		payload.Variables = map[string]any{}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	c.logger().Debug("graphql request", "request_id", requestID)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("post query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("graphql request failed: %d: %s", resp.StatusCode, string(respBody))
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError  `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		msgs := make([]string, len(envelope.Errors))
		for i, e := range envelope.Errors {
			msgs[i] = e.Message
		}
		return fmt.Errorf("graphql errors: %s", strings.Join(msgs, "; "))
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}
