// Package linear imports completed Linear issues as experiment evidence.
package linear

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.linear.app/graphql"

type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

type Option func(*Client)

// WithBaseURL points the client at another GraphQL endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

type GraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

type GraphQLError struct {
	Message string   `json:"message"`
	Path    []string `json:"path"`
}

type Issue struct {
	ID          string     `json:"id"`
	Identifier  string     `json:"identifier"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	State       IssueState `json:"state"`
	CompletedAt *time.Time `json:"completedAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Team        Team       `json:"team"`
	Labels      LabelList  `json:"labels"`
}

type IssueState struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type Team struct {
	Name string `json:"name"`
}

type Label struct {
	Name string `json:"name"`
}

type LabelList struct {
	Nodes []Label `json:"nodes"`
}

// UnmarshalJSON accepts the GraphQL connection form {"nodes": [...]} and
// the plain array sent in webhook payloads.
func (l *LabelList) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		return json.Unmarshal(data, &l.Nodes)
	}
	var conn struct {
		Nodes []Label `json:"nodes"`
	}
	if err := json.Unmarshal(data, &conn); err != nil {
		return err
	}
	l.Nodes = conn.Nodes
	return nil
}

// Names returns the label names in order.
func (l LabelList) Names() []string {
	names := make([]string, 0, len(l.Nodes))
	for _, n := range l.Nodes {
		names = append(names, n.Name)
	}
	return names
}

func NewClient(apiKey string, logger *zap.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("LINEAR_API_KEY is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) query(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	jsonData, err := json.Marshal(GraphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("linear API error (status %d): %s", resp.StatusCode, string(body))
	}

	var gqlResp GraphQLResponse
	if err := json.Unmarshal(body, &gqlResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(gqlResp.Errors) > 0 {
		return nil, fmt.Errorf("GraphQL error: %s", gqlResp.Errors[0].Message)
	}
	return gqlResp.Data, nil
}

const issueFields = `
	id
	identifier
	title
	description
	state {
		name
		type
	}
	completedAt
	updatedAt
	team {
		name
	}
	labels {
		nodes {
			name
		}
	}
`

// CompletedIssues returns issues completed in the last days days.
func (c *Client) CompletedIssues(ctx context.Context, days int) ([]Issue, error) {
	threshold := time.Now().AddDate(0, 0, -days).Format("2006-01-02")

	query := `
		query($filter: IssueFilter) {
			issues(filter: $filter, first: 50) {
				nodes {` + issueFields + `}
			}
		}
	`
	variables := map[string]any{
		"filter": map[string]any{
			"completedAt": map[string]any{"gte": threshold},
		},
	}

	data, err := c.query(ctx, query, variables)
	if err != nil {
		return nil, err
	}

	var result struct {
		Issues struct {
			Nodes []Issue `json:"nodes"`
		} `json:"issues"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse issues: %w", err)
	}

	c.logger.Debug("Fetched completed Linear issues", zap.Int("days", days), zap.Int("count", len(result.Issues.Nodes)))
	return result.Issues.Nodes, nil
}

// Issue fetches a single issue by id.
func (c *Client) Issue(ctx context.Context, issueID string) (*Issue, error) {
	query := `
		query($id: String!) {
			issue(id: $id) {` + issueFields + `}
		}
	`
	data, err := c.query(ctx, query, map[string]any{"id": issueID})
	if err != nil {
		return nil, err
	}

	var result struct {
		Issue Issue `json:"issue"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse issue: %w", err)
	}
	return &result.Issue, nil
}
