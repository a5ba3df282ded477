// internal/metrics/metrics.go
//
// Remote metrics fetch for the agent summary panel. Agents are keyed in
// the backing store by an internal name that differs from the display
// name shown in the UI; the lookup table is an explicit injected map so
// the resolution stays testable.

package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// NameMap resolves UI display names to internal agent names.
type NameMap map[string]string

// DefaultNameMap covers the agents the platform ships with.
func DefaultNameMap() NameMap {
	return NameMap{
		"Jira Management Agent":           "jira_mcp_agent",
		"Test Case Generator Agent":       "test_case_generator_agent",
		"Test Data Agent":                 "test_data_root_agent",
		"Test Script Generator Agent":     "test_script_root_agent",
		"Environment Readiness Agent":     "env_readiness_agent",
		"Test Execution and DevOps Agent": "jenkins_automation_agent",
		"Test Reporting Agent":            "Test_Report_generation_agent",
		"Test Failure Analysis Agent":     "Test_Failure_Analysis_agent",
		"Self Healing Agent":              "self_healing_root_agent",
		"Orchestration Agent":             "orchestrator_agent",
	}
}

// Resolve maps a display name to its internal name. Unmapped names fall
// back to lowercased snake case so new agents still resolve somewhere.
func (m NameMap) Resolve(displayName string) string {
	if internal, ok := m[displayName]; ok {
		return internal
	}
	return strings.Join(strings.Fields(strings.ToLower(displayName)), "_")
}

// AgentMetrics is the summary the metrics service reports per agent.
// Timestamps arrive as opaque service-formatted strings.
type AgentMetrics struct {
	TokensConsumed  int64   `json:"tokensConsumed"`
	ExecutionTime   float64 `json:"executionTime"` // seconds
	TokensPerSecond float64 `json:"tokensPerSecond"`
	LastUpdated     string  `json:"lastUpdated"`
	LastStartTime   string  `json:"lastStartTime"`
	LastEndTime     string  `json:"lastEndTime"`
	FinalSummary    string  `json:"finalSummary"`
	SummaryLength   int     `json:"summaryLength"`
}

// Client fetches agent metrics from the platform API.
type Client struct {
	baseURL string
	names   NameMap
	httpc   *http.Client
}

// NewClient creates a metrics client rooted at baseURL. A nil names map
// falls back to the default table.
func NewClient(baseURL string, names NameMap) *Client {
	if names == nil {
		names = DefaultNameMap()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		names:   names,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// AgentSummary fetches metrics for the agent shown as displayName.
func (c *Client) AgentSummary(ctx context.Context, displayName string) (AgentMetrics, error) {
	internal := c.names.Resolve(displayName)
	endpoint := fmt.Sprintf("%s/tokens/agent/%s", c.baseURL, url.PathEscape(internal))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return AgentMetrics{}, fmt.Errorf("metrics: build request: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return AgentMetrics{}, fmt.Errorf("metrics: fetch %s: %w", internal, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return AgentMetrics{}, fmt.Errorf("metrics: fetch %s: status %d: %s", internal, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var m AgentMetrics
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return AgentMetrics{}, fmt.Errorf("metrics: decode response: %w", err)
	}
	return m, nil
}
