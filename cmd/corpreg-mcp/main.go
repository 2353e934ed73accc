package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// apiResponse captures the fields shared by every corpreg API response.
type apiResponse struct {
	Success bool `json:"success"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("CORPREG_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("CORPREG_API_KEY")

	s := server.NewMCPServer(
		"corpreg",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	searchTool := mcp.NewTool("search_companies",
		mcp.WithDescription("Search the state corporate registry by organization name. Returns name, registry id and detail-page URL for every match."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Organization name or name prefix to search for"),
		),
	)
	s.AddTool(searchTool, handleSearch(apiURL, apiKey))

	detailsTool := mcp.NewTool("company_details",
		mcp.WithDescription("Fetch one registry entity: type, registration date, status, addresses and officers. Use a URL returned by search_companies."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Detail-page URL containing the org parameter"),
		),
		mcp.WithBoolean("include_snapshot",
			mcp.Description("Also return the detail page rendered as Markdown"),
		),
	)
	s.AddTool(detailsTool, handleDetails(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiGet sends a GET request to the corpreg API and returns the response body.
func apiGet(ctx context.Context, client *http.Client, apiURL, apiKey, path string, query url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// toolResult turns an API body into a tool result, surfacing API errors.
func toolResult(body []byte, failure string) *mcp.CallToolResult {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err))
	}
	if !resp.Success {
		msg := failure
		if resp.Error != nil {
			msg = fmt.Sprintf("%s: [%s] %s", failure, resp.Error.Code, resp.Error.Message)
		}
		return mcp.NewToolResultError(msg)
	}
	return mcp.NewToolResultText(string(body))
}

func handleSearch(apiURL, apiKey string) server.ToolHandlerFunc {
	// A search may take the page load plus the results wait.
	client := &http.Client{Timeout: 90 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError("query is required"), nil
		}

		body, err := apiGet(ctx, client, apiURL, apiKey, "/api/v1/search", url.Values{"q": {query}})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toolResult(body, "search failed"), nil
	}
}

func handleDetails(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 90 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		detailURL, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		q := url.Values{"url": {detailURL}}
		if request.GetBool("include_snapshot", false) {
			q.Set("format", "markdown")
		}

		body, err := apiGet(ctx, client, apiURL, apiKey, "/api/v1/details", q)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toolResult(body, "details failed"), nil
	}
}
