package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolResult(t *testing.T) {
	ok := toolResult([]byte(`{"success":true,"results":[]}`), "search failed")
	assert.False(t, ok.IsError)

	failed := toolResult([]byte(`{"success":false,"error":{"code":"INVALID_INPUT","message":"bad"}}`), "details failed")
	assert.True(t, failed.IsError)

	garbage := toolResult([]byte(`<html>`), "search failed")
	assert.True(t, garbage.IsError)
}

func TestApiGet_SendsKeyAndQuery(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	body, err := apiGet(context.Background(), srv.Client(), srv.URL, "k", "/api/v1/search", url.Values{"q": {"acme widgets"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true}`, string(body))
	assert.Equal(t, "/api/v1/search", got.URL.Path)
	assert.Equal(t, "acme widgets", got.URL.Query().Get("q"))
	assert.Equal(t, "k", got.Header.Get("X-API-Key"))
}

func TestHandleSearch_MissingQuery(t *testing.T) {
	res, err := handleSearch("http://127.0.0.1:1", "")(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
