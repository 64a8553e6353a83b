package mcp

import (
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cdash-mcp/cdash-mcp/internal/cdash"
)

// jsonResult marshals a tool output into a single text content block. All
// data becomes JSON; clients parse it.
func jsonResult(out any) *mcp.CallToolResult {
	b, err := json.Marshal(out)
	if err != nil {
		return errorResult(cdash.WrapErrorf(cdash.KindMalformedResponse, err, "encoding tool result"))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}
}

// errorResult converts any error into an IsError result whose text names
// the taxonomy kind and a short cause. Errors without a kind are folded
// into UpstreamUnavailable; nothing here ever carries the bearer token.
func errorResult(err error) *mcp.CallToolResult {
	norm := cdash.Normalize(err)
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: norm.Error()}},
		IsError: true,
	}
}
