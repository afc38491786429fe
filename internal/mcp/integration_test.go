package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-inventory-sync/internal/descriptions"
)

// rpc sends one JSON-RPC message through the MCP server and returns the
// response decoded as a generic map.
func rpc(t *testing.T, s *Server, id int, method string, params any) map[string]any {
	t.Helper()

	raw, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	resp := s.mcpServer.HandleMessage(context.Background(), raw)
	require.NotNil(t, resp)

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Nil(t, decoded["error"], "rpc %s failed: %s", method, data)
	return decoded
}

func initialize(t *testing.T, s *Server) {
	t.Helper()
	rpc(t, s, 1, "initialize", map[string]any{
		"protocolVersion": "2024-11-05",
		"clientInfo":      map[string]any{"name": "test-client", "version": "0.0.1"},
		"capabilities":    map[string]any{},
	})
}

func TestServerToolsRegistration(t *testing.T) {
	s := newTestServer(t, newTestConfig(t.TempDir()))
	initialize(t, s)

	resp := rpc(t, s, 2, "tools/list", map[string]any{})
	result, ok := resp["result"].(map[string]any)
	require.True(t, ok)
	tools, ok := result["tools"].([]any)
	require.True(t, ok)

	var names []string
	for _, tool := range tools {
		names = append(names, tool.(map[string]any)["name"].(string))
	}
	assert.ElementsMatch(t, descriptions.GetAllToolNames(), names)
}

func TestServerIntegration(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir)
	outDir := filepath.Join(dir, "out")

	cfg := newTestConfig(dir)
	cfg.OutputDirectory = outDir
	s := newTestServer(t, cfg)
	initialize(t, s)

	call := func(id int, tool string, args map[string]any) string {
		resp := rpc(t, s, id, "tools/call", map[string]any{"name": tool, "arguments": args})
		result := resp["result"].(map[string]any)
		require.NotEqual(t, true, result["isError"], "%s: %v", tool, result)
		content := result["content"].([]any)
		require.NotEmpty(t, content)
		return content[0].(map[string]any)["text"].(string)
	}

	text := call(3, "inventory_search_directory", map[string]any{})
	assert.Contains(t, text, "Found 2 spreadsheet file(s)")

	text = call(4, "acta_extract_metadata", map[string]any{"path": "acta 77.xlsx"})
	assert.Contains(t, text, "Document: ACTA No. 77")

	text = call(5, "inventory_reconcile", map[string]any{
		"acta_path":      "acta 77.xlsx",
		"inventory_path": "INVENTARIO.xlsx",
	})
	assert.Contains(t, text, "Reconciliation written to: "+outDir)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	text = call(6, "inventory_validate_file", map[string]any{
		"path": filepath.Join("out", entries[0].Name()),
	})
	assert.Contains(t, text, "Workbook is valid")
	assert.Contains(t, text, "SIN SERIAL [GENERAL] 1 rows")
}

func TestServerErrorHandling(t *testing.T) {
	s := newTestServer(t, newTestConfig(t.TempDir()))
	initialize(t, s)

	resp := rpc(t, s, 7, "tools/call", map[string]any{
		"name":      "acta_read_items",
		"arguments": map[string]any{"path": "missing.xlsx"},
	})
	result := resp["result"].(map[string]any)
	assert.Equal(t, true, result["isError"])
}
