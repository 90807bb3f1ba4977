package main

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func mcpSession(t *testing.T, a *app) *mcp.ClientSession {
	t.Helper()
	srv := mcp.NewServer(mcpImpl, nil)
	a.registerMCPTools(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(mcpImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func mcpCallTool(t *testing.T, session *mcp.ClientSession, name string, args any) string {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if result.IsError {
		t.Fatalf("CallTool(%s) tool error: %v", name, result.Content)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): expected TextContent", name)
	}
	return tc.Text
}

func TestMCP_ListRuns(t *testing.T) {
	a := testApp(t)
	runID := seedRun(t, a)
	session := mcpSession(t, a)

	text := mcpCallTool(t, session, "avis_list_runs", map[string]any{})

	var resp struct {
		Runs []struct {
			ID       string `json:"id"`
			Business string `json:"business"`
		} `json:"runs"`
	}
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Runs) != 1 || resp.Runs[0].ID != runID {
		t.Errorf("runs = %+v", resp.Runs)
	}
}

func TestMCP_GetRun(t *testing.T) {
	a := testApp(t)
	runID := seedRun(t, a)
	session := mcpSession(t, a)

	text := mcpCallTool(t, session, "avis_get_run", map[string]any{"run_id": runID})

	var resp struct {
		Run struct {
			Business string `json:"business"`
		} `json:"run"`
		Reviews []struct {
			Reviewer string `json:"reviewer"`
		} `json:"reviews"`
	}
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Run.Business != "Chez Louis" {
		t.Errorf("business = %q", resp.Run.Business)
	}
	if len(resp.Reviews) != 1 || resp.Reviews[0].Reviewer != "Alice" {
		t.Errorf("reviews = %+v", resp.Reviews)
	}
}

func TestMCP_GetRunMissing(t *testing.T) {
	session := mcpSession(t, testApp(t))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "avis_get_run",
		Arguments: map[string]any{"run_id": "run_nope"},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error for missing run")
	}
}

func TestMCP_ExportRun(t *testing.T) {
	a := testApp(t)
	runID := seedRun(t, a)
	session := mcpSession(t, a)

	text := mcpCallTool(t, session, "avis_export_run",
		map[string]any{"run_id": runID, "format": "markdown"})

	var resp struct {
		Format  string `json:"format"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Format != "markdown" {
		t.Errorf("format = %q", resp.Format)
	}
	if !strings.Contains(resp.Content, "# Reviews: Chez Louis") {
		t.Errorf("content missing heading:\n%s", resp.Content)
	}
}
