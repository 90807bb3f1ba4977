package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/avis/export"
)

var mcpImpl = &mcp.Implementation{Name: "avis", Version: "0.1.0"}

// runMCP serves the review-scraping tools over stdio.
func (a *app) runMCP(ctx context.Context) error {
	srv := mcp.NewServer(mcpImpl, nil)
	a.registerMCPTools(srv)
	a.logger.Info("avis: mcp server starting")
	return srv.Run(ctx, &mcp.StdioTransport{})
}

func (a *app) registerMCPTools(srv *mcp.Server) {
	a.registerScrapeTool(srv)
	a.registerListRunsTool(srv)
	a.registerGetRunTool(srv)
	a.registerExportRunTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// addTool wires a typed handler with JSON-argument decoding and JSON
// responses; handler errors become tool errors rather than protocol errors.
func addTool[Req any](srv *mcp.Server, tool *mcp.Tool, handler func(context.Context, *Req) (any, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var r Req
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
				var res mcp.CallToolResult
				res.SetError(fmt.Errorf("invalid arguments: %w", err))
				return &res, nil
			}
		}

		resp, err := handler(ctx, &r)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(err)
			return &res, nil
		}

		data, err := json.Marshal(resp)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

// --- avis_scrape_reviews ---

type scrapeToolReq struct {
	Business   string `json:"business"`
	MaxReviews int    `json:"max_reviews"`
}

func (a *app) registerScrapeTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "avis_scrape_reviews",
		Description: "Scrape customer reviews for a business from the map application and persist the run.",
		InputSchema: inputSchema(map[string]any{
			"business":    map[string]any{"type": "string", "description": "Business name to search for"},
			"max_reviews": map[string]any{"type": "integer", "description": "Cap on extracted reviews (0 = config default)"},
		}, []string{"business"}),
	}

	addTool(srv, tool, func(ctx context.Context, r *scrapeToolReq) (any, error) {
		if r.Business == "" {
			return nil, errors.New("business is required")
		}

		cfg := *a.cfg
		if r.MaxReviews > 0 {
			cfg.MaxReviews = r.MaxReviews
		}
		runApp := *a
		runApp.cfg = &cfg

		result, runID, err := runApp.scrapeAndSave(ctx, r.Business)
		if result == nil {
			return nil, err
		}
		resp := map[string]any{
			"run_id":          runID,
			"business":        result.Business,
			"total_found":     result.TotalFound,
			"total_extracted": result.TotalExtracted,
			"success_rate":    result.SuccessRate(),
			"errors":          result.Errors,
		}
		if err != nil {
			resp["error"] = err.Error()
		}
		return resp, nil
	})
}

// --- avis_list_runs ---

type listRunsReq struct {
	Limit int `json:"limit"`
}

func (a *app) registerListRunsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "avis_list_runs",
		Description: "List recent scrape runs, newest first.",
		InputSchema: inputSchema(map[string]any{
			"limit": map[string]any{"type": "integer", "description": "Maximum runs to return (default 50)"},
		}, nil),
	}

	addTool(srv, tool, func(ctx context.Context, r *listRunsReq) (any, error) {
		runs, err := a.store.ListRuns(ctx, r.Limit)
		if err != nil {
			return nil, err
		}
		return map[string]any{"runs": runs}, nil
	})
}

// --- avis_get_run ---

type getRunReq struct {
	RunID string `json:"run_id"`
}

func (a *app) registerGetRunTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "avis_get_run",
		Description: "Get one scrape run with its reviews.",
		InputSchema: inputSchema(map[string]any{
			"run_id": map[string]any{"type": "string", "description": "Run ID"},
		}, []string{"run_id"}),
	}

	addTool(srv, tool, func(ctx context.Context, r *getRunReq) (any, error) {
		run, err := a.store.GetRun(ctx, r.RunID)
		if err != nil {
			return nil, err
		}
		if run == nil {
			return nil, fmt.Errorf("run %s not found", r.RunID)
		}
		reviews, err := a.store.ReviewsForRun(ctx, r.RunID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"run": run, "reviews": reviews}, nil
	})
}

// --- avis_export_run ---

type exportRunReq struct {
	RunID  string `json:"run_id"`
	Format string `json:"format"`
}

func (a *app) registerExportRunTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "avis_export_run",
		Description: "Render a stored run as csv, json, summary, or markdown.",
		InputSchema: inputSchema(map[string]any{
			"run_id": map[string]any{"type": "string", "description": "Run ID"},
			"format": map[string]any{"type": "string", "description": "csv, json, summary, or markdown"},
		}, []string{"run_id", "format"}),
	}

	addTool(srv, tool, func(ctx context.Context, r *exportRunReq) (any, error) {
		format, err := export.ParseFormat(r.Format)
		if err != nil {
			return nil, err
		}
		result, err := a.resultForRun(ctx, r.RunID)
		if err != nil {
			return nil, err
		}
		if result == nil {
			return nil, fmt.Errorf("run %s not found", r.RunID)
		}

		var buf bytes.Buffer
		if err := export.Write(&buf, format, result); err != nil {
			return nil, err
		}
		return map[string]any{"format": string(format), "content": buf.String()}, nil
	})
}
