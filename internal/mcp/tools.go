package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolDefinition describes a callable tool
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any
	ReadOnly    bool
}

var (
	dateProperty = map[string]any{
		"type":        "string",
		"description": "Date as YYYY-MM-DD (omit for today)",
		"pattern":     `^\d{4}-\d{2}-\d{2}$`,
	}
	filterProperty = map[string]any{
		"type":        "string",
		"description": `Subject name, or "all" (default) for every subject`,
	}
)

func objectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Subjects
		{
			Name:        "list_subjects",
			Description: "List subjects in display order with their attended and total class counts",
			InputSchema: objectSchema(map[string]any{}),
			ReadOnly:    true,
		},
		{
			Name:        "add_subject",
			Description: `Add a subject named "Subject N" with empty counts`,
			InputSchema: objectSchema(map[string]any{}),
		},
		{
			Name:        "update_subject",
			Description: "Set a subject's name, attended count or total count. On rename, attendance history moves to the new name or is dropped, depending on the server's rename_history setting",
			InputSchema: objectSchema(map[string]any{
				"id": map[string]any{
					"type":        "string",
					"description": "Subject ID",
				},
				"field": map[string]any{
					"type":        "string",
					"description": "Field to set",
					"enum":        []string{"name", "attended", "total"},
				},
				"value": map[string]any{
					"type":        "string",
					"description": "New value. Counts that are empty, negative or not numeric are cleared",
				},
			}, "id", "field", "value"),
		},
		{
			Name:        "remove_subject",
			Description: "Remove a subject and its attendance history. Removing the last subject leaves a blank one",
			InputSchema: objectSchema(map[string]any{
				"id": map[string]any{
					"type":        "string",
					"description": "Subject ID",
				},
			}, "id"),
		},

		// Attendance
		{
			Name:        "record_attendance",
			Description: "Record one attended class for a subject on a date",
			InputSchema: objectSchema(map[string]any{
				"subject": map[string]any{
					"type":        "string",
					"description": "Subject name",
				},
				"date": dateProperty,
			}, "subject"),
		},
		{
			Name:        "remove_attendance",
			Description: "Remove one attended class for a subject on a date",
			InputSchema: objectSchema(map[string]any{
				"subject": map[string]any{
					"type":        "string",
					"description": "Subject name",
				},
				"date": dateProperty,
			}, "subject"),
		},
		{
			Name:        "save_attendance",
			Description: "Record one class for each selected subject on a date. Future dates are rejected",
			InputSchema: objectSchema(map[string]any{
				"subjects": map[string]any{
					"type":        "array",
					"description": "Subject names",
					"items":       map[string]any{"type": "string"},
					"minItems":    1,
				},
				"date": dateProperty,
			}, "subjects"),
		},
		{
			Name:        "mark_day",
			Description: "Add one class on a day for the filtered subject, or the first subject when the filter is all",
			InputSchema: objectSchema(map[string]any{
				"date":   dateProperty,
				"filter": filterProperty,
			}),
		},
		{
			Name:        "unmark_day",
			Description: "Remove one class on a day from the filtered subject, or the first subject with attendance that day",
			InputSchema: objectSchema(map[string]any{
				"date":   dateProperty,
				"filter": filterProperty,
			}),
		},

		// Views
		{
			Name:        "get_overview",
			Description: "Get overall and per-subject attendance percentages against the 75% requirement",
			InputSchema: objectSchema(map[string]any{}),
			ReadOnly:    true,
		},
		{
			Name:        "get_heatmap",
			Description: "Get the one-year attendance calendar ending today, with streak and total",
			InputSchema: objectSchema(map[string]any{
				"filter": filterProperty,
			}),
			ReadOnly: true,
		},
		{
			Name:        "get_history",
			Description: "Get recorded attendance per day, optionally within a date range",
			InputSchema: objectSchema(map[string]any{
				"from":   dateProperty,
				"to":     dateProperty,
				"filter": filterProperty,
			}),
			ReadOnly: true,
		},
		{
			Name:        "get_recent_activity",
			Description: "List recent changes, newest first",
			InputSchema: objectSchema(map[string]any{
				"type": map[string]any{
					"type":        "string",
					"description": "Activity type filter",
				},
				"subject": map[string]any{
					"type":        "string",
					"description": "Subject name filter",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of results",
				},
				"offset": map[string]any{
					"type":        "integer",
					"description": "Offset for pagination",
				},
			}),
			ReadOnly: true,
		},
	}
}

func registerTools(server *sdkmcp.Server, handler *Handler, logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	for _, def := range buildToolCatalog() {
		tool := &sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}
		if def.ReadOnly {
			tool.Annotations = &sdkmcp.ToolAnnotations{ReadOnlyHint: true}
		}
		server.AddTool(tool, toolHandler(handler, def.Name, logger))
	}
}

func toolHandler(handler *Handler, name string, logger *slog.Logger) sdkmcp.ToolHandler {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
		var args json.RawMessage
		if req != nil && req.Params != nil {
			args = req.Params.Arguments
		}

		result, err := handler.Handle(ctx, name, args)
		if err != nil {
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				logger.Error("tool failed", "tool", name, "error", err)
				apiErr = &APIError{Code: "INTERNAL", Message: err.Error()}
			}
			return textResult(apiErr, true)
		}
		return textResult(result, false)
	}
}

func textResult(payload any, isError bool) (*sdkmcp.CallToolResult, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
		IsError: isError,
	}, nil
}
