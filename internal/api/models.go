package api

import "github.com/phrazzld/nutri-api/internal/journal"

// FlowSummary describes one registered flow.
type FlowSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// FlowSchemaResponse holds the JSON Schema documents of a flow.
type FlowSchemaResponse struct {
	Name   string         `json:"name"`
	Input  map[string]any `json:"input"`
	Output map[string]any `json:"output"`
}

// AnalyzeMealRequest is the body of POST /api/meals/analyze.
type AnalyzeMealRequest struct {
	PhotoDataURI string `json:"photoDataUri" validate:"required,datauri"`
	Description  string `json:"description"  validate:"max=2000"`
}

// RunListResponse is the body of GET /api/runs.
type RunListResponse struct {
	Runs []journal.Run `json:"runs"`
}
