package tools

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/opspilot/kubeagent/internal/fsops"
)

type ListManifestsInput struct {
	Path     string `json:"path,omitempty" jsonschema_description:"Optional relative directory inside the manifest library (defaults to its root)."`
	Page     int    `json:"page,omitempty" jsonschema_description:"1-based page number (default 1)."`
	PageSize int    `json:"page_size,omitempty" jsonschema_description:"Page size (default 200)."`
}

// defaultListManifestsPageSize is the fallback page size when page_size <= 0.
const defaultListManifestsPageSize = 200

var ListManifestsDefinition = ToolDefinition{
	Name:        "list_manifests",
	Description: "List YAML manifests in a directory of the local manifest library (non-recursive). Subdirectories are listed with a trailing slash.",
	InputSchema: ListManifestsInputSchema,
	Function:    ListManifests,
}

var ListManifestsInputSchema = GenerateSchema[ListManifestsInput]()

// ListManifests lists manifest entries under the sandbox via fsops, then
// applies deterministic sorting and simple paging at the tool layer.
// Contract: returns a JSON-encoded []string.
func ListManifests(ctx context.Context, input json.RawMessage) (string, error) {
	var in ListManifestsInput
	if err := DecodeInput("list_manifests", input, &in); err != nil {
		return "", err
	}
	page := in.Page
	if page <= 0 {
		page = 1
	}
	pageSize := in.PageSize
	if pageSize <= 0 {
		pageSize = defaultListManifestsPageSize
	}

	names, err := fsops.ListManifests(in.Path)
	if err != nil {
		return "", err
	}
	// Standardise order so paging is deterministic across filesystems.
	sort.Strings(names)

	start := (page - 1) * pageSize
	// Out-of-range page returns an empty JSON array; keep the output contract.
	if start >= len(names) {
		return "[]", nil
	}
	end := start + pageSize
	if end > len(names) {
		end = len(names)
	}

	b, err := json.Marshal(names[start:end])
	if err != nil {
		return "", err
	}
	return string(b), nil
}
