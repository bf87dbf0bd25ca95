package tools

import (
	"context"
	"encoding/json"
	"errors"
)

// ResourceQuerier lists cluster resources of a kind and renders them as a
// compact JSON array suitable for a tool_result payload.
type ResourceQuerier interface {
	Query(ctx context.Context, kind, namespace, labelSelector string) (string, error)
}

type QueryResourcesInput struct {
	Kind          string `json:"kind" jsonschema_description:"Resource kind to list, e.g. pod, deployment, service."`
	Namespace     string `json:"namespace,omitempty" jsonschema_description:"Namespace to list from (defaults to \"default\")."`
	LabelSelector string `json:"label_selector,omitempty" jsonschema_description:"Optional label selector, e.g. app=nginx."`
}

var QueryResourcesInputSchema = GenerateSchema[QueryResourcesInput]()

// QueryResourcesDefinition returns the query_resources tool bound to the
// given querier.
func QueryResourcesDefinition(q ResourceQuerier) ToolDefinition {
	return ToolDefinition{
		Name:        "query_resources",
		Description: "List Kubernetes resources of a kind in a namespace. Returns a JSON array of name/namespace/created rows.",
		InputSchema: QueryResourcesInputSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in QueryResourcesInput
			if err := DecodeInput("query_resources", input, &in); err != nil {
				return "", err
			}
			if in.Kind == "" {
				return "", &InvalidArgumentsError{Tool: "query_resources", Err: errors.New("kind is required")}
			}
			ns := in.Namespace
			if ns == "" {
				ns = "default"
			}
			return q.Query(ctx, in.Kind, ns, in.LabelSelector)
		},
	}
}
