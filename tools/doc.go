// Package tools defines tool contracts, dispatch, and implementations.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - Dispatcher: name-keyed lookup with a three-way failure taxonomy
//     (unknown tool, invalid arguments, handler error).
//   - Cluster tools: apply_manifest, query_resources.
//   - Manifest-library tools: read_manifest, list_manifests (read-only).
package tools
