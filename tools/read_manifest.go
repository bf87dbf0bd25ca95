package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/opspilot/kubeagent/internal/fsops"
	"github.com/opspilot/kubeagent/internal/safety"
)

type ReadManifestInput struct {
	Path string `json:"path" jsonschema_description:"Relative path of a .yaml or .yml file inside the manifest library."`
}

const manifestRuneCap = 12_000 // overall clamp so tool results stay window-friendly
const manifestTruncationSentinel = "\n-- truncated --\n"

var ReadManifestDefinition = ToolDefinition{
	Name:        "read_manifest",
	Description: "Read a YAML manifest from the local manifest library, addressed by a relative path. Only .yaml and .yml files can be read; unsafe paths are rejected.",
	InputSchema: ReadManifestInputSchema,
	Function:    ReadManifest,
}

var ReadManifestInputSchema = GenerateSchema[ReadManifestInput]()

// ReadManifest reads a manifest file via fsops (sandbox under the manifest
// root) and clamps the result to manifestRuneCap runes. Non-YAML extensions
// are rejected so the library stays a manifest-only surface.
func ReadManifest(ctx context.Context, input json.RawMessage) (string, error) {
	var in ReadManifestInput
	if err := DecodeInput("read_manifest", input, &in); err != nil {
		return "", err
	}
	if !isYAMLPath(in.Path) {
		return "", safety.ToolError{Code: "ERR_NOT_A_MANIFEST", Message: "only .yaml or .yml files can be read"}
	}

	content, err := fsops.ReadManifest(in.Path)
	if err != nil {
		return "", err
	}

	r := []rune(content)
	if len(r) > manifestRuneCap {
		return string(r[:manifestRuneCap]) + manifestTruncationSentinel, nil
	}
	return content, nil
}

func isYAMLPath(p string) bool {
	lower := strings.ToLower(p)
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}
