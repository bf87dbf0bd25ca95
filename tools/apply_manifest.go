package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/opspilot/kubeagent/internal/bridge"
	"github.com/opspilot/kubeagent/internal/kube"
	"github.com/opspilot/kubeagent/internal/safety"
)

// ManifestApplier performs the blocking create against the cluster.
type ManifestApplier interface {
	Apply(ctx context.Context, obj *unstructured.Unstructured) (string, error)
}

// ApplierFactory builds a ManifestApplier on the isolated worker, which owns
// its clients for the duration of one apply and tears them down with the
// worker.
type ApplierFactory func() (ManifestApplier, error)

type ApplyManifestInput struct {
	Manifest string `json:"manifest" jsonschema_description:"Complete Kubernetes manifest in YAML. Must carry apiVersion, kind, and metadata.name; metadata.namespace defaults to \"default\" when absent."`
}

var ApplyManifestInputSchema = GenerateSchema[ApplyManifestInput]()

// ApplyManifestDefinition returns the apply_manifest tool. The manifest is
// decoded and policy-checked on the calling side; client construction and the
// cluster request run on an isolated worker via the bridge, so a
// non-reentrant caller never hosts the blocking I/O itself.
func ApplyManifestDefinition(newApplier ApplierFactory) ToolDefinition {
	return ToolDefinition{
		Name:        "apply_manifest",
		Description: "Apply a Kubernetes resource to the cluster from a YAML manifest. Creates the resource described by the manifest and reports what was created.",
		InputSchema: ApplyManifestInputSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in ApplyManifestInput
			if err := DecodeInput("apply_manifest", input, &in); err != nil {
				return "", err
			}
			if strings.TrimSpace(in.Manifest) == "" {
				return "", &InvalidArgumentsError{Tool: "apply_manifest", Err: errors.New("manifest is required")}
			}

			obj, err := kube.DecodeManifest(in.Manifest)
			if err != nil {
				return "", err
			}
			if err := safety.CheckManifest(obj); err != nil {
				return "", err
			}

			return bridge.RunIsolated(func(wctx context.Context) (string, error) {
				ap, err := newApplier()
				if err != nil {
					return "", err
				}
				return ap.Apply(wctx, obj)
			})
		},
	}
}
