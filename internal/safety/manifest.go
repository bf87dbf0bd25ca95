package safety

import (
	"os"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// deniedKinds are cluster-level kinds the agent must never create, regardless
// of what the model generates.
var deniedKinds = map[string]struct{}{
	"Node":                     {},
	"ClusterRole":              {},
	"ClusterRoleBinding":       {},
	"CustomResourceDefinition": {},
}

// allowedNamespaces reads the KA_ALLOWED_NAMESPACES comma list. Empty or
// unset means every namespace is allowed. Read per call so tests can flip it
// with t.Setenv.
func allowedNamespaces() map[string]struct{} {
	v := strings.TrimSpace(os.Getenv("KA_ALLOWED_NAMESPACES"))
	if v == "" {
		return nil
	}
	set := make(map[string]struct{})
	for _, ns := range strings.Split(v, ",") {
		if ns = strings.TrimSpace(ns); ns != "" {
			set[ns] = struct{}{}
		}
	}
	return set
}

// CheckManifest enforces the apply policy on a decoded manifest: denied kinds
// are rejected outright, and when KA_ALLOWED_NAMESPACES is set the object's
// namespace (or "default" when absent) must be in the list. Violations come
// back as ToolError so the text reaches the model verbatim.
func CheckManifest(obj *unstructured.Unstructured) error {
	kind := obj.GetKind()
	if _, denied := deniedKinds[kind]; denied {
		return ToolError{Code: "ERR_KIND_DENIED", Message: "kind " + kind + " may not be applied by the agent"}
	}

	allowed := allowedNamespaces()
	if allowed == nil {
		return nil
	}
	ns := obj.GetNamespace()
	if ns == "" {
		ns = "default"
	}
	if _, ok := allowed[ns]; !ok {
		return ToolError{Code: "ERR_NAMESPACE_DENIED", Message: "namespace " + ns + " is not in KA_ALLOWED_NAMESPACES"}
	}
	return nil
}
