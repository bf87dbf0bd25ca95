package kube

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/client-go/dynamic"
	"sigs.k8s.io/yaml"
)

// defaultNamespace is used when a namespaced manifest omits metadata.namespace.
const defaultNamespace = "default"

// DecodeManifest parses a YAML manifest into an unstructured object and
// checks that the type information needed for apply is present.
func DecodeManifest(manifest string) (*unstructured.Unstructured, error) {
	obj := &unstructured.Unstructured{}
	if err := yaml.Unmarshal([]byte(manifest), &obj.Object); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	gvk := obj.GroupVersionKind()
	if gvk.Version == "" {
		return nil, fmt.Errorf("manifest is missing apiVersion")
	}
	if gvk.Kind == "" {
		return nil, fmt.Errorf("manifest is missing kind")
	}
	if obj.GetName() == "" && obj.GetGenerateName() == "" {
		return nil, fmt.Errorf("manifest is missing metadata.name")
	}
	return obj, nil
}

// Applier creates arbitrary manifest objects against the cluster through the
// dynamic client, resolving each object's GVK to a resource via the mapper.
type Applier struct {
	dyn    dynamic.Interface
	mapper meta.RESTMapper
}

// NewApplierFor wires an Applier from ready-made components. Production code
// goes through NewApplier; tests inject fakes here.
func NewApplierFor(dyn dynamic.Interface, mapper meta.RESTMapper) *Applier {
	return &Applier{dyn: dyn, mapper: mapper}
}

// Apply creates the object on the cluster and returns a short human-readable
// confirmation. Namespaced objects without a namespace land in "default".
func (a *Applier) Apply(ctx context.Context, obj *unstructured.Unstructured) (string, error) {
	gvk := obj.GroupVersionKind()
	mapping, err := a.mapper.RESTMapping(gvk.GroupKind(), gvk.Version)
	if err != nil {
		return "", fmt.Errorf("resolve resource for %s: %w", gvk, err)
	}

	var created *unstructured.Unstructured
	if mapping.Scope.Name() == meta.RESTScopeNameNamespace {
		ns := obj.GetNamespace()
		if ns == "" {
			ns = defaultNamespace
			obj.SetNamespace(ns)
		}
		created, err = a.dyn.Resource(mapping.Resource).Namespace(ns).Create(ctx, obj, metav1.CreateOptions{})
		if err != nil {
			return "", fmt.Errorf("create %s %q in namespace %q: %w", gvk.Kind, obj.GetName(), ns, err)
		}
		return fmt.Sprintf("applied %s %s in namespace %s", gvk.Kind, created.GetName(), ns), nil
	}

	created, err = a.dyn.Resource(mapping.Resource).Create(ctx, obj, metav1.CreateOptions{})
	if err != nil {
		return "", fmt.Errorf("create %s %q: %w", gvk.Kind, obj.GetName(), err)
	}
	return fmt.Sprintf("applied %s %s", gvk.Kind, created.GetName()), nil
}
