package kube

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
)

// kindAliases maps the lowercase kind names a model is likely to send to the
// canonical GroupVersionKind. Plural and singular forms both resolve.
var kindAliases = map[string]schema.GroupVersionKind{
	"pod":         {Version: "v1", Kind: "Pod"},
	"service":     {Version: "v1", Kind: "Service"},
	"configmap":   {Version: "v1", Kind: "ConfigMap"},
	"namespace":   {Version: "v1", Kind: "Namespace"},
	"event":       {Version: "v1", Kind: "Event"},
	"deployment":  {Group: "apps", Version: "v1", Kind: "Deployment"},
	"replicaset":  {Group: "apps", Version: "v1", Kind: "ReplicaSet"},
	"statefulset": {Group: "apps", Version: "v1", Kind: "StatefulSet"},
	"daemonset":   {Group: "apps", Version: "v1", Kind: "DaemonSet"},
	"job":         {Group: "batch", Version: "v1", Kind: "Job"},
	"cronjob":     {Group: "batch", Version: "v1", Kind: "CronJob"},
	"ingress":     {Group: "networking.k8s.io", Version: "v1", Kind: "Ingress"},
}

// ResolveKind maps a user-facing kind string ("pod", "Deployments",
// "ingresses", ...) to its GroupVersionKind. Singular, -s, and -es plural
// forms all resolve.
func ResolveKind(kind string) (schema.GroupVersionKind, error) {
	key := strings.ToLower(strings.TrimSpace(kind))
	for _, candidate := range []string{key, strings.TrimSuffix(key, "s"), strings.TrimSuffix(key, "es")} {
		if gvk, ok := kindAliases[candidate]; ok {
			return gvk, nil
		}
	}
	return schema.GroupVersionKind{}, fmt.Errorf("unsupported kind %q", kind)
}

// ResourceRow is one entry of a query result, kept small on purpose: the
// payload goes straight into a tool_result turn.
type ResourceRow struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace,omitempty"`
	Created   string `json:"created,omitempty"`
}

// Querier lists cluster resources through the dynamic client.
type Querier struct {
	dyn    dynamic.Interface
	mapper meta.RESTMapper
}

// NewQuerierFor wires a Querier from ready-made components. Production code
// goes through NewQuerier; tests inject fakes here.
func NewQuerierFor(dyn dynamic.Interface, mapper meta.RESTMapper) *Querier {
	return &Querier{dyn: dyn, mapper: mapper}
}

// Query lists resources of the given kind and renders them as a JSON array
// of ResourceRow. Cluster-scoped kinds ignore the namespace argument.
func (q *Querier) Query(ctx context.Context, kind, namespace, labelSelector string) (string, error) {
	gvk, err := ResolveKind(kind)
	if err != nil {
		return "", err
	}
	mapping, err := q.mapper.RESTMapping(gvk.GroupKind(), gvk.Version)
	if err != nil {
		return "", fmt.Errorf("resolve resource for %s: %w", gvk, err)
	}

	opts := metav1.ListOptions{LabelSelector: labelSelector}
	var ri dynamic.ResourceInterface = q.dyn.Resource(mapping.Resource)
	if mapping.Scope.Name() == meta.RESTScopeNameNamespace {
		ri = q.dyn.Resource(mapping.Resource).Namespace(namespace)
	}
	list, err := ri.List(ctx, opts)
	if err != nil {
		return "", fmt.Errorf("list %s: %w", gvk.Kind, err)
	}

	rows := make([]ResourceRow, 0, len(list.Items))
	for _, item := range list.Items {
		row := ResourceRow{Name: item.GetName(), Namespace: item.GetNamespace()}
		if ts := item.GetCreationTimestamp(); !ts.IsZero() {
			row.Created = ts.UTC().Format(time.RFC3339)
		}
		rows = append(rows, row)
	}

	b, err := json.Marshal(rows)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
