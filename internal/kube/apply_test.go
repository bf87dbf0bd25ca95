package kube_test

import (
	"context"
	"strings"
	"testing"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	dynamicfake "k8s.io/client-go/dynamic/fake"

	"github.com/opspilot/kubeagent/internal/kube"
)

func testMapper() *meta.DefaultRESTMapper {
	mapper := meta.NewDefaultRESTMapper(nil)
	mapper.Add(schema.GroupVersionKind{Group: "apps", Version: "v1", Kind: "Deployment"}, meta.RESTScopeNamespace)
	mapper.Add(schema.GroupVersionKind{Version: "v1", Kind: "Pod"}, meta.RESTScopeNamespace)
	mapper.Add(schema.GroupVersionKind{Version: "v1", Kind: "Namespace"}, meta.RESTScopeRoot)
	return mapper
}

func testDynamicClient() *dynamicfake.FakeDynamicClient {
	scheme := runtime.NewScheme()
	return dynamicfake.NewSimpleDynamicClientWithCustomListKinds(scheme, map[schema.GroupVersionResource]string{
		{Group: "apps", Version: "v1", Resource: "deployments"}: "DeploymentList",
		{Version: "v1", Resource: "pods"}:                       "PodList",
		{Version: "v1", Resource: "namespaces"}:                 "NamespaceList",
	})
}

func TestDecodeManifest(t *testing.T) {
	cases := []struct {
		name     string
		manifest string
		wantErr  string
	}{
		{
			name:     "valid deployment",
			manifest: "apiVersion: apps/v1\nkind: Deployment\nmetadata:\n  name: nginx\n",
		},
		{
			name:     "missing apiVersion",
			manifest: "kind: Deployment\nmetadata:\n  name: nginx\n",
			wantErr:  "apiVersion",
		},
		{
			name:     "missing kind",
			manifest: "apiVersion: v1\nmetadata:\n  name: nginx\n",
			wantErr:  "kind",
		},
		{
			name:     "missing name",
			manifest: "apiVersion: v1\nkind: Pod\nmetadata: {}\n",
			wantErr:  "metadata.name",
		},
		{
			name:     "not yaml",
			manifest: "{{{",
			wantErr:  "parse manifest",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			obj, err := kube.DecodeManifest(tc.manifest)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected err: %v", err)
				}
				if obj.GetKind() == "" {
					t.Fatal("decoded object lost its kind")
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("want error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestDecodeManifest_GenerateNameAccepted(t *testing.T) {
	manifest := "apiVersion: v1\nkind: Pod\nmetadata:\n  generateName: worker-\n"
	if _, err := kube.DecodeManifest(manifest); err != nil {
		t.Fatalf("generateName should satisfy the name check: %v", err)
	}
}

func TestApply_DefaultsNamespace(t *testing.T) {
	dyn := testDynamicClient()
	ap := kube.NewApplierFor(dyn, testMapper())

	obj, err := kube.DecodeManifest("apiVersion: apps/v1\nkind: Deployment\nmetadata:\n  name: nginx\n")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	msg, err := ap.Apply(context.Background(), obj)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if msg != "applied Deployment nginx in namespace default" {
		t.Fatalf("unexpected confirmation: %q", msg)
	}

	gvr := schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "deployments"}
	got, err := dyn.Resource(gvr).Namespace("default").Get(context.Background(), "nginx", metav1.GetOptions{})
	if err != nil {
		t.Fatalf("object not created in default namespace: %v", err)
	}
	if got.GetNamespace() != "default" {
		t.Fatalf("want namespace default, got %q", got.GetNamespace())
	}
}

func TestApply_KeepsExplicitNamespace(t *testing.T) {
	dyn := testDynamicClient()
	ap := kube.NewApplierFor(dyn, testMapper())

	obj, err := kube.DecodeManifest("apiVersion: v1\nkind: Pod\nmetadata:\n  name: web\n  namespace: staging\n")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	msg, err := ap.Apply(context.Background(), obj)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !strings.Contains(msg, "in namespace staging") {
		t.Fatalf("confirmation should name the namespace: %q", msg)
	}
}

func TestApply_ClusterScoped(t *testing.T) {
	dyn := testDynamicClient()
	ap := kube.NewApplierFor(dyn, testMapper())

	obj, err := kube.DecodeManifest("apiVersion: v1\nkind: Namespace\nmetadata:\n  name: staging\n")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	msg, err := ap.Apply(context.Background(), obj)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if msg != "applied Namespace staging" {
		t.Fatalf("cluster-scoped confirmation should carry no namespace: %q", msg)
	}
}

func TestApply_UnknownKind(t *testing.T) {
	dyn := testDynamicClient()
	ap := kube.NewApplierFor(dyn, testMapper())

	obj, err := kube.DecodeManifest("apiVersion: example.com/v1\nkind: Widget\nmetadata:\n  name: w\n")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := ap.Apply(context.Background(), obj); err == nil {
		t.Fatal("want mapping error for unknown kind")
	}
}
