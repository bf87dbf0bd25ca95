// Package kube holds the cluster-facing mechanics: config resolution,
// dynamic manifest apply, resource listing, and the Pod warning-event watch.
// Everything model-generated goes through unstructured objects; no typed
// clients for workload kinds.
package kube
