package kube

import (
	"fmt"

	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/restmapper"
	"k8s.io/client-go/tools/clientcmd"
)

// RESTConfig resolves cluster access the standard way: kubeconfig loading
// rules first (KUBECONFIG, then the default path), in-cluster config as the
// fallback.
func RESTConfig() (*rest.Config, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	cfg, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, &clientcmd.ConfigOverrides{}).ClientConfig()
	if err == nil {
		return cfg, nil
	}
	if icfg, ierr := rest.InClusterConfig(); ierr == nil {
		return icfg, nil
	}
	return nil, fmt.Errorf("resolve cluster config: %w", err)
}

// NewApplier builds an Applier from a REST config, backed by the dynamic
// client and a discovery-based REST mapper.
func NewApplier(cfg *rest.Config) (*Applier, error) {
	dyn, mapper, err := dynamicAndMapper(cfg)
	if err != nil {
		return nil, err
	}
	return &Applier{dyn: dyn, mapper: mapper}, nil
}

// NewQuerier builds a Querier from a REST config.
func NewQuerier(cfg *rest.Config) (*Querier, error) {
	dyn, mapper, err := dynamicAndMapper(cfg)
	if err != nil {
		return nil, err
	}
	return &Querier{dyn: dyn, mapper: mapper}, nil
}

func dynamicAndMapper(cfg *rest.Config) (dynamic.Interface, meta.RESTMapper, error) {
	dyn, err := dynamic.NewForConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("dynamic client: %w", err)
	}
	disc, err := discovery.NewDiscoveryClientForConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("discovery client: %w", err)
	}
	groupResources, err := restmapper.GetAPIGroupResources(disc)
	if err != nil {
		return nil, nil, fmt.Errorf("discover API groups: %w", err)
	}
	return dyn, restmapper.NewDiscoveryRESTMapper(groupResources), nil
}
