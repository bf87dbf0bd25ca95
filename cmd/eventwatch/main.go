package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"k8s.io/client-go/kubernetes"

	"github.com/opspilot/kubeagent/internal/kube"
)

func main() {
	namespace := os.Getenv("KA_WATCH_NAMESPACE")
	if namespace == "" {
		namespace = "default"
	}

	cfg, err := kube.RESTConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	client, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: clientset: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)
	go func() {
		<-sigch
		fmt.Println("\nExiting...")
		cancel()
	}()

	fmt.Printf("Watching Pod warning events in %q (Ctrl-C to quit)\n", namespace)
	err = kube.WatchPodWarnings(ctx, client, namespace, func(w kube.PodWarning) {
		fmt.Printf("Warning: %s %s %s %s\n", w.Pod, w.Namespace, w.Reason, w.Message)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
