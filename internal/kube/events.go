package kube

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// PodWarning is a Warning event whose involved object is a Pod.
type PodWarning struct {
	Pod       string
	Namespace string
	Reason    string
	Message   string
}

// WatchPodWarnings streams Warning events for Pods in the given namespace to
// sink until ctx is done. The watch is re-established when the server closes
// the event channel; the function only returns a non-nil error when a watch
// cannot be (re)opened.
func WatchPodWarnings(ctx context.Context, client kubernetes.Interface, namespace string, sink func(PodWarning)) error {
	for {
		w, err := client.CoreV1().Events(namespace).Watch(ctx, metav1.ListOptions{})
		if err != nil {
			return fmt.Errorf("watch events in %q: %w", namespace, err)
		}

		ch := w.ResultChan()
	recv:
		for {
			select {
			case <-ctx.Done():
				w.Stop()
				return nil
			case ev, ok := <-ch:
				if !ok {
					// Server closed the stream; reconnect.
					break recv
				}
				e, ok := ev.Object.(*corev1.Event)
				if !ok {
					continue
				}
				if e.Type != corev1.EventTypeWarning || e.InvolvedObject.Kind != "Pod" {
					continue
				}
				sink(PodWarning{
					Pod:       e.InvolvedObject.Name,
					Namespace: e.InvolvedObject.Namespace,
					Reason:    e.Reason,
					Message:   e.Message,
				})
			}
		}
		w.Stop()
	}
}
