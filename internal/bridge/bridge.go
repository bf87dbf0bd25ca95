// Package bridge runs blocking, side-effecting operations on an isolated
// worker so callers already inside a non-reentrant execution context never
// host the work themselves. One fresh worker per call, one outcome per
// worker, handed back over a one-shot channel.
package bridge

import (
	"context"
	"fmt"
	"runtime"
)

// BridgeError reports that the isolated worker failed to produce an outcome
// (it panicked before delivering a result).
type BridgeError struct {
	Reason string
}

func (e *BridgeError) Error() string {
	return fmt.Sprintf("isolated worker failed: %s", e.Reason)
}

type outcome[T any] struct {
	val T
	err error
}

// RunIsolated executes op on a fresh worker pinned to its own OS thread and
// blocks until the single outcome arrives. The worker gets its own background
// context, never the caller's: its run-loop must not inherit cancellation or
// values from an execution context it exists to escape.
//
// Exactly one outcome is ever sent, from a defer that always runs: a panic
// inside op is recovered into *BridgeError, and a worker that dies without
// returning (runtime.Goexit) is reported the same way, so the receive can not
// hang on a dead worker. Workers are single-use; there is no pooling.
func RunIsolated[T any](op func(ctx context.Context) (T, error)) (T, error) {
	ch := make(chan outcome[T], 1)

	go func() {
		runtime.LockOSThread()
		// The thread is discarded with the worker; no Unlock on purpose.
		var (
			out  outcome[T]
			done bool
		)
		defer func() {
			switch r := recover(); {
			case r != nil:
				out = outcome[T]{err: &BridgeError{Reason: fmt.Sprintf("panic: %v", r)}}
			case !done:
				out = outcome[T]{err: &BridgeError{Reason: "worker exited without an outcome"}}
			}
			ch <- out
		}()
		out.val, out.err = op(context.Background())
		done = true
	}()

	out := <-ch
	return out.val, out.err
}
