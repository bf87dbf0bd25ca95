// Package fsops provides sandboxed, read-only access to the local manifest
// library under KA_MANIFEST_ROOT. The agent never writes to the library;
// changes flow toward the cluster, not the local filesystem.
package fsops

import (
	"os"
	"sync"

	"github.com/opspilot/kubeagent/internal/safety"
)

var (
	rootOnce    sync.Once
	absRoot     string
	initRootErr error
)

func initRoot() {
	absRoot, initRootErr = safety.InitLibraryRoot(os.Getenv("KA_MANIFEST_ROOT"))
}

// libraryRoot returns the cached absolute library root, initialising it once on first use.
func libraryRoot() (string, error) {
	rootOnce.Do(initRoot)
	return absRoot, initRootErr
}
