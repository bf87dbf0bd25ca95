package fsops

import (
	"os"

	"github.com/opspilot/kubeagent/internal/safety"
)

// ReadManifest reads a file addressed by a relative path under the manifest
// library root. It validates the path via safety and returns a ToolError JSON
// on policy violations.
func ReadManifest(relPath string) (string, error) {
	root, err := libraryRoot()
	if err != nil {
		return "", err
	}

	absPath, err := safety.ValidateRelPath(root, relPath)
	if err != nil {
		return "", err // propagate ToolError or standard error
	}

	fi, err := os.Stat(absPath)
	if err != nil {
		return "", err
	}
	if fi.IsDir() {
		return "", safety.ToolError{Code: "ERR_NOT_A_FILE", Message: "path is a directory"}
	}

	b, err := os.ReadFile(absPath)
	if err != nil {
		return "", err // standard error for I/O issues (not policy)
	}
	return string(b), nil
}
