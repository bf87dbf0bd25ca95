package fsops

import (
	"os"
	"strings"

	"github.com/opspilot/kubeagent/internal/safety"
)

// ListManifests lists non-recursive entries for a relative directory under
// the library root, keeping only YAML files; directories are suffixed with
// "/" so the model can descend into them.
func ListManifests(relDir string) ([]string, error) {
	root, err := libraryRoot()
	if err != nil {
		return nil, err
	}

	if relDir == "" {
		relDir = "."
	}
	absDir, err := safety.ValidateRelPath(root, relDir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			names = append(names, name+"/")
			continue
		}
		lower := strings.ToLower(name)
		if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
			names = append(names, name)
		}
	}
	return names, nil
}
