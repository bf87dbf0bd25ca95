package memory

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/opspilot/kubeagent/internal/conversation"
)

// LoadTranscript reads a persisted turn transcript. A missing file is not an
// error; it returns a nil slice so a fresh session starts empty.
func LoadTranscript(path string) ([]conversation.Turn, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var turns []conversation.Turn
	if err := json.Unmarshal(b, &turns); err != nil {
		return nil, err
	}
	return turns, nil
}

// SaveTranscript writes the turn transcript as indented JSON.
func SaveTranscript(path string, turns []conversation.Turn) error {
	b, err := json.MarshalIndent(turns, "", " ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
