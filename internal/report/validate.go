package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Problem describes an entry of a saved run that lacks required keys.
type Problem struct {
	// Index is the zero-based position of the entry in the url list
	Index   int
	Missing []string
}

func (p Problem) String() string {
	return fmt.Sprintf("entry %d: missing %v", p.Index, p.Missing)
}

// ValidateFile checks that every entry of the JSON run at path carries the
// RequiredKeys. It accepts both a full payload and a bare array of entries.
// The returned error is reserved for unreadable or malformed files.
func ValidateFile(path string) (int, []Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, nil, err
	}
	return Validate(data)
}

// Validate is ValidateFile over raw JSON. It returns the number of entries checked.
func Validate(data []byte) (int, []Problem, error) {
	var entries []map[string]json.RawMessage

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return 0, nil, fmt.Errorf("parsing entries: %w", err)
		}
	} else {
		var payload struct {
			URLs []map[string]json.RawMessage `json:"urls"`
		}
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return 0, nil, fmt.Errorf("parsing payload: %w", err)
		}
		entries = payload.URLs
	}

	var problems []Problem
	for i, e := range entries {
		var missing []string
		for _, k := range RequiredKeys {
			if _, ok := e[k]; !ok {
				missing = append(missing, k)
			}
		}
		if len(missing) > 0 {
			problems = append(problems, Problem{Index: i, Missing: missing})
		}
	}
	return len(entries), problems, nil
}
