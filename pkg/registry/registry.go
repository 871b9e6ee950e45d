// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// Save writes the registry as indented JSON, creating parent directories.
func Save(reg *ActivityRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

func (r *ActivityRegistry) Find(id string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].ID == id {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// Validate checks the fields every activity needs and rejects duplicate ids.
func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool, len(r.Activities))
	for _, a := range r.Activities {
		if a.ID == "" {
			return fmt.Errorf("activity missing required field: id")
		}
		if ids[a.ID] {
			return fmt.Errorf("duplicate activity id: %s", a.ID)
		}
		ids[a.ID] = true

		if a.DisplayName == "" {
			return fmt.Errorf("activity %s missing required field: displayName", a.ID)
		}
		if a.TaskType == "" {
			return fmt.Errorf("activity %s missing required field: taskType", a.ID)
		}
		if a.Category == "" {
			return fmt.Errorf("activity %s missing required field: category", a.ID)
		}
	}
	return nil
}

// Diff reports how actual departs from expected. Only the fields a process
// model depends on are compared: task type, timeout, retries and error codes.
func Diff(expected, actual *ActivityRegistry) []string {
	var out []string
	for _, want := range expected.Activities {
		got, ok := actual.Find(want.ID)
		if !ok {
			out = append(out, fmt.Sprintf("%s: missing", want.ID))
			continue
		}
		if got.TaskType != want.TaskType {
			out = append(out, fmt.Sprintf("%s: taskType %q, want %q", want.ID, got.TaskType, want.TaskType))
		}
		if got.Timeout != want.Timeout {
			out = append(out, fmt.Sprintf("%s: timeout %s, want %s", want.ID, got.Timeout, want.Timeout))
		}
		if got.Retries != want.Retries {
			out = append(out, fmt.Sprintf("%s: retries %d, want %d", want.ID, got.Retries, want.Retries))
		}
		if g, w := sortedJoin(got.ErrorCodes), sortedJoin(want.ErrorCodes); g != w {
			out = append(out, fmt.Sprintf("%s: errorCodes [%s], want [%s]", want.ID, g, w))
		}
	}
	for _, a := range actual.Activities {
		if _, ok := expected.Find(a.ID); !ok {
			out = append(out, fmt.Sprintf("%s: unknown activity", a.ID))
		}
	}
	return out
}

func sortedJoin(values []string) string {
	c := append([]string(nil), values...)
	sort.Strings(c)
	return strings.Join(c, ",")
}
