package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRegistry() *ActivityRegistry {
	return &ActivityRegistry{
		Version: "1.0.0",
		Activities: []Activity{
			{
				ID: "classify-intent", DisplayName: "Classify Intent", Category: "chat",
				TaskType: "classify-intent", Timeout: "5s", Retries: 3,
				ErrorCodes: []string{"EMPTY_MESSAGE", "INVALID_INPUT"},
			},
			{
				ID: "compose-reply", DisplayName: "Compose Reply", Category: "chat",
				TaskType: "compose-reply", Timeout: "5s", Retries: 3,
				ErrorCodes: []string{"INVALID_DOMAIN"},
			},
		},
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "activity-registry.json")
	require.NoError(t, Save(sampleRegistry(), path))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, sampleRegistry(), reg)
}

func TestValidate(t *testing.T) {
	require.NoError(t, sampleRegistry().Validate())

	tests := []struct {
		name    string
		mutate  func(r *ActivityRegistry)
		wantErr string
	}{
		{"empty", func(r *ActivityRegistry) { r.Activities = nil }, "no activities"},
		{"duplicate", func(r *ActivityRegistry) { r.Activities[1].ID = "classify-intent" }, "duplicate activity id"},
		{"no task type", func(r *ActivityRegistry) { r.Activities[0].TaskType = "" }, "taskType"},
		{"no category", func(r *ActivityRegistry) { r.Activities[1].Category = "" }, "category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := sampleRegistry()
			tt.mutate(reg)
			err := reg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDiff(t *testing.T) {
	assert.Empty(t, Diff(sampleRegistry(), sampleRegistry()))

	actual := sampleRegistry()
	actual.Activities[0].ErrorCodes = []string{"INVALID_INPUT", "EMPTY_MESSAGE"} // order does not matter
	actual.Activities[1].Timeout = "10s"
	actual.Activities = append(actual.Activities, Activity{ID: "legacy-task"})
	assert.Equal(t, []string{
		"compose-reply: timeout 10s, want 5s",
		"legacy-task: unknown activity",
	}, Diff(sampleRegistry(), actual))

	missing := sampleRegistry()
	missing.Activities = missing.Activities[:1]
	assert.Equal(t, []string{"compose-reply: missing"}, Diff(sampleRegistry(), missing))
}
