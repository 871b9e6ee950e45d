package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"facility-chat/internal/common/validation"
	ci "facility-chat/internal/workers/chat/classify-intent"
	cr "facility-chat/internal/workers/chat/compose-reply"
	hcm "facility-chat/internal/workers/chat/handle-chat-message"
	qfd "facility-chat/internal/workers/chat/query-facility-data"
	"facility-chat/pkg/registry"
)

const (
	catalogVersion = "1.0.0"
	defaultRetries = 3
)

func activity(taskType, displayName, description string, schema validation.JSONSchema, timeout time.Duration, outputs []string, errorCodes ...string) registry.Activity {
	return registry.Activity{
		ID:          taskType,
		DisplayName: displayName,
		Description: description,
		Category:    "chat",
		TaskType:    taskType,
		InputSchema: schema,
		Outputs:     outputs,
		ErrorCodes:  append([]string{"INVALID_INPUT"}, errorCodes...),
		Timeout:     timeout.String(),
		Retries:     defaultRetries,
	}
}

// workerCatalog describes the job workers this binary registers.
func workerCatalog() *registry.ActivityRegistry {
	return &registry.ActivityRegistry{
		Version: catalogVersion,
		Activities: []registry.Activity{
			activity(ci.TaskType, "Classify Intent",
				"Classifies a chat message into a facility data domain",
				ci.GetInputSchema(), ci.LoadConfig().Timeout,
				[]string{"intent", "needsData"},
				"EMPTY_MESSAGE", "CLASSIFICATION_AMBIGUOUS"),
			activity(qfd.TaskType, "Query Facility Data",
				"Fetches one domain from the configured data source",
				qfd.GetInputSchema(), qfd.LoadConfig().Timeout,
				[]string{"dataAvailable", "data", "fetchError"},
				"INVALID_DOMAIN"),
			activity(cr.TaskType, "Compose Reply",
				"Formats fetched data into a chat reply",
				cr.GetInputSchema(), cr.LoadConfig().Timeout,
				[]string{"reply", "html", "hasReply", "requestCredentials"},
				"INVALID_DOMAIN"),
			activity(hcm.TaskType, "Handle Chat Message",
				"Runs the whole chat pipeline for one message",
				hcm.GetInputSchema(), hcm.LoadConfig().Timeout,
				[]string{"sessionId", "outcome", "intent", "text", "html", "chart", "followUps", "requestCredentials"},
				"EMPTY_MESSAGE"),
		},
	}
}

func newWorkersCmd() *cobra.Command {
	var checkPath, writePath string

	cmd := &cobra.Command{
		Use:   "workers",
		Short: "Print the job worker catalog or check a registry file against it",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := workerCatalog()

			switch {
			case writePath != "":
				catalog.LastUpdated = time.Now().UTC().Format(time.RFC3339)
				if err := registry.Save(catalog, writePath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d activities to %s\n", len(catalog.Activities), writePath)
				return nil

			case checkPath != "":
				reg, err := registry.LoadRegistry(checkPath)
				if err != nil {
					return fmt.Errorf("failed to load registry: %w", err)
				}
				if err := reg.Validate(); err != nil {
					return err
				}
				if diff := registry.Diff(catalog, reg); len(diff) > 0 {
					return fmt.Errorf("registry %s is out of date:\n  %s", checkPath, strings.Join(diff, "\n  "))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registry matches. Found %d activities.\n", len(reg.Activities))
				return nil
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(catalog)
		},
	}

	cmd.Flags().StringVar(&checkPath, "check", "", "Registry file to compare with the built-in catalog")
	cmd.Flags().StringVar(&writePath, "write", "", "Write the catalog to this registry file")
	return cmd
}
