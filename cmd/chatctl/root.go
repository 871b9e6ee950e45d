package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"facility-chat/internal/chat/compose"
	"facility-chat/internal/chat/gateway"
	"facility-chat/internal/chat/intent"
	"facility-chat/internal/chat/orchestrator"
	"facility-chat/internal/common/logger"
)

// newRootCmd creates the "chatctl" command tree.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "chatctl",
		Short:         "Query facility data from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newClassifyCmd(),
		newAskCmd(),
		newWorkersCmd(),
	)
	return root
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <text>",
		Short: "Print the intent a message is classified as",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(intent.Classify(strings.Join(args, " ")))
		},
	}
}

func newAskCmd() *cobra.Command {
	var (
		dataDir      string
		sourceName   string
		disconnected bool
		asJSON       bool
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "ask <text>",
		Short: "Run one message through the chat pipeline against sample data",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.NewNoOpLogger()
			if verbose {
				log = logger.NewStructured("debug", "console")
			}

			orch := orchestrator.New(
				intent.New(intent.DefaultRules()...),
				compose.New(sourceName),
				gateway.NewSampleGateway(dataDir),
				orchestrator.WithLogger(log),
			)

			session := orchestrator.NewSession("cli", !disconnected)
			reply, err := orch.HandleMessage(cmd.Context(), session, strings.Join(args, " "))
			if err != nil {
				return err
			}

			resp := reply.Response(session.ID)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			printResponse(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "data/api", "Directory holding the sample <resource>.json files")
	cmd.Flags().StringVar(&sourceName, "source", "", "Data source name used in replies")
	cmd.Flags().BoolVar(&disconnected, "disconnected", false, "Ask as a session that has not connected yet")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the reply as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline steps to stderr")
	return cmd
}

func printResponse(w io.Writer, resp orchestrator.ChatResponse) {
	fmt.Fprintln(w, resp.Text)

	if resp.Chart != nil {
		fmt.Fprintf(w, "\n[%s chart]\n", resp.Chart.Kind)
		for _, p := range resp.Chart.Series {
			fmt.Fprintf(w, "  %-24s %v\n", p.Label, p.Value)
		}
	}
	if len(resp.FollowUps) > 0 {
		fmt.Fprintln(w, "\nTry asking:")
		for _, f := range resp.FollowUps {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}
	if resp.RequestCredentials {
		fmt.Fprintln(w, "\n(connect required: rerun without --disconnected)")
	}
}
