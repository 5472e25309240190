// Package clarify contains the command completing pending records.
package clarify

import (
	"context"
	"os"
	"strings"

	"scanledger/cmd/common"
	"scanledger/cmd/root"
	"scanledger/internal/logging"
	"scanledger/internal/pipeline"

	"github.com/spf13/cobra"
)

// Cmd is the clarify command
var Cmd = &cobra.Command{
	Use:   "clarify <pending-id> <text...>",
	Short: "Complete a pending record with clarification text",
	Long: `When extraction leaves required fields empty, the request is parked under
a pending id. This command appends clarification text to exactly the cached
segments that were incomplete and re-runs extraction, e.g.
  scanledger clarify 3f2a9c... "at Joe's Diner"
An unknown or already-resolved pending id fails with a not-found error.`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		pendingID := args[0]
		clarification := strings.TrimSpace(strings.Join(args[1:], " "))

		p, err := common.BuildPipeline(root.Cfg, root.Log)
		if err != nil {
			root.Log.Fatalf("Failed to build pipeline: %v", err)
		}

		resp, err := p.Process(context.Background(), pipeline.Request{
			PendingID: pendingID,
			Text:      clarification,
		})
		if err != nil {
			common.ReportError(os.Stderr, err, logging.NewLogrusAdapterFromLogger(root.Log))
			os.Exit(1)
		}
		if err := common.PrintResponse(os.Stdout, resp); err != nil {
			root.Log.Errorf("Failed to print response: %v", err)
		}
	},
}
