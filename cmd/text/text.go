// Package text contains the command ingesting typed notes.
package text

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

// Cmd is the text command
var Cmd = &cobra.Command{
	Use:   "text <note...>",
	Short: "Ingest a typed expense note",
	Long: `Ingest a typed expense note directly, e.g.
  scanledger text "昨天在星巴克花了35元"
The note is extracted as a single transaction and appended to the ledger.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		note := strings.TrimSpace(strings.Join(args, " "))
		if note == "" {
			root.Log.Fatal("Note is empty")
		}

		p, err := common.BuildPipeline(root.Cfg, root.Log)
		if err != nil {
			root.Log.Fatalf("Failed to build pipeline: %v", err)
		}

		resp, err := p.Process(context.Background(), pipeline.Request{Text: note})
		if err != nil {
			common.ReportError(os.Stderr, err, logging.NewLogrusAdapterFromLogger(root.Log))
			os.Exit(1)
		}
		if err := common.PrintResponse(os.Stdout, resp); err != nil {
			root.Log.Errorf("Failed to print response: %v", err)
		}
	},
}
