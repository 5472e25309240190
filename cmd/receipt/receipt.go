// Package receipt contains the command ingesting OCR recognition output.
package receipt

import (
	"context"
	"os"

	"scanledger/cmd/common"
	"scanledger/cmd/root"
	"scanledger/internal/logging"
	"scanledger/internal/pipeline"
	"scanledger/internal/recognizer"

	"github.com/spf13/cobra"
)

var sourceImage string

// Cmd is the receipt command
var Cmd = &cobra.Command{
	Use:   "receipt <recognition.json>",
	Short: "Ingest a receipt screenshot from OCR recognition output",
	Long: `Ingest the JSON output of an OCR engine run over a receipt or payment-app
screenshot. The payload carries recognized lines, each either a plain string
or an object with text, a four-value bounding box and a confidence score,
plus an optional raw_text field. Positioned lines are reconstructed into
reading-order rows and split into one segment per transaction before field
extraction.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			root.Log.Fatalf("Failed to read recognition file: %v", err)
		}
		result, err := recognizer.Decode(data)
		if err != nil {
			root.Log.Fatalf("Failed to decode recognition payload: %v", err)
		}

		p, err := common.BuildPipeline(root.Cfg, root.Log)
		if err != nil {
			root.Log.Fatalf("Failed to build pipeline: %v", err)
		}

		ref := sourceImage
		if ref == "" {
			ref = args[0]
		}
		resp, err := p.Process(context.Background(), pipeline.Request{
			Recognition: result,
			Text:        root.SharedFlags.Note,
			SourceImage: ref,
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

func init() {
	Cmd.Flags().StringVar(&sourceImage, "image", "", "Original image reference recorded with each row (defaults to the recognition file)")
}
