// Package transcript contains the command ingesting speech transcripts.
package transcript

import (
	"context"
	"io"
	"os"
	"strings"

	"scanledger/cmd/common"
	"scanledger/cmd/root"
	"scanledger/internal/logging"
	"scanledger/internal/pipeline"

	"github.com/spf13/cobra"
)

var sourceAudio string

// Cmd is the transcript command
var Cmd = &cobra.Command{
	Use:   "transcript <file|->",
	Short: "Ingest a voice-note transcript",
	Long: `Ingest the text transcript of a recorded voice note, e.g. "昨天在星巴克
花了35元" or "spent 12.50 at Joe's Diner yesterday". Reads the transcript
from a file, or from standard input when the argument is "-". The transcript
is segmented and run through field extraction like any other source.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var data []byte
		var err error
		if args[0] == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			root.Log.Fatalf("Failed to read transcript: %v", err)
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			root.Log.Fatal("Transcript is empty")
		}

		p, err := common.BuildPipeline(root.Cfg, root.Log)
		if err != nil {
			root.Log.Fatalf("Failed to build pipeline: %v", err)
		}

		ref := sourceAudio
		if ref == "" && args[0] != "-" {
			ref = args[0]
		}
		resp, err := p.Process(context.Background(), pipeline.Request{
			Transcript:  text,
			Text:        root.SharedFlags.Note,
			SourceAudio: ref,
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
	Cmd.Flags().StringVar(&sourceAudio, "audio", "", "Original audio reference recorded with each row (defaults to the transcript file)")
}
