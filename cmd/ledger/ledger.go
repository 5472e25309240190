// Package ledger contains the commands inspecting the committed ledger.
package ledger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"scanledger/cmd/root"
	internalledger "scanledger/internal/ledger"
	"scanledger/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
)

var exportOutput string

// Cmd is the ledger command group
var Cmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect the committed ledger",
	Long:  `Read the ledger CSV file and print or export its records.`,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print ledger records as JSON",
	Run: func(cmd *cobra.Command, args []string) {
		records, err := readRecords()
		if err != nil {
			root.Log.Fatalf("Failed to read ledger: %v", err)
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		encoder.SetEscapeHTML(false)
		if err := encoder.Encode(records); err != nil {
			root.Log.Fatalf("Failed to encode records: %v", err)
		}
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export ledger records as CSV",
	Long: `Write the ledger as CSV to the given output file, or to standard output
when no output is set. Useful for piping into other tools with the schema
already migrated to the current column set.`,
	Run: func(cmd *cobra.Command, args []string) {
		records, err := readRecords()
		if err != nil {
			root.Log.Fatalf("Failed to read ledger: %v", err)
		}

		var out io.Writer = os.Stdout
		if exportOutput != "" {
			file, err := os.Create(exportOutput)
			if err != nil {
				root.Log.Fatalf("Failed to create output file: %v", err)
			}
			defer func() {
				if closeErr := file.Close(); closeErr != nil {
					root.Log.Warnf("Failed to close output file: %v", closeErr)
				}
			}()
			out = file
		}

		if err := gocsv.Marshal(records, out); err != nil {
			root.Log.Fatalf("Failed to write CSV: %v", err)
		}
		if exportOutput != "" {
			fmt.Printf("Exported %d records to %s\n", len(records), exportOutput)
		}
	},
}

func readRecords() ([]models.LedgerRecord, error) {
	store := internalledger.NewStore(root.Cfg.Ledger.CSVPath, nil)
	return store.Read()
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output CSV file (defaults to standard output)")
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(exportCmd)
}
