package main

import (
	"fmt"
	"os"

	"scanledger/cmd/clarify"
	ledgercmd "scanledger/cmd/ledger"
	"scanledger/cmd/receipt"
	"scanledger/cmd/root"
	"scanledger/cmd/text"
	"scanledger/cmd/transcript"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(receipt.Cmd)
	root.Cmd.AddCommand(transcript.Cmd)
	root.Cmd.AddCommand(text.Cmd)
	root.Cmd.AddCommand(clarify.Cmd)
	root.Cmd.AddCommand(ledgercmd.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
