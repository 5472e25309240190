package receipt_test

import (
	"testing"

	"scanledger/cmd/receipt"

	"github.com/stretchr/testify/assert"
)

func TestReceiptCommand_Metadata(t *testing.T) {
	assert.Equal(t, "receipt <recognition.json>", receipt.Cmd.Use)
	assert.Contains(t, receipt.Cmd.Short, "OCR")
	assert.Contains(t, receipt.Cmd.Long, "bounding box")
	assert.NotNil(t, receipt.Cmd.Run)
}

func TestReceiptCommand_Flags(t *testing.T) {
	flag := receipt.Cmd.Flags().Lookup("image")
	assert.NotNil(t, flag)
}
