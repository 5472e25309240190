package clarify_test

import (
	"testing"

	"scanledger/cmd/clarify"

	"github.com/stretchr/testify/assert"
)

func TestClarifyCommand_Metadata(t *testing.T) {
	assert.Equal(t, "clarify <pending-id> <text...>", clarify.Cmd.Use)
	assert.Contains(t, clarify.Cmd.Short, "pending")
	assert.Contains(t, clarify.Cmd.Long, "pending id")
	assert.NotNil(t, clarify.Cmd.Run)
}
