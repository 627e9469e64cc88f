package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	cmd := newVersionCmd()
	output := &bytes.Buffer{}
	cmd.SetOut(output)

	require.NoError(t, cmd.Execute())

	// Built from a test binary the module version may be unknown; either way
	// something is printed.
	assert.Contains(t, output.String(), "version")
}
