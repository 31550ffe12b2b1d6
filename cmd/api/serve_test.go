package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCommandReportsFlagErrors(t *testing.T) {
	err := serveCmd.RunE(&cobra.Command{Use: "bare"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port")
}

func TestServeCommandDefinesPortFlag(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Empty(t, flag.DefValue)
}
