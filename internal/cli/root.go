// Package cli implements accountctl, the offline companion to the server: it
// validates account documents, draws samples and prints lifecycle chains
// without touching any store.
package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "accountctl",
		Short:        "Validate, sample and walk account lifecycle documents",
		SilenceUsage: true,
	}
	cmd.AddCommand(decodeCmd(), sampleCmd(), lifecycleCmd())
	return cmd
}

func hasYAMLExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
