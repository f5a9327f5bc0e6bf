// Command debugbar-demo serves a small site with the debug bar enabled.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/evan-idocoding/debugbar/ops"
)

var rootCmd = &cobra.Command{
	Use:          "debugbar-demo",
	Short:        "Demo site for the debug bar middleware",
	SilenceUsage: true,
}

func main() {
	rootCmd.Version = ops.Version()
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
