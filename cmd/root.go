package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd serves the API when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:          "imghost",
	Short:        "Image hosting service with a key-value metadata index and object storage",
	SilenceUsage: true,
	RunE:         runServe,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
