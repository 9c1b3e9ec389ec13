package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"imghost/app"
	"imghost/config"
	"imghost/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP API and image server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.HTTP.Port = port
	}

	l := logger.New(cfg.Log.Level)
	if err := app.Run(cfg, l); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)

	for _, c := range []*cobra.Command{rootCmd, serveCmd} {
		c.Flags().StringP("port", "p", "", "HTTP port, overrides HTTP_PORT")
	}
}
