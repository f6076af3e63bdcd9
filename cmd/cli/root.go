package main

import (
	"context"
	"fmt"
	"github.com/spf13/cobra"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Version is the CLI version.
const Version = "0.1.0"

var (
	serverURL      string
	requestTimeout time.Duration
	pollInterval   time.Duration
)

var rootCmd = &cobra.Command{
	Use:     "tracker",
	Short:   "Command line client for the person tracking API",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if serverURL == "" {
			if env := os.Getenv("TRACKER_SERVER"); env != "" {
				serverURL = env
			} else {
				serverURL = "http://localhost:3000"
			}
		}
		return nil
	},
	SilenceUsage: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newClient() *apiClient {
	return newAPIClient(serverURL, requestTimeout)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "API base URL (default: $TRACKER_SERVER or http://localhost:3000)")
	rootCmd.PersistentFlags().DurationVar(&requestTimeout, "timeout", 2*time.Minute, "Per-request timeout")
	rootCmd.PersistentFlags().DurationVar(&pollInterval, "interval", time.Second, "Polling interval used by --watch")
}
