package main

import (
	"fmt"
	"github.com/spf13/cobra"
	"os"
	"path/filepath"
)

var videoWatch bool

var videoCmd = &cobra.Command{
	Use:   "video <file>",
	Short: "Upload a video and split it into stored frames",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()

		path := filepath.Clean(args[0])
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		created, err := client.UploadVideo(filepath.Base(path), content)
		if err != nil {
			return err
		}
		fmt.Printf("Job %s queued (%s)\n", created.JobID, created.Kind)

		if !videoWatch {
			return nil
		}
		return watchJob(cmd.Context(), client, created.JobID, pollInterval)
	},
}

func init() {
	videoCmd.Flags().BoolVarP(&videoWatch, "watch", "w", false, "Follow the job until it finishes")
	rootCmd.AddCommand(videoCmd)
}
