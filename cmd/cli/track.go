package main

import (
	"PersonTracking/internal/api/jobs"
	"fmt"
	"github.com/spf13/cobra"
)

var (
	trackTrackingID string
	trackPrompt     string
	trackWatch      bool
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Search the stored frames of an uploaded video for a described person",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()

		created, err := client.TrackByID(jobs.TrackByIDRequest{
			TrackingID: trackTrackingID,
			Prompt:     trackPrompt,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Job %s queued (%s)\n", created.JobID, created.Kind)

		if !trackWatch {
			return nil
		}
		return watchJob(cmd.Context(), client, created.JobID, pollInterval)
	},
}

func init() {
	trackCmd.Flags().StringVar(&trackTrackingID, "tracking-id", "", "Video tracking ID returned by the upload job")
	trackCmd.Flags().StringVarP(&trackPrompt, "prompt", "p", "", "Description of the person to look for")
	trackCmd.Flags().BoolVarP(&trackWatch, "watch", "w", false, "Follow the job until it finishes")
	_ = trackCmd.MarkFlagRequired("tracking-id")
	_ = trackCmd.MarkFlagRequired("prompt")
	rootCmd.AddCommand(trackCmd)
}
