package main

import (
	"fmt"
	"github.com/spf13/cobra"
)

var videosCmd = &cobra.Command{
	Use:   "videos",
	Short: "List tracking IDs of videos with stored frames",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().ListVideos()
		if err != nil {
			return err
		}

		if resp.Count == 0 {
			fmt.Println("No videos stored.")
			return nil
		}
		for _, id := range resp.TrackingIDs {
			fmt.Println(id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(videosCmd)
}
