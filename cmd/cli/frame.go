package main

import (
	"PersonTracking/internal/api/tracking"
	"encoding/base64"
	"fmt"
	"github.com/spf13/cobra"
	"os"
	"path/filepath"
	"text/tabwriter"
)

var framePrompt string

var frameCmd = &cobra.Command{
	Use:   "frame <image> [image...]",
	Short: "Detect and match people in one or more still images",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFrame(newClient(), args, framePrompt)
	},
}

func init() {
	frameCmd.Flags().StringVarP(&framePrompt, "prompt", "p", "", "Description of the person to look for")
	_ = frameCmd.MarkFlagRequired("prompt")
	rootCmd.AddCommand(frameCmd)
}

func runFrame(client *apiClient, paths []string, prompt string) error {
	req := tracking.ProcessFrameRequest{Prompt: prompt}
	for _, path := range paths {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		req.Images = append(req.Images, base64.StdEncoding.EncodeToString(data))
	}

	resp, err := client.ProcessFrame(req)
	if err != nil {
		return err
	}

	fmt.Printf("Request %s: %s\n", resp.RequestID, resp.CriteriaSummary)
	for _, warning := range resp.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}

	if len(resp.Detections) == 0 {
		fmt.Println("No matching people found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "TRACK\tSCORE\tBOX\tDESCRIPTION")
	fmt.Fprintln(w, "-----\t-----\t---\t-----------")
	for _, d := range resp.Detections {
		box := d.BoundingBox
		fmt.Fprintf(w, "%s\t%.2f\t%.0f,%.0f %.0fx%.0f\t%s\n",
			d.TrackingID, d.MatchScore, box.X, box.Y, box.Width, box.Height, d.Description)
	}
	w.Flush()
	fmt.Printf("%d match(es) in %d ms\n", resp.TotalMatches, resp.ProcessingTimeMs)
	return nil
}
