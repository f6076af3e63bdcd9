package main

import (
	"PersonTracking/internal/entity"
	"context"
	"fmt"
	jsoniter "github.com/json-iterator/go"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"os"
	"time"
)

var statusWatch bool

var statusCmd = &cobra.Command{
	Use:   "status <job-id>",
	Short: "Show the state of a background job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		if statusWatch {
			return watchJob(cmd.Context(), client, args[0], pollInterval)
		}

		job, err := client.GetJob(args[0])
		if err != nil {
			return err
		}
		return printJob(job)
	},
}

func init() {
	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false, "Poll until the job finishes")
	rootCmd.AddCommand(statusCmd)
}

// watchJob polls the job until it reaches a terminal state and mirrors its
// progress onto a bar on stderr.
func watchJob(ctx context.Context, client *apiClient, jobID string, interval time.Duration) error {
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription("Waiting"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		job, err := client.GetJob(jobID)
		if err != nil {
			return err
		}

		bar.Describe(job.CurrentStep)
		_ = bar.Set(job.ProgressPercentage)

		if job.Status.IsTerminal() {
			if job.Status == entity.JobStatusCompleted {
				_ = bar.Finish()
			} else {
				_ = bar.Exit()
			}
			fmt.Fprintln(os.Stderr)
			return printJob(job)
		}

		select {
		case <-ctx.Done():
			_ = bar.Exit()
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func printJob(job *entity.Job) error {
	fmt.Printf("Job:      %s (%s)\n", job.JobID, job.Kind)
	fmt.Printf("Status:   %s %d%%\n", job.Status, job.ProgressPercentage)
	if job.CurrentStep != "" {
		fmt.Printf("Step:     %s\n", job.CurrentStep)
	}
	if job.TotalUnits > 0 {
		fmt.Printf("Units:    %d/%d\n", job.ProcessedUnits, job.TotalUnits)
	}
	for _, warning := range job.Warnings {
		fmt.Printf("Warning:  %s\n", warning)
	}
	if job.Status == entity.JobStatusFailed {
		return fmt.Errorf("job %s failed: %s", job.JobID, job.ErrorMessage)
	}

	if job.Result != nil {
		out, err := jsoniter.MarshalIndent(job.Result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		fmt.Println(string(out))
	}
	return nil
}
