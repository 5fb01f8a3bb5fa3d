package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var captureCmd = &cobra.Command{
	Use:   "capture [url...]",
	Short: "Capture URLs from the command line",
	Long: `Run one or more URLs through the capture pipeline without Discord.

Each URL is classified, extracted, summarized, and stored exactly as if it
had been posted in a channel. One URL failing does not stop the others.

Examples:
  elio capture https://example.com/article
  elio capture https://youtu.be/abc123 https://example.com/diagram.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCapture,
}

func init() {
	rootCmd.AddCommand(captureCmd)
}

func runCapture(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()

	svc, err := buildServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	failures := 0
	for _, url := range args {
		fmt.Printf("Capturing: %s\n", url)

		result := svc.pipeline.ProcessURL(ctx, url)
		switch {
		case result.Err != nil:
			failures++
			fmt.Printf("  Error: %v\n", result.Err)
		case result.Failed():
			failures++
			fmt.Printf("  Error: %s\n", result.Status)
		default:
			fmt.Printf("  %s: %s\n", result.Status, result.DisplayTitle())
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d URLs failed", failures, len(args))
	}
	return nil
}
