package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/elio-bot/elio/internal/briefing"
)

var briefRaw bool

var briefCmd = &cobra.Command{
	Use:   "brief",
	Short: "Print a digest of recently captured knowledge",
	Long: `Summarize the most recently captured entries.

By default the entries are condensed by the model into a short bullet list,
the same digest the /brief Discord command produces. With --raw the entries
are listed one per line without a model round-trip.

Examples:
  elio brief
  elio brief --raw`,
	RunE: runBrief,
}

func init() {
	rootCmd.AddCommand(briefCmd)

	briefCmd.Flags().BoolVar(&briefRaw, "raw", false, "List entries without summarizing")
}

func runBrief(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()

	svc, err := buildServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	briefer := briefing.New(svc.store, svc.llm)

	var digest string
	if briefRaw {
		digest, err = briefer.Generate(ctx)
	} else {
		digest, err = briefer.SummarizeRecent(ctx)
	}
	if err != nil {
		return fmt.Errorf("generate briefing: %w", err)
	}

	fmt.Println(digest)
	return nil
}
