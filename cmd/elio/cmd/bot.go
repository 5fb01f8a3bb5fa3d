package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/elio-bot/elio/internal/bot"
	"github.com/elio-bot/elio/internal/briefing"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Discord bot",
	Long: `Connect to Discord and capture knowledge from messages.

The bot watches for links, images, and YouTube URLs in messages, runs them
through the capture pipeline, and replies with what it learned. It also
serves the /brief command, answers "@web <query>" messages from the vector
index, and posts a daily briefing to the configured channel.

Example:
  ELIO_DISCORD_TOKEN=... ELIO_GEMINI_API_KEY=... elio bot`,
	RunE: runBot,
}

func init() {
	rootCmd.AddCommand(botCmd)
}

func runBot(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()

	svc, err := buildServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	briefer := briefing.New(svc.store, svc.llm)

	b, err := bot.New(bot.Config{
		Token:             cfg.Discord.Token,
		BriefingChannelID: cfg.Discord.BriefingChannelID,
		BriefingTime:      cfg.Discord.BriefingTime,
	}, svc.pipeline, svc.reader, briefer, slog.Default())
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	return b.Run(ctx)
}
