package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/elio-bot/elio/internal/retrieval"
)

var (
	searchLimit  int
	searchFormat string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search captured knowledge by meaning",
	Long: `Search the knowledge base for texts similar in meaning to the query.

Examples:
  # Basic search
  elio search "goroutine leaks"

  # Limit results
  elio search "error handling" --limit 5

  # JSON output for scripting
  elio search "deployment" --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchLimit, "limit", 5, "Maximum number of results")
	searchCmd.Flags().StringVar(&searchFormat, "format", "text", "Output format: text or json")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	query := args[0]
	cfg := GetConfig()

	svc, err := buildServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	texts, err := svc.reader.SemanticSearch(ctx, query, searchLimit)
	if errors.Is(err, retrieval.ErrNoResults) {
		fmt.Println("No results found.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchFormat == "json" {
		output, err := json.MarshalIndent(texts, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Found %d results:\n\n", len(texts))
	for i, text := range texts {
		fmt.Printf("─── Result %d ───\n%s\n\n", i+1, text)
	}
	return nil
}
