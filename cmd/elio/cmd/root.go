package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/elio-bot/elio/internal/config"
)

var (
	cfgFile string
	verbose bool
	cfg     config.Config
)

// GetConfig returns the loaded configuration.
func GetConfig() config.Config {
	return cfg
}

var rootCmd = &cobra.Command{
	Use:   "elio",
	Short: "Elio: a personal knowledge-capture bot",
	Long: `Elio watches a Discord channel for links, images, and YouTube videos,
summarizes what it finds, and stores the result in a searchable knowledge base.

Commands:
  bot      Run the Discord bot
  capture  Capture a single URL from the command line
  search   Search captured knowledge by meaning
  brief    Print a digest of recently captured knowledge
  serve    Start the MCP server for knowledge retrieval`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig, initLogger)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func initLogger() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func initConfig() {
	// Start with defaults
	cfg = config.Defaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/elio")
		viper.AddConfigPath(".")
	}

	// Environment variable overrides
	// ELIO_DISCORD_TOKEN -> discord.token
	viper.SetEnvPrefix("ELIO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Explicitly bind nested env vars
	viper.BindEnv("discord.token", "ELIO_DISCORD_TOKEN")
	viper.BindEnv("discord.briefing_channel_id", "ELIO_DISCORD_BRIEFING_CHANNEL_ID")
	viper.BindEnv("discord.briefing_time", "ELIO_DISCORD_BRIEFING_TIME")
	viper.BindEnv("database.url", "ELIO_DATABASE_URL")
	viper.BindEnv("elasticsearch.addresses", "ELIO_ELASTICSEARCH_ADDRESSES")
	viper.BindEnv("elasticsearch.index", "ELIO_ELASTICSEARCH_INDEX")
	viper.BindEnv("elasticsearch.username", "ELIO_ELASTICSEARCH_USERNAME")
	viper.BindEnv("elasticsearch.password", "ELIO_ELASTICSEARCH_PASSWORD")
	viper.BindEnv("gemini.api_key", "ELIO_GEMINI_API_KEY")
	viper.BindEnv("gemini.model", "ELIO_GEMINI_MODEL")
	viper.BindEnv("gemini.embedding_model", "ELIO_GEMINI_EMBEDDING_MODEL")
	viper.BindEnv("scraper.timeout", "ELIO_SCRAPER_TIMEOUT")
	viper.BindEnv("scraper.user_agent", "ELIO_SCRAPER_USER_AGENT")
	viper.BindEnv("archive.endpoint", "ELIO_ARCHIVE_ENDPOINT")
	viper.BindEnv("archive.bucket", "ELIO_ARCHIVE_BUCKET")
	viper.BindEnv("archive.access_key_id", "ELIO_ARCHIVE_ACCESS_KEY_ID")
	viper.BindEnv("archive.secret_access_key", "ELIO_ARCHIVE_SECRET_ACCESS_KEY")
	viper.BindEnv("capture.timeout", "ELIO_CAPTURE_TIMEOUT")
	viper.BindEnv("mcp.name", "ELIO_MCP_NAME")
	viper.BindEnv("mcp.version", "ELIO_MCP_VERSION")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("config file error", "error", err)
		}
		// No config file - use defaults + env vars
	}

	// Unmarshal into struct (merges config file with defaults)
	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Warn("failed to parse config", "error", err)
	}

	// Handle special case: addresses as comma-separated string from env
	if addrs := os.Getenv("ELIO_ELASTICSEARCH_ADDRESSES"); addrs != "" {
		cfg.Elasticsearch.Addresses = strings.Split(addrs, ",")
	}
}
