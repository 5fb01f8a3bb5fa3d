package config

import "time"

// Config holds all application configuration.
type Config struct {
	Discord       Discord       `mapstructure:"discord"`
	Database      Database      `mapstructure:"database"`
	Elasticsearch Elasticsearch `mapstructure:"elasticsearch"`
	Gemini        Gemini        `mapstructure:"gemini"`
	Scraper       Scraper       `mapstructure:"scraper"`
	Archive       Archive       `mapstructure:"archive"`
	Capture       Capture       `mapstructure:"capture"`
	MCP           MCP           `mapstructure:"mcp"`
}

// Discord holds the bot connection and briefing settings.
type Discord struct {
	Token             string `mapstructure:"token"`
	BriefingChannelID string `mapstructure:"briefing_channel_id"`
	BriefingTime      string `mapstructure:"briefing_time"`
}

// Database holds the Postgres connection configuration.
type Database struct {
	URL string `mapstructure:"url"`
}

// Elasticsearch holds the vector index connection configuration.
type Elasticsearch struct {
	Addresses []string `mapstructure:"addresses"`
	Index     string   `mapstructure:"index"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

// Gemini holds the model configuration for summaries and embeddings.
type Gemini struct {
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding_model"`
}

// Scraper holds web scraping configuration.
type Scraper struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// Archive holds the optional S3/MinIO raw-capture archive configuration.
// An empty endpoint disables archiving.
type Archive struct {
	Endpoint        string `mapstructure:"endpoint"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Capture bounds the processing of a single URL.
type Capture struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// MCP holds MCP server configuration.
type MCP struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// Defaults returns a Config with sensible default values. Credentials have
// no defaults and must come from the environment or a config file.
func Defaults() Config {
	return Config{
		Discord: Discord{
			BriefingTime: "18:30",
		},
		Elasticsearch: Elasticsearch{
			Addresses: []string{"http://localhost:9200"},
			Index:     "scraped_content",
		},
		Gemini: Gemini{
			Model:          "gemini-2.5-flash",
			EmbeddingModel: "gemini-embedding-001",
		},
		Scraper: Scraper{
			Timeout:   30 * time.Second,
			UserAgent: "elio/1.0",
		},
		Archive: Archive{
			Bucket: "elio-captures",
		},
		Capture: Capture{
			Timeout: 2 * time.Minute,
		},
		MCP: MCP{
			Name:    "elio",
			Version: "1.0.0",
		},
	}
}
