// Package bot is the Discord surface: it listens for messages carrying
// links or images, runs them through the capture pipeline, and answers
// with what was learned. It also serves the /brief command, the "@web"
// search marker, and the scheduled daily briefing.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/elio-bot/elio/internal/briefing"
	"github.com/elio-bot/elio/internal/ingest"
	"github.com/elio-bot/elio/internal/persist"
	"github.com/elio-bot/elio/internal/retrieval"
)

// webMarker prefixes a message that should be answered from the knowledge
// base instead of captured into it.
const webMarker = "@web "

// searchResultLimit caps how many snippets an "@web" query returns.
const searchResultLimit = 3

// maxMessageLen is Discord's hard limit on message content.
const maxMessageLen = 2000

// Config holds the Discord-facing settings.
type Config struct {
	Token             string
	BriefingChannelID string
	BriefingTime      string // "HH:MM" in UTC; empty disables the daily post
}

// Capturer runs inbound text through the capture pipeline.
type Capturer interface {
	ProcessText(ctx context.Context, text string, attachmentURLs []string) []ingest.Result
}

// Searcher answers "@web" queries from the vector index.
type Searcher interface {
	SemanticSearch(ctx context.Context, query string, k int) ([]string, error)
}

// Briefer produces digests of recently captured knowledge.
type Briefer interface {
	Generate(ctx context.Context) (string, error)
	SummarizeRecent(ctx context.Context) (string, error)
}

// Bot owns the gateway session and routes Discord events to the services.
type Bot struct {
	session   *discordgo.Session
	capture   Capturer
	search    Searcher
	briefer   Briefer
	scheduler *briefing.Scheduler
	config    Config
	logger    *slog.Logger

	ctx context.Context // set in Run, used by event handlers
}

// New creates the bot and registers its event handlers. The session is not
// opened until Run.
func New(config Config, capture Capturer, search Searcher, briefer Briefer, logger *slog.Logger) (*Bot, error) {
	if config.Token == "" {
		return nil, fmt.Errorf("discord token is required")
	}

	session, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	b := &Bot{
		session:   session,
		capture:   capture,
		search:    search,
		briefer:   briefer,
		scheduler: briefing.NewScheduler(),
		config:    config,
		logger:    logger,
	}
	session.AddHandler(b.onMessageCreate)
	session.AddHandler(b.onInteractionCreate)
	return b, nil
}

// Run opens the gateway connection, registers the /brief command, starts the
// daily briefing schedule, and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	defer b.session.Close()

	command := &discordgo.ApplicationCommand{
		Name:        "brief",
		Description: "Summarize what I've learned in the last 24 hours",
	}
	if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", command); err != nil {
		return fmt.Errorf("register /brief command: %w", err)
	}

	if b.config.BriefingChannelID != "" && b.config.BriefingTime != "" {
		if err := b.scheduler.AddDaily(b.config.BriefingTime, b.postDailyBriefing); err != nil {
			return err
		}
		b.scheduler.Start()
		defer b.scheduler.Stop()
		b.logger.Info("daily briefing scheduled",
			"time", b.config.BriefingTime,
			"channel", b.config.BriefingChannelID)
	}

	b.logger.Info("bot connected", "user", b.session.State.User.Username)
	<-ctx.Done()
	b.logger.Info("bot shutting down")
	return nil
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.Bot || m.Author.ID == s.State.User.ID {
		return
	}

	if query, ok := searchQuery(m.Content); ok {
		b.answerSearch(m.ChannelID, query)
		return
	}

	attachments := attachmentURLs(m.Attachments)
	if len(ingest.ExtractURLs(m.Content)) == 0 && len(attachments) == 0 {
		return
	}

	results := b.capture.ProcessText(b.ctx, m.Content, attachments)
	for i := range results {
		b.reportResult(m.ChannelID, &results[i])
	}
}

// reportResult sends one message per processed URL so a failing URL is
// visibly distinct from the ones that worked.
func (b *Bot) reportResult(channelID string, result *ingest.Result) {
	switch {
	case result.Err != nil:
		b.sendText(channelID, fmt.Sprintf("Could not capture %s: %v", result.URL, result.Err))
	case result.Status.Code == persist.StatusAlreadyIndexed:
		b.sendText(channelID, fmt.Sprintf("Already in my memory: %s", result.URL))
	case result.Failed():
		b.sendText(channelID, fmt.Sprintf("Could not capture %s: %v", result.URL, result.Status.Err))
	default:
		if _, err := b.session.ChannelMessageSendEmbed(channelID, resultEmbed(result)); err != nil {
			b.logger.Error("send capture embed", "url", result.URL, "error", err)
		}
	}
}

func (b *Bot) answerSearch(channelID, query string) {
	results, err := b.search.SemanticSearch(b.ctx, query, searchResultLimit)
	if errors.Is(err, retrieval.ErrNoResults) {
		b.sendText(channelID, "I couldn't find anything related to that in my memory.")
		return
	}
	if err != nil {
		b.logger.Error("semantic search", "query", query, "error", err)
		b.sendText(channelID, "Search failed, try again later.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Here's what I remember:\n")
	for _, r := range results {
		fmt.Fprintf(&sb, "\n> %s\n", r)
	}
	b.sendText(channelID, sb.String())
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if i.ApplicationCommandData().Name != "brief" {
		return
	}

	// The digest needs a model round-trip, so acknowledge first.
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		b.logger.Error("defer /brief response", "error", err)
		return
	}

	summary, err := b.briefer.SummarizeRecent(b.ctx)
	if err != nil {
		b.logger.Error("generate on-demand briefing", "error", err)
		summary = "I couldn't put a briefing together right now."
	}
	for _, chunk := range splitMessage(summary) {
		if _, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
			Content: chunk,
		}); err != nil {
			b.logger.Error("send /brief followup", "error", err)
			return
		}
	}
}

func (b *Bot) postDailyBriefing() {
	digest, err := b.briefer.Generate(b.ctx)
	if err != nil {
		b.logger.Error("generate daily briefing", "error", err)
		return
	}
	for _, chunk := range splitMessage(digest) {
		b.sendText(b.config.BriefingChannelID, chunk)
	}
}

func (b *Bot) sendText(channelID, content string) {
	if _, err := b.session.ChannelMessageSend(channelID, content); err != nil {
		b.logger.Error("send message", "channel", channelID, "error", err)
	}
}

// searchQuery extracts the query from an "@web" message; ok is false when
// the message is not a search or the query is empty.
func searchQuery(content string) (query string, ok bool) {
	if !strings.HasPrefix(content, webMarker) {
		return "", false
	}
	query = strings.TrimSpace(strings.TrimPrefix(content, webMarker))
	return query, query != ""
}

// attachmentURLs picks the image attachments out of a message. Non-image
// attachments are ignored.
func attachmentURLs(attachments []*discordgo.MessageAttachment) []string {
	var urls []string
	for _, a := range attachments {
		if strings.HasPrefix(a.ContentType, "image/") {
			urls = append(urls, a.URL)
		}
	}
	return urls
}

// resultEmbed renders one successfully captured URL.
func resultEmbed(result *ingest.Result) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       result.DisplayTitle(),
		Description: result.DisplayDescription(),
		URL:         result.URL,
		Footer:      &discordgo.MessageEmbedFooter{Text: result.DisplayFooter()},
	}
	if result.ShowImagePreview() {
		embed.Image = &discordgo.MessageEmbedImage{URL: result.URL}
	}
	return embed
}

// splitMessage breaks content into chunks Discord will accept, preferring
// line boundaries.
func splitMessage(content string) []string {
	if len(content) <= maxMessageLen {
		return []string{content}
	}

	var chunks []string
	var current strings.Builder
	for _, line := range strings.Split(content, "\n") {
		for len(line) > maxMessageLen {
			chunks = append(chunks, flush(&current), line[:maxMessageLen])
			line = line[maxMessageLen:]
		}
		if current.Len()+len(line)+1 > maxMessageLen {
			chunks = append(chunks, flush(&current))
		}
		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	// Drop empty chunks produced by flushing an empty builder.
	out := chunks[:0]
	for _, c := range chunks {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

func flush(b *strings.Builder) string {
	s := b.String()
	b.Reset()
	return s
}
