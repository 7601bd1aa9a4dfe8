package discord

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/gofrs/flock"

	"meshpreview/internal/config"
	"meshpreview/internal/logging"
	"meshpreview/internal/pipeline"
)

// commandName is the message context command users invoke from the message
// menu.
const commandName = "Preview 3D Model"

// Bot owns the Discord session and the single-instance lock.
type Bot struct {
	cfg        *config.Config
	session    *discordgo.Session
	supervisor *pipeline.Supervisor
	logger     *slog.Logger

	lock *flock.Flock

	mu        sync.Mutex
	commandID string
}

// New constructs the bot. The session is created but not connected; Start
// opens the gateway.
func New(cfg *config.Config, supervisor *pipeline.Supervisor, logger *slog.Logger) (*Bot, error) {
	if cfg.Discord.Token == "" {
		return nil, errors.New("discord token not configured (set discord.token or DISCORD_TOKEN)")
	}
	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	bot := &Bot{
		cfg:        cfg,
		session:    session,
		supervisor: supervisor,
		logger:     logging.NewComponentLogger(logger, "discord"),
	}
	session.AddHandler(bot.onReady)
	session.AddHandler(bot.onMessageCreate)
	session.AddHandler(bot.onInteractionCreate)
	return bot, nil
}

// Start acquires the instance lock and opens the gateway connection.
func (b *Bot) Start() error {
	lockPath := filepath.Join(b.cfg.Paths.LogDir, "meshpreview.lock")
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire instance lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another instance already holds %s", lockPath)
	}
	b.lock = lock

	if err := b.session.Open(); err != nil {
		_ = lock.Unlock()
		b.lock = nil
		return fmt.Errorf("open discord gateway: %w", err)
	}
	return nil
}

// Stop closes the gateway and releases the instance lock.
func (b *Bot) Stop() error {
	var firstErr error
	if err := b.session.Close(); err != nil {
		firstErr = fmt.Errorf("close discord gateway: %w", err)
	}
	if b.lock != nil {
		if err := b.lock.Unlock(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("release instance lock: %w", err)
		}
		b.lock = nil
	}
	return firstErr
}

// onReady registers the context command and optionally prunes stale ones.
func (b *Bot) onReady(s *discordgo.Session, event *discordgo.Ready) {
	appID := event.User.ID
	b.logger.Info("gateway ready",
		logging.String("username", event.User.Username),
		logging.Int("guilds", len(event.Guilds)),
	)

	if b.cfg.Discord.PruneStaleCommands {
		b.pruneCommands(s, appID)
	}

	command, err := s.ApplicationCommandCreate(appID, "", &discordgo.ApplicationCommand{
		Name: commandName,
		Type: discordgo.MessageApplicationCommand,
	})
	if err != nil {
		b.logger.Error("register context command", logging.Error(err))
		return
	}
	b.mu.Lock()
	b.commandID = command.ID
	b.mu.Unlock()
	b.logger.Info("context command registered", logging.String("command_id", command.ID))
}

// pruneCommands deletes previously registered commands we no longer serve.
func (b *Bot) pruneCommands(s *discordgo.Session, appID string) {
	commands, err := s.ApplicationCommands(appID, "")
	if err != nil {
		b.logger.Warn("list registered commands", logging.Error(err))
		return
	}
	for _, command := range commands {
		if command.Name == commandName {
			continue
		}
		if err := s.ApplicationCommandDelete(appID, "", command.ID); err != nil {
			b.logger.Warn("delete stale command",
				logging.String("command", command.Name),
				logging.Error(err),
			)
			continue
		}
		b.logger.Info("pruned stale command", logging.String("command", command.Name))
	}
}

// attachmentsFrom converts a message's attachments into pipeline inputs,
// keeping only renderable model files.
func attachmentsFrom(message *discordgo.Message) []pipeline.Attachment {
	if message == nil {
		return nil
	}
	attachments := make([]pipeline.Attachment, 0, len(message.Attachments))
	for _, att := range message.Attachments {
		if att == nil {
			continue
		}
		attachments = append(attachments, pipeline.Attachment{
			Filename:    att.Filename,
			ContentType: att.ContentType,
			Source:      newHTTPSource(att.URL),
		})
	}
	return pipeline.Filter(attachments)
}

// artifactFile wraps an artifact for upload.
func artifactFile(artifact *pipeline.Artifact) *discordgo.File {
	return &discordgo.File{
		Name:        artifact.Name,
		ContentType: "image/gif",
		Reader:      bytes.NewReader(artifact.Data),
	}
}
