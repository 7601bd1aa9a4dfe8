package discord

import (
	"context"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"meshpreview/internal/logging"
	"meshpreview/internal/pipeline"
)

// typingInterval refreshes the typing indicator while a batch renders.
// Discord expires an indicator after roughly ten seconds.
const typingInterval = 8 * time.Second

// onMessageCreate watches guild chatter for model attachments.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if m.GuildID == "" {
		return
	}
	attachments := attachmentsFrom(m.Message)
	if len(attachments) == 0 {
		return
	}

	b.logger.Info("message batch accepted",
		logging.String("channel_id", m.ChannelID),
		logging.Int("attachments", len(attachments)),
	)
	go b.processMessageBatch(s, m, attachments)
}

// processMessageBatch renders the batch and posts each animation as a reply
// as soon as it is ready. Failures are logged; the channel is not notified
// on this path.
func (b *Bot) processMessageBatch(s *discordgo.Session, m *discordgo.MessageCreate, attachments []pipeline.Attachment) {
	stopTyping := b.keepTyping(s, m.ChannelID)
	defer stopTyping()

	b.supervisor.ProcessEach(context.Background(), attachments, func(outcome pipeline.Outcome) {
		if !outcome.Succeeded() {
			b.logger.Error("attachment failed",
				logging.String("filename", outcome.Attachment.Filename),
				logging.Error(outcome.Err),
			)
			return
		}
		_, err := s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
			Files:     []*discordgo.File{artifactFile(outcome.Artifact)},
			Reference: m.Reference(),
		})
		if err != nil {
			b.logger.Error("deliver animation",
				logging.String("filename", outcome.Artifact.Name),
				logging.Error(err),
			)
			return
		}
		b.logger.Info("animation delivered",
			logging.String("filename", outcome.Artifact.Name),
			logging.Duration("duration", outcome.Duration),
		)
	})
}

// keepTyping shows the typing indicator until the returned stop function is
// called.
func (b *Bot) keepTyping(s *discordgo.Session, channelID string) func() {
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(typingInterval)
		defer ticker.Stop()
		_ = s.ChannelTyping(channelID)
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				_ = s.ChannelTyping(channelID)
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() { close(stop) })
	}
}
