package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"meshpreview/internal/logging"
	"meshpreview/internal/pipeline"
	"meshpreview/internal/services"
)

// onInteractionCreate serves the "Preview 3D Model" message context command.
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	if data.Name != commandName {
		return
	}

	var target *discordgo.Message
	if data.Resolved != nil {
		target = data.Resolved.Messages[data.TargetID]
	}
	attachments := attachmentsFrom(target)
	if len(attachments) == 0 {
		b.respondEphemeral(s, i, "No 3D model attachments found on that message.")
		return
	}

	// Acknowledge within Discord's three-second window; rendering takes
	// far longer than that.
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		b.logger.Error("defer interaction response", logging.Error(err))
		return
	}

	b.logger.Info("command batch accepted",
		logging.String("channel_id", i.ChannelID),
		logging.Int("attachments", len(attachments)),
	)
	go b.processCommandBatch(s, i, attachments)
}

// processCommandBatch renders the batch and replaces the deferred response
// with the finished animations, or a failure notice when nothing rendered.
func (b *Bot) processCommandBatch(s *discordgo.Session, i *discordgo.InteractionCreate, attachments []pipeline.Attachment) {
	outcomes := b.supervisor.Process(context.Background(), attachments)

	var files []*discordgo.File
	var firstErr error
	for _, outcome := range outcomes {
		if outcome.Succeeded() {
			files = append(files, artifactFile(outcome.Artifact))
			continue
		}
		if firstErr == nil {
			firstErr = outcome.Err
		}
		b.logger.Error("attachment failed",
			logging.String("filename", outcome.Attachment.Filename),
			logging.Error(outcome.Err),
		)
	}

	if len(files) == 0 {
		content := fmt.Sprintf("Preview failed: %s", services.Detail(firstErr))
		if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
			Content: &content,
		}); err != nil {
			b.logger.Error("report command failure", logging.Error(err))
		}
		return
	}

	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Files: files,
	}); err != nil {
		b.logger.Error("deliver command animations", logging.Error(err))
		return
	}
	b.logger.Info("command batch delivered", logging.Int("animations", len(files)))
}

func (b *Bot) respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.logger.Error("send ephemeral response", logging.Error(err))
	}
}
