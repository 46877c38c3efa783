package engagement

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

const checkmarkEmoji = "✅"

const (
	colorBlue   = 0x3498db
	colorGreen  = 0x2ea043
	colorOrange = 0xe67e22
	colorGold   = 0xf1c40f
	colorRed    = 0xe74c3c
)

// submissionEmbed is the bot-owned repost of a member's link. Reactions are
// collected on this message, so its ID is what the tracker indexes.
func submissionEmbed(displayName, avatarURL, link string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🔗 %s's Content", displayName),
		Description: fmt.Sprintf("[Click here to engage](%s)", link),
		Color:       colorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Instructions",
				Value:  "React with ✅ after engaging with this content to show support!",
				Inline: false,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Posted by %s", displayName),
		},
	}
	if avatarURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: avatarURL}
	}
	return embed
}

// updatedSubmissionEmbed replaces the original embed after /change_link.
func updatedSubmissionEmbed(displayName, link string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🔗 %s's Content", displayName),
		Description: fmt.Sprintf("[Click here to engage](%s)", link),
		Color:       colorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Status",
				Value:  "⚠️ **LINK UPDATED**",
				Inline: false,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "React with ✅ after engaging!",
		},
	}
}

// sendLog delivers an embed to the guild's log channel, if one is set.
// Delivery failures are logged and swallowed; state is already committed.
func sendLog(s *discordgo.Session, logChannelID string, embed *discordgo.MessageEmbed) {
	if logChannelID == "" {
		return
	}
	if _, err := s.ChannelMessageSendEmbed(logChannelID, embed); err != nil {
		logrus.WithField("channel", logChannelID).WithError(err).Warn("failed to send log message")
	}
}

// sendTransient posts a short-lived notice in channelID and deletes it
// after the given delay.
func sendTransient(s *discordgo.Session, channelID, content string, after time.Duration) {
	msg, err := s.ChannelMessageSend(channelID, content)
	if err != nil {
		logrus.WithField("channel", channelID).WithError(err).Warn("failed to send notice")
		return
	}
	time.AfterFunc(after, func() {
		if err := s.ChannelMessageDelete(channelID, msg.ID); err != nil {
			logrus.WithField("message", msg.ID).WithError(err).Debug("failed to delete notice")
		}
	})
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		logrus.WithError(err).Warn("failed to respond to interaction")
	}
}

func respondEphemeralEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		logrus.WithError(err).Warn("failed to respond to interaction")
	}
}

func respondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
	if err != nil {
		logrus.WithError(err).Warn("failed to respond to interaction")
	}
}
