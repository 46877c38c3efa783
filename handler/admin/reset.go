package admin

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/enryu8191/Creator-Bot/handler"
)

// resetSessionCommandHandler asks for confirmation before wiping the round.
// The destructive part lives in the confirm button handler.
func resetSessionCommandHandler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !handler.IsAdmin(i) {
		respondEphemeral(s, i, "❌ You don't have permission to do that.")
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       "⚠️ Confirm Session Reset",
					Description: "This will delete ALL current engagement data. Are you sure?",
					Color:       colorRed,
				},
			},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.Button{
							Label:    "Confirm Reset",
							Style:    discordgo.DangerButton,
							CustomID: "reset_confirm",
						},
						discordgo.Button{
							Label:    "Cancel",
							Style:    discordgo.SecondaryButton,
							CustomID: "reset_cancel",
						},
					},
				},
			},
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		logrus.WithError(err).Error("failed to send reset confirmation")
	}
}

// confirmResetHandler performs the reset: submissions cleared, epoch
// advanced, quarantine lifted. Re-checks the administrator permission since
// components can outlive the original invocation.
func confirmResetHandler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !handler.IsAdmin(i) {
		respondEphemeral(s, i, "❌ You don't have permission to do that.")
		return
	}

	var resetID string
	err := handler.WithStoreRetry(func() error {
		var err error
		resetID, err = adm.ResetSession(i.GuildID)
		return err
	})
	if err != nil {
		logrus.WithField("guild", i.GuildID).WithError(err).Error("session reset failed")
		updateMessage(s, i, genericFailure)
		return
	}

	cfg, cerr := trk.Channels(i.GuildID)
	if cerr == nil && cfg.LogChannelID != "" {
		embed := &discordgo.MessageEmbed{
			Title:       "🔄 Session Reset",
			Description: fmt.Sprintf("All engagement data cleared by %s", i.Member.User.Mention()),
			Color:       colorBlue,
			Footer: &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("Reset ID: %s", resetID),
			},
		}
		if _, err := s.ChannelMessageSendEmbed(cfg.LogChannelID, embed); err != nil {
			logrus.WithField("channel", cfg.LogChannelID).WithError(err).Warn("failed to log session reset")
		}
	}

	updateMessage(s, i, "✅ Session reset complete! Ready for a new engagement round.")
}

// cancelResetHandler aborts the reset flow.
func cancelResetHandler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	updateMessage(s, i, "❌ Reset cancelled.")
}

// updateMessage replaces the confirmation prompt in place, dropping the
// buttons so it cannot be pressed twice.
func updateMessage(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Embeds:     []*discordgo.MessageEmbed{},
			Components: []discordgo.MessageComponent{},
		},
	})
	if err != nil {
		logrus.WithError(err).Warn("failed to update reset prompt")
	}
}
