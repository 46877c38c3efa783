package admin

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/enryu8191/Creator-Bot/handler"
	"github.com/enryu8191/Creator-Bot/tracker"
	"github.com/enryu8191/Creator-Bot/utils"
)

var (
	trk *tracker.Tracker
	adm *tracker.Admin
)

const genericFailure = "❌ Something went wrong, please try again later."

const (
	colorGreen = 0x2ea043
	colorBlue  = 0x3498db
	colorRed   = 0xe74c3c
)

// checkEngagementCommandHandler builds the pending-users report and posts
// it to the configured report channel. Guild membership belongs to the
// gateway, so it is fetched here and handed to the tracker as a snapshot.
func checkEngagementCommandHandler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !handler.IsAdmin(i) {
		respondEphemeral(s, i, "❌ You don't have permission to do that.")
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		logrus.WithError(err).Error("failed to defer check_engagement response")
		return
	}

	go func() {
		members, err := s.GuildMembers(i.GuildID, "", 1000)
		if err != nil {
			logrus.WithField("guild", i.GuildID).WithError(err).Error("failed to fetch guild members")
			editResponse(s, i, genericFailure)
			return
		}
		memberIDs := make([]string, 0, len(members))
		for _, m := range members {
			if m.User == nil || m.User.Bot {
				continue
			}
			memberIDs = append(memberIDs, m.User.ID)
		}

		var pending []string
		err = handler.WithStoreRetry(func() error {
			var err error
			pending, err = trk.PendingUsers(i.GuildID, memberIDs)
			return err
		})
		if err != nil {
			logrus.WithField("guild", i.GuildID).WithError(err).Error("pending users query failed")
			editResponse(s, i, genericFailure)
			return
		}

		if len(pending) == 0 {
			editEmbed(s, i, &discordgo.MessageEmbed{
				Title:       "✅ All Clear!",
				Description: "All creators have completed their engagement!",
				Color:       colorGreen,
			})
			return
		}

		cfg, err := trk.Channels(i.GuildID)
		if err != nil || cfg.ReportChannelID == "" {
			editResponse(s, i, "❌ Report channel not found. Check configuration.")
			return
		}

		mentions := make([]string, len(pending))
		for idx, id := range pending {
			mentions[idx] = fmt.Sprintf("<@%s>", id)
		}

		report := &discordgo.MessageEmbed{
			Title:       "⚠️ Engagement Report",
			Description: "The following creators still need to engage with others' content:",
			Color:       colorRed,
			Fields: []*discordgo.MessageEmbedField{
				{
					Name:   "Action Required",
					Value:  strings.Join(mentions, "\n"),
					Inline: false,
				},
				{
					Name: "Instructions",
					Value: "To complete engagement:\n" +
						"1. View another creator's content\n" +
						"2. React with ✅ on their post",
					Inline: false,
				},
			},
		}
		if _, err := s.ChannelMessageSendEmbed(cfg.ReportChannelID, report); err != nil {
			logrus.WithField("channel", cfg.ReportChannelID).WithError(err).Error("failed to send engagement report")
			editResponse(s, i, genericFailure)
			return
		}

		editResponse(s, i, fmt.Sprintf("✅ Report sent to <#%s>", cfg.ReportChannelID))
	}()
}

// setYapChannelCommandHandler configures the invoking channel as an allowed
// submission channel, either replacing the set or adding to it.
func setYapChannelCommandHandler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !handler.IsAdmin(i) {
		respondEphemeral(s, i, "❌ You don't have permission to do that.")
		return
	}

	add := false
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "add" {
			add = opt.BoolValue()
		}
	}

	channelID := i.ChannelID
	var err error
	if add {
		err = handler.WithStoreRetry(func() error {
			return adm.AddAllowedChannel(i.GuildID, channelID)
		})
	} else {
		err = handler.WithStoreRetry(func() error {
			return adm.SetAllowedChannels(i.GuildID, []string{channelID})
		})
	}
	if err != nil {
		logrus.WithField("guild", i.GuildID).WithError(err).Error("failed to update allowed channels")
		respondEphemeral(s, i, genericFailure)
		return
	}

	verb := "set as"
	if add {
		verb = "added to"
	}
	respondEphemeral(s, i, fmt.Sprintf("✅ <#%s> %s allowed channels.", channelID, verb))
}

// setLogCommandHandler points the log channel at the given (or current)
// channel.
func setLogCommandHandler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	setOutputChannel(s, i, "Log", adm.SetLogChannel)
}

// setReportCommandHandler points the report channel at the given (or
// current) channel.
func setReportCommandHandler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	setOutputChannel(s, i, "Report", adm.SetReportChannel)
}

func setOutputChannel(s *discordgo.Session, i *discordgo.InteractionCreate, label string, set func(guildID, channelID string) error) {
	if !handler.IsAdmin(i) {
		respondEphemeral(s, i, "❌ You don't have permission to do that.")
		return
	}

	channelID := i.ChannelID
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "channel" {
			channelID = opt.ChannelValue(nil).ID
		}
	}

	err := handler.WithStoreRetry(func() error {
		return set(i.GuildID, channelID)
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"guild":   i.GuildID,
			"channel": channelID,
		}).WithError(err).Errorf("failed to set %s channel", label)
		respondEphemeral(s, i, genericFailure)
		return
	}

	respondEphemeral(s, i, fmt.Sprintf("✅ %s channel set to <#%s>", label, channelID))
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

func editResponse(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: utils.StringPtr(content),
	}); err != nil {
		logrus.WithError(err).Warn("failed to edit interaction response")
	}
}

func editEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	}); err != nil {
		logrus.WithError(err).Warn("failed to edit interaction response")
	}
}
