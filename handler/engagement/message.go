package engagement

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/enryu8191/Creator-Bot/handler"
	"github.com/enryu8191/Creator-Bot/tracker"
	"github.com/enryu8191/Creator-Bot/utils"
)

const noticeTTL = 5 * time.Second

// MessageCreate watches the allowed channels for link submissions. A link
// message is swallowed and reposted as a bot embed so reactions land on a
// message the bot owns; anything else is removed with a transient warning.
func MessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	cfg, err := trk.Channels(m.GuildID)
	if err != nil {
		logrus.WithField("guild", m.GuildID).WithError(err).Error("failed to load channel config")
		return
	}
	if !channelIn(cfg.AllowedChannels, m.ChannelID) {
		return
	}

	link := utils.ExtractLink(m.Content)
	if link == "" {
		if err := s.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
			logrus.WithField("message", m.ID).WithError(err).Debug("failed to delete non-link message")
		}
		sendTransient(s, m.ChannelID,
			fmt.Sprintf("%s Please post only links in this channel!", m.Author.Mention()), noticeTTL)
		return
	}

	st, err := trk.Status(m.GuildID, m.Author.ID)
	if err != nil {
		logrus.WithField("guild", m.GuildID).WithError(err).Error("failed to check submission status")
		return
	}
	if st.HasSubmitted {
		if err := s.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
			logrus.WithField("message", m.ID).WithError(err).Debug("failed to delete duplicate submission")
		}
		sendTransient(s, m.ChannelID,
			fmt.Sprintf("%s You can only post 1 link per session! Use `/change_link` to update.", m.Author.Mention()), noticeTTL)
		return
	}

	if err := s.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
		logrus.WithField("message", m.ID).WithError(err).Debug("failed to delete original submission message")
	}

	displayName := m.Author.Username
	if m.Member != nil && m.Member.Nick != "" {
		displayName = m.Member.Nick
	}

	posted, err := s.ChannelMessageSendEmbed(m.ChannelID, submissionEmbed(displayName, m.Author.AvatarURL(""), link))
	if err != nil {
		logrus.WithField("channel", m.ChannelID).WithError(err).Error("failed to post submission embed")
		return
	}
	if err := s.MessageReactionAdd(m.ChannelID, posted.ID, checkmarkEmoji); err != nil {
		logrus.WithField("message", posted.ID).WithError(err).Debug("failed to seed checkmark reaction")
	}

	err = handler.WithStoreRetry(func() error {
		_, _, err := trk.SubmitLink(m.GuildID, m.Author.ID, m.ChannelID, posted.ID, link)
		return err
	})
	if err != nil {
		// The repost is already up but nothing tracks it; take it down.
		if derr := s.ChannelMessageDelete(m.ChannelID, posted.ID); derr != nil {
			logrus.WithField("message", posted.ID).WithError(derr).Warn("failed to remove orphaned submission embed")
		}
		if errors.Is(err, tracker.ErrSessionQuarantined) {
			sendLog(s, cfg.LogChannelID, &discordgo.MessageEmbed{
				Title:       "🚧 Session Quarantined",
				Description: "Session data failed validation and is locked against changes. An administrator must run `/reset_session`.",
				Color:       colorRed,
			})
		}
		sendTransient(s, m.ChannelID,
			fmt.Sprintf("%s Your submission could not be recorded, please try again.", m.Author.Mention()), noticeTTL)
		logrus.WithFields(logrus.Fields{
			"guild": m.GuildID,
			"user":  m.Author.ID,
		}).WithError(err).Error("failed to record submission")
		return
	}

	sendLog(s, cfg.LogChannelID, &discordgo.MessageEmbed{
		Title:       "📝 New Link Submitted",
		Description: fmt.Sprintf("%s posted their content", m.Author.Mention()),
		Color:       colorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Link", Value: link, Inline: false},
		},
	})
}

func channelIn(allowed []string, channelID string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, id := range allowed {
		if id == channelID {
			return true
		}
	}
	return false
}
