package engagement

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/enryu8191/Creator-Bot/handler"
	"github.com/enryu8191/Creator-Bot/tracker"
)

// MessageReactionAdd registers a checkmark as an engagement. Everything
// that is not a checkmark on a tracked message falls through silently; the
// tracker decides what counts.
func MessageReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.UserID == s.State.User.ID || r.Emoji.Name != checkmarkEmoji || r.GuildID == "" {
		return
	}

	// Authors reacting to their own post never count; mirror that on the
	// platform side by removing the reaction and telling them.
	st, err := trk.Status(r.GuildID, r.UserID)
	if err == nil && st.HasSubmitted && st.MessageID == r.MessageID {
		if rerr := s.MessageReactionRemove(r.ChannelID, r.MessageID, checkmarkEmoji, r.UserID); rerr != nil {
			logrus.WithField("message", r.MessageID).WithError(rerr).Debug("failed to remove self-reaction")
		}
		sendTransient(s, r.ChannelID,
			fmt.Sprintf("<@%s> You cannot engage with your own content! Please engage with others' content instead.", r.UserID),
			noticeTTL)
		return
	}

	applyReaction(s, r.GuildID, r.MessageID, r.UserID, true)
}

// MessageReactionRemove undoes an engagement when the checkmark is taken
// back. Removals for users who never counted are no-ops.
func MessageReactionRemove(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	if r.UserID == s.State.User.ID || r.Emoji.Name != checkmarkEmoji || r.GuildID == "" {
		return
	}
	applyReaction(s, r.GuildID, r.MessageID, r.UserID, false)
}

func applyReaction(s *discordgo.Session, guildID, messageID, userID string, added bool) {
	var res *tracker.ReactionResult
	err := handler.WithStoreRetry(func() error {
		var err error
		res, err = trk.ApplyReaction(guildID, messageID, userID, added)
		return err
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"guild":   guildID,
			"message": messageID,
			"user":    userID,
		}).WithError(err).Error("failed to apply reaction")
		return
	}
	if res == nil {
		// Unrelated message, self-reaction, or duplicate delivery.
		return
	}

	cfg, err := trk.Channels(guildID)
	if err != nil {
		logrus.WithField("guild", guildID).WithError(err).Warn("failed to load channel config for logging")
		return
	}

	if res.Added {
		sendLog(s, cfg.LogChannelID, &discordgo.MessageEmbed{
			Title:       "✅ New Engagement",
			Description: fmt.Sprintf("<@%s> engaged with <@%s>'s content", userID, res.AuthorID),
			Color:       colorGreen,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Engagements", Value: fmt.Sprintf("%d", res.Count), Inline: true},
			},
		})
	} else {
		sendLog(s, cfg.LogChannelID, &discordgo.MessageEmbed{
			Title:       "↩️ Engagement Removed",
			Description: fmt.Sprintf("<@%s> withdrew their reaction on <@%s>'s content", userID, res.AuthorID),
			Color:       colorOrange,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Engagements", Value: fmt.Sprintf("%d", res.Count), Inline: true},
			},
		})
	}
}
