package engagement

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/enryu8191/Creator-Bot/handler"
	"github.com/enryu8191/Creator-Bot/tracker"
	"github.com/enryu8191/Creator-Bot/utils"
)

// trk is set once at registration; all handlers in this package go through
// it.
var trk *tracker.Tracker

const genericFailure = "❌ Something went wrong, please try again later."

// statusCommandHandler answers /status with the caller's submission, its
// engagement progress, and which active creators have not reacted yet.
func statusCommandHandler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := i.Member.User.ID

	var st tracker.Status
	err := handler.WithStoreRetry(func() error {
		var err error
		st, err = trk.Status(i.GuildID, userID)
		return err
	})
	if err != nil {
		logrus.WithField("guild", i.GuildID).WithError(err).Error("status query failed")
		respondEphemeral(s, i, genericFailure)
		return
	}

	if !st.HasSubmitted {
		respondEphemeralEmbed(s, i, &discordgo.MessageEmbed{
			Title:       "📊 Engagement Status",
			Description: "You haven't submitted a link yet for this session.",
			Color:       colorOrange,
		})
		return
	}

	// Progress is measured against the other members with an active
	// submission: they are the ones expected to react.
	entries, err := trk.Leaderboard(i.GuildID, 0)
	if err != nil {
		logrus.WithField("guild", i.GuildID).WithError(err).Error("status leaderboard lookup failed")
		respondEphemeral(s, i, genericFailure)
		return
	}

	engaged := make(map[string]struct{}, len(st.Engagers))
	for _, id := range st.Engagers {
		engaged[id] = struct{}{}
	}

	var pending []string
	totalOthers := 0
	for _, e := range entries {
		if e.UserID == userID {
			continue
		}
		totalOthers++
		if _, ok := engaged[e.UserID]; !ok {
			pending = append(pending, fmt.Sprintf("<@%s>", e.UserID))
		}
	}

	color := colorGold
	if totalOthers > 0 && st.EngagementCount >= totalOthers {
		color = colorGreen
	}

	embed := &discordgo.MessageEmbed{
		Title: "📊 Engagement Status",
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Your Link", Value: st.Link, Inline: false},
			{Name: "Status", Value: fmt.Sprintf("%d/%d", st.EngagementCount, totalOthers), Inline: true},
		},
	}
	if totalOthers > 0 {
		pendingValue := "Everyone has engaged with your post. 🎉"
		if len(pending) > 0 {
			pendingValue = strings.Join(pending, "\n")
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Creators have yet to react",
			Value:  pendingValue,
			Inline: false,
		})
	}

	respondEphemeralEmbed(s, i, embed)
}

// leaderboardCommandHandler answers /leaderboard with the top creators by
// engagement count. Output order is deterministic for unchanged state.
func leaderboardCommandHandler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var entries []tracker.Entry
	err := handler.WithStoreRetry(func() error {
		var err error
		entries, err = trk.Leaderboard(i.GuildID, 10)
		return err
	})
	if err != nil {
		logrus.WithField("guild", i.GuildID).WithError(err).Error("leaderboard query failed")
		respondEphemeral(s, i, genericFailure)
		return
	}

	if len(entries) == 0 {
		respondEmbed(s, i, &discordgo.MessageEmbed{
			Title:       "🏆 Engagement Leaderboard",
			Description: "No engagement data yet. Start engaging to appear here!",
			Color:       colorBlue,
		})
		return
	}

	medals := []string{"🥇", "🥈", "🥉"}
	var sb strings.Builder
	for idx, e := range entries {
		medal := fmt.Sprintf("`#%d`", idx+1)
		if idx < len(medals) {
			medal = medals[idx]
		}
		plural := "s"
		if e.Count == 1 {
			plural = ""
		}
		fmt.Fprintf(&sb, "%s <@%s> - %d engagement%s\n", medal, e.UserID, e.Count, plural)
	}

	respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "🏆 Engagement Leaderboard",
		Description: sb.String(),
		Color:       colorGold,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Keep engaging to climb the ranks!",
		},
	})
}

// changeLinkCommandHandler swaps the caller's submitted link. The
// replacement goes through the same path as a fresh submission, so the old
// message is retired and the engagement count starts over.
func changeLinkCommandHandler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := i.Member.User.ID

	var newLink string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "new_link" {
			newLink = opt.StringValue()
		}
	}
	if !utils.ValidLink(newLink) {
		respondEphemeral(s, i, "❌ Invalid URL format. Please provide a valid link starting with http:// or https://")
		return
	}

	var st tracker.Status
	err := handler.WithStoreRetry(func() error {
		var err error
		st, err = trk.Status(i.GuildID, userID)
		return err
	})
	if err != nil {
		logrus.WithField("guild", i.GuildID).WithError(err).Error("change_link status lookup failed")
		respondEphemeral(s, i, genericFailure)
		return
	}
	if !st.HasSubmitted {
		respondEphemeral(s, i, "❌ You don't have an active session. Post a link in the Yap channel first.")
		return
	}

	err = handler.WithStoreRetry(func() error {
		_, _, err := trk.SubmitLink(i.GuildID, userID, st.ChannelID, st.MessageID, newLink)
		return err
	})
	if err != nil {
		if tracker.IsUserError(err) {
			respondEphemeral(s, i, fmt.Sprintf("❌ %v", err))
			return
		}
		logrus.WithField("guild", i.GuildID).WithError(err).Error("change_link update failed")
		respondEphemeral(s, i, genericFailure)
		return
	}

	displayName := i.Member.User.Username
	if i.Member.Nick != "" {
		displayName = i.Member.Nick
	}
	if _, err := s.ChannelMessageEditEmbed(st.ChannelID, st.MessageID, updatedSubmissionEmbed(displayName, newLink)); err != nil {
		logrus.WithField("message", st.MessageID).WithError(err).Warn("failed to edit submission embed after link change")
	}

	cfg, cerr := trk.Channels(i.GuildID)
	if cerr == nil {
		sendLog(s, cfg.LogChannelID, &discordgo.MessageEmbed{
			Title:       "🔄 Link Updated",
			Description: fmt.Sprintf("%s changed their link", i.Member.User.Mention()),
			Color:       colorOrange,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Old Link", Value: st.Link, Inline: false},
				{Name: "New Link", Value: newLink, Inline: false},
			},
		})
	}

	respondEphemeral(s, i, "✅ Link updated successfully! Others have been notified.")
}
