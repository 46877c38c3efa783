package tracker

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/enryu8191/Creator-Bot/model"
)

// Admin is the privileged controller over a Tracker. The command surface
// verifies the caller's administrator permission before calling in; nothing
// here re-checks it.
type Admin struct {
	t *Tracker
}

// NewAdmin wraps a Tracker with the admin operations.
func NewAdmin(t *Tracker) *Admin {
	return &Admin{t: t}
}

// ResetSession clears every submission and advances the epoch, lifting any
// quarantine. Resetting an already-empty session is a legal no-op that still
// advances the epoch. Returns the reset's audit ID.
func (a *Admin) ResetSession(guildID string) (string, error) {
	resetID := uuid.NewString()
	err := a.t.update(guildID, true, func(g *model.GuildSession) (bool, error) {
		g.Reset()
		g.LastResetID = resetID
		return true, nil
	})
	if err != nil {
		return "", err
	}
	a.t.log.WithFields(logrus.Fields{
		"guild": guildID,
		"reset": resetID,
	}).Info("session reset")
	return resetID, nil
}

// SetAllowedChannels replaces the allowed-channel set wholesale. Existing
// submissions in now-disallowed channels stay valid until reset or changed.
func (a *Admin) SetAllowedChannels(guildID string, channelIDs []string) error {
	return a.t.update(guildID, false, func(g *model.GuildSession) (bool, error) {
		g.AllowedChannels = dedup(channelIDs)
		return true, nil
	})
}

// AddAllowedChannel adds one channel to the allowed set.
func (a *Admin) AddAllowedChannel(guildID, channelID string) error {
	return a.t.update(guildID, false, func(g *model.GuildSession) (bool, error) {
		for _, id := range g.AllowedChannels {
			if id == channelID {
				return false, nil
			}
		}
		g.AllowedChannels = append(g.AllowedChannels, channelID)
		return true, nil
	})
}

// SetLogChannel points log output at channelID. Existence and permissions
// are the gateway's concern.
func (a *Admin) SetLogChannel(guildID, channelID string) error {
	return a.t.update(guildID, false, func(g *model.GuildSession) (bool, error) {
		g.LogChannelID = channelID
		return true, nil
	})
}

// SetReportChannel points report output at channelID.
func (a *Admin) SetReportChannel(guildID, channelID string) error {
	return a.t.update(guildID, false, func(g *model.GuildSession) (bool, error) {
		g.ReportChannelID = channelID
		return true, nil
	})
}

// SeedDefaults applies startup configuration to fields an administrator has
// not already set. Called once per configured guild on boot; later admin
// commands always win over config file values.
func (a *Admin) SeedDefaults(guildID string, allowed []string, logChannelID, reportChannelID string) error {
	return a.t.update(guildID, false, func(g *model.GuildSession) (bool, error) {
		changed := false
		if len(g.AllowedChannels) == 0 && len(allowed) > 0 {
			g.AllowedChannels = dedup(allowed)
			changed = true
		}
		if g.LogChannelID == "" && logChannelID != "" {
			g.LogChannelID = logChannelID
			changed = true
		}
		if g.ReportChannelID == "" && reportChannelID != "" {
			g.ReportChannelID = reportChannelID
			changed = true
		}
		return changed, nil
	})
}

func dedup(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
