package tracker

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/enryu8191/Creator-Bot/model"
)

// Store is the persistence collaborator. Load returns (nil, nil) for a guild
// that has no record yet. Save is an atomic whole-record upsert.
type Store interface {
	Load(ctx context.Context, guildID string) (*model.GuildSession, error)
	Save(ctx context.Context, guildID string, session *model.GuildSession) error
}

// Tracker applies gateway events and answers queries against per-guild
// session state. Every operation for a guild runs under that guild's lock;
// store access inside the lock is bounded by the configured timeout.
type Tracker struct {
	store   Store
	locks   *guildLocks
	timeout time.Duration
	log     *logrus.Entry
}

// New creates a Tracker on top of the given store. timeout bounds each
// persistence call; zero means the 3s default.
func New(store Store, timeout time.Duration) *Tracker {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Tracker{
		store:   store,
		locks:   newGuildLocks(),
		timeout: timeout,
		log:     logrus.WithField("module", "tracker"),
	}
}

// Status is a user's view of their own submission. Zero value when the user
// has not submitted this round.
type Status struct {
	HasSubmitted    bool
	Link            string
	ChannelID       string
	MessageID       string
	EngagementCount int
	Engagers        []string
}

// Entry is one leaderboard row.
type Entry struct {
	UserID string
	Count  int
}

// ReactionResult describes a reaction event that actually changed state.
type ReactionResult struct {
	AuthorID string
	Link     string
	Added    bool
	Count    int
}

// ChannelConfig is the guild's output and submission channel setup.
type ChannelConfig struct {
	AllowedChannels []string
	LogChannelID    string
	ReportChannelID string
}

// SubmitLink records userID's link for the current session. An existing
// submission is retired and replaced; change-link goes through this same
// path. replaced reports whether that happened.
func (t *Tracker) SubmitLink(guildID, userID, channelID, messageID, link string) (sub *model.Submission, replaced bool, err error) {
	if link == "" {
		return nil, false, ErrEmptyLink
	}
	err = t.update(guildID, false, func(g *model.GuildSession) (bool, error) {
		if !g.ChannelAllowed(channelID) {
			return false, ErrChannelNotAllowed
		}
		s := &model.Submission{
			UserID:    userID,
			ChannelID: channelID,
			MessageID: messageID,
			Link:      link,
			CreatedAt: time.Now().UTC(),
			EngagedBy: make(map[string]struct{}),
		}
		replaced = g.PutSubmission(s) != nil
		sub = snapshot(s)
		return true, nil
	})
	if err != nil {
		return nil, false, err
	}
	return sub, replaced, nil
}

// ApplyReaction applies a checkmark add or removal against whatever
// submission owns messageID. Unknown messages, self-reactions and
// already-satisfied toggles are silent no-ops (nil result): most reactions
// in a guild are simply not ours, and duplicate or reordered gateway
// delivery must not drift the count. The added flag is applied as a set
// membership instruction, never as a counter delta.
func (t *Tracker) ApplyReaction(guildID, messageID, userID string, added bool) (*ReactionResult, error) {
	var res *ReactionResult
	err := t.update(guildID, false, func(g *model.GuildSession) (bool, error) {
		sub := g.SubmissionByMessage(messageID)
		if sub == nil {
			return false, nil
		}
		if userID == sub.UserID {
			return false, nil
		}
		var changed bool
		if added {
			changed = sub.Engage(userID)
		} else {
			changed = sub.Unengage(userID)
		}
		if !changed {
			return false, nil
		}
		res = &ReactionResult{
			AuthorID: sub.UserID,
			Link:     sub.Link,
			Added:    added,
			Count:    sub.EngagementCount(),
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Status reports the user's current submission. Having none is not an
// error; the zero value comes back.
func (t *Tracker) Status(guildID, userID string) (Status, error) {
	var st Status
	err := t.view(guildID, func(g *model.GuildSession) error {
		sub, ok := g.Submissions[userID]
		if !ok {
			return nil
		}
		st = Status{
			HasSubmitted:    true,
			Link:            sub.Link,
			ChannelID:       sub.ChannelID,
			MessageID:       sub.MessageID,
			EngagementCount: sub.EngagementCount(),
			Engagers:        sub.Engagers(),
		}
		return nil
	})
	return st, err
}

// Leaderboard returns up to limit rows ordered by engagement count
// descending, earliest submission first on ties, then by user ID. The
// ordering is fully deterministic for unchanged state.
func (t *Tracker) Leaderboard(guildID string, limit int) ([]Entry, error) {
	var entries []Entry
	err := t.view(guildID, func(g *model.GuildSession) error {
		subs := make([]*model.Submission, 0, len(g.Submissions))
		for _, sub := range g.Submissions {
			subs = append(subs, sub)
		}
		sort.Slice(subs, func(i, j int) bool {
			a, b := subs[i], subs[j]
			if a.EngagementCount() != b.EngagementCount() {
				return a.EngagementCount() > b.EngagementCount()
			}
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.UserID < b.UserID
		})
		if limit > 0 && len(subs) > limit {
			subs = subs[:limit]
		}
		entries = make([]Entry, len(subs))
		for i, sub := range subs {
			entries[i] = Entry{UserID: sub.UserID, Count: sub.EngagementCount()}
		}
		return nil
	})
	return entries, err
}

// PendingUsers filters the supplied membership snapshot down to members who
// have not engaged yet: no submission at all, or one nobody reacted to.
// Membership is owned by the gateway, so the caller supplies it.
func (t *Tracker) PendingUsers(guildID string, knownMembers []string) ([]string, error) {
	var pending []string
	err := t.view(guildID, func(g *model.GuildSession) error {
		seen := make(map[string]struct{}, len(knownMembers))
		for _, member := range knownMembers {
			if _, dup := seen[member]; dup {
				continue
			}
			seen[member] = struct{}{}
			sub, ok := g.Submissions[member]
			if !ok || sub.EngagementCount() == 0 {
				pending = append(pending, member)
			}
		}
		sort.Strings(pending)
		return nil
	})
	return pending, err
}

// Channels returns the guild's channel configuration.
func (t *Tracker) Channels(guildID string) (ChannelConfig, error) {
	var cfg ChannelConfig
	err := t.view(guildID, func(g *model.GuildSession) error {
		cfg = ChannelConfig{
			AllowedChannels: append([]string(nil), g.AllowedChannels...),
			LogChannelID:    g.LogChannelID,
			ReportChannelID: g.ReportChannelID,
		}
		return nil
	})
	return cfg, err
}

// view runs fn against the guild's session without persisting anything.
// Quarantined sessions stay readable; only writes are refused.
func (t *Tracker) view(guildID string, fn func(*model.GuildSession) error) error {
	l := t.locks.lock(guildID)
	defer l.Unlock()

	g, err := t.load(guildID)
	if err != nil {
		return err
	}
	return fn(g)
}

// update runs fn under the guild lock and persists the session when fn
// reports a change. Writes against a quarantined session fail unless
// bypassQuarantine is set (the reset path).
func (t *Tracker) update(guildID string, bypassQuarantine bool, fn func(*model.GuildSession) (bool, error)) error {
	l := t.locks.lock(guildID)
	defer l.Unlock()

	g, err := t.load(guildID)
	if err != nil {
		return err
	}

	if !bypassQuarantine {
		if g.Quarantined {
			return errors.Wrap(ErrSessionQuarantined, g.QuarantineReason)
		}
		if verr := g.Validate(); verr != nil {
			t.quarantine(g, verr)
			return errors.Wrap(ErrSessionQuarantined, verr.Error())
		}
	}

	changed, err := fn(g)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return t.save(guildID, g)
}

func (t *Tracker) load(guildID string) (*model.GuildSession, error) {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	g, err := t.store.Load(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		g = model.NewGuildSession(guildID)
	}
	return g, nil
}

func (t *Tracker) save(guildID string, g *model.GuildSession) error {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()
	return t.store.Save(ctx, guildID, g)
}

// quarantine flags the session and persists the flag so the guild stays
// write-locked across restarts. Never self-heals; /reset_session is the way
// out.
func (t *Tracker) quarantine(g *model.GuildSession, cause error) {
	g.Quarantined = true
	g.QuarantineReason = cause.Error()
	t.log.WithFields(logrus.Fields{
		"guild": g.GuildID,
		"cause": cause.Error(),
	}).Error("session failed validation, quarantining")
	if err := t.save(g.GuildID, g); err != nil {
		t.log.WithField("guild", g.GuildID).WithError(err).Error("could not persist quarantine flag")
	}
}

func snapshot(s *model.Submission) *model.Submission {
	c := *s
	c.EngagedBy = make(map[string]struct{}, len(s.EngagedBy))
	for id := range s.EngagedBy {
		c.EngagedBy[id] = struct{}{}
	}
	return &c
}
