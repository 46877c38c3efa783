package model

import (
	"fmt"
	"sort"
	"time"
)

// Submission is one member's active link for the current session.
type Submission struct {
	UserID    string    `json:"user_id"`
	ChannelID string    `json:"channel_id"`
	MessageID string    `json:"message_id"`
	Link      string    `json:"link"`
	CreatedAt time.Time `json:"created_at"`
	// EngagedBy holds the distinct users who reacted with the checkmark.
	// Set semantics: repeated adds and add/remove churn cannot drift the count.
	EngagedBy map[string]struct{} `json:"engaged_by"`
}

// Engage records a checkmark from userID. Returns false if the user was
// already counted or is the submission's own author.
func (s *Submission) Engage(userID string) bool {
	if userID == s.UserID {
		return false
	}
	if s.EngagedBy == nil {
		s.EngagedBy = make(map[string]struct{})
	}
	if _, ok := s.EngagedBy[userID]; ok {
		return false
	}
	s.EngagedBy[userID] = struct{}{}
	return true
}

// Unengage removes userID's checkmark. Returns false if there was none.
func (s *Submission) Unengage(userID string) bool {
	if _, ok := s.EngagedBy[userID]; !ok {
		return false
	}
	delete(s.EngagedBy, userID)
	return true
}

// EngagementCount returns the number of distinct engagers.
func (s *Submission) EngagementCount() int {
	return len(s.EngagedBy)
}

// Engagers returns the engager IDs in a stable order.
func (s *Submission) Engagers() []string {
	ids := make([]string, 0, len(s.EngagedBy))
	for id := range s.EngagedBy {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// GuildSession is the per-guild aggregate: channel configuration plus the
// current round of submissions. One record per guild in the store.
type GuildSession struct {
	GuildID string `json:"guild_id"`
	// Epoch increments on every reset so that events from a previous
	// round can be recognized as stale.
	Epoch           int64    `json:"epoch"`
	AllowedChannels []string `json:"allowed_channels,omitempty"`
	LogChannelID    string   `json:"log_channel_id,omitempty"`
	ReportChannelID string   `json:"report_channel_id,omitempty"`

	// Submissions is keyed by author. MessageIndex is the reverse lookup
	// for reaction events, keyed by the posted message. The two must
	// describe the same set of submissions at all times.
	Submissions  map[string]*Submission `json:"submissions"`
	MessageIndex map[string]string      `json:"message_index"`

	Quarantined      bool   `json:"quarantined,omitempty"`
	QuarantineReason string `json:"quarantine_reason,omitempty"`
	LastResetID      string `json:"last_reset_id,omitempty"`
}

// NewGuildSession returns an empty session for the guild.
func NewGuildSession(guildID string) *GuildSession {
	return &GuildSession{
		GuildID:      guildID,
		Submissions:  make(map[string]*Submission),
		MessageIndex: make(map[string]string),
	}
}

// ChannelAllowed reports whether links may be submitted in channelID.
// An empty allowed list means every channel is accepted.
func (g *GuildSession) ChannelAllowed(channelID string) bool {
	if len(g.AllowedChannels) == 0 {
		return true
	}
	for _, id := range g.AllowedChannels {
		if id == channelID {
			return true
		}
	}
	return false
}

// SubmissionByMessage resolves a reaction target. Returns nil for messages
// that belong to no active submission (retired, stale, or simply unrelated).
func (g *GuildSession) SubmissionByMessage(messageID string) *Submission {
	userID, ok := g.MessageIndex[messageID]
	if !ok {
		return nil
	}
	return g.Submissions[userID]
}

// PutSubmission installs sub as the author's active submission, retiring any
// previous one. The retired message's index entry is removed so reactions
// still arriving for the old message become no-ops. Returns the retired
// submission, if any.
func (g *GuildSession) PutSubmission(sub *Submission) *Submission {
	if g.Submissions == nil {
		g.Submissions = make(map[string]*Submission)
	}
	if g.MessageIndex == nil {
		g.MessageIndex = make(map[string]string)
	}
	old := g.Submissions[sub.UserID]
	if old != nil {
		delete(g.MessageIndex, old.MessageID)
	}
	g.Submissions[sub.UserID] = sub
	g.MessageIndex[sub.MessageID] = sub.UserID
	return old
}

// Reset clears the round: all submissions and index entries go away and the
// epoch advances. Quarantine is lifted; reset is the documented way out.
func (g *GuildSession) Reset() {
	g.Submissions = make(map[string]*Submission)
	g.MessageIndex = make(map[string]string)
	g.Epoch++
	g.Quarantined = false
	g.QuarantineReason = ""
}

// Validate cross-checks the author map against the message index. A mismatch
// means the record was corrupted and the session must not accept writes.
func (g *GuildSession) Validate() error {
	for msgID, userID := range g.MessageIndex {
		sub, ok := g.Submissions[userID]
		if !ok {
			return fmt.Errorf("index entry %s points at missing submission for user %s", msgID, userID)
		}
		if sub.MessageID != msgID {
			return fmt.Errorf("index entry %s disagrees with submission message %s for user %s", msgID, sub.MessageID, userID)
		}
	}
	for userID, sub := range g.Submissions {
		indexed, ok := g.MessageIndex[sub.MessageID]
		if !ok {
			return fmt.Errorf("submission for user %s (message %s) is not indexed", userID, sub.MessageID)
		}
		if indexed != userID {
			return fmt.Errorf("message %s is indexed to user %s but owned by %s", sub.MessageID, indexed, userID)
		}
		if _, self := sub.EngagedBy[userID]; self {
			return fmt.Errorf("submission for user %s counts a self-engagement", userID)
		}
	}
	if len(g.MessageIndex) != len(g.Submissions) {
		return fmt.Errorf("index has %d entries for %d submissions", len(g.MessageIndex), len(g.Submissions))
	}
	return nil
}
