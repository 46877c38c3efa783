package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enryu8191/Creator-Bot/model"
)

const guild = "guild-1"

func newTestTracker(t *testing.T) (*Tracker, *memStore) {
	t.Helper()
	store := newMemStore()
	return New(store, time.Second), store
}

func submit(t *testing.T, trk *Tracker, userID, channelID, messageID string) {
	t.Helper()
	_, _, err := trk.SubmitLink(guild, userID, channelID, messageID, "https://example.com/"+userID)
	require.NoError(t, err)
}

func TestSubmitLinkRecordsSubmission(t *testing.T) {
	trk, store := newTestTracker(t)

	sub, replaced, err := trk.SubmitLink(guild, "alice", "chan-1", "msg-1", "https://example.com/a")
	require.NoError(t, err)
	assert.False(t, replaced)
	assert.Equal(t, "alice", sub.UserID)
	assert.Equal(t, 0, sub.EngagementCount())

	saved := store.get(guild)
	require.NotNil(t, saved)
	assert.Contains(t, saved.Submissions, "alice")
	assert.Equal(t, "alice", saved.MessageIndex["msg-1"])
}

func TestSubmitLinkEmptyLink(t *testing.T) {
	trk, _ := newTestTracker(t)

	_, _, err := trk.SubmitLink(guild, "alice", "chan-1", "msg-1", "")
	assert.ErrorIs(t, err, ErrEmptyLink)
}

func TestSubmitLinkChannelNotAllowed(t *testing.T) {
	trk, store := newTestTracker(t)
	adm := NewAdmin(trk)

	require.NoError(t, adm.SetAllowedChannels(guild, []string{"chan-1"}))

	_, _, err := trk.SubmitLink(guild, "alice", "chan-2", "msg-1", "https://example.com/a")
	assert.ErrorIs(t, err, ErrChannelNotAllowed)
	assert.Empty(t, store.get(guild).Submissions)
}

func TestSubmitLinkReplacesAndRetiresOldMessage(t *testing.T) {
	trk, _ := newTestTracker(t)

	submit(t, trk, "alice", "chan-1", "msg-1")
	res, err := trk.ApplyReaction(guild, "msg-1", "bob", true)
	require.NoError(t, err)
	require.NotNil(t, res)

	sub, replaced, err := trk.SubmitLink(guild, "alice", "chan-1", "msg-2", "https://example.com/new")
	require.NoError(t, err)
	assert.True(t, replaced)
	assert.Equal(t, 0, sub.EngagementCount(), "replacement starts with no engagements")

	// Reactions still arriving for the retired message are no-ops.
	res, err = trk.ApplyReaction(guild, "msg-1", "carol", true)
	require.NoError(t, err)
	assert.Nil(t, res)

	st, err := trk.Status(guild, "alice")
	require.NoError(t, err)
	assert.True(t, st.HasSubmitted)
	assert.Equal(t, "https://example.com/new", st.Link)
	assert.Equal(t, "msg-2", st.MessageID)
	assert.Equal(t, 0, st.EngagementCount)
}

func TestApplyReactionUnknownMessageIsSilent(t *testing.T) {
	trk, store := newTestTracker(t)

	res, err := trk.ApplyReaction(guild, "msg-unrelated", "bob", true)
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Zero(t, store.saves, "a no-op must not write")
}

func TestApplyReactionSelfIsSilent(t *testing.T) {
	trk, _ := newTestTracker(t)
	submit(t, trk, "alice", "chan-1", "msg-1")

	res, err := trk.ApplyReaction(guild, "msg-1", "alice", true)
	require.NoError(t, err)
	assert.Nil(t, res)

	st, err := trk.Status(guild, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, st.EngagementCount)
}

func TestApplyReactionInterleavings(t *testing.T) {
	// The handler is a set-membership toggle keyed by the added flag, so
	// for any delivery interleaving the final state equals the last event
	// applied and the count equals the distinct membership exactly.
	tests := []struct {
		name   string
		events []bool // true=add, false=remove
		want   int
	}{
		{"single add", []bool{true}, 1},
		{"duplicate adds", []bool{true, true, true}, 1},
		{"add remove", []bool{true, false}, 0},
		{"remove before add", []bool{false, true}, 1},
		{"remove only", []bool{false}, 0},
		{"add remove add", []bool{true, false, true}, 1},
		{"duplicated remove pair", []bool{true, false, false}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trk, _ := newTestTracker(t)
			submit(t, trk, "alice", "chan-1", "msg-1")

			for _, added := range tt.events {
				_, err := trk.ApplyReaction(guild, "msg-1", "bob", added)
				require.NoError(t, err)
			}

			st, err := trk.Status(guild, "alice")
			require.NoError(t, err)
			assert.Equal(t, tt.want, st.EngagementCount)
		})
	}
}

func TestStatusWithoutSubmission(t *testing.T) {
	trk, _ := newTestTracker(t)

	st, err := trk.Status(guild, "nobody")
	require.NoError(t, err)
	assert.False(t, st.HasSubmitted)
	assert.Zero(t, st.EngagementCount)
	assert.Empty(t, st.Link)
}

func TestLeaderboardOrderingAndTieBreaks(t *testing.T) {
	trk, store := newTestTracker(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	g := model.NewGuildSession(guild)
	add := func(userID, messageID string, createdAt time.Time, engagers ...string) {
		sub := &model.Submission{
			UserID:    userID,
			ChannelID: "chan-1",
			MessageID: messageID,
			Link:      "https://example.com/" + userID,
			CreatedAt: createdAt,
			EngagedBy: make(map[string]struct{}),
		}
		for _, e := range engagers {
			sub.EngagedBy[e] = struct{}{}
		}
		g.PutSubmission(sub)
	}
	add("carol", "msg-3", base.Add(2*time.Minute), "x", "y")
	add("alice", "msg-1", base.Add(time.Minute), "x", "y")
	add("bob", "msg-2", base, "x", "y", "z")
	add("dave", "msg-4", base.Add(time.Minute), "x", "y")
	store.put(guild, g)

	// bob wins on count; alice/dave/carol tie on count, so earlier
	// submissions rank first and the user ID breaks the exact-time tie
	// between alice and dave.
	want := []Entry{
		{UserID: "bob", Count: 3},
		{UserID: "alice", Count: 2},
		{UserID: "dave", Count: 2},
		{UserID: "carol", Count: 2},
	}

	got, err := trk.Leaderboard(guild, 0)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Repeated calls over unchanged state are identical.
	again, err := trk.Leaderboard(guild, 0)
	require.NoError(t, err)
	assert.Equal(t, got, again)

	top, err := trk.Leaderboard(guild, 2)
	require.NoError(t, err)
	assert.Equal(t, want[:2], top)
}

func TestPendingUsers(t *testing.T) {
	trk, _ := newTestTracker(t)

	submit(t, trk, "alice", "chan-1", "msg-1")
	submit(t, trk, "bob", "chan-1", "msg-2")
	_, err := trk.ApplyReaction(guild, "msg-1", "bob", true)
	require.NoError(t, err)

	// alice has an engagement; bob submitted but got none; carol never
	// submitted. Duplicate member entries must not duplicate output.
	pending, err := trk.PendingUsers(guild, []string{"alice", "bob", "carol", "carol"})
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "carol"}, pending)
}

func TestScenarioSubmitReactReset(t *testing.T) {
	trk, _ := newTestTracker(t)
	adm := NewAdmin(trk)

	submit(t, trk, "alice", "chan-1", "msg-1")

	for _, reactor := range []string{"bob", "carol"} {
		res, err := trk.ApplyReaction(guild, "msg-1", reactor, true)
		require.NoError(t, err)
		require.NotNil(t, res)
	}

	lb, err := trk.Leaderboard(guild, 10)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{UserID: "alice", Count: 2}}, lb)

	res, err := trk.ApplyReaction(guild, "msg-1", "bob", false)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 1, res.Count)

	lb, err = trk.Leaderboard(guild, 10)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{UserID: "alice", Count: 1}}, lb)

	_, err = adm.ResetSession(guild)
	require.NoError(t, err)

	st, err := trk.Status(guild, "alice")
	require.NoError(t, err)
	assert.False(t, st.HasSubmitted)
	assert.Equal(t, 0, st.EngagementCount)

	// Prior-epoch reaction events are no-ops after the reset.
	stale, err := trk.ApplyReaction(guild, "msg-1", "carol", true)
	require.NoError(t, err)
	assert.Nil(t, stale)
}

func TestQuarantineOnCorruptedSession(t *testing.T) {
	trk, store := newTestTracker(t)
	adm := NewAdmin(trk)

	g := model.NewGuildSession(guild)
	g.MessageIndex["msg-ghost"] = "nobody" // index entry without a submission
	store.put(guild, g)

	_, _, err := trk.SubmitLink(guild, "alice", "chan-1", "msg-1", "https://example.com/a")
	assert.ErrorIs(t, err, ErrSessionQuarantined)
	assert.True(t, store.get(guild).Quarantined, "quarantine flag must be persisted")

	// Still quarantined on the next attempt; no revalidation-based self-heal.
	_, _, err = trk.SubmitLink(guild, "alice", "chan-1", "msg-1", "https://example.com/a")
	assert.ErrorIs(t, err, ErrSessionQuarantined)

	// Reads stay available while writes are refused.
	st, err := trk.Status(guild, "alice")
	require.NoError(t, err)
	assert.False(t, st.HasSubmitted)

	// Reset is the documented way out.
	_, err = adm.ResetSession(guild)
	require.NoError(t, err)

	_, _, err = trk.SubmitLink(guild, "alice", "chan-1", "msg-1", "https://example.com/a")
	assert.NoError(t, err)
}

func TestStoreErrorsSurfaceAsRetryable(t *testing.T) {
	trk, store := newTestTracker(t)

	store.loadErr = ErrStoreTimeout
	_, _, err := trk.SubmitLink(guild, "alice", "chan-1", "msg-1", "https://example.com/a")
	require.Error(t, err)
	assert.True(t, IsRetryable(err))

	store.loadErr = nil
	store.saveErr = ErrStoreUnavailable
	_, _, err = trk.SubmitLink(guild, "alice", "chan-1", "msg-1", "https://example.com/a")
	require.Error(t, err)
	assert.True(t, IsRetryable(err))

	assert.False(t, IsRetryable(ErrChannelNotAllowed))
}

func TestChannelsSnapshot(t *testing.T) {
	trk, _ := newTestTracker(t)
	adm := NewAdmin(trk)

	require.NoError(t, adm.SetAllowedChannels(guild, []string{"chan-1"}))
	require.NoError(t, adm.SetLogChannel(guild, "log-1"))
	require.NoError(t, adm.SetReportChannel(guild, "report-1"))

	cfg, err := trk.Channels(guild)
	require.NoError(t, err)
	assert.Equal(t, []string{"chan-1"}, cfg.AllowedChannels)
	assert.Equal(t, "log-1", cfg.LogChannelID)
	assert.Equal(t, "report-1", cfg.ReportChannelID)
}
