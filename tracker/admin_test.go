package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetSessionIdempotent(t *testing.T) {
	trk, store := newTestTracker(t)
	adm := NewAdmin(trk)

	// Resetting an empty session is legal and still advances the epoch.
	first, err := adm.ResetSession(guild)
	require.NoError(t, err)
	assert.NotEmpty(t, first)
	assert.EqualValues(t, 1, store.get(guild).Epoch)

	second, err := adm.ResetSession(guild)
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "each reset gets its own audit ID")
	assert.EqualValues(t, 2, store.get(guild).Epoch)
	assert.Equal(t, second, store.get(guild).LastResetID)
}

func TestSetAllowedChannelsNotRetroactive(t *testing.T) {
	trk, _ := newTestTracker(t)
	adm := NewAdmin(trk)

	submit(t, trk, "alice", "chan-D", "msg-1")

	require.NoError(t, adm.SetAllowedChannels(guild, []string{"chan-C"}))

	// New submissions in the old channel are rejected now.
	_, _, err := trk.SubmitLink(guild, "bob", "chan-D", "msg-2", "https://example.com/b")
	assert.ErrorIs(t, err, ErrChannelNotAllowed)

	// The pre-existing submission stays valid and queryable.
	st, err := trk.Status(guild, "alice")
	require.NoError(t, err)
	assert.True(t, st.HasSubmitted)
	assert.Equal(t, "chan-D", st.ChannelID)
}

func TestSetAllowedChannelsDeduplicates(t *testing.T) {
	trk, _ := newTestTracker(t)
	adm := NewAdmin(trk)

	require.NoError(t, adm.SetAllowedChannels(guild, []string{"chan-1", "chan-1", "", "chan-2"}))

	cfg, err := trk.Channels(guild)
	require.NoError(t, err)
	assert.Equal(t, []string{"chan-1", "chan-2"}, cfg.AllowedChannels)
}

func TestAddAllowedChannel(t *testing.T) {
	trk, store := newTestTracker(t)
	adm := NewAdmin(trk)

	require.NoError(t, adm.SetAllowedChannels(guild, []string{"chan-1"}))
	require.NoError(t, adm.AddAllowedChannel(guild, "chan-2"))

	saves := store.saves
	// Adding an already-allowed channel changes nothing and writes nothing.
	require.NoError(t, adm.AddAllowedChannel(guild, "chan-2"))
	assert.Equal(t, saves, store.saves)

	cfg, err := trk.Channels(guild)
	require.NoError(t, err)
	assert.Equal(t, []string{"chan-1", "chan-2"}, cfg.AllowedChannels)
}

func TestSetLogAndReportChannels(t *testing.T) {
	trk, _ := newTestTracker(t)
	adm := NewAdmin(trk)

	require.NoError(t, adm.SetLogChannel(guild, "log-1"))
	require.NoError(t, adm.SetReportChannel(guild, "report-1"))

	cfg, err := trk.Channels(guild)
	require.NoError(t, err)
	assert.Equal(t, "log-1", cfg.LogChannelID)
	assert.Equal(t, "report-1", cfg.ReportChannelID)
}

func TestSeedDefaultsOnlyFillsUnsetFields(t *testing.T) {
	trk, _ := newTestTracker(t)
	adm := NewAdmin(trk)

	require.NoError(t, adm.SeedDefaults(guild, []string{"chan-1"}, "log-1", "report-1"))

	cfg, err := trk.Channels(guild)
	require.NoError(t, err)
	assert.Equal(t, []string{"chan-1"}, cfg.AllowedChannels)
	assert.Equal(t, "log-1", cfg.LogChannelID)
	assert.Equal(t, "report-1", cfg.ReportChannelID)

	// Admin-configured values win over a later seeding pass, as on a
	// process restart with a stale config file.
	require.NoError(t, adm.SetLogChannel(guild, "log-2"))
	require.NoError(t, adm.SeedDefaults(guild, []string{"chan-9"}, "log-1", "report-9"))

	cfg, err = trk.Channels(guild)
	require.NoError(t, err)
	assert.Equal(t, []string{"chan-1"}, cfg.AllowedChannels)
	assert.Equal(t, "log-2", cfg.LogChannelID)
	assert.Equal(t, "report-1", cfg.ReportChannelID)
}

func TestSeedDefaultsNoChangesNoWrite(t *testing.T) {
	trk, store := newTestTracker(t)
	adm := NewAdmin(trk)

	require.NoError(t, adm.SeedDefaults(guild, nil, "", ""))
	assert.Zero(t, store.saves)
}

func TestResetSerializesWithSubmissions(t *testing.T) {
	// Concurrent resets and submissions against one guild must serialize;
	// whatever the interleaving, the final record passes validation.
	trk, store := newTestTracker(t)
	adm := NewAdmin(trk)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 20; i++ {
			_, _ = adm.ResetSession(guild)
		}
	}()
	for i := 0; i < 20; i++ {
		_, _, _ = trk.SubmitLink(guild, "alice", "chan-1", "msg-1", "https://example.com/a")
	}
	<-done

	// Give the last reset time to land, then check consistency.
	require.Eventually(t, func() bool {
		g := store.get(guild)
		return g != nil && g.Validate() == nil
	}, time.Second, 10*time.Millisecond)
}
