// internal/session/scheduler_test.go
package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlevan/scrawl/internal/models"
	"github.com/mlevan/scrawl/internal/store"
)

func TestDeadlineAdvancesRound(t *testing.T) {
	c, _, st := newTestCoordinator(t)

	g, _, _ := startTwoPlayerGame(t, c)
	expectedDrawer := g.Players[(g.DrawerIndex+1)%len(g.Players)]

	require.Eventually(t, func() bool {
		return loadGame(t, st, g.Code).Round == 2
	}, time.Second, 10*time.Millisecond, "deadline timer must advance the round")

	advanced := loadGame(t, st, g.Code)
	assert.Equal(t, expectedDrawer.ConnectionID, advanced.Drawer.ConnectionID)
	assert.Equal(t, advanced.Players[advanced.DrawerIndex], advanced.Drawer)
	assert.Empty(t, advanced.Guesses)
	assert.GreaterOrEqual(t, advanced.RoundStartTime, g.RoundStartTime)
}

func TestGameOverOnFinalRound(t *testing.T) {
	c, rooms, st := newTestCoordinator(t)
	ctx := context.Background()

	ann := newTestClient()
	bob := newTestClient()
	g := models.Game{
		Code:        "FINALE",
		Round:       5,
		TotalRounds: 5,
		Players: []models.Player{
			{Nickname: "Ann", ConnectionID: ann.ID.String(), Score: 300},
			{Nickname: "Bob", ConnectionID: bob.ID.String(), Score: 100},
		},
		DrawerIndex:    0,
		CurrentWord:    "apple",
		RoundStartTime: time.Now().UnixMilli(),
		RoundDuration:  50,
		Version:        9,
	}
	g.Drawer = g.Players[0]
	putGame(t, st, g)
	rooms.Join(g.Code, ann)
	rooms.Join(g.Code, bob)

	c.startRound(g.Code, g.Round, 50*time.Millisecond)
	t.Cleanup(func() { c.StopScheduler(g.Code) })

	require.Eventually(t, func() bool {
		_, err := st.Get(ctx, gameKey(g.Code))
		return err == store.ErrNotFound
	}, time.Second, 10*time.Millisecond, "final-round expiry must delete the game record")

	overs := eventsOfType(drainEvents(ann), "game-over")
	require.Len(t, overs, 1, "game-over must fire exactly once")
	final, ok := overs[0]["game"].(models.Game)
	require.True(t, ok)
	assert.Equal(t, 300, final.Players[0].Score, "final scores stay intact")
	assert.Equal(t, 100, final.Players[1].Score)
}

func TestStaleAdvanceIsNoop(t *testing.T) {
	c, _, st := newTestCoordinator(t)
	ctx := context.Background()

	ann := newTestClient()
	bob := newTestClient()
	g := models.Game{
		Code:        "STALE1",
		Round:       3,
		TotalRounds: 5,
		Players: []models.Player{
			{Nickname: "Ann", ConnectionID: ann.ID.String()},
			{Nickname: "Bob", ConnectionID: bob.ID.String()},
		},
		DrawerIndex:    1,
		CurrentWord:    "apple",
		RoundStartTime: time.Now().UnixMilli(),
		RoundDuration:  60000,
		Version:        4,
	}
	g.Drawer = g.Players[1]
	putGame(t, st, g)

	// A trigger armed for round 2 lost the race; it must not touch round 3.
	require.NoError(t, c.advanceRound(ctx, g.Code, 2))

	unchanged := loadGame(t, st, g.Code)
	assert.Equal(t, 3, unchanged.Round)
	assert.Equal(t, int64(4), unchanged.Version)
}

func TestAdvanceMissingGameIsNoop(t *testing.T) {
	c, _, _ := newTestCoordinator(t)
	assert.NoError(t, c.advanceRound(context.Background(), "GONE42", 1))
}

func TestNextRound(t *testing.T) {
	c, _, st := newTestCoordinator(t)
	ctx := context.Background()

	err := c.NextRound(ctx, "NOSUCH")
	assert.ErrorIs(t, err, ErrGameNotFound)

	g, _, _ := startTwoPlayerGame(t, c)
	require.NoError(t, c.NextRound(ctx, g.Code))

	advanced := loadGame(t, st, g.Code)
	assert.Equal(t, 2, advanced.Round)
}

func TestTimerTickBroadcasts(t *testing.T) {
	c, _, _ := newTestCoordinator(t)

	g, ann, _ := startTwoPlayerGame(t, c)

	// The tick is observational: it recomputes timeLeft from the persisted
	// record and never mutates it.
	require.Eventually(t, func() bool {
		return len(eventsOfType(drainEvents(ann), "timer-update")) > 0
	}, time.Second, 20*time.Millisecond)

	ticks := eventsOfType(drainEvents(ann), "timer-update")
	for _, tick := range ticks {
		left, ok := tick["timeLeft"].(int64)
		require.True(t, ok)
		assert.GreaterOrEqual(t, left, int64(0))
		assert.LessOrEqual(t, left, g.RoundDuration)
	}
}

func TestStopSchedulerSupersedesDeadline(t *testing.T) {
	c, _, st := newTestCoordinator(t)

	g, _, _ := startTwoPlayerGame(t, c)
	c.StopScheduler(g.Code)

	time.Sleep(2 * testConfig().RoundDuration)
	unchanged := loadGame(t, st, g.Code)
	assert.Equal(t, 1, unchanged.Round, "a stopped deadline must not advance the round")
}
