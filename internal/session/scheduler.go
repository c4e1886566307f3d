// internal/session/scheduler.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/mlevan/scrawl/internal/models"
	"github.com/mlevan/scrawl/internal/store"
)

// roundTimer owns the timing for one round of one room: a single-shot
// deadline that advances the round, and a periodic tick that broadcasts the
// remaining time. Exactly one roundTimer exists per room at a time.
type roundTimer struct {
	round    int
	deadline *time.Timer
	stopTick chan struct{}
}

type timerRegistry struct {
	mu sync.Mutex
	m  map[string]*roundTimer
}

func newTimerRegistry() *timerRegistry {
	return &timerRegistry{m: make(map[string]*roundTimer)}
}

// startRound installs the round's timers, stopping any previous handle for
// the room first so a superseded deadline can no longer fire.
func (c *Coordinator) startRound(code string, round int, duration time.Duration) {
	c.timers.mu.Lock()
	if old, ok := c.timers.m[code]; ok {
		old.deadline.Stop()
		close(old.stopTick)
	}
	rt := &roundTimer{
		round:    round,
		stopTick: make(chan struct{}),
	}
	rt.deadline = time.AfterFunc(duration, func() {
		if err := c.advanceRound(context.Background(), code, round); err != nil {
			c.log.Warnf("game %s: deadline advance failed: %v", code, err)
		}
	})
	c.timers.m[code] = rt
	c.timers.mu.Unlock()

	go c.tickLoop(code, rt.stopTick)
}

// StopScheduler cancels the room's outstanding deadline and tick, if any.
func (c *Coordinator) StopScheduler(code string) {
	c.timers.mu.Lock()
	defer c.timers.mu.Unlock()
	if rt, ok := c.timers.m[code]; ok {
		rt.deadline.Stop()
		close(rt.stopTick)
		delete(c.timers.m, code)
	}
}

// tickLoop broadcasts timer-update once per tick interval, recomputing the
// remaining time from the persisted record. It is purely observational and
// exits when the round handle is stopped or the game record disappears.
func (c *Coordinator) tickLoop(code string, stop <-chan struct{}) {
	ticker := time.NewTicker(c.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			data, err := c.store.Get(context.Background(), gameKey(code))
			if err != nil {
				return
			}
			g, err := decodeGame(data)
			if err != nil {
				c.log.Warnf("game %s: tick decode failed: %v", code, err)
				return
			}
			c.rooms.Broadcast(code, timerEvent(g.TimeLeft(time.Now())))
		}
	}
}

// NextRound performs a manual advance of the current round, the same
// transition the deadline timer performs on expiry.
func (c *Coordinator) NextRound(ctx context.Context, code string) error {
	data, err := c.store.Get(ctx, gameKey(code))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrGameNotFound
		}
		return err
	}
	g, err := decodeGame(data)
	if err != nil {
		return err
	}
	return c.advanceRound(ctx, code, g.Round)
}

// advanceRound moves the game past fromRound. All advancement triggers
// (deadline expiry, correct guess, manual next-round) funnel through here;
// the optimistic update rechecks the round so a trigger that lost the race
// becomes a no-op instead of a duplicate transition.
//
// At the final round the game record is deleted and game-over is broadcast
// with the last snapshot; otherwise the drawer rotates by one, guesses are
// cleared, a new word is chosen, and the round clock restarts.
func (c *Coordinator) advanceRound(ctx context.Context, code string, fromRound int) error {
	var (
		ended    bool
		advanced bool
		snapshot models.Game
	)
	err := c.store.Update(ctx, gameKey(code), c.cfg.SessionTTL, func(cur []byte) ([]byte, error) {
		ended, advanced = false, false

		g, err := decodeGame(cur)
		if err != nil {
			return nil, err
		}
		if g.Round != fromRound {
			return nil, store.ErrSkipUpdate // another trigger already advanced
		}
		if g.Round >= g.TotalRounds {
			snapshot = g
			ended = true
			return nil, nil // delete the record
		}

		g.Round++
		g.DrawerIndex = (g.DrawerIndex + 1) % len(g.Players)
		g.Drawer = g.Players[g.DrawerIndex]
		g.Guesses = nil
		g.CurrentWord = c.words.Pick()
		g.RoundStartTime = time.Now().UnixMilli()
		g.Version++
		snapshot = g
		advanced = true
		return json.Marshal(g)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Game already gone (finished or expired): nothing to advance.
			c.StopScheduler(code)
			return nil
		}
		return err
	}

	switch {
	case ended:
		c.StopScheduler(code)
		c.rooms.Broadcast(code, gameEvent("game-over", snapshot))
		c.log.Infof("game %s over after round %d", code, snapshot.Round)
	case advanced:
		c.rooms.Broadcast(code, gameEvent("game-updated", snapshot))
		c.startRound(code, snapshot.Round, time.Duration(snapshot.RoundDuration)*time.Millisecond)
		c.log.Infof("game %s advanced to round %d, drawer %q", code, snapshot.Round, snapshot.Drawer.Nickname)
	}
	return nil
}
