package room

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphtide/glyphtide-backend/internal/apperror"
	"github.com/glyphtide/glyphtide-backend/internal/entity"
	"github.com/glyphtide/glyphtide-backend/internal/glyphtide"
)

const testTick = 5 * time.Millisecond

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSettings() entity.Settings {
	return entity.Settings{HealthMode: entity.HealthShared, SharedHearts: 6}
}

// frozenRules keeps tentacles still so tests control the timeline through
// gestures only.
func frozenRules() glyphtide.Rules {
	rules := glyphtide.DefaultRules()
	rules.TentacleSpeed = 0

	return rules
}

func waitEvent(t *testing.T, events <-chan Event, want EventType) Event {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case event, ok := <-events:
			if !ok {
				t.Fatalf("event stream closed while waiting for %s", want)
			}
			if event.Type == want {
				return event
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", want)
		}
	}
}

func waitClosed(t *testing.T, events <-chan Event) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for event stream to close")
		}
	}
}

func TestRoom_JoinLifecycle(t *testing.T) {
	manager := NewManager(testLogger(), frozenRules(), testTick)
	defer manager.Shutdown()

	created := manager.CreateRoom(testSettings())

	// When: the creator joins
	host, err := created.Join("p1", true)
	require.NoError(t, err)
	require.True(t, host.IsHost)

	// Then: a roomCreated event targets the creator with a full snapshot
	event := waitEvent(t, created.Events(), EventRoomCreated)
	assert.Equal(t, "p1", event.TargetID)
	require.NotNil(t, event.Room)
	assert.Equal(t, entity.StateLobby, event.Room.State)
	assert.Len(t, event.Room.Players, 1)

	// When: a second player joins
	_, err = created.Join("p2", false)
	require.NoError(t, err)

	// Then: the joiner gets roomJoined, the rest get playerJoined
	joined := waitEvent(t, created.Events(), EventRoomJoined)
	assert.Equal(t, "p2", joined.TargetID)

	notified := waitEvent(t, created.Events(), EventPlayerJoined)
	assert.Equal(t, "p2", notified.ExceptID)
	assert.Len(t, notified.Room.Players, 2)
}

func TestRoom_StartGame(t *testing.T) {
	manager := NewManager(testLogger(), frozenRules(), testTick)
	defer manager.Shutdown()

	created := manager.CreateRoom(testSettings())
	_, err := created.Join("p1", true)
	require.NoError(t, err)
	_, err = created.Join("p2", false)
	require.NoError(t, err)

	// Then: only the host may start, only from the lobby
	require.ErrorIs(t, created.Start("p2"), apperror.ErrNotHost)

	require.NoError(t, created.Start("p1"))

	event := waitEvent(t, created.Events(), EventGameStarted)
	assert.Equal(t, entity.StateActive, event.Room.State)
	require.Len(t, event.Room.Symbols, 2*glyphtide.DefaultRules().SymbolsPerPlayer)
	for _, symbol := range event.Room.Symbols {
		assert.NotEmpty(t, symbol.TargetPlayerID, "targets are assigned at start")
	}

	// a second start is rejected
	require.ErrorIs(t, created.Start("p1"), apperror.ErrInvalidState)
}

func TestRoom_GestureMatching(t *testing.T) {
	manager := NewManager(testLogger(), frozenRules(), testTick)
	defer manager.Shutdown()

	created := manager.CreateRoom(testSettings())
	_, err := created.Join("p1", true)
	require.NoError(t, err)

	// gestures before the game starts are ignored
	assert.Nil(t, created.Gesture("p1", entity.SymbolLine, 0.9))

	require.NoError(t, created.Start("p1"))
	started := waitEvent(t, created.Events(), EventGameStarted)

	// When: the player draws the first pending marker's shape
	target := started.Room.Symbols[0]
	matched := created.Gesture("p1", target.Type, 0.9)

	// Then: exactly that marker is returned completed and broadcast
	require.NotNil(t, matched)
	assert.True(t, matched.Completed)

	event := waitEvent(t, created.Events(), EventSymbolMatched)
	assert.Equal(t, "p1", event.PlayerID)
	assert.Equal(t, matched.ID, event.Symbol.ID)
	assert.Contains(t, event.Room.CompletedSymbols, matched.ID)
}

func TestRoom_ConfidenceGate(t *testing.T) {
	rules := frozenRules()
	rules.MinConfidence = 0.8

	manager := NewManager(testLogger(), rules, testTick)
	defer manager.Shutdown()

	created := manager.CreateRoom(testSettings())
	_, err := created.Join("p1", true)
	require.NoError(t, err)
	require.NoError(t, created.Start("p1"))

	started := waitEvent(t, created.Events(), EventGameStarted)
	target := started.Room.Symbols[0]

	// Then: a low-confidence recognition is dropped before matching
	assert.Nil(t, created.Gesture("p1", target.Type, 0.5))

	// and the same gesture above the gate clears the marker
	require.NotNil(t, created.Gesture("p1", target.Type, 0.85))
}

func TestRoom_RoundAdvance(t *testing.T) {
	manager := NewManager(testLogger(), frozenRules(), testTick)
	defer manager.Shutdown()

	created := manager.CreateRoom(testSettings())
	_, err := created.Join("p1", true)
	require.NoError(t, err)
	require.NoError(t, created.Start("p1"))

	started := waitEvent(t, created.Events(), EventGameStarted)

	// When: the player clears the whole batch
	for _, symbol := range started.Room.Symbols {
		require.NotNil(t, created.Gesture("p1", symbol.Type, 0.9))
	}

	// Then: the next tick starts round 2 with a fresh batch
	event := waitEvent(t, created.Events(), EventRoundCompleted)
	assert.Equal(t, 2, event.Room.CurrentRound)
	assert.Equal(t, entity.StateActive, event.Room.State)
	require.Len(t, event.Room.Symbols, glyphtide.DefaultRules().SymbolsPerPlayer)
	for _, symbol := range event.Room.Symbols {
		assert.False(t, symbol.Completed)
	}
	assert.Empty(t, event.Room.CompletedSymbols)
}

func TestRoom_FiniteRoundsWin(t *testing.T) {
	settings := testSettings()
	settings.MaxRounds = 1

	manager := NewManager(testLogger(), frozenRules(), testTick)
	defer manager.Shutdown()

	created := manager.CreateRoom(settings)
	_, err := created.Join("p1", true)
	require.NoError(t, err)
	require.NoError(t, created.Start("p1"))

	started := waitEvent(t, created.Events(), EventGameStarted)

	// When: the only round is fully cleared
	for _, symbol := range started.Room.Symbols {
		require.NotNil(t, created.Gesture("p1", symbol.Type, 0.9))
	}

	// Then: the room is won instead of advancing
	event := waitEvent(t, created.Events(), EventGameWon)
	assert.Equal(t, entity.StateWon, event.Room.State)
}

func TestRoom_CollisionLoss(t *testing.T) {
	// Given: one heart and tentacles fast enough to cross the playfield in
	// a single tick
	rules := glyphtide.DefaultRules()
	rules.TentacleSpeed = rules.PlayfieldWidth

	settings := testSettings()
	settings.SharedHearts = 1

	manager := NewManager(testLogger(), rules, testTick)
	defer manager.Shutdown()

	created := manager.CreateRoom(settings)
	_, err := created.Join("p1", true)
	require.NoError(t, err)
	require.NoError(t, created.Start("p1"))

	// Then: the first collision exhausts the pool and loses the game
	event := waitEvent(t, created.Events(), EventGameLost)
	assert.Equal(t, entity.StateLost, event.Room.State)
	assert.Equal(t, 0, event.Room.SharedHearts)
	for _, player := range event.Room.Players {
		assert.False(t, player.Alive)
	}

	// the lost room stays registered until its players leave
	_, ok := manager.Get(created.ID)
	assert.True(t, ok)
}

func TestRoom_EmptyRoomTearsDown(t *testing.T) {
	manager := NewManager(testLogger(), frozenRules(), testTick)
	defer manager.Shutdown()

	created := manager.CreateRoom(testSettings())
	_, err := created.Join("p1", true)
	require.NoError(t, err)
	_, err = created.Join("p2", false)
	require.NoError(t, err)

	// When: one player leaves
	created.Leave("p1")

	// Then: the rest see playerLeft with a re-slotted roster
	event := waitEvent(t, created.Events(), EventPlayerLeft)
	require.Len(t, event.Room.Players, 1)
	assert.Equal(t, entity.SlotColors[0], event.Room.Players[0].Color)
	assert.True(t, event.Room.Players[0].IsHost)

	// When: the last player leaves
	created.Leave("p2")

	// Then: the registry forgets the room and the event stream ends, so no
	// further tick broadcasts can be observed for this id
	require.Eventually(t, func() bool {
		_, ok := manager.Get(created.ID)
		return !ok
	}, 2*time.Second, 5*time.Millisecond)

	waitClosed(t, created.Events())

	// operations against the dead room fail cleanly
	_, err = created.Join("p3", false)
	require.ErrorIs(t, err, apperror.ErrRoomNotFound)
}

func TestManager_ListLobby(t *testing.T) {
	manager := NewManager(testLogger(), frozenRules(), testTick)
	defer manager.Shutdown()

	first := manager.CreateRoom(testSettings())
	second := manager.CreateRoom(testSettings())
	require.NotEqual(t, first.ID, second.ID)
	require.Len(t, first.ID, codeLength)

	_, err := first.Join("p1", true)
	require.NoError(t, err)
	_, err = second.Join("p2", true)
	require.NoError(t, err)

	// Then: both rooms are listed while in the lobby
	infos := manager.ListLobby()
	require.Len(t, infos, 2)

	// When: one game starts
	require.NoError(t, first.Start("p1"))

	// Then: only the lobby room remains listed
	infos = manager.ListLobby()
	require.Len(t, infos, 1)
	assert.Equal(t, second.ID, infos[0].ID)
	assert.Equal(t, 1, infos[0].PlayerCount)
	assert.Equal(t, entity.StateLobby, infos[0].State)
}
