package room

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/glyphtide/glyphtide-backend/internal/apperror"
	"github.com/glyphtide/glyphtide-backend/internal/entity"
	"github.com/glyphtide/glyphtide-backend/internal/glyphtide"
)

const (
	inboxSize  = 64
	eventsSize = 256
)

// Room wraps one entity.Room in a single-goroutine actor. All mutations,
// inbound operations and the fixed tick alike, run on that goroutine, so a
// gesture match and a same-tick collision can never race on one marker.
// Emitted events leave through a channel the gateway drains.
type Room struct {
	ID string

	logger *slog.Logger
	rules  glyphtide.Rules

	state    *entity.Room
	inbox    chan any
	events   chan Event
	quit     chan struct{}
	stopOnce atomic.Bool
	stopping bool

	tickInterval time.Duration
	info         atomic.Pointer[Info]

	// OnEmpty is invoked on the actor goroutine when the last player leaves,
	// before the actor shuts down. The registry uses it to delete the room.
	OnEmpty func(id string)
}

type joinCmd struct {
	playerID  string
	asCreator bool
	reply     chan joinReply
}

type joinReply struct {
	player *entity.Player
	err    error
}

type leaveCmd struct {
	playerID string
}

type startCmd struct {
	playerID string
	reply    chan error
}

type gestureCmd struct {
	playerID   string
	symbolType entity.SymbolType
	confidence float64
	reply      chan *entity.Symbol
}

func New(logger *slog.Logger, id string, settings entity.Settings, rules glyphtide.Rules, tickInterval time.Duration) *Room {
	that := &Room{
		ID:           id,
		logger:       logger.With("component", "room", "roomID", id),
		rules:        rules,
		state:        entity.NewRoom(id, settings),
		inbox:        make(chan any, inboxSize),
		events:       make(chan Event, eventsSize),
		quit:         make(chan struct{}),
		tickInterval: tickInterval,
	}

	that.publishInfo()

	return that
}

// Run drives the actor until Stop. The ticker fires every tick interval but
// tick processing is a no-op outside the active state; once the room turns
// terminal the ticker is stopped for good.
func (that *Room) Run() {
	ticker := time.NewTicker(that.tickInterval)
	defer ticker.Stop()
	defer close(that.events)

	for {
		select {
		case <-that.quit:
			return
		case cmd := <-that.inbox:
			that.handleCommand(cmd)
		case <-ticker.C:
			if that.tick() {
				ticker.Stop()
			}
		}
	}
}

// Stop terminates the actor. Safe to call more than once and from any
// goroutine.
func (that *Room) Stop() {
	if that.stopOnce.CompareAndSwap(false, true) {
		close(that.quit)
	}
}

// Events is the outbound event stream. Closed when the actor exits.
func (that *Room) Events() <-chan Event {
	return that.events
}

// Info returns the registry projection without touching actor state.
func (that *Room) Info() Info {
	return *that.info.Load()
}

// Join adds a player. asCreator selects the roomCreated reply event instead
// of the roomJoined/playerJoined pair.
func (that *Room) Join(playerID string, asCreator bool) (*entity.Player, error) {
	reply := make(chan joinReply, 1)
	if !that.send(joinCmd{playerID: playerID, asCreator: asCreator, reply: reply}) {
		return nil, apperror.ErrRoomNotFound
	}

	select {
	case res := <-reply:
		return res.player, res.err
	case <-that.quit:
		return nil, apperror.ErrRoomNotFound
	}
}

// Leave removes a player; disconnects funnel through here too. Emptying the
// room tears it down.
func (that *Room) Leave(playerID string) {
	that.send(leaveCmd{playerID: playerID})
}

// Start begins the game. Only the host may start, only from the lobby.
func (that *Room) Start(playerID string) error {
	reply := make(chan error, 1)
	if !that.send(startCmd{playerID: playerID, reply: reply}) {
		return apperror.ErrRoomNotFound
	}

	select {
	case err := <-reply:
		return err
	case <-that.quit:
		return apperror.ErrRoomNotFound
	}
}

// Gesture reports a recognized symbol for a player. Returns the cleared
// marker, or nil when nothing matched or the room is not active.
func (that *Room) Gesture(playerID string, symbolType entity.SymbolType, confidence float64) *entity.Symbol {
	reply := make(chan *entity.Symbol, 1)
	if !that.send(gestureCmd{playerID: playerID, symbolType: symbolType, confidence: confidence, reply: reply}) {
		return nil
	}

	select {
	case symbol := <-reply:
		return symbol
	case <-that.quit:
		return nil
	}
}

func (that *Room) send(cmd any) bool {
	select {
	case that.inbox <- cmd:
		return true
	case <-that.quit:
		return false
	}
}

func (that *Room) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case joinCmd:
		c.reply <- that.handleJoin(c.playerID, c.asCreator)
	case leaveCmd:
		that.handleLeave(c.playerID)
	case startCmd:
		c.reply <- that.handleStart(c.playerID)
	case gestureCmd:
		c.reply <- that.handleGesture(c.playerID, c.symbolType, c.confidence)
	}
}

func (that *Room) handleJoin(playerID string, asCreator bool) joinReply {
	player, err := that.state.AddPlayer(playerID)
	if err != nil {
		return joinReply{err: err}
	}

	that.publishInfo()

	if asCreator {
		that.emit(Event{Type: EventRoomCreated, TargetID: playerID, Player: player, Room: that.state.Snapshot()})
	} else {
		that.emit(Event{Type: EventRoomJoined, TargetID: playerID, Player: player, Room: that.state.Snapshot()})
		that.emit(Event{Type: EventPlayerJoined, ExceptID: playerID, Player: player, Room: that.state.Snapshot()})
	}

	that.logger.Info("player joined", "playerID", playerID, "players", len(that.state.Players))

	return joinReply{player: player}
}

func (that *Room) handleLeave(playerID string) {
	if !that.state.RemovePlayer(playerID) {
		return
	}

	that.logger.Info("player left", "playerID", playerID, "players", len(that.state.Players))

	if len(that.state.Players) == 0 {
		// Stop ticking before the registry forgets the room: a dangling
		// timer on a deleted room must never fire.
		that.stopping = true
		if that.OnEmpty != nil {
			that.OnEmpty(that.ID)
		}
		that.Stop()

		return
	}

	glyphtide.ReassignStaleTargets(that.state)
	that.publishInfo()
	that.emit(Event{Type: EventPlayerLeft, Room: that.state.Snapshot()})
}

func (that *Room) handleStart(playerID string) error {
	if !that.state.IsLobby() {
		return apperror.ErrInvalidState
	}

	if playerID != that.state.HostID {
		return apperror.ErrNotHost
	}

	if len(that.state.Players) == 0 {
		return apperror.ErrInvalidState
	}

	that.state.State = entity.StateActive
	glyphtide.GenerateSymbols(that.state, that.rules)
	glyphtide.AssignTargets(that.state)

	that.publishInfo()
	that.emit(Event{Type: EventGameStarted, Room: that.state.Snapshot()})

	that.logger.Info("game started", "symbols", len(that.state.Symbols))

	return nil
}

func (that *Room) handleGesture(playerID string, symbolType entity.SymbolType, confidence float64) *entity.Symbol {
	if !that.state.IsActive() {
		return nil
	}

	if confidence < that.rules.MinConfidence {
		return nil
	}

	matched := glyphtide.MatchSymbol(that.state, playerID, symbolType)
	if matched == nil {
		return nil
	}

	symbol := *matched
	that.emit(Event{Type: EventSymbolMatched, PlayerID: playerID, Symbol: &symbol, Room: that.state.Snapshot()})

	// Round completion is evaluated on the tick path, after collision
	// processing; a gesture that clears the last marker is picked up by the
	// next tick.
	return &symbol
}

// tick runs one motion+collision step. Returns true when the room reached a
// terminal state and the scheduler should stop.
func (that *Room) tick() bool {
	if that.stopping || !that.state.IsActive() {
		return that.state.IsFinished()
	}

	if glyphtide.AdvanceTentacles(that.state, that.rules) {
		that.emit(Event{Type: EventTentacleUpdate, Room: that.state.Snapshot()})
	}

	outcome := glyphtide.ResolveCollisions(that.state, that.rules)

	if outcome.Hit {
		that.emit(Event{Type: EventPlayerUpdate, Room: that.state.Snapshot()})
	}

	if outcome.Lost {
		that.publishInfo()
		that.emit(Event{Type: EventGameLost, Room: that.state.Snapshot()})
		that.logger.Info("game lost", "round", that.state.CurrentRound)

		return true
	}

	if that.state.IsActive() && len(that.state.Symbols) > 0 && that.state.AllSymbolsCompleted() {
		that.advanceRound()
	}

	return that.state.IsFinished()
}

// advanceRound fires once the current batch is fully cleared. In the finite
// design the last cleared round wins the game; otherwise the next batch is
// generated and the scheduler keeps running.
func (that *Room) advanceRound() {
	if that.state.MaxRounds > 0 && that.state.CurrentRound >= that.state.MaxRounds {
		that.state.State = entity.StateWon
		that.publishInfo()
		that.emit(Event{Type: EventGameWon, Room: that.state.Snapshot()})
		that.logger.Info("game won", "round", that.state.CurrentRound)

		return
	}

	that.state.CurrentRound++
	that.state.ResetSymbols()
	glyphtide.GenerateSymbols(that.state, that.rules)
	glyphtide.AssignTargets(that.state)

	that.emit(Event{Type: EventRoundCompleted, Room: that.state.Snapshot()})

	that.logger.Info("round started", "round", that.state.CurrentRound, "symbols", len(that.state.Symbols))
}

func (that *Room) emit(event Event) {
	select {
	case that.events <- event:
	default:
		that.logger.Warn("event channel full, dropping event", "type", event.Type)
	}
}

func (that *Room) publishInfo() {
	that.info.Store(&Info{
		ID:          that.state.ID,
		PlayerCount: len(that.state.Players),
		State:       that.state.State,
		Thumbnail:   that.state.Thumbnail,
		CreatedAt:   that.state.CreatedAt,
	})
}
