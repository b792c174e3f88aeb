package entity

import (
	"fmt"
	"time"

	"github.com/glyphtide/glyphtide-backend/internal/apperror"
)

const (
	StateLobby  = "lobby"
	StateActive = "active"
	StateWon    = "won"
	StateLost   = "lost"
)

const (
	HealthShared    = "shared"
	HealthPerPlayer = "per-player"
)

const MaxPlayers = 4

// Settings fixes the per-room rule variants at construction time. A room
// never changes its health model or round design during its lifetime.
type Settings struct {
	HealthMode   string
	SharedHearts int
	PlayerHearts int
	MaxRounds    int // 0 means endless rounds until the health pool runs out
	Thumbnail    string
}

type Room struct {
	ID               string    `json:"id"`
	Players          []*Player `json:"players"`
	State            string    `json:"gameState"`
	Symbols          []*Symbol `json:"targetSymbols"`
	CompletedSymbols []string  `json:"completedSymbols"`
	HealthMode       string    `json:"healthMode"`
	SharedHearts     int       `json:"sharedHearts"`
	CurrentRound     int       `json:"currentRound"`
	MaxRounds        int       `json:"maxRounds,omitempty"`
	HostID           string    `json:"hostId,omitempty"`
	Thumbnail        string    `json:"thumbnail,omitempty"`
	CreatedAt        int64     `json:"createdAt"`

	playerHearts int
	nextSymbolID int
}

func NewRoom(id string, settings Settings) *Room {
	return &Room{
		ID:               id,
		Players:          []*Player{},
		State:            StateLobby,
		Symbols:          []*Symbol{},
		CompletedSymbols: []string{},
		HealthMode:       settings.HealthMode,
		SharedHearts:     settings.SharedHearts,
		CurrentRound:     1,
		MaxRounds:        settings.MaxRounds,
		Thumbnail:        settings.Thumbnail,
		CreatedAt:        time.Now().UnixMilli(),

		playerHearts: settings.PlayerHearts,
	}
}

// AddPlayer puts a new player into the next free slot. The first player to
// ever join becomes the host.
func (that *Room) AddPlayer(id string) (*Player, error) {
	if that.State != StateLobby {
		return nil, apperror.ErrNotJoinable
	}

	if len(that.Players) >= MaxPlayers {
		return nil, apperror.ErrRoomFull
	}

	if len(that.Players) == 0 {
		that.HostID = id
	}

	player := &Player{
		ID:     id,
		Alive:  true,
		IsHost: id == that.HostID,
	}

	if that.HealthMode == HealthPerPlayer {
		player.Hearts = that.playerHearts
	}

	player.ApplySlot(len(that.Players))
	that.Players = append(that.Players, player)

	return player, nil
}

// RemovePlayer drops a player and re-derives every remaining player's slot
// identity from its new index. If the host left, the now-first player
// inherits the host role.
func (that *Room) RemovePlayer(id string) bool {
	index := -1
	for i, player := range that.Players {
		if player.ID == id {
			index = i
			break
		}
	}

	if index == -1 {
		return false
	}

	that.Players = append(that.Players[:index], that.Players[index+1:]...)

	if that.HostID == id && len(that.Players) > 0 {
		that.HostID = that.Players[0].ID
	}

	for i, player := range that.Players {
		player.ApplySlot(i)
		player.IsHost = player.ID == that.HostID
	}

	return true
}

func (that *Room) PlayerByID(id string) *Player {
	for _, player := range that.Players {
		if player.ID == id {
			return player
		}
	}

	return nil
}

func (that *Room) AlivePlayers() []*Player {
	alive := make([]*Player, 0, len(that.Players))
	for _, player := range that.Players {
		if player.Alive {
			alive = append(alive, player)
		}
	}

	return alive
}

// NextSymbolID hands out symbol ids unique for the room's whole lifetime,
// across round regenerations.
func (that *Room) NextSymbolID() string {
	id := fmt.Sprintf("symbol_%d", that.nextSymbolID)
	that.nextSymbolID++

	return id
}

// CompleteSymbol retires a symbol. Completion is monotonic: nothing ever
// clears the flag again.
func (that *Room) CompleteSymbol(symbol *Symbol) {
	if symbol.Completed {
		return
	}

	symbol.Completed = true
	that.CompletedSymbols = append(that.CompletedSymbols, symbol.ID)
}

func (that *Room) AllSymbolsCompleted() bool {
	for _, symbol := range that.Symbols {
		if !symbol.Completed {
			return false
		}
	}

	return true
}

// ResetSymbols clears the marker lists before the next round's batch is
// generated.
func (that *Room) ResetSymbols() {
	that.Symbols = []*Symbol{}
	that.CompletedSymbols = []string{}
}

func (that *Room) IsLobby() bool {
	return that.State == StateLobby
}

func (that *Room) IsActive() bool {
	return that.State == StateActive
}

func (that *Room) IsFinished() bool {
	return that.State == StateWon || that.State == StateLost
}

// Snapshot returns a deep copy of the room projection. Consumers replace
// their local copy wholesale, so the copy must not alias live state.
func (that *Room) Snapshot() *Room {
	snapshot := &Room{
		ID:               that.ID,
		Players:          make([]*Player, len(that.Players)),
		State:            that.State,
		Symbols:          make([]*Symbol, len(that.Symbols)),
		CompletedSymbols: append([]string{}, that.CompletedSymbols...),
		HealthMode:       that.HealthMode,
		SharedHearts:     that.SharedHearts,
		CurrentRound:     that.CurrentRound,
		MaxRounds:        that.MaxRounds,
		HostID:           that.HostID,
		Thumbnail:        that.Thumbnail,
		CreatedAt:        that.CreatedAt,
	}

	for i, player := range that.Players {
		copied := *player
		snapshot.Players[i] = &copied
	}

	for i, symbol := range that.Symbols {
		copied := *symbol
		snapshot.Symbols[i] = &copied
	}

	return snapshot
}
