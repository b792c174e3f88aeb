package entity

// Palette of the four player slots, in slot order.
var (
	SlotColors     = [4]string{"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4"}
	SlotColorNames = [4]string{"Red", "Teal", "Blue", "Green"}
	SlotAvatars    = [4]string{"red", "teal", "blue", "green"}

	SlotSpawns = [4]Point{
		{X: 70, Y: 590},
		{X: 250, Y: 570},
		{X: 430, Y: 550},
		{X: 610, Y: 510},
	}
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Player struct {
	ID        string  `json:"id"`
	Color     string  `json:"color"`
	ColorName string  `json:"colorName"`
	Avatar    string  `json:"avatar"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Alive     bool    `json:"alive"`
	Hearts    int     `json:"hearts,omitempty"`
	IsHost    bool    `json:"isHost"`
}

// ApplySlot re-derives the positional identity of a player from its roster
// index. Color, avatar and spawn position follow the slot, not the player:
// after a removal the remaining players shift down and take over the lower
// slots, which downstream color matching relies on.
func (that *Player) ApplySlot(index int) {
	that.Color = SlotColors[index]
	that.ColorName = SlotColorNames[index]
	that.Avatar = SlotAvatars[index]
	that.X = SlotSpawns[index].X
	that.Y = SlotSpawns[index].Y
}
