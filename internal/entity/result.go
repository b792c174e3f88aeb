package entity

// GameResult is the summary persisted when a room reaches a terminal state.
type GameResult struct {
	RoomID      string `json:"roomId"`
	Outcome     string `json:"outcome"` // StateWon or StateLost
	Rounds      int    `json:"rounds"`
	PlayerCount int    `json:"playerCount"`
	HealthMode  string `json:"healthMode"`
	FinishedAt  int64  `json:"finishedAt"`
}
