package apperror

import "errors"

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room is full")
	ErrNotJoinable  = errors.New("room is not joinable")
	ErrNotHost      = errors.New("only the host can start the game")
	ErrInvalidState = errors.New("operation is not allowed in the current room state")
)
