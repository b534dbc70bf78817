package game

import "errors"

// Precondition errors. Each one is rejected synchronously to the caller with
// the room left untouched; none of them ever broadcasts to other seats.
var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room is full")
	ErrRoomInProgress   = errors.New("game already in progress")
	ErrNameTaken        = errors.New("username already taken in this room")
	ErrNotHost          = errors.New("only the host can do that")
	ErrNotEnoughPlayers = errors.New("need at least 2 players to start")
	ErrWrongPhase       = errors.New("action not valid in the current phase")
	ErrNotMantri        = errors.New("only the mantri can call the sipahi")
	ErrNotSipahi        = errors.New("only the sipahi can make the guess")
	ErrInvalidTarget    = errors.New("invalid target")
	ErrInvalidConfig    = errors.New("invalid room configuration")
	ErrNotInRoom        = errors.New("you are not in this room")
	ErrServerFull       = errors.New("server is at room capacity")
)
