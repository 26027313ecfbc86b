package apperror

import "errors"

var (
	ErrRoomFull          = errors.New("room is full")
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomAlreadyExists = errors.New("room already exists")
	ErrDuplicateGuess    = errors.New("word has already been played")
	ErrSessionNotStarted = errors.New("room session is not started")
)
