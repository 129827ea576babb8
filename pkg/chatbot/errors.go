package chatbot

import "errors"

var (
	ErrEmptyInput      = errors.New("user input is required")
	ErrEmptyCompletion = errors.New("empty completion choices")
	ErrMaxTurns        = errors.New("max turns reached before assistant produced a final response")
)
