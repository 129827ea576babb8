package config

import "errors"

var (
	ErrMissingAPIKey    = errors.New("OPENAI_API_KEY is not set")
	ErrMissingModel     = errors.New("OPENAI_MODEL is not set")
	ErrUnknownInterface = errors.New("unknown interface")
)
