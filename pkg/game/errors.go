package game

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownGame   = errors.New("unknown game")
	ErrConfiguration = errors.New("invalid configuration")
	ErrProtocol      = errors.New("protocol violation")
)

// ConfigurationError describes malformed setup, it is always returned before
// any bot process is started
type ConfigurationError struct {
	Field  string
	Reason string
}

func NewConfigurationError(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// ProtocolError is a rejected bot output
type ProtocolError struct {
	Player     int
	Turn       int
	Diagnostic string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("player %d, turn %d: %s", e.Player, e.Turn, e.Diagnostic)
}

func (e *ProtocolError) Unwrap() error { return ErrProtocol }
