package config

import "errors"

// Sentinel errors for tournament configuration validation.
var (
	// ErrConfigEmpty is returned when the config data is empty (zero bytes).
	ErrConfigEmpty = errors.New("tournament configuration is empty")

	// ErrUnknownGame is returned when game does not name a registered game.
	ErrUnknownGame = errors.New("game is not registered")

	// ErrNoBots is returned when bots is empty.
	ErrNoBots = errors.New("bots must not be empty")

	// ErrTooManyBots is returned when more than MaxBots bots are listed.
	ErrTooManyBots = errors.New("too many bots")

	// ErrDuplicateBot is returned when the same bot is listed twice.
	ErrDuplicateBot = errors.New("duplicate bot")

	// ErrGamesNonPositive is returned when games is zero or negative.
	ErrGamesNonPositive = errors.New("games must be positive")

	// ErrBadArity is returned when arity is outside the game's supported range.
	ErrBadArity = errors.New("arity not supported by the game")

	// ErrBadLimits is returned when a timeout or the expected line count is negative.
	ErrBadLimits = errors.New("limits must not be negative")
)
