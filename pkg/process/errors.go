package process

import (
	"errors"
	"fmt"
)

var (
	// ErrChannelClosed matches every failed write to a child that exited or was killed
	ErrChannelClosed = errors.New("process channel closed")
	ErrBotNotFound   = errors.New("bot not found")
	ErrNotExecutable = errors.New("bot is not executable")
)

// ChannelError is returned by Write when the child can no longer receive input
type ChannelError struct {
	Pid int
	Err error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("write to process %d: %v", e.Pid, e.Err)
}

func (e *ChannelError) Unwrap() []error {
	return []error{ErrChannelClosed, e.Err}
}
