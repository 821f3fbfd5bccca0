package process

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Stream selects one of the child's output streams
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

func (s Stream) String() string {
	if s == Stderr {
		return "stderr"
	}
	return "stdout"
}

// How long Kill waits for the reaper before forcing the output streams closed
var KillWait = 500 * time.Millisecond

var errExited = errors.New("process exited")

// Channel owns one bot process. Output of both streams is drained in the background,
// so a chatty child never blocks on a full pipe and a silent one never blocks the caller.
type Channel struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	pipes  [2]io.Closer
	queues [2]*lineQueue

	drains   errgroup.Group
	drainErr error
	exitErr  error
	done     chan struct{}

	killOnce sync.Once
	killed   atomic.Bool
	killErr  error
}

// Spawn starts the program with all three standard streams redirected
func Spawn(name string, args ...string) (*Channel, error) {
	cmd := exec.Command(name, args...)
	setProcessGroup(cmd)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe for %s: %w", name, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe for %s: %w", name, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe for %s: %w", name, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", name, err)
	}

	c := &Channel{
		cmd:    cmd,
		stdin:  stdin,
		pipes:  [2]io.Closer{stdout, stderr},
		queues: [2]*lineQueue{newLineQueue(), newLineQueue()},
		done:   make(chan struct{}),
	}

	c.drains.Go(func() error { return drain(stdout, c.queues[Stdout]) })
	c.drains.Go(func() error { return drain(stderr, c.queues[Stderr]) })

	// cmd.Wait closes the pipes, so it may only run after both drains saw EOF
	go func() {
		c.drainErr = c.drains.Wait()
		c.exitErr = cmd.Wait()
		close(c.done)
	}()

	return c, nil
}

// Copy every line of the stream into the queue until EOF
func drain(r io.Reader, q *lineQueue) error {
	defer q.close()

	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			q.push(strings.TrimRight(line, "\r\n"))
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
				return nil
			}
			return err
		}
	}
}

// Pid of the child process
func (c *Channel) Pid() int {
	return c.cmd.Process.Pid
}

// Read returns the lines available on the stream. It waits up to 'timeout' for the first
// one, after that only lines already queued are taken. Never returns nil.
func (c *Channel) Read(stream Stream, timeout time.Duration) []string {
	return c.queues[stream].pop(timeout)
}

func (c *Channel) ReadStdout(timeout time.Duration) []string {
	return c.Read(Stdout, timeout)
}

func (c *Channel) ReadStderr(timeout time.Duration) []string {
	return c.Read(Stderr, timeout)
}

// Write sends the lines to the child's input, one per line
func (c *Channel) Write(lines ...string) error {
	if c.killed.Load() {
		return &ChannelError{Pid: c.Pid(), Err: os.ErrClosed}
	}
	select {
	case <-c.done:
		return &ChannelError{Pid: c.Pid(), Err: errExited}
	default:
	}

	for _, line := range lines {
		if _, err := io.WriteString(c.stdin, line+"\n"); err != nil {
			return &ChannelError{Pid: c.Pid(), Err: err}
		}
	}
	return nil
}

// Alive reports whether the child is still running and was not killed
func (c *Channel) Alive() bool {
	if c.killed.Load() {
		return false
	}
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

// Done is closed once the child exited and both streams are fully drained
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// ExitErr is the result of waiting on the child, valid once Done is closed
func (c *Channel) ExitErr() error {
	select {
	case <-c.done:
		return multierr.Append(c.exitErr, c.drainErr)
	default:
		return nil
	}
}

// Kill terminates the process and its process group. Safe to call any number of times,
// only the first call does anything. Lines already queued stay readable.
func (c *Channel) Kill() error {
	c.killOnce.Do(func() {
		c.killed.Store(true)

		err := killProcessGroup(c.cmd.Process)
		if errors.Is(err, os.ErrProcessDone) {
			err = nil
		}
		if cerr := c.stdin.Close(); cerr != nil && !errors.Is(cerr, os.ErrClosed) {
			err = multierr.Append(err, cerr)
		}

		select {
		case <-c.done:
		case <-time.After(KillWait):
			// Something outside the group still holds the output streams,
			// closing our ends stops the drains so the reaper can finish
			for _, p := range c.pipes {
				_ = p.Close()
			}
			select {
			case <-c.done:
			case <-time.After(KillWait):
			}
		}
		c.killErr = err
	})
	return c.killErr
}
