package match

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/multierr"

	"github.com/IlikeChooros/go-arena/pkg/game"
)

// Default column width of SideBySide
const PairColumnWidth = 80

// Pair plays the same configuration twice with the two bots swapped, printing both
// matches next to each other. Each match writes to its own buffer, the buffers are merged
// after every step.
type Pair struct {
	matches [2]*Match
	bufs    [2]*bytes.Buffer
	out     io.Writer
	width   int
}

// NewPair builds both matches from 'cfg', the second one with the players swapped.
// cfg.Output is where the merged columns go.
func NewPair(cfg Config, rules game.Rules, launch Launcher) (*Pair, error) {
	if len(cfg.Players) != 2 || cfg.Players[0] == cfg.Players[1] {
		return nil, game.NewConfigurationError("players", "paired matches need exactly 2 distinct bots, got %q", cfg.Players)
	}

	p := &Pair{out: cfg.Output, width: PairColumnWidth}
	if p.out == nil {
		p.out = io.Discard
	}

	swapped := []string{cfg.Players[1], cfg.Players[0]}
	for i, players := range [2][]string{cfg.Players, swapped} {
		c := cfg
		c.ID = i
		c.Players = players
		p.bufs[i] = &bytes.Buffer{}
		c.Output = p.bufs[i]

		m, err := New(c, rules, launch)
		if err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("pair: %w", err)
		}
		p.matches[i] = m
	}
	return p, nil
}

// SetWidth changes the column width, non-positive values are ignored
func (p *Pair) SetWidth(width int) *Pair {
	if width > 0 {
		p.width = width
	}
	return p
}

func (p *Pair) Matches() [2]*Match {
	return p.matches
}

// Run interleaves the turns of both matches until neither is active
func (p *Pair) Run(ctx context.Context) (results [2]Result, err error) {
	defer func() {
		if cerr := p.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for _, m := range p.matches {
		m.Pregame()
	}
	p.flush()

	for p.matches[0].IsActive() || p.matches[1].IsActive() {
		if err := ctx.Err(); err != nil {
			return p.results(), err
		}
		for _, m := range p.matches {
			if !m.IsActive() {
				continue
			}
			if err := m.OneTurn(); err != nil {
				return p.results(), err
			}
		}
		p.flush()
	}

	for _, m := range p.matches {
		m.EndOfGame()
	}
	p.flush()
	return p.results(), nil
}

func (p *Pair) results() [2]Result {
	return [2]Result{p.matches[0].Result(), p.matches[1].Result()}
}

func (p *Pair) flush() {
	left, right := p.bufs[0].String(), p.bufs[1].String()
	p.bufs[0].Reset()
	p.bufs[1].Reset()
	if left == "" && right == "" {
		return
	}
	fmt.Fprint(p.out, SideBySide(left, right, p.width))
}

// Close kills the processes of both matches
func (p *Pair) Close() error {
	var err error
	for _, m := range p.matches {
		if m != nil {
			err = multierr.Append(err, m.Close())
		}
	}
	return err
}

// SideBySide lays out two blocks of text in columns, the left one padded to 'width'
func SideBySide(left, right string, width int) string {
	a := strings.Split(strings.TrimRight(left, "\n"), "\n")
	b := strings.Split(strings.TrimRight(right, "\n"), "\n")
	if left == "" {
		a = nil
	}
	if right == "" {
		b = nil
	}

	builder := strings.Builder{}
	for i := 0; i < max(len(a), len(b)); i++ {
		var l, r string
		if i < len(a) {
			l = a[i]
		}
		if i < len(b) {
			r = b[i]
		}
		line := fmt.Sprintf("%-*s%s", width, l, r)
		builder.WriteString(strings.TrimRight(line, " ") + "\n")
	}
	return builder.String()
}
