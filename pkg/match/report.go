package match

import (
	"fmt"
	"strings"
	"time"

	"github.com/IlikeChooros/go-arena/pkg/game"
)

const (
	colorTitle = "4"
	colorError = "1"
	colorWarn  = "3"
	colorOk    = "2"

	headerRule = "=========================="
	turnRule   = "--------------------------"
)

func (m *Match) paint(s, color string) string {
	return m.out.String(s).Foreground(m.out.Color(color)).String()
}

func (m *Match) bold(s string) string {
	return m.out.String(s).Bold().String()
}

func writeStream(b *strings.Builder, title string, lines []string) {
	fmt.Fprintf(b, "%s:\n", title)
	for _, line := range lines {
		fmt.Fprintf(b, "> %s\n", line)
	}
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.5f sec", d.Seconds())
}

func (m *Match) writeHeader() {
	b := strings.Builder{}
	b.WriteString(headerRule + "\n")
	fmt.Fprintf(&b, "%s %d\n", m.bold("Game:"), m.id)
	fmt.Fprintf(&b, "Configuration: %s\n", m.config)
	b.WriteString("Players:\n")
	for i, name := range m.names {
		fmt.Fprintf(&b, "%d : %s\n", i, name)
	}
	fmt.Fprint(m.out, b.String())
}

func (m *Match) writeTurn(player int, stdout, stderr []string, diagnostic string, elapsed time.Duration) {
	b := strings.Builder{}
	b.WriteString(turnRule + "\n")
	fmt.Fprintf(&b, "%s (Player %d) %s\n", m.paint(fmt.Sprintf("Turn %d", m.turn), colorTitle), player, m.names[player])
	writeStream(&b, "Standard Error Stream", stderr)
	writeStream(&b, "Standard Output Stream", stdout)
	b.WriteString("Game Information:\n")
	if diagnostic != "" {
		fmt.Fprintf(&b, "> %s %s\n", m.names[player], diagnostic)
	}
	fmt.Fprintf(&b, "Turn time: %s\n", seconds(elapsed))

	if printer, ok := m.state.(game.Printer); ok && m.showMap {
		printer.PrintGame(&b)
	}
	fmt.Fprint(m.out, b.String())
}

func (m *Match) writeResults() {
	b := strings.Builder{}
	b.WriteString(turnRule + "\n")
	fmt.Fprintf(&b, "%s\n", m.bold(fmt.Sprintf("Game %d results:", m.id)))

	for place, p := range m.FinishingOrder() {
		t := m.timing[p]
		name := m.names[p]
		if place == 0 {
			name = m.paint(name, colorOk)
		}
		fmt.Fprintf(&b, "%d : (Player %d) %s [ave: %s, max: %s]\n",
			place+1, p, name, seconds(t.Average()), seconds(t.Max))

		if issue := m.issues[p]; issue != nil {
			fmt.Fprintf(&b, "%s\n", m.paint(fmt.Sprintf("Error on turn %d", issue.Turn), colorError))
			writeStream(&b, "Standard Error Stream", issue.Stderr)
			writeStream(&b, "Standard Output Stream", issue.Stdout)
			b.WriteString("Game Information:\n")
			if issue.Diagnostic != "" {
				fmt.Fprintf(&b, "> %s %s\n", m.names[p], issue.Diagnostic)
			}
			if issue.InputFailed && issue.Err != nil {
				fmt.Fprintf(&b, "> %v\n", issue.Err)
			}
		}
		for _, w := range m.warnings[p] {
			fmt.Fprintf(&b, "%s\n", m.paint(fmt.Sprintf("Warning on turn %d : %s", w.Turn, w.Text), colorWarn))
		}
	}
	fmt.Fprintf(&b, "Total time: %.3f sec\n", m.duration.Seconds())
	fmt.Fprint(m.out, b.String())
}
