package tournament

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/muesli/termenv"
)

// How many of the latest warning match ids are listed per bot
const reportedWarnings = 5

func joinIds(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}

// WriteReport prints the win and placement tables, the diff tables in brackets
func (t *Tournament) WriteReport(w io.Writer) {
	out := termenv.NewOutput(w)
	b := strings.Builder{}

	b.WriteString("==========================\n")
	fmt.Fprintf(&b, "%s\n", out.String(fmt.Sprintf("Tournament Results %d/%d games:", t.played, t.cfg.Games)).Bold())

	for _, bot := range t.cfg.Bots {
		note := ""
		if errs := t.errors[bot]; len(errs) > 0 {
			note += out.String(fmt.Sprintf("(Errors on games %s) ", joinIds(errs))).Foreground(out.Color("1")).String()
		}
		if warns := t.warnings[bot]; len(warns) > 0 {
			list := joinIds(warns)
			if len(warns) > reportedWarnings {
				list = "..., " + joinIds(warns[len(warns)-reportedWarnings:])
			}
			note += out.String(fmt.Sprintf("(Warnings on games %s) ", list)).Foreground(out.Color("3")).String()
		}
		fmt.Fprintf(&b, "%s : %d [%d] wins %s\n", bot, t.stats.Wins(bot), t.diff.Wins(bot), note)

		for _, arity := range t.stats.Arities() {
			fmt.Fprintf(&b, "    %d player games: ", arity)
			for place := range arity {
				fmt.Fprintf(&b, " %d. %3d [%3d]", place+1, t.stats.Placement(bot, arity, place), t.diff.Placement(bot, arity, place))
			}
			b.WriteString("\n")
		}
	}

	if len(t.flagged) > 0 {
		b.WriteString("Games where results differ:")
		for _, v := range t.flagged {
			fmt.Fprintf(&b, " %d-%d", v.First, v.Last)
		}
		b.WriteString("\n")
	}

	elapsed := time.Duration(0)
	if !t.started.IsZero() {
		elapsed = time.Since(t.started)
	}
	fmt.Fprintf(&b, "Total tournament time: %.3f sec\n", elapsed.Seconds())
	fmt.Fprint(w, b.String())
}
