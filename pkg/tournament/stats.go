package tournament

import (
	"maps"
	"slices"
)

type cell struct {
	bot   string
	arity int
	place int
}

// Stats are the cumulative win and placement tables of a set of matches
type Stats struct {
	totals     map[int]int
	wins       map[string]int
	placements map[cell]int
}

func newStats() *Stats {
	return &Stats{
		totals:     make(map[int]int),
		wins:       make(map[string]int),
		placements: make(map[cell]int),
	}
}

// add one finished match, 'order' holds player ids from the winner down
func (s *Stats) add(players []string, order []int) {
	arity := len(players)
	s.totals[arity]++
	if len(order) > 0 {
		s.wins[players[order[0]]]++
	}
	for place, p := range order {
		s.placements[cell{players[p], arity, place}]++
	}
}

// Total number of matches played with 'arity' players
func (s *Stats) Total(arity int) int { return s.totals[arity] }

func (s *Stats) Wins(bot string) int { return s.wins[bot] }

// Placement counts how many times the bot finished at 'place' (from 0) in matches of 'arity' players
func (s *Stats) Placement(bot string, arity, place int) int {
	return s.placements[cell{bot, arity, place}]
}

// Arities that have at least one match, ascending
func (s *Stats) Arities() []int {
	arities := slices.Collect(maps.Keys(s.totals))
	slices.Sort(arities)
	return arities
}
