package scoreboard

import (
	"fmt"
	"io"
	"strings"

	"github.com/MJE43/tennis-sim-go/internal/tennis"
)

// Detail selects which events a Printer writes.
type Detail uint8

const (
	ShowGame Detail = 1 << iota
	ShowSet
	ShowMatch
)

// ParseDetail reads a comma separated list of "game", "set", "match" or
// "all". An empty string selects nothing.
func ParseDetail(s string) (Detail, error) {
	var d Detail
	for _, part := range strings.Split(s, ",") {
		switch strings.TrimSpace(strings.ToLower(part)) {
		case "":
		case "game", "point", "points":
			d |= ShowGame
		case "set", "games":
			d |= ShowSet
		case "match":
			d |= ShowMatch
		case "all":
			d |= ShowGame | ShowSet | ShowMatch
		default:
			return 0, fmt.Errorf("unknown detail %q", part)
		}
	}
	return d, nil
}

// Printer is a tennis.Observer that writes live scores to w.
type Printer struct {
	w      io.Writer
	detail Detail
}

// NewPrinter returns a printer writing the selected detail to w.
func NewPrinter(w io.Writer, detail Detail) *Printer {
	return &Printer{w: w, detail: detail}
}

func (p *Printer) PointPlayed(e tennis.PointEvent) {
	if p.detail&ShowGame == 0 {
		return
	}
	fmt.Fprintln(p.w, FormatGameScore(e.PointsOne, e.PointsTwo, e.Margin))
}

func (p *Printer) GameWon(e tennis.GameEvent) {
	if p.detail&ShowSet == 0 {
		return
	}
	fmt.Fprintf(p.w, "%d : %d\n", e.GamesOne, e.GamesTwo)
}

func (p *Printer) SetWon(e tennis.SetEvent) {
	if p.detail&ShowSet == 0 {
		return
	}
	fmt.Fprintf(p.w, "set %d: %s (sets %d : %d)\n", e.Number, e.Set, e.SetsOne, e.SetsTwo)
}

func (p *Printer) MatchWon(e tennis.MatchEvent) {
	if p.detail&ShowMatch == 0 {
		return
	}
	winner, loser := e.PlayerOne, e.PlayerTwo
	if e.Match.Winner == tennis.PlayerTwo {
		winner, loser = loser, winner
	}
	fmt.Fprintf(p.w, "[%s] %s def. %s\n", FormatSets(e.Match.Sets), winner.Name(), loser.Name())
}
