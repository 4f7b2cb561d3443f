// Package scoreboard renders live tennis scores. Nothing in here affects a
// simulation; it only formats what an Observer is told.
package scoreboard

import (
	"strconv"
	"strings"

	"github.com/MJE43/tennis-sim-go/internal/tennis"
)

const (
	Won   = "WON"
	Lost  = "LOST"
	Adv   = "AD"
	Trail = "-"
	Deuce = "DEUCE"
)

var callNames = [...]string{"0", "15", "30", "40"}

// GameScore converts raw point counts to the pair of calls shown on a
// scoreboard. Counts below four use the 0/15/30/40 names; once either side
// reaches four the pair becomes WON/LOST, AD/- or DEUCE depending on the lead
// relative to margin.
func GameScore(pointsOne, pointsTwo, margin int) (string, string) {
	var one, two string
	if pointsOne < len(callNames) {
		one = callNames[pointsOne]
	}
	if pointsTwo < len(callNames) {
		two = callNames[pointsTwo]
	}
	if pointsOne < len(callNames) && pointsTwo < len(callNames) {
		return one, two
	}

	switch diff := pointsOne - pointsTwo; {
	case diff >= margin:
		return Won, Lost
	case -diff >= margin:
		return Lost, Won
	case diff > 0:
		return Adv, Trail
	case diff < 0:
		return Trail, Adv
	default:
		return Deuce, Deuce
	}
}

// FormatGameScore joins GameScore as "15 : 30".
func FormatGameScore(pointsOne, pointsTwo, margin int) string {
	one, two := GameScore(pointsOne, pointsTwo, margin)
	return one + " : " + two
}

// FormatSets renders a set list as "6-4 3-6 7-6".
func FormatSets(sets []tennis.SetResult) string {
	parts := make([]string, len(sets))
	for i, s := range sets {
		parts[i] = strconv.Itoa(s.GamesOne) + "-" + strconv.Itoa(s.GamesTwo)
	}
	return strings.Join(parts, " ")
}
