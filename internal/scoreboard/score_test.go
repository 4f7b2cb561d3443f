package scoreboard

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MJE43/tennis-sim-go/internal/tennis"
)

func TestGameScore(t *testing.T) {
	tests := []struct {
		one, two, margin int
		wantOne, wantTwo string
	}{
		{0, 0, 2, "0", "0"},
		{1, 2, 2, "15", "30"},
		{3, 3, 2, "40", "40"},
		{4, 3, 2, Adv, Trail},
		{3, 4, 2, Trail, Adv},
		{4, 4, 2, Deuce, Deuce},
		{4, 2, 2, Won, Lost},
		{1, 4, 2, Lost, Won},
		{6, 5, 2, Adv, Trail},
		{7, 5, 2, Won, Lost},
		{5, 3, 3, Adv, Trail},
		{5, 2, 3, Won, Lost},
	}

	for _, tt := range tests {
		one, two := GameScore(tt.one, tt.two, tt.margin)
		assert.Equal(t, tt.wantOne, one, "%d:%d margin %d", tt.one, tt.two, tt.margin)
		assert.Equal(t, tt.wantTwo, two, "%d:%d margin %d", tt.one, tt.two, tt.margin)
	}
	assert.Equal(t, "15 : 30", FormatGameScore(1, 2, 2))
}

func TestFormatSets(t *testing.T) {
	assert.Equal(t, "6-4 3-6 7-6", FormatSets([]tennis.SetResult{{GamesOne: 6, GamesTwo: 4}, {GamesOne: 3, GamesTwo: 6}, {GamesOne: 7, GamesTwo: 6}}))
	assert.Equal(t, "", FormatSets(nil))
}

func TestParseDetail(t *testing.T) {
	d, err := ParseDetail("game, match")
	require.NoError(t, err)
	assert.Equal(t, ShowGame|ShowMatch, d)

	d, err = ParseDetail("all")
	require.NoError(t, err)
	assert.Equal(t, ShowGame|ShowSet|ShowMatch, d)

	d, err = ParseDetail("")
	require.NoError(t, err)
	assert.Zero(t, d)

	_, err = ParseDetail("rally")
	assert.Error(t, err)
}

func TestPrinterWritesSelectedDetail(t *testing.T) {
	a, err := tennis.NewPlayer("Nadal", 1.0)
	require.NoError(t, err)
	b, err := tennis.NewPlayer("Federer", 0.0)
	require.NoError(t, err)

	var buf bytes.Buffer
	sim, err := tennis.NewSimulator(tennis.Classic3Set, tennis.WithObserver(NewPrinter(&buf, ShowSet|ShowMatch)))
	require.NoError(t, err)
	sim.PlayMatch(rand.New(rand.NewSource(1)), a, b)

	out := buf.String()
	assert.Contains(t, out, "6 : 0\n")
	assert.Contains(t, out, "set 2: 6-0 (sets 2 : 0)\n")
	assert.True(t, strings.HasSuffix(out, "[6-0 6-0] Nadal def. Federer\n"), out)
	assert.NotContains(t, out, "40 : 0")
}

func TestPrinterPointLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, ShowGame)
	p.PointPlayed(tennis.PointEvent{PointsOne: 2, PointsTwo: 1, Margin: 2})
	p.GameWon(tennis.GameEvent{GamesOne: 1})
	assert.Equal(t, "30 : 15\n", buf.String())
}
