package tennis

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counting wraps a Source and counts draws.
type counting struct {
	src   Source
	draws int
}

func (c *counting) Float64() float64 {
	c.draws++
	return c.src.Float64()
}

// recorder keeps every event it sees.
type recorder struct {
	points  []PointEvent
	games   []GameEvent
	sets    []SetEvent
	matches []MatchEvent
}

func (r *recorder) PointPlayed(e PointEvent) { r.points = append(r.points, e) }
func (r *recorder) GameWon(e GameEvent)      { r.games = append(r.games, e) }
func (r *recorder) SetWon(e SetEvent)        { r.sets = append(r.sets, e) }
func (r *recorder) MatchWon(e MatchEvent)    { r.matches = append(r.matches, e) }

func mustSimulator(t *testing.T, rules ScoringRules, opts ...Option) *Simulator {
	t.Helper()
	sim, err := NewSimulator(rules, opts...)
	require.NoError(t, err)
	return sim
}

func TestNewSimulatorValidates(t *testing.T) {
	_, err := NewSimulator(ScoringRules{})
	assert.ErrorIs(t, err, ErrInvalidRule)

	_, err = NewSimulator(Classic, WithPointModel(PointModel{NoiseStdDev: -1}))
	assert.ErrorIs(t, err, ErrInvalidPointModel)

	sim := mustSimulator(t, Classic)
	assert.Equal(t, PointModelTight, sim.PointModel())
	assert.Equal(t, TieToPlayerTwo, sim.TiePolicy())
	assert.Equal(t, Classic, sim.Rules())
}

func TestPlayGameInvariants(t *testing.T) {
	rulesets := []ScoringRules{Classic, ShortFormat, mustRules(1, 1, 1, 1, 1, 1), mustRules(5, 3, 2, 4, 1, 2)}
	skills := [][2]float64{{0.5, 0.5}, {0.95, 0.9}, {0.1, 0.15}, {0.3, 0.8}}
	rng := rand.New(rand.NewSource(7))

	for _, rules := range rulesets {
		sim := mustSimulator(t, rules)
		for _, sk := range skills {
			a := mustPlayer(t, "A", sk[0])
			b := mustPlayer(t, "B", sk[1])
			for i := 0; i < 50; i++ {
				g := sim.PlayGame(rng, a, b)

				winnerPoints, loserPoints := g.PointsOne, g.PointsTwo
				if g.Winner == PlayerTwo {
					winnerPoints, loserPoints = loserPoints, winnerPoints
				}
				require.Greater(t, winnerPoints, rules.PointsToWinGame(), "%s %v", rules, g)
				require.GreaterOrEqual(t, winnerPoints-loserPoints, rules.GamePointMargin(), "%s %v", rules, g)
				require.GreaterOrEqual(t, g.Exchanges, g.PointsOne+g.PointsTwo)
			}
		}
	}
}

func TestNoScoreConsumesRandomness(t *testing.T) {
	rec := &recorder{}
	sim := mustSimulator(t, ShortFormat, WithObserver(rec))
	a := mustPlayer(t, "Nadal", 0.95)
	b := mustPlayer(t, "Federer", 0.95)

	src := &counting{src: rand.New(rand.NewSource(3))}
	g := sim.PlayGame(src, a, b)

	assert.Greater(t, g.Exchanges, g.PointsOne+g.PointsTwo, "void exchanges expected at 0.95 vs 0.95")
	assert.Len(t, rec.points, g.Exchanges)
	// every exchange draws twice (no score) or three times (error)
	assert.GreaterOrEqual(t, src.draws, 2*g.Exchanges)
	assert.LessOrEqual(t, src.draws, 3*g.Exchanges)

	voids := 0
	for _, p := range rec.points {
		if p.Outcome == NoScore {
			voids++
		}
		assert.Equal(t, 3, p.Margin)
	}
	assert.Equal(t, g.Exchanges-g.PointsOne-g.PointsTwo, voids)
}

func TestPlaySetRespectsMaxGames(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for _, rules := range []ScoringRules{Classic, mustRules(3, 2, 4, 6, 2, 1), mustRules(2, 1, 3, 3, 3, 1)} {
		sim := mustSimulator(t, rules)
		a := mustPlayer(t, "A", 0.7)
		b := mustPlayer(t, "B", 0.68)
		for i := 0; i < 100; i++ {
			set := sim.PlaySet(rng, a, b)
			require.LessOrEqual(t, set.GamesOne, rules.MaxGamesInSet())
			require.LessOrEqual(t, set.GamesTwo, rules.MaxGamesInSet())

			hi, lo := set.GamesOne, set.GamesTwo
			if lo > hi {
				hi, lo = lo, hi
			}
			require.GreaterOrEqual(t, hi, rules.MinGamesToWinSet())
			if hi < rules.MaxGamesInSet() {
				require.GreaterOrEqual(t, hi-lo, rules.GameMarginToWinSet(), "%s ended %v", rules, set)
			}
		}
	}
}

func TestPlayMatchStopsAtSetsToWin(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for _, rules := range []ScoringRules{Classic, Classic3Set} {
		sim := mustSimulator(t, rules)
		a := mustPlayer(t, "Djokovic", 0.9)
		b := mustPlayer(t, "Tsonga", 0.8)
		for i := 0; i < 30; i++ {
			m := sim.PlayMatch(rng, a, b)
			need := rules.SetsToWinMatch()

			require.Len(t, m.Sets, m.SetsOne+m.SetsTwo)
			if m.Winner == PlayerOne {
				require.Equal(t, need, m.SetsOne)
				require.Less(t, m.SetsTwo, need)
			} else {
				require.Equal(t, need, m.SetsTwo)
				require.Less(t, m.SetsOne, need)
			}
			won := 0
			for _, s := range m.Sets {
				if s.Winner() == m.Winner {
					won++
				}
			}
			require.Equal(t, need, won)
		}
	}
}

func TestPerfectPlayerWinsEverything(t *testing.T) {
	sim := mustSimulator(t, Classic, WithPointModel(PointModel{NoiseStdDev: 0, Boundary: 1.0}))
	a := mustPlayer(t, "A", 1.0)
	b := mustPlayer(t, "B", 0.0)

	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 20; i++ {
		m := sim.PlayMatch(rng, a, b)
		require.Equal(t, PlayerOne, m.Winner)
		require.Equal(t, []SetResult{{6, 0}, {6, 0}, {6, 0}}, m.Sets)
		assert.True(t, m.StraightSets())
		assert.Equal(t, 18, m.Games())
	}
}

func TestShortFormatSingleMatch(t *testing.T) {
	sim := mustSimulator(t, ShortFormat)
	a := mustPlayer(t, "Nadal", 0.95)
	b := mustPlayer(t, "Federer", 0.95)

	m := sim.PlayMatch(rand.New(rand.NewSource(2024)), a, b)
	require.Len(t, m.Sets, 1)
	assert.Contains(t, []Side{PlayerOne, PlayerTwo}, m.Winner)
	assert.Equal(t, 1, m.Sets[0].GamesOne+m.Sets[0].GamesTwo)
	assert.Equal(t, m.Winner, m.Sets[0].Winner())
}

func TestObserverSeesWholeMatch(t *testing.T) {
	rec := &recorder{}
	sim := mustSimulator(t, Classic3Set, WithObserver(rec))
	a := mustPlayer(t, "A", 0.6)
	b := mustPlayer(t, "B", 0.55)

	m := sim.PlayMatch(rand.New(rand.NewSource(8)), a, b)

	assert.Len(t, rec.games, m.Games())
	assert.Len(t, rec.sets, len(m.Sets))
	require.Len(t, rec.matches, 1)
	assert.Equal(t, m.Winner, rec.matches[0].Match.Winner)
	assert.Equal(t, "A", rec.matches[0].PlayerOne.Name())

	exchanges := 0
	for _, g := range rec.games {
		exchanges += g.Game.Exchanges
	}
	assert.Len(t, rec.points, exchanges)

	last := rec.sets[len(rec.sets)-1]
	assert.Equal(t, len(m.Sets), last.Number)
	assert.Equal(t, m.SetsOne, last.SetsOne)
	assert.Equal(t, m.SetsTwo, last.SetsTwo)
}

func TestTiePolicy(t *testing.T) {
	lenient := mustSimulator(t, Classic)
	assert.Equal(t, PlayerTwo, lenient.decide("game", 4, 4))
	assert.Equal(t, PlayerOne, lenient.decide("game", 5, 4))
	assert.Equal(t, PlayerTwo, SetResult{GamesOne: 6, GamesTwo: 6}.Winner())

	strict := mustSimulator(t, Classic, WithTiePolicy(TieStrict))
	assert.Equal(t, PlayerTwo, strict.decide("set", 3, 6))

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, ErrUnexpectedTie))
	}()
	strict.decide("set", 6, 6)
}

func TestParseTiePolicy(t *testing.T) {
	p, err := ParseTiePolicy("")
	require.NoError(t, err)
	assert.Equal(t, TieToPlayerTwo, p)

	p, err = ParseTiePolicy("strict")
	require.NoError(t, err)
	assert.Equal(t, TieStrict, p)
	assert.Equal(t, "strict", p.String())

	_, err = ParseTiePolicy("coin_flip")
	assert.ErrorIs(t, err, ErrUnknownTiePolicy)
}
