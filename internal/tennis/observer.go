package tennis

// PointEvent is emitted after every exchange, including those with no score.
type PointEvent struct {
	Outcome   PointOutcome
	PointsOne int
	PointsTwo int
	Margin    int
}

// GameEvent is emitted after every game.
type GameEvent struct {
	Game     GameResult
	GamesOne int
	GamesTwo int
}

// SetEvent is emitted after every set.
type SetEvent struct {
	Number  int
	Set     SetResult
	SetsOne int
	SetsTwo int
}

// MatchEvent is emitted once a match is decided.
type MatchEvent struct {
	PlayerOne Player
	PlayerTwo Player
	Match     MatchResult
}

// Observer watches a simulation as it runs. Implementations must not retain
// the simulator's random source or assume events arrive from one goroutine
// when a single Observer is shared across simulators.
type Observer interface {
	PointPlayed(PointEvent)
	GameWon(GameEvent)
	SetWon(SetEvent)
	MatchWon(MatchEvent)
}

// NopObserver ignores everything. Embed it to implement only some hooks.
type NopObserver struct{}

func (NopObserver) PointPlayed(PointEvent) {}
func (NopObserver) GameWon(GameEvent)      {}
func (NopObserver) SetWon(SetEvent)        {}
func (NopObserver) MatchWon(MatchEvent)    {}
