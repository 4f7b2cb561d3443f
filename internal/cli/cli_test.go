package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MJE43/tennis-sim-go/internal/config"
	"github.com/MJE43/tennis-sim-go/internal/montecarlo"
	"github.com/MJE43/tennis-sim-go/internal/roster"
	"github.com/MJE43/tennis-sim-go/internal/tennis"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		DBPath:        filepath.Join(t.TempDir(), "roster.db"),
		Workers:       2,
		DefaultTrials: 50,
		MaxTrials:     10_000,
		Format:        tennis.FormatClassic,
		Model:         tennis.ModelTight,
		TiePolicy:     "player_two",
	}
}

func run(t *testing.T, cfg config.Config, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := Run(context.Background(), args, cfg, zerolog.Nop(), &out, &errOut)
	return out.String(), err
}

func TestRunUsage(t *testing.T) {
	cfg := testConfig(t)

	_, err := run(t, cfg)
	assert.ErrorIs(t, err, ErrUsage)

	_, err = run(t, cfg, "tournament")
	assert.ErrorIs(t, err, ErrUsage)

	out, err := run(t, cfg, "help")
	require.NoError(t, err)
	assert.Contains(t, out, "simulate")
}

func TestSimulateText(t *testing.T) {
	out, err := run(t, testConfig(t), "simulate",
		"-p1", "Nadal:1", "-p2", "Rookie:0", "-trials", "10",
		"-server-seed", "s", "-client-seed", "c")
	require.NoError(t, err)
	assert.Contains(t, out, "Nadal (1.00) vs Rookie (0.00)")
	assert.Contains(t, out, "100.00%")
	assert.Contains(t, out, "seeds: server=s client=c nonce_start=0")
}

func TestSimulateJSONIsReproducible(t *testing.T) {
	cfg := testConfig(t)
	args := []string{"simulate", "-p1", "A:0.6", "-p2", "B:0.5", "-trials", "100",
		"-format", tennis.FormatClassic3Set, "-nonce", "9", "-server-seed", "s", "-client-seed", "c", "-json"}

	first, err := run(t, cfg, args...)
	require.NoError(t, err)
	second, err := run(t, cfg, append(args, "-workers", "1")...)
	require.NoError(t, err)

	var a, b montecarlo.MatchStats
	require.NoError(t, json.Unmarshal([]byte(first), &a))
	require.NoError(t, json.Unmarshal([]byte(second), &b))
	assert.Equal(t, a, b)
	assert.Equal(t, 100, a.Trials)
	assert.Equal(t, uint64(9), a.NonceStart)
}

func TestSimulateErrors(t *testing.T) {
	cfg := testConfig(t)

	_, err := run(t, cfg, "simulate", "-p1", "A:1.5", "-p2", "B:0.5")
	assert.ErrorIs(t, err, tennis.ErrInvalidSkill)

	_, err = run(t, cfg, "simulate", "-p1", "A:0.5")
	assert.ErrorIs(t, err, ErrUsage)

	_, err = run(t, cfg, "simulate", "-p1", "A:0.5", "-p2", "B:0.5", "-model", "loose")
	assert.ErrorIs(t, err, tennis.ErrUnknownPreset)

	_, err = run(t, cfg, "simulate", "-p1", "A:0.5", "-p2", "Ghost")
	assert.ErrorIs(t, err, roster.ErrNotFound)

	_, err = run(t, cfg, "simulate", "-p1", "A:0.5", "-p2", "B:0.5", "-trials", "0")
	assert.ErrorIs(t, err, montecarlo.ErrInvalidTrials)
}

func TestPoints(t *testing.T) {
	out, err := run(t, testConfig(t), "points", "-p1", "Nadal:0.95", "-p2", "Djokovic:0.9", "-trials", "200", "-json")
	require.NoError(t, err)

	var stats montecarlo.PointStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 200, stats.PlayerOneScores+stats.PlayerTwoScores+stats.NoScore)
	assert.NotEmpty(t, stats.Seeds.Server)
}

func TestPlayPrintsScores(t *testing.T) {
	out, err := run(t, testConfig(t), "play",
		"-p1", "Nadal:1", "-p2", "Rookie:0", "-format", tennis.FormatShort,
		"-show", "match", "-server-seed", "s", "-client-seed", "c", "-nonce", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "nonce=3")
	assert.Contains(t, out, "Nadal def. Rookie")
}

func TestPlayersAndFormats(t *testing.T) {
	cfg := testConfig(t)

	out, err := run(t, cfg, "players", "add", "-notes", "lefty", "Nadal", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "saved Nadal")
	_, err = run(t, cfg, "players", "add", "Rookie", "0")
	require.NoError(t, err)

	out, err = run(t, cfg, "players", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Nadal")
	assert.Contains(t, lines[1], "lefty")

	out, err = run(t, cfg, "formats", "add", "-sets", "1", "-min-games", "4", "-max-games", "5", "fast4")
	require.NoError(t, err)
	assert.Contains(t, out, "saved fast4")

	_, err = run(t, cfg, "formats", "add", tennis.FormatClassic)
	assert.ErrorIs(t, err, roster.ErrReservedName)

	out, err = run(t, cfg, "formats", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "fast4")
	assert.Contains(t, out, tennis.FormatShort)

	out, err = run(t, cfg, "simulate", "-p1", "Nadal", "-p2", "Rookie", "-format", "fast4",
		"-trials", "5", "-json")
	require.NoError(t, err)
	var stats montecarlo.MatchStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 5, stats.PlayerOneWins)
	assert.Equal(t, 1.0, stats.MeanSets)
	assert.Equal(t, 4.0, stats.MeanGames)

	_, err = run(t, cfg, "players", "rm", "Nadal")
	require.NoError(t, err)
	_, err = run(t, cfg, "players", "rm", "Nadal")
	assert.ErrorIs(t, err, roster.ErrNotFound)

	_, err = run(t, cfg, "formats", "rm", "fast4")
	require.NoError(t, err)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "33.33%", percent(1, 3))
	assert.Equal(t, "100.00%", percent(5, 5))
	assert.Equal(t, "0.00%", percent(0, 0))
}
