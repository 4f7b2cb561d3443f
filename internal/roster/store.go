// Package roster keeps named players and custom scoring formats in SQLite so
// they can be reused across CLI runs and API calls. Simulation results are
// never written here.
package roster

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/MJE43/tennis-sim-go/internal/tennis"
)

//go:embed migrations/*.sql
var migrations embed.FS

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidName  = errors.New("name must be non-empty")
	ErrReservedName = errors.New("name is reserved by a built-in preset")
)

// --------- Data models ---------

type PlayerRecord struct {
	Name      string    `json:"name"`
	Skill     float64   `json:"skill"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Player rebuilds the validated domain value.
func (r PlayerRecord) Player() (tennis.Player, error) {
	return tennis.NewPlayer(r.Name, r.Skill)
}

type FormatRecord struct {
	Name      string             `json:"name"`
	Rules     tennis.RulesConfig `json:"rules"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// ScoringRules rebuilds the validated domain value.
func (r FormatRecord) ScoringRules() (tennis.ScoringRules, error) {
	return r.Rules.Build()
}

// --------- Store ---------

type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open opens/creates a SQLite database at dbPath and applies pending
// migrations.
func Open(ctx context.Context, dbPath string, log zerolog.Logger) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite is not concurrent for writes

	s := &Store{db: db, log: log.With().Str("component", "roster").Logger()}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// --------- Migrations ---------

func (s *Store) migrate(ctx context.Context) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db, fsys)
	if err != nil {
		return fmt.Errorf("migration provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	for _, r := range results {
		s.log.Debug().
			Int64("version", r.Source.Version).
			Dur("took", r.Duration).
			Msg("applied migration")
	}
	return nil
}

// --------- Players ---------

// SavePlayer inserts or replaces the player with the same name.
func (s *Store) SavePlayer(ctx context.Context, p tennis.Player, notes string) (PlayerRecord, error) {
	name := strings.TrimSpace(p.Name())
	if name == "" {
		return PlayerRecord{}, ErrInvalidName
	}
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO players (name, skill, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			skill = excluded.skill,
			notes = excluded.notes,
			updated_at = excluded.updated_at`,
		name, p.Skill(), notes, now, now)
	if err != nil {
		return PlayerRecord{}, fmt.Errorf("save player %q: %w", name, err)
	}
	return s.GetPlayer(ctx, name)
}

func (s *Store) GetPlayer(ctx context.Context, name string) (PlayerRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, skill, notes, created_at, updated_at
		FROM players WHERE name = ?`, strings.TrimSpace(name))
	rec, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return PlayerRecord{}, fmt.Errorf("player %q: %w", name, ErrNotFound)
	}
	return rec, err
}

// ListPlayers returns every player, strongest first.
func (s *Store) ListPlayers(ctx context.Context) ([]PlayerRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, skill, notes, created_at, updated_at
		FROM players ORDER BY skill DESC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []PlayerRecord{}
	for rows.Next() {
		rec, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) DeletePlayer(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM players WHERE name = ?`, strings.TrimSpace(name))
	if err != nil {
		return err
	}
	return requireRow(res, "player", name)
}

// --------- Formats ---------

// SaveFormat stores a named custom format. Built-in preset names cannot be
// shadowed.
func (s *Store) SaveFormat(ctx context.Context, name string, rules tennis.ScoringRules) (FormatRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return FormatRecord{}, ErrInvalidName
	}
	if _, err := tennis.ScoringPreset(name); err == nil {
		return FormatRecord{}, fmt.Errorf("format %q: %w", name, ErrReservedName)
	}
	c := rules.Config()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO formats (name, points_to_win_game, game_point_margin, min_games_to_win_set,
			max_games_in_set, game_margin_to_win_set, sets_to_win_match, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			points_to_win_game = excluded.points_to_win_game,
			game_point_margin = excluded.game_point_margin,
			min_games_to_win_set = excluded.min_games_to_win_set,
			max_games_in_set = excluded.max_games_in_set,
			game_margin_to_win_set = excluded.game_margin_to_win_set,
			sets_to_win_match = excluded.sets_to_win_match,
			updated_at = excluded.updated_at`,
		name, c.PointsToWinGame, c.GamePointMargin, c.MinGamesToWinSet,
		c.MaxGamesInSet, c.GameMarginToWinSet, c.SetsToWinMatch, now, now)
	if err != nil {
		return FormatRecord{}, fmt.Errorf("save format %q: %w", name, err)
	}
	return s.GetFormat(ctx, name)
}

func (s *Store) GetFormat(ctx context.Context, name string) (FormatRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, points_to_win_game, game_point_margin, min_games_to_win_set,
			max_games_in_set, game_margin_to_win_set, sets_to_win_match, created_at, updated_at
		FROM formats WHERE name = ?`, strings.TrimSpace(name))
	rec, err := scanFormat(row)
	if errors.Is(err, sql.ErrNoRows) {
		return FormatRecord{}, fmt.Errorf("format %q: %w", name, ErrNotFound)
	}
	return rec, err
}

func (s *Store) ListFormats(ctx context.Context) ([]FormatRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, points_to_win_game, game_point_margin, min_games_to_win_set,
			max_games_in_set, game_margin_to_win_set, sets_to_win_match, created_at, updated_at
		FROM formats ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []FormatRecord{}
	for rows.Next() {
		rec, err := scanFormat(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) DeleteFormat(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM formats WHERE name = ?`, strings.TrimSpace(name))
	if err != nil {
		return err
	}
	return requireRow(res, "format", name)
}

// --------- Helpers ---------

type scanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row scanner) (PlayerRecord, error) {
	var rec PlayerRecord
	err := row.Scan(&rec.Name, &rec.Skill, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt)
	return rec, err
}

func scanFormat(row scanner) (FormatRecord, error) {
	var rec FormatRecord
	c := &rec.Rules
	err := row.Scan(&rec.Name, &c.PointsToWinGame, &c.GamePointMargin, &c.MinGamesToWinSet,
		&c.MaxGamesInSet, &c.GameMarginToWinSet, &c.SetsToWinMatch, &rec.CreatedAt, &rec.UpdatedAt)
	return rec, err
}

func requireRow(res sql.Result, kind, name string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
	}
	return nil
}
