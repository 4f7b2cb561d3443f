package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/MJE43/tennis-sim-go/internal/tennis"
)

func (e *env) players(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: players add|list|rm", ErrUsage)
	}
	s, err := e.openStore(ctx)
	if err != nil {
		return err
	}

	switch args[0] {
	case "add":
		fs := e.flagSet("players add")
		notes := fs.String("notes", "", "free-form notes")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if fs.NArg() != 2 {
			return fmt.Errorf("%w: players add [-notes text] <name> <skill>", ErrUsage)
		}
		skill, err := strconv.ParseFloat(fs.Arg(1), 64)
		if err != nil {
			return fmt.Errorf("skill %q: %w", fs.Arg(1), err)
		}
		p, err := tennis.NewPlayer(fs.Arg(0), skill)
		if err != nil {
			return err
		}
		rec, err := s.SavePlayer(ctx, p, *notes)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.out, "saved %s (%.2f)\n", rec.Name, rec.Skill)
		return nil

	case "list":
		recs, err := s.ListPlayers(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tSKILL\tNOTES")
		for _, r := range recs {
			fmt.Fprintf(tw, "%s\t%.2f\t%s\n", r.Name, r.Skill, r.Notes)
		}
		return tw.Flush()

	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("%w: players rm <name>", ErrUsage)
		}
		if err := s.DeletePlayer(ctx, args[1]); err != nil {
			return err
		}
		fmt.Fprintf(e.out, "removed %s\n", args[1])
		return nil

	default:
		return fmt.Errorf("%w: unknown players command %q", ErrUsage, args[0])
	}
}

func (e *env) formats(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: formats add|list|rm", ErrUsage)
	}
	s, err := e.openStore(ctx)
	if err != nil {
		return err
	}

	switch args[0] {
	case "add":
		fs := e.flagSet("formats add")
		var c tennis.RulesConfig
		fs.IntVar(&c.PointsToWinGame, "points", 3, "points to win a game")
		fs.IntVar(&c.GamePointMargin, "point-margin", 2, "point margin to win a game")
		fs.IntVar(&c.MinGamesToWinSet, "min-games", 6, "minimum games to win a set")
		fs.IntVar(&c.MaxGamesInSet, "max-games", 7, "games at which a set ends regardless of margin")
		fs.IntVar(&c.GameMarginToWinSet, "game-margin", 2, "game margin to win a set")
		fs.IntVar(&c.SetsToWinMatch, "sets", 3, "sets to win the match")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return fmt.Errorf("%w: formats add [flags] <name>", ErrUsage)
		}
		rules, err := c.Build()
		if err != nil {
			return err
		}
		rec, err := s.SaveFormat(ctx, fs.Arg(0), rules)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.out, "saved %s %s\n", rec.Name, rules)
		return nil

	case "list":
		recs, err := s.ListFormats(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tRULES\tSOURCE")
		for _, name := range tennis.ScoringPresetNames() {
			rules, _ := tennis.ScoringPreset(name)
			fmt.Fprintf(tw, "%s\t%s\tbuilt-in\n", name, rules)
		}
		for _, r := range recs {
			rules, err := r.ScoringRules()
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "%s\t%s\tstored\n", r.Name, rules)
		}
		return tw.Flush()

	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("%w: formats rm <name>", ErrUsage)
		}
		if err := s.DeleteFormat(ctx, args[1]); err != nil {
			return err
		}
		fmt.Fprintf(e.out, "removed %s\n", args[1])
		return nil

	default:
		return fmt.Errorf("%w: unknown formats command %q", ErrUsage, args[0])
	}
}
