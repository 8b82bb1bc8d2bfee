package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Billy-Davies-2/bracket-champs/internal/models"
	"github.com/Billy-Davies-2/bracket-champs/internal/pickflow"
	"github.com/Billy-Davies-2/bracket-champs/internal/screens"
	"github.com/Billy-Davies-2/bracket-champs/internal/session"
)

var (
	playMode     string
	revealAfter  time.Duration
	advanceAfter time.Duration
)

var playCmd = &cobra.Command{
	Use:   "play <team>...",
	Short: "Pick a team for every matchup, in order",
	Long: `Runs the pick flow with one team per matchup. Each pick shows the
lock-in overlay and waits for the flow to advance before the next one.

Example:
  bracketctl play Duke Kentucky UConn Gonzaga`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&playMode, "mode", string(models.ModeClassic), "Bracket mode")
	playCmd.Flags().DurationVar(&revealAfter, "reveal-after", pickflow.DefaultRevealAfter, "Delay before the pick reveal")
	playCmd.Flags().DurationVar(&advanceAfter, "advance-after", pickflow.DefaultAdvanceAfter, "Delay before the next matchup")
}

func runPlay(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}
	if len(args) != len(env.Catalog.Matchups) {
		return fmt.Errorf("expected %d picks, got %d", len(env.Catalog.Matchups), len(args))
	}

	out := cmd.OutOrStdout()
	ho, err := playThrough(cmd.Context(), out, env, models.ParseBracketMode(playMode), args, session.Options{
		RevealAfter:  revealAfter,
		AdvanceAfter: advanceAfter,
	})
	if err != nil {
		return err
	}

	v := screens.Congrats(env, ho)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "🏆 BRACKET LOCKED")
	for _, line := range v.Picks {
		fmt.Fprintf(out, "  %s → %s\n", line.Matchup, line.Team)
	}
	fmt.Fprintf(out, "\nShare: bracketctl share %s\n", shareArgs(ho))
	return nil
}

// playThrough makes every pick on a fresh session and returns its hand-off
func playThrough(ctx context.Context, out io.Writer, env screens.Env, mode models.BracketMode, picks []string, opts session.Options) (models.HandOff, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	mgr := session.NewManager(opts)
	defer mgr.CloseAll()

	s := mgr.Create(env.Catalog.Matchups, mode)
	snaps, stop := s.Watch()
	defer stop()

	fmt.Fprintf(out, "%s\n", screens.ModeBadge(mode))
	for _, team := range picks {
		v := s.View()
		if v.Matchup != nil {
			fmt.Fprintf(out, "\n%d/%d %s vs %s\n", v.Index+1, v.Total, v.Matchup.TeamA.Name, v.Matchup.TeamB.Name)
		}

		view, err := mgr.Pick(ctx, s.ID, team)
		if err != nil {
			return models.HandOff{}, fmt.Errorf("pick %s: %w", team, err)
		}
		fmt.Fprintf(out, "✅ LOCKED IN! %s (%d%% of fans agree)\n", team, view.Pct)

		if err := awaitNext(ctx, out, snaps); err != nil {
			return models.HandOff{}, err
		}
	}
	return mgr.Claim(s.ID)
}

// awaitNext prints the reveal and returns once the flow is browsing again or complete
func awaitNext(ctx context.Context, out io.Writer, snaps <-chan pickflow.Snapshot) error {
	for {
		select {
		case snap, ok := <-snaps:
			if !ok {
				return fmt.Errorf("session closed")
			}
			switch snap.State {
			case pickflow.StateRevealing:
				if snap.Reveal != nil {
					fmt.Fprintf(out, "   %s 🔥 %s\n", snap.Reveal.Tier, snap.Reveal.Message)
				}
			case pickflow.StateBrowsing, pickflow.StateComplete:
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func shareArgs(ho models.HandOff) string {
	var b strings.Builder
	for _, p := range ho.Picks {
		fmt.Fprintf(&b, "--pick %q ", p)
	}
	fmt.Fprintf(&b, "--mode %q", ho.BracketMode)
	return b.String()
}
