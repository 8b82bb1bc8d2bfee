package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Billy-Davies-2/bracket-champs/internal/derive"
	"github.com/Billy-Davies-2/bracket-champs/internal/models"
	"github.com/Billy-Davies-2/bracket-champs/internal/screens"
	"github.com/Billy-Davies-2/bracket-champs/internal/share"
)

var (
	sharePicks []string
	shareMode  string
	shareCopy  bool
	bracketDay int
	boardGroup string
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Print the challenge link and optionally copy it",
	RunE:  runShare,
}

var bracketCmd = &cobra.Command{
	Use:   "bracket",
	Short: "Show the bracket tracker for a day",
	RunE:  runBracket,
}

var leaderboardCmd = &cobra.Command{
	Use:       "leaderboard [friends|groups|campuses|global]",
	Short:     "Show a leaderboard tab",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{screens.TabFriends, screens.TabGroups, screens.TabCampuses, screens.TabGlobal},
	RunE:      runLeaderboard,
}

func init() {
	shareCmd.Flags().StringArrayVar(&sharePicks, "pick", nil, "A pick, in matchup order (repeatable)")
	shareCmd.Flags().StringVar(&shareMode, "mode", string(models.ModeClassic), "Bracket mode")
	shareCmd.Flags().BoolVar(&shareCopy, "copy", false, "Copy the link to the clipboard")

	bracketCmd.Flags().IntVar(&bracketDay, "day", 0, "Schedule day index")

	leaderboardCmd.Flags().StringVar(&boardGroup, "group", "", "Open a group's member drawer")
}

func runShare(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	v := screens.Share(env, models.HandOff{Picks: sharePicks, BracketMode: models.BracketMode(shareMode)})

	fmt.Fprintln(out, v.Title)
	for _, line := range v.Picks {
		fmt.Fprintf(out, "  %s → %s\n", line.Matchup, line.Team)
	}
	fmt.Fprintf(out, "\n%s\n%s\n\niMessage: %s\n", v.Text, v.Link, v.SMSLink)

	if shareCopy {
		res, _ := screens.RunShare(share.Sharer{Clipboard: share.SystemClipboard{}, Link: v.Link}, screens.ShareCopy)
		printShareResult(out, res)
	}
	return nil
}

func printShareResult(out io.Writer, res share.Result) {
	switch {
	case res.Message != "":
		fmt.Fprintln(out, res.Message)
	case res.Copied:
		fmt.Fprintln(out, "📋 Link copied!")
	}
}

func runBracket(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}
	printBracket(cmd.OutOrStdout(), screens.Bracket(env, bracketDay))
	return nil
}

func printBracket(out io.Writer, v screens.BracketView) {
	fmt.Fprintln(out, v.Banner)
	for _, d := range v.Days {
		marker := " "
		if d.Active {
			marker = "*"
		}
		fmt.Fprintf(out, "%s%s ", marker, d.Label)
	}
	fmt.Fprintln(out)

	if v.Empty {
		fmt.Fprintln(out, v.EmptyText)
		return
	}
	fmt.Fprintln(out, v.GamesLabel)

	names := make([]string, len(v.Grid.People))
	for i, p := range v.Grid.People {
		names[i] = p.Emoji + " " + p.Name
	}
	fmt.Fprintf(out, "%-24s %s\n", "", strings.Join(names, " | "))
	for _, row := range v.Grid.Rows {
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			switch {
			case c.State == derive.CellPick && c.Pick != nil:
				cells[i] = c.Pick.Team + " " + c.Outcome
			case c.State == derive.CellLocked:
				cells[i] = "🔒"
			default:
				cells[i] = "—"
			}
		}
		fmt.Fprintf(out, "%-24s %s\n", row.TeamA+" vs "+row.TeamB, strings.Join(cells, " | "))
	}
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}
	st := screens.LeaderboardState{Group: boardGroup}
	if len(args) > 0 {
		st.Tab = args[0]
	}
	printLeaderboard(cmd.OutOrStdout(), screens.Leaderboard(env, st))
	return nil
}

func printLeaderboard(out io.Writer, v screens.LeaderboardView) {
	for _, t := range v.Tabs {
		if t.Active {
			fmt.Fprintf(out, "%s %s\n\n", t.Emoji, strings.ToUpper(t.Name))
		}
	}

	entries := func(rows []screens.EntryRow) {
		for _, r := range rows {
			you := ""
			if r.IsYou {
				you = " ← you"
			}
			fmt.Fprintf(out, "%5s %s %-18s %6d pts %s%s\n", r.RankLabel, r.Avatar, r.Name, r.Points, r.Arrow, you)
		}
	}

	switch v.Tab {
	case screens.TabFriends:
		entries(v.Friends)
	case screens.TabGlobal:
		entries(v.Global)
	case screens.TabGroups:
		for _, g := range v.Groups {
			fmt.Fprintf(out, "#%d %s %-24s %6d pts · %d members\n", g.Rank, g.Emoji, g.Name, g.TotalPoints, g.Members)
		}
		if g := v.SelectedGroup; g != nil {
			fmt.Fprintf(out, "\n%s %s\n", g.Emoji, g.Name)
			for _, m := range g.MemberDetails {
				fmt.Fprintf(out, "  %s %-18s %6d pts\n", m.Avatar, m.Name, m.Points)
			}
		}
	case screens.TabCampuses:
		if r := v.Rivalry; r != nil {
			fmt.Fprintf(out, "⚔️ CAMPUS RIVALRY  %s %d%% vs %d%% %s\n\n", r.A.Group, r.PctA, r.PctB, r.B.Group)
		}
		for _, c := range v.Campuses {
			fmt.Fprintf(out, "#%d %s %-20s %6d pts · %d members\n", c.Rank, c.Emoji, c.Group, c.TotalPoints, c.Members)
		}
	}
}
