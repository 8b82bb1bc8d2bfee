package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	grpcclient "github.com/Billy-Davies-2/bracket-champs/internal/grpc"
	"github.com/Billy-Davies-2/bracket-champs/internal/models"
	"github.com/Billy-Davies-2/bracket-champs/internal/pickflow"
	"github.com/Billy-Davies-2/bracket-champs/internal/screens"
	"github.com/Billy-Davies-2/bracket-champs/internal/session"
)

var (
	remoteAddr    string
	remoteTimeout time.Duration
	pollInterval  = 100 * time.Millisecond
)

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Talk to a running server over gRPC",
}

var remoteDayCmd = &cobra.Command{
	Use:   "day <index>",
	Short: "Show a bracket day from the server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid day %q: %w", args[0], err)
		}
		return withClient(cmd, func(ctx context.Context, c *grpcclient.Client) error {
			reply, err := c.GetBracketDay(ctx, day)
			if err != nil {
				return err
			}
			var v screens.BracketView
			if err := grpcclient.FromStruct(reply, &v); err != nil {
				return err
			}
			printBracket(cmd.OutOrStdout(), v)
			return nil
		})
	},
}

var remotePlayCmd = &cobra.Command{
	Use:   "play <team>...",
	Short: "Play a session on the server",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *grpcclient.Client) error {
			return remotePlay(ctx, cmd.OutOrStdout(), c, models.ParseBracketMode(playMode), args)
		})
	},
}

var remoteWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream server events until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		// runs until interrupted
		remoteTimeout = 0
		return withClient(cmd, func(ctx context.Context, c *grpcclient.Client) error {
			stream, err := c.StreamEvents(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for {
				ev, err := stream.Recv()
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return err
				}
				f := ev.GetFields()
				fmt.Fprintf(out, "%s %s\n", f["type"].GetStringValue(), f["session"].GetStringValue())
			}
		})
	},
}

func init() {
	remoteCmd.PersistentFlags().StringVar(&remoteAddr, "addr", "localhost:50051", "gRPC server address")
	remoteCmd.PersistentFlags().DurationVar(&remoteTimeout, "timeout", time.Minute, "Deadline for the whole command")
	remotePlayCmd.Flags().StringVar(&playMode, "mode", string(models.ModeClassic), "Bracket mode")

	remoteCmd.AddCommand(remoteDayCmd, remotePlayCmd, remoteWatchCmd)
}

func withClient(cmd *cobra.Command, fn func(context.Context, *grpcclient.Client) error) error {
	conn, err := grpc.NewClient(remoteAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("connect %s: %w", remoteAddr, err)
	}
	defer conn.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if remoteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, remoteTimeout)
		defer cancel()
	}
	return fn(ctx, grpcclient.NewClient(conn))
}

// remotePlay starts a server session and polls it between picks
func remotePlay(ctx context.Context, out io.Writer, c *grpcclient.Client, mode models.BracketMode, picks []string) error {
	reply, err := c.StartSession(ctx, string(mode))
	if err != nil {
		return err
	}
	var v session.View
	if err := grpcclient.FromStruct(reply, &v); err != nil {
		return err
	}
	fmt.Fprintf(out, "Session %s\n", v.ID)

	for _, team := range picks {
		if _, err := c.Pick(ctx, v.ID, team); err != nil {
			return fmt.Errorf("pick %s: %w", team, err)
		}
		fmt.Fprintf(out, "✅ LOCKED IN! %s\n", team)

		for {
			reply, err := c.GetSession(ctx, v.ID)
			if err != nil {
				return err
			}
			if err := grpcclient.FromStruct(reply, &v); err != nil {
				return err
			}
			if v.State == pickflow.StateBrowsing || v.State == pickflow.StateComplete {
				break
			}
			select {
			case <-time.After(pollInterval):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	fmt.Fprintf(out, "%d/%d picked, state %s\n", len(v.Picks), v.Total, v.State)
	if v.State != pickflow.StateComplete {
		return nil
	}

	reply, err = c.ClaimHandOff(ctx, v.ID)
	if err != nil {
		return fmt.Errorf("claim hand-off: %w", err)
	}
	var ho models.HandOff
	if err := grpcclient.FromStruct(reply, &ho); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n🏆 BRACKET LOCKED\n")
	for i, team := range ho.Picks {
		fmt.Fprintf(out, "  %d. %s\n", i+1, team)
	}
	fmt.Fprintf(out, "\nShare: bracketctl share %s\n", shareArgs(ho))
	return nil
}
