package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	duetErrors "github.com/tessro/duet/internal/errors"
	"github.com/tessro/duet/internal/logger"
	"github.com/tessro/duet/internal/tui"
)

var (
	sessionPlain  bool
	sessionResume bool
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Run a listening session",
	Long:  `Commands for starting and managing a duet listening session.`,
}

var sessionStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a listening session",
	Long: `Start a turn-based listening session.

You pick a track, the AI picks one back. While it is your turn the AI
stages a backup pick that plays only if you let the current track run out.

By default this launches the interactive dashboard. Use --plain for a
line-based prompt instead.`,
	RunE: runSessionStart,
}

var sessionResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the session",
	Long:  `Clear session history, the pending queue, and the stored snapshot.`,
	RunE:  runSessionReset,
}

func init() {
	sessionStartCmd.Flags().BoolVar(&sessionPlain, "plain", false, "line-based prompt instead of the dashboard")
	sessionStartCmd.Flags().BoolVar(&sessionResume, "resume", false, "resume the previous session if a snapshot exists")
	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionResetCmd)
	rootCmd.AddCommand(sessionCmd)
}

func runSessionStart(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if sessionResume {
		if a.restore() {
			fmt.Println("Resumed previous session.")
		} else {
			fmt.Println("No previous session found, starting fresh.")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Feed player advances into the session for the life of the run.
	events, err := a.sync.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch player: %w", err)
	}

	if sessionPlain {
		go func() {
			for ev := range events {
				a.orchestrator.HandleAdvance(ev.Track.ID)
				// A committed advance may hand the turn to the AI.
				if err := a.orchestrator.RequestAITurnIfDue(ctx); err != nil &&
					!errors.Is(err, duetErrors.ErrSelectionPending) {
					logger.Warn("AI turn failed", logger.ErrorField(err))
				}
			}
		}()
		return runPlainSession(ctx, a)
	}

	return tui.Run(ctx, tui.Options{
		Orchestrator: a.orchestrator,
		Search:       a.search,
		Advances:     events,
		Refresh:      time.Duration(cfg.TUI.RefreshInterval) * time.Millisecond,
	})
}

// runPlainSession is a minimal line-based loop for terminals where the
// dashboard is unwanted.
func runPlainSession(ctx context.Context, a *app) error {
	fmt.Println("Session started. Commands: pick <artist/title>, status, skip, quit")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")

		switch cmd {
		case "quit", "exit", "q":
			return nil
		case "status":
			printSessionStatus(a)
		case "skip":
			if err := a.player.SkipNext(ctx); err != nil {
				fmt.Printf("skip failed: %v\n", err)
			}
		case "pick":
			if rest == "" {
				fmt.Println("usage: pick <artist/title>")
				continue
			}
			if err := pickTrack(ctx, a, rest); err != nil {
				fmt.Println(duetErrors.Format(err))
			}
		default:
			fmt.Printf("unknown command %q\n", cmd)
		}
	}
}

func printSessionStatus(a *app) {
	state := a.orchestrator.State()
	fmt.Printf("Turn: %s", selectorLabel(state.CurrentTurn()))
	if state.IsAIThinking() {
		fmt.Print(" (AI is thinking...)")
	}
	fmt.Println()

	if playing := state.CurrentlyPlaying(); playing != nil {
		fmt.Printf("Now playing: %s (picked by %s)\n", songLine(*playing), selectorLabel(playing.SelectedBy))
	}
	for _, song := range state.Queue() {
		fmt.Printf("  [%s] %s (picked by %s)\n", statusLabel(song.Status), songLine(song), selectorLabel(song.SelectedBy))
	}
}

func runSessionReset(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.orchestrator.Reset()

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(map[string]string{"status": "reset"})
	}
	fmt.Println("Session reset.")
	return nil
}
