package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tessro/duet/internal/core"
	duetErrors "github.com/tessro/duet/internal/errors"
)

var pickFirst bool

var pickCmd = &cobra.Command{
	Use:   "pick <artist/title>",
	Short: "Take your turn with a track",
	Long: `Search the catalog and queue your pick as the next track.

Shows a picker when the search returns more than one result; --first takes
the top result without asking. After your pick the AI stages its backup
track behind it.

Examples:
  duet pick "nick drake pink moon"
  duet pick --first "little simz gorilla"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPick,
}

func init() {
	pickCmd.Flags().BoolVar(&pickFirst, "first", false, "take the top search result without asking")
	rootCmd.AddCommand(pickCmd)
}

func runPick(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()
	a.restore()

	ctx := context.Background()
	if err := pickTrack(ctx, a, strings.Join(args, " ")); err != nil {
		return err
	}

	if JSONOutput() {
		queue := a.orchestrator.State().Queue()
		return json.NewEncoder(os.Stdout).Encode(queue)
	}
	return nil
}

// pickTrack resolves a query to a track, queues it as the user's turn, and
// lets the AI stage its backup pick.
func pickTrack(ctx context.Context, a *app, query string) error {
	tracks, err := a.search.SearchTracks(ctx, query, cfg.Session.SearchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(tracks) == 0 {
		return duetErrors.WithSuggestion(duetErrors.ErrTrackNotFound,
			fmt.Sprintf("No results for %q. Try including both artist and title.", query))
	}

	track := tracks[0]
	if len(tracks) > 1 && !pickFirst {
		track, err = selectTrack(tracks)
		if err != nil {
			return err
		}
	}

	if err := a.orchestrator.RequestUserTurn(ctx, track); err != nil {
		return err
	}
	fmt.Printf("Queued: %s — %s\n", track.Title, track.Artist)

	// The AI now owes either its committed next pick or a fresh backup.
	if err := a.orchestrator.RequestAITurnIfDue(ctx); err != nil {
		if errors.Is(err, duetErrors.ErrSelectionPending) {
			return nil
		}
		return err
	}

	for _, song := range a.orchestrator.State().Queue() {
		if song.SelectedBy == core.TurnAI {
			fmt.Printf("AI staged: %s (%s)\n", songLine(song), statusLabel(song.Status))
			if song.Rationale != "" {
				fmt.Printf("  \"%s\"\n", song.Rationale)
			}
		}
	}
	return nil
}

// selectTrack shows an interactive picker over search results.
func selectTrack(tracks []core.Track) (core.Track, error) {
	options := make([]huh.Option[int], len(tracks))
	for i, t := range tracks {
		label := fmt.Sprintf("%s — %s", t.Title, t.Artist)
		if t.Album != "" {
			label += fmt.Sprintf(" (%s)", t.Album)
		}
		options[i] = huh.NewOption(label, i)
	}

	var selected int
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Which one did you mean?").
				Options(options...).
				Value(&selected),
		),
	)
	if err := form.Run(); err != nil {
		return core.Track{}, fmt.Errorf("selection cancelled: %w", err)
	}
	return tracks[selected], nil
}
