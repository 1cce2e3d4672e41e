package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session status",
	Long:  `Show whose turn it is, what is playing, and what is queued.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if !a.restore() {
		if JSONOutput() {
			return json.NewEncoder(os.Stdout).Encode(map[string]string{"status": "no_session"})
		}
		fmt.Println("No session in progress. Run 'duet session start' or 'duet pick' to begin.")
		return nil
	}

	state := a.orchestrator.State()

	if JSONOutput() {
		out := map[string]interface{}{
			"turn":        state.CurrentTurn(),
			"ai_thinking": state.IsAIThinking(),
			"history":     state.History(),
			"queue":       state.Queue(),
		}
		if playing := state.CurrentlyPlaying(); playing != nil {
			out["now_playing"] = playing
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	printSessionStatus(a)

	history := state.History()
	if len(history) > 0 {
		fmt.Printf("\n%d track(s) played this session.\n", len(history))
	}
	return nil
}
