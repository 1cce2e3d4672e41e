package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Manage the session queue",
	Long:  `Commands for inspecting and editing the pending queue.`,
	RunE:  runQueueList,
}

var queueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List queued tracks",
	RunE:  runQueueList,
}

var queueRemoveCmd = &cobra.Command{
	Use:   "remove <track-id>",
	Short: "Remove a pending track from the player queue",
	Long: `Remove a pending track from the player queue.

The player does not support removing arbitrary entries, so the queue is
rebuilt without the track. The currently playing track cannot be removed.`,
	Args: cobra.ExactArgs(1),
	RunE: runQueueRemove,
}

func init() {
	queueCmd.AddCommand(queueListCmd)
	queueCmd.AddCommand(queueRemoveCmd)
	rootCmd.AddCommand(queueCmd)
}

func runQueueList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()
	a.restore()

	entries, err := a.player.Entries(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read player queue: %w", err)
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("Player queue is empty.")
		return nil
	}

	table := NewTable("#", "TITLE", "ARTIST", "ID")
	for i, entry := range entries {
		title := entry.Track.Title
		if entry.Transient {
			title += " (resolving...)"
		}
		table.Row(fmt.Sprintf("%d", i), title, entry.Track.Artist, entry.Track.ID)
	}
	table.Flush()
	return nil
}

func runQueueRemove(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()
	a.restore()

	if err := a.sync.RemoveTrack(context.Background(), args[0]); err != nil {
		return err
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(map[string]string{"removed": args[0]})
	}
	fmt.Printf("Removed %s from the queue.\n", args[0])
	return nil
}
