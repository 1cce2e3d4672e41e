package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/duet/internal/core"
	"github.com/tessro/duet/internal/tui/styles"
)

// Queue displays the pending session queue.
type Queue struct{}

// NewQueue creates a new Queue component
func NewQueue() *Queue {
	return &Queue{}
}

// Render renders the queue panel
func (q *Queue) Render(songs []core.SessionSong, width, height int, focused bool) string {
	title := styles.PanelTitle("Up Next", focused)

	var lines []string
	if len(songs) == 0 {
		lines = append(lines, styles.Muted.Render("Queue is empty"))
	} else {
		maxItems := height - 4
		if maxItems < 1 {
			maxItems = 1
		}
		for i, song := range songs {
			if i >= maxItems {
				lines = append(lines, styles.Dim.Render(fmt.Sprintf("  ... and %d more", len(songs)-maxItems)))
				break
			}
			lines = append(lines, q.renderSong(song, width-4))
		}
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		append([]string{title, ""}, lines...)...,
	))
}

func (q *Queue) renderSong(song core.SessionSong, width int) string {
	line := fmt.Sprintf("%s %s %s",
		styles.TurnBadge(song.SelectedBy == core.TurnAI),
		styles.Title.Render(truncate(song.Track.Title, width/2)),
		styles.Subtitle.Render(song.Track.Artist))

	if song.Status == core.StatusQueuedIfSkipped {
		line += " " + styles.Dim.Render("(backup)")
	}
	return line
}

func truncate(s string, max int) string {
	if max < 4 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
