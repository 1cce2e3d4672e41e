package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/duet/internal/core"
	"github.com/tessro/duet/internal/tui/styles"
)

// History displays the session history, newest first.
type History struct{}

// NewHistory creates a new History component
func NewHistory() *History {
	return &History{}
}

// Render renders the history panel
func (h *History) Render(songs []core.SessionSong, width, height int, focused bool) string {
	title := styles.PanelTitle("Session History", focused)

	var lines []string
	if len(songs) == 0 {
		lines = append(lines, styles.Muted.Render("Nothing played yet"))
	} else {
		maxItems := height - 4
		if maxItems < 1 {
			maxItems = 1
		}
		// Newest first.
		shown := 0
		for i := len(songs) - 1; i >= 0 && shown < maxItems; i-- {
			lines = append(lines, h.renderSong(songs[i], width-4))
			shown++
		}
		if len(songs) > maxItems {
			lines = append(lines, styles.Dim.Render(fmt.Sprintf("  ... %d earlier", len(songs)-maxItems)))
		}
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		append([]string{title, ""}, lines...)...,
	))
}

func (h *History) renderSong(song core.SessionSong, width int) string {
	marker := " "
	if song.Status == core.StatusPlaying {
		marker = styles.UserBadge.Render("▶")
	}
	return fmt.Sprintf("%s %s %s %s",
		marker,
		styles.TurnBadge(song.SelectedBy == core.TurnAI),
		truncate(song.Track.Title, width/2),
		styles.Subtitle.Render(song.Track.Artist))
}
