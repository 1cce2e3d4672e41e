package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/duet/internal/core"
	"github.com/tessro/duet/internal/tui/styles"
)

// NowPlaying displays the currently playing track and whose turn it is.
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render renders the now playing panel
func (n *NowPlaying) Render(playing *core.SessionSong, turn core.TurnType, thinking string, width, height int, focused bool) string {
	title := styles.PanelTitle("Now Playing", focused)

	var content string
	if playing == nil {
		content = styles.Muted.Render("Nothing playing yet")
	} else {
		content = n.renderSong(playing, width-4)
	}

	turnLine := fmt.Sprintf("Turn: %s", styles.TurnBadge(turn == core.TurnAI))
	if thinking != "" {
		turnLine += "  " + styles.Dim.Render(thinking)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
		"",
		turnLine,
	))
}

func (n *NowPlaying) renderSong(song *core.SessionSong, width int) string {
	titleStyle := styles.Title.Width(width - 4)
	title := titleStyle.Render(song.Track.Title)
	artist := styles.Subtitle.Render(song.Track.Artist)

	picked := fmt.Sprintf("picked by %s", styles.TurnBadge(song.SelectedBy == core.TurnAI))
	lines := []string{title, artist, "", picked}

	if song.Rationale != "" {
		lines = append(lines, styles.Dim.Width(width-4).Render("\""+song.Rationale+"\""))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
