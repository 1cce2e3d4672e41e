package styles

import "github.com/charmbracelet/lipgloss"

// Colors - a pleasant color palette
var (
	// Primary colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Accent    = lipgloss.Color("#F59E0B") // Amber

	// Status colors
	Success = lipgloss.Color("#10B981") // Green
	Warning = lipgloss.Color("#F59E0B") // Amber
	Error   = lipgloss.Color("#EF4444") // Red
	Info    = lipgloss.Color("#3B82F6") // Blue

	// Neutral colors
	Border    = lipgloss.Color("#4B5563") // Light gray
	Text      = lipgloss.Color("#F9FAFB") // White
	TextMuted = lipgloss.Color("#9CA3AF") // Gray
	TextDim   = lipgloss.Color("#6B7280") // Darker gray

	// Party colors
	UserColor = lipgloss.Color("#1DB954") // Spotify green for the human
	AIColor   = lipgloss.Color("#7C3AED") // Purple for the AI
)

// Text styles
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Text)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextMuted)

	Label = lipgloss.NewStyle().
		Foreground(TextDim)

	Highlight = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	Dim = lipgloss.NewStyle().
		Foreground(TextDim)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error)

	UserBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(UserColor)

	AIBadge = lipgloss.NewStyle().
		Bold(true).
		Foreground(AIColor)
)

// Border styles
var (
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border)

	FocusedBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary)
)

// Panel creates a styled panel with optional focus
func Panel(focused bool) lipgloss.Style {
	if focused {
		return FocusedBorder.Padding(0, 1)
	}
	return BorderStyle.Padding(0, 1)
}

// PanelTitle creates a styled panel title
func PanelTitle(title string, focused bool) string {
	style := Label
	if focused {
		style = Highlight
	}
	return style.Render(" " + title + " ")
}

// TurnBadge renders who a pick belongs to.
func TurnBadge(isAI bool) string {
	if isAI {
		return AIBadge.Render("AI")
	}
	return UserBadge.Render("you")
}
