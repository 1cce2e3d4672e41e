package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/tessro/duet/internal/core"
)

// Table provides a simple table formatter.
type Table struct {
	w       *tabwriter.Writer
	headers []string
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return NewTableWriter(os.Stdout, headers...)
}

// NewTableWriter creates a table writing to a specific writer.
func NewTableWriter(out io.Writer, headers ...string) *Table {
	t := &Table{
		w:       tabwriter.NewWriter(out, 0, 0, 2, ' ', 0),
		headers: headers,
	}
	if len(headers) > 0 {
		_, _ = t.w.Write([]byte(strings.Join(headers, "\t") + "\n"))
	}
	return t
}

// Row adds a row to the table.
func (t *Table) Row(values ...string) {
	_, _ = t.w.Write([]byte(strings.Join(values, "\t") + "\n"))
}

// Flush writes the table output.
func (t *Table) Flush() {
	_ = t.w.Flush()
}

// selectorLabel renders who picked a song.
func selectorLabel(turn core.TurnType) string {
	if turn == core.TurnAI {
		return "AI"
	}
	return "you"
}

// statusLabel renders a queue status for display.
func statusLabel(status core.QueueStatus) string {
	switch status {
	case core.StatusPlaying:
		return "playing"
	case core.StatusPlayed:
		return "played"
	case core.StatusUpNext:
		return "up next"
	case core.StatusQueuedIfSkipped:
		return "backup"
	default:
		return string(status)
	}
}

// songLine renders a one-line song description.
func songLine(song core.SessionSong) string {
	return fmt.Sprintf("%s — %s", song.Track.Title, song.Track.Artist)
}
