package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/hashlane/hashlane/pkg/task"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	pathStyle   = lipgloss.NewStyle().Faint(true)
	digestStyle = lipgloss.NewStyle()
	matchStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	differStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	statsStyle  = lipgloss.NewStyle().Faint(true)
)

// digestStyleFor compares a finished row against the first finished row:
// the first digest renders plain, later ones green on match and red on
// mismatch, so hashing the same file from two paths is an eyeball check.
func digestStyleFor(v View, index int) lipgloss.Style {
	if index == 0 {
		return digestStyle
	}
	first := v.Rows[0]
	if first.State.Kind != task.Done {
		return digestStyle
	}
	if v.Rows[index].State.Digest == first.State.Digest {
		return matchStyle
	}
	return differStyle
}

func renderView(v View, bar func(percent float64) string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(v.Title))
	b.WriteByte('\n')

	for i, row := range v.Rows {
		name := filepath.Base(row.Path)
		fmt.Fprintf(&b, "%s %s\n", name, pathStyle.Render("("+humanize.IBytes(uint64(row.Size))+")"))
		switch row.State.Kind {
		case task.Pending:
			fmt.Fprintf(&b, "  %s\n", bar(0))
		case task.Progressing:
			fmt.Fprintf(&b, "  %s\n", bar(row.State.Percent))
		case task.Done:
			fmt.Fprintf(&b, "  %s\n", digestStyleFor(v, i).Render(row.State.Digest))
		}
	}

	if !v.AllDone && v.Stats.RateBps > 0 {
		line := fmt.Sprintf("%s/s", humanize.IBytes(uint64(v.Stats.RateBps)))
		if v.Stats.ETA > 0 {
			line += fmt.Sprintf(", about %s left", v.Stats.ETA.Round(time.Second))
		}
		b.WriteString(statsStyle.Render(line))
		b.WriteByte('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}
