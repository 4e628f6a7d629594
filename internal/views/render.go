package views

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// AppData carries the rendered pieces of one frame. The day pane is the wide
// primary column; the side pane stacks detail, prompts, and help under it.
type AppData struct {
	Title   string
	Day     string
	Side    string
	Status  string
	IsError bool
	Footer  string
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).Padding(0, 1)
	dayPane     = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).Width(62)
	sidePane    = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).Width(46)
	okStatus    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStatus   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	footerStyle = lipgloss.NewStyle().Faint(true)
)

// RenderApp lays out a frame: title bar, the two panes side by side, then the
// status line and key hints.
func RenderApp(data AppData) string {
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		dayPane.Render(data.Day),
		sidePane.Render(data.Side),
	)
	status := okStatus.Render(data.Status)
	if data.IsError {
		status = errStatus.Render(data.Status)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(data.Title),
		panes,
		status,
		footerStyle.Render(data.Footer),
	)
}

var (
	mdOnce     sync.Once
	mdRenderer *glamour.TermRenderer
)

// RenderMarkdown renders the report markdown for the viewport, wrapped to fit
// the day pane. Falls back to the raw markdown when the terminal renderer
// cannot be built.
func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	mdOnce.Do(func() {
		mdRenderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(52),
		)
	})
	if mdRenderer == nil {
		return md
	}
	out, err := mdRenderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
