package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/daytrack/internal/report"
	"github.com/sandeepkv93/daytrack/internal/views"
)

func (m *Model) refreshReport() {
	if m.Tracker == nil {
		return
	}
	md := report.Build(m.Tracker.Day()).Markdown()
	m.reportViewport.SetContent(views.RenderMarkdown(md))
	m.reportViewport.GotoTop()
}

func (m Model) handleReportKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.reportViewport.LineDown(1)
	case "k", "up":
		m.reportViewport.LineUp(1)
	case "g":
		m.reportViewport.GotoTop()
	case "G":
		m.reportViewport.GotoBottom()
	default:
		var cmd tea.Cmd
		m.reportViewport, cmd = m.reportViewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) renderReportView() string {
	return views.RenderReportPanel(views.ReportPanelData{
		ViewportView: m.reportViewport.View(),
	})
}
