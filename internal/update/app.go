package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/daytrack/internal/report"
	"github.com/sandeepkv93/daytrack/internal/timer"
	"github.com/sandeepkv93/daytrack/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.Engine != nil {
		return waitForTickCmd(m.Engine.C())
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Input.Active {
			next, cmd := m.handleInputKey(typed)
			return next, cmd
		}
		if m.Confirm.Active {
			return m.handleConfirmKey(typed), nil
		}

		switch typed.String() {
		case m.Keys.Day:
			m.CurrentView = ViewDay
			return m, nil
		case m.Keys.Report:
			m.CurrentView = ViewReport
			m.refreshReport()
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			if m.Tracker != nil {
				if err := m.Tracker.Flush(); err != nil {
					m.LastError = err
				}
			}
			m.Quitting = true
			return m, tea.Quit
		}
		if m.CurrentView == ViewReport {
			next, cmd := m.handleReportKey(typed)
			return next, cmd
		}
		next, cmd := m.handleDayKey(typed)
		return next, cmd
	case TimerTickMsg:
		if m.Tracker != nil {
			m.Tracker.ApplyTick(typed.Event)
			m.reloadDay()
		}
		if m.Engine != nil {
			return m, waitForTickCmd(m.Engine.C())
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	dayPane := ""
	sidePane := ""
	switch m.CurrentView {
	case ViewReport:
		dayPane = m.renderReportView()
		sidePane = m.renderHelpIfVisible()
	default:
		dayPane = m.renderDayView()
		sidePane = m.renderTaskDetailPane() +
			m.renderInputPrompt() +
			m.renderConfirmPrompt() +
			m.renderHelpIfVisible()
	}

	selected := ""
	if task := m.selectedTask(); task != nil {
		selected = task.ID
	}
	return views.RenderApp(views.AppData{
		Title:   fmt.Sprintf("daytrack | view: %s | selected: %s", m.CurrentView, selected),
		Day:     dayPane,
		Side:    sidePane,
		Status:  status,
		IsError: m.Status.IsError,
		Footer:  fmt.Sprintf("keys: %s day | %s report | %s help | %s quit", m.Keys.Day, m.Keys.Report, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) renderDayView() string {
	projects := make([]views.DayProjectData, 0, len(m.Day.Projects))
	for _, project := range m.Day.Projects {
		tasks := make([]views.DayTaskData, 0, len(project.Tasks))
		for _, task := range project.Tasks {
			tasks = append(tasks, views.DayTaskData{
				ID:      task.ID,
				Title:   task.Title,
				Status:  string(task.Status),
				Elapsed: report.FormatSeconds(task.TimeSpent),
				Active:  task.IsActive,
			})
		}
		projects = append(projects, views.DayProjectData{
			ID:    project.ID,
			Title: projectTitle(project),
			Tasks: tasks,
		})
	}
	selected := ""
	if task := m.selectedTask(); task != nil {
		selected = task.ID
	}
	return views.RenderDayPanel(views.DayPanelData{
		Label:      m.Day.Label,
		ListView:   m.dayList.View(),
		Projects:   projects,
		SelectedID: selected,
	})
}

func (m Model) renderTaskDetailPane() string {
	task := m.selectedTask()
	if task == nil {
		return views.RenderTaskDetailPane(views.TaskDetailData{})
	}
	pct := m.completionFraction()
	return views.RenderTaskDetailPane(views.TaskDetailData{
		SelectedID:   task.ID,
		Title:        task.Title,
		Status:       string(task.Status),
		Elapsed:      report.FormatSeconds(task.TimeSpent),
		Active:       task.IsActive,
		ProgressView: m.dayProgress.ViewAs(pct),
		ProgressPct:  int(pct * 100),
	})
}

func (m Model) completionFraction() float64 {
	summary := report.Build(m.Day)
	if summary.TotalTasks == 0 {
		return 0
	}
	return float64(summary.CompletedTasks) / float64(summary.TotalTasks)
}

func (m Model) renderInputPrompt() string {
	return views.RenderInputPrompt(views.InputPromptData{
		Active:    m.Input.Active,
		Label:     inputLabel(m.Input.Kind),
		InputView: m.titleInput.View(),
	})
}

func (m Model) renderConfirmPrompt() string {
	return views.RenderConfirmPrompt(views.ConfirmPromptData{
		Active: m.Confirm.Active,
		Text:   m.Confirm.Text,
	})
}

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func inputLabel(kind InputKind) string {
	switch kind {
	case InputAddProject:
		return "new project title:"
	case InputAddTask:
		return "new task title:"
	case InputRenameProject:
		return "rename project:"
	case InputRenameTask:
		return "rename task:"
	default:
		return "input:"
	}
}

func waitForTickCmd(ch <-chan timer.TickEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return TimerTickMsg{Event: ev}
	}
}

func (m Model) fail(err error) Model {
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
	return m
}

func (m Model) ok(format string, args ...any) Model {
	m.Status = StatusBar{Text: strings.TrimSpace(fmt.Sprintf(format, args...)), IsError: false}
	return m
}
