package views

import (
	"fmt"
	"strings"
)

type DayTaskData struct {
	ID      string
	Title   string
	Status  string
	Elapsed string
	Active  bool
}

type DayProjectData struct {
	ID    string
	Title string
	Tasks []DayTaskData
}

type DayPanelData struct {
	Label      string
	ListView   string
	Projects   []DayProjectData
	SelectedID string
}

type TaskDetailData struct {
	SelectedID   string
	Title        string
	Status       string
	Elapsed      string
	Active       bool
	ProgressView string
	ProgressPct  int
}

type InputPromptData struct {
	Active    bool
	Label     string
	InputView string
}

type ConfirmPromptData struct {
	Active bool
	Text   string
}

type ReportPanelData struct {
	ViewportView string
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
}

func RenderDayPanel(data DayPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("day: %s\n", data.Label))
	b.WriteString("actions: [j/k]move [s]start/pause [enter]toggle [c]cancel [d]delete\n")
	b.WriteString(data.ListView + "\n")
	if len(data.Projects) == 0 {
		b.WriteString("\n(no projects yet, press [P] to add one)")
		return strings.TrimSpace(b.String())
	}
	for _, project := range data.Projects {
		b.WriteString(fmt.Sprintf("\n%s:\n", project.Title))
		if len(project.Tasks) == 0 {
			b.WriteString("  (no tasks)\n")
			continue
		}
		for _, task := range project.Tasks {
			cursor := " "
			if data.SelectedID == task.ID {
				cursor = ">"
			}
			b.WriteString(fmt.Sprintf("%s %s %s (%s)", cursor, statusBadge(task), task.Title, task.Elapsed))
			if task.Active {
				b.WriteString(" *running*")
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderTaskDetailPane(data TaskDetailData) string {
	if strings.TrimSpace(data.SelectedID) == "" {
		return "task:\n(no selection)"
	}
	state := "paused"
	if data.Active {
		state = "running"
	}
	return fmt.Sprintf("task:\nid: %s\ntitle: %s\nstatus: %s\nelapsed: %s\ntimer: %s\n\nday progress: %s %d%%",
		data.SelectedID,
		data.Title,
		data.Status,
		data.Elapsed,
		state,
		data.ProgressView,
		data.ProgressPct,
	)
}

func RenderInputPrompt(data InputPromptData) string {
	if !data.Active {
		return ""
	}
	return fmt.Sprintf("\n%s\n%s\nkeys: [enter]confirm [esc]cancel", data.Label, data.InputView)
}

func RenderConfirmPrompt(data ConfirmPromptData) string {
	if !data.Active {
		return ""
	}
	return fmt.Sprintf("\nconfirm: %s\nkeys: [y]yes [n/esc]no", data.Text)
}

func RenderReportPanel(data ReportPanelData) string {
	var b strings.Builder
	b.WriteString("report:\n")
	b.WriteString("actions: [j/k]scroll [1]day view\n")
	b.WriteString(data.ViewportView)
	return strings.TrimSpace(b.String())
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s\n%s",
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func statusBadge(task DayTaskData) string {
	switch task.Status {
	case "done":
		return "[x]"
	case "cancelled":
		return "[-]"
	case "overdue":
		return "[!]"
	case "in-progress":
		return "[>]"
	default:
		return "[ ]"
	}
}
