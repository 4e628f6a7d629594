package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleDayKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.Cursor < len(m.Rows)-1 {
			m.Cursor++
		}
		m.syncBubbleData()
		return m, nil
	case "k", "up":
		if m.Cursor > 0 {
			m.Cursor--
		}
		m.syncBubbleData()
		return m, nil
	case "P":
		next, cmd := m.openInput(InputAddProject, "", "")
		return next, cmd
	case "a":
		r, ok := m.selectedRow()
		if !ok {
			return m.fail(fmt.Errorf("add a project first (press P)")), nil
		}
		next, cmd := m.openInput(InputAddTask, r.ProjectID, "")
		return next, cmd
	case "r":
		next, cmd := m.openRename()
		return next, cmd
	case "s", " ":
		return m.startPauseSelected(), nil
	case "enter":
		return m.toggleSelected(), nil
	case "x":
		return m.completeSelected(), nil
	case "c":
		return m.cancelSelected(), nil
	case "d":
		return m.openDeleteConfirm(), nil
	case "D":
		m.Confirm = ConfirmState{
			Active: true,
			Kind:   ConfirmDeleteAll,
			Text:   "delete ALL projects and tasks for today?",
		}
		return m, nil
	}
	return m, nil
}

func (m Model) openInput(kind InputKind, target, prefill string) (Model, tea.Cmd) {
	m.Input = InputState{Active: true, Kind: kind, Target: target}
	m.titleInput.SetValue(prefill)
	m.titleInput.CursorEnd()
	return m, m.titleInput.Focus()
}

func (m Model) openRename() (Model, tea.Cmd) {
	r, ok := m.selectedRow()
	if !ok {
		return m.fail(fmt.Errorf("nothing selected")), nil
	}
	if r.TaskID == "" {
		project := m.Day.Project(r.ProjectID)
		if project == nil {
			return m, nil
		}
		return m.openInput(InputRenameProject, r.ProjectID, project.Title)
	}
	task, _ := m.Day.Task(r.TaskID)
	if task == nil {
		return m, nil
	}
	return m.openInput(InputRenameTask, r.TaskID, task.Title)
}

func (m Model) openDeleteConfirm() Model {
	r, ok := m.selectedRow()
	if !ok {
		return m.fail(fmt.Errorf("nothing selected"))
	}
	if r.TaskID == "" {
		project := m.Day.Project(r.ProjectID)
		if project == nil {
			return m
		}
		m.Confirm = ConfirmState{
			Active: true,
			Kind:   ConfirmDeleteProject,
			Target: r.ProjectID,
			Text:   fmt.Sprintf("delete project %q and all its tasks?", projectTitle(*project)),
		}
		return m
	}
	task, _ := m.Day.Task(r.TaskID)
	if task == nil {
		return m
	}
	m.Confirm = ConfirmState{
		Active: true,
		Kind:   ConfirmDeleteTask,
		Target: r.TaskID,
		Text:   fmt.Sprintf("delete task %q?", task.Title),
	}
	return m
}

func (m Model) handleInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Input = InputState{}
		m.titleInput.SetValue("")
		m.titleInput.Blur()
		return m.ok("input cancelled"), nil
	case "enter":
		return m.commitInput(), nil
	default:
		var cmd tea.Cmd
		m.titleInput, cmd = m.titleInput.Update(msg)
		return m, cmd
	}
}

func (m Model) commitInput() Model {
	title := strings.TrimSpace(m.titleInput.Value())
	kind := m.Input.Kind
	target := m.Input.Target
	m.Input = InputState{}
	m.titleInput.SetValue("")
	m.titleInput.Blur()

	if title == "" {
		return m.fail(fmt.Errorf("title required"))
	}

	var err error
	switch kind {
	case InputAddProject:
		_, err = m.Tracker.AddProject(title)
	case InputAddTask:
		_, err = m.Tracker.AddTask(target, title)
	case InputRenameProject:
		err = m.Tracker.UpdateProjectTitle(target, title)
	case InputRenameTask:
		err = m.Tracker.UpdateTaskTitle(target, title)
	}
	if err != nil {
		return m.fail(err)
	}
	m.reloadDay()
	return m.ok("%s: %s", kind, title)
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) Model {
	kind := m.Confirm.Kind
	target := m.Confirm.Target
	confirmed := msg.String() == "y"
	m.Confirm = ConfirmState{}
	if !confirmed {
		return m.ok("cancelled")
	}

	var err error
	switch kind {
	case ConfirmDeleteTask:
		err = m.Tracker.DeleteTask(target)
	case ConfirmDeleteProject:
		err = m.Tracker.DeleteProject(target)
	case ConfirmDeleteAll:
		err = m.Tracker.DeleteAll()
	}
	if err != nil {
		return m.fail(err)
	}
	m.reloadDay()
	return m.ok("%s done", kind)
}

func (m Model) startPauseSelected() Model {
	task := m.selectedTask()
	if task == nil {
		return m.fail(fmt.Errorf("select a task first"))
	}
	var err error
	verb := "started"
	if task.IsActive {
		err = m.Tracker.Pause(task.ID)
		verb = "paused"
	} else {
		err = m.Tracker.Start(task.ID)
	}
	if err != nil {
		return m.fail(err)
	}
	m.reloadDay()
	return m.ok("%s: %s", verb, task.Title)
}

func (m Model) toggleSelected() Model {
	task := m.selectedTask()
	if task == nil {
		return m.fail(fmt.Errorf("select a task first"))
	}
	if err := m.Tracker.Toggle(task.ID); err != nil {
		return m.fail(err)
	}
	m.reloadDay()
	return m.ok("toggled: %s", task.Title)
}

func (m Model) completeSelected() Model {
	task := m.selectedTask()
	if task == nil {
		return m.fail(fmt.Errorf("select a task first"))
	}
	if err := m.Tracker.MarkDone(task.ID); err != nil {
		return m.fail(err)
	}
	m.reloadDay()
	return m.ok("done: %s", task.Title)
}

func (m Model) cancelSelected() Model {
	task := m.selectedTask()
	if task == nil {
		return m.fail(fmt.Errorf("select a task first"))
	}
	if err := m.Tracker.Cancel(task.ID); err != nil {
		return m.fail(err)
	}
	m.reloadDay()
	return m.ok("cancelled: %s", task.Title)
}
