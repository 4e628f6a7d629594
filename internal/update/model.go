package update

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/daytrack/internal/model"
	"github.com/sandeepkv93/daytrack/internal/timer"
	"github.com/sandeepkv93/daytrack/internal/tracker"
)

type View string

const (
	ViewDay    View = "Day"
	ViewReport View = "Report"
)

type InputKind string

const (
	InputAddProject    InputKind = "add-project"
	InputAddTask       InputKind = "add-task"
	InputRenameProject InputKind = "rename-project"
	InputRenameTask    InputKind = "rename-task"
)

type ConfirmKind string

const (
	ConfirmDeleteTask    ConfirmKind = "delete-task"
	ConfirmDeleteProject ConfirmKind = "delete-project"
	ConfirmDeleteAll     ConfirmKind = "delete-all"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Day    string
	Report string
	Help   string
	Quit   string
}

// row is one selectable line in the day view. TaskID is empty for a
// project header row.
type row struct {
	ProjectID string
	TaskID    string
}

type InputState struct {
	Active bool
	Kind   InputKind
	Target string
}

type ConfirmState struct {
	Active bool
	Kind   ConfirmKind
	Target string
	Text   string
}

type Model struct {
	CurrentView View
	Tracker     *tracker.Tracker
	Engine      *timer.Engine
	Day         model.Day
	Rows        []row
	Cursor      int
	Input       InputState
	Confirm     ConfirmState
	HelpVisible bool
	Status      StatusBar
	Keys        GlobalKeyMap
	Quitting    bool
	LastError   error
	// Bubble components used for rich TUI controls
	dayList        list.Model
	titleInput     textinput.Model
	reportViewport viewport.Model
	dayProgress    progress.Model
	helpModel      help.Model
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type TimerTickMsg struct {
	Event timer.TickEvent
}

func NewModel(tr *tracker.Tracker, engine *timer.Engine) Model {
	m := Model{
		CurrentView: ViewDay,
		Tracker:     tr,
		Engine:      engine,
		Keys: GlobalKeyMap{
			Day:    "1",
			Report: "2",
			Help:   "?",
			Quit:   "q",
		},
	}
	m.initBubbleComponents()
	m.reloadDay()
	return m
}

func (m *Model) initBubbleComponents() {
	m.dayList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 12)
	m.dayList.Title = "Today"
	m.dayList.SetShowHelp(false)
	m.dayList.SetFilteringEnabled(false)

	m.titleInput = textinput.New()
	m.titleInput.Prompt = "> "
	m.titleInput.CharLimit = 256
	m.titleInput.Width = 48

	m.reportViewport = viewport.New(54, 14)
	m.dayProgress = progress.New(progress.WithDefaultGradient())
	m.helpModel = help.New()
}

// reloadDay pulls a fresh snapshot from the tracker and rebuilds the row
// index and bubble list.
func (m *Model) reloadDay() {
	if m.Tracker == nil {
		return
	}
	m.Day = m.Tracker.Day()
	m.rebuildRows()
	m.syncBubbleData()
}

func (m *Model) rebuildRows() {
	rows := make([]row, 0)
	for _, project := range m.Day.Projects {
		rows = append(rows, row{ProjectID: project.ID})
		for _, task := range project.Tasks {
			rows = append(rows, row{ProjectID: project.ID, TaskID: task.ID})
		}
	}
	m.Rows = rows
	if m.Cursor >= len(m.Rows) {
		m.Cursor = len(m.Rows) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m *Model) syncBubbleData() {
	items := make([]list.Item, 0, len(m.Rows))
	for _, r := range m.Rows {
		if r.TaskID == "" {
			project := m.Day.Project(r.ProjectID)
			if project != nil {
				items = append(items, listItem{title: projectTitle(*project), description: "project"})
			}
			continue
		}
		task, _ := m.Day.Task(r.TaskID)
		if task != nil {
			items = append(items, listItem{title: task.Title, description: string(task.Status)})
		}
	}
	m.dayList.SetItems(items)
	if len(items) > 0 && m.Cursor < len(items) {
		m.dayList.Select(m.Cursor)
	}
}

func (m Model) selectedRow() (row, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Rows) {
		return row{}, false
	}
	return m.Rows[m.Cursor], true
}

func (m Model) selectedTask() *model.Task {
	r, ok := m.selectedRow()
	if !ok || r.TaskID == "" {
		return nil
	}
	task, _ := m.Day.Task(r.TaskID)
	return task
}

func projectTitle(p model.Project) string {
	if p.Title == "" {
		return model.UntitledProjectTitle
	}
	return p.Title
}
