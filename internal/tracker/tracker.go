// Package tracker owns the application state: the in-memory day, the timer
// engine, and the store. Every user command flows through here; each mutating
// command persists the whole day before returning.
//
// All methods are expected to be called from a single event loop (the TUI
// update loop or a one-shot CLI command); engine ticks arrive as events on the
// same loop, so the tracker itself needs no locking.
package tracker

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sandeepkv93/daytrack/internal/clock"
	"github.com/sandeepkv93/daytrack/internal/model"
	"github.com/sandeepkv93/daytrack/internal/rollover"
	"github.com/sandeepkv93/daytrack/internal/storage"
	"github.com/sandeepkv93/daytrack/internal/timer"
)

var (
	ErrTaskNotFound      = errors.New("tracker: task not found")
	ErrProjectNotFound   = errors.New("tracker: project not found")
	ErrIllegalTransition = errors.New("tracker: illegal status transition")
)

type Tracker struct {
	day    model.Day
	store  *storage.Store
	engine *timer.Engine
	clk    clock.Clock
	logger *zap.Logger
	newID  func() string
}

func New(store *storage.Store, engine *timer.Engine, clk clock.Clock, logger *zap.Logger) *Tracker {
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		store:  store,
		engine: engine,
		clk:    clk,
		logger: logger,
		newID:  uuid.NewString,
	}
}

// SetIDGenerator swaps the id source; tests use it for deterministic ids.
func (tr *Tracker) SetIDGenerator(fn func() string) {
	if fn != nil {
		tr.newID = fn
	}
}

// Load reads persisted state, runs the day rollover when the calendar day
// changed, and re-anchors a task that was persisted active so the time that
// passed while the process was down is counted.
func (tr *Tracker) Load() error {
	day, err := tr.store.Load()
	if err != nil {
		return err
	}

	today := model.DayLabel(tr.clk.Now())
	day, migrated := rollover.Process(day, today, tr.newID)
	if migrated {
		tr.logger.Info("day rollover applied",
			zap.String("day", today),
			zap.Int("carried_projects", len(day.Projects)),
		)
		if err := tr.store.Save(day); err != nil {
			return err
		}
	}

	tr.day = day
	if active := tr.day.ActiveTask(); active != nil {
		active.TimeSpent = active.Elapsed(tr.clk.Now())
		tr.engine.ActivateAt(active.ID, active.LastTimeSpent, *active.LastStartTime)
		tr.logger.Info("resumed active timer",
			zap.String("task", active.ID),
			zap.Int64("seconds", active.TimeSpent),
		)
	}
	return nil
}

// Day returns a deep copy of the current day for readers.
func (tr *Tracker) Day() model.Day {
	return tr.day.Clone()
}

func (tr *Tracker) AddProject(title string) (string, error) {
	id := tr.newID()
	tr.day.Projects = append(tr.day.Projects, model.Project{ID: id, Title: title, Tasks: []model.Task{}})
	return id, tr.save()
}

func (tr *Tracker) AddTask(projectID, title string) (string, error) {
	project := tr.day.Project(projectID)
	if project == nil {
		return "", fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}
	id := tr.newID()
	project.Tasks = append(project.Tasks, model.NewTask(id, title))
	return id, tr.save()
}

func (tr *Tracker) UpdateProjectTitle(projectID, title string) error {
	project := tr.day.Project(projectID)
	if project == nil {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}
	project.Title = title
	return tr.save()
}

func (tr *Tracker) UpdateTaskTitle(taskID, title string) error {
	task, _ := tr.day.Task(taskID)
	if task == nil {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	task.Title = title
	return tr.save()
}

// Start activates the task's timer. Any other running timer is fully stopped
// first, so there is no instant with two active tasks.
func (tr *Tracker) Start(taskID string) error {
	task, _ := tr.day.Task(taskID)
	if task == nil {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if !task.Status.CanStart() {
		return fmt.Errorf("%w: cannot start from %q", ErrIllegalTransition, task.Status)
	}

	if prevID := tr.engine.ActiveID(); prevID != "" && prevID != taskID {
		if prev, _ := tr.day.Task(prevID); prev != nil {
			tr.stopTimer(prev)
		} else {
			tr.engine.Deactivate(prevID)
		}
	}
	// Restarting the running task re-anchors it at its current total.
	tr.stopTimer(task)

	anchor := tr.engine.Activate(taskID, task.TimeSpent)
	task.Anchor(anchor)
	return tr.save()
}

// Pause stops the running timer. The status stays in-progress: a paused task
// is indistinguishable from a started-then-stopped one except for the active
// flag.
func (tr *Tracker) Pause(taskID string) error {
	task, _ := tr.day.Task(taskID)
	if task == nil {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if !task.IsActive || !task.Status.CanPause() {
		return fmt.Errorf("%w: cannot pause from %q", ErrIllegalTransition, task.Status)
	}
	tr.stopTimer(task)
	return tr.save()
}

func (tr *Tracker) MarkDone(taskID string) error {
	task, _ := tr.day.Task(taskID)
	if task == nil {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if task.Status.Terminal() {
		return fmt.Errorf("%w: cannot complete from %q", ErrIllegalTransition, task.Status)
	}
	tr.stopTimer(task)
	task.Status = model.StatusDone
	return tr.save()
}

func (tr *Tracker) Cancel(taskID string) error {
	task, _ := tr.day.Task(taskID)
	if task == nil {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if task.Status.Terminal() {
		return fmt.Errorf("%w: cannot cancel from %q", ErrIllegalTransition, task.Status)
	}
	tr.stopTimer(task)
	task.Status = model.StatusCancelled
	return tr.save()
}

// Toggle flips done back to pending; everything else (except cancelled, which
// has no exit) completes the task.
func (tr *Tracker) Toggle(taskID string) error {
	task, _ := tr.day.Task(taskID)
	if task == nil {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if task.Status == model.StatusCancelled {
		return fmt.Errorf("%w: cancelled has no exit", ErrIllegalTransition)
	}
	if task.Status == model.StatusDone {
		task.Status = model.StatusPending
		return tr.save()
	}
	return tr.MarkDone(taskID)
}

// DeleteTask removes the task, stopping its timer first so no tick can ever
// reference the deleted id again.
func (tr *Tracker) DeleteTask(taskID string) error {
	task, _ := tr.day.Task(taskID)
	if task == nil {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	tr.engine.Deactivate(taskID)
	tr.day.RemoveTask(taskID)
	return tr.save()
}

func (tr *Tracker) DeleteProject(projectID string) error {
	project := tr.day.Project(projectID)
	if project == nil {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}
	for _, t := range project.Tasks {
		tr.engine.Deactivate(t.ID)
	}
	tr.day.RemoveProject(projectID)
	return tr.save()
}

// DeleteAll wipes the day. Callers gate this behind explicit confirmation.
func (tr *Tracker) DeleteAll() error {
	if id := tr.engine.ActiveID(); id != "" {
		tr.engine.Deactivate(id)
	}
	tr.day = model.NewDay(model.DayLabel(tr.clk.Now()))
	return tr.save()
}

// ApplyTick refreshes the in-memory elapsed value for a tick event. Ticks do
// not persist; stale events for deleted or deactivated tasks are dropped.
func (tr *Tracker) ApplyTick(ev timer.TickEvent) bool {
	task, _ := tr.day.Task(ev.TaskID)
	if task == nil || !task.IsActive {
		return false
	}
	task.TimeSpent = ev.Seconds
	return true
}

// Flush persists the current day outside a mutating command, e.g. on quit
// while a timer is still ticking.
func (tr *Tracker) Flush() error {
	if active := tr.day.ActiveTask(); active != nil {
		active.TimeSpent = active.Elapsed(tr.clk.Now())
	}
	return tr.save()
}

// stopTimer finalizes the task's elapsed seconds from the engine and clears
// its running fields. Safe to call for inactive tasks.
func (tr *Tracker) stopTimer(task *model.Task) {
	if seconds, ok := tr.engine.Deactivate(task.ID); ok {
		task.TimeSpent = seconds
	}
	task.Deactivate()
}

func (tr *Tracker) save() error {
	return tr.store.Save(tr.day)
}
