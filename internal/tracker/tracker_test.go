package tracker

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/sandeepkv93/daytrack/internal/clock"
	"github.com/sandeepkv93/daytrack/internal/model"
	"github.com/sandeepkv93/daytrack/internal/storage"
	"github.com/sandeepkv93/daytrack/internal/timer"
)

var monday = time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC) // Mon Aug 24 2026

func newTestTracker(t *testing.T, clk clock.Clock, path string) *Tracker {
	t.Helper()
	store := storage.NewStore(storage.NewFileBlobStore(path), clk, zap.NewNop())
	engine := timer.NewEngine(clk, time.Second, 8)
	tr := New(store, engine, clk, zap.NewNop())
	n := 0
	tr.SetIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
	if err := tr.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	return tr
}

func statePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "daytrack.json")
}

func TestSingleFocusInvariant(t *testing.T) {
	clk := clock.NewFake(monday)
	tr := newTestTracker(t, clk, statePath(t))

	projectID, _ := tr.AddProject("Work")
	var ids []string
	for i := 0; i < 4; i++ {
		id, err := tr.AddTask(projectID, fmt.Sprintf("task %d", i))
		if err != nil {
			t.Fatalf("add task: %v", err)
		}
		ids = append(ids, id)
	}

	for _, id := range []string{ids[0], ids[2], ids[1], ids[1], ids[3]} {
		if err := tr.Start(id); err != nil {
			t.Fatalf("start %s: %v", id, err)
		}
		active := 0
		day := tr.Day()
		for _, p := range day.Projects {
			for _, task := range p.Tasks {
				if task.IsActive {
					active++
					if task.ID != id {
						t.Fatalf("wrong task active: %s, wanted %s", task.ID, id)
					}
				}
			}
		}
		if active != 1 {
			t.Fatalf("expected exactly one active task, got %d", active)
		}
		if err := day.Validate(); err != nil {
			t.Fatalf("day invalid after start: %v", err)
		}
	}
}

func TestStartSwitchFinalizesPreviousTask(t *testing.T) {
	clk := clock.NewFake(monday)
	tr := newTestTracker(t, clk, statePath(t))
	projectID, _ := tr.AddProject("Work")
	first, _ := tr.AddTask(projectID, "first")
	second, _ := tr.AddTask(projectID, "second")

	if err := tr.Start(first); err != nil {
		t.Fatalf("start first: %v", err)
	}
	clk.Advance(30 * time.Second)
	if err := tr.Start(second); err != nil {
		t.Fatalf("start second: %v", err)
	}

	day := tr.Day()
	prev, _ := day.Task(first)
	if prev.IsActive || prev.TimeSpent != 30 {
		t.Fatalf("previous task not finalized: active=%v seconds=%d", prev.IsActive, prev.TimeSpent)
	}
	if prev.Status != model.StatusInProgress {
		t.Fatalf("displaced task keeps in-progress, got %q", prev.Status)
	}
}

func TestEndToEndDayScenario(t *testing.T) {
	clk := clock.NewFake(monday)
	path := statePath(t)
	tr := newTestTracker(t, clk, path)

	projectID, _ := tr.AddProject("Work")
	taskID, _ := tr.AddTask(projectID, "Write spec")

	if err := tr.Start(taskID); err != nil {
		t.Fatalf("start: %v", err)
	}
	d := tr.Day()
	task, _ := d.Task(taskID)
	if task.Status != model.StatusInProgress || !task.IsActive {
		t.Fatalf("after start: %+v", task)
	}

	clk.Advance(65 * time.Second)
	if err := tr.Pause(taskID); err != nil {
		t.Fatalf("pause: %v", err)
	}
	d = tr.Day()
	task, _ = d.Task(taskID)
	if task.IsActive || task.TimeSpent != 65 {
		t.Fatalf("after pause: active=%v seconds=%d", task.IsActive, task.TimeSpent)
	}
	if task.Status != model.StatusInProgress {
		t.Fatalf("pause must not change status, got %q", task.Status)
	}

	// Next load happens on Tuesday: the rollover carries the task as overdue.
	clk.Set(monday.Add(24 * time.Hour))
	tue := newTestTracker(t, clk, path)
	day := tue.Day()
	if day.Label != model.DayLabel(clk.Now()) {
		t.Fatalf("expected Tuesday label, got %q", day.Label)
	}
	if len(day.Projects) != 1 || day.Projects[0].Title != "Work" {
		t.Fatalf("expected carried Work project, got %+v", day.Projects)
	}
	carried := day.Projects[0].Tasks
	if len(carried) != 1 || carried[0].Title != "Write spec" {
		t.Fatalf("expected carried task, got %+v", carried)
	}
	if carried[0].Status != model.StatusOverdue || carried[0].IsActive || carried[0].TimeSpent != 65 {
		t.Fatalf("carried task wrong: %+v", carried[0])
	}
}

func TestReloadIdempotence(t *testing.T) {
	clk := clock.NewFake(monday)
	path := statePath(t)
	tr := newTestTracker(t, clk, path)

	projectID, _ := tr.AddProject("Work")
	a, _ := tr.AddTask(projectID, "one")
	b, _ := tr.AddTask(projectID, "two")
	if err := tr.Start(a); err != nil {
		t.Fatalf("start: %v", err)
	}
	clk.Advance(42 * time.Second)
	if err := tr.Pause(a); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if err := tr.MarkDone(b); err != nil {
		t.Fatalf("done: %v", err)
	}

	before := tr.Day()
	reloaded := newTestTracker(t, clk, path)
	if diff := cmp.Diff(before, reloaded.Day()); diff != "" {
		t.Fatalf("reload changed the day (-before +after):\n%s", diff)
	}
}

func TestReloadResumesActiveTimerWithDowntime(t *testing.T) {
	clk := clock.NewFake(monday)
	path := statePath(t)
	tr := newTestTracker(t, clk, path)

	projectID, _ := tr.AddProject("Work")
	taskID, _ := tr.AddTask(projectID, "long haul")
	if err := tr.Start(taskID); err != nil {
		t.Fatalf("start: %v", err)
	}
	clk.Advance(65 * time.Second)
	if err := tr.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	// The process dies and comes back ten minutes later, same day.
	clk.Advance(10 * time.Minute)
	re := newTestTracker(t, clk, path)
	reDay := re.Day()
	task, _ := reDay.Task(taskID)
	if task == nil || !task.IsActive {
		t.Fatalf("expected task to resume active: %+v", task)
	}
	want := int64(65 + 600)
	if task.TimeSpent != want {
		t.Fatalf("expected %d seconds including downtime, got %d", want, task.TimeSpent)
	}
	if task.Status != model.StatusInProgress {
		t.Fatalf("expected in-progress after resume, got %q", task.Status)
	}
}

func TestDeleteCancelsTimer(t *testing.T) {
	clk := clock.NewFake(monday)
	tr := newTestTracker(t, clk, statePath(t))
	projectID, _ := tr.AddProject("Work")
	taskID, _ := tr.AddTask(projectID, "doomed")

	if err := tr.Start(taskID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := tr.DeleteTask(taskID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// A stale tick for the deleted id must be dropped.
	if tr.ApplyTick(timer.TickEvent{TaskID: taskID, Seconds: 999}) {
		t.Fatal("stale tick applied to deleted task")
	}
	d := tr.Day()
	if d.ActiveTask() != nil {
		t.Fatal("no task should remain active")
	}
}

func TestDeleteProjectStopsItsTimer(t *testing.T) {
	clk := clock.NewFake(monday)
	tr := newTestTracker(t, clk, statePath(t))
	projectID, _ := tr.AddProject("Work")
	taskID, _ := tr.AddTask(projectID, "running")
	if err := tr.Start(taskID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := tr.DeleteProject(projectID); err != nil {
		t.Fatalf("delete project: %v", err)
	}
	if tr.ApplyTick(timer.TickEvent{TaskID: taskID, Seconds: 999}) {
		t.Fatal("stale tick applied after project delete")
	}
}

func TestStatusTerminality(t *testing.T) {
	clk := clock.NewFake(monday)
	tr := newTestTracker(t, clk, statePath(t))
	projectID, _ := tr.AddProject("Work")
	done, _ := tr.AddTask(projectID, "done task")
	cancelled, _ := tr.AddTask(projectID, "cancelled task")

	if err := tr.MarkDone(done); err != nil {
		t.Fatalf("done: %v", err)
	}
	if err := tr.Cancel(cancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if err := tr.Start(done); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("start from done must be illegal, got %v", err)
	}
	if err := tr.Pause(done); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("pause from done must be illegal, got %v", err)
	}
	if err := tr.Start(cancelled); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("start from cancelled must be illegal, got %v", err)
	}
	if err := tr.Toggle(cancelled); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("toggle from cancelled must be illegal, got %v", err)
	}
	if err := tr.MarkDone(done); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("mark-done twice must be illegal, got %v", err)
	}

	// The one exit: toggle from done back to pending.
	if err := tr.Toggle(done); err != nil {
		t.Fatalf("toggle done: %v", err)
	}
	d := tr.Day()
	task, _ := d.Task(done)
	if task.Status != model.StatusPending {
		t.Fatalf("expected pending after toggle, got %q", task.Status)
	}
}

func TestToggleCompletesAndStopsTimer(t *testing.T) {
	clk := clock.NewFake(monday)
	tr := newTestTracker(t, clk, statePath(t))
	projectID, _ := tr.AddProject("Work")
	taskID, _ := tr.AddTask(projectID, "almost done")

	if err := tr.Start(taskID); err != nil {
		t.Fatalf("start: %v", err)
	}
	clk.Advance(10 * time.Second)
	if err := tr.Toggle(taskID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	d := tr.Day()
	task, _ := d.Task(taskID)
	if task.Status != model.StatusDone || task.IsActive {
		t.Fatalf("toggle must complete and stop: %+v", task)
	}
	if task.TimeSpent != 10 {
		t.Fatalf("expected 10 seconds finalized, got %d", task.TimeSpent)
	}
}

func TestOverdueTaskIsStartable(t *testing.T) {
	clk := clock.NewFake(monday)
	path := statePath(t)
	tr := newTestTracker(t, clk, path)
	projectID, _ := tr.AddProject("Work")
	if _, err := tr.AddTask(projectID, "slipped"); err != nil {
		t.Fatalf("add task: %v", err)
	}

	clk.Set(monday.Add(24 * time.Hour))
	tue := newTestTracker(t, clk, path)
	day := tue.Day()
	carried := day.Projects[0].Tasks[0]
	if carried.Status != model.StatusOverdue {
		t.Fatalf("expected overdue, got %q", carried.Status)
	}
	if err := tue.Start(carried.ID); err != nil {
		t.Fatalf("start overdue: %v", err)
	}
	day = tue.Day()
	task, _ := day.Task(carried.ID)
	if task.Status != model.StatusInProgress || !task.IsActive {
		t.Fatalf("overdue task must start normally: %+v", task)
	}
}

func TestDeleteAllResetsDay(t *testing.T) {
	clk := clock.NewFake(monday)
	tr := newTestTracker(t, clk, statePath(t))
	projectID, _ := tr.AddProject("Work")
	taskID, _ := tr.AddTask(projectID, "running")
	if err := tr.Start(taskID); err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := tr.DeleteAll(); err != nil {
		t.Fatalf("delete all: %v", err)
	}
	day := tr.Day()
	if len(day.Projects) != 0 {
		t.Fatalf("expected empty day, got %+v", day.Projects)
	}
	if tr.ApplyTick(timer.TickEvent{TaskID: taskID, Seconds: 1}) {
		t.Fatal("tick applied after delete-all")
	}
}

func TestApplyTickUpdatesWithoutPersisting(t *testing.T) {
	clk := clock.NewFake(monday)
	path := statePath(t)
	tr := newTestTracker(t, clk, path)
	projectID, _ := tr.AddProject("Work")
	taskID, _ := tr.AddTask(projectID, "ticking")
	if err := tr.Start(taskID); err != nil {
		t.Fatalf("start: %v", err)
	}

	if !tr.ApplyTick(timer.TickEvent{TaskID: taskID, Seconds: 7}) {
		t.Fatal("tick for the active task must apply")
	}
	d := tr.Day()
	task, _ := d.Task(taskID)
	if task.TimeSpent != 7 {
		t.Fatalf("expected in-memory 7, got %d", task.TimeSpent)
	}

	// The tick alone must not have been persisted: a reload sees the value
	// recomputed from the anchor, not the ticked one.
	clk.Advance(3 * time.Second)
	re := newTestTracker(t, clk, path)
	reDay := re.Day()
	persisted, _ := reDay.Task(taskID)
	if persisted.TimeSpent != 3 {
		t.Fatalf("expected anchor-derived 3 after reload, got %d", persisted.TimeSpent)
	}
}

func TestUnknownIDsReturnNotFound(t *testing.T) {
	clk := clock.NewFake(monday)
	tr := newTestTracker(t, clk, statePath(t))
	if _, err := tr.AddTask("ghost", "x"); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
	if err := tr.Start("ghost"); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if err := tr.DeleteProject("ghost"); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}
