package model

import (
	"errors"
	"testing"
	"time"
)

func TestStatusTransitions(t *testing.T) {
	if !StatusPending.CanStart() || !StatusOverdue.CanStart() || !StatusInProgress.CanStart() {
		t.Fatal("pending, overdue and in-progress must be startable")
	}
	if StatusDone.CanStart() || StatusCancelled.CanStart() {
		t.Fatal("done and cancelled must not be startable")
	}
	if !StatusInProgress.CanPause() {
		t.Fatal("in-progress must be pausable")
	}
	if StatusPending.CanPause() {
		t.Fatal("pending must not be pausable")
	}
	if !StatusDone.Terminal() || !StatusCancelled.Terminal() {
		t.Fatal("done and cancelled are terminal")
	}
	if StatusOverdue.Terminal() {
		t.Fatal("overdue is not terminal")
	}
}

func TestStatusToggle(t *testing.T) {
	if got := StatusDone.Toggle(); got != StatusPending {
		t.Fatalf("done toggles to pending, got %q", got)
	}
	for _, s := range []Status{StatusPending, StatusInProgress, StatusOverdue} {
		if got := s.Toggle(); got != StatusDone {
			t.Fatalf("%q toggles to done, got %q", s, got)
		}
	}
}

func TestTaskElapsedAnchoring(t *testing.T) {
	start := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	task := NewTask("task-1", "Write spec")
	task.TimeSpent = 40
	task.Anchor(start)

	if task.Status != StatusInProgress || !task.IsActive {
		t.Fatalf("anchor must activate the task, got status=%q active=%v", task.Status, task.IsActive)
	}
	if task.LastTimeSpent != 40 {
		t.Fatalf("anchor must capture the baseline, got %d", task.LastTimeSpent)
	}

	if got := task.Elapsed(start.Add(65 * time.Second)); got != 105 {
		t.Fatalf("expected 105 elapsed seconds, got %d", got)
	}
	// Sub-second remainders are floored.
	if got := task.Elapsed(start.Add(65*time.Second + 900*time.Millisecond)); got != 105 {
		t.Fatalf("expected floor to 105, got %d", got)
	}
	// A clock read before the anchor never goes negative.
	if got := task.Elapsed(start.Add(-time.Second)); got != 40 {
		t.Fatalf("expected baseline 40 for pre-anchor read, got %d", got)
	}
}

func TestTaskElapsedMonotoneWhileActive(t *testing.T) {
	start := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	task := NewTask("task-1", "Write spec")
	task.Anchor(start)

	prev := int64(-1)
	for i := 0; i < 10; i++ {
		got := task.Elapsed(start.Add(time.Duration(i) * 700 * time.Millisecond))
		if got < prev {
			t.Fatalf("elapsed decreased: %d -> %d", prev, got)
		}
		prev = got
	}
}

func TestTaskElapsedInactiveIsStored(t *testing.T) {
	task := NewTask("task-1", "Write spec")
	task.TimeSpent = 65
	if got := task.Elapsed(time.Now()); got != 65 {
		t.Fatalf("inactive task returns stored value, got %d", got)
	}
}

func TestTaskDeactivateClearsAnchor(t *testing.T) {
	task := NewTask("task-1", "Write spec")
	task.Anchor(time.Now())
	task.Deactivate()
	if task.IsActive || task.LastStartTime != nil {
		t.Fatal("deactivate must clear active flag and anchor")
	}
	if task.Status != StatusInProgress {
		t.Fatalf("deactivate must not change status, got %q", task.Status)
	}
}

func TestTaskValidate(t *testing.T) {
	task := NewTask("task-1", "")
	if err := task.Validate(); err != nil {
		t.Fatalf("empty title is valid, got %v", err)
	}

	task.Status = Status("unknown")
	if err := task.Validate(); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	task = NewTask("task-1", "x")
	task.IsActive = true
	if err := task.Validate(); err == nil {
		t.Fatal("active task without anchor must be invalid")
	}

	now := time.Now()
	task = NewTask("task-1", "x")
	task.LastStartTime = &now
	if err := task.Validate(); err == nil {
		t.Fatal("inactive task with anchor must be invalid")
	}
}
