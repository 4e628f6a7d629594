package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidStatus = errors.New("model: invalid task status")

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
	StatusCancelled  Status = "cancelled"
	StatusOverdue    Status = "overdue"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone, StatusCancelled, StatusOverdue:
		return true
	default:
		return false
	}
}

// CanStart reports whether a start command is legal from s. A paused task keeps
// status in-progress, so in-progress stays startable.
func (s Status) CanStart() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusOverdue:
		return true
	default:
		return false
	}
}

func (s Status) CanPause() bool {
	return s == StatusInProgress
}

// Terminal reports whether time tracking is finished for s. The only exit from
// done is Toggle back to pending; cancelled has no exit at all.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// Toggle implements the status indicator action: done flips back to pending,
// anything else completes the task.
func (s Status) Toggle() Status {
	if s == StatusDone {
		return StatusPending
	}
	return StatusDone
}

type Task struct {
	ID            string
	Title         string
	Status        Status
	TimeSpent     int64
	IsActive      bool
	LastStartTime *time.Time
	LastTimeSpent int64
}

func NewTask(id, title string) Task {
	return Task{
		ID:     id,
		Title:  title,
		Status: StatusPending,
	}
}

// Elapsed returns the task's current elapsed seconds. While active the value is
// recomputed from the anchor, so missed ticks or a process restart cannot lose
// or double-count time.
func (t Task) Elapsed(now time.Time) int64 {
	if !t.IsActive || t.LastStartTime == nil {
		return t.TimeSpent
	}
	delta := int64(now.Sub(*t.LastStartTime) / time.Second)
	if delta < 0 {
		delta = 0
	}
	return t.LastTimeSpent + delta
}

// Anchor marks the task active starting at the given instant and captures the
// current TimeSpent as the running baseline.
func (t *Task) Anchor(start time.Time) {
	anchored := start
	t.Status = StatusInProgress
	t.IsActive = true
	t.LastStartTime = &anchored
	t.LastTimeSpent = t.TimeSpent
}

// Deactivate clears the running-timer fields. Status is left untouched.
func (t *Task) Deactivate() {
	t.IsActive = false
	t.LastStartTime = nil
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if t.TimeSpent < 0 {
		return errors.New("model: time spent must be non-negative")
	}
	if t.IsActive {
		if t.LastStartTime == nil {
			return errors.New("model: active task requires a start time")
		}
		if t.Status != StatusInProgress {
			return fmt.Errorf("model: active task must be in-progress, got %q", t.Status)
		}
	} else if t.LastStartTime != nil {
		return errors.New("model: inactive task must not carry a start time")
	}
	return nil
}
