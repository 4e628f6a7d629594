package model

import (
	"errors"
	"time"
)

// UntitledProjectTitle is the display fallback for projects whose title was
// left empty.
const UntitledProjectTitle = "Untitled Project"

type Project struct {
	ID    string
	Title string
	Tasks []Task
}

// Day is the root persisted container: one calendar day and everything tracked
// in it. Project order is insertion order and is meaningful for display and
// rollover.
type Day struct {
	Label    string
	Projects []Project
}

// DayLabel renders t at calendar-day granularity. Labels are compared by exact
// string equality to detect rollover.
func DayLabel(t time.Time) string {
	return t.Format("Mon Jan 2 2006")
}

func NewDay(label string) Day {
	return Day{Label: label, Projects: []Project{}}
}

// Project returns a pointer into the day's project slice, or nil.
func (d *Day) Project(id string) *Project {
	for i := range d.Projects {
		if d.Projects[i].ID == id {
			return &d.Projects[i]
		}
	}
	return nil
}

// Task returns pointers into the day for the task and its owning project, or
// nils when the id is unknown.
func (d *Day) Task(id string) (*Task, *Project) {
	for i := range d.Projects {
		for j := range d.Projects[i].Tasks {
			if d.Projects[i].Tasks[j].ID == id {
				return &d.Projects[i].Tasks[j], &d.Projects[i]
			}
		}
	}
	return nil, nil
}

// ActiveTask returns the single task currently running a timer, or nil.
func (d *Day) ActiveTask() *Task {
	for i := range d.Projects {
		for j := range d.Projects[i].Tasks {
			if d.Projects[i].Tasks[j].IsActive {
				return &d.Projects[i].Tasks[j]
			}
		}
	}
	return nil
}

// RemoveTask deletes the task from its project and returns the removed copy.
func (d *Day) RemoveTask(id string) (Task, bool) {
	for i := range d.Projects {
		tasks := d.Projects[i].Tasks
		for j := range tasks {
			if tasks[j].ID == id {
				removed := tasks[j]
				d.Projects[i].Tasks = append(tasks[:j], tasks[j+1:]...)
				return removed, true
			}
		}
	}
	return Task{}, false
}

// RemoveProject deletes the project and returns the removed copy.
func (d *Day) RemoveProject(id string) (Project, bool) {
	for i := range d.Projects {
		if d.Projects[i].ID == id {
			removed := d.Projects[i]
			d.Projects = append(d.Projects[:i], d.Projects[i+1:]...)
			return removed, true
		}
	}
	return Project{}, false
}

// Clone returns a deep copy of the day.
func (d Day) Clone() Day {
	out := Day{Label: d.Label, Projects: make([]Project, len(d.Projects))}
	for i, p := range d.Projects {
		cp := p
		cp.Tasks = make([]Task, len(p.Tasks))
		for j, t := range p.Tasks {
			ct := t
			if t.LastStartTime != nil {
				anchor := *t.LastStartTime
				ct.LastStartTime = &anchor
			}
			cp.Tasks[j] = ct
		}
		out.Projects[i] = cp
	}
	return out
}

// Validate checks the day's structural invariants, including single focus: at
// most one task across all projects may be active.
func (d Day) Validate() error {
	if d.Label == "" {
		return errors.New("model: day label is required")
	}
	active := 0
	for _, p := range d.Projects {
		if p.ID == "" {
			return errors.New("model: project id is required")
		}
		for _, t := range p.Tasks {
			if err := t.Validate(); err != nil {
				return err
			}
			if t.IsActive {
				active++
			}
		}
	}
	if active > 1 {
		return errors.New("model: more than one active task")
	}
	return nil
}
