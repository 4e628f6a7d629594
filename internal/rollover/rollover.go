// Package rollover migrates unfinished work into a fresh day when the
// persisted day's label no longer matches the current calendar day.
package rollover

import (
	"github.com/sandeepkv93/daytrack/internal/model"
)

// Process carries every task that is neither done nor cancelled into a new day
// labeled todayLabel. Carried tasks are forced overdue with their timer fields
// reset; a task never resumes running across a day boundary. Each contributing
// project is wrapped in a freshly-identified project with the old title (or
// the untitled fallback); projects with nothing to carry are dropped.
//
// The second return value reports whether a migration happened: false means
// the old day is still current and is returned untouched.
func Process(old model.Day, todayLabel string, newID func() string) (model.Day, bool) {
	if old.Label == todayLabel {
		return old, false
	}

	day := model.NewDay(todayLabel)
	for _, p := range old.Projects {
		carried := make([]model.Task, 0, len(p.Tasks))
		for _, t := range p.Tasks {
			if t.Status.Terminal() {
				continue
			}
			t.Status = model.StatusOverdue
			t.Deactivate()
			t.LastTimeSpent = t.TimeSpent
			carried = append(carried, t)
		}
		if len(carried) == 0 {
			continue
		}
		title := p.Title
		if title == "" {
			title = model.UntitledProjectTitle
		}
		day.Projects = append(day.Projects, model.Project{
			ID:    newID(),
			Title: title,
			Tasks: carried,
		})
	}
	return day, true
}
