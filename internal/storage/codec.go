package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sandeepkv93/daytrack/internal/model"
)

// Wire records are kept separate from the domain types: the persisted layout
// is an external format that must round-trip exactly, including blobs written
// by the earlier schema that lacked the timer-anchoring fields.
type dayRecord struct {
	Date     string          `json:"date"`
	Projects []projectRecord `json:"projects"`
}

type projectRecord struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	Tasks []taskRecord `json:"tasks"`
}

type taskRecord struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Status        string `json:"status"`
	TimeSpent     int64  `json:"timeSpent"`
	IsActive      bool   `json:"isActive,omitempty"`
	LastStartTime *int64 `json:"lastStartTime,omitempty"`
	LastTimeSpent *int64 `json:"lastTimeSpent,omitempty"`
}

// EncodeDay serializes the whole day; the full blob is the unit of persistence.
func EncodeDay(day model.Day) ([]byte, error) {
	rec := dayRecord{
		Date:     day.Label,
		Projects: make([]projectRecord, 0, len(day.Projects)),
	}
	for _, p := range day.Projects {
		pr := projectRecord{
			ID:    p.ID,
			Title: p.Title,
			Tasks: make([]taskRecord, 0, len(p.Tasks)),
		}
		for _, t := range p.Tasks {
			tr := taskRecord{
				ID:            t.ID,
				Title:         t.Title,
				Status:        string(t.Status),
				TimeSpent:     t.TimeSpent,
				IsActive:      t.IsActive,
				LastTimeSpent: int64Ptr(t.LastTimeSpent),
			}
			if t.LastStartTime != nil {
				ms := t.LastStartTime.UnixMilli()
				tr.LastStartTime = &ms
			}
			pr.Tasks = append(pr.Tasks, tr)
		}
		rec.Projects = append(rec.Projects, pr)
	}
	return json.MarshalIndent(rec, "", "  ")
}

// DecodeDay deserializes a persisted blob. Records from the earlier schema
// version load with lastTimeSpent defaulted from timeSpent and the task
// treated as inactive.
func DecodeDay(data []byte) (model.Day, error) {
	var rec dayRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.Day{}, fmt.Errorf("storage: decode state: %w", err)
	}
	if rec.Date == "" {
		return model.Day{}, fmt.Errorf("storage: decode state: missing date")
	}

	day := model.Day{
		Label:    rec.Date,
		Projects: make([]model.Project, 0, len(rec.Projects)),
	}
	for _, pr := range rec.Projects {
		p := model.Project{
			ID:    pr.ID,
			Title: pr.Title,
			Tasks: make([]model.Task, 0, len(pr.Tasks)),
		}
		for _, tr := range pr.Tasks {
			status := model.Status(tr.Status)
			if !status.IsValid() {
				return model.Day{}, fmt.Errorf("storage: decode state: %w: %q", model.ErrInvalidStatus, tr.Status)
			}
			t := model.Task{
				ID:        tr.ID,
				Title:     tr.Title,
				Status:    status,
				TimeSpent: tr.TimeSpent,
			}
			if tr.LastTimeSpent != nil {
				t.LastTimeSpent = *tr.LastTimeSpent
			} else {
				t.LastTimeSpent = tr.TimeSpent
			}
			if tr.IsActive && tr.LastStartTime != nil {
				anchor := time.UnixMilli(*tr.LastStartTime)
				t.IsActive = true
				t.LastStartTime = &anchor
			}
			p.Tasks = append(p.Tasks, t)
		}
		day.Projects = append(day.Projects, p)
	}
	return day, nil
}

func int64Ptr(v int64) *int64 {
	return &v
}
