// Package report builds the end-of-day summary: per-project task lines with a
// status glyph and tracked time, plus day totals.
package report

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/daytrack/internal/model"
)

type TaskLine struct {
	Glyph   string
	Title   string
	Status  model.Status
	Seconds int64
}

type ProjectSection struct {
	Title string
	Lines []TaskLine
}

type Summary struct {
	Date           string
	TotalTasks     int
	CompletedTasks int
	TotalSeconds   int64
	Sections       []ProjectSection
}

// Build summarizes the day. Projects without tasks are skipped.
func Build(day model.Day) Summary {
	out := Summary{Date: day.Label}
	for _, p := range day.Projects {
		if len(p.Tasks) == 0 {
			continue
		}
		title := p.Title
		if title == "" {
			title = model.UntitledProjectTitle
		}
		section := ProjectSection{Title: title}
		for _, t := range p.Tasks {
			out.TotalTasks++
			if t.Status == model.StatusDone {
				out.CompletedTasks++
			}
			out.TotalSeconds += t.TimeSpent
			section.Lines = append(section.Lines, TaskLine{
				Glyph:   glyph(t.Status),
				Title:   t.Title,
				Status:  t.Status,
				Seconds: t.TimeSpent,
			})
		}
		out.Sections = append(out.Sections, section)
	}
	return out
}

// Text renders the summary as plain text for the report subcommand.
func (s Summary) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Daily Report: %s\n", s.Date)
	fmt.Fprintf(&b, "Tasks: %d  Completed: %d  Time: %s\n", s.TotalTasks, s.CompletedTasks, FormatSeconds(s.TotalSeconds))
	for _, section := range s.Sections {
		fmt.Fprintf(&b, "\n%s\n", section.Title)
		for _, line := range section.Lines {
			fmt.Fprintf(&b, "  %s %-40s %s\n", line.Glyph, line.Title, FormatSeconds(line.Seconds))
		}
	}
	return b.String()
}

// Markdown renders the summary for the TUI report pane.
func (s Summary) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Daily Report: %s\n\n", s.Date)
	fmt.Fprintf(&b, "**Tasks:** %d | **Completed:** %d | **Time:** %s\n", s.TotalTasks, s.CompletedTasks, FormatSeconds(s.TotalSeconds))
	for _, section := range s.Sections {
		fmt.Fprintf(&b, "\n## %s\n\n", section.Title)
		for _, line := range section.Lines {
			fmt.Fprintf(&b, "- %s %s (%s)\n", line.Glyph, line.Title, FormatSeconds(line.Seconds))
		}
	}
	return b.String()
}

// FormatSeconds renders elapsed seconds the way the timer badge does:
// "1h 4m" once hours are involved, otherwise "4m 5s".
func FormatSeconds(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm %ds", m, s)
}

func glyph(status model.Status) string {
	switch status {
	case model.StatusDone:
		return "✓"
	case model.StatusOverdue:
		return "!"
	default:
		return "•"
	}
}
