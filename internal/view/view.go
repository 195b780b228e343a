// Package view derives the displayed task list from the stored collection and
// the transient filter and sort selections.
package view

import (
	"fmt"
	"strings"

	"tasklist/internal/task"
)

type Filter string

const (
	FilterAll       Filter = "all"
	FilterCompleted Filter = "completed"
	FilterPending   Filter = "pending"
)

var filters = []Filter{FilterAll, FilterCompleted, FilterPending}

func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range filters {
		if f == known {
			return f, nil
		}
	}
	return FilterAll, fmt.Errorf("unknown filter %q (want all, completed or pending)", s)
}

// Next cycles all -> completed -> pending -> all.
func (f Filter) Next() Filter {
	for i, known := range filters {
		if f == known {
			return filters[(i+1)%len(filters)]
		}
	}
	return FilterAll
}

func (f Filter) keep(t task.Task) bool {
	switch f {
	case FilterCompleted:
		return t.Completed
	case FilterPending:
		return !t.Completed
	default:
		return true
	}
}

type Sort string

const (
	SortNewest Sort = "newest"
	SortOldest Sort = "oldest"
)

func ParseSort(s string) (Sort, error) {
	switch Sort(strings.ToLower(strings.TrimSpace(s))) {
	case SortNewest:
		return SortNewest, nil
	case SortOldest:
		return SortOldest, nil
	}
	return SortNewest, fmt.Errorf("unknown sort %q (want newest or oldest)", s)
}

func (s Sort) Next() Sort {
	if s == SortOldest {
		return SortNewest
	}
	return SortOldest
}

// Project filters c and, for SortOldest, reverses it. The collection is
// already newest first, so no comparison sort is involved.
func Project(c task.Collection, f Filter, s Sort) []task.Task {
	out := make([]task.Task, 0, len(c))
	for _, t := range c {
		if f.keep(t) {
			out = append(out, t)
		}
	}
	if s == SortOldest {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// Session is the per-run selection state. None of it is persisted.
type Session struct {
	Filter Filter
	Sort   Sort
	Edit   *task.EditState
}

func NewSession(f Filter, s Sort) Session {
	return Session{Filter: f, Sort: s}
}

func (s *Session) BeginEdit(id int64, currentText string) {
	st := task.BeginEdit(id, currentText)
	s.Edit = &st
}

func (s *Session) ClearEdit() {
	s.Edit = nil
}

// Editing reports whether id is the task being edited.
func (s Session) Editing(id int64) bool {
	return s.Edit != nil && s.Edit.ID == id
}

func (s Session) Visible(c task.Collection) []task.Task {
	return Project(c, s.Filter, s.Sort)
}
