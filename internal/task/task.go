// Package task holds the task collection and the operations that change it.
package task

import (
	"errors"
	"strings"
)

// Task is a single to-do entry.
type Task struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Collection is ordered newest first. Operations never write to the slice
// they are given; they return a fresh one.
type Collection []Task

type ValidationKind int

const (
	EmptyInput ValidationKind = iota + 1
)

// ValidationError reports user input that was rejected before a task was built.
type ValidationError struct {
	Kind ValidationKind
	Msg  string
}

func (e *ValidationError) Error() string { return e.Msg }

// Is matches any ValidationError of the same kind.
func (e *ValidationError) Is(target error) bool {
	var v *ValidationError
	if !errors.As(target, &v) {
		return false
	}
	return v.Kind == e.Kind
}

var ErrEmptyInput = &ValidationError{Kind: EmptyInput, Msg: "Task cannot be empty"}

// EditState tracks the task being edited and its draft text.
type EditState struct {
	ID    int64
	Draft string
}

// Add trims rawText and prepends a new pending task with the given id.
func Add(c Collection, rawText string, id int64) (Collection, error) {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return c, ErrEmptyInput
	}
	out := make(Collection, 0, len(c)+1)
	out = append(out, Task{ID: id, Text: text})
	return append(out, c...), nil
}

func Delete(c Collection, id int64) Collection {
	out := make(Collection, 0, len(c))
	for _, t := range c {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

func Toggle(c Collection, id int64) Collection {
	return update(c, id, func(t *Task) { t.Completed = !t.Completed })
}

func BeginEdit(id int64, currentText string) EditState {
	return EditState{ID: id, Draft: currentText}
}

// CommitEdit stores draft as the task text exactly as given. Unlike Add it
// accepts empty or whitespace-only text.
func CommitEdit(c Collection, id int64, draft string) Collection {
	return update(c, id, func(t *Task) { t.Text = draft })
}

// Find returns the task with id, if present.
func (c Collection) Find(id int64) (Task, bool) {
	for _, t := range c {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// MaxID returns the largest id in c, or 0 when c is empty.
func (c Collection) MaxID() int64 {
	var top int64
	for _, t := range c {
		if t.ID > top {
			top = t.ID
		}
	}
	return top
}

// Clone returns a copy that shares no backing array with c.
func (c Collection) Clone() Collection {
	if c == nil {
		return Collection{}
	}
	out := make(Collection, len(c))
	copy(out, c)
	return out
}

func update(c Collection, id int64, fn func(*Task)) Collection {
	out := c.Clone()
	for i := range out {
		if out[i].ID == id {
			fn(&out[i])
			break
		}
	}
	return out
}
