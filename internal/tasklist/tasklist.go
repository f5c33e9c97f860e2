// Package tasklist implements the pure operations applied to a user's task list.
//
// Every function returns a new slice and leaves its input untouched, so callers
// can keep the previous list around to revert to.
package tasklist

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/taskmanager/internal/model"
)

// New returns an incomplete task with a fresh ID.
func New(text string) model.Task {
	return model.Task{ID: uuid.NewString(), Text: text}
}

// Append returns tasks with t added at the end.
func Append(tasks []model.Task, t model.Task) []model.Task {
	out := make([]model.Task, 0, len(tasks)+1)
	out = append(out, tasks...)
	return append(out, t)
}

// AssignIDs gives a fresh ID to every task stored without one. The second
// result reports whether any task changed.
func AssignIDs(tasks []model.Task) ([]model.Task, bool) {
	out := make([]model.Task, len(tasks))
	changed := false
	for i, t := range tasks {
		if t.ID == "" {
			t.ID = uuid.NewString()
			changed = true
		}
		out[i] = t
	}
	return out, changed
}

// Find returns the task with the given ID.
func Find(tasks []model.Task, id string) (model.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// Remove drops the task with the given ID. The second result reports
// whether such a task existed.
func Remove(tasks []model.Task, id string) ([]model.Task, bool) {
	out := make([]model.Task, 0, len(tasks))
	found := false
	for _, t := range tasks {
		if t.ID == id {
			found = true
			continue
		}
		out = append(out, t)
	}
	return out, found
}

// Toggle flips Completed of the task with the given ID.
func Toggle(tasks []model.Task, id string) ([]model.Task, bool) {
	return update(tasks, func(t model.Task) bool { return t.ID == id }, func(t *model.Task) {
		t.Completed = !t.Completed
	})
}

// Rename replaces the text of the task with the given ID.
func Rename(tasks []model.Task, id, text string) ([]model.Task, bool) {
	return update(tasks, func(t model.Task) bool { return t.ID == id }, func(t *model.Task) {
		t.Text = text
	})
}

// RemoveValue drops every entry structurally equal to v.
// Two tasks sharing ID, text and state are indistinguishable here,
// so all of them are removed.
func RemoveValue(tasks []model.Task, v model.Task) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t == v {
			continue
		}
		out = append(out, t)
	}
	return out
}

// ContainsValue reports whether an entry structurally equal to v exists.
func ContainsValue(tasks []model.Task, v model.Task) bool {
	for _, t := range tasks {
		if t == v {
			return true
		}
	}
	return false
}

// ToggleText flips Completed of every task whose text equals text.
func ToggleText(tasks []model.Task, text string) []model.Task {
	out, _ := update(tasks, func(t model.Task) bool { return t.Text == text }, func(t *model.Task) {
		t.Completed = !t.Completed
	})
	return out
}

// RenameText replaces the text of every task whose text equals text.
func RenameText(tasks []model.Task, text, newText string) []model.Task {
	out, _ := update(tasks, func(t model.Task) bool { return t.Text == text }, func(t *model.Task) {
		t.Text = newText
	})
	return out
}

// Filter returns the tasks passing f, preserving order.
// Unknown filters behave like TaskFilterAll.
func Filter(tasks []model.Task, f model.TaskFilter) []model.Task {
	if f != model.TaskFilterCompleted && f != model.TaskFilterIncomplete {
		return Clone(tasks)
	}

	want := f == model.TaskFilterCompleted
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed == want {
			out = append(out, t)
		}
	}
	return out
}

// ParseFilter converts user input into a TaskFilter. Empty input means all.
func ParseFilter(s string) (model.TaskFilter, error) {
	switch f := model.TaskFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return model.TaskFilterAll, nil
	case model.TaskFilterAll, model.TaskFilterCompleted, model.TaskFilterIncomplete:
		return f, nil
	default:
		return "", fmt.Errorf("unknown filter %q: want one of all, completed, incomplete", s)
	}
}

// Clone returns a copy of tasks. A nil input yields an empty, non-nil slice.
func Clone(tasks []model.Task) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)
	return out
}

func update(tasks []model.Task, match func(model.Task) bool, apply func(*model.Task)) ([]model.Task, bool) {
	out := Clone(tasks)
	found := false
	for i := range out {
		if match(out[i]) {
			apply(&out[i])
			found = true
		}
	}
	return out, found
}
