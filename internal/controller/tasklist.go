// Package controller holds the client-side view model of a task list.
package controller

import (
	"context"
	"errors"

	"github.com/dtroode/taskmanager/internal/model"
	"github.com/dtroode/taskmanager/internal/tasklist"
)

// User-facing error messages.
const (
	MsgNoUserData   = "No user data found"
	MsgFetchFailed  = "Error fetching user data"
	MsgAddFailed    = "Error adding task"
	MsgDeleteFailed = "Error deleting task"
	MsgToggleFailed = "Error updating task status"
	MsgUpdateFailed = "Error updating task"
)

// Backend is the remote side of the task list.
type Backend interface {
	Authenticated() bool
	GetRecord(ctx context.Context) (model.UserRecord, error)
	AddTask(ctx context.Context, text string) (model.UserRecord, error)
	DeleteTask(ctx context.Context, id string) (model.UserRecord, error)
	ToggleTask(ctx context.Context, id string) (model.UserRecord, error)
	UpdateTask(ctx context.Context, id, text string) (model.UserRecord, error)
}

// TaskList applies edits optimistically and reconciles with the backend,
// which always has the final word. It is not safe for concurrent use.
type TaskList struct {
	backend     Backend
	tasks       []model.Task
	filter      model.TaskFilter
	editing     string
	editBuffer  string
	displayName string
	err         string
}

func NewTaskList(backend Backend) *TaskList {
	return &TaskList{
		backend: backend,
		tasks:   []model.Task{},
		filter:  model.TaskFilterAll,
	}
}

// Load fetches the record. Without a session it does nothing.
func (c *TaskList) Load(ctx context.Context) {
	if !c.backend.Authenticated() {
		return
	}

	record, err := c.backend.GetRecord(ctx)
	switch {
	case errors.Is(err, model.ErrNotFound):
		c.err = MsgNoUserData
	case err != nil:
		c.tasks = []model.Task{}
		c.err = MsgFetchFailed
	default:
		c.adopt(record)
		c.displayName = record.FirstName
	}
}

// Add appends text as given. Empty input is ignored.
func (c *TaskList) Add(ctx context.Context, text string) {
	if text == "" {
		return
	}

	c.apply(ctx, tasklist.Append(c.tasks, tasklist.New(text)), MsgAddFailed, func(ctx context.Context) (model.UserRecord, error) {
		return c.backend.AddTask(ctx, text)
	})
}

func (c *TaskList) Delete(ctx context.Context, id string) {
	next, _ := tasklist.Remove(c.tasks, id)
	c.apply(ctx, next, MsgDeleteFailed, func(ctx context.Context) (model.UserRecord, error) {
		return c.backend.DeleteTask(ctx, id)
	})
}

func (c *TaskList) ToggleComplete(ctx context.Context, id string) {
	next, _ := tasklist.Toggle(c.tasks, id)
	c.apply(ctx, next, MsgToggleFailed, func(ctx context.Context) (model.UserRecord, error) {
		return c.backend.ToggleTask(ctx, id)
	})
}

// BeginEdit enters edit mode for id with the current text in the buffer.
func (c *TaskList) BeginEdit(id string) {
	if t, ok := tasklist.Find(c.tasks, id); ok {
		c.editing = id
		c.editBuffer = t.Text
	}
}

func (c *TaskList) SetEditBuffer(text string) {
	c.editBuffer = text
}

func (c *TaskList) CancelEdit() {
	c.editing = ""
	c.editBuffer = ""
}

// CommitEdit sends the buffer. Edit mode is left only on success so the
// user can retry.
func (c *TaskList) CommitEdit(ctx context.Context) {
	if c.editing == "" {
		return
	}
	id, text := c.editing, c.editBuffer

	next, _ := tasklist.Rename(c.tasks, id, text)
	if c.apply(ctx, next, MsgUpdateFailed, func(ctx context.Context) (model.UserRecord, error) {
		return c.backend.UpdateTask(ctx, id, text)
	}) {
		c.CancelEdit()
	}
}

func (c *TaskList) SetFilter(f model.TaskFilter) {
	c.filter = f
}

// Visible returns the tasks passing the current filter.
func (c *TaskList) Visible() []model.Task {
	return tasklist.Filter(c.tasks, c.filter)
}

func (c *TaskList) Tasks() []model.Task {
	return tasklist.Clone(c.tasks)
}

func (c *TaskList) Filter() model.TaskFilter {
	return c.filter
}

// Editing returns the task being edited, if any.
func (c *TaskList) Editing() (string, bool) {
	return c.editing, c.editing != ""
}

func (c *TaskList) EditBuffer() string {
	return c.editBuffer
}

func (c *TaskList) DisplayName() string {
	return c.displayName
}

// Err returns the message of the last failed operation, or "".
func (c *TaskList) Err() string {
	return c.err
}

// apply shows next right away, then replaces it with the backend's list,
// or restores the previous list when the call fails.
func (c *TaskList) apply(
	ctx context.Context,
	next []model.Task,
	failure string,
	call func(context.Context) (model.UserRecord, error),
) bool {
	prev := c.tasks
	c.tasks = next

	record, err := call(ctx)
	if err != nil {
		c.tasks = prev
		c.err = failure
		return false
	}

	c.adopt(record)
	return true
}

func (c *TaskList) adopt(record model.UserRecord) {
	c.tasks = tasklist.Clone(record.Tasks)
	c.err = ""
}
