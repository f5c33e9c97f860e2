package model

// Task is a single entry of a user's task list.
// It is embedded in UserRecord and has no lifecycle of its own.
type Task struct {
	ID        string `json:"id" bson:"id"`
	Text      string `json:"task" bson:"task"`
	Completed bool   `json:"completed" bson:"completed"`
}

// TaskFilter selects which tasks are shown.
type TaskFilter string

const (
	// TaskFilterAll passes every task.
	TaskFilterAll TaskFilter = "all"
	// TaskFilterCompleted passes tasks with Completed set.
	TaskFilterCompleted TaskFilter = "completed"
	// TaskFilterIncomplete passes tasks with Completed unset.
	TaskFilterIncomplete TaskFilter = "incomplete"
)
