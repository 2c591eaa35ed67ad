package models

// Task colors accepted by the task board.
var TaskTypes = []string{"#FFFFFF", "#E0F2F1", "#FFCDD2", "#E3F2FD", "#EDE7F6"}

// Task statuses.
const (
	TaskUnfinished = "unfinished"
	TaskFinished   = "finished"
)

// Task is a card on the task board.
type Task struct {
	ID         int64    `json:"id"`
	Title      string   `json:"title"`
	Type       string   `json:"type"`
	Status     string   `json:"status"`
	CreateTime string   `json:"createTime"`
	Content    []string `json:"content"`
	Chips      []string `json:"chips"`
}

// TaskInput carries the fields of a create or partial update request.
// Nil fields are left untouched on update.
type TaskInput struct {
	Title   *string   `json:"title"`
	Type    *string   `json:"type"`
	Status  *string   `json:"status"`
	Content *[]string `json:"content"`
	Chips   *[]string `json:"chips"`
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	Total       int `json:"total"`
	Data        []T `json:"data"`
}
