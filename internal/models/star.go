package models

// Star is a bookmarked task.
type Star struct {
	ID     int64  `json:"id"`
	TaskID int64  `json:"taskId"`
	Title  string `json:"title"`
}
