package models

// Milestone groups tasks under a target date.
type Milestone struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CreatedAt   string   `json:"createdAt"`
	TasksID     []string `json:"tasksId"`
	StartAt     *string  `json:"startAt"`
	TargetAt    *string  `json:"targetAt"`
	Mark        string   `json:"mark"`
}

// MilestoneInput carries the fields of a create or partial update request.
type MilestoneInput struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	TasksID     *[]string `json:"tasksId"`
	StartAt     *string   `json:"startAt"`
	TargetAt    *string   `json:"targetAt"`
	Mark        *string   `json:"mark"`
}
