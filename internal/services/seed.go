package services

import "github.com/isdelr/taskboard-be/internal/models"

func strPtr(s string) *string { return &s }

// SeedTasks is the initial task board.
func SeedTasks() []models.Task {
	return []models.Task{
		{ID: 5, Title: "Prepare sprint review", Type: "#E3F2FD", Status: models.TaskUnfinished, CreateTime: "2021-01-05 09:30:00", Content: []string{"collect demos", "book room"}, Chips: []string{"work"}},
		{ID: 4, Title: "Weekly groceries", Type: "#E0F2F1", Status: models.TaskUnfinished, CreateTime: "2021-01-04 18:00:00", Content: []string{"vegetables", "rice"}, Chips: []string{"life"}},
		{ID: 3, Title: "Read chapter 4", Type: "#EDE7F6", Status: models.TaskFinished, CreateTime: "2021-01-03 20:15:00", Content: []string{"take notes"}, Chips: []string{"study"}},
		{ID: 2, Title: "Morning run", Type: "#FFCDD2", Status: models.TaskUnfinished, CreateTime: "2021-01-02 07:00:00", Content: []string{"5km"}, Chips: []string{"health"}},
		{ID: 1, Title: "Set up task board", Type: "#FFFFFF", Status: models.TaskFinished, CreateTime: "2021-01-01 10:00:00", Content: []string{}, Chips: []string{}},
	}
}

// SeedMilestones is the initial milestone list.
func SeedMilestones() []models.Milestone {
	return []models.Milestone{
		{ID: 1, Title: "Study milestone", Description: "Finish the study tasks before the deadline", CreatedAt: "2021-01-01", TasksID: []string{"3"}, StartAt: strPtr("2021-01-01"), TargetAt: strPtr("2022-03-21"), Mark: "look up references"},
		{ID: 2, Title: "Health milestone", Description: "Finish the workout plan before the deadline", CreatedAt: "2021-01-01", TasksID: []string{"2"}, StartAt: strPtr("2021-01-01"), TargetAt: strPtr("2022-03-21"), Mark: "look up references"},
		{ID: 3, Title: "Work milestone", Description: "Finish the work tasks before the deadline", CreatedAt: "2021-01-01", TasksID: []string{"5", "20"}, StartAt: strPtr("2021-01-01"), TargetAt: strPtr("2022-03-21"), Mark: "look up references"},
		{ID: 4, Title: "Life milestone", Description: "Finish the life tasks before the deadline", CreatedAt: "2021-01-01", TasksID: []string{"4", "23"}, StartAt: strPtr("2021-01-01"), TargetAt: strPtr("2022-03-21"), Mark: "look up references"},
	}
}

// SeedStars is the initial bookmark list.
func SeedStars() []models.Star {
	return []models.Star{
		{ID: 1, TaskID: 5, Title: "Prepare sprint review"},
		{ID: 2, TaskID: 3, Title: "Read chapter 4"},
	}
}
