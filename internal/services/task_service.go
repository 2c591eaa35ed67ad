package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/isdelr/taskboard-be/internal/models"
)

const taskTimeLayout = "2006-01-02 15:04:05"

// TaskServiceProvider defines the interface for task services.
type TaskServiceProvider interface {
	ListTasks(page, limit int) (models.Page[models.Task], error)
	GetTask(id int64) (models.Task, error)
	CreateTask(input models.TaskInput) (models.Task, error)
	UpdateTask(id int64, input models.TaskInput) (models.Task, error)
	DeleteTask(id int64) error
}

// TaskService keeps tasks in memory, newest first.
type TaskService struct {
	mu    sync.RWMutex
	tasks []models.Task
	now   func() time.Time
}

// NewTaskService creates a TaskService holding the given tasks.
func NewTaskService(seed []models.Task) *TaskService {
	tasks := make([]models.Task, len(seed))
	copy(tasks, seed)
	return &TaskService{tasks: tasks, now: time.Now}
}

// ListTasks returns one page of tasks. Page numbers start at 1; a page past
// the end is ErrPageNotFound.
func (s *TaskService) ListTasks(page, limit int) (models.Page[models.Task], error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.tasks)
	totalPages := (total + limit - 1) / limit
	if page > totalPages && !(page == 1 && total == 0) {
		return models.Page[models.Task]{}, fmt.Errorf("page %d: %w", page, ErrPageNotFound)
	}

	start := (page - 1) * limit
	end := min(start+limit, total)
	data := make([]models.Task, 0, end-start)
	for _, t := range s.tasks[start:end] {
		data = append(data, cloneTask(t))
	}

	return models.Page[models.Task]{
		CurrentPage: page,
		TotalPages:  totalPages,
		Total:       total,
		Data:        data,
	}, nil
}

// GetTask retrieves a single task by its ID.
func (s *TaskService) GetTask(id int64) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return cloneTask(s.tasks[i]), nil
	}
	return models.Task{}, fmt.Errorf("task %d: %w", id, ErrTaskNotFound)
}

// CreateTask stores a new task at the front of the board.
func (s *TaskService) CreateTask(input models.TaskInput) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := models.Task{
		ID:         s.maxID() + 1,
		Type:       models.TaskTypes[0],
		Status:     models.TaskUnfinished,
		CreateTime: s.now().Format(taskTimeLayout),
		Content:    []string{},
		Chips:      []string{},
	}
	applyTaskInput(&task, input)

	s.tasks = append([]models.Task{task}, s.tasks...)
	return cloneTask(task), nil
}

// UpdateTask merges the non-nil input fields into an existing task. The id
// and creation time never change.
func (s *TaskService) UpdateTask(id int64, input models.TaskInput) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, fmt.Errorf("task %d: %w", id, ErrTaskNotFound)
	}
	applyTaskInput(&s.tasks[i], input)
	return cloneTask(s.tasks[i]), nil
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("task %d: %w", id, ErrTaskNotFound)
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return nil
}

func (s *TaskService) indexOf(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *TaskService) maxID() int64 {
	var highest int64
	for _, t := range s.tasks {
		highest = max(highest, t.ID)
	}
	return highest
}

func applyTaskInput(t *models.Task, in models.TaskInput) {
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Type != nil {
		t.Type = *in.Type
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.Content != nil {
		t.Content = append([]string{}, (*in.Content)...)
	}
	if in.Chips != nil {
		t.Chips = append([]string{}, (*in.Chips)...)
	}
}

func cloneTask(t models.Task) models.Task {
	t.Content = append([]string{}, t.Content...)
	t.Chips = append([]string{}, t.Chips...)
	return t
}
