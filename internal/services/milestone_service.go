package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/isdelr/taskboard-be/internal/models"
)

// MilestoneServiceProvider defines the interface for milestone services.
type MilestoneServiceProvider interface {
	ListMilestones() []models.Milestone
	GetMilestone(id int64) (models.Milestone, error)
	CreateMilestone(input models.MilestoneInput) (models.Milestone, error)
	UpdateMilestone(id int64, input models.MilestoneInput) (models.Milestone, error)
	DeleteMilestone(id int64) error
}

// MilestoneService keeps milestones in memory.
type MilestoneService struct {
	mu         sync.RWMutex
	milestones []models.Milestone
	now        func() time.Time
}

// NewMilestoneService creates a MilestoneService holding the given milestones.
func NewMilestoneService(seed []models.Milestone) *MilestoneService {
	ms := make([]models.Milestone, 0, len(seed))
	for _, m := range seed {
		ms = append(ms, cloneMilestone(m))
	}
	return &MilestoneService{milestones: ms, now: time.Now}
}

// ListMilestones returns every milestone.
func (s *MilestoneService) ListMilestones() []models.Milestone {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Milestone, 0, len(s.milestones))
	for _, m := range s.milestones {
		out = append(out, cloneMilestone(m))
	}
	return out
}

// GetMilestone retrieves a single milestone by its ID.
func (s *MilestoneService) GetMilestone(id int64) (models.Milestone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return cloneMilestone(s.milestones[i]), nil
	}
	return models.Milestone{}, fmt.Errorf("milestone %d: %w", id, ErrMilestoneNotFound)
}

// CreateMilestone stores a new milestone with id max+1.
func (s *MilestoneService) CreateMilestone(input models.MilestoneInput) (models.Milestone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var highest int64
	for _, m := range s.milestones {
		highest = max(highest, m.ID)
	}

	m := models.Milestone{
		ID:        highest + 1,
		CreatedAt: s.now().Format("2006-01-02"),
		TasksID:   []string{},
	}
	applyMilestoneInput(&m, input)

	s.milestones = append(s.milestones, m)
	return cloneMilestone(m), nil
}

// UpdateMilestone merges the non-nil input fields into an existing milestone.
func (s *MilestoneService) UpdateMilestone(id int64, input models.MilestoneInput) (models.Milestone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Milestone{}, fmt.Errorf("milestone %d: %w", id, ErrMilestoneNotFound)
	}
	applyMilestoneInput(&s.milestones[i], input)
	return cloneMilestone(s.milestones[i]), nil
}

// DeleteMilestone removes a milestone.
func (s *MilestoneService) DeleteMilestone(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("milestone %d: %w", id, ErrMilestoneNotFound)
	}
	s.milestones = append(s.milestones[:i], s.milestones[i+1:]...)
	return nil
}

func (s *MilestoneService) indexOf(id int64) int {
	for i := range s.milestones {
		if s.milestones[i].ID == id {
			return i
		}
	}
	return -1
}

func applyMilestoneInput(m *models.Milestone, in models.MilestoneInput) {
	if in.Title != nil {
		m.Title = *in.Title
	}
	if in.Description != nil {
		m.Description = *in.Description
	}
	if in.TasksID != nil {
		m.TasksID = append([]string{}, (*in.TasksID)...)
	}
	if in.StartAt != nil {
		v := *in.StartAt
		m.StartAt = &v
	}
	if in.TargetAt != nil {
		v := *in.TargetAt
		m.TargetAt = &v
	}
	if in.Mark != nil {
		m.Mark = *in.Mark
	}
}

func cloneMilestone(m models.Milestone) models.Milestone {
	m.TasksID = append([]string{}, m.TasksID...)
	if m.StartAt != nil {
		v := *m.StartAt
		m.StartAt = &v
	}
	if m.TargetAt != nil {
		v := *m.TargetAt
		m.TargetAt = &v
	}
	return m
}
