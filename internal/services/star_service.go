package services

import (
	"sync"

	"github.com/isdelr/taskboard-be/internal/models"
)

// StarServiceProvider defines the interface for star services.
type StarServiceProvider interface {
	ListStars() []models.Star
}

// StarService keeps starred tasks in memory.
type StarService struct {
	mu    sync.RWMutex
	stars []models.Star
}

func NewStarService(seed []models.Star) *StarService {
	return &StarService{stars: append([]models.Star{}, seed...)}
}

// ListStars returns every star.
func (s *StarService) ListStars() []models.Star {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Star{}, s.stars...)
}
