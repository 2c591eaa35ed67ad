package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/isdelr/taskboard-be/internal/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for the credential store.
type UserServiceProvider interface {
	FindByUsername(username string) (models.User, error)
	FindByID(id int64) (models.User, error)
	VerifyPassword(plaintext, hash string) bool
	CreateUser(input models.NewUser) (models.User, error)
	UpdateLastLogin(id int64)
	ListAll() []models.User
	DecoyHash() string
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// UserService is an in-memory credential store. A single RWMutex guards the
// collection; records handed out are copies.
type UserService struct {
	mu     sync.RWMutex
	users  []models.User
	nextID int64

	cost int
	now  func() time.Time

	decoyOnce sync.Once
	decoy     string
}

// UserServiceOption customizes a UserService.
type UserServiceOption func(*UserService)

// WithBcryptCost sets the bcrypt work factor used for new passwords.
func WithBcryptCost(cost int) UserServiceOption {
	return func(s *UserService) { s.cost = cost }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) UserServiceOption {
	return func(s *UserService) { s.now = now }
}

// NewUserService creates an empty UserService.
func NewUserService(opts ...UserServiceOption) *UserService {
	s := &UserService{
		nextID: 1,
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindByUsername returns the user with the exact, case-sensitive username.
// The returned record includes the password hash.
func (s *UserService) FindByUsername(username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexByUsername(username); i >= 0 {
		return clone(s.users[i]), nil
	}
	return models.User{}, fmt.Errorf("user %q: %w", username, ErrUserNotFound)
}

// FindByID retrieves a single user by ID, including the password hash.
func (s *UserService) FindByID(id int64) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexByID(id); i >= 0 {
		return clone(s.users[i]), nil
	}
	return models.User{}, fmt.Errorf("user with ID %d: %w", id, ErrUserNotFound)
}

// VerifyPassword compares a plaintext password with a bcrypt hash.
func (s *UserService) VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// CreateUser hashes the password and stores a new user. The role defaults to
// user. The returned record carries no password hash.
func (s *UserService) CreateUser(input models.NewUser) (models.User, error) {
	if input.Role == "" {
		input.Role = models.RoleUser
	}
	if !input.Role.Valid() {
		return models.User{}, fmt.Errorf("%q: %w", input.Role, ErrInvalidRole)
	}
	if len(input.Password) > MaxPasswordBytes {
		return models.User{}, fmt.Errorf("%d bytes: %w", len(input.Password), ErrPasswordTooLong)
	}

	// Fail fast before paying for the hash; the check is repeated under the
	// write lock.
	s.mu.RLock()
	exists := s.indexByUsername(input.Username) >= 0
	s.mu.RUnlock()
	if exists {
		return models.User{}, fmt.Errorf("user %q: %w", input.Username, ErrDuplicateUsername)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexByUsername(input.Username) >= 0 {
		return models.User{}, fmt.Errorf("user %q: %w", input.Username, ErrDuplicateUsername)
	}

	user := models.User{
		ID:           s.nextID,
		Username:     input.Username,
		PasswordHash: string(hashed),
		Role:         input.Role,
		CreatedAt:    s.now().UTC(),
	}
	s.nextID++
	s.users = append(s.users, user)

	return user.Sanitized(), nil
}

// UpdateLastLogin stamps the user's last login time. Unknown ids are ignored.
func (s *UserService) UpdateLastLogin(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexByID(id); i >= 0 {
		now := s.now().UTC()
		s.users[i].LastLoginAt = &now
	}
}

// ListAll returns every user without password hashes, in id order.
func (s *UserService) ListAll() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, len(s.users))
	for i, u := range s.users {
		out[i] = u.Sanitized()
	}
	return out
}

// DecoyHash returns a hash at the store's work factor for comparing against
// when a username is unknown, so that path costs as much as a wrong password.
func (s *UserService) DecoyHash() string {
	s.decoyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("decoy-password"), s.cost)
		if err != nil {
			log.Error().Err(err).Int("cost", s.cost).Msg("Failed to build decoy hash")
			return
		}
		s.decoy = string(h)
	})
	return s.decoy
}

// Count returns the number of stored users.
func (s *UserService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// Seed creates the given user unless the username is already taken.
func (s *UserService) Seed(input models.NewUser) error {
	_, err := s.CreateUser(input)
	if err != nil && !errors.Is(err, ErrDuplicateUsername) {
		return err
	}
	return nil
}

// clone copies a stored record, hash included, so callers cannot alias the
// store's last-login pointer.
func clone(u models.User) models.User {
	hash := u.PasswordHash
	u = u.Sanitized()
	u.PasswordHash = hash
	return u
}

func (s *UserService) indexByUsername(username string) int {
	for i := range s.users {
		if s.users[i].Username == username {
			return i
		}
	}
	return -1
}

func (s *UserService) indexByID(id int64) int {
	for i := range s.users {
		if s.users[i].ID == id {
			return i
		}
	}
	return -1
}
