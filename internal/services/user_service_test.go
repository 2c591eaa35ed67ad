package services

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/isdelr/taskboard-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService(t *testing.T) *UserService {
	t.Helper()
	return NewUserService(WithBcryptCost(bcrypt.MinCost))
}

func TestUserService_CreateAndFind(t *testing.T) {
	s := newTestUserService(t)

	created, err := s.CreateUser(models.NewUser{Username: "alice", Password: "wonderland"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, models.RoleUser, created.Role)
	assert.Empty(t, created.PasswordHash)
	assert.Nil(t, created.LastLoginAt)

	found, err := s.FindByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.NotEqual(t, "wonderland", found.PasswordHash)
	assert.True(t, s.VerifyPassword("wonderland", found.PasswordHash))
	assert.False(t, s.VerifyPassword("Wonderland", found.PasswordHash))

	byID, err := s.FindByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func TestUserService_FindIsCaseSensitive(t *testing.T) {
	s := newTestUserService(t)
	_, err := s.CreateUser(models.NewUser{Username: "Admin", Password: "123456"})
	require.NoError(t, err)

	_, err = s.FindByUsername("admin")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = s.FindByID(42)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_DuplicateUsername(t *testing.T) {
	s := newTestUserService(t)

	_, err := s.CreateUser(models.NewUser{Username: "bob", Password: "first-pass"})
	require.NoError(t, err)

	_, err = s.CreateUser(models.NewUser{Username: "bob", Password: "second-pass", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, ErrDuplicateUsername)
	assert.Equal(t, 1, s.Count())
}

func TestUserService_ConcurrentDuplicateCreates(t *testing.T) {
	s := newTestUserService(t)

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.CreateUser(models.NewUser{Username: "racer", Password: "password"}); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, s.Count())
}

func TestUserService_InvalidRole(t *testing.T) {
	s := newTestUserService(t)
	_, err := s.CreateUser(models.NewUser{Username: "eve", Password: "password", Role: "root"})
	assert.ErrorIs(t, err, ErrInvalidRole)
	assert.Zero(t, s.Count())
}

func TestUserService_IDsAreMonotonic(t *testing.T) {
	s := newTestUserService(t)
	for i, name := range []string{"u1", "u2", "u3"} {
		u, err := s.CreateUser(models.NewUser{Username: name, Password: "password"})
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), u.ID)
	}
}

func TestUserService_UpdateLastLogin(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewUserService(WithBcryptCost(bcrypt.MinCost), WithClock(func() time.Time { return fixed }))

	u, err := s.CreateUser(models.NewUser{Username: "carol", Password: "password"})
	require.NoError(t, err)

	s.UpdateLastLogin(u.ID)
	s.UpdateLastLogin(999) // unknown ids are a no-op

	got, err := s.FindByID(u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)
	assert.Equal(t, fixed, *got.LastLoginAt)

	// Mutating the returned copy must not reach the store.
	*got.LastLoginAt = time.Time{}
	again, _ := s.FindByID(u.ID)
	assert.Equal(t, fixed, *again.LastLoginAt)
}

func TestUserService_ListAllStripsHashes(t *testing.T) {
	s := newTestUserService(t)
	require.NoError(t, s.Seed(models.NewUser{Username: "admin", Password: "123456", Role: models.RoleAdmin}))
	require.NoError(t, s.Seed(models.NewUser{Username: "admin", Password: "ignored"}))
	_, err := s.CreateUser(models.NewUser{Username: "dave", Password: "password"})
	require.NoError(t, err)

	all := s.ListAll()
	require.Len(t, all, 2)
	for _, u := range all {
		assert.Empty(t, u.PasswordHash)
	}
	assert.Equal(t, models.RoleAdmin, all[0].Role)
}

func TestUserService_DecoyHashUsesStoreCost(t *testing.T) {
	s := NewUserService(WithBcryptCost(bcrypt.MinCost + 1))

	decoy := s.DecoyHash()
	require.NotEmpty(t, decoy)

	cost, err := bcrypt.Cost([]byte(decoy))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+1, cost)
	assert.Equal(t, decoy, s.DecoyHash(), "decoy is built once")
}

func TestUserService_PasswordTooLong(t *testing.T) {
	s := newTestUserService(t)

	// 30 runes, 90 bytes.
	_, err := s.CreateUser(models.NewUser{Username: "carol", Password: strings.Repeat("密", 30)})
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.Zero(t, s.Count())

	_, err = s.CreateUser(models.NewUser{Username: "carol", Password: strings.Repeat("a", MaxPasswordBytes)})
	assert.NoError(t, err)
}
