package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/isdelr/taskboard-be/internal/models"
	"github.com/isdelr/taskboard-be/internal/services"
)

// ErrBadCredentials is returned for an unknown username and for a wrong
// password alike.
var ErrBadCredentials = errors.New("bad credentials")

// Login outcomes, also used as metric labels.
const (
	LoginSuccess        = "success"
	LoginBadCredentials = "bad_credentials"
	LoginError          = "error"
)

// LoginResult is returned on a successful login.
type LoginResult struct {
	User      models.UserSummary `json:"user"`
	Token     string             `json:"token"`
	ExpiresIn string             `json:"expiresIn"`
	ExpiresAt time.Time          `json:"expiresAt"`
}

// LoginService exchanges credentials for a bearer token. It is the only
// producer of tokens.
type LoginService struct {
	users    services.UserServiceProvider
	codec    *TokenCodec
	recorder Recorder
}

// NewLoginService creates a LoginService. recorder may be nil.
func NewLoginService(users services.UserServiceProvider, codec *TokenCodec, recorder Recorder) *LoginService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &LoginService{users: users, codec: codec, recorder: recorder}
}

// Login verifies the credentials, records the login and issues a token.
func (s *LoginService) Login(username, password string) (LoginResult, error) {
	user, err := s.users.FindByUsername(username)
	if err != nil {
		if !errors.Is(err, services.ErrUserNotFound) {
			s.recorder.LoginAttempt(LoginError)
			return LoginResult{}, err
		}
		s.users.VerifyPassword(password, s.users.DecoyHash())
		s.recorder.LoginAttempt(LoginBadCredentials)
		return LoginResult{}, ErrBadCredentials
	}

	if !s.users.VerifyPassword(password, user.PasswordHash) {
		s.recorder.LoginAttempt(LoginBadCredentials)
		return LoginResult{}, ErrBadCredentials
	}

	s.users.UpdateLastLogin(user.ID)
	if fresh, err := s.users.FindByID(user.ID); err == nil {
		user = fresh
	}

	ttl := s.codec.TTL()
	token, expiresAt, err := s.codec.Issue(IdentityOf(user), ttl)
	if err != nil {
		s.recorder.LoginAttempt(LoginError)
		return LoginResult{}, fmt.Errorf("failed to issue token: %w", err)
	}

	s.recorder.LoginAttempt(LoginSuccess)
	return LoginResult{
		User:      user.Summary(),
		Token:     token,
		ExpiresIn: FormatTTL(ttl),
		ExpiresAt: expiresAt,
	}, nil
}

// FormatTTL renders a duration in its largest whole unit, e.g. "5m".
func FormatTTL(d time.Duration) string {
	switch {
	case d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	case d%time.Second == 0:
		return fmt.Sprintf("%ds", d/time.Second)
	}
	return d.String()
}
