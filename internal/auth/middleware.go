package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/isdelr/taskboard-be/internal/apperror"
	"github.com/isdelr/taskboard-be/internal/models"
	"github.com/isdelr/taskboard-be/internal/pipeline"
	"github.com/isdelr/taskboard-be/internal/services"
	"github.com/rs/zerolog/log"
)

// Rejection reasons, also used as metric labels.
const (
	ReasonMissingToken    = "missing_token"
	ReasonMalformedToken  = "malformed_token"
	ReasonInvalidToken    = "invalid_token"
	ReasonUnknownSubject  = "unknown_subject"
	ReasonUnauthenticated = "unauthenticated"
	ReasonForbidden       = "forbidden"
)

// Client-facing rejection messages.
const (
	MsgMissingToken     = "missing token"
	MsgMalformedToken   = "malformed token"
	MsgInvalidToken     = "invalid or expired token"
	MsgSubjectNotFound  = "subject not found"
	MsgUnauthenticated  = "authentication required"
	MsgInsufficientRole = "insufficient role"
)

// UserFinder resolves the subject of a verified token.
type UserFinder interface {
	FindByID(id int64) (models.User, error)
}

// Recorder observes authentication outcomes.
type Recorder interface {
	AuthRejected(reason string)
	LoginAttempt(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) AuthRejected(string) {}
func (nopRecorder) LoginAttempt(string) {}

// Guard builds the authentication and authorization pipeline stages.
type Guard struct {
	codec    *TokenCodec
	users    UserFinder
	recorder Recorder
}

// NewGuard creates a Guard. recorder may be nil.
func NewGuard(codec *TokenCodec, users UserFinder, recorder Recorder) *Guard {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Guard{codec: codec, users: users, recorder: recorder}
}

// Authenticate returns a stage that requires a valid bearer token whose
// subject still exists, and attaches the subject's current identity.
func (g *Guard) Authenticate() pipeline.Stage {
	return pipeline.StageFunc(func(r *http.Request) pipeline.Outcome {
		id, reason, err := g.resolve(r)
		if err != nil {
			if reason != "" {
				g.reject(r, reason)
			}
			return pipeline.Reject(err)
		}
		return pipeline.Continue(r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// OptionalAuthenticate attaches an identity when the request carries a
// valid token and otherwise lets the request through anonymously.
func (g *Guard) OptionalAuthenticate() pipeline.Stage {
	return pipeline.StageFunc(func(r *http.Request) pipeline.Outcome {
		id, reason, err := g.resolve(r)
		if err != nil {
			if reason == "" {
				return pipeline.Reject(err)
			}
			return pipeline.Continue(r)
		}
		return pipeline.Continue(r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// Authorize returns a stage that admits identities whose role is one of
// roles. Roles are a flat set; none implies another. It must run after
// Authenticate.
func (g *Guard) Authorize(roles ...models.Role) pipeline.Stage {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return pipeline.StageFunc(func(r *http.Request) pipeline.Outcome {
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			g.reject(r, ReasonUnauthenticated)
			return pipeline.Reject(apperror.Unauthenticated(MsgUnauthenticated))
		}
		if _, ok := allowed[id.Role]; !ok {
			g.reject(r, ReasonForbidden)
			return pipeline.Reject(apperror.Forbidden(MsgInsufficientRole))
		}
		return pipeline.Continue(r)
	})
}

// resolve walks the authentication states. A non-empty reason marks a
// client-side failure; an empty reason with an error is an internal failure.
func (g *Guard) resolve(r *http.Request) (Identity, string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return Identity{}, ReasonMissingToken, apperror.Unauthenticated(MsgMissingToken)
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return Identity{}, ReasonMalformedToken, apperror.Unauthenticated(MsgMalformedToken)
	}

	claims, err := g.codec.Verify(parts[1])
	if err != nil {
		return Identity{}, ReasonInvalidToken, apperror.Unauthenticated(MsgInvalidToken)
	}

	user, err := g.users.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return Identity{}, ReasonUnknownSubject, apperror.Unauthenticated(MsgSubjectNotFound)
		}
		return Identity{}, "", apperror.Internal(err)
	}

	return IdentityOf(user), "", nil
}

func (g *Guard) reject(r *http.Request, reason string) {
	g.recorder.AuthRejected(reason)
	log.Debug().
		Str("reason", reason).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("Request rejected by auth guard")
}
