package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/isdelr/taskboard-be/internal/config"
	"github.com/isdelr/taskboard-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCodec(secret string) (*TokenCodec, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)}
	cfg := &config.Config{JWTSecret: secret, TokenTTL: 5 * time.Minute}
	return NewTokenCodec(cfg).WithClock(clock.Now), clock
}

var adminIdentity = Identity{ID: 1, Username: "admin", Role: models.RoleAdmin}

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec, clock := newTestCodec("super-secret")

	tok, expiresAt, err := codec.Issue(adminIdentity, 0)
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(5*time.Minute), expiresAt)

	claims, err := codec.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, adminIdentity, claims.Identity())
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, claims.IssuedAt.Add(5*time.Minute), claims.ExpiresAt.Time)
}

func TestTokenCodec_UniqueTokenIDs(t *testing.T) {
	codec, _ := newTestCodec("super-secret")

	a, _, err := codec.Issue(adminIdentity, 0)
	require.NoError(t, err)
	b, _, err := codec.Issue(adminIdentity, 0)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestTokenCodec_Expiry(t *testing.T) {
	codec, clock := newTestCodec("super-secret")

	tok, _, err := codec.Issue(adminIdentity, 0)
	require.NoError(t, err)

	clock.Advance(5*time.Minute - time.Second)
	_, err = codec.Verify(tok)
	require.NoError(t, err, "token must be valid within its TTL")

	clock.Advance(2 * time.Second)
	_, err = codec.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenCodec_CustomTTL(t *testing.T) {
	codec, clock := newTestCodec("super-secret")

	tok, expiresAt, err := codec.Issue(adminIdentity, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(time.Hour), expiresAt)

	clock.Advance(30 * time.Minute)
	_, err = codec.Verify(tok)
	assert.NoError(t, err)
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	issuer, _ := newTestCodec("right-secret")
	verifier, _ := newTestCodec("wrong-secret")

	tok, _, err := issuer.Issue(adminIdentity, 0)
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenCodec_TamperedSignature(t *testing.T) {
	codec, _ := newTestCodec("super-secret")

	tok, _, err := codec.Issue(adminIdentity, 0)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = codec.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenCodec_TamperedPayload(t *testing.T) {
	codec, _ := newTestCodec("super-secret")

	userTok, _, err := codec.Issue(Identity{ID: 2, Username: "bob", Role: models.RoleUser}, 0)
	require.NoError(t, err)
	adminTok, _, err := codec.Issue(adminIdentity, 0)
	require.NoError(t, err)

	u := strings.Split(userTok, ".")
	a := strings.Split(adminTok, ".")
	forged := u[0] + "." + a[1] + "." + u[2]

	_, err = codec.Verify(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenCodec_Malformed(t *testing.T) {
	codec, _ := newTestCodec("k")

	for _, tok := range []string{"", "not.a.jwt", "abc", "a.b", "....."} {
		_, err := codec.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}

func TestTokenCodec_RejectsOtherAlgorithms(t *testing.T) {
	codec, clock := newTestCodec("super-secret")

	claims := &Claims{
		UserID:   1,
		Username: "admin",
		Role:     models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(clock.Now()),
			ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Minute)),
		},
	}

	t.Run("none", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = codec.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("HS512", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("super-secret"))
		require.NoError(t, err)
		_, err = codec.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestTokenCodec_RequiresExpiry(t *testing.T) {
	codec, _ := newTestCodec("super-secret")

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: 1, Username: "admin", Role: models.RoleAdmin}).
		SignedString([]byte("super-secret"))
	require.NoError(t, err)

	_, err = codec.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestFormatTTL(t *testing.T) {
	assert.Equal(t, "5m", FormatTTL(5*time.Minute))
	assert.Equal(t, "2h", FormatTTL(2*time.Hour))
	assert.Equal(t, "90s", FormatTTL(90*time.Second))
	assert.Equal(t, "1.5s", FormatTTL(1500*time.Millisecond))
}
