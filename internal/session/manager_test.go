package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"taskbook/internal/auth"
	"taskbook/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVerifier accepts tokens of the form "valid:<subject>".
type fakeVerifier struct{}

func (fakeVerifier) Verify(_ context.Context, idToken string) (string, error) {
	if sub, ok := strings.CutPrefix(idToken, "valid:"); ok && sub != "" {
		return sub, nil
	}
	return "", auth.ErrInvalidToken
}

type failingStore struct {
	MemoryStore
	err error
}

func (f *failingStore) Save(context.Context, string, Data, time.Duration) error { return f.err }
func (f *failingStore) Lookup(context.Context, string) (Data, error)            { return Data{}, f.err }

func newTestManager() *Manager {
	return NewManager(fakeVerifier{}, NewMemoryStore(), "test-secret", time.Hour)
}

func TestBeginThenRequireReturnsVerifiedSubject(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	for _, subject := range []string{"U1", "U2", "user-with-dashes"} {
		value, sub, err := m.Begin(ctx, "valid:"+subject)
		require.NoError(t, err)
		assert.Equal(t, subject, sub)

		got, err := m.Require(ctx, value)
		require.NoError(t, err)
		assert.Equal(t, subject, got)
	}
}

func TestBeginRejectsMissingToken(t *testing.T) {
	m := newTestManager()

	_, _, err := m.Begin(context.Background(), "")
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))
}

func TestBeginRejectsInvalidToken(t *testing.T) {
	m := newTestManager()

	_, _, err := m.Begin(context.Background(), "forged")
	assert.Equal(t, http.StatusUnauthorized, apperror.StatusOf(err))
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestBeginStoreFailureIsUnavailable(t *testing.T) {
	m := NewManager(fakeVerifier{}, &failingStore{err: errors.New("redis down")}, "s", time.Hour)

	_, _, err := m.Begin(context.Background(), "valid:U1")
	assert.Equal(t, http.StatusServiceUnavailable, apperror.StatusOf(err))
}

func TestRequireWithoutSession(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	for _, value := range []string{"", "garbage", "token.", ".sig", "abc.def"} {
		_, err := m.Require(ctx, value)
		assert.ErrorIs(t, err, apperror.ErrNoSession, value)
	}
}

func TestRequireRejectsTamperedValue(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	value, _, err := m.Begin(ctx, "valid:U1")
	require.NoError(t, err)

	token, sig, _ := strings.Cut(value, ".")
	_, err = m.Require(ctx, token+"x."+sig)
	assert.ErrorIs(t, err, apperror.ErrNoSession)

	// Same token signed with a different secret.
	other := NewManager(fakeVerifier{}, m.store, "another-secret", time.Hour)
	_, err = other.Require(ctx, value)
	assert.ErrorIs(t, err, apperror.ErrNoSession)
}

func TestRequireStoreFailureIsUnavailable(t *testing.T) {
	m := newTestManager()
	value, _, err := m.Begin(context.Background(), "valid:U1")
	require.NoError(t, err)

	m.store = &failingStore{err: errors.New("redis down")}
	_, err = m.Require(context.Background(), value)
	assert.Equal(t, http.StatusServiceUnavailable, apperror.StatusOf(err))
}

func TestEndIsIdempotent(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	value, _, err := m.Begin(ctx, "valid:U1")
	require.NoError(t, err)

	require.NoError(t, m.End(ctx, value))
	require.NoError(t, m.End(ctx, value))
	require.NoError(t, m.End(ctx, ""))

	_, err = m.Require(ctx, value)
	assert.ErrorIs(t, err, apperror.ErrNoSession)
}

func TestSessionsAreIndependent(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	first, _, err := m.Begin(ctx, "valid:U1")
	require.NoError(t, err)
	second, _, err := m.Begin(ctx, "valid:U2")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	require.NoError(t, m.End(ctx, first))

	sub, err := m.Require(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "U2", sub)
}
