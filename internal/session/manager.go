package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskbook/internal/auth"
	"taskbook/pkg/apperror"
	"taskbook/pkg/logger"

	"github.com/google/uuid"
)

// Manager creates, resolves and ends browser sessions. The value handed to
// the browser is "<token>.<signature>"; stores only ever see a hash of the token.
type Manager struct {
	verifier auth.Verifier
	store    Store
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

func NewManager(verifier auth.Verifier, store Store, secret string, ttl time.Duration) *Manager {
	return &Manager{
		verifier: verifier,
		store:    store,
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// Begin verifies idToken and opens a session for its subject. It returns the
// signed session value for the cookie together with the subject identifier.
func (m *Manager) Begin(ctx context.Context, idToken string) (string, string, error) {
	if strings.TrimSpace(idToken) == "" {
		return "", "", apperror.BadRequest("Missing ID token")
	}

	subjectID, err := m.verifier.Verify(ctx, idToken)
	if err != nil {
		logger.Sugar.Warnf("Token verification error: %v", err)
		return "", "", apperror.Unauthorized(err.Error(), err)
	}

	token := uuid.NewString()
	data := Data{SubjectID: subjectID, CreatedAt: m.now().UTC()}
	if err := m.store.Save(ctx, hashToken(token), data, m.ttl); err != nil {
		logger.Sugar.Errorf("Failed to save session for %s: %v", subjectID, err)
		return "", "", apperror.Unavailable("Session store unavailable", err)
	}

	logger.Sugar.Infof("Session started for subject %s", subjectID)
	return m.sign(token), subjectID, nil
}

// Require resolves a signed session value to its subject identifier. Any
// missing, tampered, unknown or expired value yields apperror.ErrNoSession.
func (m *Manager) Require(ctx context.Context, value string) (string, error) {
	token, ok := m.verify(value)
	if !ok {
		return "", apperror.ErrNoSession
	}

	data, err := m.store.Lookup(ctx, hashToken(token))
	if errors.Is(err, ErrNotFound) {
		return "", apperror.ErrNoSession
	}
	if err != nil {
		return "", apperror.Unavailable("Session store unavailable", err)
	}
	return data.SubjectID, nil
}

// End removes the session bound to value. It is idempotent and never fails on
// an empty or unknown value.
func (m *Manager) End(ctx context.Context, value string) error {
	token, ok := m.verify(value)
	if !ok {
		return nil
	}
	if err := m.store.Delete(ctx, hashToken(token)); err != nil {
		logger.Sugar.Errorf("Failed to delete session: %v", err)
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

func (m *Manager) Ping(ctx context.Context) error {
	return m.store.Ping(ctx)
}

func (m *Manager) sign(token string) string {
	return token + "." + m.signature(token)
}

func (m *Manager) verify(value string) (string, bool) {
	token, signature, found := strings.Cut(value, ".")
	if !found || token == "" || signature == "" {
		return "", false
	}
	if !hmac.Equal([]byte(signature), []byte(m.signature(token))) {
		return "", false
	}
	return token, true
}

func (m *Manager) signature(token string) string {
	mac := hmac.New(sha256.New, m.secret)
	_, _ = mac.Write([]byte(token))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
