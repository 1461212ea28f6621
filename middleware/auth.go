package middleware

import (
	"context"
	"errors"
	"net/http"

	"taskbook/internal/session"
	"taskbook/pkg/apperror"
	"taskbook/pkg/logger"
)

type contextKey string

const SubjectIDKey contextKey = "subjectID"

// SessionResolver resolves the browser's session value to a subject identifier.
type SessionResolver interface {
	Require(ctx context.Context, value string) (string, error)
}

// RequireSession lets a request through only when it carries an active
// session. Unauthenticated requests are redirected to the login entry point.
func RequireSession(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subjectID, err := sessions.Require(r.Context(), session.CookieValue(r))
			if errors.Is(err, apperror.ErrNoSession) {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if err != nil {
				logger.Sugar.Errorf("Session lookup failed: %v", err)
				apperror.Write(w, err)
				return
			}

			// Add SubjectID to context for the next handler
			ctx := context.WithValue(r.Context(), SubjectIDKey, subjectID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SubjectID returns the subject placed in ctx by RequireSession.
func SubjectID(ctx context.Context) (string, bool) {
	subjectID, ok := ctx.Value(SubjectIDKey).(string)
	return subjectID, ok && subjectID != ""
}
