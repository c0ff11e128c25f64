package auth

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"

	"github.com/ghuser/expense-tracker/pkg/httpx"
	"github.com/ghuser/expense-tracker/pkg/logger"
)

const (
	sessionName       = "expense_tracker_session"
	sessionSubjectKey = "sub"
)

func unauthorized(w http.ResponseWriter) {
	httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
}

// RequireAuth admits requests that carry either a valid "Authorization:
// Bearer" token or a session cookie with a subject, and stores the subject
// in the request context. A bearer header, when present, is authoritative:
// a bad token is rejected even if a session cookie is also sent.
func RequireAuth(store sessions.Store, tokens *Tokens, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw, ok := bearerToken(r); ok {
				sub, err := tokens.Verify(raw)
				if err != nil {
					log.WarnContext(r.Context(), "rejected bearer token", "error", err)
					unauthorized(w)
					return
				}
				next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), sub)))
				return
			}

			session, err := store.Get(r, sessionName)
			if err != nil {
				log.WarnContext(r.Context(), "invalid session cookie", "error", err)
				unauthorized(w)
				return
			}
			sub, ok := session.Values[sessionSubjectKey].(string)
			if !ok || sub == "" {
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), sub)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// SessionHandlers exchange a bearer token for a session cookie and back.
type SessionHandlers struct {
	store  sessions.Store
	tokens *Tokens
	log    logger.Logger
}

// NewSessionHandlers returns the login/logout handlers for store.
func NewSessionHandlers(store sessions.Store, tokens *Tokens, log logger.Logger) *SessionHandlers {
	return &SessionHandlers{store: store, tokens: tokens, log: log}
}

// Login verifies the bearer token and stores its subject in a new session.
//
//	@Summary	Open a cookie session
//	@Tags		auth
//	@Security	BearerAuth
//	@Success	204
//	@Failure	401	{object}	map[string]string
//	@Router		/auth/session [post]
func (h *SessionHandlers) Login(w http.ResponseWriter, r *http.Request) {
	raw, ok := bearerToken(r)
	if !ok {
		unauthorized(w)
		return
	}
	sub, err := h.tokens.Verify(raw)
	if err != nil {
		h.log.WarnContext(r.Context(), "login with invalid token", "error", err)
		unauthorized(w)
		return
	}

	session, err := h.store.Get(r, sessionName)
	if err != nil {
		// A stale cookie yields a fresh session alongside the error.
		h.log.DebugContext(r.Context(), "discarding unreadable session", "error", err)
	}
	session.Values[sessionSubjectKey] = sub
	if err := session.Save(r, w); err != nil {
		h.log.ErrorContext(r.Context(), "save session", "error", err)
		httpx.JSONError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Logout expires the session cookie and its server-side state.
//
//	@Summary	Close the cookie session
//	@Tags		auth
//	@Success	204
//	@Router		/auth/session [delete]
func (h *SessionHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.store.Get(r, sessionName)
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		h.log.ErrorContext(r.Context(), "expire session", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}
