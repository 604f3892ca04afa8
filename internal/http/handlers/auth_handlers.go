package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/rogerio-castellano/sabiboss/internal/auth"
	"github.com/rogerio-castellano/sabiboss/internal/http/middleware"
	"github.com/rogerio-castellano/sabiboss/internal/notify"
	"github.com/rogerio-castellano/sabiboss/internal/signup"
	"github.com/rogerio-castellano/sabiboss/internal/workspace"
)

func sessionResult(ctx context.Context, ws *workspace.Workspace) *SessionResult {
	s, err := ws.Auth.CurrentSession(ctx)
	if err != nil || s == nil {
		return nil
	}
	return &SessionResult{Token: s.Token, UserID: s.UserID, Email: s.Email, ExpiresAt: s.ExpiresAt}
}

// SignupHandler godoc
// @Summary Register a business owner and open a session
// @Tags auth
// @Accept json
// @Produce json
// @Param form body signup.Form true "Signup form"
// @Success 201 {object} Envelope
// @Failure 400 {object} Envelope "Invalid form"
// @Failure 409 {object} Envelope "Email already registered"
// @Failure 422 {object} Envelope "Signup failed"
// @Router /signup [post]
func SignupHandler(w http.ResponseWriter, r *http.Request) {
	var form signup.Form
	if err := readJSON(w, r, &form); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	ws, err := registry.Open(r.Context(), "")
	if err != nil {
		http.Error(w, "could not open session", http.StatusInternalServerError)
		return
	}

	violations, err := ws.Signup.Submit(r.Context(), form)
	if err != nil {
		status := http.StatusUnprocessableEntity
		switch {
		case errors.Is(err, signup.ErrInvalidForm), errors.Is(err, auth.ErrWeakPassword):
			status = http.StatusBadRequest
		case errors.Is(err, auth.ErrEmailTaken):
			status = http.StatusConflict
		}
		respond(w, status, ws, Envelope{Errors: violations})
		ws.Close()
		return
	}

	res := sessionResult(r.Context(), ws)
	if res == nil {
		ws.Close()
		http.Error(w, "session was not established", http.StatusInternalServerError)
		return
	}
	registry.Put(res.Token, ws)
	logger.Info("account created", "user_id", res.UserID)
	respond(w, http.StatusCreated, ws, Envelope{OK: true, Data: res})
}

// LoginHandler godoc
// @Summary Authenticate and return a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsRequest true "email and password"
// @Success 200 {object} Envelope
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {object} Envelope "Invalid credentials"
// @Router /login [post]
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var creds CredentialsRequest
	if err := readJSON(w, r, &creds); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if creds.Email == "" || creds.Password == "" {
		http.Error(w, "missing credentials", http.StatusBadRequest)
		return
	}

	ws, err := registry.Open(r.Context(), "")
	if err != nil {
		http.Error(w, "could not open session", http.StatusInternalServerError)
		return
	}

	if err := ws.Session.SignIn(r.Context(), creds.Email, creds.Password); err != nil {
		ws.Feed.Error(notify.Message(err, "Login failed"))
		status := http.StatusInternalServerError
		if errors.Is(err, auth.ErrInvalidCredentials) {
			status = http.StatusUnauthorized
		}
		respond(w, status, ws, Envelope{})
		ws.Close()
		return
	}

	res := sessionResult(r.Context(), ws)
	if res == nil {
		ws.Close()
		http.Error(w, "session was not established", http.StatusInternalServerError)
		return
	}
	registry.Put(res.Token, ws)
	respond(w, http.StatusOK, ws, Envelope{OK: true, Data: res})
}

// LogoutHandler godoc
// @Summary Sign out and revoke the session token
// @Tags auth
// @Produce json
// @Success 200 {object} Envelope
// @Failure 401 {string} string "Unauthorized"
// @Failure 500 {object} Envelope
// @Router /logout [post]
// @Security BearerAuth
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r)
	if !ok {
		return
	}

	if err := ws.Session.SignOut(r.Context()); err != nil {
		logger.Error("sign out failed", "error", err)
		ws.Feed.Error(notify.Message(err, "Logout failed"))
		respond(w, http.StatusInternalServerError, ws, Envelope{})
		return
	}

	respond(w, http.StatusOK, ws, Envelope{OK: true})
	registry.Remove(middleware.Token(r))
}

// MeHandler godoc
// @Summary Current session state and identity
// @Tags auth
// @Produce json
// @Success 200 {object} Envelope
// @Failure 401 {string} string "Unauthorized"
// @Router /me [get]
// @Security BearerAuth
func MeHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusOK, ws, Envelope{OK: true, Data: ws.Session.Snapshot()})
}

// NotificationsHandler godoc
// @Summary Drain pending notifications
// @Tags auth
// @Produce json
// @Success 200 {object} Envelope
// @Failure 401 {string} string "Unauthorized"
// @Router /notifications [get]
// @Security BearerAuth
func NotificationsHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusOK, ws, Envelope{OK: true})
}
