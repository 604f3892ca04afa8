package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rogerio-castellano/sabiboss/internal/http/middleware"
	"github.com/rogerio-castellano/sabiboss/internal/notify"
	"github.com/rogerio-castellano/sabiboss/internal/workspace"
)

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

// respond writes env after moving the workspace's pending notifications
// and navigation into it.
func respond(w http.ResponseWriter, status int, ws *workspace.Workspace, env Envelope) {
	env.Notifications = []notify.Notification{}
	if ws != nil {
		env.Notifications = ws.Feed.Drain()
		if env.Redirect == "" {
			env.Redirect = ws.Routes.Take()
		}
	}
	if err := writeJSON(w, status, env); err != nil {
		logger.Error("failed to write JSON response", "error", err)
	}
}

func currentWorkspace(w http.ResponseWriter, r *http.Request) (*workspace.Workspace, bool) {
	ws := middleware.Workspace(r)
	if ws == nil {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return nil, false
	}
	return ws, true
}
