package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rogerio-castellano/sabiboss/internal/auth"
	"github.com/rogerio-castellano/sabiboss/internal/http/ban"
	"github.com/rogerio-castellano/sabiboss/internal/http/handlers"
	rl "github.com/rogerio-castellano/sabiboss/internal/http/rate_limiter"
	"github.com/rogerio-castellano/sabiboss/internal/http/router"
	"github.com/rogerio-castellano/sabiboss/internal/notify"
	"github.com/rogerio-castellano/sabiboss/internal/repo"
	"github.com/rogerio-castellano/sabiboss/internal/signup"
	"github.com/rogerio-castellano/sabiboss/internal/store"
	"github.com/rogerio-castellano/sabiboss/internal/workspace"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type envelope struct {
	OK            bool                  `json:"ok"`
	Data          json.RawMessage       `json:"data"`
	Redirect      string                `json:"redirect"`
	Notifications []notify.Notification `json:"notifications"`
	Errors        map[string]string     `json:"errors"`
}

func (e envelope) messages() []string {
	var out []string
	for _, n := range e.Notifications {
		out = append(out, n.Message)
	}
	return out
}

func newServer(t *testing.T, limiters *rl.Limiters, guard *ban.Guard) http.Handler {
	t.Helper()
	deps := workspace.Deps{
		Auth:   auth.NewService(repo.NewInMemoryUserRepository(), auth.NewMemoryRevocations(), []byte("secret"), time.Hour),
		Store:  store.NewMemoryBackend(),
		Logger: quiet,
	}
	reg := workspace.NewRegistry(deps)
	t.Cleanup(reg.CloseAll)

	handlers.SetRegistry(reg)
	handlers.SetLogger(quiet)

	if limiters == nil {
		limiters = rl.New(1000, 1000)
	}
	return router.NewRouter(router.Options{Registry: reg, Limiters: limiters, Guard: guard, Logger: quiet})
}

func do(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("error decoding envelope: %v", err)
	}
	return env
}

func decodeData(t *testing.T, env envelope, into any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, into); err != nil {
		t.Fatalf("error decoding data %s: %v", env.Data, err)
	}
}

func validForm(email string) signup.Form {
	return signup.Form{
		FullName:         "Ada Obi",
		Phone:            "08011112222",
		Email:            email,
		BusinessName:     "Ada Stores",
		BusinessType:     "Shop Owner",
		BusinessLocation: "Lagos",
		Password:         "secret1",
		ConfirmPassword:  "secret1",
	}
}

// signUp registers email and returns its bearer token.
func signUp(t *testing.T, r http.Handler, email string) string {
	t.Helper()
	w := do(r, http.MethodPost, "/signup", "", validForm(email))
	if w.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var res handlers.SessionResult
	decodeData(t, decode(t, w), &res)
	if res.Token == "" {
		t.Fatal("signup: expected token")
	}
	return res.Token
}

// logIn opens another session for email and returns its bearer token.
func logIn(t *testing.T, r http.Handler, email string) string {
	t.Helper()
	w := do(r, http.MethodPost, "/login", "", handlers.CredentialsRequest{Email: email, Password: "secret1"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var res handlers.SessionResult
	decodeData(t, decode(t, w), &res)
	return res.Token
}

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))

	writer.Close()
	return &buf, writer.FormDataContentType()
}
