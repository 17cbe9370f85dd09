// Package storetest provides an in-memory double of the activity signup
// service, faithful to its routes, status codes, and message wording. It
// backs the demo command and the client's integration tests; it is not a
// production server.
package storetest

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/vk/signupboard/internal/activity"
)

// Server implements the three signup service endpoints over an in-memory
// roster. Safe for concurrent use.
type Server struct {
	mu     sync.Mutex
	roster activity.Roster
}

// NewServer builds a Server around the given roster. The roster is copied so
// the caller's map stays untouched.
func NewServer(roster activity.Roster) *Server {
	copied := make(activity.Roster, len(roster))
	for name, act := range roster {
		act.Participants = append([]string(nil), act.Participants...)
		copied[name] = act
	}
	return &Server{roster: copied}
}

// Roster returns a snapshot of the current roster.
func (s *Server) Roster() activity.Roster {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make(activity.Roster, len(s.roster))
	for name, act := range s.roster {
		act.Participants = append([]string(nil), act.Participants...)
		snapshot[name] = act
	}
	return snapshot
}

// ServeHTTP routes the three endpoints. Activity names are case-sensitive
// path segments, percent-decoded by the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/activities" {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
			return
		}
		s.listActivities(w)
		return
	}

	rest, ok := strings.CutPrefix(r.URL.Path, "/activities/")
	if !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}

	switch {
	case strings.HasSuffix(rest, "/signup") && r.Method == http.MethodPost:
		name := pathSegment(strings.TrimSuffix(rest, "/signup"))
		s.signup(w, r, name)
	case strings.HasSuffix(rest, "/unregister") && r.Method == http.MethodDelete:
		name := pathSegment(strings.TrimSuffix(rest, "/unregister"))
		s.unregister(w, r, name)
	default:
		writeError(w, http.StatusNotFound, "Not Found")
	}
}

func (s *Server) listActivities(w http.ResponseWriter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.roster)
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request, name string) {
	email, err := requestEmail(r)
	if err != nil || email == "" {
		writeError(w, http.StatusBadRequest, "Missing email")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	act, ok := s.roster[name]
	if !ok {
		writeError(w, http.StatusNotFound, "Activity not found")
		return
	}
	for _, existing := range act.Participants {
		if existing == email {
			writeError(w, http.StatusBadRequest, "Student already signed up for this activity")
			return
		}
	}
	if len(act.Participants) >= act.MaxParticipants {
		writeError(w, http.StatusBadRequest, "Activity is at full capacity")
		return
	}

	act.Participants = append(act.Participants, email)
	s.roster[name] = act
	writeMessage(w, fmt.Sprintf("Signed up %s for %s", email, name))
}

func (s *Server) unregister(w http.ResponseWriter, r *http.Request, name string) {
	email, err := requestEmail(r)
	if err != nil || email == "" {
		writeError(w, http.StatusBadRequest, "Missing email")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	act, ok := s.roster[name]
	if !ok {
		writeError(w, http.StatusNotFound, "Activity not found")
		return
	}
	for i, existing := range act.Participants {
		if existing == email {
			act.Participants = append(act.Participants[:i], act.Participants[i+1:]...)
			s.roster[name] = act
			writeMessage(w, fmt.Sprintf("Unregistered %s from %s", email, name))
			return
		}
	}
	writeError(w, http.StatusBadRequest, "Student is not registered for this activity")
}

// requestEmail accepts the email from the query string (how the original
// service was called) or a form-encoded body (how this client calls it).
// DELETE bodies are parsed by hand since net/http only form-parses POST-family
// methods.
func requestEmail(r *http.Request) (string, error) {
	if email := r.URL.Query().Get("email"); email != "" {
		return email, nil
	}

	ct, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || ct != "application/x-www-form-urlencoded" {
		return "", nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return "", err
	}
	form, err := url.ParseQuery(string(body))
	if err != nil {
		return "", err
	}
	return form.Get("email"), nil
}

// pathSegment percent-decodes one path segment, tolerating raw input.
func pathSegment(raw string) string {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Start serves s on an ephemeral localhost port, returning the base URL and
// a stop function. Used by the demo command; tests prefer httptest.
func (s *Server) Start() (string, func(), error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, err
	}
	srv := &http.Server{Handler: s}
	go func() {
		_ = srv.Serve(ln)
	}()
	stop := func() {
		_ = srv.Close()
	}
	return "http://" + ln.Addr().String(), stop, nil
}
